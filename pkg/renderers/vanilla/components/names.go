package components

import "github.com/goliatone/go-dynaform/pkg/schema"

// Canonical component names, one per field kind.
const (
	NameText     = string(schema.KindText)
	NameNumber   = string(schema.KindNumber)
	NameTextarea = string(schema.KindTextarea)
	NameDropdown = string(schema.KindDropdown)
	NameRadio    = string(schema.KindRadio)
	NameCheckbox = string(schema.KindCheckbox)
	NameSlider   = string(schema.KindSlider)
)
