// Package field turns a field descriptor, its current value and its touched
// flag into a Control: the display attributes, the inline error and the input
// shaping rules for that single field.
package field

import (
	"github.com/goliatone/go-dynaform/pkg/schema"
	"github.com/goliatone/go-dynaform/pkg/values"
)

// Inline error messages.
const (
	PhoneMessage          = "Please enter a valid mobile number (10 digits)"
	GraduationYearMessage = "Please enter a year between 1950 and 2024"
	requiredSuffix        = " is required"
)

// Phone and graduation-year constraints.
const (
	PhoneDigits       = 10
	GraduationYearMin = 1950
	GraduationYearMax = 2024
)

// TextareaRows is the fixed height of textarea controls.
const TextareaRows = 4

// ChangeFunc receives the accepted value of a field.
type ChangeFunc func(name string, value values.Value)

// Option is a renderable choice with its selection state.
type Option struct {
	Label    string `json:"label"`
	Value    string `json:"value"`
	Selected bool   `json:"selected,omitempty"`
}

// Control is the rendered view of a single field. Attribute strings are
// preformatted so templates can print them verbatim.
type Control struct {
	Kind        schema.Kind  `json:"kind"`
	Name        string       `json:"name"`
	Label       string       `json:"label"`
	Placeholder string       `json:"placeholder,omitempty"`
	Required    bool         `json:"required,omitempty"`
	Value       values.Value `json:"-"`
	Display     string       `json:"value"`

	InputType string `json:"inputType,omitempty"`
	InputMode string `json:"inputMode,omitempty"`
	Pattern   string `json:"pattern,omitempty"`
	MaxLength int    `json:"maxLength,omitempty,string"`
	Min       string `json:"min,omitempty"`
	Max       string `json:"max,omitempty"`
	Step      string `json:"step,omitempty"`
	Rows      int    `json:"rows,omitempty,string"`

	Options []Option `json:"options,omitempty"`

	Touched bool   `json:"touched,omitempty"`
	Invalid bool   `json:"invalid,omitempty"`
	Error   string `json:"error,omitempty"`

	field    schema.Field
	onChange ChangeFunc
}

// Field returns the descriptor the control was rendered from.
func (c Control) Field() schema.Field {
	return c.field
}

// Input offers raw text to a text, number, textarea, dropdown or radio
// control. It returns false when the input is rejected by the field's shaping
// rules, in which case the change callback is not invoked.
func (c Control) Input(raw string) bool {
	v, ok := Accept(c.field, raw)
	if !ok {
		return false
	}
	c.emit(v)
	return true
}

// Toggle flips option membership on a checkbox control.
func (c Control) Toggle(option string) bool {
	f, ok := c.field.(schema.CheckboxField)
	if !ok || !hasOption(f.Options, option) {
		return false
	}
	current, _ := c.Value.(values.Selection)
	c.emit(current.Toggle(option))
	return true
}

// Slide moves a slider control. Positions outside [min, max] are rejected.
func (c Control) Slide(n float64) bool {
	f, ok := c.field.(schema.SliderField)
	if !ok || n < f.Min || n > f.Max {
		return false
	}
	c.emit(values.Number(n))
	return true
}

func (c Control) emit(v values.Value) {
	if c.onChange != nil {
		c.onChange(c.Name, v)
	}
}

func hasOption(opts []schema.Option, value string) bool {
	for _, opt := range opts {
		if opt.Value == value {
			return true
		}
	}
	return false
}
