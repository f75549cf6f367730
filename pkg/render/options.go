package render

import (
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-dynaform/pkg/engine"
)

// RenderOptions describe per-request data that renderers can use to customise
// their output without touching engine state.
type RenderOptions struct {
	// Action is the submit target. Empty posts back to the current URL.
	Action string
	// ChangeAction receives single-field updates from the browser runtime.
	// Empty disables write-through on input.
	ChangeAction string
	// Notice is the outcome of the last submit, shown above the form.
	Notice engine.Notice
	// Hidden carries extra inputs such as the session id.
	Hidden []HiddenField
	// Theme supplies design tokens, CSS variables and partial overrides.
	Theme *theme.RendererConfig
	// Standalone wraps the form in a full HTML document.
	Standalone bool
}
