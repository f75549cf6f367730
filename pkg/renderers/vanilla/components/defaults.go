package components

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goliatone/go-dynaform/pkg/field"
)

const (
	templatePrefix = "templates/fields/"

	// RuntimeScript is the browser helper that posts single-field changes and
	// keeps slider value labels in sync.
	RuntimeScript = "dynaform-runtime.js"
)

// NewDefaultRegistry constructs a registry with one template-backed component
// per field kind.
func NewDefaultRegistry() *Registry {
	registry := New()
	runtime := []Script{{Src: RuntimeScript, Defer: true}}

	registry.MustRegister(NameText, Descriptor{
		Renderer: templateComponentRenderer("fields.text", templatePrefix+"text.tmpl"),
		Scripts:  runtime,
	})
	registry.MustRegister(NameNumber, Descriptor{
		Renderer: templateComponentRenderer("fields.number", templatePrefix+"number.tmpl"),
		Scripts:  runtime,
	})
	registry.MustRegister(NameTextarea, Descriptor{
		Renderer: templateComponentRenderer("fields.textarea", templatePrefix+"textarea.tmpl"),
		Scripts:  runtime,
	})
	registry.MustRegister(NameDropdown, Descriptor{
		Renderer: templateComponentRenderer("fields.dropdown", templatePrefix+"dropdown.tmpl"),
		Scripts:  runtime,
	})
	registry.MustRegister(NameRadio, Descriptor{
		Renderer: templateComponentRenderer("fields.radio", templatePrefix+"radio.tmpl"),
		Scripts:  runtime,
	})
	registry.MustRegister(NameCheckbox, Descriptor{
		Renderer: templateComponentRenderer("fields.checkbox", templatePrefix+"checkbox.tmpl"),
		Scripts:  runtime,
	})
	registry.MustRegister(NameSlider, Descriptor{
		Renderer: templateComponentRenderer("fields.slider", templatePrefix+"slider.tmpl"),
		Scripts:  runtime,
	})

	return registry
}

func templateComponentRenderer(partialKey, templateName string) Renderer {
	return func(buf *bytes.Buffer, ctrl field.Control, data ComponentData) error {
		if data.Template == nil {
			return fmt.Errorf("components: template renderer not configured for %q", templateName)
		}

		resolvedTemplate := templateName
		if data.ThemePartials != nil {
			if candidate := strings.TrimSpace(data.ThemePartials[partialKey]); candidate != "" {
				resolvedTemplate = candidate
			}
		}

		payload := map[string]any{
			"control": ctrl,
			"classes": data.Classes,
		}
		rendered, err := data.Template.RenderTemplate(resolvedTemplate, payload)
		if err != nil {
			return fmt.Errorf("components: render template %q: %w", templateName, err)
		}
		buf.WriteString(rendered)
		return nil
	}
}
