package template

import (
	"io"
)

// TemplateRenderer is the seam between HTML renderers and the template
// engine. Names are resolved relative to the engine's template root; the
// rendered text is returned and also copied to every writer in out.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
}
