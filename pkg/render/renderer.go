package render

import (
	"context"

	"github.com/goliatone/go-dynaform/pkg/engine"
)

// Renderer converts the rendered state of a form into bytes (HTML, JSON, a
// terminal transcript).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view engine.View, options RenderOptions) ([]byte, error)
}
