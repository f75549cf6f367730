// Package dynaform renders forms described by a JSON or YAML group/field
// document. The root package wires the schema loader, the engine and the
// built-in renderers for callers that only need the common path.
package dynaform

import (
	"context"
	"fmt"
	"io/fs"

	internalLoader "github.com/goliatone/go-dynaform/internal/schema/loader"
	"github.com/goliatone/go-dynaform/pkg/engine"
	"github.com/goliatone/go-dynaform/pkg/render"
	"github.com/goliatone/go-dynaform/pkg/renderers/jsonview"
	"github.com/goliatone/go-dynaform/pkg/renderers/vanilla"
	"github.com/goliatone/go-dynaform/pkg/schema"
	"github.com/goliatone/go-dynaform/pkg/values"
)

// RenderOptions aliases render.RenderOptions.
type RenderOptions = render.RenderOptions

// NewLoader constructs a loader using the internal implementation while keeping
// the concrete type hidden from consumers.
func NewLoader(options ...schema.LoaderOption) schema.Loader {
	return internalLoader.New(schema.NewLoaderOptions(options...))
}

// LoadForm loads and decodes the form document behind src.
func LoadForm(ctx context.Context, src schema.Source, loader schema.Loader, options ...schema.DecodeOption) (schema.Form, error) {
	if loader == nil {
		loader = NewLoader()
	}
	doc, err := loader.Load(ctx, src)
	if err != nil {
		return schema.Form{}, err
	}
	return schema.DecodeDocument(doc, options...)
}

// NewRegistry returns a registry holding the vanilla HTML and JSON renderers.
func NewRegistry(options ...vanilla.Option) (*render.Registry, error) {
	html, err := vanilla.New(options...)
	if err != nil {
		return nil, err
	}
	registry := render.NewRegistry()
	if err := registry.Register(html); err != nil {
		return nil, err
	}
	if err := registry.Register(jsonview.New()); err != nil {
		return nil, err
	}
	return registry, nil
}

// Render draws form seeded with initial through the named renderer. No
// field is touched, so no errors are shown.
func Render(ctx context.Context, form schema.Form, initial values.Map, rendererName string, opts RenderOptions) ([]byte, error) {
	registry, err := NewRegistry()
	if err != nil {
		return nil, fmt.Errorf("dynaform: %w", err)
	}
	eng := engine.New(form, initial, nil)
	out, _, err := registry.Render(ctx, rendererName, eng.View(ctx), opts)
	return out, err
}

// EmbeddedTemplates exposes the built-in vanilla renderer templates so callers
// can reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// AssetsFS exposes the stylesheet and browser runtime used by the HTML
// renderer.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(dynaform.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return vanilla.AssetsFS()
}
