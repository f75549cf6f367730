// Package jsonview renders a form view as JSON for API clients and headless
// front-ends.
package jsonview

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-dynaform/pkg/engine"
	"github.com/goliatone/go-dynaform/pkg/render"
)

// Option configures the renderer.
type Option func(*Renderer)

// WithIndent pretty-prints the payload using indent per level.
func WithIndent(indent string) Option {
	return func(r *Renderer) {
		r.indent = indent
	}
}

// Renderer implements render.Renderer with a JSON document.
type Renderer struct {
	indent string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a JSON renderer.
func New(options ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Renderer) Name() string {
	return "json"
}

func (r *Renderer) ContentType() string {
	return "application/json"
}

type document struct {
	engine.View
	Notice *engine.Notice       `json:"notice,omitempty"`
	Errors *render.ErrorMapping `json:"errors,omitempty"`
	Hidden map[string]string    `json:"hidden,omitempty"`
}

// Render encodes the view together with its notice and collected errors.
func (r *Renderer) Render(ctx context.Context, view engine.View, opts render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc := document{
		View:   view,
		Hidden: render.HiddenMap(opts.Hidden...),
	}
	if !opts.Notice.IsZero() {
		notice := opts.Notice
		doc.Notice = &notice
	}
	if errs := render.CollectErrors(view, opts.Notice); !errs.Empty() {
		doc.Errors = &errs
	}

	var (
		out []byte
		err error
	)
	if r.indent != "" {
		out, err = json.MarshalIndent(doc, "", r.indent)
	} else {
		out, err = json.Marshal(doc)
	}
	if err != nil {
		return nil, fmt.Errorf("jsonview: encode: %w", err)
	}
	return out, nil
}
