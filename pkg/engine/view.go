package engine

import (
	"context"

	"github.com/goliatone/go-dynaform/pkg/field"
	"github.com/goliatone/go-dynaform/pkg/values"
)

// GroupView is a rendered group of controls.
type GroupView struct {
	Title    string          `json:"title"`
	Controls []field.Control `json:"controls"`
}

// View is the rendered state of the whole form.
type View struct {
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Groups      []GroupView `json:"groups"`
}

// Controls renders one control per declared field, grouped and in schema
// order. Input on a control is routed back through Change using ctx.
func (e *Engine) Controls(ctx context.Context) []GroupView {
	onChange := func(name string, v values.Value) {
		if err := e.Change(ctx, name, v); err != nil {
			e.logger.Sugar().Warnw("control change failed", "field", name, "error", err)
		}
	}
	groups := make([]GroupView, 0, len(e.form.Groups))
	for _, group := range e.form.Groups {
		gv := GroupView{Title: group.Title, Controls: make([]field.Control, 0, len(group.Fields))}
		for _, f := range group.Fields {
			name := f.Meta().Name
			ctrl, ok := field.Render(f, e.values.Get(name), e.touched[name], onChange)
			if !ok {
				continue
			}
			gv.Controls = append(gv.Controls, ctrl)
		}
		groups = append(groups, gv)
	}
	return groups
}

// Control renders a single field by name.
func (e *Engine) Control(ctx context.Context, name string) (field.Control, bool) {
	for _, group := range e.Controls(ctx) {
		for _, ctrl := range group.Controls {
			if ctrl.Name == name {
				return ctrl, true
			}
		}
	}
	return field.Control{}, false
}

// View renders the form chrome together with its controls.
func (e *Engine) View(ctx context.Context) View {
	return View{
		Title:       e.form.Title,
		Description: e.form.Description,
		Groups:      e.Controls(ctx),
	}
}
