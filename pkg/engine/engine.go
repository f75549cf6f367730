// Package engine holds the live state of a form: the value map, the touched
// map, change handling and submit-time validation.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-dynaform/pkg/field"
	"github.com/goliatone/go-dynaform/pkg/schema"
	"github.com/goliatone/go-dynaform/pkg/values"
)

// ErrUnknownField is returned when a change targets a name the form does not
// declare.
var ErrUnknownField = errors.New("engine: unknown field")

// ErrInvalidValue is returned when a change carries a value whose shape does
// not match the field kind.
var ErrInvalidValue = errors.New("engine: invalid value")

// Engine owns the value and touched maps for one form. It is not safe for
// concurrent use; callers serialise access.
type Engine struct {
	form     schema.Form
	values   values.Map
	touched  map[string]bool
	onSubmit SubmitFunc
	hooks    []ChangeHook
	logger   *zap.Logger
}

// New seeds an engine with initial values. Entries for undeclared names or
// with a shape the field cannot hold are dropped.
func New(form schema.Form, initial values.Map, onSubmit SubmitFunc, opts ...Option) *Engine {
	e := &Engine{
		form:     form,
		touched:  make(map[string]bool),
		onSubmit: onSubmit,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}

	e.values = make(values.Map, len(initial))
	for _, name := range initial.Keys() {
		f, ok := form.Field(name)
		if !ok {
			e.logger.Debug("dropping undeclared stored value", zap.String("field", name))
			continue
		}
		v, ok := Normalize(f, initial[name])
		if !ok {
			e.logger.Debug("dropping stored value with mismatched shape",
				zap.String("field", name), zap.String("kind", string(f.Kind())))
			continue
		}
		e.values[name] = v
	}
	return e
}

// Form returns the schema driving the engine.
func (e *Engine) Form() schema.Form {
	return e.form
}

// Values returns a copy of the current value map.
func (e *Engine) Values() values.Map {
	return e.values.Clone()
}

// Value returns the current value for name, or nil.
func (e *Engine) Value(name string) values.Value {
	return e.values.Get(name)
}

// Touched reports whether name has been changed or swept by a submit.
func (e *Engine) Touched(name string) bool {
	return e.touched[name]
}

// Change replaces the entry for name, marks it touched and runs the change
// hooks with the new map. Hook errors are returned after the state has been
// committed.
func (e *Engine) Change(ctx context.Context, name string, v values.Value) error {
	f, ok := e.form.Field(name)
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownField, name)
	}
	normalized, ok := Normalize(f, v)
	if !ok {
		return fmt.Errorf("%w for %s field %q", ErrInvalidValue, f.Kind(), name)
	}

	e.values = e.values.With(name, normalized)
	next := make(map[string]bool, len(e.touched)+1)
	for k, t := range e.touched {
		next[k] = t
	}
	next[name] = true
	e.touched = next

	e.logger.Debug("field changed", zap.String("field", name))
	return e.runHooks(ctx)
}

// Input routes raw text through the field's input shaping before calling
// Change. It reports false, with a nil error, when the shaping rejects raw.
func (e *Engine) Input(ctx context.Context, name, raw string) (bool, error) {
	f, ok := e.form.Field(name)
	if !ok {
		return false, fmt.Errorf("%w %q", ErrUnknownField, name)
	}
	v, ok := field.Accept(f, raw)
	if !ok {
		return false, nil
	}
	return true, e.Change(ctx, name, v)
}

// Result describes the outcome of a submit.
type Result struct {
	Valid   bool     `json:"valid"`
	Missing []string `json:"missing,omitempty"`
	Notice  Notice   `json:"notice"`
}

// Submit marks every field touched and checks that each required field is
// non-empty. Only required-ness gates the callback; phone and year format
// errors remain visible on the controls but do not block a submit. The value
// map is never cleared.
func (e *Engine) Submit(ctx context.Context) (Result, error) {
	all := make(map[string]bool, len(e.touched))
	var missing []string
	for _, f := range e.form.Fields() {
		meta := f.Meta()
		all[meta.Name] = true
		if meta.Required && values.IsEmpty(e.values.Get(meta.Name)) {
			missing = append(missing, meta.Name)
		}
	}
	e.touched = all

	if len(missing) > 0 {
		e.logger.Info("submit rejected", zap.Strings("missing", missing))
		return Result{Missing: missing, Notice: FailureNotice()}, nil
	}

	if e.onSubmit != nil {
		if err := e.onSubmit(ctx, e.values.Clone()); err != nil {
			return Result{}, fmt.Errorf("engine: submit callback: %w", err)
		}
	}
	e.logger.Info("submit accepted", zap.Int("values", len(e.values)))
	return Result{Valid: true, Notice: SuccessNotice()}, nil
}

func (e *Engine) runHooks(ctx context.Context) error {
	if len(e.hooks) == 0 {
		return nil
	}
	snapshot := e.values.Clone()
	var errs []error
	for _, hook := range e.hooks {
		if err := hook(ctx, snapshot); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("engine: change hook: %w", errors.Join(errs...))
	}
	return nil
}

// Normalize coerces v into the shape held by f's kind. Numbers typed into
// number fields are kept as numeric strings; slider positions are numbers;
// checkbox values are selections.
func Normalize(f schema.Field, v values.Value) (values.Value, bool) {
	if v == nil {
		return nil, false
	}
	switch f.(type) {
	case schema.TextField, schema.TextareaField, schema.DropdownField, schema.RadioField:
		t, ok := v.(values.Text)
		return t, ok
	case schema.NumberField:
		switch val := v.(type) {
		case values.Text:
			return val, true
		case values.Number:
			return values.Text(val.String()), true
		}
	case schema.CheckboxField:
		sel, ok := v.(values.Selection)
		if !ok {
			return nil, false
		}
		out := make(values.Selection, len(sel))
		copy(out, sel)
		return out, true
	case schema.SliderField:
		switch val := v.(type) {
		case values.Number:
			return val, true
		case values.Text:
			n, err := strconv.ParseFloat(strings.TrimSpace(string(val)), 64)
			if err != nil {
				return nil, false
			}
			return values.Number(n), true
		}
	}
	return nil, false
}
