package server

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/goliatone/go-dynaform/pkg/engine"
	"github.com/goliatone/go-dynaform/pkg/schema"
	"github.com/goliatone/go-dynaform/pkg/values"
)

// rejectedError reports posted input that the field's shaping refused.
type rejectedError struct {
	field string
}

func (e *rejectedError) Error() string {
	return fmt.Sprintf("server: input for field %q was rejected", e.field)
}

// applyRaw routes browser input to the engine. Sliders post their position
// as text and are clamped to the declared range; every other kind goes
// through the field's input shaping.
func applyRaw(ctx context.Context, eng *engine.Engine, f schema.Field, raw string) (bool, error) {
	name := f.Meta().Name
	switch f := f.(type) {
	case schema.SliderField:
		n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return false, nil
		}
		return true, eng.Change(ctx, name, values.Number(clamp(f, n)))
	case schema.CheckboxField:
		return false, nil
	default:
		return eng.Input(ctx, name, raw)
	}
}

// applyValue applies a decoded JSON value with the same rules as browser
// input: text goes through input shaping, selections must only name declared
// options and slider positions are clamped. A value of the wrong shape is
// left to the engine, which reports engine.ErrInvalidValue.
func applyValue(ctx context.Context, eng *engine.Engine, f schema.Field, v values.Value) error {
	name := f.Meta().Name
	switch f := f.(type) {
	case schema.CheckboxField:
		sel, ok := v.(values.Selection)
		if !ok {
			return eng.Change(ctx, name, v)
		}
		out := values.Selection{}
		for _, item := range sel {
			if !declared(f.Options, item) {
				return &rejectedError{field: name}
			}
			if !out.Contains(item) {
				out = append(out, item)
			}
		}
		return eng.Change(ctx, name, out)
	case schema.SliderField:
		n, ok := engine.Normalize(f, v)
		if !ok {
			return eng.Change(ctx, name, v)
		}
		return eng.Change(ctx, name, values.Number(clamp(f, float64(n.(values.Number)))))
	}

	var raw string
	switch val := v.(type) {
	case values.Text:
		raw = string(val)
	case values.Number:
		if f.Kind() != schema.KindNumber {
			return eng.Change(ctx, name, v)
		}
		raw = val.String()
	default:
		return eng.Change(ctx, name, v)
	}
	accepted, err := eng.Input(ctx, name, raw)
	if err != nil {
		return err
	}
	if !accepted {
		return &rejectedError{field: name}
	}
	return nil
}

func clamp(f schema.SliderField, n float64) float64 {
	return min(max(n, f.Min), f.Max)
}

func declared(opts []schema.Option, value string) bool {
	return slices.ContainsFunc(opts, func(o schema.Option) bool { return o.Value == value })
}
