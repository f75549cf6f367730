package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/bndr/gotabulate"
	"go.uber.org/zap"

	"github.com/goliatone/go-dynaform/pkg/engine"
	"github.com/goliatone/go-dynaform/pkg/field"
	"github.com/goliatone/go-dynaform/pkg/render"
	"github.com/goliatone/go-dynaform/pkg/schema"
	"github.com/goliatone/go-dynaform/pkg/values"
)

const defaultMaxAttempts = 3

// Renderer drives a form from the terminal. Fill prompts every field through
// the engine's change path and submits; Render prints a read-only summary.
type Renderer struct {
	driver            PromptDriver
	out               io.Writer
	outputFormat      OutputFormat
	maxAttempts       int
	confirm           bool
	submitTransformer SubmitTransformer
	theme             Theme
	logger            *zap.Logger
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		maxAttempts:  defaultMaxAttempts,
		theme:        Theme{ErrorPrefix: "✗ ", InfoPrefix: "✓ "},
		logger:       zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = newSurveyDriver(r.out)
	}
	switch r.outputFormat {
	case OutputFormatJSON, OutputFormatFormURLEncoded, OutputFormatPrettyText:
	default:
		return nil, fmt.Errorf("tui: unsupported output format %q", r.outputFormat)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Fill.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render prints the view as a grid table, one row per control, followed by
// the notice when present.
func (r *Renderer) Render(ctx context.Context, view engine.View, opts render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var b strings.Builder
	b.WriteString(view.Title)
	b.WriteString("\n")
	for _, group := range view.Groups {
		rows := make([][]any, 0, len(group.Controls))
		for _, ctrl := range group.Controls {
			rows = append(rows, []any{labelOf(ctrl), ctrl.Display, ctrl.Error})
		}
		b.WriteString(group.Title)
		b.WriteString(":\n")
		b.WriteString(table([]string{"Field", "Value", "Error"}, rows))
	}
	if !opts.Notice.IsZero() {
		b.WriteString(r.noticeLine(opts.Notice))
		b.WriteString("\n")
	}
	return []byte(b.String()), nil
}

// Fill prompts for every field, submits, and re-prompts the missing required
// fields until the submit is accepted or the attempts are exhausted. The
// accepted map is serialized in the configured output format.
func (r *Renderer) Fill(ctx context.Context, eng *engine.Engine) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if eng == nil {
		return nil, errors.New("tui: engine is nil")
	}

	form := eng.Form()
	if form.Title != "" {
		if err := r.driver.Info(ctx, form.Title); err != nil {
			return nil, err
		}
	}
	for _, group := range form.Groups {
		if group.Title != "" {
			if err := r.driver.Info(ctx, "== "+group.Title+" =="); err != nil {
				return nil, err
			}
		}
		for _, f := range group.Fields {
			if err := r.promptField(ctx, eng, f.Meta().Name); err != nil {
				return nil, err
			}
		}
	}

	if r.confirm {
		ok, err := r.driver.Confirm(ctx, ConfirmConfig{Message: "Submit?", Default: true})
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrDeclined
		}
	}

	for attempt := 1; ; attempt++ {
		res, err := eng.Submit(ctx)
		if err != nil {
			return nil, err
		}
		if err := r.driver.Info(ctx, r.noticeLine(res.Notice)); err != nil {
			return nil, err
		}
		if res.Valid {
			break
		}
		r.logger.Debug("submit rejected", zap.Int("attempt", attempt), zap.Strings("missing", res.Missing))
		if attempt >= r.maxAttempts {
			return nil, fmt.Errorf("%w: %s", ErrSubmitRejected, strings.Join(res.Missing, ", "))
		}
		for _, name := range res.Missing {
			if err := r.promptField(ctx, eng, name); err != nil {
				return nil, err
			}
		}
	}

	collected := eng.Values()
	if r.submitTransformer != nil {
		var err error
		collected, err = r.submitTransformer(collected)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}
	return r.serialize(eng.Form(), collected)
}

func (r *Renderer) promptField(ctx context.Context, eng *engine.Engine, name string) error {
	ctrl, ok := eng.Control(ctx, name)
	if !ok {
		return fmt.Errorf("tui: no control for field %q", name)
	}

	var err error
	switch f := ctrl.Field().(type) {
	case schema.TextField, schema.NumberField:
		err = r.promptInput(ctx, eng, ctrl)
	case schema.TextareaField:
		err = r.promptTextArea(ctx, eng, ctrl)
	case schema.DropdownField:
		err = r.promptSelect(ctx, eng, ctrl)
	case schema.RadioField:
		err = r.promptSelect(ctx, eng, ctrl)
	case schema.CheckboxField:
		err = r.promptCheckbox(ctx, eng, ctrl)
	case schema.SliderField:
		err = r.promptSlider(ctx, eng, ctrl, f)
	default:
		return nil
	}
	if err != nil {
		return err
	}

	if after, ok := eng.Control(ctx, name); ok && after.Error != "" {
		return r.driver.Info(ctx, r.theme.ErrorPrefix+after.Error)
	}
	return nil
}

func (r *Renderer) promptInput(ctx context.Context, eng *engine.Engine, ctrl field.Control) error {
	for {
		raw, err := r.driver.Input(ctx, InputConfig{
			Message: labelOf(ctrl),
			Default: ctrl.Display,
			Help:    helpFor(ctrl),
		})
		if err != nil {
			return err
		}
		accepted, err := eng.Input(ctx, ctrl.Name, raw)
		if err != nil {
			return err
		}
		if accepted {
			return nil
		}
		if err := r.driver.Info(ctx, r.theme.ErrorPrefix+rejectionFor(ctrl)); err != nil {
			return err
		}
	}
}

func (r *Renderer) promptTextArea(ctx context.Context, eng *engine.Engine, ctrl field.Control) error {
	raw, err := r.driver.TextArea(ctx, TextAreaConfig{
		Message: labelOf(ctrl),
		Default: ctrl.Display,
		Help:    helpFor(ctrl),
	})
	if err != nil {
		return err
	}
	_, err = eng.Input(ctx, ctrl.Name, raw)
	return err
}

func (r *Renderer) promptSelect(ctx context.Context, eng *engine.Engine, ctrl field.Control) error {
	labels := make([]string, 0, len(ctrl.Options))
	defaultIdx := -1
	for i, opt := range ctrl.Options {
		labels = append(labels, opt.Label)
		if opt.Selected {
			defaultIdx = i
		}
	}
	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      labelOf(ctrl),
		Options:      labels,
		DefaultIndex: defaultIdx,
		Help:         helpFor(ctrl),
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(ctrl.Options) {
		return nil
	}
	return eng.Change(ctx, ctrl.Name, values.Text(ctrl.Options[idx].Value))
}

// promptCheckbox applies the difference between the current and the chosen
// selection as toggles, so option order follows the order of selection.
func (r *Renderer) promptCheckbox(ctx context.Context, eng *engine.Engine, ctrl field.Control) error {
	labels := make([]string, 0, len(ctrl.Options))
	var defaults []int
	for i, opt := range ctrl.Options {
		labels = append(labels, opt.Label)
		if opt.Selected {
			defaults = append(defaults, i)
		}
	}
	chosen, err := r.driver.MultiSelect(ctx, SelectConfig{
		Message:  labelOf(ctrl),
		Options:  labels,
		Defaults: defaults,
		Help:     helpFor(ctrl),
	})
	if err != nil {
		return err
	}
	want := make(map[int]bool, len(chosen))
	for _, idx := range chosen {
		want[idx] = true
	}

	current, _ := ctrl.Value.(values.Selection)
	next := current
	changed := false
	for i, opt := range ctrl.Options {
		if opt.Selected != want[i] {
			next = next.Toggle(opt.Value)
			changed = true
		}
	}
	if !changed && eng.Value(ctrl.Name) != nil {
		return nil
	}
	if next == nil {
		next = values.Selection{}
	}
	return eng.Change(ctx, ctrl.Name, next)
}

func (r *Renderer) promptSlider(ctx context.Context, eng *engine.Engine, ctrl field.Control, f schema.SliderField) error {
	for {
		raw, err := r.driver.Input(ctx, InputConfig{
			Message: labelOf(ctrl),
			Default: ctrl.Display,
			Help:    fmt.Sprintf("%s to %s, step %s", ctrl.Min, ctrl.Max, ctrl.Step),
		})
		if err != nil {
			return err
		}
		n, perr := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if perr == nil && n >= f.Min && n <= f.Max {
			return eng.Change(ctx, ctrl.Name, values.Number(n))
		}
		msg := fmt.Sprintf("enter a number between %s and %s", ctrl.Min, ctrl.Max)
		if err := r.driver.Info(ctx, r.theme.ErrorPrefix+msg); err != nil {
			return err
		}
	}
}

func (r *Renderer) serialize(form schema.Form, m values.Map) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		encoded := url.Values{}
		for _, name := range m.Keys() {
			switch v := m[name].(type) {
			case values.Selection:
				for _, item := range v {
					encoded.Add(name, item)
				}
			default:
				encoded.Set(name, v.String())
			}
		}
		return []byte(encoded.Encode()), nil
	case OutputFormatPrettyText:
		rows := make([][]any, 0, len(m))
		for _, f := range form.Fields() {
			meta := f.Meta()
			v := m.Get(meta.Name)
			if v == nil {
				continue
			}
			rows = append(rows, []any{meta.Label, v.String()})
		}
		return []byte(table([]string{"Field", "Value"}, rows)), nil
	default:
		out, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("tui: encode values: %w", err)
		}
		return out, nil
	}
}

func (r *Renderer) noticeLine(n engine.Notice) string {
	if n.Level == engine.NoticeError {
		return r.theme.ErrorPrefix + n.Message
	}
	return r.theme.InfoPrefix + n.Message
}

// table renders rows as a grid; gotabulate needs at least one row.
func table(headers []string, rows [][]any) string {
	if len(rows) == 0 {
		return "(no values)\n"
	}
	t := gotabulate.Create(rows)
	t.SetHeaders(headers)
	t.SetAlign("left")
	t.SetWrapStrings(true)
	t.SetMaxCellSize(60)
	return t.Render("grid")
}

func labelOf(ctrl field.Control) string {
	if ctrl.Required {
		return ctrl.Label + " *"
	}
	return ctrl.Label
}

func helpFor(ctrl field.Control) string {
	if ctrl.Placeholder != "" {
		return ctrl.Placeholder
	}
	return ctrl.Error
}

func rejectionFor(ctrl field.Control) string {
	switch {
	case ctrl.MaxLength > 0:
		return fmt.Sprintf("only digits, at most %d", ctrl.MaxLength)
	case ctrl.Kind == schema.KindNumber:
		return "enter a number"
	default:
		return "value not accepted"
	}
}
