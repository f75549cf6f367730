package vanilla_test

import (
	"context"
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-dynaform/pkg/engine"
	"github.com/goliatone/go-dynaform/pkg/render"
	"github.com/goliatone/go-dynaform/pkg/renderers/vanilla"
	"github.com/goliatone/go-dynaform/pkg/schema"
	"github.com/goliatone/go-dynaform/pkg/values"
)

func sampleEngine() *engine.Engine {
	min, max := 1950.0, 2024.0
	form := schema.Form{
		Title:       "Student Profile",
		Description: `Tell us <b>about</b> yourself<script>alert(1)</script>`,
		Groups: []schema.Group{
			{
				Title: "Personal",
				Fields: []schema.Field{
					schema.TextField{FieldMeta: schema.FieldMeta{Name: "name", Label: "Name", Required: true, Placeholder: "Ada"}},
					schema.TextField{FieldMeta: schema.FieldMeta{Name: "phoneNumber", Label: "Phone Number"}},
					schema.TextareaField{FieldMeta: schema.FieldMeta{Name: "bio", Label: "Bio"}},
				},
			},
			{
				Title: "Education",
				Fields: []schema.Field{
					schema.NumberField{FieldMeta: schema.FieldMeta{Name: "graduationYear", Label: "Graduation Year"}, Min: &min, Max: &max},
					schema.DropdownField{FieldMeta: schema.FieldMeta{Name: "degree", Label: "Degree"}, Options: []schema.Option{{Label: "BSc", Value: "BSc"}, {Label: "MSc", Value: "MSc"}}},
					schema.RadioField{FieldMeta: schema.FieldMeta{Name: "mode", Label: "Mode"}, Options: []schema.Option{{Label: "Full time", Value: "full"}, {Label: "Part time", Value: "part"}}},
					schema.CheckboxField{FieldMeta: schema.FieldMeta{Name: "skills", Label: "Skills"}, Options: []schema.Option{{Label: "Go", Value: "go"}, {Label: "SQL", Value: "sql"}}},
					schema.SliderField{FieldMeta: schema.FieldMeta{Name: "confidence", Label: "Confidence"}, Min: 0, Max: 10, Step: 1},
				},
			},
		},
	}
	return engine.New(form, values.Map{
		"degree": values.Text("MSc"),
		"mode":   values.Text("part"),
		"skills": values.Selection{"sql"},
		"bio":    values.Text("<i>hi</i>"),
	}, nil)
}

func renderView(t *testing.T, eng *engine.Engine, opts render.RenderOptions) string {
	t.Helper()
	r, err := vanilla.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := r.Render(context.Background(), eng.View(context.Background()), opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func assertContains(t *testing.T, html string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(html, fragment) {
			t.Fatalf("expected output to contain %q\n%s", fragment, html)
		}
	}
}

func TestRender_FieldMarkupPerKind(t *testing.T) {
	html := renderView(t, sampleEngine(), render.RenderOptions{})

	assertContains(t, html,
		`<h1>Student Profile</h1>`,
		`<h2>Personal</h2>`,
		`<h2>Education</h2>`,
		`type="tel"`, `inputmode="numeric"`, `pattern="[0-9]*"`, `maxlength="10"`,
		`type="number"`, `min="1950"`, `max="2024"`,
		`rows="4"`, `&lt;i&gt;hi&lt;/i&gt;</textarea>`,
		`<option value="MSc" selected>MSc</option>`,
		`value="part" checked`,
		`value="sql" checked`,
		`type="range"`, `step="1"`, `<output for="field-confidence">0</output>`,
		`<button type="submit">Submit</button>`,
	)
	if strings.Contains(html, "dynaform-error") {
		t.Fatalf("untouched form shows errors\n%s", html)
	}
}

func TestRender_SanitisesDescription(t *testing.T) {
	html := renderView(t, sampleEngine(), render.RenderOptions{})
	assertContains(t, html, `Tell us <b>about</b> yourself`)
	if strings.Contains(html, "<script>alert") {
		t.Fatalf("description script survived sanitising")
	}
}

func TestRender_ErrorsAndNoticeAfterFailedSubmit(t *testing.T) {
	ctx := context.Background()
	eng := sampleEngine()
	res, err := eng.Submit(ctx)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	html := renderView(t, eng, render.RenderOptions{Notice: res.Notice})
	assertContains(t, html,
		`Please fill in all required fields before submitting.`,
		`role="alert"`,
		`Name is required`,
		`Please enter a valid mobile number (10 digits)`,
		`Please enter a year between 1950 and 2024`,
		`aria-invalid="true"`,
	)
}

func TestRender_StandaloneWithThemeAndHidden(t *testing.T) {
	cfg := &theme.RendererConfig{
		Theme:   "acme",
		Variant: "dark",
		Tokens:  map[string]string{"accent": "#123456"},
		AssetURL: func(key string) string {
			return "/assets/" + key
		},
	}
	html := renderView(t, sampleEngine(), render.RenderOptions{
		Action:       "/submit",
		ChangeAction: "/change",
		Standalone:   true,
		Theme:        cfg,
		Hidden:       []render.HiddenField{render.SessionField("session", "abc")},
	})

	assertContains(t, html,
		`<!DOCTYPE html>`,
		`<title>Student Profile</title>`,
		`href="/assets/dynaform-vanilla.css"`,
		`action="/submit"`,
		`data-change-action="/change"`,
		`data-theme="acme"`,
		`--dynaform-accent: #123456;`,
		`<input type="hidden" name="session" value="abc">`,
		`<script src="/assets/dynaform-runtime.js" defer></script>`,
	)
}

func TestRender_ThemePartialOverride(t *testing.T) {
	cfg := &theme.RendererConfig{
		Partials: map[string]string{"fields.slider": "templates/fields/number.tmpl"},
	}
	html := renderView(t, sampleEngine(), render.RenderOptions{Theme: cfg})
	if strings.Contains(html, `type="range"`) {
		t.Fatalf("slider partial override ignored")
	}
}

func TestAssetsFS(t *testing.T) {
	for _, name := range []string{vanilla.StylesheetName, vanilla.RuntimeScriptName} {
		f, err := vanilla.AssetsFS().Open(name)
		if err != nil {
			t.Fatalf("open %s: %v", name, err)
		}
		f.Close()
	}
}
