package field

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-dynaform/pkg/schema"
	"github.com/goliatone/go-dynaform/pkg/testsupport"
	"github.com/goliatone/go-dynaform/pkg/values"
)

type recorder struct {
	calls []values.Value
}

func (r *recorder) change(_ string, v values.Value) {
	r.calls = append(r.calls, v)
}

func phoneField() schema.TextField {
	return schema.TextField{FieldMeta: schema.FieldMeta{Name: "phoneNumber", Label: "Phone Number", Required: true}}
}

func yearField() schema.NumberField {
	return schema.NumberField{FieldMeta: schema.FieldMeta{Name: "graduationYear", Label: "Graduation Year"}}
}

func TestPhoneInput_Shaping(t *testing.T) {
	cases := []struct {
		raw    string
		accept bool
	}{
		{"", true},
		{"0123456789", true},
		{"555", true},
		{"01234567890", false},
		{"555-1234", false},
		{"12a", false},
		{" 123", false},
		{"١٢٣", false},
	}
	for _, tc := range cases {
		rec := &recorder{}
		ctrl, ok := Render(phoneField(), values.Text("12"), false, rec.change)
		if !ok {
			t.Fatalf("render returned nothing")
		}
		if got := ctrl.Input(tc.raw); got != tc.accept {
			t.Fatalf("Input(%q) = %v, want %v", tc.raw, got, tc.accept)
		}
		if tc.accept {
			if diff := cmp.Diff([]values.Value{values.Text(tc.raw)}, rec.calls); diff != "" {
				t.Fatalf("change calls (-want +got):\n%s", diff)
			}
		} else if len(rec.calls) != 0 {
			t.Fatalf("rejected input %q reached change callback", tc.raw)
		}
	}
}

func TestPhoneError(t *testing.T) {
	cases := []struct {
		value   values.Value
		touched bool
		want    string
	}{
		{nil, false, ""},
		{nil, true, PhoneMessage},
		{values.Text("123"), true, PhoneMessage},
		{values.Text("0123456789"), true, ""},
		{values.Text("123"), false, ""},
	}
	for _, tc := range cases {
		ctrl, _ := Render(phoneField(), tc.value, tc.touched, nil)
		if ctrl.Error != tc.want {
			t.Fatalf("value %v touched %v: error %q, want %q", tc.value, tc.touched, ctrl.Error, tc.want)
		}
		if ctrl.Invalid != (tc.want != "") {
			t.Fatalf("value %v touched %v: invalid = %v", tc.value, tc.touched, ctrl.Invalid)
		}
	}
}

func TestPhoneAttributes(t *testing.T) {
	ctrl, _ := Render(phoneField(), nil, false, nil)
	want := Control{InputType: "tel", InputMode: "numeric", Pattern: "[0-9]*", MaxLength: 10}
	got := Control{InputType: ctrl.InputType, InputMode: ctrl.InputMode, Pattern: ctrl.Pattern, MaxLength: ctrl.MaxLength}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreUnexported(Control{})); diff != "" {
		t.Fatalf("phone attributes (-want +got):\n%s", diff)
	}

	plain, _ := Render(schema.TextField{FieldMeta: schema.FieldMeta{Name: "name"}}, nil, false, nil)
	if plain.InputType != "text" || plain.MaxLength != 0 {
		t.Fatalf("plain text field got phone attributes: %+v", plain)
	}
}

func TestPhoneByFormat(t *testing.T) {
	f := schema.TextField{FieldMeta: schema.FieldMeta{Name: "mobile", Label: "Mobile"}, Format: schema.FormatPhone}
	ctrl, _ := Render(f, values.Text("1"), true, nil)
	if ctrl.Error != PhoneMessage {
		t.Fatalf("error = %q, want phone message", ctrl.Error)
	}
	if ctrl.Input("x") {
		t.Fatalf("non-digit accepted on format-designated phone field")
	}
}

func TestGraduationYearError(t *testing.T) {
	cases := map[string]bool{
		"1949": true,
		"2025": true,
		"1950": false,
		"2024": false,
		"1999": false,
		"":     true,
	}
	for raw, wantErr := range cases {
		ctrl, _ := Render(yearField(), values.Text(raw), true, nil)
		if got := ctrl.Error == GraduationYearMessage; got != wantErr {
			t.Fatalf("year %q: error %q, want range error %v", raw, ctrl.Error, wantErr)
		}
	}

	untouched, _ := Render(yearField(), values.Text("1900"), false, nil)
	if untouched.Error != "" {
		t.Fatalf("untouched year shows error %q", untouched.Error)
	}
}

func TestNumberInput_RejectsNonNumeric(t *testing.T) {
	rec := &recorder{}
	ctrl, _ := Render(yearField(), nil, false, rec.change)
	if ctrl.Input("19x0") {
		t.Fatalf("non-numeric accepted")
	}
	if !ctrl.Input("1990") || !ctrl.Input("") {
		t.Fatalf("numeric or empty input rejected")
	}
	if diff := cmp.Diff([]values.Value{values.Text("1990"), values.Text("")}, rec.calls); diff != "" {
		t.Fatalf("change calls (-want +got):\n%s", diff)
	}
}

func TestRequiredMessage(t *testing.T) {
	f := schema.TextareaField{FieldMeta: schema.FieldMeta{Name: "bio", Label: "Bio", Required: true}}
	untouched, _ := Render(f, nil, false, nil)
	if untouched.Error != "" {
		t.Fatalf("untouched field shows error %q", untouched.Error)
	}
	touched, _ := Render(f, values.Text(""), true, nil)
	if touched.Error != "Bio is required" {
		t.Fatalf("error = %q", touched.Error)
	}
	if touched.Rows != TextareaRows {
		t.Fatalf("rows = %d", touched.Rows)
	}
	filled, _ := Render(f, values.Text("hi"), true, nil)
	if filled.Error != "" {
		t.Fatalf("filled field shows error %q", filled.Error)
	}
}

func TestConstraintMessageWinsOverRequired(t *testing.T) {
	ctrl, _ := Render(phoneField(), values.Text(""), true, nil)
	if ctrl.Error != PhoneMessage {
		t.Fatalf("error = %q, want phone message", ctrl.Error)
	}
}

func TestCheckboxToggle(t *testing.T) {
	f := schema.CheckboxField{
		FieldMeta: schema.FieldMeta{Name: "hobbies", Label: "Hobbies", Required: true},
		Options:   []schema.Option{{Label: "Reading", Value: "reading"}, {Label: "Music", Value: "music"}},
	}

	var current values.Value = values.Selection{"music"}
	change := func(_ string, v values.Value) { current = v }

	for i := 0; i < 2; i++ {
		ctrl, _ := Render(f, current, true, change)
		if !ctrl.Toggle("reading") {
			t.Fatalf("toggle rejected")
		}
	}
	if !current.(values.Selection).Equal(values.Selection{"music"}) {
		t.Fatalf("double toggle changed selection: %v", current)
	}

	ctrl, _ := Render(f, current, true, change)
	if ctrl.Toggle("cooking") {
		t.Fatalf("unknown option accepted")
	}
	if ctrl.Input("music") {
		t.Fatalf("checkbox accepted raw input")
	}
	want := []Option{{Label: "Reading", Value: "reading"}, {Label: "Music", Value: "music", Selected: true}}
	if diff := cmp.Diff(want, ctrl.Options); diff != "" {
		t.Fatalf("options (-want +got):\n%s", diff)
	}

	empty, _ := Render(f, values.Selection{}, true, change)
	if empty.Error != "Hobbies is required" {
		t.Fatalf("error = %q", empty.Error)
	}
}

func TestChoiceInput(t *testing.T) {
	dropdown := schema.DropdownField{
		FieldMeta: schema.FieldMeta{Name: "degree", Label: "Degree"},
		Options:   []schema.Option{{Label: "BSc", Value: "BSc"}, {Label: "MSc", Value: "MSc"}},
	}
	radio := schema.RadioField{
		FieldMeta: schema.FieldMeta{Name: "gender", Label: "Gender"},
		Options:   []schema.Option{{Label: "Female", Value: "f"}, {Label: "Male", Value: "m"}},
	}

	d, _ := Render(dropdown, values.Text("MSc"), false, nil)
	if d.Input("PhD") || !d.Input("BSc") {
		t.Fatalf("dropdown shaping mismatch")
	}
	if !d.Options[1].Selected || d.Options[0].Selected {
		t.Fatalf("dropdown selection: %+v", d.Options)
	}

	r, _ := Render(radio, nil, false, nil)
	if r.Input("Female") || !r.Input("f") {
		t.Fatalf("radio must accept option values only")
	}
}

func TestSliderDefaultsToMin(t *testing.T) {
	f := schema.SliderField{FieldMeta: schema.FieldMeta{Name: "level", Label: "Level"}, Min: 10, Max: 50, Step: 5}
	ctrl, _ := Render(f, nil, true, nil)
	if ctrl.Display != "10" || ctrl.Value != values.Number(10) {
		t.Fatalf("slider default = %q (%v)", ctrl.Display, ctrl.Value)
	}
	if ctrl.Error != "" {
		t.Fatalf("optional slider shows error %q", ctrl.Error)
	}
	if got := strings.Join([]string{ctrl.Min, ctrl.Max, ctrl.Step}, "/"); got != "10/50/5" {
		t.Fatalf("slider attrs = %s", got)
	}

	var moved values.Value
	ctrl, _ = Render(f, values.Number(20), false, func(_ string, v values.Value) { moved = v })
	if ctrl.Slide(60) {
		t.Fatalf("out of range slide accepted")
	}
	if !ctrl.Slide(35) || moved != values.Number(35) {
		t.Fatalf("slide = %v", moved)
	}
}

func TestRender_NilField(t *testing.T) {
	if _, ok := Render(nil, nil, true, nil); ok {
		t.Fatalf("nil field rendered a control")
	}
}

func TestRender_ControlsGolden(t *testing.T) {
	topics := schema.CheckboxField{
		FieldMeta: schema.FieldMeta{Name: "topics", Label: "Topics"},
		Options:   []schema.Option{{Label: "Go", Value: "go"}, {Label: "Rust", Value: "rust"}},
	}

	phone, ok := Render(phoneField(), values.Text("555"), true, nil)
	if !ok {
		t.Fatalf("render phone")
	}
	checkbox, ok := Render(topics, values.Selection{"go"}, false, nil)
	if !ok {
		t.Fatalf("render checkbox")
	}

	testsupport.AssertGoldenJSON(t, filepath.Join("testdata", "controls.golden.json"), []Control{phone, checkbox})
}
