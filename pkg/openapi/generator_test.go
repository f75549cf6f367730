package openapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-dynaform/pkg/schema"
)

func sampleForm() schema.Form {
	return schema.Form{
		Title: "Student Profile",
		Groups: []schema.Group{{
			Title: "Contact",
			Fields: []schema.Field{
				schema.TextField{FieldMeta: schema.FieldMeta{Name: "name", Label: "Name", Required: true}},
				schema.TextField{FieldMeta: schema.FieldMeta{Name: "phoneNumber", Label: "Phone"}},
				schema.NumberField{FieldMeta: schema.FieldMeta{Name: "graduationYear", Label: "Year"}},
				schema.RadioField{FieldMeta: schema.FieldMeta{Name: "level", Label: "Level"}, Options: []schema.Option{
					{Label: "Undergraduate", Value: "ug"}, {Label: "Graduate", Value: "g"},
				}},
				schema.CheckboxField{FieldMeta: schema.FieldMeta{Name: "topics", Label: "Topics", Required: true}, Options: []schema.Option{
					{Label: "Go", Value: "go"}, {Label: "Rust", Value: "rust"},
				}},
				schema.SliderField{FieldMeta: schema.FieldMeta{Name: "score", Label: "Score"}, Min: 1, Max: 5, Step: 1},
			},
		}},
	}
}

func TestGenerate_ValidDocument(t *testing.T) {
	doc := NewGenerator(sampleForm(), WithServer("http://localhost:8080")).Generate()
	if err := doc.Validate(context.Background()); err != nil {
		t.Fatalf("document does not validate: %v", err)
	}
	if doc.Info.Title != "Student Profile" {
		t.Fatalf("expected form title, got %q", doc.Info.Title)
	}
	for _, path := range []string{"/submit", "/change", "/values"} {
		if doc.Paths.Find(path) == nil {
			t.Fatalf("expected path %s", path)
		}
	}
	if doc.Paths.Find("/submit").Post.Responses.Status(http.StatusConflict) == nil {
		t.Fatalf("expected /submit to document rejected input")
	}
}

func TestGenerate_Cached(t *testing.T) {
	g := NewGenerator(sampleForm())
	if g.Generate() != g.Generate() {
		t.Fatalf("expected cached document")
	}
}

func TestValuesSchema_Constraints(t *testing.T) {
	s := ValuesSchema(sampleForm())

	if diff := cmp.Diff([]string{"name", "topics"}, s.Required); diff != "" {
		t.Fatalf("required mismatch (-want +got):\n%s", diff)
	}

	phone := s.Properties["phoneNumber"].Value
	if phone.Pattern != phonePattern || phone.MaxLength == nil || *phone.MaxLength != 10 {
		t.Fatalf("unexpected phone schema: %+v", phone)
	}

	year := s.Properties["graduationYear"].Value
	if year.Extensions["x-minimum"] != float64(1950) || year.Extensions["x-maximum"] != float64(2024) {
		t.Fatalf("unexpected year bounds: %v", year.Extensions)
	}

	level := s.Properties["level"].Value
	if diff := cmp.Diff([]any{"ug", "g"}, level.Enum); diff != "" {
		t.Fatalf("enum mismatch (-want +got):\n%s", diff)
	}

	score := s.Properties["score"].Value
	if *score.Min != 1 || *score.Max != 5 {
		t.Fatalf("unexpected slider bounds: %v %v", *score.Min, *score.Max)
	}
}

func TestValuesSchema_VisitJSON(t *testing.T) {
	s := ValuesSchema(sampleForm())

	var ok map[string]any
	if err := json.Unmarshal([]byte(`{"name":"Ada","phoneNumber":"5551234567","topics":["go"],"score":3}`), &ok); err != nil {
		t.Fatal(err)
	}
	if err := s.VisitJSON(ok); err != nil {
		t.Fatalf("expected valid payload, got %v", err)
	}

	var bad map[string]any
	if err := json.Unmarshal([]byte(`{"name":"Ada","phoneNumber":"55-12","topics":["go"]}`), &bad); err != nil {
		t.Fatal(err)
	}
	if err := s.VisitJSON(bad); err == nil {
		t.Fatalf("expected pattern violation")
	}

	var missing map[string]any
	if err := json.Unmarshal([]byte(`{"name":"Ada"}`), &missing); err != nil {
		t.Fatal(err)
	}
	if err := s.VisitJSON(missing); err == nil {
		t.Fatalf("expected missing required property")
	}
}

func TestHandler_ServesJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	NewGenerator(sampleForm()).Handler()(rec, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload["openapi"] != "3.0.3" {
		t.Fatalf("unexpected openapi version %v", payload["openapi"])
	}
}
