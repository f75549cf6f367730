// Package openapi describes a form's value map as an OpenAPI 3 document so
// HTTP clients can post submissions without reading the schema file.
package openapi

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-dynaform/pkg/field"
	"github.com/goliatone/go-dynaform/pkg/schema"
)

// Component schema names.
const (
	ValuesSchemaName = "FormValues"
	ResultSchemaName = "SubmitResult"
	ChangeSchemaName = "FieldChange"
)

const phonePattern = "^[0-9]*$"

// Generator produces an OpenAPI document for one form.
type Generator struct {
	form        schema.Form
	title       string
	version     string
	description string
	servers     []string

	mu     sync.RWMutex
	cached *openapi3.T
}

// Option configures the generator.
type Option func(*Generator)

// WithTitle overrides the API title. Defaults to the form title.
func WithTitle(title string) Option {
	return func(g *Generator) {
		if title != "" {
			g.title = title
		}
	}
}

// WithVersion sets the API version.
func WithVersion(version string) Option {
	return func(g *Generator) {
		if version != "" {
			g.version = version
		}
	}
}

// WithServer adds a server URL.
func WithServer(url string) Option {
	return func(g *Generator) {
		if url != "" {
			g.servers = append(g.servers, url)
		}
	}
}

// NewGenerator creates a generator for form.
func NewGenerator(form schema.Form, opts ...Option) *Generator {
	g := &Generator{
		form:        form,
		title:       form.Title,
		version:     "1.0.0",
		description: form.Description,
	}
	if g.title == "" {
		g.title = "Form"
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Generate builds the document once and returns the cached copy afterwards.
func (g *Generator) Generate() *openapi3.T {
	g.mu.RLock()
	if g.cached != nil {
		doc := g.cached
		g.mu.RUnlock()
		return doc
	}
	g.mu.RUnlock()

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cached != nil {
		return g.cached
	}

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       g.title,
			Version:     g.version,
			Description: g.description,
		},
		Paths: openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{
				ValuesSchemaName: &openapi3.SchemaRef{Value: ValuesSchema(g.form)},
				ResultSchemaName: &openapi3.SchemaRef{Value: resultSchema()},
				ChangeSchemaName: &openapi3.SchemaRef{Value: changeSchema(g.form)},
			},
		},
	}
	for _, url := range g.servers {
		doc.Servers = append(doc.Servers, &openapi3.Server{URL: url})
	}

	doc.Paths.Set("/submit", &openapi3.PathItem{Post: submitOperation()})
	doc.Paths.Set("/change", &openapi3.PathItem{Post: changeOperation()})
	doc.Paths.Set("/values", &openapi3.PathItem{Get: valuesOperation()})

	g.cached = doc
	return doc
}

// Handler serves the document as JSON.
func (g *Generator) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(g.Generate()); err != nil {
			http.Error(w, "failed to encode OpenAPI document", http.StatusInternalServerError)
		}
	}
}

// ValuesSchema describes the value map of form: one property per declared
// field, with required fields listed and constrained to be non-empty.
func ValuesSchema(form schema.Form) *openapi3.Schema {
	s := &openapi3.Schema{
		Type:       &openapi3.Types{"object"},
		Title:      form.Title,
		Properties: make(openapi3.Schemas),
	}
	for _, f := range form.Fields() {
		meta := f.Meta()
		prop := FieldSchema(f)
		if prop == nil {
			continue
		}
		s.Properties[meta.Name] = &openapi3.SchemaRef{Value: prop}
		if meta.Required {
			s.Required = append(s.Required, meta.Name)
		}
	}
	return s
}

// FieldSchema describes the stored value of a single field.
func FieldSchema(f schema.Field) *openapi3.Schema {
	meta := f.Meta()
	s := &openapi3.Schema{
		Title:       meta.Label,
		Description: meta.Placeholder,
	}

	switch f := f.(type) {
	case schema.TextField:
		s.Type = &openapi3.Types{"string"}
		if f.IsPhone() {
			maxLen := uint64(field.PhoneDigits)
			s.Pattern = phonePattern
			s.MaxLength = &maxLen
		}
	case schema.NumberField:
		// Number fields hold the numeric string as typed.
		s.Type = &openapi3.Types{"string"}
		ext := map[string]any{}
		if f.IsGraduationYear() {
			ext["x-minimum"] = float64(field.GraduationYearMin)
			ext["x-maximum"] = float64(field.GraduationYearMax)
		} else {
			if f.Min != nil {
				ext["x-minimum"] = *f.Min
			}
			if f.Max != nil {
				ext["x-maximum"] = *f.Max
			}
		}
		if len(ext) > 0 {
			s.Extensions = ext
		}
	case schema.TextareaField:
		s.Type = &openapi3.Types{"string"}
	case schema.DropdownField:
		s.Type = &openapi3.Types{"string"}
		s.Enum = optionEnum(f.Options)
	case schema.RadioField:
		s.Type = &openapi3.Types{"string"}
		s.Enum = optionEnum(f.Options)
	case schema.CheckboxField:
		s.Type = &openapi3.Types{"array"}
		s.UniqueItems = true
		s.Items = &openapi3.SchemaRef{Value: &openapi3.Schema{
			Type: &openapi3.Types{"string"},
			Enum: optionEnum(f.Options),
		}}
		if meta.Required {
			s.MinItems = 1
		}
		return s
	case schema.SliderField:
		minVal, maxVal := f.Min, f.Max
		s.Type = &openapi3.Types{"number"}
		s.Min = &minVal
		s.Max = &maxVal
		return s
	default:
		return nil
	}

	if meta.Required {
		s.MinLength = 1
	}
	return s
}

func optionEnum(opts []schema.Option) []any {
	out := make([]any, 0, len(opts))
	for _, opt := range opts {
		out = append(out, opt.Value)
	}
	return out
}

func resultSchema() *openapi3.Schema {
	str := func() *openapi3.SchemaRef {
		return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}}
	}
	return &openapi3.Schema{
		Type: &openapi3.Types{"object"},
		Properties: openapi3.Schemas{
			"valid": &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"boolean"}}},
			"missing": &openapi3.SchemaRef{Value: &openapi3.Schema{
				Type:  &openapi3.Types{"array"},
				Items: str(),
			}},
			"notice": &openapi3.SchemaRef{Value: &openapi3.Schema{
				Type: &openapi3.Types{"object"},
				Properties: openapi3.Schemas{
					"level":   &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}, Enum: []any{"success", "error"}}},
					"message": str(),
				},
			}},
		},
		Required: []string{"valid", "notice"},
	}
}

func changeSchema(form schema.Form) *openapi3.Schema {
	names := make([]any, 0, len(form.Names()))
	for _, name := range form.Names() {
		names = append(names, name)
	}
	return &openapi3.Schema{
		Type: &openapi3.Types{"object"},
		Properties: openapi3.Schemas{
			"field":  &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}, Enum: names}},
			"value":  &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}},
			"toggle": &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}},
		},
		Required: []string{"field"},
	}
}

func ref(name string) *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Ref: "#/components/schemas/" + name}
}

func jsonResponse(description, schemaName string) *openapi3.ResponseRef {
	return &openapi3.ResponseRef{Value: openapi3.NewResponse().
		WithDescription(description).
		WithJSONSchemaRef(ref(schemaName))}
}

func submitOperation() *openapi3.Operation {
	return &openapi3.Operation{
		OperationID: "submitForm",
		Summary:     "Submit the form",
		RequestBody: &openapi3.RequestBodyRef{
			Value: &openapi3.RequestBody{
				Required: true,
				Content: openapi3.Content{
					"application/json": &openapi3.MediaType{Schema: ref(ValuesSchemaName)},
				},
			},
		},
		Responses: openapi3.NewResponses(
			openapi3.WithStatus(http.StatusOK, jsonResponse("Submit accepted", ResultSchemaName)),
			openapi3.WithStatus(http.StatusUnprocessableEntity, jsonResponse("Required fields missing", ResultSchemaName)),
			openapi3.WithStatus(http.StatusConflict, &openapi3.ResponseRef{Value: openapi3.NewResponse().
				WithDescription("A posted value was rejected by field shaping")}),
		),
	}
}

func changeOperation() *openapi3.Operation {
	return &openapi3.Operation{
		OperationID: "changeField",
		Summary:     "Change a single field",
		RequestBody: &openapi3.RequestBodyRef{
			Value: &openapi3.RequestBody{
				Required: true,
				Content: openapi3.Content{
					"application/x-www-form-urlencoded": &openapi3.MediaType{Schema: ref(ChangeSchemaName)},
				},
			},
		},
		Responses: openapi3.NewResponses(
			openapi3.WithStatus(http.StatusOK, jsonResponse("Current values", ValuesSchemaName)),
			openapi3.WithStatus(http.StatusConflict, &openapi3.ResponseRef{Value: openapi3.NewResponse().
				WithDescription("Input rejected by field shaping")}),
		),
	}
}

func valuesOperation() *openapi3.Operation {
	return &openapi3.Operation{
		OperationID: "getValues",
		Summary:     "Current values for the session",
		Responses: openapi3.NewResponses(
			openapi3.WithStatus(http.StatusOK, jsonResponse("Current values", ValuesSchemaName)),
		),
	}
}
