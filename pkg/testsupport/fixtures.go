package testsupport

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-dynaform/pkg/schema"
	"github.com/goliatone/go-dynaform/pkg/values"
)

// LoadForm reads and decodes a form document fixture. Testing helpers fail the
// test on error to keep setup concise.
func LoadForm(t *testing.T, path string, options ...schema.DecodeOption) schema.Form {
	t.Helper()

	form, err := LoadFormFromPath(path, options...)
	if err != nil {
		t.Fatalf("load form: %v", err)
	}
	return form
}

// LoadFormFromPath decodes a form fixture without requiring testing.T so
// callers can wire fixtures in setup functions or examples.
func LoadFormFromPath(path string, options ...schema.DecodeOption) (schema.Form, error) {
	if path == "" {
		return schema.Form{}, errors.New("testsupport: form path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return schema.Form{}, fmt.Errorf("testsupport: read form: %w", err)
	}
	doc, err := schema.NewDocument(schema.SourceFromFile(path), data)
	if err != nil {
		return schema.Form{}, fmt.Errorf("testsupport: new document: %w", err)
	}
	return schema.DecodeDocument(doc, options...)
}

// MustLoadValues loads a JSON value map fixture.
func MustLoadValues(t *testing.T, path string) values.Map {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("load values: %v", err)
	}
	m, err := values.Parse(data)
	if err != nil {
		t.Fatalf("parse values: %v", err)
	}
	return m
}

// AssertGoldenJSON compares the JSON encoding of got with the golden file at
// path, ignoring formatting. With UPDATE_GOLDENS set the golden is rewritten
// instead.
func AssertGoldenJSON(t *testing.T, path string, got any) {
	t.Helper()

	payload, err := json.MarshalIndent(got, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if os.Getenv("UPDATE_GOLDENS") != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir golden dir: %v", err)
		}
		if err := os.WriteFile(path, append(payload, '\n'), 0o644); err != nil {
			t.Fatalf("write golden: %v", err)
		}
		return
	}

	var want, have any
	if err := json.Unmarshal([]byte(MustReadGoldenString(t, path)), &want); err != nil {
		t.Fatalf("decode golden %s: %v", path, err)
	}
	if err := json.Unmarshal(payload, &have); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if diff := cmp.Diff(want, have); diff != "" {
		t.Fatalf("golden %s mismatch (-want +got):\n%s", path, diff)
	}
}

// MustReadGoldenString reads a golden file.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return string(data)
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents. Tests can assert
// the renderer returns and writes the same payload without duplicating buffer
// setup.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
