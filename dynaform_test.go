package dynaform

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-dynaform/pkg/schema"
	"github.com/goliatone/go-dynaform/pkg/values"
)

const profileDoc = `{
  "form": {
    "title": "Student Profile",
    "groups": [
      {
        "title": "Contact",
        "fields": [
          {"name": "name", "label": "Name", "type": "text", "required": true},
          {"name": "phoneNumber", "label": "Phone", "type": "text"}
        ]
      }
    ]
  }
}`

func TestLoadFormAndRender(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	if err := os.WriteFile(path, []byte(profileDoc), 0o644); err != nil {
		t.Fatalf("write schema: %v", err)
	}

	ctx := context.Background()
	form, err := LoadForm(ctx, schema.SourceFromFile(path), nil)
	if err != nil {
		t.Fatalf("load form: %v", err)
	}
	if got := form.Names(); len(got) != 2 || got[0] != "name" {
		t.Fatalf("unexpected fields %v", got)
	}

	out, err := Render(ctx, form, values.Map{"name": values.Text("Ada")}, "vanilla", RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)
	for _, want := range []string{"Student Profile", `value="Ada"`, `type="tel"`} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in output:\n%s", want, html)
		}
	}
	if strings.Contains(html, "Name is required") {
		t.Fatalf("untouched fields must not show errors")
	}
}

func TestNewRegistry(t *testing.T) {
	registry, err := NewRegistry()
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	for _, name := range []string{"vanilla", "json"} {
		if !registry.Has(name) {
			t.Fatalf("expected renderer %q", name)
		}
	}
}

func TestAssetsFS(t *testing.T) {
	for _, name := range []string{"dynaform-runtime.js", "dynaform-vanilla.css"} {
		if _, err := AssetsFS().Open(name); err != nil {
			t.Fatalf("expected asset %s: %v", name, err)
		}
	}
	if _, err := EmbeddedTemplates().Open("templates/form.tmpl"); err != nil {
		t.Fatalf("expected form template: %v", err)
	}
}
