package values

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSelectionToggle_TwiceRestoresOriginal(t *testing.T) {
	cases := []Selection{
		nil,
		{"reading"},
		{"reading", "travel"},
	}
	for _, original := range cases {
		for _, option := range []string{"reading", "music"} {
			once := original.Toggle(option)
			twice := once.Toggle(option)
			if !twice.Equal(original) {
				t.Fatalf("toggle %q twice on %v: got %v", option, original, twice)
			}
			if once.Contains(option) == original.Contains(option) {
				t.Fatalf("toggle %q on %v did not flip membership", option, original)
			}
		}
	}
}

func TestSelectionToggle_DoesNotMutateReceiver(t *testing.T) {
	sel := Selection{"a", "b"}
	_ = sel.Toggle("a")
	_ = sel.Toggle("c")
	if diff := cmp.Diff(Selection{"a", "b"}, sel); diff != "" {
		t.Fatalf("receiver mutated (-want +got):\n%s", diff)
	}
}

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		want bool
	}{
		{"nil", nil, true},
		{"empty text", Text(""), true},
		{"text", Text("Ada"), false},
		{"empty selection", Selection{}, true},
		{"selection", Selection{"x"}, false},
		{"zero number", Number(0), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsEmpty(tc.v); got != tc.want {
				t.Fatalf("IsEmpty(%v) = %v, want %v", tc.v, got, tc.want)
			}
		})
	}
}

func TestMapWith_LeavesOtherEntries(t *testing.T) {
	base := Map{"name": Text("Ada"), "hobbies": Selection{"chess"}}
	next := base.With("name", Text("Grace"))

	if diff := cmp.Diff(Map{"name": Text("Ada"), "hobbies": Selection{"chess"}}, base); diff != "" {
		t.Fatalf("base mutated (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Map{"name": Text("Grace"), "hobbies": Selection{"chess"}}, next); diff != "" {
		t.Fatalf("unexpected map (-want +got):\n%s", diff)
	}
}

func TestParse_MixedShapes(t *testing.T) {
	got, err := Parse([]byte(`{"name":"Ada","age":"36","level":7,"hobbies":["chess","go"],"flag":true,"nested":{"a":1},"none":null}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := Map{
		"name":    Text("Ada"),
		"age":     Text("36"),
		"level":   Number(7),
		"hobbies": Selection{"chess", "go"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected map (-want +got):\n%s", diff)
	}
}

func TestParse_Malformed(t *testing.T) {
	for _, input := range []string{``, `{`, `[]`, `"name"`} {
		if _, err := Parse([]byte(input)); err == nil {
			t.Fatalf("expected error for %q", input)
		}
	}
}

func TestMapMarshalJSON(t *testing.T) {
	m := Map{"name": Text("Ada"), "level": Number(2.5), "hobbies": Selection{"go"}}
	data, err := m.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if got, want := string(data), `{"hobbies":["go"],"level":2.5,"name":"Ada"}`; got != want {
		t.Fatalf("marshal = %s, want %s", got, want)
	}
}
