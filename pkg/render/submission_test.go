package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-dynaform/pkg/render"
)

func TestHiddenMap(t *testing.T) {
	got := render.HiddenMap(
		render.SessionField(" _session ", "5f0c"),
		render.Hidden("attempt", 2),
		render.Hidden("  ", "skip"),
		render.Hidden("attempt", 3),
	)
	want := map[string]string{"_session": "5f0c", "attempt": "3"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("hidden map mismatch (-want +got):\n%s", diff)
	}

	if got := render.HiddenMap(render.Hidden("", "x")); got != nil {
		t.Fatalf("expected nil map, got %v", got)
	}
}

func TestNormalizeHidden(t *testing.T) {
	got := render.NormalizeHidden(
		render.Hidden("z", "last"),
		render.SessionField("_session", "5f0c"),
		render.Hidden("z", "later"),
	)
	want := []render.HiddenField{
		{Name: "_session", Value: "5f0c"},
		{Name: "z", Value: "later"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("normalized hidden fields mismatch (-want +got):\n%s", diff)
	}
}
