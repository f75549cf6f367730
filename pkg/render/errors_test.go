package render_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-dynaform/pkg/engine"
	"github.com/goliatone/go-dynaform/pkg/render"
	"github.com/goliatone/go-dynaform/pkg/schema"
)

func TestCollectErrors(t *testing.T) {
	ctx := context.Background()
	form := schema.Form{Groups: []schema.Group{{
		Title: "Basics",
		Fields: []schema.Field{
			schema.TextField{FieldMeta: schema.FieldMeta{Name: "name", Label: "Name", Required: true}},
			schema.TextField{FieldMeta: schema.FieldMeta{Name: "nickname", Label: "Nickname"}},
		},
	}}}
	eng := engine.New(form, nil, nil)
	res, err := eng.Submit(ctx)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	got := render.CollectErrors(eng.View(ctx), res.Notice)
	want := render.ErrorMapping{
		Fields: map[string][]string{"name": {"Name is required"}},
		Form:   []string{"Please fill in all required fields before submitting."},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("error mapping (-want +got):\n%s", diff)
	}
	if !render.CollectErrors(engine.View{}, engine.SuccessNotice()).Empty() {
		t.Fatalf("success notice produced errors")
	}
}

func TestMergeFormErrors(t *testing.T) {
	got := render.MergeFormErrors([]string{" a ", "b"}, "a", "", "c")
	if diff := cmp.Diff([]string{"a", "b", "c"}, got); diff != "" {
		t.Fatalf("merged (-want +got):\n%s", diff)
	}
}
