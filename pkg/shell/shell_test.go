package shell

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-dynaform/pkg/schema"
	"github.com/goliatone/go-dynaform/pkg/store"
	"github.com/goliatone/go-dynaform/pkg/values"
)

func nameForm() schema.Form {
	return schema.Form{Groups: []schema.Group{{
		Title: "Basics",
		Fields: []schema.Field{
			schema.TextField{FieldMeta: schema.FieldMeta{Name: "name", Label: "Name", Required: true}},
		},
	}}}
}

type failingStore struct{ store.Store }

func (failingStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("disk unavailable")
}

func TestLoad_PersistedMapSeedsEngine(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	if err := st.Set(ctx, DefaultKey, `{"name":"Ada"}`); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	eng := New(st).Mount(ctx, nameForm())

	if diff := cmp.Diff(values.Map{"name": values.Text("Ada")}, eng.Values()); diff != "" {
		t.Fatalf("initial map (-want +got):\n%s", diff)
	}
	if eng.Touched("name") {
		t.Fatalf("seeded field marked touched")
	}
}

func TestLoad_FallsBackToEmpty(t *testing.T) {
	ctx := context.Background()
	cases := map[string]store.Store{
		"absent":   store.NewMemory(),
		"failing":  failingStore{},
		"garbage":  seeded(t, "{oops"),
		"array":    seeded(t, `["name"]`),
		"emptystr": seeded(t, ""),
	}
	for name, st := range cases {
		t.Run(name, func(t *testing.T) {
			got := New(st).Load(ctx)
			if got == nil || len(got) != 0 {
				t.Fatalf("expected empty map, got %#v", got)
			}
		})
	}
}

func TestMount_ChangesWriteThrough(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	eng := New(st, WithKey("profile")).Mount(ctx, nameForm())

	if err := eng.Change(ctx, "name", values.Text("Grace")); err != nil {
		t.Fatalf("change: %v", err)
	}
	raw, ok, err := st.Get(ctx, "profile")
	if err != nil || !ok {
		t.Fatalf("slot not written: ok=%v err=%v", ok, err)
	}
	if raw != `{"name":"Grace"}` {
		t.Fatalf("slot = %s", raw)
	}
}

func TestMount_SubmitPersistsAndCallsBack(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	var submitted []values.Map
	sh := New(st, WithOnSubmit(func(_ context.Context, m values.Map) error {
		submitted = append(submitted, m)
		return nil
	}))
	eng := sh.Mount(ctx, nameForm())

	res, err := eng.Submit(ctx)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.Valid || len(submitted) != 0 {
		t.Fatalf("empty form submitted")
	}
	if _, ok, _ := st.Get(ctx, DefaultKey); ok {
		t.Fatalf("failed submit wrote the slot")
	}

	if err := eng.Change(ctx, "name", values.Text("Ada")); err != nil {
		t.Fatalf("change: %v", err)
	}
	if res, err = eng.Submit(ctx); err != nil || !res.Valid {
		t.Fatalf("submit: %+v %v", res, err)
	}
	if diff := cmp.Diff([]values.Map{{"name": values.Text("Ada")}}, submitted); diff != "" {
		t.Fatalf("submitted (-want +got):\n%s", diff)
	}
	if got := New(st).Load(ctx); !cmp.Equal(got, values.Map{"name": values.Text("Ada")}) {
		t.Fatalf("reloaded map = %v", got)
	}
}

func seeded(t *testing.T, raw string) store.Store {
	t.Helper()
	st := store.NewMemory()
	if err := st.Set(context.Background(), DefaultKey, raw); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return st
}
