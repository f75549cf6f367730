package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()
	ctx := context.Background()

	fileStore, err := NewFile(filepath.Join(t.TempDir(), "slots.json"))
	require.NoError(t, err)

	sqliteStore, err := NewSQLite(ctx, ":memory:")
	require.NoError(t, err)

	stores := map[string]Store{
		DriverMemory: NewMemory(),
		DriverFile:   fileStore,
		DriverSQLite: sqliteStore,
	}
	t.Cleanup(func() {
		for _, s := range stores {
			s.Close()
		}
	})
	return stores
}

func TestStore_GetMissing(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			v, ok, err := s.Get(context.Background(), "formData")
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Empty(t, v)
		})
	}
}

func TestStore_SetOverwrites(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Set(ctx, "formData", `{"name":"A"}`))
			require.NoError(t, s.Set(ctx, "formData", `{"name":"Ada"}`))
			require.NoError(t, s.Set(ctx, "other", `{}`))

			v, ok, err := s.Get(ctx, "formData")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `{"name":"Ada"}`, v)
		})
	}
}

func TestStore_RejectsEmptyKey(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			err := s.Set(context.Background(), "", "x")
			assert.True(t, errors.Is(err, ErrInvalidKey))
		})
	}
}

func TestStore_ClosedReturnsError(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Close())
			_, _, err := s.Get(context.Background(), "formData")
			assert.True(t, errors.Is(err, ErrClosed))

			var storeErr *Error
			require.True(t, errors.As(err, &storeErr))
			assert.Equal(t, "Get", storeErr.Op)
		})
	}
}

func TestFile_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "slots.json")

	first, err := NewFile(path)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "formData", `{"name":"Ada"}`))

	second, err := NewFile(path)
	require.NoError(t, err)
	v, ok, err := second.Get(ctx, "formData")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"name":"Ada"}`, v)
}

func TestFile_CorruptFileSurfacesError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slots.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s, err := NewFile(path)
	require.NoError(t, err)
	_, _, err = s.Get(context.Background(), "formData")
	assert.Error(t, err)
}

func TestSQLite_PersistsAcrossConnections(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "form.db")

	first, err := NewSQLite(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "formData", `{"name":"Ada"}`))
	require.NoError(t, first.Close())

	second, err := NewSQLite(ctx, dsn)
	require.NoError(t, err)
	defer second.Close()

	v, ok, err := second.Get(ctx, "formData")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"name":"Ada"}`, v)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, "", "")
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	s, err = Open(ctx, "FILE", filepath.Join(t.TempDir(), "slots.json"))
	require.NoError(t, err)
	assert.IsType(t, &File{}, s)

	_, err = Open(ctx, "redis", "")
	assert.True(t, errors.Is(err, ErrUnsupportedDriver))

	_, err = Open(ctx, DriverPostgres, "")
	assert.True(t, errors.Is(err, ErrConnectionFailed))
}

func TestPostgres_RoundTrip(t *testing.T) {
	dsn := os.Getenv("DYNAFORM_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("DYNAFORM_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()

	s, err := Open(ctx, "pgx", dsn)
	require.NoError(t, err)
	defer s.Close()

	key := "formData:" + t.Name()
	require.NoError(t, s.Set(ctx, key, `{"name":"Ada"}`))
	require.NoError(t, s.Set(ctx, key, `{"name":"Grace"}`))

	v, ok, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"name":"Grace"}`, v)
}
