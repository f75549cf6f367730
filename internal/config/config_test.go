package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Address())
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Minute, cfg.Server.SessionTTL)
	assert.Equal(t, "file", cfg.Storage.Driver)
	assert.Equal(t, "formData", cfg.Storage.Key)
	assert.False(t, cfg.Schema.Lenient)
	assert.Nil(t, cfg.Theme.RendererConfig())
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dynaform.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
schema:
  path: forms/profile.yaml
  lenient: true
storage:
  driver: sqlite
  dsn: ":memory:"
theme:
  name: acme
  tokens:
    brand: "#123456"
`), 0o644))

	t.Setenv("DYNAFORM_STORAGE_KEY", "profile")
	t.Setenv("DYNAFORM_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "forms/profile.yaml", cfg.Schema.Path)
	assert.True(t, cfg.Schema.Lenient)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "profile", cfg.Storage.Key)
	assert.Equal(t, "debug", cfg.Log.Level)

	rc := cfg.Theme.RendererConfig()
	require.NotNil(t, rc)
	assert.Equal(t, "acme", rc.Theme)
	assert.Equal(t, "#123456", rc.Tokens["brand"])
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("DYNAFORM_STORAGE_DRIVER", "redis")
	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported storage driver")
}

func TestLoad_ParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unterminated"), 0o644))
	_, err := Load(path)
	require.Error(t, err)
}
