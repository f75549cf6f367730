// Package config loads dynaform settings from defaults, an optional config
// file, a .env file and DYNAFORM_ environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	theme "github.com/goliatone/go-theme"
	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. DYNAFORM_STORAGE_DRIVER.
const EnvPrefix = "DYNAFORM"

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Schema  SchemaConfig  `mapstructure:"schema"`
	Storage StorageConfig `mapstructure:"storage"`
	Log     LogConfig     `mapstructure:"log"`
	Theme   ThemeConfig   `mapstructure:"theme"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CookieName      string        `mapstructure:"cookie_name"`
	// SessionTTL is how long an idle form session stays mounted.
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

// Address returns the server address in host:port format.
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SchemaConfig points at the form document.
type SchemaConfig struct {
	Path string `mapstructure:"path"`
	// Lenient drops fields with unknown types instead of failing.
	Lenient     bool          `mapstructure:"lenient"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
}

// StorageConfig selects the persistence backend for the form slot.
type StorageConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	Key    string `mapstructure:"key"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// ThemeConfig carries the theme selection passed to the HTML renderer.
type ThemeConfig struct {
	Name    string            `mapstructure:"name"`
	Variant string            `mapstructure:"variant"`
	Tokens  map[string]string `mapstructure:"tokens"`
	CSSVars map[string]string `mapstructure:"css_vars"`
}

// RendererConfig converts the theme settings; nil when nothing is set.
func (c ThemeConfig) RendererConfig() *theme.RendererConfig {
	if c.Name == "" && c.Variant == "" && len(c.Tokens) == 0 && len(c.CSSVars) == 0 {
		return nil
	}
	return &theme.RendererConfig{
		Theme:   c.Name,
		Variant: c.Variant,
		Tokens:  c.Tokens,
		CSSVars: c.CSSVars,
	}
}

// Load reads configuration from path (optional) and the environment.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.cookie_name", "dynaform_session")
	v.SetDefault("server.session_ttl", "30m")
	v.SetDefault("schema.path", "schema.json")
	v.SetDefault("schema.lenient", false)
	v.SetDefault("schema.http_timeout", "10s")
	v.SetDefault("storage.driver", "file")
	v.SetDefault("storage.dsn", "./data/dynaform.json")
	v.SetDefault("storage.key", "formData")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", "")
	v.SetDefault("theme.name", "")
	v.SetDefault("theme.variant", "")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var parseErr viper.ConfigParseError
			if errors.As(err, &parseErr) {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
			// A missing file falls back to defaults.
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings no command can run with.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Storage.Driver) {
	case "", "memory", "file", "sqlite", "sqlite3", "postgres", "pgx":
	default:
		return fmt.Errorf("config: unsupported storage driver %q", c.Storage.Driver)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: invalid server port %d", c.Server.Port)
	}
	if strings.TrimSpace(c.Storage.Key) == "" {
		return errors.New("config: storage key is required")
	}
	return nil
}
