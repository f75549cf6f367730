package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-dynaform"
	"github.com/goliatone/go-dynaform/internal/config"
	"github.com/goliatone/go-dynaform/internal/logging"
	"github.com/goliatone/go-dynaform/pkg/schema"
	"github.com/goliatone/go-dynaform/pkg/shell"
	"github.com/goliatone/go-dynaform/pkg/store"
)

// app carries what every command needs: configuration, a logger and the
// output streams.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	stdout io.Writer
	stderr io.Writer
	flush  func()
}

func newApp(configPath string, stdout, stderr io.Writer) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger, flush, err := logging.New(logging.Options{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		File:    cfg.Log.File,
		Console: stderr,
	})
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, logger: logger, stdout: stdout, stderr: stderr, flush: flush}, nil
}

func (a *app) close() {
	if a.flush != nil {
		a.flush()
	}
}

// loadForm reads the schema named by path, or by schema.path when empty.
func (a *app) loadForm(ctx context.Context, path string) (schema.Form, error) {
	if path == "" {
		path = a.cfg.Schema.Path
	}
	src, err := schema.ParseSource(path)
	if err != nil {
		return schema.Form{}, err
	}

	timeout := a.cfg.Schema.HTTPTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	loader := dynaform.NewLoader(schema.WithHTTPFallback(timeout))

	var decodeOpts []schema.DecodeOption
	if a.cfg.Schema.Lenient {
		decodeOpts = append(decodeOpts, schema.WithLenientTypes(func(group, name, kind string) {
			a.logger.Info("skipping field with unknown type",
				zap.String("group", group),
				zap.String("field", name),
				zap.String("type", kind),
			)
		}))
	}
	form, err := dynaform.LoadForm(ctx, src, loader, decodeOpts...)
	if err != nil {
		return schema.Form{}, fmt.Errorf("load schema %s: %w", path, err)
	}
	return form, nil
}

func (a *app) openStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, a.cfg.Storage.Driver, a.cfg.Storage.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", a.cfg.Storage.Driver, err)
	}
	return st, nil
}

func (a *app) shell(st store.Store, key string) *shell.Shell {
	if key == "" {
		key = a.cfg.Storage.Key
	}
	return shell.New(st, shell.WithKey(key), shell.WithLogger(a.logger))
}
