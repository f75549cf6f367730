// Package shell is the storage boundary of a form: it loads the persisted
// value map at startup, writes it back on every change and on submit, and
// mounts an engine seeded with the loaded values.
package shell

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-dynaform/pkg/engine"
	"github.com/goliatone/go-dynaform/pkg/schema"
	"github.com/goliatone/go-dynaform/pkg/store"
	"github.com/goliatone/go-dynaform/pkg/values"
)

// DefaultKey is the storage slot used when no key is configured.
const DefaultKey = "formData"

// Shell persists a form's value map into a single store slot.
type Shell struct {
	store    store.Store
	key      string
	logger   *zap.Logger
	onSubmit engine.SubmitFunc
}

// Option configures a Shell.
type Option func(*Shell)

// WithKey overrides the storage slot key.
func WithKey(key string) Option {
	return func(s *Shell) {
		if key != "" {
			s.key = key
		}
	}
}

// WithLogger attaches a zap logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Shell) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithOnSubmit registers a callback run after the submitted map has been
// persisted.
func WithOnSubmit(fn engine.SubmitFunc) Option {
	return func(s *Shell) {
		s.onSubmit = fn
	}
}

// New builds a shell around st.
func New(st store.Store, opts ...Option) *Shell {
	s := &Shell{
		store:  st,
		key:    DefaultKey,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Key returns the slot key.
func (s *Shell) Key() string {
	return s.key
}

// Load reads the persisted map. A missing slot, a read failure or an
// unparsable payload all yield an empty map; failures are only logged.
func (s *Shell) Load(ctx context.Context) values.Map {
	raw, ok, err := s.store.Get(ctx, s.key)
	if err != nil {
		s.logger.Warn("load form values", zap.String("key", s.key), zap.Error(err))
		return values.Map{}
	}
	if !ok {
		return values.Map{}
	}
	m, err := values.Parse([]byte(raw))
	if err != nil {
		s.logger.Debug("discarding unparsable form values", zap.String("key", s.key), zap.Error(err))
		return values.Map{}
	}
	return m
}

// Persist overwrites the slot with m.
func (s *Shell) Persist(ctx context.Context, m values.Map) error {
	if m == nil {
		m = values.Map{}
	}
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("shell: encode values: %w", err)
	}
	if err := s.store.Set(ctx, s.key, string(data)); err != nil {
		return fmt.Errorf("shell: persist values: %w", err)
	}
	return nil
}

// HandleSubmit persists the submitted map and then runs the configured
// submit callback.
func (s *Shell) HandleSubmit(ctx context.Context, m values.Map) error {
	if err := s.Persist(ctx, m); err != nil {
		return err
	}
	s.logger.Info("form submitted", zap.String("key", s.key), zap.Int("values", len(m)))
	if s.onSubmit != nil {
		return s.onSubmit(ctx, m)
	}
	return nil
}

// Mount loads the persisted map and returns an engine seeded with it. Every
// change writes through to the store and a valid submit goes through
// HandleSubmit.
func (s *Shell) Mount(ctx context.Context, form schema.Form, opts ...engine.Option) *engine.Engine {
	initial := s.Load(ctx)
	options := []engine.Option{
		engine.WithLogger(s.logger),
		engine.WithChangeHook(s.Persist),
	}
	options = append(options, opts...)
	return engine.New(form, initial, s.HandleSubmit, options...)
}
