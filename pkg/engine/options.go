package engine

import (
	"context"

	"go.uber.org/zap"

	"github.com/goliatone/go-dynaform/pkg/values"
)

// SubmitFunc receives the full value map after a valid submit.
type SubmitFunc func(ctx context.Context, snapshot values.Map) error

// ChangeHook observes every committed change with the new full map. Hooks run
// synchronously, in registration order.
type ChangeHook func(ctx context.Context, snapshot values.Map) error

// Option configures an Engine.
type Option func(*Engine)

// WithLogger attaches a zap logger. Nil keeps the no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithChangeHook registers a hook invoked after each accepted change.
func WithChangeHook(hook ChangeHook) Option {
	return func(e *Engine) {
		if hook != nil {
			e.hooks = append(e.hooks, hook)
		}
	}
}
