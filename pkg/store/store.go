// Package store provides the key-value slot the form shell persists its value
// map into, plus memory, file, SQLite and Postgres backends.
package store

import (
	"context"
	"fmt"
	"strings"
)

// Store is a string-keyed slot store. Get reports ok=false when key has never
// been written. Implementations are safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Driver names accepted by Open.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open builds a store for driver. dsn is a file path for file and sqlite, a
// connection string for postgres, and ignored for memory.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverMemory:
		return NewMemory(), nil
	case DriverFile:
		return NewFile(dsn)
	case DriverSQLite, "sqlite3":
		return NewSQLite(ctx, dsn)
	case DriverPostgres, "pgx":
		return NewPostgres(ctx, dsn)
	default:
		return nil, NewError("Open", "", fmt.Sprintf("unknown driver %q", driver), ErrUnsupportedDriver)
	}
}
