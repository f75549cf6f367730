package store

import (
	"context"
	"database/sql"
	"errors"
	"sync/atomic"
	"time"

	"github.com/jmoiron/sqlx"
)

// SQL stores slots in the form_slots table of a sqlx database. Queries are
// written with ? placeholders and rebound for the driver.
type SQL struct {
	db     *sqlx.DB
	closed atomic.Bool
	now    func() time.Time
}

var _ Store = (*SQL)(nil)

type slotRow struct {
	Key       string `db:"key"`
	Value     string `db:"value"`
	UpdatedAt string `db:"updated_at"`
}

func newSQL(db *sqlx.DB) *SQL {
	return &SQL{db: db, now: time.Now}
}

// DB exposes the underlying handle.
func (s *SQL) DB() *sqlx.DB {
	return s.db
}

// Get implements Store.
func (s *SQL) Get(ctx context.Context, key string) (string, bool, error) {
	if s.closed.Load() {
		return "", false, NewError("Get", key, "", ErrClosed)
	}
	var row slotRow
	query := s.db.Rebind(`SELECT key, value, updated_at FROM form_slots WHERE key = ?`)
	if err := s.db.GetContext(ctx, &row, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, NewError("Get", key, "query slot", err)
	}
	return row.Value, true, nil
}

// Set implements Store.
func (s *SQL) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return NewError("Set", key, "", ErrInvalidKey)
	}
	if s.closed.Load() {
		return NewError("Set", key, "", ErrClosed)
	}
	row := slotRow{Key: key, Value: value, UpdatedAt: s.now().UTC().Format(time.RFC3339Nano)}
	query := `INSERT INTO form_slots (key, value, updated_at) VALUES (:key, :value, :updated_at)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	if _, err := s.db.NamedExecContext(ctx, query, row); err != nil {
		return NewError("Set", key, "upsert slot", err)
	}
	return nil
}

// Close implements Store.
func (s *SQL) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.db.Close()
}
