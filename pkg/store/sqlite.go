package store

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/sqlite/*.sql
var sqliteMigrations embed.FS

// NewSQLite opens (or creates) a SQLite database at dsn and migrates it.
// ":memory:" keeps everything in process and pins the pool to one connection.
func NewSQLite(ctx context.Context, dsn string) (*SQL, error) {
	if dsn == "" {
		dsn = ":memory:"
	}
	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, NewError("NewSQLite", "", "failed to open database", errors.Join(ErrConnectionFailed, err))
	}
	if dsn == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, NewError("NewSQLite", "", "failed to ping database", errors.Join(ErrConnectionFailed, err))
	}

	driver, err := sqlite3.WithInstance(db.DB, &sqlite3.Config{})
	if err != nil {
		db.Close()
		return nil, NewError("NewSQLite", "", err.Error(), ErrMigrationFailed)
	}
	if err := runMigrations(sqliteMigrations, "migrations/sqlite", "sqlite3", driver); err != nil {
		db.Close()
		return nil, NewError("NewSQLite", "", err.Error(), ErrMigrationFailed)
	}
	return newSQL(db), nil
}

func runMigrations(files embed.FS, dir, name string, driver database.Driver) error {
	source, err := iofs.New(files, dir)
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, name, driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
