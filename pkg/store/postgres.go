package store

import (
	"context"
	"embed"
	"errors"

	"github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

//go:embed migrations/postgres/*.sql
var postgresMigrations embed.FS

// NewPostgres connects through the pgx stdlib driver and migrates the schema.
func NewPostgres(ctx context.Context, dsn string) (*SQL, error) {
	if dsn == "" {
		return nil, NewError("NewPostgres", "", "dsn is required", ErrConnectionFailed)
	}
	db, err := sqlx.Open("pgx", dsn)
	if err != nil {
		return nil, NewError("NewPostgres", "", "failed to open database", errors.Join(ErrConnectionFailed, err))
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, NewError("NewPostgres", "", "failed to ping database", errors.Join(ErrConnectionFailed, err))
	}

	driver, err := pgx.WithInstance(db.DB, &pgx.Config{})
	if err != nil {
		db.Close()
		return nil, NewError("NewPostgres", "", err.Error(), ErrMigrationFailed)
	}
	if err := runMigrations(postgresMigrations, "migrations/postgres", "pgx5", driver); err != nil {
		db.Close()
		return nil, NewError("NewPostgres", "", err.Error(), ErrMigrationFailed)
	}
	return newSQL(db), nil
}
