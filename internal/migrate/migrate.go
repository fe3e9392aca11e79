// Package migrate applies the embedded client_state migrations.
package migrate

import (
	"context"
	"database/sql"
	"errors"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/and161185/shopfront/migrations"
)

// Up runs all pending migrations against the postgres database at dsn.
func Up(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()
	return UpDB(ctx, db)
}

// UpDB runs all pending migrations on an open postgres handle.
func UpDB(ctx context.Context, db *sql.DB) error {
	names, err := files()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return errNoMigrations
	}
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

var errNoMigrations = errors.New("migrate: no embedded migrations")

// files lists the embedded migration files in apply order.
func files() ([]string, error) {
	entries, err := migrations.FS.ReadDir(".")
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name())
	}
	return out, nil
}
