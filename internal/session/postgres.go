package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/and161185/shopfront/internal/errs"
	"github.com/and161185/shopfront/internal/model"
)

// PgxPool is the part of a Postgres pool the persister uses.
// It is implemented by *pgxpool.Pool and pgxmock.PgxPoolIface.
type PgxPool interface {
	// Exec executes a SQL command and returns the command tag.
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	// QueryRow executes a query expected to return at most one row.
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	// Close shuts down the pool and frees resources.
	Close()
}

// Postgres keeps the session record in the client_state table.
// The table is created by the embedded migrations.
type Postgres struct{ Pool PgxPool }

// NewPostgres creates a connection pool for the given DSN.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Postgres{Pool: pool}, nil
}

const (
	pgSelect = `SELECT payload FROM client_state WHERE name=$1`
	pgUpsert = `INSERT INTO client_state (name, payload, updated_at) VALUES ($1, $2, now())
ON CONFLICT (name) DO UPDATE SET payload=EXCLUDED.payload, updated_at=now()`
	pgDelete = `DELETE FROM client_state WHERE name=$1`
)

func (p *Postgres) Load(ctx context.Context) (model.Session, error) {
	var payload []byte
	err := p.Pool.QueryRow(ctx, pgSelect, RecordName).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Session{}, errs.ErrNotFound
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("postgres: failed to load session: %w", err)
	}
	return decode(payload)
}

func (p *Postgres) Save(ctx context.Context, s model.Session) error {
	b, err := encode(s)
	if err != nil {
		return err
	}
	if _, err := p.Pool.Exec(ctx, pgUpsert, RecordName, b); err != nil {
		return fmt.Errorf("postgres: failed to save session: %w", err)
	}
	return nil
}

func (p *Postgres) Clear(ctx context.Context) error {
	if _, err := p.Pool.Exec(ctx, pgDelete, RecordName); err != nil {
		return fmt.Errorf("postgres: failed to clear session: %w", err)
	}
	return nil
}

func (p *Postgres) Close() error {
	p.Pool.Close()
	return nil
}
