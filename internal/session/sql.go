package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"

	"github.com/and161185/shopfront/internal/errs"
	"github.com/and161185/shopfront/internal/model"
)

// dialect holds the statements that differ between SQL engines.
type dialect struct {
	name   string
	schema string
	upsert string
}

var (
	sqliteDialect = dialect{
		name: "sqlite",
		schema: `
	CREATE TABLE IF NOT EXISTS client_state (
		name       TEXT PRIMARY KEY,
		payload    BLOB NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
		upsert: `INSERT INTO client_state (name, payload, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(name) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
	}
	mysqlDialect = dialect{
		name: "mysql",
		schema: `
	CREATE TABLE IF NOT EXISTS client_state (
		name       VARCHAR(64) PRIMARY KEY,
		payload    BLOB NOT NULL,
		updated_at DATETIME(6) NOT NULL
	)`,
		upsert: `INSERT INTO client_state (name, payload, updated_at) VALUES (?, ?, ?)
	ON DUPLICATE KEY UPDATE payload = VALUES(payload), updated_at = VALUES(updated_at)`,
	}
)

// SQL keeps the session record in the client_state table of a database/sql
// database (sqlite or mysql).
type SQL struct {
	db *sql.DB
	d  dialect
}

// NewSQLite opens (creating if needed) a sqlite database file.
func NewSQLite(ctx context.Context, path string) (*SQL, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to open database: %w", err)
	}
	// one writer; sqlite serializes anyway
	db.SetMaxOpenConns(1)
	return newSQL(ctx, db, sqliteDialect)
}

// NewMySQLFromDSN connects to mysql. The DSN format is user:password@tcp(host:port)/database.
func NewMySQLFromDSN(ctx context.Context, dsn string) (*SQL, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("mysql: failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("mysql: failed to connect: %w", err)
	}
	return NewMySQL(ctx, db)
}

// NewMySQL uses an open mysql handle.
func NewMySQL(ctx context.Context, db *sql.DB) (*SQL, error) {
	return newSQL(ctx, db, mysqlDialect)
}

func newSQL(ctx context.Context, db *sql.DB, d dialect) (*SQL, error) {
	if _, err := db.ExecContext(ctx, d.schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: failed to create schema: %w", d.name, err)
	}
	return &SQL{db: db, d: d}, nil
}

func (s *SQL) Load(ctx context.Context) (model.Session, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM client_state WHERE name = ?`, RecordName).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Session{}, errs.ErrNotFound
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("%s: failed to load session: %w", s.d.name, err)
	}
	return decode(payload)
}

func (s *SQL) Save(ctx context.Context, sess model.Session) error {
	b, err := encode(sess)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, s.d.upsert, RecordName, b, time.Now().UTC()); err != nil {
		return fmt.Errorf("%s: failed to save session: %w", s.d.name, err)
	}
	return nil
}

func (s *SQL) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM client_state WHERE name = ?`, RecordName); err != nil {
		return fmt.Errorf("%s: failed to clear session: %w", s.d.name, err)
	}
	return nil
}

func (s *SQL) Close() error { return s.db.Close() }
