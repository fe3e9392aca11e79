package session

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/and161185/shopfront/internal/migrate"
)

// Backend names accepted by Open.
const (
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendSQLite   = "sqlite"
	BackendMySQL    = "mysql"
	BackendPostgres = "postgres"
)

// Options selects and configures a backend.
type Options struct {
	Backend string
	// File backend; Key enables sealing.
	FilePath string
	Key      string

	Redis       RedisConfig
	SQLitePath  string
	MySQLDSN    string
	PostgresDSN string
}

// Open builds the persister named by o.Backend. Postgres schema
// migrations are applied before the pool is opened.
func Open(ctx context.Context, o Options) (Persister, error) {
	switch o.Backend {
	case "", BackendFile:
		if o.Key != "" {
			return NewEncryptedFile(o.FilePath, o.Key)
		}
		return NewFile(o.FilePath), nil
	case BackendRedis:
		return NewRedisFromConfig(ctx, o.Redis)
	case BackendSQLite:
		path := o.SQLitePath
		if path == "" {
			path = filepath.Join(ConfigDir(), "state.db")
		}
		return NewSQLite(ctx, path)
	case BackendMySQL:
		return NewMySQLFromDSN(ctx, o.MySQLDSN)
	case BackendPostgres:
		if err := migrate.Up(ctx, o.PostgresDSN); err != nil {
			return nil, fmt.Errorf("postgres: migrate: %w", err)
		}
		return NewPostgres(ctx, o.PostgresDSN)
	}
	return nil, fmt.Errorf("session: unknown backend %q", o.Backend)
}
