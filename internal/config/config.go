// Package config loads client settings from the environment. A .env file in
// the working directory is read first when present; real environment
// variables win over it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/and161185/shopfront/internal/session"
)

// Config holds every setting of the client.
type Config struct {
	APIURL  string        `env:"SHOP_API_URL" envDefault:"http://localhost:8080/api"`
	Timeout time.Duration `env:"SHOP_TIMEOUT" envDefault:"15s"`
	Debug   bool          `env:"SHOP_DEBUG" envDefault:"false"`

	SessionBackend string `env:"SHOP_SESSION_BACKEND" envDefault:"file"`
	SessionFile    string `env:"SHOP_SESSION_FILE"`
	SessionKey     string `env:"SHOP_SESSION_KEY"`

	RedisAddr     string        `env:"SHOP_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string        `env:"SHOP_REDIS_PASSWORD"`
	RedisDB       int           `env:"SHOP_REDIS_DB" envDefault:"0"`
	RedisPrefix   string        `env:"SHOP_REDIS_PREFIX" envDefault:"shopfront:"`
	RedisTTL      time.Duration `env:"SHOP_REDIS_TTL" envDefault:"0s"`

	SQLitePath  string `env:"SHOP_SQLITE_PATH"`
	MySQLDSN    string `env:"SHOP_MYSQL_DSN"`
	PostgresDSN string `env:"SHOP_POSTGRES_DSN"`
}

// Load reads .env files (if any) and then the environment.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", f, err)
		}
	}
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return c, c.Validate()
}

// Validate checks values env parsing cannot.
func (c Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config: SHOP_API_URL %q is not an http(s) URL", c.APIURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("config: SHOP_TIMEOUT must be positive, got %s", c.Timeout)
	}
	switch c.SessionBackend {
	case session.BackendFile, session.BackendRedis, session.BackendSQLite:
	case session.BackendMySQL:
		if c.MySQLDSN == "" {
			return errors.New("config: SHOP_MYSQL_DSN is required for the mysql session backend")
		}
	case session.BackendPostgres:
		if c.PostgresDSN == "" {
			return errors.New("config: SHOP_POSTGRES_DSN is required for the postgres session backend")
		}
	default:
		return fmt.Errorf("config: unknown SHOP_SESSION_BACKEND %q", c.SessionBackend)
	}
	return nil
}

// Session returns the persister options.
func (c Config) Session() session.Options {
	return session.Options{
		Backend:  c.SessionBackend,
		FilePath: c.SessionFile,
		Key:      c.SessionKey,
		Redis: session.RedisConfig{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
			Prefix:   c.RedisPrefix,
			TTL:      c.RedisTTL,
		},
		SQLitePath:  c.SQLitePath,
		MySQLDSN:    c.MySQLDSN,
		PostgresDSN: c.PostgresDSN,
	}
}
