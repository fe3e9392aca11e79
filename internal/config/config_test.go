package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/and161185/shopfront/internal/session"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SHOP_API_URL", "")
	os.Unsetenv("SHOP_API_URL")

	c, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080/api", c.APIURL)
	require.Equal(t, 15*time.Second, c.Timeout)
	require.Equal(t, session.BackendFile, c.SessionBackend)
	require.False(t, c.Debug)
}

func TestLoad_EnvFileAndOverride(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(f, []byte("SHOP_API_URL=https://shop.example/api\nSHOP_TIMEOUT=3s\nSHOP_SESSION_BACKEND=redis\n"), 0o600))
	t.Setenv("SHOP_SESSION_BACKEND", "sqlite")
	t.Setenv("SHOP_SQLITE_PATH", "/tmp/s.db")
	t.Setenv("SHOP_DEBUG", "true")
	t.Cleanup(func() {
		os.Unsetenv("SHOP_API_URL")
		os.Unsetenv("SHOP_TIMEOUT")
	})

	c, err := Load(f)
	require.NoError(t, err)
	require.Equal(t, "https://shop.example/api", c.APIURL)
	require.Equal(t, 3*time.Second, c.Timeout)
	require.Equal(t, session.BackendSQLite, c.SessionBackend, "real env wins over .env")
	require.True(t, c.Debug)

	o := c.Session()
	require.Equal(t, "/tmp/s.db", o.SQLitePath)
	require.Equal(t, "shopfront:", o.Redis.Prefix)
}

func TestValidate(t *testing.T) {
	base := Config{APIURL: "http://localhost:8080/api", Timeout: time.Second, SessionBackend: "file"}
	require.NoError(t, base.Validate())

	bad := base
	bad.APIURL = "localhost:8080"
	require.Error(t, bad.Validate())

	bad = base
	bad.Timeout = 0
	require.Error(t, bad.Validate())

	bad = base
	bad.SessionBackend = "postgres"
	require.Error(t, bad.Validate())
	bad.PostgresDSN = "postgres://x"
	require.NoError(t, bad.Validate())

	bad = base
	bad.SessionBackend = "mysql"
	require.Error(t, bad.Validate())

	bad = base
	bad.SessionBackend = "etcd"
	require.Error(t, bad.Validate())
}
