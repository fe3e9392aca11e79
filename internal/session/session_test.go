package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/and161185/shopfront/internal/errs"
	"github.com/and161185/shopfront/internal/model"
)

func sample() model.Session {
	return model.Session{
		User:            &model.UserProfile{ID: "u1", Email: "a@b.com", Roles: []model.Role{model.RoleAdmin}},
		Token:           "tok",
		IsAuthenticated: true,
	}
}

// roundTrip exercises the contract every backend shares.
func roundTrip(t *testing.T, p Persister) {
	t.Helper()
	ctx := context.Background()

	_, err := p.Load(ctx)
	require.ErrorIs(t, err, errs.ErrNotFound)

	require.NoError(t, p.Save(ctx, sample()))
	got, err := p.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, sample(), got)

	next := sample()
	next.Token = "tok2"
	require.NoError(t, p.Save(ctx, next))
	got, err = p.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "tok2", got.Token)

	require.NoError(t, p.Clear(ctx))
	require.NoError(t, p.Clear(ctx))
	_, err = p.Load(ctx)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestFile_RoundTrip(t *testing.T) {
	t.Parallel()

	f := NewFile(filepath.Join(t.TempDir(), "nested", "auth-storage.json"))
	roundTrip(t, f)
	require.NoError(t, f.Close())
}

func TestFile_PermissionsAndShape(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "cfg")
	f := NewFile(filepath.Join(dir, "auth-storage.json"))
	require.NoError(t, f.Save(context.Background(), sample()))

	st, err := os.Stat(f.Path())
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), st.Mode().Perm())
	dst, err := os.Stat(dir)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o700), dst.Mode().Perm())

	b, err := os.ReadFile(f.Path())
	require.NoError(t, err)
	require.JSONEq(t, `{"user":{"id":"u1","email":"a@b.com","roles":["ADMIN"],"active":false},"token":"tok","isAuthenticated":true}`, string(b))
}

func TestFile_DefaultPathFollowsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	require.Equal(t, "/tmp/xdg/shopfront/auth-storage.json", NewFile("").Path())
}

func TestEncryptedFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "auth-storage.json")
	f, err := NewEncryptedFile(path, "correct horse")
	require.NoError(t, err)
	roundTrip(t, f)

	require.NoError(t, f.Save(context.Background(), sample()))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "tok")

	wrong, err := NewEncryptedFile(path, "battery staple")
	require.NoError(t, err)
	_, err = wrong.Load(context.Background())
	require.Error(t, err)

	_, err = NewEncryptedFile(path, "")
	require.Error(t, err)
}

func TestSeal_FreshSaltEachTime(t *testing.T) {
	t.Parallel()

	a, err := seal([]byte("k"), []byte("payload"))
	require.NoError(t, err)
	b, err := seal([]byte("k"), []byte("payload"))
	require.NoError(t, err)
	require.NotEqual(t, a[:saltLen], b[:saltLen])

	pt, err := open([]byte("k"), a)
	require.NoError(t, err)
	require.Equal(t, "payload", string(pt))

	_, err = open([]byte("k"), a[:10])
	require.ErrorIs(t, err, errSealedTooShort)
}

func TestDecode_NormalizesHalfSession(t *testing.T) {
	t.Parallel()

	s, err := decode([]byte(`{"user":null,"token":"t","isAuthenticated":true}`))
	require.NoError(t, err)
	require.Equal(t, model.Session{}, s)

	_, err = decode([]byte(`{`))
	require.Error(t, err)
}

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{Subject: "u1", ExpiresAt: jwt.NewNumericDate(exp)}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("server-secret"))
	require.NoError(t, err)
	return tok
}

func TestExpiry(t *testing.T) {
	t.Parallel()

	now := time.Now()
	past := signed(t, now.Add(-time.Minute))
	future := signed(t, now.Add(time.Hour))

	require.True(t, Expired(past, now))
	require.False(t, Expired(future, now))
	require.False(t, Expired("opaque-token", now))
	require.False(t, Expired("", now))

	exp, ok := Expiry(future)
	require.True(t, ok)
	require.WithinDuration(t, now.Add(time.Hour), exp, time.Second)
}

func TestSQLite_RoundTrip(t *testing.T) {
	t.Parallel()

	s, err := NewSQLite(context.Background(), filepath.Join(t.TempDir(), "db", "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	roundTrip(t, s)
}

func TestMySQL_RoundTrip(t *testing.T) {
	dsn := os.Getenv("SHOP_TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("SHOP_TEST_MYSQL_DSN not set")
	}
	s, err := NewMySQLFromDSN(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Clear(context.Background()))
	roundTrip(t, s)
}

func TestRedis_RoundTrip(t *testing.T) {
	addr := os.Getenv("SHOP_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("SHOP_TEST_REDIS_ADDR not set")
	}
	r, err := NewRedisFromConfig(context.Background(), RedisConfig{Addr: addr, Prefix: "shopfront-test:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	require.Equal(t, "shopfront-test:auth-storage", r.Key())
	require.NoError(t, r.Clear(context.Background()))
	roundTrip(t, r)
}

func TestRedis_DefaultKey(t *testing.T) {
	t.Parallel()

	require.Equal(t, "shopfront:auth-storage", NewRedis(nil, "", 0).Key())
}

func newPG(t *testing.T) (*Postgres, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return &Postgres{Pool: mock}, mock
}

func TestPostgres_Load(t *testing.T) {
	p, mock := newPG(t)
	defer mock.Close()
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(pgSelect)).
		WithArgs(RecordName).
		WillReturnRows(pgxmock.NewRows([]string{"payload"}).
			AddRow([]byte(`{"user":{"id":"u1","email":"a@b.com"},"token":"t","isAuthenticated":true}`)))
	s, err := p.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "t", s.Token)
	require.Equal(t, "u1", s.User.ID)

	mock.ExpectQuery(regexp.QuoteMeta(pgSelect)).
		WithArgs(RecordName).
		WillReturnError(pgx.ErrNoRows)
	_, err = p.Load(ctx)
	require.ErrorIs(t, err, errs.ErrNotFound)

	mock.ExpectQuery(regexp.QuoteMeta(pgSelect)).
		WithArgs(RecordName).
		WillReturnError(errors.New("conn reset"))
	_, err = p.Load(ctx)
	require.Error(t, err)
	require.NotErrorIs(t, err, errs.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_SaveAndClear(t *testing.T) {
	p, mock := newPG(t)
	defer mock.Close()
	ctx := context.Background()

	want, err := encode(sample())
	require.NoError(t, err)
	mock.ExpectExec(regexp.QuoteMeta(pgUpsert)).
		WithArgs(RecordName, want).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	require.NoError(t, p.Save(ctx, sample()))

	mock.ExpectExec(regexp.QuoteMeta(pgDelete)).
		WithArgs(RecordName).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	require.NoError(t, p.Clear(ctx))

	mock.ExpectExec(regexp.QuoteMeta(pgDelete)).
		WithArgs(RecordName).
		WillReturnError(errors.New("read only"))
	require.Error(t, p.Clear(ctx))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOpen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p, err := Open(context.Background(), Options{FilePath: filepath.Join(dir, "s.json")})
	require.NoError(t, err)
	require.IsType(t, &File{}, p)

	p, err = Open(context.Background(), Options{Backend: BackendFile, FilePath: filepath.Join(dir, "s.json"), Key: "k"})
	require.NoError(t, err)
	require.NotNil(t, p.(*File).passphrase)

	p, err = Open(context.Background(), Options{Backend: BackendSQLite, SQLitePath: filepath.Join(dir, "s.db")})
	require.NoError(t, err)
	require.NoError(t, p.Close())

	_, err = Open(context.Background(), Options{Backend: "etcd"})
	require.Error(t, err)
}
