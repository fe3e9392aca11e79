package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/and161185/shopfront/internal/errs"
	"github.com/and161185/shopfront/internal/model"
)

// DefaultRedisPrefix is prepended to RecordName to form the key.
const DefaultRedisPrefix = "shopfront:"

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// Prefix defaults to DefaultRedisPrefix.
	Prefix string
	// TTL of the record; zero keeps it until cleared.
	TTL time.Duration
}

// Redis keeps the session record under one redis key.
type Redis struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
}

// NewRedis wraps an existing client.
func NewRedis(client redis.UniversalClient, prefix string, ttl time.Duration) *Redis {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &Redis{client: client, key: prefix + RecordName, ttl: ttl}
}

// NewRedisFromConfig dials redis and checks the connection.
func NewRedisFromConfig(ctx context.Context, cfg RedisConfig) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: failed to connect: %w", err)
	}
	return NewRedis(client, cfg.Prefix, cfg.TTL), nil
}

// Key returns the redis key holding the record.
func (r *Redis) Key() string { return r.key }

func (r *Redis) Load(ctx context.Context) (model.Session, error) {
	b, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.Session{}, errs.ErrNotFound
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("redis: failed to get key: %w", err)
	}
	return decode(b)
}

func (r *Redis) Save(ctx context.Context, s model.Session) error {
	b, err := encode(s)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key, b, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis: failed to set key: %w", err)
	}
	return nil
}

func (r *Redis) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("redis: failed to delete key: %w", err)
	}
	return nil
}

func (r *Redis) Close() error { return r.client.Close() }
