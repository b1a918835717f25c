package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	RedisBackend  = "redis"
	MemoryBackend = "memory"
)

var (
	ErrCacheMiss      = errors.New("cache: key not found")
	ErrUnknownBackend = errors.New("cache: unknown backend")
	ErrDecode         = errors.New("cache: decode")
)

// Cache is a typed key/value store. Values are JSON encoded by remote backends.
type Cache[V any] interface {
	// Get returns the value or ErrCacheMiss.
	Get(ctx context.Context, key string) (V, error)
	// Set stores value under key. Zero ttl means no expiration.
	Set(ctx context.Context, key string, value V, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// MGet returns one value and one error per key; missing keys report ErrCacheMiss.
	MGet(ctx context.Context, keys ...string) ([]V, []error)
	// MSet writes all pairs as one unit: either every key is written or none is.
	MSet(ctx context.Context, kv map[string]V, ttl time.Duration) error
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend   string
	KeyPrefix string
	Redis     *RedisOptions
}

// New builds the backend named by opts.Backend.
func New[V any](opts Options) (Cache[V], error) {
	switch opts.Backend {
	case RedisBackend:
		if opts.Redis == nil {
			return nil, fmt.Errorf("%w: redis options missing", ErrUnknownBackend)
		}
		return NewRedisCache[V](opts.Redis, opts.KeyPrefix), nil
	case MemoryBackend, "":
		return NewMemoryCache[V](opts.KeyPrefix), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}
