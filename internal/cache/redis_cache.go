package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions holds client tuning and per-operation settings.
type RedisOptions struct {
	Addr            string
	Password        string
	DB              int
	PoolSize        int
	MinIdleConns    int
	MaxRetries      int
	MinRetryBackoff time.Duration
	MaxRetryBackoff time.Duration
	OpTimeout       time.Duration // defaults to 500ms
}

type RedisCache[V any] struct {
	client    *redis.Client
	prefix    string
	opTimeout time.Duration
}

var _ Cache[string] = (*RedisCache[string])(nil)

func NewRedisCache[V any](opts *RedisOptions, prefix string) *RedisCache[V] {
	timeout := opts.OpTimeout
	if timeout == 0 {
		timeout = 500 * time.Millisecond
	}
	client := redis.NewClient(&redis.Options{
		Addr:            opts.Addr,
		Password:        opts.Password,
		DB:              opts.DB,
		PoolSize:        opts.PoolSize,
		MinIdleConns:    opts.MinIdleConns,
		MaxRetries:      opts.MaxRetries,
		MinRetryBackoff: opts.MinRetryBackoff,
		MaxRetryBackoff: opts.MaxRetryBackoff,
	})
	return &RedisCache[V]{client: client, prefix: prefix, opTimeout: timeout}
}

func (r *RedisCache[V]) Close() error {
	return r.client.Close()
}

// Ping checks connectivity, used at startup before the first restore.
func (r *RedisCache[V]) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache[V]) decode(data []byte) (V, error) {
	var val V
	if err := json.Unmarshal(data, &val); err != nil {
		var zero V
		return zero, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return val, nil
}

func (r *RedisCache[V]) Get(ctx context.Context, key string) (V, error) {
	var zero V
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return zero, ErrCacheMiss
	}
	if err != nil {
		return zero, err
	}
	return r.decode(data)
}

func (r *RedisCache[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: encode: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()
	return r.client.Set(ctx, r.prefix+key, data, ttl).Err()
}

func (r *RedisCache[V]) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()
	return r.client.Del(ctx, r.prefix+key).Err()
}

func (r *RedisCache[V]) MGet(ctx context.Context, keys ...string) ([]V, []error) {
	results := make([]V, len(keys))
	errs := make([]error, len(keys))

	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.prefix + k
	}

	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	vals, err := r.client.MGet(ctx, full...).Result()
	if err != nil {
		for i := range errs {
			errs[i] = err
		}
		return results, errs
	}

	for i, raw := range vals {
		switch v := raw.(type) {
		case nil:
			errs[i] = ErrCacheMiss
		case string:
			results[i], errs[i] = r.decode([]byte(v))
		case []byte:
			results[i], errs[i] = r.decode(v)
		default:
			errs[i] = fmt.Errorf("cache: unexpected type %T from redis", v)
		}
	}
	return results, errs
}

// MSet writes every pair inside MULTI/EXEC so readers never see a partial write.
func (r *RedisCache[V]) MSet(ctx context.Context, kv map[string]V, ttl time.Duration) error {
	encoded := make(map[string][]byte, len(kv))
	for k, v := range kv {
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("cache: encode %s: %w", k, err)
		}
		encoded[r.prefix+k] = b
	}

	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, b := range encoded {
			pipe.Set(ctx, k, b, ttl)
		}
		return nil
	})
	return err
}
