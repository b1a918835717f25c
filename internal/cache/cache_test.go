package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("memory is the default", func(t *testing.T) {
		c, err := New[string](Options{})
		require.NoError(t, err)
		_, ok := c.(*MemoryCache[string])
		assert.True(t, ok)
	})

	t.Run("redis", func(t *testing.T) {
		s := miniredis.RunT(t)
		c, err := New[string](Options{Backend: RedisBackend, Redis: &RedisOptions{Addr: s.Addr()}})
		require.NoError(t, err)
		defer c.Close()
		_, ok := c.(*RedisCache[string])
		assert.True(t, ok)
	})

	t.Run("redis without options", func(t *testing.T) {
		_, err := New[string](Options{Backend: RedisBackend})
		assert.ErrorIs(t, err, ErrUnknownBackend)
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := New[string](Options{Backend: "etcd"})
		assert.ErrorIs(t, err, ErrUnknownBackend)
	})
}

// backends runs the same behavioural checks against each implementation.
func backends(t *testing.T) map[string]Cache[json.RawMessage] {
	s := miniredis.RunT(t)
	rc := NewRedisCache[json.RawMessage](&RedisOptions{Addr: s.Addr(), OpTimeout: time.Second}, "wb:")
	t.Cleanup(func() { _ = rc.Close() })
	return map[string]Cache[json.RawMessage]{
		"memory": NewMemoryCache[json.RawMessage]("wb:"),
		"redis":  rc,
	}
}

func TestCacheBackends(t *testing.T) {
	ctx := context.Background()

	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			t.Run("set and get", func(t *testing.T) {
				require.NoError(t, c.Set(ctx, "balances", json.RawMessage(`{"bob":100}`), 0))
				v, err := c.Get(ctx, "balances")
				require.NoError(t, err)
				assert.JSONEq(t, `{"bob":100}`, string(v))
			})

			t.Run("miss", func(t *testing.T) {
				_, err := c.Get(ctx, "nothing-here")
				assert.ErrorIs(t, err, ErrCacheMiss)
			})

			t.Run("delete", func(t *testing.T) {
				require.NoError(t, c.Set(ctx, "gone", json.RawMessage(`1`), 0))
				require.NoError(t, c.Delete(ctx, "gone"))
				_, err := c.Get(ctx, "gone")
				assert.ErrorIs(t, err, ErrCacheMiss)
			})

			t.Run("mset and mget", func(t *testing.T) {
				require.NoError(t, c.MSet(ctx, map[string]json.RawMessage{
					"markets": json.RawMessage(`{}`),
					"stats":   json.RawMessage(`{"bob":{"total_bets":1}}`),
				}, 0))

				vals, errs := c.MGet(ctx, "markets", "stats", "absent")
				require.Len(t, vals, 3)
				assert.NoError(t, errs[0])
				assert.NoError(t, errs[1])
				assert.ErrorIs(t, errs[2], ErrCacheMiss)
				assert.JSONEq(t, `{}`, string(vals[0]))
				assert.JSONEq(t, `{"bob":{"total_bets":1}}`, string(vals[1]))
			})
		})
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache[string]("")
	now := time.Now()
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "short", "x", time.Second))
	require.NoError(t, c.Set(ctx, "forever", "y", 0))

	now = now.Add(2 * time.Second)
	_, err := c.Get(ctx, "short")
	assert.ErrorIs(t, err, ErrCacheMiss)
	v, err := c.Get(ctx, "forever")
	require.NoError(t, err)
	assert.Equal(t, "y", v)

	assert.Equal(t, 1, c.Purge())
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	s := miniredis.RunT(t)
	rc := NewRedisCache[string](&RedisOptions{Addr: s.Addr()}, "wb:")
	defer rc.Close()

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, rc.Ping(ctx))
	})

	t.Run("keys are prefixed", func(t *testing.T) {
		require.NoError(t, rc.Set(ctx, "k", "v", 0))
		assert.True(t, s.Exists("wb:k"))
		assert.False(t, s.Exists("k"))
	})

	t.Run("ttl expiry", func(t *testing.T) {
		require.NoError(t, rc.Set(ctx, "temp", "x", 50*time.Millisecond))
		s.FastForward(100 * time.Millisecond)
		_, err := rc.Get(ctx, "temp")
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("corrupt value surfaces a decode error", func(t *testing.T) {
		require.NoError(t, s.Set("wb:bad", "{not json"))
		_, err := rc.Get(ctx, "bad")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrCacheMiss)
		assert.ErrorIs(t, err, ErrDecode)
	})

	t.Run("server down", func(t *testing.T) {
		s2 := miniredis.RunT(t)
		dead := NewRedisCache[string](&RedisOptions{Addr: s2.Addr(), OpTimeout: 100 * time.Millisecond}, "")
		defer dead.Close()
		s2.Close()

		assert.Error(t, dead.Set(ctx, "k", "v", 0))
		_, errs := dead.MGet(ctx, "a", "b")
		assert.Error(t, errs[0])
		assert.Error(t, errs[1])
	})
}
