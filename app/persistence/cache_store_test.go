package persistence

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/joefazee/wagerbook/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheStore(t *testing.T) {
	ctx := context.Background()
	s := miniredis.RunT(t)
	redisCache := cache.NewRedisCache[json.RawMessage](&cache.RedisOptions{Addr: s.Addr()}, "wb:")
	t.Cleanup(func() { _ = redisCache.Close() })

	backends := map[string]cache.Cache[json.RawMessage]{
		"memory": cache.NewMemoryCache[json.RawMessage]("wb:"),
		"redis":  redisCache,
	}

	for name, c := range backends {
		t.Run(name, func(t *testing.T) {
			store := NewCacheStore(c)

			_, err := store.Load(ctx)
			assert.ErrorIs(t, err, ErrNoSnapshot)

			want := testSnapshot()
			require.NoError(t, store.Save(ctx, want))

			got, err := store.Load(ctx)
			require.NoError(t, err)
			require.NoError(t, got.Validate())
			assert.Equal(t, want.Balances, got.Balances)
			assert.Equal(t, want.Stats, got.Stats)
			assert.Len(t, got.History["carol"], 1)

			m := got.Markets["m1"]
			require.NotNil(t, m)
			assert.Equal(t, int64(50), m.TotalPool)
			assert.True(t, m.Options[0].FixedOdds.Equal(want.Markets["m1"].Options[0].FixedOdds))
			assert.True(t, m.Bettors["bob"].OddsAtPlacement.Equal(want.Markets["m1"].Bettors["bob"].OddsAtPlacement))
		})
	}

	t.Run("redis keys are one per section", func(t *testing.T) {
		for _, k := range sectionKeys {
			assert.True(t, s.Exists("wb:"+k), k)
		}
	})
}

func TestCacheStore_PartialAndCorrupt(t *testing.T) {
	ctx := context.Background()

	t.Run("missing section restores empty", func(t *testing.T) {
		c := cache.NewMemoryCache[json.RawMessage]("")
		require.NoError(t, c.Set(ctx, KeyBalances, json.RawMessage(`{"bob":40}`), 0))

		snap, err := NewCacheStore(c).Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(40), snap.Balances["bob"])
		assert.NotNil(t, snap.Markets)
		assert.Empty(t, snap.Markets)
	})

	t.Run("undecodable section", func(t *testing.T) {
		c := cache.NewMemoryCache[json.RawMessage]("")
		require.NoError(t, c.Set(ctx, KeyMarkets, json.RawMessage(`[1,2,3]`), 0))

		_, err := NewCacheStore(c).Load(ctx)
		assert.ErrorIs(t, err, ErrCorruptSnapshot)
	})

	t.Run("backend error is not corruption", func(t *testing.T) {
		s := miniredis.RunT(t)
		c := cache.NewRedisCache[json.RawMessage](&cache.RedisOptions{Addr: s.Addr()}, "")
		defer c.Close()
		s.Close()

		_, err := NewCacheStore(c).Load(ctx)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrCorruptSnapshot)
		assert.NotErrorIs(t, err, ErrNoSnapshot)
	})
}

func TestCacheStore_RedisCorruptSection(t *testing.T) {
	s := miniredis.RunT(t)
	require.NoError(t, s.Set("wb:"+KeyBalances, "{not json"))
	c := cache.NewRedisCache[json.RawMessage](&cache.RedisOptions{Addr: s.Addr()}, "wb:")
	defer c.Close()

	_, err := NewCacheStore(c).Load(context.Background())
	assert.ErrorIs(t, err, ErrCorruptSnapshot)
}
