package persistence

import (
	"testing"
	"time"

	"github.com/joefazee/wagerbook/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		cfg := GetDefaultConfig()
		require.NoError(t, cfg.Validate())
		assert.Equal(t, BackendMemory, cfg.Backend)
		assert.Equal(t, 2*time.Second, cfg.WriteTimeout)
	})

	t.Run("unknown backend", func(t *testing.T) {
		cfg := GetDefaultConfig()
		cfg.Backend = "sqlite"
		assert.ErrorIs(t, cfg.Validate(), models.ErrInvalidBackend)
	})

	t.Run("cache options", func(t *testing.T) {
		cfg := GetDefaultConfig()
		assert.Nil(t, cfg.CacheOptions().Redis)

		cfg.Backend = BackendRedis
		cfg.RedisAddr = "redis:6379"
		opts := cfg.CacheOptions()
		require.NotNil(t, opts.Redis)
		assert.Equal(t, "redis:6379", opts.Redis.Addr)
		assert.Equal(t, "wagerbook:", opts.KeyPrefix)
		assert.Equal(t, 500*time.Millisecond, opts.Redis.OpTimeout)
	})
}
