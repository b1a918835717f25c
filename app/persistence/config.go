package persistence

import (
	"time"

	"github.com/joefazee/wagerbook/internal/cache"
	"github.com/joefazee/wagerbook/models"
)

const (
	BackendMemory   = cache.MemoryBackend
	BackendRedis    = cache.RedisBackend
	BackendPostgres = "postgres"
)

// Config represents the configuration for snapshot storage
type Config struct {
	Backend      string        `env:"PERSISTENCE_BACKEND" env-default:"memory" yaml:"backend"`
	KeyPrefix    string        `env:"PERSISTENCE_KEY_PREFIX" env-default:"wagerbook:" yaml:"key_prefix"`
	WriteTimeout time.Duration `env:"PERSISTENCE_WRITE_TIMEOUT" env-default:"2s" yaml:"write_timeout"`

	RedisAddr     string        `env:"REDIS_ADDR" env-default:"localhost:6379" yaml:"redis_addr"`
	RedisPassword string        `env:"REDIS_PASSWORD" yaml:"redis_password"`
	RedisDB       int           `env:"REDIS_DB" env-default:"0" yaml:"redis_db"`
	RedisTimeout  time.Duration `env:"REDIS_OP_TIMEOUT" env-default:"500ms" yaml:"redis_op_timeout"`
}

func (c *Config) Validate() error {
	switch c.Backend {
	case BackendMemory, BackendRedis, BackendPostgres:
	default:
		return models.ErrInvalidBackend
	}
	return nil
}

func GetDefaultConfig() *Config {
	return &Config{
		Backend:      BackendMemory,
		KeyPrefix:    "wagerbook:",
		WriteTimeout: 2 * time.Second,
		RedisAddr:    "localhost:6379",
		RedisTimeout: 500 * time.Millisecond,
	}
}

// CacheOptions maps the config onto the cache package options.
func (c *Config) CacheOptions() cache.Options {
	opts := cache.Options{Backend: c.Backend, KeyPrefix: c.KeyPrefix}
	if c.Backend == BackendRedis {
		opts.Redis = &cache.RedisOptions{
			Addr:            c.RedisAddr,
			Password:        c.RedisPassword,
			DB:              c.RedisDB,
			PoolSize:        10,
			MinIdleConns:    1,
			MaxRetries:      3,
			MinRetryBackoff: 8 * time.Millisecond,
			MaxRetryBackoff: 512 * time.Millisecond,
			OpTimeout:       c.RedisTimeout,
		}
	}
	return opts
}
