package stats

import "github.com/joefazee/wagerbook/models"

// Config represents the configuration for the stats module
type Config struct {
	DefaultHistoryLimit int `env:"STATS_DEFAULT_HISTORY_LIMIT" env-default:"10" yaml:"default_history_limit"`
	MaxHistoryLimit     int `env:"STATS_MAX_HISTORY_LIMIT" env-default:"50" yaml:"max_history_limit"`
}

func (c *Config) Validate() error {
	if c.DefaultHistoryLimit < 1 || c.MaxHistoryLimit < c.DefaultHistoryLimit {
		return models.ErrInvalidHistoryLimits
	}
	return nil
}

func GetDefaultConfig() *Config {
	return &Config{
		DefaultHistoryLimit: 10,
		MaxHistoryLimit:     50,
	}
}

// ClampLimit maps a requested history size into [1, MaxHistoryLimit].
// Zero or negative means the default.
func (c *Config) ClampLimit(k int) int {
	if k <= 0 {
		return c.DefaultHistoryLimit
	}
	if k > c.MaxHistoryLimit {
		return c.MaxHistoryLimit
	}
	return k
}
