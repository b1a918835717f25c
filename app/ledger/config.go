package ledger

import "github.com/joefazee/wagerbook/models"

// Config represents the configuration for the ledger module
type Config struct {
	StartingBalance int64 `env:"LEDGER_STARTING_BALANCE" env-default:"100" yaml:"starting_balance"`
	LeaderboardSize int   `env:"LEDGER_LEADERBOARD_SIZE" env-default:"10" yaml:"leaderboard_size"`
	MaxLeaderboard  int   `env:"LEDGER_MAX_LEADERBOARD" env-default:"100" yaml:"max_leaderboard"`
}

func (c *Config) Validate() error {
	if c.StartingBalance < 0 {
		return models.ErrInvalidStartingBalance
	}
	if c.LeaderboardSize <= 0 || c.MaxLeaderboard < c.LeaderboardSize {
		return models.ErrInvalidLeaderboardSize
	}
	return nil
}

func GetDefaultConfig() *Config {
	return &Config{
		StartingBalance: 100,
		LeaderboardSize: 10,
		MaxLeaderboard:  100,
	}
}
