package ledger

import (
	"context"

	"github.com/joefazee/wagerbook/models"
)

type service struct {
	store  *Store
	config *Config
}

func NewService(store *Store, config *Config) Service {
	return &service{store: store, config: config}
}

func (s *service) GetBalance(_ context.Context, userID string) (*BalanceResponse, error) {
	if userID == "" {
		return nil, models.ErrInvalidUserID
	}
	return ToBalanceResponse(s.store.Account(userID)), nil
}

// Leaderboard clamps k to [1, MaxLeaderboard], using LeaderboardSize when k <= 0.
func (s *service) Leaderboard(_ context.Context, k int) ([]models.UserAccount, error) {
	if k <= 0 {
		k = s.config.LeaderboardSize
	}
	if k > s.config.MaxLeaderboard {
		k = s.config.MaxLeaderboard
	}
	return s.store.Leaderboard(k), nil
}
