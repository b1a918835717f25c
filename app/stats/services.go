package stats

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

func (s *service) GetStats(_ context.Context, userID string) (*StatsResponse, error) {
	if userID == "" {
		return nil, models.ErrInvalidUserID
	}
	return ToStatsResponse(userID, s.store.Stats(userID)), nil
}

func (s *service) GetHistory(_ context.Context, userID string, k int) ([]HistoryResponse, error) {
	if userID == "" {
		return nil, models.ErrInvalidUserID
	}
	return ToHistoryResponseList(s.store.History(userID, s.config.ClampLimit(k))), nil
}
