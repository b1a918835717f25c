package stats

import "context"

// Service defines the read side of user statistics
type Service interface {
	GetStats(ctx context.Context, userID string) (*StatsResponse, error)
	GetHistory(ctx context.Context, userID string, k int) ([]HistoryResponse, error)
}
