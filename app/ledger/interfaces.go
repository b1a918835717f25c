package ledger

import (
	"context"

	"github.com/joefazee/wagerbook/models"
)

// Service defines the balance reads exposed to callers. Stakes, payouts and
// refunds mutate the Store directly from the market and settlement services
// while they hold the market lock.
type Service interface {
	GetBalance(ctx context.Context, userID string) (*BalanceResponse, error)
	Leaderboard(ctx context.Context, k int) ([]models.UserAccount, error)
}
