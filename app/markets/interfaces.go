package markets

import (
	"context"
	"time"

	"github.com/joefazee/wagerbook/models"
	"github.com/shopspring/decimal"
)

// Persister saves the engine state after a mutation.
type Persister interface {
	Persist(ctx context.Context) error
}

// Ledger is the balance side of wager placement.
type Ledger interface {
	Balance(userID string) int64
	Debit(userID string, amount int64) (int64, error)
}

// Scheduler arms the closing timers of a new market.
type Scheduler interface {
	Arm(ctx context.Context, marketID string, closingTime time.Time)
	ResolveClosingTime(token string) (time.Time, error)
}

// OddsEngine defines the pool-proportional re-pricing of a market
type OddsEngine interface {
	ComputeDynamicOdds(m *models.Market) []decimal.Decimal
}

// Service defines the interface for market business logic
type Service interface {
	CreateMarket(ctx context.Context, req *CreateMarketRequest) (*models.Market, error)
	PlaceWager(ctx context.Context, marketID, userID string, optionIndex int, amount int64) (*models.WagerRecord, error)
	GetMarket(ctx context.Context, id string) (*models.Market, error)
	ListActive(ctx context.Context) []*models.Market
	DynamicOdds(ctx context.Context, id string) ([]decimal.Decimal, error)
}
