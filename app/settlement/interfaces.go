package settlement

import (
	"context"

	"github.com/joefazee/wagerbook/models"
)

// Registry gives exclusive access to one market at a time.
type Registry interface {
	WithMarket(id string, fn func(m *models.Market) error) error
}

// Ledger is the credit side used for payouts and refunds.
type Ledger interface {
	Credit(userID string, amount int64) (int64, error)
}

// Recorder receives one history entry per settled wager.
type Recorder interface {
	RecordSettlement(userID string, entry models.HistoryEntry)
}

// Persister saves the engine state after a mutation.
type Persister interface {
	Persist(ctx context.Context) error
}

// Service defines the market state machine operations
type Service interface {
	// Lock is the system entry point used by the scheduler.
	Lock(ctx context.Context, marketID string) (*models.Market, error)
	// LockAs is Lock for an organizer; only the creator may lock.
	LockAs(ctx context.Context, marketID, callerID string) (*models.Market, error)
	Resolve(ctx context.Context, marketID, callerID string, winning []int) (*Result, error)
	Cancel(ctx context.Context, marketID, callerID string) (*Result, error)
}
