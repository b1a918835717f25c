package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WagerRecord is one user's stake on one market (immutable once placed)
type WagerRecord struct {
	ID              uuid.UUID       `json:"id"`
	MarketID        string          `json:"market_id"`
	UserID          string          `json:"user_id"`
	OptionIndex     int             `json:"option_index"`
	Amount          int64           `json:"amount"`
	OddsAtPlacement decimal.Decimal `json:"odds_at_placement"`
	PlacedAt        time.Time       `json:"placed_at"`
}

// NewWagerRecord builds a wager carrying the odds in force at placement.
func NewWagerRecord(marketID, userID string, optionIndex int, amount int64, odds decimal.Decimal, at time.Time) *WagerRecord {
	return &WagerRecord{
		ID:              uuid.New(),
		MarketID:        marketID,
		UserID:          userID,
		OptionIndex:     optionIndex,
		Amount:          amount,
		OddsAtPlacement: odds,
		PlacedAt:        at,
	}
}

// Winnings returns floor(amount × oddsAtPlacement), the credit for a winning wager.
func (w *WagerRecord) Winnings() int64 {
	return decimal.NewFromInt(w.Amount).Mul(w.OddsAtPlacement).Floor().IntPart()
}

// PotentialProfit returns what the wager would net if it won.
func (w *WagerRecord) PotentialProfit() int64 {
	return w.Winnings() - w.Amount
}
