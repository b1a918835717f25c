package models

import (
	"time"

	"github.com/google/uuid"
)

// HistoryResult represents the outcome of a settled wager
type HistoryResult string

const (
	HistoryResultWon  HistoryResult = "won"
	HistoryResultLost HistoryResult = "lost"
)

// HistoryEntry is an immutable record of one settled wager.
type HistoryEntry struct {
	ID         uuid.UUID     `json:"id"`
	MarketID   string        `json:"market_id"`
	Question   string        `json:"question"`
	OptionName string        `json:"option_name"`
	Amount     int64         `json:"amount"`
	Winnings   int64         `json:"winnings"`
	Result     HistoryResult `json:"result"`
	Timestamp  time.Time     `json:"timestamp"`
}

// NewHistoryEntry builds the entry for wager w settled on market m.
func NewHistoryEntry(m *Market, w *WagerRecord, won bool, at time.Time) HistoryEntry {
	result, winnings := HistoryResultLost, int64(0)
	if won {
		result, winnings = HistoryResultWon, w.Winnings()
	}
	optionName := ""
	if m.HasOption(w.OptionIndex) {
		optionName = m.Options[w.OptionIndex].Name
	}
	return HistoryEntry{
		ID:         uuid.New(),
		MarketID:   m.ID,
		Question:   m.Question,
		OptionName: optionName,
		Amount:     w.Amount,
		Winnings:   winnings,
		Result:     result,
		Timestamp:  at,
	}
}

// IsWin checks if this is a winning entry
func (h *HistoryEntry) IsWin() bool {
	return h.Result == HistoryResultWon
}

// Profit returns winnings minus stake.
func (h *HistoryEntry) Profit() int64 {
	return h.Winnings - h.Amount
}
