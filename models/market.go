package models

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

const (
	MinOptions = 2
	MaxOptions = 10
)

// MinFixedOdds is the lowest multiplier a market option may be created with.
var MinFixedOdds = decimal.RequireFromString("1.01")

// MarketStatus represents the current status of a market
type MarketStatus string

const (
	MarketStatusOpen      MarketStatus = "open"
	MarketStatusLocked    MarketStatus = "locked"
	MarketStatusResolved  MarketStatus = "resolved"
	MarketStatusCancelled MarketStatus = "cancelled"
)

// transitions lists every allowed status change. Anything missing is rejected.
var transitions = map[MarketStatus][]MarketStatus{
	MarketStatusOpen:   {MarketStatusLocked, MarketStatusResolved, MarketStatusCancelled},
	MarketStatusLocked: {MarketStatusResolved, MarketStatusCancelled},
}

// IsValid reports whether s is one of the known statuses.
func (s MarketStatus) IsValid() bool {
	switch s {
	case MarketStatusOpen, MarketStatusLocked, MarketStatusResolved, MarketStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no transition can leave s.
func (s MarketStatus) IsTerminal() bool {
	return s == MarketStatusResolved || s == MarketStatusCancelled
}

// CanTransition checks the transition table.
func CanTransition(from, to MarketStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// MarketOption is one selectable outcome with the odds fixed at creation.
type MarketOption struct {
	Name      string          `json:"name"`
	FixedOdds decimal.Decimal `json:"fixed_odds"`
}

// Market represents one wagering event
type Market struct {
	ID             string                  `json:"id"`
	Question       string                  `json:"question"`
	Options        []MarketOption          `json:"options"`
	Bettors        map[string]*WagerRecord `json:"bettors"`
	TotalPool      int64                   `json:"total_pool"`
	Status         MarketStatus            `json:"status"`
	CreatorID      string                  `json:"creator_id"`
	CreatedAt      time.Time               `json:"created_at"`
	ClosingTime    *time.Time              `json:"closing_time,omitempty"`
	ReminderSent   bool                    `json:"reminder_sent"`
	WinningOptions []int                   `json:"winning_options,omitempty"`
	ResolvedAt     *time.Time              `json:"resolved_at,omitempty"`
}

// IsOpen checks if the market accepts wagers
func (m *Market) IsOpen() bool {
	return m.Status == MarketStatusOpen
}

// IsActive checks if the market is still awaiting settlement
func (m *Market) IsActive() bool {
	return m.Status == MarketStatusOpen || m.Status == MarketStatusLocked
}

// HasOption checks if idx addresses one of the market options
func (m *Market) HasOption(idx int) bool {
	return idx >= 0 && idx < len(m.Options)
}

// HasWager checks if userID already staked on this market
func (m *Market) HasWager(userID string) bool {
	_, ok := m.Bettors[userID]
	return ok
}

// TransitionTo moves the market to next if the transition table allows it.
func (m *Market) TransitionTo(next MarketStatus) error {
	if m.Status.IsTerminal() {
		return ErrMarketTerminal
	}
	if !CanTransition(m.Status, next) {
		return ErrBadTransition
	}
	m.Status = next
	return nil
}

// AddWager records w and grows the pool. Callers validate beforehand.
func (m *Market) AddWager(w *WagerRecord) {
	if m.Bettors == nil {
		m.Bettors = make(map[string]*WagerRecord)
	}
	m.Bettors[w.UserID] = w
	m.TotalPool += w.Amount
}

// Wagers returns the wagers ordered by placement time, then user id.
func (m *Market) Wagers() []*WagerRecord {
	out := make([]*WagerRecord, 0, len(m.Bettors))
	for _, w := range m.Bettors {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PlacedAt.Equal(out[j].PlacedAt) {
			return out[i].PlacedAt.Before(out[j].PlacedAt)
		}
		return out[i].UserID < out[j].UserID
	})
	return out
}

// OptionPools returns the staked amount per option.
func (m *Market) OptionPools() []int64 {
	pools := make([]int64, len(m.Options))
	for _, w := range m.Bettors {
		if m.HasOption(w.OptionIndex) {
			pools[w.OptionIndex] += w.Amount
		}
	}
	return pools
}

// IsWinningOption checks if idx is among the declared winners
func (m *Market) IsWinningOption(idx int) bool {
	for _, w := range m.WinningOptions {
		if w == idx {
			return true
		}
	}
	return false
}

// Clone returns a deep copy safe to hand out of the registry.
func (m *Market) Clone() *Market {
	c := *m
	c.Options = append([]MarketOption(nil), m.Options...)
	c.WinningOptions = append([]int(nil), m.WinningOptions...)
	if m.ClosingTime != nil {
		t := *m.ClosingTime
		c.ClosingTime = &t
	}
	if m.ResolvedAt != nil {
		t := *m.ResolvedAt
		c.ResolvedAt = &t
	}
	c.Bettors = make(map[string]*WagerRecord, len(m.Bettors))
	for k, w := range m.Bettors {
		wc := *w
		c.Bettors[k] = &wc
	}
	return &c
}

// Validate performs validation on the market model
func (m *Market) Validate() error {
	if m.ID == "" {
		return ErrInvalidMarketID
	}
	if m.Question == "" {
		return ErrInvalidQuestion
	}
	if m.CreatorID == "" {
		return ErrInvalidUserID
	}
	if len(m.Options) < MinOptions || len(m.Options) > MaxOptions {
		return ErrInvalidOptionCount
	}
	for _, o := range m.Options {
		if o.Name == "" {
			return ErrInvalidOptionName
		}
		if o.FixedOdds.LessThan(MinFixedOdds) {
			return ErrInvalidOdds
		}
	}
	return nil
}
