package models

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMarket() *Market {
	return &Market{
		ID:        "m1",
		Question:  "Who wins?",
		CreatorID: "alice",
		Status:    MarketStatusOpen,
		CreatedAt: time.Now(),
		Options: []MarketOption{
			{Name: "A", FixedOdds: decimal.RequireFromString("1.5")},
			{Name: "B", FixedOdds: decimal.RequireFromString("3.0")},
		},
	}
}

func TestMarketStatus(t *testing.T) {
	t.Run("valid statuses", func(t *testing.T) {
		for _, s := range []MarketStatus{MarketStatusOpen, MarketStatusLocked, MarketStatusResolved, MarketStatusCancelled} {
			assert.True(t, s.IsValid(), s)
		}
		assert.False(t, MarketStatus("paused").IsValid())
	})

	t.Run("terminal statuses", func(t *testing.T) {
		assert.False(t, MarketStatusOpen.IsTerminal())
		assert.False(t, MarketStatusLocked.IsTerminal())
		assert.True(t, MarketStatusResolved.IsTerminal())
		assert.True(t, MarketStatusCancelled.IsTerminal())
	})

	t.Run("transition table", func(t *testing.T) {
		tests := []struct {
			from, to MarketStatus
			allowed  bool
		}{
			{MarketStatusOpen, MarketStatusLocked, true},
			{MarketStatusOpen, MarketStatusResolved, true},
			{MarketStatusOpen, MarketStatusCancelled, true},
			{MarketStatusLocked, MarketStatusResolved, true},
			{MarketStatusLocked, MarketStatusCancelled, true},
			{MarketStatusLocked, MarketStatusOpen, false},
			{MarketStatusOpen, MarketStatusOpen, false},
			{MarketStatusResolved, MarketStatusCancelled, false},
			{MarketStatusCancelled, MarketStatusOpen, false},
			{MarketStatusResolved, MarketStatusLocked, false},
		}
		for _, tt := range tests {
			assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
		}
	})
}

func TestMarket_TransitionTo(t *testing.T) {
	t.Run("open to locked", func(t *testing.T) {
		m := newTestMarket()
		require.NoError(t, m.TransitionTo(MarketStatusLocked))
		assert.Equal(t, MarketStatusLocked, m.Status)
	})

	t.Run("locked back to open is rejected", func(t *testing.T) {
		m := newTestMarket()
		m.Status = MarketStatusLocked
		err := m.TransitionTo(MarketStatusOpen)
		assert.ErrorIs(t, err, ErrBadTransition)
		assert.ErrorIs(t, err, ErrStateConflict)
		assert.Equal(t, MarketStatusLocked, m.Status)
	})

	t.Run("terminal markets never move", func(t *testing.T) {
		m := newTestMarket()
		m.Status = MarketStatusResolved
		err := m.TransitionTo(MarketStatusCancelled)
		assert.ErrorIs(t, err, ErrMarketTerminal)
		assert.Equal(t, MarketStatusResolved, m.Status)
	})
}

func TestMarket_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(m *Market)
		wantErr error
	}{
		{"valid", func(m *Market) {}, nil},
		{"missing id", func(m *Market) { m.ID = "" }, ErrInvalidMarketID},
		{"missing question", func(m *Market) { m.Question = "" }, ErrInvalidQuestion},
		{"missing creator", func(m *Market) { m.CreatorID = "" }, ErrInvalidUserID},
		{"one option", func(m *Market) { m.Options = m.Options[:1] }, ErrInvalidOptionCount},
		{"eleven options", func(m *Market) {
			opts := make([]MarketOption, 11)
			for i := range opts {
				opts[i] = MarketOption{Name: "x", FixedOdds: decimal.NewFromInt(2)}
			}
			m.Options = opts
		}, ErrInvalidOptionCount},
		{"odds of 1.00", func(m *Market) { m.Options[1].FixedOdds = decimal.NewFromInt(1) }, ErrInvalidOdds},
		{"odds of exactly 1.01", func(m *Market) { m.Options[1].FixedOdds = decimal.RequireFromString("1.01") }, nil},
		{"blank option name", func(m *Market) { m.Options[0].Name = "" }, ErrInvalidOptionName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMarket()
			tt.mutate(m)
			err := m.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestMarket_Wagers(t *testing.T) {
	m := newTestMarket()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	m.AddWager(NewWagerRecord(m.ID, "carol", 1, 20, m.Options[1].FixedOdds, base.Add(time.Minute)))
	m.AddWager(NewWagerRecord(m.ID, "bob", 0, 50, m.Options[0].FixedOdds, base))
	m.AddWager(NewWagerRecord(m.ID, "alice", 0, 10, m.Options[0].FixedOdds, base))

	t.Run("pool tracks wagers", func(t *testing.T) {
		assert.Equal(t, int64(80), m.TotalPool)
		assert.Equal(t, []int64{60, 20}, m.OptionPools())
		assert.True(t, m.HasWager("bob"))
		assert.False(t, m.HasWager("dave"))
	})

	t.Run("ordered by placement then user", func(t *testing.T) {
		ws := m.Wagers()
		require.Len(t, ws, 3)
		assert.Equal(t, "alice", ws[0].UserID)
		assert.Equal(t, "bob", ws[1].UserID)
		assert.Equal(t, "carol", ws[2].UserID)
	})
}

func TestMarket_Clone(t *testing.T) {
	m := newTestMarket()
	closing := time.Now().Add(time.Hour)
	m.ClosingTime = &closing
	m.AddWager(NewWagerRecord(m.ID, "bob", 0, 50, m.Options[0].FixedOdds, time.Now()))

	c := m.Clone()
	c.Options[0].Name = "changed"
	c.Bettors["bob"].Amount = 1
	*c.ClosingTime = closing.Add(time.Hour)

	assert.Equal(t, "A", m.Options[0].Name)
	assert.Equal(t, int64(50), m.Bettors["bob"].Amount)
	assert.True(t, m.ClosingTime.Equal(closing))
}

func TestMarket_IsWinningOption(t *testing.T) {
	m := newTestMarket()
	m.WinningOptions = []int{1}
	assert.True(t, m.IsWinningOption(1))
	assert.False(t, m.IsWinningOption(0))
}

func TestDomainError(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), ErrDuplicateWager)
	assert.ErrorIs(t, wrapped, ErrDuplicateWager)
	assert.ErrorIs(t, wrapped, ErrStateConflict)
	assert.NotErrorIs(t, wrapped, ErrNotFound)
	assert.Equal(t, "DUPLICATE_WAGER", Code(wrapped))
	assert.Equal(t, "", Code(errors.New("plain")))
	assert.Equal(t, "[MARKET_NOT_FOUND] market not found", ErrMarketNotFound.Error())
}
