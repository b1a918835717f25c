package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUserStats(t *testing.T) {
	var s UserStats
	assert.Equal(t, 0.0, s.WinRate())

	s.Record(true)
	s.Record(false)
	s.Record(false)
	s.Record(true)

	assert.Equal(t, int64(4), s.TotalBets)
	assert.Equal(t, int64(2), s.WonBets)
	assert.Equal(t, int64(2), s.LostBets)
	assert.Equal(t, 0.5, s.WinRate())
	assert.True(t, s.IsConsistent())

	broken := UserStats{TotalBets: 1, WonBets: 1, LostBets: 1}
	assert.False(t, broken.IsConsistent())
}

func TestNewHistoryEntry(t *testing.T) {
	m := newTestMarket()
	at := time.Now()
	winner := NewWagerRecord(m.ID, "bob", 0, 50, m.Options[0].FixedOdds, at)
	loser := NewWagerRecord(m.ID, "carol", 1, 20, m.Options[1].FixedOdds, at)

	t.Run("won entry", func(t *testing.T) {
		h := NewHistoryEntry(m, winner, true, at)
		assert.Equal(t, HistoryResultWon, h.Result)
		assert.True(t, h.IsWin())
		assert.Equal(t, int64(75), h.Winnings)
		assert.Equal(t, int64(25), h.Profit())
		assert.Equal(t, "A", h.OptionName)
		assert.Equal(t, m.Question, h.Question)
		assert.Equal(t, m.ID, h.MarketID)
	})

	t.Run("lost entry", func(t *testing.T) {
		h := NewHistoryEntry(m, loser, false, at)
		assert.Equal(t, HistoryResultLost, h.Result)
		assert.False(t, h.IsWin())
		assert.Equal(t, int64(0), h.Winnings)
		assert.Equal(t, int64(-20), h.Profit())
		assert.Equal(t, "B", h.OptionName)
	})
}
