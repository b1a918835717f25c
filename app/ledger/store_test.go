package ledger

import (
	"sync"
	"testing"

	"github.com/joefazee/wagerbook/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Balance(t *testing.T) {
	s := NewStore(100)

	t.Run("lazy account opening", func(t *testing.T) {
		assert.Equal(t, int64(100), s.Balance("bob"))
		assert.Contains(t, s.SnapshotBalances(), "bob")
	})

	t.Run("debit and credit", func(t *testing.T) {
		bal, err := s.Debit("carol", 40)
		require.NoError(t, err)
		assert.Equal(t, int64(60), bal)

		bal, err = s.Credit("carol", 15)
		require.NoError(t, err)
		assert.Equal(t, int64(75), bal)
	})

	t.Run("debit never goes negative", func(t *testing.T) {
		bal, err := s.Debit("dave", 101)
		assert.ErrorIs(t, err, models.ErrInsufficientBalance)
		assert.Equal(t, int64(100), bal)
		assert.Equal(t, int64(100), s.Balance("dave"))
	})

	t.Run("non positive amounts", func(t *testing.T) {
		_, err := s.Debit("erin", 0)
		assert.ErrorIs(t, err, models.ErrInvalidAmount)
		_, err = s.Credit("erin", -1)
		assert.ErrorIs(t, err, models.ErrInvalidAmount)
	})
}

func TestStore_ConcurrentDebits(t *testing.T) {
	s := NewStore(100)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Debit("bob", 3)
		}()
	}
	wg.Wait()

	// 33 debits of 3 fit in 100, the rest are refused.
	assert.Equal(t, int64(1), s.Balance("bob"))
}

func TestStore_Leaderboard(t *testing.T) {
	s := NewStore(100)
	_, _ = s.Credit("zed", 50)
	_, _ = s.Credit("amy", 50)
	_, _ = s.Debit("bob", 30)
	s.Balance("cat")

	board := s.Leaderboard(3)
	require.Len(t, board, 3)
	assert.Equal(t, "amy", board[0].UserID)
	assert.Equal(t, "zed", board[1].UserID)
	assert.Equal(t, "cat", board[2].UserID)
	assert.Len(t, s.Leaderboard(10), 4)
}

func TestStore_SnapshotRestore(t *testing.T) {
	s := NewStore(100)
	_, _ = s.Debit("bob", 25)

	snap := s.SnapshotBalances()
	snap["bob"] = 0 // copies must not alias

	assert.Equal(t, int64(75), s.Balance("bob"))

	other := NewStore(100)
	require.NoError(t, other.RestoreBalances(map[string]int64{"bob": 75, "amy": 0}))
	assert.Equal(t, int64(75), other.Balance("bob"))
	assert.Equal(t, int64(0), other.Balance("amy"))

	assert.ErrorIs(t, other.RestoreBalances(map[string]int64{"bad": -1}), models.ErrInvalidAmount)
	assert.Equal(t, int64(75), other.Balance("bob"))
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, GetDefaultConfig().Validate())

	c := GetDefaultConfig()
	c.StartingBalance = -1
	assert.ErrorIs(t, c.Validate(), models.ErrInvalidStartingBalance)

	c = GetDefaultConfig()
	c.MaxLeaderboard = 5
	assert.ErrorIs(t, c.Validate(), models.ErrInvalidLeaderboardSize)
}
