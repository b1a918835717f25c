package ledger

import (
	"sort"
	"sync"

	"github.com/joefazee/wagerbook/models"
)

// Store owns every user balance. Accounts are created on first reference
// with the configured starting balance.
type Store struct {
	mu              sync.Mutex
	startingBalance int64
	balances        map[string]int64
}

func NewStore(startingBalance int64) *Store {
	return &Store{
		startingBalance: startingBalance,
		balances:        make(map[string]int64),
	}
}

func (s *Store) account(userID string) *models.UserAccount {
	bal, ok := s.balances[userID]
	if !ok {
		bal = s.startingBalance
		s.balances[userID] = bal
	}
	return &models.UserAccount{UserID: userID, Balance: bal}
}

// Balance returns the user's balance, opening the account if needed.
func (s *Store) Balance(userID string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.account(userID).Balance
}

// Account returns a copy of the user's account.
func (s *Store) Account(userID string) models.UserAccount {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.account(userID)
}

// Debit removes amount, failing with models.ErrBalanceTooLow rather than going negative.
func (s *Store) Debit(userID string, amount int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc := s.account(userID)
	if err := acc.Debit(amount); err != nil {
		return acc.Balance, err
	}
	s.balances[userID] = acc.Balance
	return acc.Balance, nil
}

func (s *Store) Credit(userID string, amount int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc := s.account(userID)
	if err := acc.Credit(amount); err != nil {
		return acc.Balance, err
	}
	s.balances[userID] = acc.Balance
	return acc.Balance, nil
}

// Leaderboard returns up to k accounts by balance, highest first, ties by user id.
func (s *Store) Leaderboard(k int) []models.UserAccount {
	s.mu.Lock()
	out := make([]models.UserAccount, 0, len(s.balances))
	for id, bal := range s.balances {
		out = append(out, models.UserAccount{UserID: id, Balance: bal})
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Balance != out[j].Balance {
			return out[i].Balance > out[j].Balance
		}
		return out[i].UserID < out[j].UserID
	})
	if k >= 0 && len(out) > k {
		out = out[:k]
	}
	return out
}

// SnapshotBalances copies the balance map for persistence.
func (s *Store) SnapshotBalances() map[string]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int64, len(s.balances))
	for k, v := range s.balances {
		out[k] = v
	}
	return out
}

// RestoreBalances replaces every balance. Negative values are rejected.
func (s *Store) RestoreBalances(balances map[string]int64) error {
	restored := make(map[string]int64, len(balances))
	for k, v := range balances {
		if v < 0 {
			return models.ErrInvalidAmount
		}
		restored[k] = v
	}
	s.mu.Lock()
	s.balances = restored
	s.mu.Unlock()
	return nil
}
