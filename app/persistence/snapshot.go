package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/joefazee/wagerbook/models"
)

// Section keys. Each map is stored independently under its own key.
const (
	KeyMarkets  = "markets"
	KeyBalances = "balances"
	KeyStats    = "stats"
	KeyHistory  = "history"
)

var sectionKeys = []string{KeyMarkets, KeyBalances, KeyStats, KeyHistory}

var (
	// ErrNoSnapshot means the store has never been written.
	ErrNoSnapshot = errors.New("persistence: no snapshot stored")
	// ErrCorruptSnapshot means stored data could not be decoded or breaks an invariant.
	ErrCorruptSnapshot = errors.New("persistence: corrupt snapshot")
)

// Snapshot is the full engine state.
type Snapshot struct {
	Markets  map[string]*models.Market        `json:"markets"`
	Balances map[string]int64                 `json:"balances"`
	Stats    map[string]models.UserStats      `json:"stats"`
	History  map[string][]models.HistoryEntry `json:"history"`
}

// NewSnapshot returns a snapshot with every map allocated.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Markets:  make(map[string]*models.Market),
		Balances: make(map[string]int64),
		Stats:    make(map[string]models.UserStats),
		History:  make(map[string][]models.HistoryEntry),
	}
}

// SnapshotStore is the durable key/value contract the gateway writes through.
type SnapshotStore interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snap *Snapshot) error
}

// Validate checks the invariants a restored state must hold.
func (s *Snapshot) Validate() error {
	for id, m := range s.Markets {
		if m == nil || m.ID != id {
			return fmt.Errorf("%w: market key %q does not match its id", ErrCorruptSnapshot, id)
		}
		if err := m.Validate(); err != nil {
			return fmt.Errorf("%w: market %s: %v", ErrCorruptSnapshot, id, err)
		}
		if !m.Status.IsValid() {
			return fmt.Errorf("%w: market %s has status %q", ErrCorruptSnapshot, id, m.Status)
		}
		var pool int64
		for uid, w := range m.Bettors {
			if w == nil || w.UserID != uid || !m.HasOption(w.OptionIndex) || w.Amount <= 0 {
				return fmt.Errorf("%w: market %s has a malformed wager for %q", ErrCorruptSnapshot, id, uid)
			}
			pool += w.Amount
		}
		if pool != m.TotalPool {
			return fmt.Errorf("%w: market %s pool %d does not match wagers %d", ErrCorruptSnapshot, id, m.TotalPool, pool)
		}
	}
	for uid, bal := range s.Balances {
		if bal < 0 {
			return fmt.Errorf("%w: negative balance for %q", ErrCorruptSnapshot, uid)
		}
	}
	for uid, st := range s.Stats {
		if !st.IsConsistent() {
			return fmt.Errorf("%w: inconsistent stats for %q", ErrCorruptSnapshot, uid)
		}
	}
	return nil
}

// fill replaces nil maps with empty ones, for sections that were never written.
func (s *Snapshot) fill() {
	if s.Markets == nil {
		s.Markets = make(map[string]*models.Market)
	}
	if s.Balances == nil {
		s.Balances = make(map[string]int64)
	}
	if s.Stats == nil {
		s.Stats = make(map[string]models.UserStats)
	}
	if s.History == nil {
		s.History = make(map[string][]models.HistoryEntry)
	}
}

// sections returns a pointer to each map keyed by section name, for generic encode/decode.
func (s *Snapshot) sections() map[string]interface{} {
	return map[string]interface{}{
		KeyMarkets:  &s.Markets,
		KeyBalances: &s.Balances,
		KeyStats:    &s.Stats,
		KeyHistory:  &s.History,
	}
}
