package stats

import (
	"sync"

	"github.com/joefazee/wagerbook/models"
)

// Store owns per-user counters and the append-only history log.
type Store struct {
	mu      sync.Mutex
	stats   map[string]models.UserStats
	history map[string][]models.HistoryEntry
}

func NewStore() *Store {
	return &Store{
		stats:   make(map[string]models.UserStats),
		history: make(map[string][]models.HistoryEntry),
	}
}

// Stats returns the user's counters, zeroed on first reference.
func (s *Store) Stats(userID string) models.UserStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.stats[userID]
	if !ok {
		s.stats[userID] = st
	}
	return st
}

// RecordSettlement counts the result and appends its history entry in one step.
func (s *Store) RecordSettlement(userID string, entry models.HistoryEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.stats[userID]
	st.Record(entry.IsWin())
	s.stats[userID] = st
	s.history[userID] = append(s.history[userID], entry)
}

// History returns up to k entries, most recent first.
func (s *Store) History(userID string, k int) []models.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	log := s.history[userID]
	if k > len(log) {
		k = len(log)
	}
	if k <= 0 {
		return []models.HistoryEntry{}
	}
	out := make([]models.HistoryEntry, 0, k)
	for i := len(log) - 1; i >= len(log)-k; i-- {
		out = append(out, log[i])
	}
	return out
}

func (s *Store) SnapshotStats() map[string]models.UserStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]models.UserStats, len(s.stats))
	for k, v := range s.stats {
		out[k] = v
	}
	return out
}

func (s *Store) SnapshotHistory() map[string][]models.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string][]models.HistoryEntry, len(s.history))
	for k, v := range s.history {
		out[k] = append([]models.HistoryEntry(nil), v...)
	}
	return out
}

// RestoreStats replaces every counter. Inconsistent counters are rejected.
func (s *Store) RestoreStats(in map[string]models.UserStats) error {
	restored := make(map[string]models.UserStats, len(in))
	for k, v := range in {
		if !v.IsConsistent() {
			return models.ErrInvalidInput
		}
		restored[k] = v
	}
	s.mu.Lock()
	s.stats = restored
	s.mu.Unlock()
	return nil
}

func (s *Store) RestoreHistory(in map[string][]models.HistoryEntry) {
	restored := make(map[string][]models.HistoryEntry, len(in))
	for k, v := range in {
		restored[k] = append([]models.HistoryEntry(nil), v...)
	}
	s.mu.Lock()
	s.history = restored
	s.mu.Unlock()
}
