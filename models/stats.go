package models

// UserStats are per-user aggregate counters.
type UserStats struct {
	TotalBets int64 `json:"total_bets"`
	WonBets   int64 `json:"won_bets"`
	LostBets  int64 `json:"lost_bets"`
}

// Record counts one settled wager.
func (s *UserStats) Record(won bool) {
	s.TotalBets++
	if won {
		s.WonBets++
	} else {
		s.LostBets++
	}
}

// WinRate returns the share of settled wagers that won, 0 when none settled.
func (s *UserStats) WinRate() float64 {
	settled := s.WonBets + s.LostBets
	if settled == 0 {
		return 0
	}
	return float64(s.WonBets) / float64(settled)
}

// IsConsistent checks the counter invariants.
func (s *UserStats) IsConsistent() bool {
	return s.TotalBets >= 0 && s.WonBets >= 0 && s.LostBets >= 0 &&
		s.WonBets+s.LostBets <= s.TotalBets
}
