package settlement

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/joefazee/wagerbook/app/notify"
	"github.com/joefazee/wagerbook/internal/logger"
	"github.com/joefazee/wagerbook/internal/metrics"
	"github.com/joefazee/wagerbook/models"
)

type service struct {
	registry  Registry
	ledger    Ledger
	recorder  Recorder
	persister Persister
	notifier  notify.Notifier
	logger    logger.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

// ServiceDeps groups the collaborators of the settlement service
type ServiceDeps struct {
	Registry  Registry
	Ledger    Ledger
	Recorder  Recorder
	Persister Persister
	Notifier  notify.Notifier
	Logger    logger.Logger
	Metrics   *metrics.Metrics
}

func NewService(deps ServiceDeps) Service {
	notifier := deps.Notifier
	if notifier == nil {
		notifier = notify.Nop{}
	}
	log := deps.Logger
	if log == nil {
		log = logger.NewNullLogger()
	}
	return &service{
		registry:  deps.Registry,
		ledger:    deps.Ledger,
		recorder:  deps.Recorder,
		persister: deps.Persister,
		notifier:  notifier,
		logger:    log,
		metrics:   deps.Metrics,
		now:       time.Now,
	}
}

func (s *service) Lock(ctx context.Context, marketID string) (*models.Market, error) {
	return s.lock(ctx, marketID, "")
}

func (s *service) LockAs(ctx context.Context, marketID, callerID string) (*models.Market, error) {
	if callerID == "" {
		return nil, models.ErrNotCreator
	}
	return s.lock(ctx, marketID, callerID)
}

// lock moves an open market to locked. Locking a locked market is a no-op.
// An empty callerID skips the creator check.
func (s *service) lock(ctx context.Context, marketID, callerID string) (*models.Market, error) {
	var locked *models.Market
	changed := false
	err := s.registry.WithMarket(marketID, func(m *models.Market) error {
		if callerID != "" && m.CreatorID != callerID {
			return models.ErrNotCreator
		}
		if m.Status == models.MarketStatusLocked {
			locked = m.Clone()
			return nil
		}
		if err := m.TransitionTo(models.MarketStatusLocked); err != nil {
			return err
		}
		changed = true
		locked = m.Clone()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", marketID, err)
	}
	if !changed {
		return locked, nil
	}

	s.logger.Info("market locked", map[string]interface{}{"market_id": marketID, "by": callerID, "pool": locked.TotalPool})
	perr := s.persister.Persist(ctx)
	s.announce(ctx, marketID, notify.KindLocked, map[string]interface{}{
		"question":   locked.Question,
		"total_pool": locked.TotalPool,
		"bettors":    len(locked.Bettors),
	})
	return locked, perr
}

// checkSettleable runs the shared preconditions in order: creator, then status.
func checkSettleable(m *models.Market, callerID string) error {
	if m.CreatorID != callerID {
		return models.ErrNotCreator
	}
	if !m.IsActive() {
		return models.ErrMarketTerminal
	}
	return nil
}

// normalizeWinning validates the indices against m and returns them sorted
// without duplicates.
func normalizeWinning(m *models.Market, winning []int) ([]int, error) {
	if len(winning) == 0 {
		return nil, models.ErrInvalidOption
	}
	seen := make(map[int]bool, len(winning))
	out := make([]int, 0, len(winning))
	for _, idx := range winning {
		if !m.HasOption(idx) {
			return nil, models.ErrInvalidOption
		}
		if !seen[idx] {
			seen[idx] = true
			out = append(out, idx)
		}
	}
	sort.Ints(out)
	return out, nil
}

// Resolve pays every winning wager floor(amount × oddsAtPlacement) and records
// a result for every wager. All preconditions are checked before the first
// credit; the whole pass runs under the market lock.
func (s *service) Resolve(ctx context.Context, marketID, callerID string, winning []int) (*Result, error) {
	var result *Result
	err := s.registry.WithMarket(marketID, func(m *models.Market) error {
		if err := checkSettleable(m, callerID); err != nil {
			return err
		}
		winners, err := normalizeWinning(m, winning)
		if err != nil {
			return err
		}
		if err := m.TransitionTo(models.MarketStatusResolved); err != nil {
			return err
		}

		now := s.now().UTC()
		m.WinningOptions = winners
		m.ResolvedAt = &now

		result = &Result{Payouts: make([]Payout, 0, len(m.Bettors))}
		for _, w := range m.Wagers() {
			won := m.IsWinningOption(w.OptionIndex)
			entry := models.NewHistoryEntry(m, w, won, now)
			if entry.Winnings > 0 {
				if _, err := s.ledger.Credit(w.UserID, entry.Winnings); err != nil {
					s.logger.Error(err, map[string]interface{}{"market_id": m.ID, "user_id": w.UserID})
				}
			}
			s.recorder.RecordSettlement(w.UserID, entry)

			result.Payouts = append(result.Payouts, Payout{
				UserID: w.UserID, OptionIndex: w.OptionIndex, Amount: w.Amount, Winnings: entry.Winnings, Won: won,
			})
			result.TotalPaid += entry.Winnings
		}
		result.Market = m.Clone()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", marketID, err)
	}

	s.metrics.Settled(string(models.MarketStatusResolved), result.TotalPaid)
	s.logger.Info("market resolved", map[string]interface{}{
		"market_id":  marketID,
		"winning":    result.Market.WinningOptions,
		"wagers":     len(result.Payouts),
		"total_paid": result.TotalPaid,
	})

	perr := s.persister.Persist(ctx)
	s.announce(ctx, marketID, notify.KindResolved, map[string]interface{}{
		"question":   result.Market.Question,
		"winning":    result.Market.WinningOptions,
		"winners":    len(result.Winners()),
		"total_paid": result.TotalPaid,
	})
	return result, perr
}

// Cancel refunds every stake. Stats and history are left untouched.
func (s *service) Cancel(ctx context.Context, marketID, callerID string) (*Result, error) {
	var result *Result
	err := s.registry.WithMarket(marketID, func(m *models.Market) error {
		if err := checkSettleable(m, callerID); err != nil {
			return err
		}
		if err := m.TransitionTo(models.MarketStatusCancelled); err != nil {
			return err
		}

		result = &Result{Payouts: make([]Payout, 0, len(m.Bettors))}
		for _, w := range m.Wagers() {
			if _, err := s.ledger.Credit(w.UserID, w.Amount); err != nil {
				s.logger.Error(err, map[string]interface{}{"market_id": m.ID, "user_id": w.UserID})
			}
			result.Payouts = append(result.Payouts, Payout{
				UserID: w.UserID, OptionIndex: w.OptionIndex, Amount: w.Amount, Winnings: w.Amount,
			})
			result.TotalPaid += w.Amount
		}
		result.Market = m.Clone()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cancel %s: %w", marketID, err)
	}

	s.metrics.Settled(string(models.MarketStatusCancelled), result.TotalPaid)
	s.logger.Info("market cancelled", map[string]interface{}{
		"market_id": marketID,
		"refunds":   len(result.Payouts),
		"refunded":  result.TotalPaid,
	})

	perr := s.persister.Persist(ctx)
	s.announce(ctx, marketID, notify.KindCancelled, map[string]interface{}{
		"question": result.Market.Question,
		"refunded": result.TotalPaid,
	})
	return result, perr
}

func (s *service) announce(ctx context.Context, marketID string, kind notify.Kind, payload map[string]interface{}) {
	if err := s.notifier.Notify(ctx, marketID, kind, payload); err != nil {
		s.logger.Error(err, map[string]interface{}{"market_id": marketID, "kind": kind})
	}
}
