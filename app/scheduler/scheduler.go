// Package scheduler fires the two timed events of a market with a closing
// time: the reminder ahead of closing and the automatic lock at closing.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/joefazee/wagerbook/app/notify"
	"github.com/joefazee/wagerbook/internal/logger"
	"github.com/joefazee/wagerbook/internal/metrics"
	"github.com/joefazee/wagerbook/models"
)

// Markets is the registry view the timers need. Timers re-read the market by
// id when they fire and never hold a reference to it.
type Markets interface {
	Get(id string) (*models.Market, error)
	MarkReminderSent(id string) (bool, error)
	ListActive() []*models.Market
}

// Locker is the guarded lock entry point of the settlement engine.
type Locker interface {
	Lock(ctx context.Context, marketID string) (*models.Market, error)
}

// Persister saves the engine state after a mutation.
type Persister interface {
	Persist(ctx context.Context) error
}

type Scheduler struct {
	mu      sync.Mutex
	timers  map[string][]*time.Timer
	stopped bool

	markets   Markets
	locker    Locker
	persister Persister
	notifier  notify.Notifier
	lead      time.Duration
	loc       *time.Location
	logger    logger.Logger
	metrics   *metrics.Metrics

	ctx    context.Context
	cancel context.CancelFunc
	now    func() time.Time
}

// Deps groups the collaborators of the scheduler
type Deps struct {
	Markets   Markets
	Locker    Locker
	Persister Persister
	Notifier  notify.Notifier
	Logger    logger.Logger
	Metrics   *metrics.Metrics
}

func New(cfg *Config, deps Deps) (*Scheduler, error) {
	if cfg == nil {
		cfg = GetDefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	notifier := deps.Notifier
	if notifier == nil {
		notifier = notify.Nop{}
	}
	log := deps.Logger
	if log == nil {
		log = logger.NewNullLogger()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		timers:    make(map[string][]*time.Timer),
		markets:   deps.Markets,
		locker:    deps.Locker,
		persister: deps.Persister,
		notifier:  notifier,
		lead:      cfg.ReminderLead,
		loc:       loc,
		logger:    log,
		metrics:   deps.Metrics,
		ctx:       ctx,
		cancel:    cancel,
		now:       time.Now,
	}, nil
}

// ResolveClosingTime parses a "HHhMM" token against the current time in the
// configured zone.
func (s *Scheduler) ResolveClosingTime(token string) (time.Time, error) {
	return ParseClosingTime(token, s.now(), s.loc)
}

// Arm schedules the lock at closingTime and, when it is still ahead, the
// reminder at closingTime minus the reminder lead. A closing time in the past
// locks right away. ctx only scopes the call; timers run on the scheduler's
// own context.
func (s *Scheduler) Arm(_ context.Context, marketID string, closingTime time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}

	now := s.now()
	untilClose := closingTime.Sub(now)
	if untilClose < 0 {
		untilClose = 0
	}

	timers := []*time.Timer{time.AfterFunc(untilClose, func() { s.fireLock(marketID) })}
	remindAt := closingTime.Add(-s.lead)
	if remindAt.After(now) {
		timers = append(timers, time.AfterFunc(remindAt.Sub(now), func() { s.fireReminder(marketID) }))
	}
	s.timers[marketID] = append(s.timers[marketID], timers...)

	s.logger.Debug("market timers armed", map[string]interface{}{
		"market_id":    marketID,
		"closing_time": closingTime,
		"timers":       len(timers),
	})
}

func (s *Scheduler) fireLock(marketID string) {
	if s.ctx.Err() != nil {
		return
	}
	s.forget(marketID)

	_, err := s.locker.Lock(s.ctx, marketID)
	switch {
	case err == nil:
		s.logger.Info("market auto-locked", map[string]interface{}{"market_id": marketID})
	case errors.Is(err, models.ErrMarketTerminal), errors.Is(err, models.ErrNotFound):
		s.logger.Debug("lock timer skipped", map[string]interface{}{"market_id": marketID, "reason": err.Error()})
	default:
		s.logger.Error(err, map[string]interface{}{"market_id": marketID, "timer": "lock"})
	}
}

func (s *Scheduler) fireReminder(marketID string) {
	if s.ctx.Err() != nil {
		return
	}
	marked, err := s.markets.MarkReminderSent(marketID)
	if err != nil {
		s.logger.Error(err, map[string]interface{}{"market_id": marketID, "timer": "reminder"})
		return
	}
	if !marked {
		return
	}

	if err := s.persister.Persist(s.ctx); err != nil {
		s.logger.Error(err, map[string]interface{}{"market_id": marketID, "timer": "reminder"})
	}
	s.metrics.ReminderSent()

	payload := map[string]interface{}{}
	if m, err := s.markets.Get(marketID); err == nil {
		payload["question"] = m.Question
		payload["total_pool"] = m.TotalPool
		if m.ClosingTime != nil {
			payload["closing_time"] = m.ClosingTime.In(s.loc).Format("15h04")
		}
	}
	if err := s.notifier.Notify(s.ctx, marketID, notify.KindReminder, payload); err != nil {
		s.logger.Error(err, map[string]interface{}{"market_id": marketID, "kind": notify.KindReminder})
	}
}

// RearmAll arms every open market that has a closing time, typically right
// after a restore. It returns how many markets were armed.
func (s *Scheduler) RearmAll(ctx context.Context) int {
	armed := 0
	for _, m := range s.markets.ListActive() {
		if !m.IsOpen() || m.ClosingTime == nil {
			continue
		}
		s.Arm(ctx, m.ID, *m.ClosingTime)
		armed++
	}
	s.logger.Info("market timers restored", map[string]interface{}{"armed": armed})
	return armed
}

func (s *Scheduler) forget(marketID string) {
	s.mu.Lock()
	delete(s.timers, marketID)
	s.mu.Unlock()
}

// Pending reports how many timers are held for marketID. The lock timer
// releases them when it fires.
func (s *Scheduler) Pending(marketID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers[marketID])
}

// Stop cancels every pending timer. Arm is a no-op afterwards.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	s.cancel()
	for id, timers := range s.timers {
		for _, t := range timers {
			t.Stop()
		}
		delete(s.timers, id)
	}
}
