package markets

import (
	"context"
	"fmt"
	"time"

	"github.com/joefazee/wagerbook/app/notify"
	"github.com/joefazee/wagerbook/internal/logger"
	"github.com/joefazee/wagerbook/internal/metrics"
	"github.com/joefazee/wagerbook/internal/sanitizer"
	"github.com/joefazee/wagerbook/models"
	"github.com/shopspring/decimal"
)

// service implements the Service interface
type service struct {
	registry  *Registry
	ledger    Ledger
	scheduler Scheduler
	persister Persister
	notifier  notify.Notifier
	odds      OddsEngine
	sanitizer sanitizer.HTMLStripperer
	config    *Config
	logger    logger.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

// ServiceDeps groups the collaborators of the market service
type ServiceDeps struct {
	Registry  *Registry
	Ledger    Ledger
	Scheduler Scheduler
	Persister Persister
	Notifier  notify.Notifier
	Sanitizer sanitizer.HTMLStripperer
	Config    *Config
	Logger    logger.Logger
	Metrics   *metrics.Metrics
}

// NewService creates a new market service
func NewService(deps ServiceDeps) Service {
	config := deps.Config
	if config == nil {
		config = GetDefaultConfig()
	}
	notifier := deps.Notifier
	if notifier == nil {
		notifier = notify.Nop{}
	}
	log := deps.Logger
	if log == nil {
		log = logger.NewNullLogger()
	}
	stripper := deps.Sanitizer
	if stripper == nil {
		stripper = sanitizer.NewHTMLStripper()
	}
	return &service{
		registry:  deps.Registry,
		ledger:    deps.Ledger,
		scheduler: deps.Scheduler,
		persister: deps.Persister,
		notifier:  notifier,
		odds:      NewOddsEngine(config),
		sanitizer: stripper,
		config:    config,
		logger:    log,
		metrics:   deps.Metrics,
		now:       time.Now,
	}
}

// CreateMarket validates the request, captures the odds as fixed and arms the
// closing timers.
func (s *service) CreateMarket(ctx context.Context, req *CreateMarketRequest) (*models.Market, error) {
	market := &models.Market{
		ID:        req.ID,
		Question:  s.sanitizer.StripHTML(req.Question),
		CreatorID: req.CreatorID,
		Options:   make([]models.MarketOption, len(req.Options)),
		Bettors:   make(map[string]*models.WagerRecord),
		Status:    models.MarketStatusOpen,
		CreatedAt: s.now().UTC(),
	}
	for i, o := range req.Options {
		market.Options[i] = models.MarketOption{Name: s.sanitizer.StripHTML(o.Name), FixedOdds: o.Odds}
	}

	if err := market.Validate(); err != nil {
		return nil, err
	}

	closing, err := s.closingTime(req)
	if err != nil {
		return nil, err
	}
	market.ClosingTime = closing

	if err := s.registry.Add(market); err != nil {
		return nil, err
	}
	created := market.Clone()

	s.metrics.MarketCreated()
	s.logger.Info("market created", map[string]interface{}{
		"market_id":  created.ID,
		"creator_id": created.CreatorID,
		"options":    len(created.Options),
	})

	if closing != nil && s.scheduler != nil {
		s.scheduler.Arm(ctx, created.ID, *closing)
	}

	s.announce(ctx, created.ID, notify.KindCreated, map[string]interface{}{
		"question": created.Question,
		"creator":  created.CreatorID,
	})

	return created, s.persister.Persist(ctx)
}

func (s *service) closingTime(req *CreateMarketRequest) (*time.Time, error) {
	if req.ClosingTime != nil {
		t := req.ClosingTime.UTC()
		return &t, nil
	}
	if req.Closes == "" {
		return nil, nil
	}
	if s.scheduler == nil {
		return nil, models.ErrInvalidClosingTime
	}
	t, err := s.scheduler.ResolveClosingTime(req.Closes)
	if err != nil {
		return nil, err
	}
	t = t.UTC()
	return &t, nil
}

// PlaceWager checks every precondition before touching any balance. The ledger
// debit is the last fallible step; the pool grows only once it succeeded.
func (s *service) PlaceWager(ctx context.Context, marketID, userID string, optionIndex int, amount int64) (*models.WagerRecord, error) {
	if userID == "" {
		return nil, models.ErrInvalidUserID
	}

	var wager *models.WagerRecord
	err := s.registry.WithMarket(marketID, func(m *models.Market) error {
		if !m.IsOpen() {
			return models.ErrMarketClosed
		}
		if m.HasWager(userID) {
			return models.ErrDuplicateWager
		}
		if !s.withinLimits(amount) {
			return models.ErrInvalidAmount
		}
		if !m.HasOption(optionIndex) {
			return models.ErrInvalidOption
		}
		if _, err := s.ledger.Debit(userID, amount); err != nil {
			return err
		}

		wager = models.NewWagerRecord(m.ID, userID, optionIndex, amount, m.Options[optionIndex].FixedOdds, s.now().UTC())
		m.AddWager(wager)
		return nil
	})
	if err != nil {
		s.metrics.WagerRejected(models.Code(err))
		return nil, fmt.Errorf("place wager on %s: %w", marketID, err)
	}

	s.metrics.WagerPlaced(amount)
	s.logger.Info("wager placed", map[string]interface{}{
		"market_id": marketID,
		"user_id":   userID,
		"option":    optionIndex,
		"amount":    amount,
	})

	placed := *wager
	return &placed, s.persister.Persist(ctx)
}

func (s *service) withinLimits(amount int64) bool {
	if amount <= 0 || amount < s.config.MinWager {
		return false
	}
	return s.config.MaxWager == 0 || amount <= s.config.MaxWager
}

func (s *service) GetMarket(_ context.Context, id string) (*models.Market, error) {
	return s.registry.Get(id)
}

func (s *service) ListActive(_ context.Context) []*models.Market {
	return s.registry.ListActive()
}

// DynamicOdds is display only.
func (s *service) DynamicOdds(_ context.Context, id string) ([]decimal.Decimal, error) {
	m, err := s.registry.Get(id)
	if err != nil {
		return nil, err
	}
	return s.odds.ComputeDynamicOdds(m), nil
}

func (s *service) announce(ctx context.Context, marketID string, kind notify.Kind, payload map[string]interface{}) {
	if err := s.notifier.Notify(ctx, marketID, kind, payload); err != nil {
		s.logger.Error(err, map[string]interface{}{"market_id": marketID, "kind": kind})
	}
}
