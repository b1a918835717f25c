package persistence

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/joefazee/wagerbook/internal/logger"
	"github.com/joefazee/wagerbook/internal/metrics"
	"github.com/joefazee/wagerbook/models"
)

type MarketSource interface {
	SnapshotMarkets() map[string]*models.Market
	RestoreMarkets(markets map[string]*models.Market)
}

type BalanceSource interface {
	SnapshotBalances() map[string]int64
	RestoreBalances(balances map[string]int64) error
}

type StatsSource interface {
	SnapshotStats() map[string]models.UserStats
	SnapshotHistory() map[string][]models.HistoryEntry
	RestoreStats(stats map[string]models.UserStats) error
	RestoreHistory(history map[string][]models.HistoryEntry)
}

// Gateway snapshots the three in-memory stores after every mutation.
// Writes are serialized; a failed write never rolls back memory.
type Gateway struct {
	mu       sync.Mutex
	store    SnapshotStore
	markets  MarketSource
	balances BalanceSource
	stats    StatsSource
	timeout  time.Duration
	logger   logger.Logger
	metrics  *metrics.Metrics
}

func NewGateway(store SnapshotStore, markets MarketSource, balances BalanceSource, stats StatsSource,
	cfg *Config, log logger.Logger, m *metrics.Metrics) *Gateway {
	return &Gateway{
		store:    store,
		markets:  markets,
		balances: balances,
		stats:    stats,
		timeout:  cfg.WriteTimeout,
		logger:   log,
		metrics:  m,
	}
}

func (g *Gateway) collect() *Snapshot {
	return &Snapshot{
		Markets:  g.markets.SnapshotMarkets(),
		Balances: g.balances.SnapshotBalances(),
		Stats:    g.stats.SnapshotStats(),
		History:  g.stats.SnapshotHistory(),
	}
}

// Persist writes the full state. The returned error wraps models.ErrPersistenceFailure.
func (g *Gateway) Persist(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	snap := g.collect()
	if err := g.store.Save(ctx, snap); err != nil {
		g.metrics.PersistenceFailed()
		g.logger.Error(err, map[string]interface{}{
			"component": "persistence",
			"markets":   len(snap.Markets),
			"users":     len(snap.Balances),
		})
		return fmt.Errorf("%w: %w", models.ErrPersistenceFailure, err)
	}
	return nil
}

// Restore loads the stored snapshot into the stores. An empty store is a fresh
// start; anything undecodable or inconsistent is returned as ErrCorruptSnapshot
// and must stop initialization.
func (g *Gateway) Restore(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	snap, err := g.store.Load(ctx)
	if errors.Is(err, ErrNoSnapshot) {
		g.logger.Info("no snapshot found, starting empty", nil)
		return nil
	}
	if err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	snap.fill()
	if err := snap.Validate(); err != nil {
		return err
	}

	if err := g.balances.RestoreBalances(snap.Balances); err != nil {
		return fmt.Errorf("%w: balances: %v", ErrCorruptSnapshot, err)
	}
	if err := g.stats.RestoreStats(snap.Stats); err != nil {
		return fmt.Errorf("%w: stats: %v", ErrCorruptSnapshot, err)
	}
	g.stats.RestoreHistory(snap.History)
	g.markets.RestoreMarkets(snap.Markets)

	g.logger.Info("snapshot restored", map[string]interface{}{
		"markets": len(snap.Markets),
		"users":   len(snap.Balances),
	})
	return nil
}
