package markets

import (
	"sort"
	"sync"

	"github.com/joefazee/wagerbook/models"
)

type entry struct {
	mu     sync.Mutex
	market *models.Market
}

// Registry owns every market. Each market has its own mutex; there is no
// cross-market locking.
type Registry struct {
	mu      sync.RWMutex
	markets map[string]*entry
}

func NewRegistry() *Registry {
	return &Registry{markets: make(map[string]*entry)}
}

func (r *Registry) lookup(id string) (*entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.markets[id]
	return e, ok
}

// Add stores m. It fails with ErrMarketExists when the id is taken.
func (r *Registry) Add(m *models.Market) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.markets[m.ID]; ok {
		return models.ErrMarketExists
	}
	r.markets[m.ID] = &entry{market: m}
	return nil
}

// WithMarket runs fn while holding the market's lock. fn may mutate the market;
// the check-then-act it performs is atomic with respect to every other caller.
func (r *Registry) WithMarket(id string, fn func(m *models.Market) error) error {
	e, ok := r.lookup(id)
	if !ok {
		return models.ErrMarketNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.market)
}

// Get returns a copy of the market.
func (r *Registry) Get(id string) (*models.Market, error) {
	var out *models.Market
	err := r.WithMarket(id, func(m *models.Market) error {
		out = m.Clone()
		return nil
	})
	return out, err
}

// MarkReminderSent flips ReminderSent when the market is still open and not yet
// reminded. It reports whether this call did the flip.
func (r *Registry) MarkReminderSent(id string) (bool, error) {
	marked := false
	err := r.WithMarket(id, func(m *models.Market) error {
		if m.IsOpen() && !m.ReminderSent {
			m.ReminderSent = true
			marked = true
		}
		return nil
	})
	return marked, err
}

func (r *Registry) entries() []*entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entry, 0, len(r.markets))
	for _, e := range r.markets {
		out = append(out, e)
	}
	return out
}

// ListActive returns copies of open and locked markets ordered by creation
// time, then id.
func (r *Registry) ListActive() []*models.Market {
	var out []*models.Market
	for _, e := range r.entries() {
		e.mu.Lock()
		if e.market.IsActive() {
			out = append(out, e.market.Clone())
		}
		e.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// SnapshotMarkets copies every market, terminal ones included.
func (r *Registry) SnapshotMarkets() map[string]*models.Market {
	out := make(map[string]*models.Market)
	for _, e := range r.entries() {
		e.mu.Lock()
		out[e.market.ID] = e.market.Clone()
		e.mu.Unlock()
	}
	return out
}

// RestoreMarkets replaces the registry content.
func (r *Registry) RestoreMarkets(markets map[string]*models.Market) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.markets = make(map[string]*entry, len(markets))
	for id, m := range markets {
		r.markets[id] = &entry{market: m}
	}
}
