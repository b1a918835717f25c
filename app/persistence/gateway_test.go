package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/joefazee/wagerbook/app/ledger"
	"github.com/joefazee/wagerbook/app/stats"
	"github.com/joefazee/wagerbook/internal/cache"
	"github.com/joefazee/wagerbook/internal/logger"
	"github.com/joefazee/wagerbook/internal/metrics"
	"github.com/joefazee/wagerbook/models"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeMarkets struct {
	markets map[string]*models.Market
}

func (f *fakeMarkets) SnapshotMarkets() map[string]*models.Market {
	out := make(map[string]*models.Market, len(f.markets))
	for id, m := range f.markets {
		out[id] = m.Clone()
	}
	return out
}

func (f *fakeMarkets) RestoreMarkets(markets map[string]*models.Market) {
	f.markets = markets
}

type mockSnapshotStore struct {
	mock.Mock
}

func (m *mockSnapshotStore) Load(ctx context.Context) (*Snapshot, error) {
	args := m.Called(ctx)
	snap, _ := args.Get(0).(*Snapshot)
	return snap, args.Error(1)
}

func (m *mockSnapshotStore) Save(ctx context.Context, snap *Snapshot) error {
	return m.Called(ctx, snap).Error(0)
}

type gatewayFixture struct {
	gateway  *Gateway
	markets  *fakeMarkets
	balances *ledger.Store
	stats    *stats.Store
	metrics  *metrics.Metrics
	log      *logger.NullLogger
}

func newGatewayFixture(store SnapshotStore) *gatewayFixture {
	f := &gatewayFixture{
		markets:  &fakeMarkets{markets: map[string]*models.Market{}},
		balances: ledger.NewStore(100),
		stats:    stats.NewStore(),
		metrics:  metrics.New(),
		log:      logger.NewNullLogger(),
	}
	f.gateway = NewGateway(store, f.markets, f.balances, f.stats, GetDefaultConfig(), f.log, f.metrics)
	return f
}

func TestGateway_PersistAndRestore(t *testing.T) {
	ctx := context.Background()
	backend := NewCacheStore(cache.NewMemoryCache[json.RawMessage]("wagerbook:"))

	src := newGatewayFixture(backend)
	src.markets.markets["m1"] = testMarket("m1")
	_, err := src.balances.Debit("bob", 50)
	require.NoError(t, err)
	entry := models.NewHistoryEntry(testMarket("m0"), testMarket("m0").Bettors["bob"], true, testMarket("m0").CreatedAt)
	src.stats.RecordSettlement("bob", entry)

	require.NoError(t, src.gateway.Persist(ctx))

	dst := newGatewayFixture(backend)
	require.NoError(t, dst.gateway.Restore(ctx))

	assert.Equal(t, int64(50), dst.balances.Balance("bob"))
	assert.Equal(t, int64(100), dst.balances.Balance("someone-new"))
	assert.Equal(t, models.UserStats{TotalBets: 1, WonBets: 1}, dst.stats.Stats("bob"))
	require.Len(t, dst.stats.History("bob", 10), 1)
	assert.Equal(t, int64(75), dst.stats.History("bob", 10)[0].Winnings)
	require.Contains(t, dst.markets.markets, "m1")
	assert.Equal(t, int64(50), dst.markets.markets["m1"].TotalPool)
}

func TestGateway_RestoreFreshStart(t *testing.T) {
	store := &mockSnapshotStore{}
	store.On("Load", mock.Anything).Return(nil, ErrNoSnapshot)
	f := newGatewayFixture(store)

	require.NoError(t, f.gateway.Restore(context.Background()))
	assert.Empty(t, f.markets.markets)
	assert.Equal(t, int64(100), f.balances.Balance("bob"))
}

func TestGateway_RestoreRejectsCorruptState(t *testing.T) {
	t.Run("invariant broken", func(t *testing.T) {
		snap := testSnapshot()
		snap.Markets["m1"].TotalPool = 10
		store := &mockSnapshotStore{}
		store.On("Load", mock.Anything).Return(snap, nil)
		f := newGatewayFixture(store)

		err := f.gateway.Restore(context.Background())
		assert.ErrorIs(t, err, ErrCorruptSnapshot)
		assert.Empty(t, f.markets.markets)
		assert.Empty(t, f.balances.SnapshotBalances())
	})

	t.Run("undecodable payload", func(t *testing.T) {
		c := cache.NewMemoryCache[json.RawMessage]("")
		require.NoError(t, c.Set(context.Background(), KeyStats, json.RawMessage(`"nope"`), 0))
		f := newGatewayFixture(NewCacheStore(c))

		err := f.gateway.Restore(context.Background())
		assert.ErrorIs(t, err, ErrCorruptSnapshot)
	})

	t.Run("backend unavailable", func(t *testing.T) {
		store := &mockSnapshotStore{}
		store.On("Load", mock.Anything).Return(nil, errors.New("dial tcp: refused"))
		f := newGatewayFixture(store)

		err := f.gateway.Restore(context.Background())
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrCorruptSnapshot)
	})
}

func TestGateway_PersistFailure(t *testing.T) {
	store := &mockSnapshotStore{}
	store.On("Save", mock.Anything, mock.AnythingOfType("*persistence.Snapshot")).Return(errors.New("disk full"))
	f := newGatewayFixture(store)
	_, err := f.balances.Debit("bob", 30)
	require.NoError(t, err)

	err = f.gateway.Persist(context.Background())
	assert.ErrorIs(t, err, models.ErrPersistenceFailure)
	assert.Contains(t, err.Error(), "disk full")

	// memory is never rolled back
	assert.Equal(t, int64(70), f.balances.Balance("bob"))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.PersistenceFailures))
	assert.Equal(t, int64(1), f.log.ErrorCount())
}

func TestGateway_PersistWritesCurrentState(t *testing.T) {
	store := &mockSnapshotStore{}
	store.On("Save", mock.Anything, mock.MatchedBy(func(s *Snapshot) bool {
		return s.Balances["bob"] == 90 && len(s.Markets) == 1 && s.Stats != nil && s.History != nil
	})).Return(nil).Once()
	f := newGatewayFixture(store)
	f.markets.markets["m1"] = testMarket("m1")
	_, err := f.balances.Debit("bob", 10)
	require.NoError(t, err)

	require.NoError(t, f.gateway.Persist(context.Background()))
	store.AssertExpectations(t)
}
