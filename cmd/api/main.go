package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joefazee/wagerbook/app"
	"github.com/joefazee/wagerbook/app/api"
	"github.com/joefazee/wagerbook/app/database"
	"github.com/joefazee/wagerbook/app/ledger"
	"github.com/joefazee/wagerbook/app/markets"
	"github.com/joefazee/wagerbook/app/notify"
	"github.com/joefazee/wagerbook/app/persistence"
	"github.com/joefazee/wagerbook/app/scheduler"
	"github.com/joefazee/wagerbook/app/settlement"
	"github.com/joefazee/wagerbook/app/stats"
	"github.com/joefazee/wagerbook/internal/cache"
	"github.com/joefazee/wagerbook/internal/logger"
	"github.com/joefazee/wagerbook/internal/metrics"
	"github.com/joefazee/wagerbook/internal/sanitizer"
	"github.com/joefazee/wagerbook/internal/security"
)

// engine holds everything built at startup.
type engine struct {
	registry   *markets.Registry
	gateway    *persistence.Gateway
	scheduler  *scheduler.Scheduler
	markets    markets.Service
	settlement settlement.Service
	ledger     ledger.Service
	stats      stats.Service
	closers    []func() error
}

func main() {
	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	zl := logger.NewZeroLogger(os.Stdout, logger.ParseLevel(cfg.LogLevel), logger.Fields{
		"service": "wagerbook",
		"env":     cfg.Env,
	})
	if !cfg.IsProduction() {
		zl = zl.WithCaller()
	}

	m := metrics.New()

	eng, err := build(cfg, zl, m)
	if err != nil {
		zl.Fatal(err, map[string]interface{}{"stage": "startup"})
	}

	tokenMaker, err := security.NewPasetoMaker(cfg.Security.SymmetricKey)
	if err != nil {
		zl.Fatal(fmt.Errorf("cannot create token maker: %w", err), nil)
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router(cfg, eng, tokenMaker, m),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		zl.Info("starting wagerbook api", map[string]interface{}{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal(err, map[string]interface{}{"stage": "listen"})
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdown(cfg, srv, eng, zl)
}

// build restores the snapshot and wires the services. A corrupt snapshot
// stops startup rather than running on partial state.
func build(cfg *app.Config, log logger.Logger, m *metrics.Metrics) (*engine, error) {
	store, closeStore, err := snapshotStore(cfg, log)
	if err != nil {
		return nil, err
	}

	registry := markets.NewRegistry()
	balances := ledger.NewStore(cfg.Ledger.StartingBalance)
	records := stats.NewStore()

	gateway := persistence.NewGateway(store, registry, balances, records, &cfg.Persistence, log, m)
	if err := gateway.Restore(context.Background()); err != nil {
		return nil, fmt.Errorf("restore snapshot: %w", err)
	}

	notifier := notify.New(&cfg.Notify, log)

	settlementSvc := settlement.NewService(settlement.ServiceDeps{
		Registry:  registry,
		Ledger:    balances,
		Recorder:  records,
		Persister: gateway,
		Notifier:  notifier,
		Logger:    log,
		Metrics:   m,
	})

	sched, err := scheduler.New(&cfg.Scheduler, scheduler.Deps{
		Markets:   registry,
		Locker:    settlementSvc,
		Persister: gateway,
		Notifier:  notifier,
		Logger:    log,
		Metrics:   m,
	})
	if err != nil {
		return nil, fmt.Errorf("scheduler: %w", err)
	}

	marketSvc := markets.NewService(markets.ServiceDeps{
		Registry:  registry,
		Ledger:    balances,
		Scheduler: sched,
		Persister: gateway,
		Notifier:  notifier,
		Sanitizer: sanitizer.NewHTMLStripper(),
		Config:    &cfg.Markets,
		Logger:    log,
		Metrics:   m,
	})

	armed := sched.RearmAll(context.Background())
	log.Info("engine ready", map[string]interface{}{
		"active_markets": len(registry.ListActive()),
		"armed":          armed,
		"backend":        cfg.Persistence.Backend,
	})

	return &engine{
		registry:   registry,
		gateway:    gateway,
		scheduler:  sched,
		markets:    marketSvc,
		settlement: settlementSvc,
		ledger:     ledger.NewService(balances, &cfg.Ledger),
		stats:      stats.NewService(records, &cfg.Stats),
		closers:    []func() error{notifier.Close, closeStore},
	}, nil
}

type pinger interface {
	Ping(ctx context.Context) error
}

// snapshotStore picks the durable store named by the persistence backend.
func snapshotStore(cfg *app.Config, log logger.Logger) (persistence.SnapshotStore, func() error, error) {
	if cfg.Persistence.Backend != persistence.BackendPostgres {
		c, err := cache.New[json.RawMessage](cfg.Persistence.CacheOptions())
		if err != nil {
			return nil, nil, fmt.Errorf("snapshot cache: %w", err)
		}
		if p, ok := c.(pinger); ok {
			if err := p.Ping(context.Background()); err != nil {
				_ = c.Close()
				return nil, nil, fmt.Errorf("snapshot cache unreachable at %s: %w", cfg.Persistence.RedisAddr, err)
			}
		}
		if cfg.Persistence.Backend == persistence.BackendMemory {
			log.Info("warning: snapshots are kept in memory only and are lost on restart, set PERSISTENCE_BACKEND to redis or postgres", map[string]interface{}{
				"backend": cfg.Persistence.Backend,
			})
		}
		return persistence.NewCacheStore(c), c.Close, nil
	}

	if err := database.Migrate(cfg.DB.URL(), cfg.DB.MigrationsPath); err != nil {
		return nil, nil, err
	}
	db, err := database.New(&cfg.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}
	log.Info("snapshots stored in postgres", map[string]interface{}{"host": cfg.DB.Host, "db": cfg.DB.Database})
	return persistence.NewPostgresStore(db), sqlDB.Close, nil
}

func router(cfg *app.Config, eng *engine, maker security.Maker, m *metrics.Metrics) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), api.CorsMiddleware(), api.RequestMetrics(m))
	r.GET("/metrics", gin.WrapH(m.Handler()))

	v1 := r.Group("/api/v1")
	v1.GET("/healthz", api.HealthCheck(cfg.Env, func() int { return len(eng.registry.ListActive()) }))

	auth := api.AuthMiddleware(maker)
	markets.Init(v1, markets.Dependencies{Service: eng.markets, Config: &cfg.Markets, Auth: auth})
	settlement.Init(v1, settlement.Dependencies{Service: eng.settlement, Auth: auth})
	ledger.Init(v1, ledger.Dependencies{Service: eng.ledger})
	stats.Init(v1, stats.Dependencies{Service: eng.stats})

	return r
}

// shutdown stops accepting requests, cancels pending timers and writes a
// final snapshot.
func shutdown(cfg *app.Config, srv *http.Server, eng *engine, log logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error(err, map[string]interface{}{"stage": "http shutdown"})
	}
	eng.scheduler.Stop()

	if err := eng.gateway.Persist(ctx); err != nil {
		log.Error(err, map[string]interface{}{"stage": "final snapshot"})
	}
	for _, closeFn := range eng.closers {
		if err := closeFn(); err != nil {
			log.Error(err, map[string]interface{}{"stage": "close"})
		}
	}
	log.Info("wagerbook api stopped", nil)
}
