package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "wagerbook"

// Metrics groups the engine counters. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	MarketsCreated      prometheus.Counter
	WagersPlaced        prometheus.Counter
	WagerRejections     *prometheus.CounterVec
	StakedTotal         prometheus.Counter
	Settlements         *prometheus.CounterVec
	PaidOutTotal        prometheus.Counter
	RemindersSent       prometheus.Counter
	PersistenceFailures prometheus.Counter
	HTTPRequests        *prometheus.CounterVec
}

// New registers every collector on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		MarketsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "markets_created_total",
			Help: "Markets created.",
		}),
		WagersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "wagers_placed_total",
			Help: "Wagers accepted.",
		}),
		WagerRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "wager_rejections_total",
			Help: "Wagers rejected, by error code.",
		}, []string{"code"}),
		StakedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "staked_points_total",
			Help: "Points debited for wagers.",
		}),
		Settlements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "settlements_total",
			Help: "Market status changes, by resulting status.",
		}, []string{"status"}),
		PaidOutTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "paid_out_points_total",
			Help: "Points credited by resolutions and refunds.",
		}),
		RemindersSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "reminders_sent_total",
			Help: "Closing reminders emitted.",
		}),
		PersistenceFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "persistence_failures_total",
			Help: "Snapshot writes that failed.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "http_requests_total",
			Help: "HTTP requests, by route and status.",
		}, []string{"method", "route", "status"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.MarketsCreated,
		m.WagersPlaced,
		m.WagerRejections,
		m.StakedTotal,
		m.Settlements,
		m.PaidOutTotal,
		m.RemindersSent,
		m.PersistenceFailures,
		m.HTTPRequests,
	)
	return m
}

// Handler exposes the registry in the text exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) MarketCreated() {
	if m == nil {
		return
	}
	m.MarketsCreated.Inc()
}

func (m *Metrics) WagerPlaced(amount int64) {
	if m == nil {
		return
	}
	m.WagersPlaced.Inc()
	m.StakedTotal.Add(float64(amount))
}

func (m *Metrics) WagerRejected(code string) {
	if m == nil {
		return
	}
	if code == "" {
		code = "UNKNOWN"
	}
	m.WagerRejections.WithLabelValues(code).Inc()
}

func (m *Metrics) Settled(status string, paid int64) {
	if m == nil {
		return
	}
	m.Settlements.WithLabelValues(status).Inc()
	if paid > 0 {
		m.PaidOutTotal.Add(float64(paid))
	}
}

func (m *Metrics) ReminderSent() {
	if m == nil {
		return
	}
	m.RemindersSent.Inc()
}

func (m *Metrics) PersistenceFailed() {
	if m == nil {
		return
	}
	m.PersistenceFailures.Inc()
}
