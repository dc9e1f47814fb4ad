package observability

import (
	"time"

	"github.com/boddenberg/expense-dashboard-bfa/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Reload outcomes.
const (
	ReloadSuccess = "success"
	ReloadFailed  = "failed"
	ReloadStale   = "stale"
)

// Metrics holds all Prometheus metrics for the dashboard.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	upstreamErrors  *prometheus.CounterVec
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
	reloads         *prometheus.CounterVec
	loadedRows      *prometheus.GaugeVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. A private registry lets tests call NewMetrics
// repeatedly without duplicate-collector panics.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dashboard_operation_duration_seconds",
				Help:    "Duration of dashboard operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		upstreamErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashboard_upstream_errors_total",
				Help: "Failed CSV fetches by source kind.",
			},
			[]string{"kind"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashboard_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashboard_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		reloads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashboard_reloads_total",
				Help: "Dashboard reloads by outcome.",
			},
			[]string{"outcome"},
		),
		loadedRows: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "dashboard_loaded_rows",
				Help: "Rows in the current dashboard state by record kind.",
			},
			[]string{"kind"},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrUpstreamError counts a failed CSV fetch.
func (m *Metrics) IncrUpstreamError(kind string) {
	m.upstreamErrors.WithLabelValues(kind).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// IncrReload counts a reload by outcome (ReloadSuccess, ReloadFailed, ReloadStale).
func (m *Metrics) IncrReload(outcome string) {
	m.reloads.WithLabelValues(outcome).Inc()
}

// SetLoadedRows publishes the collection sizes of the current state.
func (m *Metrics) SetLoadedRows(c domain.CollectionCounts) {
	m.loadedRows.WithLabelValues("expense").Set(float64(c.Expenses))
	m.loadedRows.WithLabelValues("receipt").Set(float64(c.Receipts))
	m.loadedRows.WithLabelValues("contra").Set(float64(c.Contras))
	m.loadedRows.WithLabelValues("opening_balance").Set(float64(c.Openings))
}

// GetDashboardSnapshot returns cumulative counters for GET /v1/metrics/dashboard.
func (m *Metrics) GetDashboardSnapshot() *domain.DashboardMetrics {
	upstream := float64(0)
	for _, k := range domain.SourceKinds {
		upstream += getCounterValue(m.upstreamErrors, string(k))
	}

	hits := getCounterValue(m.cacheHits, "csv")
	misses := getCounterValue(m.cacheMisses, "csv")
	hitRate := float64(0)
	if hits+misses > 0 {
		hitRate = hits / (hits + misses)
	}

	return &domain.DashboardMetrics{
		ReloadsSucceeded: getCounterValue(m.reloads, ReloadSuccess),
		ReloadsFailed:    getCounterValue(m.reloads, ReloadFailed),
		ReloadsStale:     getCounterValue(m.reloads, ReloadStale),
		UpstreamErrors:   upstream,
		CacheHitRate:     hitRate,
		Period:           "all_time",
	}
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
