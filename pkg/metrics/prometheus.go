// Package metrics provides Prometheus metrics for the outfit-chart service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Ledger metrics
	ledgerLoads       prometheus.Counter
	ledgerLoadLatency prometheus.Histogram
	malformedRows     prometheus.Counter
	mutations         *prometheus.CounterVec
	storeErrors       *prometheus.CounterVec

	// Snapshot gauges
	participants prometheus.Gauge
	rankedDays   prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "outfitchart",
		subsystem:        "ledger",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.ledgerLoads = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "loads_total",
		Help:      "Total number of full ledger loads from the row store",
	})

	m.ledgerLoadLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "load_latency_milliseconds",
		Help:      "Histogram of full ledger load latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.malformedRows = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "malformed_rows_total",
		Help:      "Total number of stored rows skipped because of missing fields",
	})

	m.mutations = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "mutations_total",
			Help:      "Total number of ledger mutations by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	m.storeErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "store_errors_total",
			Help:      "Total number of row store failures by table",
		},
		[]string{"table"},
	)

	m.participants = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "participants",
		Help:      "Number of distinct participants in the current snapshot",
	})

	m.rankedDays = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ranked_days",
		Help:      "Number of dates with a recorded daily top-3",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)
}

// RecordLedgerLoad counts one full ledger load.
func RecordLedgerLoad() {
	globalManager.ledgerLoads.Inc()
}

// RecordLedgerLoadLatency records how long a full load took.
func RecordLedgerLoadLatency(latencyMs float64) {
	globalManager.ledgerLoadLatency.Observe(latencyMs)
}

// RecordMalformedRow counts a stored row skipped at parse time.
func RecordMalformedRow() {
	globalManager.malformedRows.Inc()
}

// RecordMutation counts a ledger mutation with its outcome (ok, not_found, error).
func RecordMutation(operation, outcome string) {
	globalManager.mutations.WithLabelValues(operation, outcome).Inc()
}

// RecordStoreError counts a row store failure for a table.
func RecordStoreError(table string) {
	globalManager.storeErrors.WithLabelValues(table).Inc()
}

// UpdateParticipants sets the distinct-participant gauge.
func UpdateParticipants(count int) {
	globalManager.participants.Set(float64(count))
}

// UpdateRankedDays sets the ranked-days gauge.
func UpdateRankedDays(count int) {
	globalManager.rankedDays.Set(float64(count))
}

// RecordHTTPRequest counts an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request latency.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// GetRegistry returns the custom Prometheus registry for serving /healthz.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
