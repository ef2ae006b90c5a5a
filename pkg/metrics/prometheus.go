// Package metrics provides Prometheus metrics for the draft ranking service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label values shared with callers.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"

	ExcludedInactive = "inactive"
	ExcludedPosition = "position"
)

// Manager manages all Prometheus metrics for the ranking service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Generation runs
	generationRuns     *prometheus.CounterVec
	generationDuration prometheus.Histogram
	lastGenerationUnix prometheus.Gauge
	playersRanked      prometheus.Gauge
	playersEstimated   prometheus.Gauge
	playersExcluded    *prometheus.GaugeVec
	seasonFallbacks    prometheus.Counter

	// Projection source
	projectionRecords       prometheus.Gauge
	projectionFetchDuration *prometheus.HistogramVec
	projectionFetchFailures *prometheus.CounterVec
	projectionFetchRetries  prometheus.Counter
	breakerState            *prometheus.GaugeVec

	// Board store
	boardSize         prometheus.Gauge
	boardQueries      *prometheus.CounterVec
	boardQueryLatency prometheus.Histogram

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "draftrank",
		subsystem:        "rankings",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
		ConstLabels: m.constLabels, Buckets: m.histogramBuckets,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.generationRuns = auto.NewCounterVec(
		m.counterOpts("generation_runs_total", "Total number of board generation runs by result"),
		[]string{"result"},
	)
	m.generationDuration = auto.NewHistogram(
		m.histogramOpts("generation_duration_milliseconds", "Board generation duration in milliseconds"),
	)
	m.lastGenerationUnix = auto.NewGauge(
		m.gaugeOpts("last_generation_unix", "Unix timestamp of the last successful generation"),
	)
	m.playersRanked = auto.NewGauge(
		m.gaugeOpts("players_ranked", "Players on the latest board"),
	)
	m.playersEstimated = auto.NewGauge(
		m.gaugeOpts("players_estimated", "Players on the latest board whose points were estimated"),
	)
	m.playersExcluded = auto.NewGaugeVec(
		m.gaugeOpts("players_excluded", "Roster records left off the latest board by reason"),
		[]string{"reason"},
	)
	m.seasonFallbacks = auto.NewCounter(
		m.counterOpts("season_fallbacks_total", "Times projections were taken from an earlier season"),
	)

	m.projectionRecords = auto.NewGauge(
		m.gaugeOpts("projection_records", "Projection records used by the latest generation"),
	)
	m.projectionFetchDuration = auto.NewHistogramVec(
		m.histogramOpts("projection_fetch_duration_milliseconds", "Projection fetch duration in milliseconds"),
		[]string{"result"},
	)
	m.projectionFetchFailures = auto.NewCounterVec(
		m.counterOpts("projection_fetch_failures_total", "Projection fetch failures by reason"),
		[]string{"reason"},
	)
	m.projectionFetchRetries = auto.NewCounter(
		m.counterOpts("projection_fetch_retries_total", "Projection fetch attempts beyond the first"),
	)
	m.breakerState = auto.NewGaugeVec(
		m.gaugeOpts("breaker_state", "Circuit breaker state (0 closed, 1 half-open, 2 open)"),
		[]string{"name"},
	)

	m.boardSize = auto.NewGauge(
		m.gaugeOpts("board_size", "Entries held by the board store"),
	)
	m.boardQueries = auto.NewCounterVec(
		m.counterOpts("board_queries_total", "Board store queries by kind"),
		[]string{"kind"},
	)
	m.boardQueryLatency = auto.NewHistogram(
		m.histogramOpts("board_query_latency_milliseconds", "Board store query latency in milliseconds"),
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.errorsByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Total number of errors by endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)
}

// Generation Metrics Functions.

// RecordGeneration records one generation run and its duration.
func RecordGeneration(success bool, took time.Duration) {
	result := ResultFailure
	if success {
		result = ResultSuccess
		globalManager.lastGenerationUnix.Set(float64(time.Now().Unix()))
	}
	globalManager.generationRuns.WithLabelValues(result).Inc()
	globalManager.generationDuration.Observe(ms(took))
}

// UpdateBoardStats sets the latest board composition.
func UpdateBoardStats(ranked, estimated, excludedInactive, excludedPosition int) {
	globalManager.playersRanked.Set(float64(ranked))
	globalManager.playersEstimated.Set(float64(estimated))
	globalManager.playersExcluded.WithLabelValues(ExcludedInactive).Set(float64(excludedInactive))
	globalManager.playersExcluded.WithLabelValues(ExcludedPosition).Set(float64(excludedPosition))
}

// RecordSeasonFallback increments the season fallback counter.
func RecordSeasonFallback() {
	globalManager.seasonFallbacks.Inc()
}

// Projection Metrics Functions.

// UpdateProjectionRecords sets the number of projection records in use.
func UpdateProjectionRecords(count int) {
	globalManager.projectionRecords.Set(float64(count))
}

// RecordProjectionFetch records one projection fetch.
func RecordProjectionFetch(success bool, took time.Duration) {
	result := ResultFailure
	if success {
		result = ResultSuccess
	}
	globalManager.projectionFetchDuration.WithLabelValues(result).Observe(ms(took))
}

// RecordProjectionFetchFailure increments the failure counter for reason.
func RecordProjectionFetchFailure(reason string) {
	globalManager.projectionFetchFailures.WithLabelValues(reason).Inc()
}

// RecordProjectionFetchRetry increments the retry counter.
func RecordProjectionFetchRetry() {
	globalManager.projectionFetchRetries.Inc()
}

// UpdateBreakerState sets the numeric state of the named breaker.
func UpdateBreakerState(name string, state int) {
	globalManager.breakerState.WithLabelValues(name).Set(float64(state))
}

// Board Store Metrics Functions.

// UpdateBoardSize sets the number of entries in the board store.
func UpdateBoardSize(count int) {
	globalManager.boardSize.Set(float64(count))
}

// RecordBoardQuery records a board store query of kind.
func RecordBoardQuery(kind string, took time.Duration) {
	globalManager.boardQueries.WithLabelValues(kind).Inc()
	globalManager.boardQueryLatency.Observe(ms(took))
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
