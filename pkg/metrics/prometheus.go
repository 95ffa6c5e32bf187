// Package metrics provides Prometheus metrics for the festboard service.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// ReloadOutcome labels a snapshot load attempt.
type ReloadOutcome string

const (
	ReloadApplied   ReloadOutcome = "applied"
	ReloadUnchanged ReloadOutcome = "unchanged"
	ReloadRejected  ReloadOutcome = "rejected"
	ReloadFailed    ReloadOutcome = "failed"
)

func (o ReloadOutcome) valid() bool {
	switch o {
	case ReloadApplied, ReloadUnchanged, ReloadRejected, ReloadFailed:
		return true
	}
	return false
}

// Manager manages all Prometheus metrics for the festboard service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	refreshInterval  time.Duration
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Aggregation
	aggregationDuration prometheus.Histogram
	resultsCounted      prometheus.Gauge
	resultsSkipped      *prometheus.GaugeVec
	pointsAwarded       prometheus.Gauge

	// Filtering
	filterEvaluations *prometheus.CounterVec

	// Display
	displayTransitions *prometheus.CounterVec
	revealSteps        *prometheus.CounterVec
	streamSubscribers  prometheus.Gauge
	framesPublished    prometheus.Counter
	framesDropped      prometheus.Counter

	// Snapshot store
	snapshotReloads  *prometheus.CounterVec
	snapshotVersion  prometheus.Gauge
	snapshotEntities *prometheus.GaugeVec
	snapshotLoadedAt prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec
	errorRateByType     *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
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
		namespace:        "festboard",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		refreshInterval:  defaultRefreshInterval,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// RefreshInterval is how often system gauges should be sampled.
func (m *Manager) RefreshInterval() time.Duration { return m.refreshInterval }

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: name, Help: help, ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: name, Help: help, ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: name, Help: help, ConstLabels: m.constLabels, Buckets: buckets,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.aggregationDuration = auto.NewHistogram(m.histogramOpts(
		"aggregation_duration_milliseconds",
		"Time to recompute standings from a snapshot",
		m.histogramBuckets,
	))
	m.resultsCounted = auto.NewGauge(m.gaugeOpts(
		"results_counted",
		"Declared results contributing to the current standings",
	))
	m.resultsSkipped = auto.NewGaugeVec(m.gaugeOpts(
		"results_skipped",
		"Results or winners left out of the current standings, by reason",
	), []string{"reason"})
	m.pointsAwarded = auto.NewGauge(m.gaugeOpts(
		"points_awarded",
		"Total points awarded across all participants",
	))

	m.filterEvaluations = auto.NewCounterVec(m.counterOpts(
		"filter_evaluations_total",
		"Facet filter evaluations by consumer",
	), []string{"consumer"})

	m.displayTransitions = auto.NewCounterVec(m.counterOpts(
		"display_transitions_total",
		"Display frames emitted by mode",
	), []string{"mode"})
	m.revealSteps = auto.NewCounterVec(m.counterOpts(
		"reveal_steps_total",
		"Result reveal steps shown",
	), []string{"step"})
	m.streamSubscribers = auto.NewGauge(m.gaugeOpts(
		"stream_subscribers",
		"Connected display stream subscribers",
	))
	m.framesPublished = auto.NewCounter(m.counterOpts(
		"frames_published_total",
		"Frames delivered to stream subscribers",
	))
	m.framesDropped = auto.NewCounter(m.counterOpts(
		"frames_dropped_total",
		"Frames dropped because a subscriber buffer was full",
	))

	m.snapshotReloads = auto.NewCounterVec(m.counterOpts(
		"snapshot_reloads_total",
		"Snapshot load attempts by outcome",
	), []string{"outcome"})
	m.snapshotVersion = auto.NewGauge(m.gaugeOpts(
		"snapshot_version",
		"Version of the live snapshot",
	))
	m.snapshotEntities = auto.NewGaugeVec(m.gaugeOpts(
		"snapshot_entities",
		"Entities in the live snapshot by kind",
	), []string{"kind"})
	m.snapshotLoadedAt = auto.NewGauge(m.gaugeOpts(
		"snapshot_loaded_unix",
		"Unix timestamp of the last applied snapshot",
	))

	m.httpRequests = auto.NewCounterVec(m.counterOpts(
		"http_requests_total",
		"Total number of HTTP requests by endpoint and method",
	), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts(
		"http_request_duration_milliseconds",
		"HTTP request duration in milliseconds",
		m.histogramBuckets,
	), []string{"endpoint", "method", "status_code"})
	m.errorRateByEndpoint = auto.NewCounterVec(m.counterOpts(
		"errors_by_endpoint_total",
		"Total number of errors by endpoint",
	), []string{"endpoint", "method", "error_type"})
	m.errorRateByType = auto.NewCounterVec(m.counterOpts(
		"errors_by_type_total",
		"Total number of errors by type",
	), []string{"error_type", "severity"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts(
		"system_memory_usage_bytes",
		"System memory usage in bytes",
	))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts(
		"system_goroutine_count",
		"Number of goroutines",
	))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts(
		"system_gc_pause_time_milliseconds",
		"GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	))
}

// Aggregation Metrics Functions.

// RecordAggregation records one standings computation.
func RecordAggregation(durationMs float64, counted int, skipped map[string]int, points int) {
	globalManager.aggregationDuration.Observe(durationMs)
	globalManager.resultsCounted.Set(float64(counted))
	globalManager.resultsSkipped.Reset()
	for reason, n := range skipped {
		globalManager.resultsSkipped.WithLabelValues(reason).Set(float64(n))
	}
	globalManager.pointsAwarded.Set(float64(points))
}

// RecordFilterEvaluation counts one filter pass for consumer.
func RecordFilterEvaluation(consumer string) {
	globalManager.filterEvaluations.WithLabelValues(consumer).Inc()
}

// Display Metrics Functions.

// RecordDisplayTransition counts a frame emitted in mode with the given
// reveal step.
func RecordDisplayTransition(mode string, reveal int) {
	globalManager.displayTransitions.WithLabelValues(mode).Inc()
	if reveal > 0 {
		globalManager.revealSteps.WithLabelValues(fmt.Sprint(reveal)).Inc()
	}
}

// UpdateStreamSubscribers sets the connected subscriber count.
func UpdateStreamSubscribers(n int) {
	globalManager.streamSubscribers.Set(float64(n))
}

// RecordFramePublished counts a frame delivered to a subscriber.
func RecordFramePublished() {
	globalManager.framesPublished.Inc()
}

// RecordFrameDropped counts a frame a slow subscriber missed.
func RecordFrameDropped() {
	globalManager.framesDropped.Inc()
}

// Snapshot Metrics Functions.

// RecordSnapshotReload counts a load attempt.
func RecordSnapshotReload(outcome ReloadOutcome) error {
	if !outcome.valid() {
		return fmt.Errorf("%w: %q", ErrUnknownOutcome, outcome)
	}
	globalManager.snapshotReloads.WithLabelValues(string(outcome)).Inc()
	return nil
}

// UpdateSnapshot describes the live snapshot.
func UpdateSnapshot(version uint64, loadedAt time.Time, entities map[string]int) {
	globalManager.snapshotVersion.Set(float64(version))
	globalManager.snapshotLoadedAt.Set(float64(loadedAt.Unix()))
	for kind, n := range entities {
		globalManager.snapshotEntities.WithLabelValues(kind).Set(float64(n))
	}
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Default returns the global manager.
func Default() *Manager {
	return globalManager
}
