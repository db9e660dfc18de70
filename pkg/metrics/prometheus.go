// Package metrics provides Prometheus metrics for the Olympics navigator service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the navigator service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Dataset metrics
	datasetLoads        *prometheus.CounterVec
	datasetLoadErrors   *prometheus.CounterVec
	datasetLoadDuration *prometheus.HistogramVec
	datasetRows         *prometheus.GaugeVec

	// Filter engine metrics
	filterRequests   *prometheus.CounterVec
	filterLatency    prometheus.Histogram
	filterResultSize prometheus.Histogram
	optionLookups    *prometheus.CounterVec

	// Session metrics
	sessionsActive  prometheus.Gauge
	sessionsCreated prometheus.Counter
	sessionsEvicted prometheus.Counter

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpRateLimited     *prometheus.CounterVec

	// Probe metrics
	probeChecks *prometheus.CounterVec

	// Error metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// variableLabels are the label names used by the collectors below. Constant
// labels with these names are ignored.
var variableLabels = map[string]struct{}{ //nolint:gochecknoglobals // fixed label set
	"dataset": {}, "source": {}, "list": {}, "cache": {}, "endpoint": {}, "method": {},
	"status_code": {}, "outcome": {}, "component": {}, "error_type": {},
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "olympicsnav",
		subsystem:        "navigator",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)
	constLabels := prometheus.Labels(m.customLabels)

	counterVec := func(name, help string, labels ...string) *prometheus.CounterVec {
		return auto.NewCounterVec(prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name(name),
			Help:        help,
			ConstLabels: constLabels,
		}, labels)
	}
	gauge := func(name, help string) prometheus.Gauge {
		return auto.NewGauge(prometheus.GaugeOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name(name),
			Help:        help,
			ConstLabels: constLabels,
		})
	}
	counter := func(name, help string) prometheus.Counter {
		return auto.NewCounter(prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name(name),
			Help:        help,
			ConstLabels: constLabels,
		})
	}

	m.datasetLoads = counterVec("dataset_loads_total", "Total number of successful dataset loads", "dataset")
	m.datasetLoadErrors = counterVec("dataset_load_errors_total", "Total number of failed dataset loads", "dataset")
	m.datasetLoadDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("dataset_load_duration_milliseconds"),
		Help:        "Dataset load duration in milliseconds",
		Buckets:     []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		ConstLabels: constLabels,
	}, []string{"dataset"})
	m.datasetRows = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("dataset_rows"),
		Help:        "Number of rows held by the most recent load",
		ConstLabels: constLabels,
	}, []string{"dataset"})

	m.filterRequests = counterVec("filter_requests_total", "Total number of filter evaluations by caller", "source")
	m.filterLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("filter_latency_milliseconds"),
		Help:        "Filter evaluation latency in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: constLabels,
	})
	m.filterResultSize = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("filter_result_records"),
		Help:        "Number of records matched by a filter evaluation",
		Buckets:     prometheus.ExponentialBuckets(1, 4, 10),
		ConstLabels: constLabels,
	})
	m.optionLookups = counterVec("option_lookups_total", "Option list lookups by list and cache result", "list", "cache")

	m.sessionsActive = gauge("sessions_active", "Number of live browsing sessions")
	m.sessionsCreated = counter("sessions_created_total", "Total number of sessions created")
	m.sessionsEvicted = counter("sessions_evicted_total", "Total number of sessions evicted by capacity")

	m.httpRequests = counterVec("http_requests_total", "Total number of HTTP requests by endpoint and method",
		"endpoint", "method", "status_code")
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("http_request_duration_milliseconds"),
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: constLabels,
	}, []string{"endpoint", "method", "status_code"})
	m.httpRateLimited = counterVec("http_rate_limited_total", "Requests rejected by the rate limiter", "endpoint")

	m.probeChecks = counterVec("probe_checks_total", "Probe checks by outcome", "outcome")

	m.errorRateByComponent = counterVec("errors_by_component_total", "Total number of errors by component",
		"component", "error_type")
	m.errorRateByEndpoint = counterVec("errors_by_endpoint_total", "Total number of errors by endpoint",
		"endpoint", "method", "error_type")

	m.systemMemoryUsage = gauge("system_memory_usage_bytes", "System memory usage in bytes")
	m.systemGoroutineCount = gauge("system_goroutine_count", "Number of goroutines")
}

// Dataset Metrics Functions.

// RecordDatasetLoad records a successful load of dataset.
func RecordDatasetLoad(dataset string, latencyMs float64, rows int) {
	if !globalManager.enabled {
		return
	}
	globalManager.datasetLoads.WithLabelValues(dataset).Inc()
	globalManager.datasetLoadDuration.WithLabelValues(dataset).Observe(latencyMs)
	globalManager.datasetRows.WithLabelValues(dataset).Set(float64(rows))
}

// RecordDatasetLoadError increments the failed load counter for dataset.
func RecordDatasetLoadError(dataset string) {
	if !globalManager.enabled {
		return
	}
	globalManager.datasetLoadErrors.WithLabelValues(dataset).Inc()
}

// Filter Metrics Functions.

// RecordFilterRequest counts a filter evaluation and its result size.
func RecordFilterRequest(source string, latencyMs float64, resultSize int) {
	if !globalManager.enabled {
		return
	}
	globalManager.filterRequests.WithLabelValues(source).Inc()
	globalManager.filterLatency.Observe(latencyMs)
	globalManager.filterResultSize.Observe(float64(resultSize))
}

// RecordOptionsLookup counts an option list lookup.
func RecordOptionsLookup(list string, hit bool) {
	if !globalManager.enabled {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	globalManager.optionLookups.WithLabelValues(list, result).Inc()
}

// Session Metrics Functions.

// UpdateSessionsActive sets the number of live sessions.
func UpdateSessionsActive(count int) {
	globalManager.sessionsActive.Set(float64(count))
}

// RecordSessionCreated increments the session creation counter.
func RecordSessionCreated() {
	globalManager.sessionsCreated.Inc()
}

// RecordSessionEvicted increments the eviction counter.
func RecordSessionEvicted() {
	globalManager.sessionsEvicted.Inc()
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

// RecordHTTPStatus is a convenience wrapper taking a numeric status.
func RecordHTTPStatus(endpoint, method string, status int, durationMs float64) {
	code := strconv.Itoa(status)
	RecordHTTPRequest(endpoint, method, code)
	RecordHTTPRequestDuration(endpoint, method, code, durationMs)
}

// RecordRateLimited counts a request rejected by the limiter.
func RecordRateLimited(endpoint string) {
	globalManager.httpRateLimited.WithLabelValues(endpoint).Inc()
}

// Probe Metrics Functions.

// RecordProbeCheck counts a probe check; outcome is "pass" or "fail".
func RecordProbeCheck(outcome string) {
	globalManager.probeChecks.WithLabelValues(outcome).Inc()
}

// Error Metrics Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
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

// RefreshInterval returns how often gauges sampled by the caller should be refreshed.
func RefreshInterval() time.Duration {
	return globalManager.refreshInterval
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
