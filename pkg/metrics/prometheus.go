// Package metrics provides Prometheus metrics for the RuneTracker service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultNamespace       = "runetracker"
	defaultRefreshInterval = 10 * time.Second
)

// Relay round trips dominate lookup latency, so the buckets run from a few
// milliseconds to half a minute.
var defaultLatencyBuckets = []float64{5, 25, 100, 250, 500, 1000, 2500, 5000, 10000, 30000} //nolint:gochecknoglobals // bucket table

// Manager manages all Prometheus metrics for the RuneTracker service.
type Manager struct {
	namespace       string
	latencyBuckets  []float64
	enabled         bool
	refreshInterval time.Duration
	constLabels     map[string]string
	registry        prometheus.Registerer

	// Lookup metrics
	lookups       *prometheus.CounterVec
	lookupLatency prometheus.Histogram

	// Upstream acquisition
	relayAttempts *prometheus.CounterVec
	gainsOutcomes *prometheus.CounterVec
	cacheResults  *prometheus.CounterVec

	// Local persistence
	historyAppends          *prometheus.CounterVec
	storedBytes             *prometheus.GaugeVec
	subjectsTracked         prometheus.Gauge
	repositoryUpdateLatency prometheus.Histogram
	repositoryQueryLatency  prometheus.Histogram

	// Configuration
	configReloads *prometheus.CounterVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error tracking
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:       defaultNamespace,
		latencyBuckets:  defaultLatencyBuckets,
		enabled:         true,
		refreshInterval: defaultRefreshInterval,
		constLabels:     make(map[string]string),
		registry:        prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.constLabels)

	m.lookups = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Name:        "lookups_total",
		Help:        "Total number of subject lookups by outcome",
		ConstLabels: labels,
	}, []string{"outcome"})

	m.lookupLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Name:        "lookup_latency_milliseconds",
		Help:        "End-to-end lookup latency in milliseconds",
		Buckets:     m.latencyBuckets,
		ConstLabels: labels,
	})

	m.relayAttempts = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Name:        "relay_attempts_total",
		Help:        "Relay fetch attempts by upstream source, relay and outcome",
		ConstLabels: labels,
	}, []string{"source", "relay", "outcome"})

	m.gainsOutcomes = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Name:        "gains_outcomes_total",
		Help:        "Gains scrape results by reason (empty reason means available)",
		ConstLabels: labels,
	}, []string{"reason"})

	m.cacheResults = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Name:        "gains_cache_total",
		Help:        "Gains cache reads by result (hit, miss, stale)",
		ConstLabels: labels,
	}, []string{"result"})

	m.historyAppends = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Name:        "history_appends_total",
		Help:        "History appends by result",
		ConstLabels: labels,
	}, []string{"result"})

	m.storedBytes = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Name:        "stored_bytes",
		Help:        "Size of each persisted key in bytes",
		ConstLabels: labels,
	}, []string{"key"})

	m.subjectsTracked = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Name:        "subjects_tracked",
		Help:        "Number of subjects with stored history",
		ConstLabels: labels,
	})

	m.repositoryUpdateLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Name:        "repository_update_latency_milliseconds",
		Help:        "Repository write latency in milliseconds",
		Buckets:     m.latencyBuckets,
		ConstLabels: labels,
	})

	m.repositoryQueryLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Name:        "repository_query_latency_milliseconds",
		Help:        "Repository read latency in milliseconds",
		Buckets:     m.latencyBuckets,
		ConstLabels: labels,
	})

	m.configReloads = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Name:        "config_reloads_total",
		Help:        "Configuration file reloads by outcome",
		ConstLabels: labels,
	}, []string{"outcome"})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests by endpoint and method",
			ConstLabels: labels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Name:        "http_request_duration_milliseconds",
			Help:        "HTTP request duration in milliseconds",
			Buckets:     m.latencyBuckets,
			ConstLabels: labels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Name:        "errors_by_component_total",
			Help:        "Total number of errors by component",
			ConstLabels: labels,
		},
		[]string{"component", "error_type"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Name:        "errors_by_endpoint_total",
			Help:        "Total number of errors by endpoint",
			ConstLabels: labels,
		},
		[]string{"endpoint", "method", "error_type"},
	)
}

// RecordLookup increments the lookup counter for outcome.
func RecordLookup(outcome string) {
	if !globalManager.enabled {
		return
	}
	globalManager.lookups.WithLabelValues(outcome).Inc()
}

// RecordLookupLatency records end-to-end lookup latency in milliseconds.
func RecordLookupLatency(latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.lookupLatency.Observe(latencyMs)
}

// RecordRelayAttempt counts one relay attempt.
func RecordRelayAttempt(source, relay, outcome string) {
	if !globalManager.enabled {
		return
	}
	globalManager.relayAttempts.WithLabelValues(source, relay, outcome).Inc()
}

// RecordGainsOutcome counts a finished gains scrape.
func RecordGainsOutcome(reason string) {
	if !globalManager.enabled {
		return
	}
	globalManager.gainsOutcomes.WithLabelValues(reason).Inc()
}

// RecordCacheResult counts a gains cache read.
func RecordCacheResult(result string) {
	if !globalManager.enabled {
		return
	}
	globalManager.cacheResults.WithLabelValues(result).Inc()
}

// RecordHistoryAppend counts a history append.
func RecordHistoryAppend(result string) {
	if !globalManager.enabled {
		return
	}
	globalManager.historyAppends.WithLabelValues(result).Inc()
}

// UpdateStoredBytes sets the persisted size of key.
func UpdateStoredBytes(key string, bytes int) {
	if !globalManager.enabled {
		return
	}
	globalManager.storedBytes.WithLabelValues(key).Set(float64(bytes))
}

// UpdateSubjectsTracked sets the number of subjects with history.
func UpdateSubjectsTracked(count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.subjectsTracked.Set(float64(count))
}

// RecordRepositoryUpdateLatency records repository write latency.
func RecordRepositoryUpdateLatency(latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.repositoryUpdateLatency.Observe(latencyMs)
}

// RecordRepositoryQueryLatency records repository read latency.
func RecordRepositoryQueryLatency(latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.repositoryQueryLatency.Observe(latencyMs)
}

// RecordConfigReload counts a configuration reload.
func RecordConfigReload(outcome string) {
	if !globalManager.enabled {
		return
	}
	globalManager.configReloads.WithLabelValues(outcome).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// SetEnabled turns recording through the package functions on or off.
func SetEnabled(enabled bool) {
	globalManager.enabled = enabled
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// RefreshInterval returns how often derived gauges should be refreshed.
func RefreshInterval() time.Duration {
	return globalManager.refreshInterval
}
