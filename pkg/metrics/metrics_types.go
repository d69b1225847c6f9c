package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Engine Metrics
	ValidationsTotal     *prometheus.CounterVec
	RejectionsTotal      *prometheus.CounterVec
	ValidationDuration   *prometheus.HistogramVec
	ChainBuildDuration   prometheus.Histogram
	TraversalDuration    prometheus.Histogram
	ChainLength          prometheus.Histogram
	ActiveEdgesTotal     prometheus.Gauge
	IntegrityErrorsTotal prometheus.Counter

	// Event Log Metrics
	LogAppendsTotal   *prometheus.CounterVec
	LogAppendDuration prometheus.Histogram
	LogEventsTotal    prometheus.Gauge

	registry *prometheus.Registry
	mu       sync.RWMutex
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initHTTPMetrics()
	r.initEngineMetrics()
	r.initLogMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
