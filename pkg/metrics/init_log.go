package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initLogMetrics() {
	r.LogAppendsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "hookup_log_appends_total",
			Help: "Total number of event log appends",
		},
		[]string{"status"},
	)

	r.LogAppendDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hookup_log_append_duration_seconds",
			Help:    "Event log append latency in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		},
	)

	r.LogEventsTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "hookup_log_events_total",
			Help: "Number of events in the log at last snapshot",
		},
	)
}
