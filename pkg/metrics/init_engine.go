package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initEngineMetrics() {
	r.ValidationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "hookup_validations_total",
			Help: "Total number of validated proposals",
		},
		[]string{"action", "outcome"},
	)

	r.RejectionsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "hookup_rejections_total",
			Help: "Total number of rejected proposals by reason",
		},
		[]string{"reason"},
	)

	r.ValidationDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hookup_validation_duration_seconds",
			Help:    "Proposal validation latency in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		},
		[]string{"action"},
	)

	r.ChainBuildDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hookup_chain_build_duration_seconds",
			Help:    "Time to derive the active edge set from the log",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		},
	)

	r.TraversalDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hookup_traversal_duration_seconds",
			Help:    "Chain traversal latency in seconds",
			Buckets: []float64{0.0001, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
	)

	r.ChainLength = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hookup_chain_length_parts",
			Help:    "Number of parts in traversed chains",
			Buckets: []float64{1, 2, 3, 4, 5, 6},
		},
	)

	r.ActiveEdgesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "hookup_active_edges_total",
			Help: "Number of currently active edges in the derived view",
		},
	)

	r.IntegrityErrorsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "hookup_integrity_errors_total",
			Help: "Times the derived edge set violated the single-edge discipline",
		},
	)
}
