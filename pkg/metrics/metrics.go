package metrics

import (
	"time"
)

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordValidation records a validated proposal and its outcome
func (r *Registry) RecordValidation(action, outcome string, duration time.Duration) {
	r.ValidationsTotal.WithLabelValues(action, outcome).Inc()
	r.ValidationDuration.WithLabelValues(action).Observe(duration.Seconds())
}

// RecordRejection records a rejected proposal by reason
func (r *Registry) RecordRejection(reason string) {
	r.RejectionsTotal.WithLabelValues(reason).Inc()
}

// RecordChainBuild records one derivation of the active edge set
func (r *Registry) RecordChainBuild(duration time.Duration, activeEdges int) {
	r.ChainBuildDuration.Observe(duration.Seconds())
	r.ActiveEdgesTotal.Set(float64(activeEdges))
}

// RecordTraversal records one chain traversal
func (r *Registry) RecordTraversal(duration time.Duration, chainLength int) {
	r.TraversalDuration.Observe(duration.Seconds())
	r.ChainLength.Observe(float64(chainLength))
}

// RecordIntegrityError records a detected single-edge discipline violation
func (r *Registry) RecordIntegrityError() {
	r.IntegrityErrorsTotal.Inc()
}

// RecordLogAppend records an event log append attempt
func (r *Registry) RecordLogAppend(status string, duration time.Duration) {
	r.LogAppendsTotal.WithLabelValues(status).Inc()
	r.LogAppendDuration.Observe(duration.Seconds())
}

// SetLogEvents records the log size observed at the last snapshot
func (r *Registry) SetLogEvents(count int) {
	r.LogEventsTotal.Set(float64(count))
}
