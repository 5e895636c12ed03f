package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts requests by method, path and status code
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "depot_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration observes request latency by method and path
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "depot_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// ReconcileRuns counts batch reconciliation runs
	ReconcileRuns = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "depot_reconcile_runs_total",
			Help: "Total batch reconciliation runs",
		},
	)

	// ReconcileOutcomes counts per-container reconciliation outcomes
	// (fixed, skipped, flagged, error)
	ReconcileOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "depot_reconcile_outcomes_total",
			Help: "Per-container reconciliation outcomes",
		},
		[]string{"outcome"},
	)

	// IntegrityViolations counts fatal duplicate-occupancy detections
	IntegrityViolations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "depot_integrity_violations_total",
			Help: "Detected duplicate-occupancy integrity violations",
		},
	)
)
