// Package metrics holds the Prometheus collectors exported by orchestra-api.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "orchestra"

// Result label values.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

var (
	// WorkshopOperations counts lifecycle manager calls by operation and error code.
	WorkshopOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workshop_operations_total",
			Help:      "Total number of workshop lifecycle operations by result",
		},
		[]string{"operation", "result"},
	)

	// SweeperDeletions counts expired workshops removed by the sweeper.
	SweeperDeletions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sweeper_deletions_total",
			Help:      "Total number of expired workshop deletions issued by the sweeper",
		},
		[]string{"result"},
	)

	// SweeperRuns counts sweeper ticks.
	SweeperRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sweeper_runs_total",
			Help:      "Total number of sweeper runs by result",
		},
		[]string{"result"},
	)

	// HTTPRequestDuration tracks API latency.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "code"},
	)
)

func init() {
	prometheus.MustRegister(
		WorkshopOperations,
		SweeperDeletions,
		SweeperRuns,
		HTTPRequestDuration,
	)
}

// Result maps an error to a result label. Non-nil errors are labelled by
// their taxonomy code so dashboards can tell conflicts from outages.
func Result(code string) string {
	if code == "" {
		return ResultSuccess
	}

	return code
}

// ObserveOperation records one lifecycle operation outcome.
func ObserveOperation(operation, code string) {
	WorkshopOperations.WithLabelValues(operation, Result(code)).Inc()
}
