package saga

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for fetch orchestrators.
var (
	fetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "amo_fetch_total",
		Help: "Total fetch invocations by resource kind and outcome",
	}, []string{"kind", "outcome"})

	fetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "amo_fetch_duration_seconds",
		Help:    "Fetch invocation duration in seconds by resource kind",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"kind"})

	fetchInFlight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "amo_fetch_in_flight",
		Help: "Fetch invocations currently waiting on the API gateway",
	}, []string{"kind"})
)

// Outcome labels.
const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)
