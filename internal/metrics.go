package internal

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Analysis outcomes
const (
	OutcomeSuccess     = "success"
	OutcomeRateLimited = "rate_limited"
	OutcomeError       = "error"
	OutcomeInvalid     = "invalid"
)

var (
	analysisTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "code_analyzer_analyses_total",
			Help: "Code analysis requests by outcome",
		},
		[]string{"outcome"},
	)

	upstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "code_analyzer_upstream_request_duration_seconds",
			Help:    "Completion API request duration in seconds by status",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 0.1s to ~100s
		},
		// Model names come from request bodies, so they are not a label.
		[]string{"status"},
	)
)

// RecordAnalysis increments the outcome counter
func RecordAnalysis(outcome string) {
	analysisTotal.WithLabelValues(outcome).Inc()
}

// RecordUpstreamRequest records how long a completion call took
func RecordUpstreamRequest(duration time.Duration, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	upstreamDuration.WithLabelValues(status).Observe(duration.Seconds())
}
