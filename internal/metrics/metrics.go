package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FallbackTotal counts read requests served by a local fallback tier
	// instead of the external ranking.
	FallbackTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_fallback_total",
			Help: "Recommendation requests answered by a local fallback, by reason",
		},
		[]string{"reason"},
	)

	// ScoringRequestsTotal counts calls to the external scoring service.
	ScoringRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoring_requests_total",
			Help: "Calls to the external scoring service, by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	// ScoringRequestDuration observes scoring call latency.
	ScoringRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scoring_request_duration_seconds",
			Help:    "External scoring call duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)
)
