package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recommendation sources.
const (
	SourceAI       = "ai"
	SourceFallback = "fallback"
)

var (
	recommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brew_recommendations_total",
			Help: "Recommendations served, by source",
		},
		[]string{"source"},
	)

	aiFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brew_ai_failures_total",
			Help: "AI generation attempts that ended in fallback, by reason",
		},
		[]string{"reason"},
	)

	aiDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "brew_ai_duration_seconds",
			Help:    "Duration of AI generation attempts in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16},
		},
	)

	breakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "brew_ai_breaker_state",
			Help: "AI circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
	)
)

// IncRecommendation counts a served recommendation.
func IncRecommendation(source string) {
	recommendationsTotal.WithLabelValues(source).Inc()
}

// IncAIFailure counts an AI attempt that fell back.
func IncAIFailure(reason string) {
	aiFailuresTotal.WithLabelValues(reason).Inc()
}

// ObserveAIDurationSeconds records an AI attempt duration.
func ObserveAIDurationSeconds(value float64) {
	if value < 0 {
		value = 0
	}
	aiDuration.Observe(value)
}

// SetBreakerState publishes the breaker state as a number.
func SetBreakerState(state int) {
	breakerState.Set(float64(state))
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
