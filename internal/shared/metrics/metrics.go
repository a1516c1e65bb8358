package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	GenerationRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "support_llm_generation_requests_total",
			Help: "Total structured-generation calls by schema and outcome",
		},
		[]string{"schema", "status"},
	)

	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "support_llm_generation_duration_seconds",
			Help:    "Structured-generation latency in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
		[]string{"schema"},
	)

	FallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "support_fallbacks_total",
			Help: "Deterministic fallbacks substituted for failed generations",
		},
		[]string{"component"},
	)

	FeedbackJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "support_feedback_jobs_total",
			Help: "Feedback queue messages by outcome",
		},
		[]string{"outcome"},
	)

	FeedbackEffectiveness = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "support_feedback_effectiveness",
			Help:    "Agent-reported recommendation effectiveness (1-5)",
			Buckets: []float64{1, 2, 3, 4, 5},
		},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "support_http_requests_total",
			Help: "HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)
)

// ObserveGeneration records one generation call.
func ObserveGeneration(schema string, err error, elapsed time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	GenerationRequestsTotal.WithLabelValues(schema, status).Inc()
	GenerationDuration.WithLabelValues(schema).Observe(elapsed.Seconds())
}

// IncFallback increments the fallback counter for a component.
func IncFallback(component string) {
	FallbacksTotal.WithLabelValues(component).Inc()
}

// IncFeedbackJob counts one processed feedback message. Outcomes are
// completed, failed and dropped.
func IncFeedbackJob(outcome string) {
	FeedbackJobsTotal.WithLabelValues(outcome).Inc()
}

// ObserveFeedback records a stored effectiveness rating.
func ObserveFeedback(effectiveness int) {
	FeedbackEffectiveness.Observe(float64(effectiveness))
}

// ObserveHTTP records a completed request.
func ObserveHTTP(method, route string, status int) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
