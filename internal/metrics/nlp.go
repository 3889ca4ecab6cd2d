package metrics

import "github.com/prometheus/client_golang/prometheus"

// NLP provider Prometheus metrics.
var (
	NLPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hoover",
			Name:      "nlp_requests_total",
			Help:      "Total number of NLP extraction requests",
		},
		[]string{"provider", "kind", "status"},
	)

	NLPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hoover",
			Name:      "nlp_request_duration_seconds",
			Help:      "NLP extraction request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider", "kind"},
	)

	NLPTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hoover",
			Name:      "nlp_tokens_total",
			Help:      "Total NLP tokens consumed",
		},
		[]string{"provider", "type"},
	)

	NLPErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hoover",
			Name:      "nlp_errors_total",
			Help:      "Total NLP extraction errors",
		},
		[]string{"provider", "kind", "error_type"},
	)

	NLPCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hoover",
			Name:      "nlp_cache_total",
			Help:      "NLP cache hits and misses",
		},
		[]string{"kind", "result"}, // "hit" / "miss"
	)

	NLPBudgetTokensRemaining = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "hoover",
			Name:      "nlp_budget_tokens_remaining",
			Help:      "NLP tokens left in the current budget period (-1 if unlimited)",
		},
		[]string{"provider", "period"},
	)

	NLPBudgetRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hoover",
			Name:      "nlp_budget_rejections_total",
			Help:      "NLP extractions skipped because the token budget was spent",
		},
		[]string{"provider", "kind"},
	)
)

var nlpMetricsRegistered bool

// RegisterNLPMetrics registers Prometheus NLP metrics. Must be called once from main.
func RegisterNLPMetrics() {
	if nlpMetricsRegistered {
		return
	}
	prometheus.MustRegister(NLPRequestsTotal)
	prometheus.MustRegister(NLPRequestDuration)
	prometheus.MustRegister(NLPTokensTotal)
	prometheus.MustRegister(NLPErrorsTotal)
	prometheus.MustRegister(NLPCacheTotal)
	prometheus.MustRegister(NLPBudgetTokensRemaining)
	prometheus.MustRegister(NLPBudgetRejectionsTotal)
	nlpMetricsRegistered = true
}
