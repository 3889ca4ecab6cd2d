package metrics

import "github.com/prometheus/client_golang/prometheus"

// Turn pipeline Prometheus metrics.
var (
	TurnsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hoover",
			Name:      "turns_total",
			Help:      "Total number of processed turns by outcome",
		},
		[]string{"outcome"}, // greeting, nicety, results, no_results, suppressed, apology, error, ignored, canceled
	)

	CryptonymHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "hoover",
			Name:      "cryptonym_hits_total",
			Help:      "Total cryptonym answers sent",
		},
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hoover",
			Name:      "search_duration_seconds",
			Help:      "Document search duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8},
		},
		[]string{"status"},
	)

	ProgressSignalsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "hoover",
			Name:      "progress_signals_total",
			Help:      "Total typing signals emitted while searching",
		},
	)

	CardsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hoover",
			Name:      "cards_total",
			Help:      "Result cards built and hits skipped",
		},
		[]string{"result"}, // built, no_thumbnails, malformed
	)
)

var turnMetricsRegistered bool

// RegisterTurnMetrics registers Prometheus turn metrics. Must be called once from main.
func RegisterTurnMetrics() {
	if turnMetricsRegistered {
		return
	}
	prometheus.MustRegister(TurnsTotal)
	prometheus.MustRegister(CryptonymHitsTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(ProgressSignalsTotal)
	prometheus.MustRegister(CardsTotal)
	turnMetricsRegistered = true
}
