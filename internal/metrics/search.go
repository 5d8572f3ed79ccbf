package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Search Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_requests_total",
			Help:      "Total number of search queries",
		},
		[]string{"mode", "status"},
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Search latency in seconds, query embedding included",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"mode"},
	)

	SearchResultsReturned = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_results_returned",
			Help:      "Number of results returned per query",
			Buckets:   []float64{0, 1, 5, 10, 20, 50, 100},
		},
		[]string{"mode"},
	)

	IntentDetectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intent_detections_total",
			Help:      "Structural intents detected in hybrid queries",
		},
		[]string{"keyword"}, // "none" when no rule matched
	)

	CorpusCircuits = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "corpus_circuits",
			Help:      "Circuits loaded into the search index",
		},
		[]string{"subset"}, // "all" / "lexical"
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(SearchResultsReturned)
	prometheus.MustRegister(IntentDetectionsTotal)
	prometheus.MustRegister(CorpusCircuits)
	searchMetricsRegistered = true
}

// ObserveSearch records one finished query.
func ObserveSearch(mode, status string, results int, elapsed time.Duration) {
	SearchRequestsTotal.WithLabelValues(mode, status).Inc()
	SearchDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
	if status == "ok" {
		SearchResultsReturned.WithLabelValues(mode).Observe(float64(results))
	}
}

// ObserveIntent records the intent keyword of a query, "none" when empty.
func ObserveIntent(keyword string) {
	if keyword == "" {
		keyword = "none"
	}
	IntentDetectionsTotal.WithLabelValues(keyword).Inc()
}

// SetCorpusSize publishes the loaded corpus size.
func SetCorpusSize(all, lexical int) {
	CorpusCircuits.WithLabelValues("all").Set(float64(all))
	CorpusCircuits.WithLabelValues("lexical").Set(float64(lexical))
}
