package metrics

import "github.com/prometheus/client_golang/prometheus"

// Analysis pipeline Prometheus metrics.
var (
	AnalysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "marketlens",
			Name:      "analyses_total",
			Help:      "Total number of analysis runs by outcome",
		},
		[]string{"outcome"}, // "committed" / "insufficient_matches" / "error"
	)

	AnalysisDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "marketlens",
			Name:      "analysis_duration_seconds",
			Help:      "End-to-end analysis pipeline duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"stage"}, // "total" / "search" / "clustering"
	)

	LeadsScannedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "marketlens",
			Name:      "leads_scanned_total",
			Help:      "Lead vectors compared during similarity scans",
		},
	)

	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "marketlens",
			Name:      "embedding_requests_total",
			Help:      "Total number of query-embedding requests",
		},
		[]string{"provider", "model", "status"},
	)

	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "marketlens",
			Name:      "embedding_request_duration_seconds",
			Help:      "Query-embedding request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider", "model"},
	)

	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "marketlens",
			Name:      "embedding_cache_total",
			Help:      "Query-embedding cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var analysisMetricsRegistered bool

// RegisterAnalysisMetrics registers analysis metrics. Must be called once from main.
func RegisterAnalysisMetrics() {
	if analysisMetricsRegistered {
		return
	}
	prometheus.MustRegister(AnalysesTotal)
	prometheus.MustRegister(AnalysisDuration)
	prometheus.MustRegister(LeadsScannedTotal)
	prometheus.MustRegister(EmbeddingRequestsTotal)
	prometheus.MustRegister(EmbeddingRequestDuration)
	prometheus.MustRegister(EmbeddingCacheTotal)
	analysisMetricsRegistered = true
}
