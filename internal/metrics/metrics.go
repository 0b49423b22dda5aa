// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CatalogImportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_imports_total",
			Help: "Total number of catalog import attempts",
		},
		[]string{"mountain", "result"},
	)

	ScoresRecordedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scores_recorded_total",
			Help: "Total number of score events recorded",
		},
		[]string{"mountain"},
	)

	ScorePointsHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "score_points",
			Help:    "Distribution of per-score point totals",
			Buckets: prometheus.LinearBuckets(0, 100, 12),
		},
		[]string{"mountain", "metric"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)
)
