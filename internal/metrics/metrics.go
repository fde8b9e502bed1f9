// Package metrics holds the Prometheus collectors for classification activity.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// PredictionsTotal counts classified query images by metric.
	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "digitknn_predictions_total",
			Help: "Total number of query images classified",
		},
		[]string{"metric"},
	)

	// PredictionDurationSeconds measures the latency of one classification batch.
	PredictionDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "digitknn_prediction_duration_seconds",
			Help:    "Duration of a classification batch",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		},
		[]string{"metric"},
	)

	// DistanceEvaluationsTotal counts pairwise distance computations by metric.
	DistanceEvaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "digitknn_distance_evaluations_total",
			Help: "Total number of query/reference distance computations",
		},
		[]string{"metric"},
	)

	// RejectedRequestsTotal counts calls refused before any work, by reason.
	RejectedRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "digitknn_rejected_requests_total",
			Help: "Total number of classification calls rejected up front",
		},
		[]string{"reason"},
	)

	// PerformanceSuccessRate is the success rate of the latest evaluation run.
	PerformanceSuccessRate = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "digitknn_performance_success_rate",
			Help: "Success rate of the most recent performance evaluation",
		},
		[]string{"metric"},
	)

	// ReferenceSetSize is the number of samples held by the engine.
	ReferenceSetSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "digitknn_reference_set_size",
			Help: "Number of labelled samples in the reference set",
		},
	)

	// LogEntriesTotal counts log entries by level.
	LogEntriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "digitknn_log_entries_total",
			Help: "Total number of log entries by level",
		},
		[]string{"level"},
	)
)

// Handler returns the HTTP handler exposing the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
