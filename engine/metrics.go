package engine

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 引擎指标注册在默认 registry 上，进程内只注册一次，多个 Engine 实例共享。
var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rtrec_requests_total",
			Help: "Total number of engine operations",
		},
		[]string{"op", "branch"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rtrec_request_duration_seconds",
			Help:    "Duration of engine operations in seconds",
			Buckets: []float64{0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
		[]string{"op"},
	)

	recommendationsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rtrec_recommendations_returned",
			Help:    "Number of recommendations returned per request",
			Buckets: []float64{0, 1, 3, 5, 10, 20, 50},
		},
	)

	interactionsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rtrec_interactions_recorded_total",
			Help: "Total number of interactions accepted into the log",
		},
		[]string{"type"},
	)

	interactionsRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rtrec_interactions_rejected_total",
			Help: "Total number of malformed interactions rejected",
		},
	)

	sinkFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rtrec_sink_failures_total",
			Help: "Total number of failed writes to the interaction sink",
		},
	)

	filterErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rtrec_filter_errors_total",
			Help: "Total number of filter errors; the candidate is kept",
		},
		[]string{"filter"},
	)

	rebuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rtrec_matrix_rebuild_duration_seconds",
			Help:    "Duration of full preference matrix rebuilds",
			Buckets: []float64{0.00001, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		},
	)

	logSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "rtrec_log_size",
			Help: "Current number of interactions in the log",
		},
	)

	matrixUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "rtrec_matrix_users",
			Help: "Number of users with at least one preference matrix entry",
		},
	)
)

func observeRequest(op, branch string, start time.Time) {
	requestsTotal.WithLabelValues(op, branch).Inc()
	requestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
