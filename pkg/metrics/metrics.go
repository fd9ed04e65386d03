package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration tracks handler latency in seconds.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "route", "status"},
	)

	// TaskOperations counts task service calls by outcome.
	TaskOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "task_operations_total",
			Help: "Total number of task operations",
		},
		[]string{"operation", "result"}, // result: ok, invalid, not_found, error
	)

	// TaskWriteConflicts counts optimistic-concurrency rejections.
	TaskWriteConflicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tasks_write_conflicts_total",
			Help: "Total number of task writes rejected by a version check",
		},
		[]string{"operation", "resolution"}, // resolution: not_found, fatal
	)

	// DependencyUp reports the last probe result per dependency.
	DependencyUp = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dependency_up",
			Help: "1 if the last health probe of the dependency succeeded",
		},
		[]string{"dependency"},
	)
)

// RecordHTTPRequest records one handled request.
func RecordHTTPRequest(method, route, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

// RecordTaskOperation increments the operation counter.
func RecordTaskOperation(operation, result string) {
	TaskOperations.WithLabelValues(operation, result).Inc()
}

// RecordWriteConflict increments the conflict counter.
func RecordWriteConflict(operation, resolution string) {
	TaskWriteConflicts.WithLabelValues(operation, resolution).Inc()
}

// SetDependencyUp updates the dependency gauge.
func SetDependencyUp(dependency string, up bool) {
	v := 0.0
	if up {
		v = 1
	}
	DependencyUp.WithLabelValues(dependency).Set(v)
}
