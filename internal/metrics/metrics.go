// Package metrics exposes Prometheus collectors for admissions, execution
// outcomes, result deliveries and HTTP requests.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gitdesk"

var (
	registerOnce sync.Once

	admissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "task",
			Name:      "admissions_total",
			Help:      "Admission attempts by operation and result.",
		},
		[]string{"operation", "result"},
	)
	cancellations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "task",
			Name:      "cancellations_total",
			Help:      "Cancel requests that fired a running token.",
		},
		[]string{"operation"},
	)
	outcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "exec",
			Name:      "outcomes_total",
			Help:      "Settled executions by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)
	execDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "exec",
			Name:      "duration_seconds",
			Help:      "Wall time from spawn to settle in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation", "outcome"},
	)
	deliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "publish",
			Name:      "deliveries_total",
			Help:      "Result deliveries by event and result.",
		},
		[]string{"event", "result"},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			admissions, cancellations, outcomes, execDuration,
			deliveries, httpRequests, httpDuration,
		)
	})
}

// Handler serves the default registry
func Handler() http.Handler {
	RegisterMetrics()
	return promhttp.Handler()
}

func RecordAdmission(operation string, admitted bool) {
	RegisterMetrics()
	result := "rejected"
	if admitted {
		result = "admitted"
	}
	admissions.WithLabelValues(operation, result).Inc()
}

func RecordCancel(operation string) {
	RegisterMetrics()
	cancellations.WithLabelValues(operation).Inc()
}

// RecordOutcome counts a settled execution. outcome is one of success,
// failure or cancelled.
func RecordOutcome(operation, outcome string, duration time.Duration) {
	RegisterMetrics()
	outcomes.WithLabelValues(operation, outcome).Inc()
	execDuration.WithLabelValues(operation, outcome).Observe(duration.Seconds())
}

func RecordDelivery(event string, delivered bool) {
	RegisterMetrics()
	result := "unreachable"
	if delivered {
		result = "delivered"
	}
	deliveries.WithLabelValues(event, result).Inc()
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(method, path, statusLabel).Observe(duration.Seconds())
}
