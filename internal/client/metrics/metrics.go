// Package metrics registers the Prometheus collectors of the client.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation labels.
const (
	OpList   = "list_documents"
	OpUpload = "upload"
	OpDelete = "delete"
	OpQuery  = "query"
	OpPing   = "ping"
)

// Outcome labels.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "requests_total",
			Help:      "Requests sent to the document service by operation and outcome.",
		},
		[]string{"op", "outcome"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "request_duration_seconds",
			Help:      "Latency of requests to the document service.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		},
		[]string{"op"},
	)

	StaleRefreshesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "stale_refreshes_total",
			Help:      "Directory refresh responses dropped because a newer one was already applied.",
		},
	)

	LocalRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "local_rejections_total",
			Help:      "Operations refused locally before any network call.",
		},
		[]string{"reason"},
	)
)

// ObserveRequest records one finished request.
func ObserveRequest(op string, started time.Time, err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	RequestsTotal.WithLabelValues(op, outcome).Inc()
	RequestDuration.WithLabelValues(op).Observe(time.Since(started).Seconds())
}

// Rejected records a local refusal; reason is usually an error kind string.
func Rejected(reason string) {
	LocalRejectionsTotal.WithLabelValues(reason).Inc()
}
