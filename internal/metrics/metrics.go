// Package metrics holds the Prometheus collectors shared by the HTTP layer,
// the progress service and the background worker.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)
	ProgressReportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "progress_reports_total",
			Help: "Progress reports served, by source",
		},
		[]string{"source"},
	)
	ProgressComputeSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "progress_compute_seconds",
			Help:    "Time spent evaluating goals and streaks for one report",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		},
	)
	WorkerDroppedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "progress_worker_dropped_total",
			Help: "Recompute jobs dropped because the worker queue was full",
		},
	)
)

const (
	SourceCache    = "cache"
	SourceComputed = "computed"
)

var registerOnce sync.Once

// Init registers every collector with the default registry. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDuration,
			ProgressReportsTotal,
			ProgressComputeSeconds,
			WorkerDroppedTotal,
		)
	})
}
