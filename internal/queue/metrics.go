package queue

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// queueDepth is only written by the worker goroutine.
var (
	queueFullTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "reminders",
			Subsystem: "queue",
			Name:      "full_total",
			Help:      "Enqueue attempts that timed out because the queue was full.",
		},
	)

	jobFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "reminders",
			Subsystem: "queue",
			Name:      "job_failures_total",
			Help:      "Jobs that returned an error or panicked.",
		},
	)

	runDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "reminders",
			Subsystem: "queue",
			Name:      "run_duration_seconds",
			Help:      "Job execution latency.",
			Buckets:   prometheus.DefBuckets,
		},
	)

	queueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "reminders",
			Subsystem: "queue",
			Name:      "depth",
			Help:      "Jobs waiting in the queue.",
		},
	)
)
