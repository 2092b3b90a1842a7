package reminder

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	jobsSubmittedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reminders",
			Name:      "store_jobs_submitted_total",
			Help:      "Store jobs accepted into the persist queue.",
		},
		[]string{"op"},
	)

	persistTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reminders",
			Name:      "store_persist_total",
			Help:      "Whole-file rewrites by outcome.",
		},
		[]string{"result"},
	)

	loadTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reminders",
			Name:      "store_load_total",
			Help:      "Load attempts by outcome.",
		},
		[]string{"result"},
	)

	recordsGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "reminders",
			Name:      "store_records",
			Help:      "Records currently held in memory.",
		},
	)
)
