package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "records_mutations_total",
			Help: "Total number of record mutations by entity, action and outcome",
		},
		[]string{"entity", "action", "outcome"},
	)

	MutationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "records_mutation_duration_seconds",
			Help:    "Duration of record mutations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"entity", "action"},
	)

	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "records_events_published_total",
			Help: "Total number of record events handed to the broker",
		},
		[]string{"entity", "result"},
	)

	EventsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "records_events_consumed_total",
			Help: "Total number of record events processed by the audit worker",
		},
		[]string{"result"},
	)
)
