package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ReasonSchema   = "schema"
	ReasonEmpty    = "empty"
	ReasonProvider = "provider"
	ReasonInternal = "internal"
)

var (
	Submissions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bid_letter_submissions_total",
			Help: "Total number of bid letter form submissions",
		},
	)

	ValidationFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bid_letter_validation_failures_total",
			Help: "Total number of submissions rejected by field validation",
		},
	)

	GenerationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bid_letter_generation_failures_total",
			Help: "Total number of failed generation calls",
		},
		[]string{"reason"},
	)

	GenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bid_letter_generation_duration_seconds",
			Help:    "Duration of generation calls in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
		},
	)
)
