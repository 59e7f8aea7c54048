package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UpstreamRequestDuration tracks latency per hotel API operation.
	UpstreamRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mooreweb_upstream_request_duration_seconds",
		Help:    "Duration of requests to the hotel API",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "status"})

	// BookingsCreated counts successful createBooking calls by method.
	BookingsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mooreweb_bookings_created_total",
		Help: "Bookings created through checkout, by payment method",
	}, []string{"payment_method"})

	// AvailabilityFailOpen counts transport failures where the checker
	// defaulted to available.
	AvailabilityFailOpen = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mooreweb_availability_fail_open_total",
		Help: "Availability checks that failed open on transport errors",
	})

	// ActiveWatchers is the number of confirmation pollers currently running.
	ActiveWatchers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mooreweb_confirmation_watchers_active",
		Help: "Active booking confirmation watchers",
	})

	// PollSkipped counts watcher ticks skipped because the previous fetch
	// was still in flight.
	PollSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mooreweb_confirmation_polls_skipped_total",
		Help: "Confirmation poll ticks skipped due to an in-flight fetch",
	})
)
