package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RideRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "motogo", Name: "ride_requests_total", Help: "Ride requests by outcome"},
		[]string{"outcome"},
	)

	MatchLatency = promauto.NewHistogram(prometheus.HistogramOpts{Namespace: "motogo", Name: "match_latency_seconds", Help: "Match latency seconds", Buckets: []float64{.1, .5, 1, 1.5, 2, 3, 5, 10}})
	ActiveRides  = promauto.NewGauge(prometheus.GaugeOpts{Namespace: "motogo", Name: "active_rides", Help: "Number of tracked ride sessions"})

	DriverLocationUpdatesTotal = promauto.NewCounter(prometheus.CounterOpts{Namespace: "motogo", Name: "driver_location_updates_total", Help: "Fleet location updates accepted"})

	RideTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "motogo", Name: "ride_transitions_total", Help: "Ride status transitions by entered status"},
		[]string{"status"},
	)
	RideCancellationsTotal = promauto.NewCounter(prometheus.CounterOpts{Namespace: "motogo", Name: "ride_cancellations_total", Help: "Ride searches restarted by the rider"})

	PlacesQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "motogo", Name: "places_queries_total", Help: "Place autocomplete queries by result"},
		[]string{"result"},
	)
	NotifyErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "motogo", Name: "notify_errors_total", Help: "Failed ride status deliveries by sink"},
		[]string{"sink"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "motogo", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "motogo",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
