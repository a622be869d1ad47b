// README: Prometheus metrics for the dispatch core and the HTTP layer.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RidesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "hail", Name: "rides_created_total", Help: "Rides created",
	})
	RideTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hail", Name: "ride_transitions_total", Help: "Ride status transitions"},
		[]string{"to"},
	)
	ClaimConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "hail", Name: "claim_conflicts_total", Help: "Accept or accept-bid attempts lost to a concurrent claim",
	})
	BidsPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "hail", Name: "bids_placed_total", Help: "Bids placed or re-placed",
	})
	StaleCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "hail", Name: "stale_rides_cancelled_total", Help: "Rides force-cancelled by the stale monitor",
	})

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hail", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hail",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
