package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wanderwise_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wanderwise_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	// Relay metrics
	MessagesRelayed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wanderwise_messages_relayed_total",
			Help: "Total chat messages persisted through the relay",
		},
	)

	RealtimeDeliveries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wanderwise_realtime_deliveries_total",
			Help: "Messages pushed to a connected receiver",
		},
	)

	DeferredDeliveries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wanderwise_deferred_deliveries_total",
			Help: "Messages persisted with no receiver connected",
		},
	)

	ConnectedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wanderwise_connected_clients",
			Help: "Currently registered websocket clients",
		},
	)

	PlaceLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wanderwise_place_lookups_total",
			Help: "Place searches by cache outcome",
		},
		[]string{"outcome"}, // "hit" or "miss"
	)
)
