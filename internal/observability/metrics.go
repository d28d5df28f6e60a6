package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EventsPublished counts comment events published per topic.
	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "redline_comment_events_published_total",
		Help: "Total number of comment events published per topic",
	}, []string{"topic"})

	// EventsDelivered counts events delivered to live subscribers per topic.
	EventsDelivered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "redline_comment_events_delivered_total",
		Help: "Total number of comment events delivered to subscribers per topic",
	}, []string{"topic"})

	// SubscriberDrops counts events dropped because a subscriber could not keep up.
	SubscriberDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "redline_subscriber_drops_total",
		Help: "Total number of events dropped due to subscriber backpressure",
	}, []string{"topic"})

	// BusSubscribers is the gauge of currently registered bus listeners per topic.
	BusSubscribers = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "redline_bus_subscribers",
		Help: "Number of currently registered event bus listeners per topic",
	}, []string{"topic"})

	// WebSocketConnectionsTotal is the gauge of active WebSocket connections.
	WebSocketConnectionsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "redline_websocket_connections_total",
		Help: "Total number of active WebSocket connections",
	})

	// WebSocketBackpressureDrops counts messages dropped due to backpressure by hub and reason.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "redline_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	}, []string{"hub", "reason"})

	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "redline_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})
)
