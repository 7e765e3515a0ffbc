// Package metrics provides Prometheus metrics for the messaging-api service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ActiveConnections tracks the number of open authenticated connections.
	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "messaging_active_connections",
			Help: "Number of currently open authenticated websocket connections",
		},
	)

	// HandshakesRejected tracks refused connection attempts.
	HandshakesRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "messaging_handshakes_rejected_total",
			Help: "Total number of websocket handshakes refused by the gatekeeper",
		},
	)

	// MessagesDelivered tracks messages pushed to a present receiver.
	MessagesDelivered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "messaging_messages_delivered_total",
			Help: "Total number of direct messages pushed to a live connection",
		},
	)

	// DeliveryMisses tracks messages persisted for an offline receiver.
	DeliveryMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "messaging_delivery_misses_total",
			Help: "Total number of direct messages persisted without a live push",
		},
	)

	// NotificationsPersisted tracks storage-level notification fan-out.
	NotificationsPersisted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "messaging_notifications_persisted_total",
			Help: "Total number of notification rows written by broadcasts",
		},
	)

	// NotificationsPushed tracks live notification pushes.
	NotificationsPushed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "messaging_notifications_pushed_total",
			Help: "Total number of notification events pushed to live connections",
		},
	)

	// PushesDropped tracks events dropped because a peer could not keep up.
	PushesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "messaging_pushes_dropped_total",
			Help: "Total number of outbound events dropped on a full send buffer",
		},
	)
)

// RecordConnectionOpened increments the active-connection gauge.
func RecordConnectionOpened() {
	ActiveConnections.Inc()
}

// RecordConnectionClosed decrements the active-connection gauge.
func RecordConnectionClosed() {
	ActiveConnections.Dec()
}

// RecordHandshakeRejected counts a refused handshake.
func RecordHandshakeRejected() {
	HandshakesRejected.Inc()
}

// RecordMessageDelivered counts a live message push.
func RecordMessageDelivered() {
	MessagesDelivered.Inc()
}

// RecordDeliveryMiss counts a store-only delivery.
func RecordDeliveryMiss() {
	DeliveryMisses.Inc()
}

// RecordNotificationBroadcast counts one broadcast's persisted rows and
// live pushes.
func RecordNotificationBroadcast(persisted, pushed int) {
	NotificationsPersisted.Add(float64(persisted))
	NotificationsPushed.Add(float64(pushed))
}

// RecordPushDropped counts an event dropped on a full send buffer.
func RecordPushDropped() {
	PushesDropped.Inc()
}
