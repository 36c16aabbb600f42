// Package metrics holds the Prometheus collectors for the catalog service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EventsPublishedTotal counts records appended to the broadcast log.
	EventsPublishedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_broadcast_events_published_total",
		Help: "Total number of creation events appended to the broadcast log.",
	})

	// EventsDroppedTotal counts events a lagging subscriber never received
	// because they were evicted from a capped log first.
	EventsDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_broadcast_events_dropped_total",
		Help: "Total number of events skipped by subscribers that fell behind the retention window.",
	})

	// ActiveSubscriptions tracks live stream subscriptions.
	ActiveSubscriptions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_broadcast_active_subscriptions",
		Help: "Current number of active broadcast subscriptions.",
	})

	// RetainedEvents tracks the broadcast log length.
	RetainedEvents = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_broadcast_retained_events",
		Help: "Current number of events retained in the broadcast log.",
	})

	// StoreOperationsTotal counts record store calls by operation and outcome.
	StoreOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_store_operations_total",
		Help: "Total number of record store operations, by operation and result.",
	}, []string{"op", "result"})

	// StreamClientsConnected tracks clients attached to a stream endpoint.
	StreamClientsConnected = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "catalog_stream_clients_connected",
		Help: "Current number of connected stream clients, by transport.",
	}, []string{"transport"})
)
