// Package metrics defines all custom Prometheus metrics for the taskboard
// API. It is the single source of truth for metric names, labels, and help
// strings; metrics self-register with the default registry via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "taskboard"

// TaskMutationsTotal counts successful task mutations.
// Label:
//   - method: the mutation kind ("addTask", "updateTask", "deleteTask")
var TaskMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "task_mutations_total",
		Help:      "Total number of successful task mutations, by kind.",
	},
	[]string{"method"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credential", or "wrong_password"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"result"},
)

// BroadcastEventsTotal counts real-time events delivered to subscriber
// channels.
// Label:
//   - event: the event name
var BroadcastEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "broadcast_events_total",
		Help:      "Total number of real-time events delivered to subscribers.",
	},
	[]string{"event"},
)

// BroadcastDroppedTotal counts events dropped because a subscriber's buffer
// was full. Delivery is fire-and-forget; a slow client never blocks the
// mutation path.
var BroadcastDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "broadcast_dropped_total",
		Help:      "Total number of real-time events dropped due to full subscriber buffers.",
	},
)

// BroadcastSubscribers tracks the number of currently connected real-time
// clients.
var BroadcastSubscribers = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "broadcast_subscribers",
		Help:      "Current number of connected real-time subscribers.",
	},
)
