// Package broadcast implements the real-time fan-out layer: an explicit
// registry of connected clients and a Server-Sent Events endpoint that
// streams task mutation events to each of them.
package broadcast

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/taskboard/taskboard-api/internal/api/metrics"
)

const clientBuffer = 16

// Event is a named real-time message fanned out to all subscribers.
type Event struct {
	Name    string
	Payload any
}

// Client is a single connected subscriber. Each client owns a buffered event
// channel drained by its streaming loop.
type Client struct {
	id     string
	events chan Event
}

// NewClient allocates a subscriber with a fresh identity.
func NewClient() *Client {
	return &Client{
		id:     uuid.NewString(),
		events: make(chan Event, clientBuffer),
	}
}

// ID returns the client's connection identity.
func (c *Client) ID() string { return c.id }

// Events exposes the client's receive channel. It is closed on Unregister.
func (c *Client) Events() <-chan Event { return c.events }

// Registry owns the set of connected clients. It is the only fan-out point:
// handlers call Broadcast after a successful task mutation, the SSE layer
// calls Register and Unregister around each connection's lifetime.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]*Client
	log     zerolog.Logger
}

func NewRegistry(log zerolog.Logger) *Registry {
	return &Registry{
		clients: make(map[string]*Client),
		log:     log,
	}
}

// Register adds a client to the fan-out set.
func (r *Registry) Register(c *Client) {
	r.mu.Lock()
	r.clients[c.id] = c
	n := len(r.clients)
	r.mu.Unlock()

	metrics.BroadcastSubscribers.Set(float64(n))
	r.log.Debug().Str("client_id", c.id).Int("subscribers", n).Msg("subscriber connected")
}

// Unregister removes a client and closes its event channel, ending the
// streaming loop. Safe to call for a client that was never registered.
func (r *Registry) Unregister(c *Client) {
	r.mu.Lock()
	if _, ok := r.clients[c.id]; ok {
		delete(r.clients, c.id)
		close(c.events)
	}
	n := len(r.clients)
	r.mu.Unlock()

	metrics.BroadcastSubscribers.Set(float64(n))
	r.log.Debug().Str("client_id", c.id).Int("subscribers", n).Msg("subscriber disconnected")
}

// Broadcast delivers the event to every connected client. Delivery is
// fire-and-forget: a client whose buffer is full has the event dropped so
// the calling request is never blocked by a slow subscriber.
func (r *Registry) Broadcast(event string, payload any) {
	ev := Event{Name: event, Payload: payload}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.clients {
		select {
		case c.events <- ev:
			metrics.BroadcastEventsTotal.WithLabelValues(event).Inc()
		default:
			metrics.BroadcastDroppedTotal.Inc()
			r.log.Warn().Str("client_id", c.id).Str("event", event).Msg("subscriber buffer full, event dropped")
		}
	}
}

// Subscribers returns the number of currently connected clients.
func (r *Registry) Subscribers() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}
