// Package ws provides the live alarm fan-out: a hub of authenticated
// WebSocket subscribers that alarm events are broadcast to on a best-effort,
// at-most-once basis. There is no backlog and no replay; a subscriber only
// receives events broadcast while its connection is registered.
package ws

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"github.com/homehospital/hha/internal/platform/auth"
)

// Conn is the minimal WebSocket connection surface the hub needs. It is
// satisfied by *gorilla/websocket.Conn and by test fakes.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// textMessage mirrors gorilla's websocket.TextMessage without importing it
// into every hub consumer.
const textMessage = 1

// Client is one registered subscriber. Writes are serialized through a
// per-client mutex because both the broadcast sweep and the keepalive reply
// write to the same underlying connection.
type Client struct {
	ID       string
	Identity *auth.Identity

	mu   sync.Mutex
	conn Conn
}

// NewClient wraps a connection for hub registration.
func NewClient(id string, identity *auth.Identity, conn Conn) *Client {
	return &Client{ID: id, Identity: identity, conn: conn}
}

// Send writes a text frame to the client.
func (c *Client) Send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(textMessage, data)
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// FailureCounter counts per-connection send failures.
type FailureCounter interface {
	Inc()
}

// ConnGauge tracks the number of registered subscribers.
type ConnGauge interface {
	Inc()
	Dec()
}

// Hub owns the live-connection registry. A client is registered at most once
// and removed exactly once, on terminal disconnect or on send failure; all
// registry mutations are serialized by the hub's mutex.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}

	logger   zerolog.Logger
	failures FailureCounter
	gauge    ConnGauge
}

// NewHub creates an empty hub. The metrics hooks may be nil.
func NewHub(logger zerolog.Logger, failures FailureCounter, gauge ConnGauge) *Hub {
	return &Hub{
		clients:  make(map[*Client]struct{}),
		logger:   logger,
		failures: failures,
		gauge:    gauge,
	}
}

// Register adds a client to the registry.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		return
	}
	h.clients[client] = struct{}{}
	if h.gauge != nil {
		h.gauge.Inc()
	}
}

// Unregister removes a client from the registry and closes its connection.
// Unregistering a client that was already removed is a no-op.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.remove(client)
}

// remove must be called with h.mu held.
func (h *Hub) remove(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	client.Close()
	if h.gauge != nil {
		h.gauge.Dec()
	}
}

// ClientCount returns the number of registered subscribers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast serializes the payload and attempts delivery to every subscriber
// registered at call time. A send failure on one connection never aborts
// delivery to the rest; all failed connections are removed from the registry
// in one pass after the sweep. Failures are never surfaced to the publisher.
func (h *Hub) Broadcast(payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error().Err(err).Msg("ws: failed to marshal broadcast payload")
		return
	}

	h.mu.RLock()
	snapshot := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		snapshot = append(snapshot, client)
	}
	h.mu.RUnlock()

	var failed []*Client
	for _, client := range snapshot {
		if err := client.Send(data); err != nil {
			if h.failures != nil {
				h.failures.Inc()
			}
			h.logger.Debug().
				Err(err).
				Str("client_id", client.ID).
				Msg("ws: send failed, dropping subscriber")
			failed = append(failed, client)
		}
	}

	if len(failed) == 0 {
		return
	}
	h.mu.Lock()
	for _, client := range failed {
		h.remove(client)
	}
	h.mu.Unlock()
}
