// Package hub fans control telemetry out to websocket clients and collects
// their runtime commands.
package hub

import (
	"context"
	"log/slog"
	"sync"
)

// Hub manages WebSocket clients and broadcasts messages. A client's send
// channel is only written or closed with mu held, so sends never race the
// close on disconnect.
type Hub struct {
	clients map[*Client]bool
	closed  bool
	mu      sync.RWMutex
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]bool),
		logger:  logger.With("component", "hub"),
	}
}

// Register adds a new client to the hub. It reports false once the hub has
// shut down.
func (h *Hub) Register(c *Client) bool {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return false
	}
	h.clients[c] = true
	n := len(h.clients)
	h.mu.Unlock()
	h.logger.Info("Client connected", "total", n)
	return true
}

// Unregister removes a client from the hub. Repeated calls are no-ops.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	close(c.send)
	n := len(h.clients)
	h.mu.Unlock()
	h.logger.Info("Client disconnected", "total", n)
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast queues msg on every client. A client whose buffer is full is
// disconnected.
func (h *Hub) Broadcast(msg []byte) {
	h.mu.RLock()
	var slow []*Client
	for client := range h.clients {
		select {
		case client.send <- msg:
		default:
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.Warn("Client too slow, disconnecting")
		h.Unregister(c)
	}
}

// SendTo queues msg on a single client if it is still registered.
func (h *Hub) SendTo(c *Client, msg []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.clients[c] {
		return
	}
	select {
	case c.send <- msg:
	default:
	}
}

// Run blocks until ctx ends, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for client := range h.clients {
		delete(h.clients, client)
		close(client.send)
	}
}
