package notification

import (
	"sync"

	"go.uber.org/zap"
)

const clientBuffer = 16

// Client is a connected push receiver. *websocket.Conn satisfies it.
type Client interface {
	WriteJSON(v interface{}) error
}

// Hub fans events out to every connected client. Each client has its own
// writer goroutine; a client that fails a write or falls behind by more than
// clientBuffer events is dropped.
type Hub struct {
	mu      sync.Mutex
	clients map[Client]chan Event
	logger  *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[Client]chan Event),
		logger:  logger.Named("ws"),
	}
}

func (h *Hub) Register(c Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		return
	}
	send := make(chan Event, clientBuffer)
	h.clients[c] = send
	go h.writePump(c, send)
}

func (h *Hub) Unregister(c Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.drop(c)
}

func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast never blocks on a client.
func (h *Hub) Broadcast(e Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c, send := range h.clients {
		select {
		case send <- e:
		default:
			h.logger.Warn("Dropping slow websocket client")
			h.drop(c)
		}
	}
}

// writePump is the only writer of c, so a connection never sees concurrent writes.
func (h *Hub) writePump(c Client, send chan Event) {
	for e := range send {
		if err := c.WriteJSON(e); err != nil {
			h.logger.Debug("Dropping websocket client", zap.Error(err))
			h.Unregister(c)
			return
		}
	}
}

// drop must be called with mu held.
func (h *Hub) drop(c Client) {
	send, ok := h.clients[c]
	if !ok {
		return
	}
	delete(h.clients, c)
	close(send)
}
