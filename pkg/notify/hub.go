package notify

import (
	"sync"
)

// Client is one connected socket. Send is drained by the transport layer;
// the hub never blocks on a slow client, it drops the message instead. A
// dropped client still catches up through the message-history read path.
type Client struct {
	ID     string
	RoomID string
	Send   chan []byte
}

// Hub is the in-process registry of live chat sockets, keyed by room.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]*Client)}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ID] = client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client.ID]; !ok {
		return
	}
	delete(h.clients, client.ID)
	close(client.Send)
}

// Broadcast fans a payload out to every client in the room, non-blocking.
func (h *Hub) Broadcast(roomID string, payload []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for _, client := range h.clients {
		if client.RoomID != roomID {
			continue
		}
		select {
		case client.Send <- payload:
			delivered++
		default:
		}
	}
	return delivered
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
