package notify

import (
	"testing"
)

func TestHubBroadcastScopedToRoom(t *testing.T) {
	hub := NewHub()

	alpha := &Client{ID: "c1", RoomID: "room-a", Send: make(chan []byte, 1)}
	beta := &Client{ID: "c2", RoomID: "room-a", Send: make(chan []byte, 1)}
	other := &Client{ID: "c3", RoomID: "room-b", Send: make(chan []byte, 1)}

	hub.Register(alpha)
	hub.Register(beta)
	hub.Register(other)

	payload := []byte(`{"content":"hello"}`)
	if delivered := hub.Broadcast("room-a", payload); delivered != 2 {
		t.Fatalf("expected 2 deliveries, got %d", delivered)
	}

	for _, client := range []*Client{alpha, beta} {
		select {
		case got := <-client.Send:
			if string(got) != string(payload) {
				t.Errorf("client %s got %q", client.ID, got)
			}
		default:
			t.Errorf("client %s received nothing", client.ID)
		}
	}

	select {
	case <-other.Send:
		t.Error("room-b client received a room-a message")
	default:
	}
}

func TestHubBroadcastDropsOnFullBuffer(t *testing.T) {
	hub := NewHub()

	slow := &Client{ID: "slow", RoomID: "room-a", Send: make(chan []byte, 1)}
	hub.Register(slow)

	if delivered := hub.Broadcast("room-a", []byte("first")); delivered != 1 {
		t.Fatalf("expected first message delivered, got %d", delivered)
	}

	// Buffer is now full; the hub must drop instead of blocking.
	done := make(chan int)
	go func() {
		done <- hub.Broadcast("room-a", []byte("second"))
	}()

	if delivered := <-done; delivered != 0 {
		t.Errorf("expected second message dropped, got %d deliveries", delivered)
	}

	if got := <-slow.Send; string(got) != "first" {
		t.Errorf("buffered message clobbered: %q", got)
	}
}

func TestHubUnregisterClosesSend(t *testing.T) {
	hub := NewHub()

	client := &Client{ID: "c1", RoomID: "room-a", Send: make(chan []byte, 1)}
	hub.Register(client)
	if hub.ClientCount() != 1 {
		t.Fatalf("expected 1 client, got %d", hub.ClientCount())
	}

	hub.Unregister(client)
	if hub.ClientCount() != 0 {
		t.Fatalf("expected 0 clients, got %d", hub.ClientCount())
	}

	if _, open := <-client.Send; open {
		t.Error("send channel left open after unregister")
	}

	// Second unregister is a no-op, not a double close.
	hub.Unregister(client)
}
