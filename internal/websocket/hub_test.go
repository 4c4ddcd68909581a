package websocket

import (
	"encoding/json"
	"testing"
)

func newTestClient() *Client {
	return &Client{send: make(chan []byte, 8)}
}

func TestHubBroadcastReachesOnlyOwnersClients(t *testing.T) {
	hub := NewHub()
	mine := newTestClient()
	other := newTestClient()
	hub.Register("u", mine)
	hub.Register("v", other)

	hub.BroadcastBalance("u", BalanceUpdate{UserID: "u", Gold: "100.00", Silver: "0.00", Seq: 1})

	select {
	case payload := <-mine.send:
		var update BalanceUpdate
		if err := json.Unmarshal(payload, &update); err != nil {
			t.Fatalf("bad payload: %v", err)
		}
		if update.Gold != "100.00" || update.Seq != 1 {
			t.Fatalf("unexpected update: %+v", update)
		}
	default:
		t.Fatal("registered client received nothing")
	}
	select {
	case <-other.send:
		t.Fatal("other user's client must not receive the update")
	default:
	}
}

func TestHubUnregisterStopsDelivery(t *testing.T) {
	hub := NewHub()
	client := newTestClient()
	hub.Register("u", client)
	hub.Unregister("u", client)

	hub.BroadcastBalance("u", BalanceUpdate{UserID: "u", Seq: 1})
	select {
	case <-client.send:
		t.Fatal("unregistered client must not receive updates")
	default:
	}
}

func TestHubSkipsSlowClients(t *testing.T) {
	hub := NewHub()
	slow := &Client{send: make(chan []byte)} // unbuffered, nobody reading
	hub.Register("u", slow)

	// Must return immediately instead of blocking on the full channel.
	hub.BroadcastBalance("u", BalanceUpdate{UserID: "u", Seq: 1})
}
