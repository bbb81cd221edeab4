package realtime

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

func waitForMessage(t *testing.T, ch chan []byte) []byte {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for hub message")
		return nil
	}
}

func TestHubSendToUser(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	userA := uuid.New()
	userB := uuid.New()

	clientA := &Client{ID: "a", UserID: userA, Send: make(chan []byte, 8)}
	clientB := &Client{ID: "b", UserID: userB, Send: make(chan []byte, 8)}
	hub.RegisterClient(clientA)
	hub.RegisterClient(clientB)
	time.Sleep(20 * time.Millisecond)

	hub.SendToUser(userA, map[string]string{"type": "bid_created"})

	msg := waitForMessage(t, clientA.Send)
	var payload map[string]string
	if err := json.Unmarshal(msg, &payload); err != nil {
		t.Fatalf("invalid payload: %v", err)
	}
	if payload["type"] != "bid_created" {
		t.Fatalf("expected bid_created, got %q", payload["type"])
	}

	select {
	case <-clientB.Send:
		t.Fatal("message leaked to another user")
	default:
	}
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	clientA := &Client{ID: "a", UserID: uuid.New(), Send: make(chan []byte, 8)}
	clientB := &Client{ID: "b", UserID: uuid.New(), Send: make(chan []byte, 8)}
	hub.RegisterClient(clientA)
	hub.RegisterClient(clientB)
	time.Sleep(20 * time.Millisecond)

	hub.BroadcastJSON(map[string]string{"type": "gig_created"})

	for _, c := range []*Client{clientA, clientB} {
		msg := waitForMessage(t, c.Send)
		var payload map[string]string
		if err := json.Unmarshal(msg, &payload); err != nil {
			t.Fatalf("invalid payload: %v", err)
		}
		if payload["type"] != "gig_created" {
			t.Fatalf("expected gig_created, got %q", payload["type"])
		}
	}
}

func TestHubUnregisterClosesSend(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{ID: "a", UserID: uuid.New(), Send: make(chan []byte, 8)}
	hub.RegisterClient(client)
	hub.UnregisterClient(client)

	select {
	case _, open := <-client.Send:
		if open {
			t.Fatal("expected send channel to be closed")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for channel close")
	}
}
