package broadcast

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/net/websocket"
)

func dialTestWS(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, err := websocket.Dial(wsURL, "", server.URL)
	if err != nil {
		t.Fatalf("dial websocket: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestWebsocketDeliversEvents(t *testing.T) {
	hub := NewHub()
	server := httptest.NewServer(Handler(hub))
	t.Cleanup(server.Close)

	conn := dialTestWS(t, server)

	// Wait for the subscription to register before publishing.
	deadline := time.Now().Add(2 * time.Second)
	for hub.SubscriberCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscription never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	hub.Publish(CombatStateChanged, Scope{EncounterID: "e1"})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event Event
	if err := json.NewDecoder(conn).Decode(&event); err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	if event.Name != CombatStateChanged || event.Scope.EncounterID != "e1" {
		t.Fatalf("unexpected frame: %+v", event)
	}
}

func TestWebsocketDisconnectUnsubscribes(t *testing.T) {
	hub := NewHub()
	server := httptest.NewServer(Handler(hub))
	t.Cleanup(server.Close)

	conn := dialTestWS(t, server)

	deadline := time.Now().Add(2 * time.Second)
	for hub.SubscriberCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscription never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	_ = conn.Close()

	deadline = time.Now().Add(2 * time.Second)
	for hub.SubscriberCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscription never released after disconnect")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
