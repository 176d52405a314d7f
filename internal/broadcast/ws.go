package broadcast

import (
	"encoding/json"
	"io"
	"net/http"

	"golang.org/x/net/websocket"
)

// Handler serves the notification endpoint: each websocket connection gets
// its own hub subscription and receives events as JSON frames until either
// side closes.
func Handler(hub *Hub) http.Handler {
	wsHandler := websocket.Handler(func(conn *websocket.Conn) {
		serveConn(conn, hub)
	})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		wsHandler.ServeHTTP(w, r)
	})
}

func serveConn(conn *websocket.Conn, hub *Hub) {
	defer func() {
		_ = conn.Close()
	}()

	sub := hub.Subscribe()
	defer hub.Unsubscribe(sub)

	// Clients never send frames; the read loop only notices the close.
	closed := make(chan struct{})
	go func() {
		_, _ = io.Copy(io.Discard, conn)
		close(closed)
	}()

	encoder := json.NewEncoder(conn)
	for {
		select {
		case event, ok := <-sub.Events():
			if !ok {
				return
			}
			if err := encoder.Encode(event); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}
