package telemetry

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	// Telemetry consumers are trusted tooling on a configured address
	// (spec.md §4.7 default 127.0.0.1:8080), not a public API; same-origin
	// checks would only get in the way of local dashboards.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeHTTP upgrades the request to a WebSocket and runs the session
// until the connection closes or a send fails. Grounded on sockets.rs's
// accept_connection: the read side is drained and discarded, the write
// side forwards every broadcast frame as a text message.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("telemetry: upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	snapshots, unsubscribe := h.Subscribe()
	defer unsubscribe()

	go drainReads(conn)

	for snap := range snapshots {
		payload, err := json.Marshal(snap)
		if err != nil {
			log.Printf("telemetry: failed to marshal snapshot: %v", err)
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			// Session-local failure: this session ends, others are
			// unaffected (spec.md §7).
			return
		}

		companion, err := h.Signer.companionFrame(snap)
		if err != nil {
			log.Printf("telemetry: failed to sign snapshot: %v", err)
			continue
		}
		if companion != nil {
			if err := conn.WriteMessage(websocket.TextMessage, companion); err != nil {
				return
			}
		}
	}
}

// drainReads discards every incoming message. Sessions are
// write-only from the loop's perspective; reading is only needed to
// notice the peer closing the connection.
func drainReads(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
