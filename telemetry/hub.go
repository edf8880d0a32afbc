package telemetry

import "sync"

// bufferSlots is the bounded buffer size per subscriber (spec.md §4.7).
const bufferSlots = 16

// Hub is a single-producer/multi-consumer broadcast point. The
// EvolutionLoop is the only producer; each WebSocket session is a
// consumer. Grounded on sockets.rs's use of
// tokio::sync::broadcast::Sender, reimplemented as one buffered Go
// channel per subscriber since Go has no built-in broadcast channel.
type Hub struct {
	mu          sync.Mutex
	subscribers map[chan Snapshot]struct{}

	// Signer, if set, makes every session sign its outgoing snapshots
	// with a companion X-Snapshot-Signature frame. Nil by default.
	Signer *Signer
}

// NewHub returns an empty Hub.
func NewHub() *Hub {
	return &Hub{subscribers: map[chan Snapshot]struct{}{}}
}

// Subscribe registers a new consumer and returns its channel plus an
// unsubscribe function. The channel is closed once unsubscribed.
func (h *Hub) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, bufferSlots)
	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()

	unsubscribe := func() {
		h.mu.Lock()
		if _, ok := h.subscribers[ch]; ok {
			delete(h.subscribers, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, unsubscribe
}

// SubscriberCount reports how many sessions are currently connected,
// used by the loop to decide whether a broadcast is worth building
// (spec.md §4.6 step 8: "if any telemetry subscribers are connected").
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// Broadcast sends a snapshot to every subscriber. A subscriber whose
// buffer is already full has fallen behind the buffer window; per
// spec.md §4.7 it is dropped outright (unsubscribed and its channel
// closed) rather than left to block every other consumer or silently
// skip frames forever.
func (h *Hub) Broadcast(snap Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subscribers {
		select {
		case ch <- snap:
		default:
			delete(h.subscribers, ch)
			close(ch)
		}
	}
}
