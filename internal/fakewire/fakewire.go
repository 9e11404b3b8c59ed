// Package fakewire provides an in-memory stand-in for the transport
// layer so the collective algorithms in the parent package can be
// exercised without a real ZeroMQ broker. It is built from buffered Go
// channels, one per rank, used as a rank-to-rank virtual wire.
package fakewire

// Hub connects a fixed number of ranks. Each rank gets its own buffered
// inbox; SendTo(dst, ...) from any rank enqueues directly onto dst's
// inbox, and RecvAny blocks until that rank's inbox has a message.
type Hub struct {
	inboxes []chan []byte
}

// NewHub creates a Hub for n ranks.
func NewHub(n int) *Hub {
	inboxes := make([]chan []byte, n)
	for i := range inboxes {
		inboxes[i] = make(chan []byte, 1024)
	}
	return &Hub{inboxes: inboxes}
}

// Rank returns the wire endpoint for rank r.
func (h *Hub) Rank(r int) *Wire {
	return &Wire{hub: h, self: r}
}

// Wire is one rank's view of a Hub; it satisfies the collectives
// package's unexported wireIO interface structurally (SendTo/RecvAny).
type Wire struct {
	hub  *Hub
	self int
}

// SendTo enqueues payload onto dst's inbox. The payload is copied so the
// caller may reuse its buffer immediately.
func (w *Wire) SendTo(dst int, payload []byte) error {
	buf := make([]byte, len(payload))
	copy(buf, payload)
	w.hub.inboxes[dst] <- buf
	return nil
}

// RecvAny blocks until a message is enqueued on this rank's inbox.
func (w *Wire) RecvAny() ([]byte, error) {
	return <-w.hub.inboxes[w.self], nil
}
