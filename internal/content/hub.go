package content

import (
	"sync"

	"portfolio/internal/repository"
)

// Event announces that the state of one collection changed.
// Version increases with every event emitted by the Sync.
type Event struct {
	Collection repository.Collection `json:"collection"`
	Version    uint64                `json:"version"`
}

// Listener receives state change events. Send must not block; a listener
// whose Send returns an error is dropped.
type Listener interface {
	Send(Event) error
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(Event) error

func (f ListenerFunc) Send(e Event) error { return f(e) }

// hub keeps registered listeners and fans events out to them.
type hub struct {
	mu        sync.RWMutex
	listeners map[int64]Listener
	nextID    int64
}

func newHub() *hub {
	return &hub{listeners: make(map[int64]Listener)}
}

func (h *hub) register(l Listener) int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	h.listeners[h.nextID] = l
	return h.nextID
}

func (h *hub) unregister(id int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.listeners, id)
}

func (h *hub) len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners)
}

// broadcast delivers e to every listener and drops those that fail.
func (h *hub) broadcast(e Event) {
	h.mu.RLock()
	targets := make(map[int64]Listener, len(h.listeners))
	for id, l := range h.listeners {
		targets[id] = l
	}
	h.mu.RUnlock()

	var failed []int64
	for id, l := range targets {
		if err := l.Send(e); err != nil {
			failed = append(failed, id)
		}
	}
	for _, id := range failed {
		h.unregister(id)
	}
}
