package integration

import (
	"slices"
	"sync"

	"github.com/vango-dev/vroute/pkg/router"
)

// MemoryHistory is an in-process history stack that behaves like a
// browser history: pushes drop forward entries, Go moves the cursor and
// notifies listeners, writes by the router do not.
type MemoryHistory struct {
	mu        sync.Mutex
	entries   []string
	index     int
	max       int
	listeners map[int]func(string)
	nextID    int
}

// NewMemoryHistory creates a history holding initial. max caps the number
// of entries; the oldest are dropped first. max < 1 means no cap.
func NewMemoryHistory(initial string, max int) *MemoryHistory {
	return &MemoryHistory{
		entries:   []string{initial},
		max:       max,
		listeners: make(map[int]func(string)),
	}
}

// Current returns the entry under the cursor.
func (h *MemoryHistory) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[h.index]
}

// Write applies a router update. Push adds an entry after the cursor and
// drops forward entries; every other mode replaces the current entry.
func (h *MemoryHistory) Write(update router.RouteUpdate) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if update.Mode != router.ModePush {
		h.entries[h.index] = update.Value
		return
	}

	h.entries = append(h.entries[:h.index+1], update.Value)
	h.index++
	if h.max > 0 && len(h.entries) > h.max {
		drop := len(h.entries) - h.max
		h.entries = slices.Delete(h.entries, 0, drop)
		h.index -= drop
	}
}

// Listen registers notify for cursor moves made with Go, Back and
// Forward.
func (h *MemoryHistory) Listen(notify func(value string)) func() {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.listeners[id] = notify
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		delete(h.listeners, id)
		h.mu.Unlock()
	}
}

// Go moves the cursor by delta and notifies listeners. Returns false,
// without moving, when the target is out of range.
func (h *MemoryHistory) Go(delta int) bool {
	h.mu.Lock()
	next := h.index + delta
	if delta == 0 || next < 0 || next >= len(h.entries) {
		h.mu.Unlock()
		return false
	}
	h.index = next
	value := h.entries[next]
	listeners := make([]func(string), 0, len(h.listeners))
	for _, l := range h.listeners {
		listeners = append(listeners, l)
	}
	h.mu.Unlock()

	for _, l := range listeners {
		l(value)
	}
	return true
}

// Back moves one entry back.
func (h *MemoryHistory) Back() bool {
	return h.Go(-1)
}

// Forward moves one entry forward.
func (h *MemoryHistory) Forward() bool {
	return h.Go(1)
}

// Len returns the number of entries.
func (h *MemoryHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Index returns the cursor position.
func (h *MemoryHistory) Index() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.index
}

// Entries returns a copy of the stack.
func (h *MemoryHistory) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.entries)
}

var _ Source = (*MemoryHistory)(nil)
