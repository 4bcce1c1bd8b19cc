package reactive

import (
	"slices"
	"sort"
	"sync"
)

// mapEntry is the per-key view of a Map.
type mapEntry struct {
	value string
	ok    bool
}

// Map is a read-only string map with per-key reactivity.
//
// Reading a key subscribes to that key only: dependents re-run when the
// key's value (or presence) changes, not when sibling keys change and not
// when the whole map is replaced by a structurally equal one.
//
// Map never hands out its internal map; Snapshot returns a copy.
type Map struct {
	src  *Memo[map[string]string]
	keys *Memo[[]string]

	mu      sync.Mutex
	entries map[string]*Memo[mapEntry]
}

// DeriveMap creates a Map computed from compute. The computation is
// tracked like a memo. If created inside an owner scope, the map is
// disposed with that scope.
//
// Example:
//
//	query := reactive.DeriveMap(func() map[string]string {
//	    return routepath.ParseQuery(location.Get().QueryString)
//	})
//	q := query.Value("q") // re-runs only when "q" changes
func DeriveMap(compute func() map[string]string) *Map {
	m := newMap(compute)
	if owner := getCurrentOwner(); owner != nil {
		owner.OnCleanup(m.Dispose)
	}
	return m
}

func newMap(compute func() map[string]string) *Map {
	m := &Map{
		src: newMemo(func() map[string]string {
			next := compute()
			if next == nil {
				next = map[string]string{}
			}
			return next
		}),
		entries: make(map[string]*Memo[mapEntry]),
	}
	m.keys = newMemo(func() []string {
		src := m.src.Get()
		keys := make([]string, 0, len(src))
		for k := range src {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return keys
	}).WithEquals(slices.Equal[[]string])
	return m
}

// entry returns the per-key memo for key, creating it on first use.
func (m *Map) entry(key string) *Memo[mapEntry] {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.entries[key]; ok {
		return e
	}
	e := newMemo(func() mapEntry {
		v, ok := m.src.Get()[key]
		return mapEntry{value: v, ok: ok}
	})
	m.entries[key] = e
	return e
}

// Get returns the value for key and whether it is present.
// Subscribes to key only.
func (m *Map) Get(key string) (string, bool) {
	e := m.entry(key).Get()
	return e.value, e.ok
}

// Value returns the value for key, or "" when absent.
func (m *Map) Value(key string) string {
	v, _ := m.Get(key)
	return v
}

// Has reports whether key is present. Subscribes to key only.
func (m *Map) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Keys returns the sorted key set. Subscribes to the key set, not values.
func (m *Map) Keys() []string {
	return slices.Clone(m.keys.Get())
}

// Len returns the number of keys. Subscribes to the key set.
func (m *Map) Len() int {
	return len(m.keys.Get())
}

// Snapshot returns a copy of the whole map. Subscribes to every change.
func (m *Map) Snapshot() map[string]string {
	src := m.src.Get()
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// Peek returns a copy of the whole map without subscribing.
func (m *Map) Peek() map[string]string {
	src := m.src.Peek()
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// Dispose releases the map's memos.
func (m *Map) Dispose() {
	m.mu.Lock()
	entries := m.entries
	m.entries = make(map[string]*Memo[mapEntry])
	m.mu.Unlock()

	for _, e := range entries {
		e.Dispose()
	}
	m.keys.Dispose()
	m.src.Dispose()
}

// MapSignal is a writable Map.
type MapSignal struct {
	*Map
	state *Signal[map[string]string]
}

// NewMapSignal creates a writable map with the given initial contents.
// If initial is nil, creates an empty map.
func NewMapSignal(initial map[string]string) *MapSignal {
	state := NewSignal(copyMap(initial))
	return &MapSignal{
		Map:   DeriveMap(state.Get),
		state: state,
	}
}

// Set merges patch into the map. Only keys whose value changed notify.
func (s *MapSignal) Set(patch map[string]string) {
	s.state.Update(func(m map[string]string) map[string]string {
		next := copyMap(m)
		for k, v := range patch {
			next[k] = v
		}
		return next
	})
}

// Replace swaps the whole contents. Structurally equal contents notify
// nobody; otherwise only added, removed or changed keys notify.
func (s *MapSignal) Replace(next map[string]string) {
	s.state.Set(copyMap(next))
}

// Delete removes key from the map.
func (s *MapSignal) Delete(key string) {
	s.state.Update(func(m map[string]string) map[string]string {
		if _, ok := m[key]; !ok {
			return m
		}
		next := copyMap(m)
		delete(next, key)
		return next
	})
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
