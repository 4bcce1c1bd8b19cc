package reactive

import (
	"sync"
	"sync/atomic"
)

// Memo is a cached computation that automatically tracks its dependencies.
//
// Memos are lazy: they compute on the first Get() and recompute only when
// a source actually changed. A write marks the memo stale immediately, so a
// read later in the same update pass already sees the fresh value.
// Dependents are invalidated only when the recomputed value differs from
// the previous one (per the memo's equality function).
type Memo[T any] struct {
	base signalBase

	// compute is the function that computes the memo's value.
	compute func() T

	// value is the cached computed value.
	value   T
	valueMu sync.RWMutex

	// state is the cache state within the current pass.
	state nodeState

	// initialized is false until the first computation.
	initialized bool

	// sources are the signals/memos read during the last computation.
	sources   []source
	sourcesMu sync.Mutex

	// equal is the equality function for determining value changes.
	equal func(T, T) bool

	// computing prevents infinite recursion in circular dependencies.
	computing atomic.Bool

	disposed atomic.Bool
}

// NewMemo creates a new memo with the given computation function.
// The computation runs lazily on first Get(). If created inside an owner
// scope, the memo is disposed with that scope.
func NewMemo[T any](compute func() T) *Memo[T] {
	m := newMemo(compute)
	if owner := getCurrentOwner(); owner != nil {
		owner.OnCleanup(m.Dispose)
	}
	return m
}

// newMemo creates a memo that no owner disposes.
func newMemo[T any](compute func() T) *Memo[T] {
	return &Memo[T]{
		base: signalBase{
			id: nextID(),
		},
		compute: compute,
		state:   stateDirty,
	}
}

// Get returns the memo's value, recomputing if necessary.
// Creates a dependency on this memo for the current listener.
func (m *Memo[T]) Get() T {
	// Refresh before subscribing so the reader is not invalidated by the
	// value it is about to observe.
	value := m.Peek()
	m.base.track(m)
	return value
}

// Peek returns the memo's value without subscribing.
// Still recomputes if the value is stale.
func (m *Memo[T]) Peek() T {
	m.refresh()
	m.valueMu.RLock()
	value := m.value
	m.valueMu.RUnlock()
	return value
}

// MarkDirty invalidates the memo. Implements Listener.
func (m *Memo[T]) MarkDirty() {
	m.markStale(stateDirty)
}

// ID returns the unique identifier for this memo.
func (m *Memo[T]) ID() uint64 {
	return m.base.id
}

// WithEquals configures the memo with a custom equality function.
func (m *Memo[T]) WithEquals(fn func(T, T) bool) *Memo[T] {
	m.equal = fn
	return m
}

// Dispose unsubscribes the memo from all sources. A disposed memo keeps
// its last value and never recomputes.
func (m *Memo[T]) Dispose() {
	if m.disposed.Swap(true) {
		return
	}
	m.dropSources()
}

func (m *Memo[T]) signal() *signalBase { return &m.base }

// markStale records that a source may have changed and forwards a
// check mark to dependents.
func (m *Memo[T]) markStale(state nodeState) {
	if m.disposed.Load() || m.state >= state {
		return
	}
	m.state = state
	for _, sub := range m.base.snapshot() {
		if o, ok := sub.(observer); ok {
			o.markStale(stateCheck)
		} else {
			sub.MarkDirty()
		}
	}
}

func (m *Memo[T]) setDirty() {
	if !m.disposed.Load() {
		m.state = stateDirty
	}
}

// addSource adds a source dependency for the running computation.
func (m *Memo[T]) addSource(src source) {
	m.sourcesMu.Lock()
	defer m.sourcesMu.Unlock()

	for _, s := range m.sources {
		if s.signal() == src.signal() {
			return
		}
	}
	m.sources = append(m.sources, src)
}

// refresh recomputes the memo if any source changed since the last run.
func (m *Memo[T]) refresh() {
	if m.disposed.Load() && m.initialized {
		return
	}
	if m.state == stateCheck {
		m.sourcesMu.Lock()
		sources := append([]source(nil), m.sources...)
		m.sourcesMu.Unlock()

		for _, src := range sources {
			src.refresh()
			if m.state == stateDirty {
				break
			}
		}
	}
	if m.state == stateDirty {
		m.recompute()
	}
	m.state = stateClean
}

// recompute runs the computation and updates the cached value.
func (m *Memo[T]) recompute() {
	// Prevent infinite recursion in circular dependencies
	if m.computing.Swap(true) {
		return
	}
	defer m.computing.Store(false)

	m.dropSources()

	old := setCurrentListener(m)
	newValue := m.compute()
	setCurrentListener(old)

	m.valueMu.Lock()
	changed := !m.initialized || !m.equals(m.value, newValue)
	m.value = newValue
	m.initialized = true
	m.valueMu.Unlock()

	if !changed {
		return
	}
	for _, sub := range m.base.snapshot() {
		if o, ok := sub.(observer); ok {
			o.setDirty()
		} else {
			sub.MarkDirty()
		}
	}
}

// dropSources unsubscribes from every tracked source.
func (m *Memo[T]) dropSources() {
	m.sourcesMu.Lock()
	for _, src := range m.sources {
		src.signal().unsubscribe(m)
	}
	m.sources = m.sources[:0]
	m.sourcesMu.Unlock()
}

// equals checks if two values are equal.
func (m *Memo[T]) equals(a, b T) bool {
	if m.equal != nil {
		return m.equal(a, b)
	}
	return defaultEquals(a, b)
}

// Ensure Memo takes part in the push-pull protocol.
var _ observer = (*Memo[int])(nil)
