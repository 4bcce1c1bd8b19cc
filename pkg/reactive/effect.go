package reactive

import (
	"sync"
	"sync/atomic"
)

// Effect represents a reactive side effect that runs when its dependencies change.
//
// Effects run immediately when created, and re-run whenever any signal or memo
// they read during execution changes. Re-runs are deferred to the end of the
// current update pass and skipped when every changed memo source recomputed
// to an equal value. They can return a Cleanup function that will be called
// before the effect re-runs or when the effect is disposed.
type Effect struct {
	id uint64

	// fn is the effect function to run.
	fn func() Cleanup

	// cleanup is the cleanup function from the last run.
	cleanup Cleanup

	// sources are the signals/memos this effect depends on.
	sources   []source
	sourcesMu sync.Mutex

	// owner is the Owner that owns this effect.
	owner *Owner

	// scope owns memos/effects created by the last run.
	scope *Owner

	// state is the cache state within the current pass.
	state nodeState

	// queued is true while the effect sits in the pending queue.
	queued bool

	// disposed indicates the effect has been disposed.
	disposed atomic.Bool

	// name labels the effect in debug output.
	name string
}

// MarkDirty marks the effect as needing to re-run.
// Implements the Listener interface.
func (e *Effect) MarkDirty() {
	Batch(func() {
		e.markStale(stateDirty)
	})
}

// ID returns the unique identifier for this effect.
func (e *Effect) ID() uint64 {
	return e.id
}

// Name returns the effect's debug name.
func (e *Effect) Name() string {
	return e.name
}

func (e *Effect) markStale(state nodeState) {
	if e.disposed.Load() || e.state >= state {
		return
	}
	e.state = state
	e.enqueue()
}

func (e *Effect) setDirty() {
	if e.disposed.Load() {
		return
	}
	e.state = stateDirty
	e.enqueue()
}

func (e *Effect) enqueue() {
	if e.queued {
		return
	}
	e.queued = true
	queueEffect(e)
}

// addSource adds a source dependency.
func (e *Effect) addSource(src source) {
	e.sourcesMu.Lock()
	defer e.sourcesMu.Unlock()

	for _, s := range e.sources {
		if s.signal() == src.signal() {
			return
		}
	}
	e.sources = append(e.sources, src)
}

// update re-runs the effect if one of its sources really changed.
func (e *Effect) update() {
	e.queued = false
	if e.disposed.Load() {
		return
	}
	if e.state == stateCheck {
		e.sourcesMu.Lock()
		sources := append([]source(nil), e.sources...)
		e.sourcesMu.Unlock()

		for _, src := range sources {
			src.refresh()
			if e.state == stateDirty {
				break
			}
		}
	}
	if e.state == stateDirty {
		e.run()
		return
	}
	e.state = stateClean
}

// run executes the effect function.
// This is called during initial creation and when dependencies change.
func (e *Effect) run() {
	if e.disposed.Load() {
		return
	}

	e.state = stateClean

	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}
	if e.scope != nil {
		e.scope.Dispose()
	}
	e.scope = NewOwner(e.owner)

	e.dropSources()

	oldListener := setCurrentListener(e)
	oldOwner := setCurrentOwner(e.scope)

	e.cleanup = e.fn()

	setCurrentOwner(oldOwner)
	setCurrentListener(oldListener)
}

func (e *Effect) dropSources() {
	e.sourcesMu.Lock()
	for _, src := range e.sources {
		src.signal().unsubscribe(e)
	}
	e.sources = e.sources[:0]
	e.sourcesMu.Unlock()
}

// Dispose cleans up the effect and unsubscribes from all sources.
func (e *Effect) Dispose() {
	if e.disposed.Swap(true) {
		return
	}

	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}
	if e.scope != nil {
		e.scope.Dispose()
		e.scope = nil
	}
	e.dropSources()
}

// EffectOption is an option for configuring an Effect.
type EffectOption func(e *Effect)

// EffectName labels the effect for debugging.
func EffectName(name string) EffectOption {
	return func(e *Effect) {
		e.name = name
	}
}

// CreateEffect creates and runs a new effect within the current owner context.
// The effect function runs immediately and re-runs when any signal or memo
// it reads changes. If the function returns a Cleanup, it will be called
// before the effect re-runs or when the effect is disposed.
//
// Example:
//
//	CreateEffect(func() Cleanup {
//	    fmt.Println("Path is:", router.Location().Path)
//	    return nil
//	})
func CreateEffect(fn func() Cleanup, opts ...EffectOption) *Effect {
	owner := getCurrentOwner()

	e := &Effect{
		id:    nextID(),
		fn:    fn,
		owner: owner,
	}

	for _, opt := range opts {
		opt(e)
	}

	if owner != nil {
		owner.registerEffect(e)
	}

	// Writes made by the first run join a pass instead of re-entering it.
	Batch(e.run)

	return e
}

// OnCleanup registers a function to run when the current owner is disposed.
// Outside any owner the function is never called.
func OnCleanup(fn func()) {
	if owner := getCurrentOwner(); owner != nil {
		owner.OnCleanup(fn)
	}
}

var _ observer = (*Effect)(nil)
