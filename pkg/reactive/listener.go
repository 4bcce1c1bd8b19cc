package reactive

// Listener is anything that can be notified when a dependency changes.
// Memos and effects implement it; tests and adapters may implement it
// directly to observe a signal.
type Listener interface {
	// MarkDirty notifies the listener that one of its dependencies has changed.
	MarkDirty()

	// ID returns a unique identifier for this listener.
	// Used for deduplication when subscribing.
	ID() uint64
}

// Cleanup is a function returned by effects to clean up resources.
// It is called before the effect re-runs and when the effect is disposed.
type Cleanup func()

// nodeState is the cache state of a memo or effect within an update pass.
type nodeState uint8

const (
	// stateClean means the cached value is current.
	stateClean nodeState = iota

	// stateCheck means an indirect source may have changed; sources must
	// be refreshed before deciding whether to recompute.
	stateCheck

	// stateDirty means a direct source changed; recompute is required.
	stateDirty
)

// observer is a Listener that takes part in the push-pull protocol.
// Signals push stale marks to observers; observers pull fresh values
// from their sources when read.
type observer interface {
	Listener
	markStale(state nodeState)
	setDirty()
	addSource(src source)
}

// source is anything an observer can depend on.
type source interface {
	signal() *signalBase

	// refresh brings the source's value up to date. Signals are always
	// current; memos recompute if they are stale.
	refresh()
}
