package reactive

import (
	"runtime"
	"sync"
)

// TrackingContext holds the reactive state for a goroutine.
// Each goroutine has its own tracking context; an update pass never
// crosses goroutines.
type TrackingContext struct {
	// currentOwner is the Owner that will own newly created memos/effects.
	currentOwner *Owner

	// currentListener is what's currently tracking dependencies.
	// nil means no tracking (reads don't create subscriptions).
	currentListener Listener

	// batchDepth tracks nested Batch() calls.
	// When > 0, effects are queued instead of running immediately.
	batchDepth int

	// flushing is true while runUpdates drives the pass to its fixpoint.
	flushing bool

	// pendingEffects are effects whose sources went stale in this pass.
	pendingEffects []*Effect

	// settleCallbacks run once no effect is pending.
	settleCallbacks []func()
}

// trackingContexts stores per-goroutine tracking contexts.
var trackingContexts sync.Map

// getGoroutineID returns a unique identifier for the current goroutine.
// This uses the runtime stack to extract the goroutine ID.
func getGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	// The stack starts with "goroutine <id> "
	var id uint64
	for i := 10; i < n; i++ { // Skip "goroutine "
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

// getTrackingContext returns the tracking context for the current goroutine.
// If no context exists, creates a new one.
func getTrackingContext() *TrackingContext {
	gid := getGoroutineID()

	if ctx, ok := trackingContexts.Load(gid); ok {
		return ctx.(*TrackingContext)
	}

	ctx := &TrackingContext{}
	trackingContexts.Store(gid, ctx)
	return ctx
}

// getCurrentListener returns the current listener being tracked.
// Returns nil if no tracking is active.
func getCurrentListener() Listener {
	return getTrackingContext().currentListener
}

// setCurrentListener sets the current listener for dependency tracking.
// Returns the previous listener so it can be restored.
func setCurrentListener(l Listener) Listener {
	ctx := getTrackingContext()
	old := ctx.currentListener
	ctx.currentListener = l
	return old
}

// getCurrentOwner returns the current owner for the goroutine.
func getCurrentOwner() *Owner {
	return getTrackingContext().currentOwner
}

// setCurrentOwner sets the current owner for memo/effect creation.
// Returns the previous owner so it can be restored.
func setCurrentOwner(o *Owner) *Owner {
	ctx := getTrackingContext()
	old := ctx.currentOwner
	ctx.currentOwner = o
	return old
}

// getBatchDepth returns the current batch nesting depth.
func getBatchDepth() int {
	return getTrackingContext().batchDepth
}

// incrementBatchDepth increases the batch depth by 1.
func incrementBatchDepth() {
	getTrackingContext().batchDepth++
}

// decrementBatchDepth decreases the batch depth by 1.
// Returns true if batch depth reached 0 (batch complete).
func decrementBatchDepth() bool {
	ctx := getTrackingContext()
	ctx.batchDepth--
	return ctx.batchDepth == 0
}

// queueEffect adds an effect to the pending queue of the current pass.
func queueEffect(e *Effect) {
	ctx := getTrackingContext()
	ctx.pendingEffects = append(ctx.pendingEffects, e)
}

// drainPendingEffects returns and clears the pending effects queue.
func drainPendingEffects() []*Effect {
	ctx := getTrackingContext()
	effects := ctx.pendingEffects
	ctx.pendingEffects = nil
	return effects
}

// drainSettleCallbacks returns and clears the settle callbacks.
func drainSettleCallbacks() []func() {
	ctx := getTrackingContext()
	cbs := ctx.settleCallbacks
	ctx.settleCallbacks = nil
	return cbs
}

// WithOwner runs a function with the specified owner as the current owner.
// Use it when a goroutine or callback needs to create memos/effects that
// belong to a specific scope.
//
// Example:
//
//	WithOwner(routeOwner, func() {
//	    // Effects created here are disposed with routeOwner
//	    CreateEffect(func() Cleanup { ... })
//	})
func WithOwner(owner *Owner, fn func()) {
	old := setCurrentOwner(owner)
	defer setCurrentOwner(old)
	fn()
}

// WithListener runs a function with the specified listener for tracking.
func WithListener(l Listener, fn func()) {
	old := setCurrentListener(l)
	defer setCurrentListener(old)
	fn()
}

// CurrentOwner returns the owner of the running scope, or nil.
func CurrentOwner() *Owner {
	return getCurrentOwner()
}

// Release drops the calling goroutine's tracking context.
// Long-lived goroutines that drove update passes call it before exiting.
func Release() {
	trackingContexts.Delete(getGoroutineID())
}
