package reactive

import "log/slog"

// DebugMode enables debug logging of update passes.
// This should be set at startup and not changed during runtime.
var DebugMode bool

// Batch groups multiple signal updates into a single update pass.
//
// Writes inside the batch are visible immediately to memo reads. Effects
// whose sources changed are queued and run once, after the outermost batch
// returns. Settle callbacks registered with OnSettled run after that, when
// no effect is pending any more; their writes start another round of the
// same pass. Batch returns once the pass reached its fixpoint.
//
// Batches can be nested. Only the outermost batch flushes.
//
// Example:
//
//	Batch(func() {
//	    router.Push("/a")
//	    router.Push("/b")
//	})
//	// one commit with "/b"
func Batch(fn func()) {
	incrementBatchDepth()

	defer func() {
		if decrementBatchDepth() {
			runUpdates()
		}
	}()

	fn()
}

// runUpdates drives the current pass to its fixpoint: pending effects
// first, then settle callbacks, until both queues are empty.
func runUpdates() {
	ctx := getTrackingContext()
	if ctx.flushing {
		return
	}
	ctx.flushing = true
	defer func() { ctx.flushing = false }()

	rounds := 0
	for {
		if effects := drainPendingEffects(); len(effects) > 0 {
			rounds++
			inRound(ctx, func() {
				for _, e := range effects {
					e.update()
				}
			})
			continue
		}

		if cbs := drainSettleCallbacks(); len(cbs) > 0 {
			rounds++
			inRound(ctx, func() {
				for _, cb := range cbs {
					cb()
				}
			})
			continue
		}

		if DebugMode {
			slog.Debug("reactive: pass settled", "rounds", rounds)
		}
		return
	}
}

// inRound runs fn with writes queued into the running pass.
func inRound(ctx *TrackingContext, fn func()) {
	ctx.batchDepth++
	defer func() { ctx.batchDepth-- }()
	fn()
}

// OnSettled registers fn to run at the end of the current update pass,
// once every pending effect has run. Outside a pass fn runs immediately.
func OnSettled(fn func()) {
	ctx := getTrackingContext()
	if ctx.batchDepth == 0 && !ctx.flushing {
		fn()
		return
	}
	ctx.settleCallbacks = append(ctx.settleCallbacks, fn)
}

// InPass reports whether the calling goroutine is inside an update pass.
func InPass() bool {
	ctx := getTrackingContext()
	return ctx.batchDepth > 0 || ctx.flushing
}

// Untracked runs a function without tracking signal reads as dependencies.
//
// Example:
//
//	Untracked(func() {
//	    // Reading location here won't subscribe the running effect
//	    fmt.Println(router.Location().Path)
//	})
func Untracked(fn func()) {
	old := setCurrentListener(nil)
	defer setCurrentListener(old)
	fn()
}

// UntrackedGet reads a signal's value without creating a dependency.
func UntrackedGet[T any](s *Signal[T]) T {
	return s.Peek()
}
