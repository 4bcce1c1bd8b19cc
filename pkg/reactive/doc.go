// Package reactive provides the push-pull reactive core the router is
// built on.
//
// Dependencies are tracked automatically at runtime. Reading a signal or
// memo while a memo computes or an effect runs subscribes that memo or
// effect to the value.
//
// # Core Types
//
// Signal[T] is a reactive value container:
//
//	path := NewSignal("/")
//	value := path.Get() // Read (subscribes current listener)
//	path.Set("/users")  // Write (marks dependents stale)
//
// Memo[T] is a lazy, cached derived computation. Dependents are only
// invalidated when the recomputed value differs from the previous one:
//
//	segments := NewMemo(func() int { return strings.Count(path.Get(), "/") })
//
// Effect runs side effects when dependencies change:
//
//	CreateEffect(func() Cleanup {
//	    fmt.Println("path is:", path.Get())
//	    return nil
//	})
//
// Map is a string map with per-key subscriptions, used for query strings
// and route params.
//
// # Update Passes
//
// Every write happens inside an update pass. Batch opens one explicitly;
// a write outside a batch opens its own. Memo reads inside a pass always
// see the latest writes. Effects run once at the end of the outermost
// batch, and callbacks registered with OnSettled run after every pending
// effect has run. Writes made by effects or settle callbacks extend the
// same pass, which returns only at its fixpoint.
//
// Transition exposes a pending flag that is true from Start until the
// pass it started settles.
//
// # Ownership
//
// Owners form a tree. Memos, effects and cleanups created while an Owner
// is current are disposed with it, children before parents. Context
// values provided on an Owner are visible to all of its descendants.
//
// # Goroutines
//
// The tracking context is per-goroutine and an update pass never crosses
// goroutines. Code that drives the same graph from several goroutines
// must serialize those calls.
package reactive
