package reactive

// Transition tracks whether an update started with Start is still in
// flight. It is purely observational: reads and writes are never blocked.
type Transition struct {
	pending   *Signal[bool]
	scheduled bool
}

// NewTransition creates an idle transition.
func NewTransition() *Transition {
	return &Transition{pending: NewSignal(false)}
}

// Start runs fn inside an update pass and marks the transition pending
// until that pass settles.
func (t *Transition) Start(fn func()) {
	Batch(func() {
		t.pending.Set(true)
		fn()
		if t.scheduled {
			return
		}
		t.scheduled = true
		OnSettled(func() {
			t.scheduled = false
			t.pending.Set(false)
		})
	})
}

// IsPending reports whether a transition is in flight.
// Tracked: dependents re-run when the flag flips.
func (t *Transition) IsPending() bool {
	return t.pending.Get()
}
