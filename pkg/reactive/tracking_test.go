package reactive

import (
	"sync"
	"testing"
)

// testListener records how often it was marked dirty.
type testListener struct {
	id         uint64
	dirtyCount int
	mu         sync.Mutex
}

func newTestListener() *testListener {
	return &testListener{id: nextID()}
}

func (l *testListener) MarkDirty() {
	l.mu.Lock()
	l.dirtyCount++
	l.mu.Unlock()
}

func (l *testListener) ID() uint64 {
	return l.id
}

func (l *testListener) getDirtyCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dirtyCount
}

func TestGetTrackingContext(t *testing.T) {
	ctx1 := getTrackingContext()
	ctx2 := getTrackingContext()
	if ctx1 != ctx2 {
		t.Error("expected the same tracking context on one goroutine")
	}

	var other *TrackingContext
	done := make(chan struct{})
	go func() {
		defer close(done)
		other = getTrackingContext()
		Release()
	}()
	<-done

	if other == ctx1 {
		t.Error("expected a separate tracking context per goroutine")
	}
}

func TestWithListenerRestores(t *testing.T) {
	outer := newTestListener()
	inner := newTestListener()

	WithListener(outer, func() {
		WithListener(inner, func() {
			if getCurrentListener() != inner {
				t.Error("expected inner listener")
			}
		})
		if getCurrentListener() != outer {
			t.Error("expected outer listener restored")
		}
	})

	if getCurrentListener() != nil {
		t.Error("expected no listener outside WithListener")
	}
}

func TestWithOwnerRestores(t *testing.T) {
	owner := NewOwner(nil)
	defer owner.Dispose()

	WithOwner(owner, func() {
		if CurrentOwner() != owner {
			t.Error("expected owner to be current")
		}
	})

	if CurrentOwner() != nil {
		t.Error("expected no owner outside WithOwner")
	}
}

func TestNextIDUnique(t *testing.T) {
	seen := make(map[uint64]bool)
	for i := 0; i < 1000; i++ {
		id := nextID()
		if seen[id] {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = true
	}
}
