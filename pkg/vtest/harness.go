package vtest

import (
	"slices"
	"testing"

	"github.com/vango-dev/vroute/pkg/integration"
	"github.com/vango-dev/vroute/pkg/router"
)

// Harness is a router mounted over a memory history.
type Harness struct {
	Router  *router.Router
	History *integration.MemoryHistory
	Table   *router.Table

	t       testing.TB
	commits []router.RouteUpdate
}

// Push navigates and fails the test on error.
func (h *Harness) Push(to string, opts ...router.NavigateOption) {
	h.t.Helper()
	if err := h.Router.Push(to, opts...); err != nil {
		h.t.Fatalf("Push(%q): %v", to, err)
	}
}

// Replace navigates and fails the test on error.
func (h *Harness) Replace(to string, opts ...router.NavigateOption) {
	h.t.Helper()
	if err := h.Router.Replace(to, opts...); err != nil {
		h.t.Fatalf("Replace(%q): %v", to, err)
	}
}

// Back moves the history back one entry, as a browser back button would.
func (h *Harness) Back() {
	h.t.Helper()
	if !h.History.Back() {
		h.t.Fatalf("Back(): already at the first entry")
	}
}

// Forward moves the history forward one entry.
func (h *Harness) Forward() {
	h.t.Helper()
	if !h.History.Forward() {
		h.t.Fatalf("Forward(): already at the last entry")
	}
}

// Commits returns every update the router wrote to the history.
func (h *Harness) Commits() []router.RouteUpdate {
	return slices.Clone(h.commits)
}

// ExpectPath asserts the current location path.
func (h *Harness) ExpectPath(want string) {
	h.t.Helper()
	if got := h.Router.Location().Path; got != want {
		h.t.Errorf("path = %q, want %q", got, want)
	}
}

// ExpectQuery asserts the value of a query key.
func (h *Harness) ExpectQuery(key, want string) {
	h.t.Helper()
	got, ok := h.Router.Query().Get(key)
	if !ok {
		h.t.Errorf("query %q missing, want %q", key, want)
		return
	}
	if got != want {
		h.t.Errorf("query %q = %q, want %q", key, got, want)
	}
}

// ExpectMatches asserts the names of the declared routes matching the
// location, most specific first.
func (h *Harness) ExpectMatches(want ...string) {
	h.t.Helper()
	got := h.Table.Matching()
	if !slices.Equal(got, want) {
		h.t.Errorf("matches = %v, want %v", got, want)
	}
}

// ExpectParam asserts a param of a declared route.
func (h *Harness) ExpectParam(route, key, want string) {
	h.t.Helper()
	rt, ok := h.Table.Route(route)
	if !ok {
		h.t.Fatalf("no route named %q", route)
	}
	if got := rt.Params().Value(key); got != want {
		h.t.Errorf("%s param %q = %q, want %q", route, key, got, want)
	}
}

// ExpectHistory asserts the whole history stack.
func (h *Harness) ExpectHistory(want ...string) {
	h.t.Helper()
	if got := h.History.Entries(); !slices.Equal(got, want) {
		h.t.Errorf("history = %v, want %v", got, want)
	}
}

// ExpectCommits asserts how many updates reached the history.
func (h *Harness) ExpectCommits(n int) {
	h.t.Helper()
	if len(h.commits) != n {
		h.t.Errorf("commits = %d (%v), want %d", len(h.commits), h.commits, n)
	}
}
