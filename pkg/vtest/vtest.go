package vtest

import (
	"io"
	"log/slog"
	"testing"

	"github.com/vango-dev/vroute/pkg/integration"
	"github.com/vango-dev/vroute/pkg/reactive"
	"github.com/vango-dev/vroute/pkg/router"
)

// RouterBuilder allows fluent construction of test routers.
type RouterBuilder struct {
	base       string
	initial    string
	routes     []router.RouteDef
	maxHistory int
	opts       []router.Option
}

// NewRouter creates a new router builder for testing.
//
// Example:
//
//	h := vtest.NewRouter().
//	    WithBase("/app").
//	    WithRoutes(defs).
//	    Build(t)
func NewRouter() *RouterBuilder {
	return &RouterBuilder{}
}

// WithBase sets the router base path.
func (b *RouterBuilder) WithBase(base string) *RouterBuilder {
	b.base = base
	return b
}

// WithInitial sets the history's starting reference. Empty seeds the
// base path.
//
// Example:
//
//	h := vtest.NewRouter().WithInitial("/users?tab=1").Build(t)
func (b *RouterBuilder) WithInitial(ref string) *RouterBuilder {
	b.initial = ref
	return b
}

// WithRoutes declares defs on the router.
func (b *RouterBuilder) WithRoutes(defs []router.RouteDef) *RouterBuilder {
	b.routes = defs
	return b
}

// WithMaxHistory caps the history. Zero means no cap.
func (b *RouterBuilder) WithMaxHistory(n int) *RouterBuilder {
	b.maxHistory = n
	return b
}

// WithOptions passes router options through.
func (b *RouterBuilder) WithOptions(opts ...router.Option) *RouterBuilder {
	b.opts = append(b.opts, opts...)
	return b
}

// Build mounts the router. Setup failures fail the test immediately.
func (b *RouterBuilder) Build(t testing.TB) *Harness {
	t.Helper()

	h := &Harness{
		t:       t,
		History: integration.NewMemoryHistory(b.initial, b.maxHistory),
	}

	opts := append([]router.Option{
		router.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}, b.opts...)

	t.Cleanup(reactive.Release)

	var err error
	root := reactive.Root(func(owner *reactive.Owner) {
		integ := router.CreateIntegration(
			h.History.Current,
			func(u router.RouteUpdate) {
				h.commits = append(h.commits, u)
				h.History.Write(u)
			},
			h.History.Listen,
			router.Utils{},
		)
		h.Router, err = router.New(integ, b.base, opts...)
		if err != nil {
			return
		}
		h.Table, err = router.Declare(h.Router, b.routes)
	})
	t.Cleanup(root.Dispose)

	if err != nil {
		t.Fatalf("vtest: building router: %v", err)
	}
	return h
}
