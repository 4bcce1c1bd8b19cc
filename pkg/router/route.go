package router

import (
	"github.com/vango-dev/vroute/internal/errors"
	"github.com/vango-dev/vroute/pkg/reactive"
	"github.com/vango-dev/vroute/pkg/routepath"
)

// RouteID identifies a route within its router. IDs are never reused.
type RouteID uint64

// matchedPath is the concrete path a route matched, if any.
type matchedPath struct {
	path string
	ok   bool
}

// Route is one declared route: a pattern resolved against its parent,
// matched reactively against the router's location path.
//
// A route is UNMATCHED or MATCHED(path, params). It re-evaluates on every
// location path change; query string changes do not affect it.
type Route struct {
	// ID is the route's stable identifier.
	ID RouteID

	// Path is the pattern resolved against the parent route.
	Path string

	// End requires an exact match. Terminal routes cannot host
	// non-terminal children.
	End bool

	router   *Router
	parent   RouteID
	children []RouteID
	owner    *reactive.Owner
	disposed bool

	result  *reactive.Memo[*routepath.Match]
	match   *reactive.Memo[matchedPath]
	isMatch *reactive.Memo[bool]
	params  *reactive.Map
}

// NewRoute declares a route under parent (the base route when nil).
//
// pattern is resolved against the parent's pattern path. Declaring a
// non-terminal route under a terminal parent returns ErrTerminalParent;
// an unresolvable pattern returns ErrInvalidRoutePath.
func (r *Router) NewRoute(parent *Route, pattern string, end bool) (*Route, error) {
	if r.owner.IsDisposed() {
		return nil, errors.New(errors.CodeRouterDisposed).WithInput(pattern)
	}
	if parent == nil {
		parent = r.Base
	}

	path, ok := r.Utils.ResolvePath(r.Base.Path, pattern, parent.Path)
	if !ok {
		return nil, errors.New(errors.CodeInvalidRoutePath).
			WithInput(pattern).
			WithSuggestion("route patterns are in-app paths such as users/:id")
	}
	if parent.End && !end {
		return nil, errors.New(errors.CodeTerminalParent).
			WithInput(path).
			WithDetail("route " + path + " is nested under terminal route " + parent.Path)
	}

	matcher, err := r.Utils.CreateMatcher(path, routepath.MatcherOptions{End: end})
	if err != nil {
		return nil, errors.FromError(err, errors.CodeInvalidPattern)
	}

	return r.routes.add(parent, path, end, matcher)
}

// Route returns the live route with the given id.
func (r *Router) Route(id RouteID) (*Route, bool) {
	route, ok := r.routes.nodes[id]
	return route, ok
}

// DisposeRoute disposes route and all of its descendants.
func (r *Router) DisposeRoute(route *Route) {
	if route != nil {
		r.routes.dispose(route.ID)
	}
}

// Router returns the router the route belongs to.
func (rt *Route) Router() *Router {
	return rt.router
}

// Parent returns the parent route, or nil for the base route.
func (rt *Route) Parent() *Route {
	return rt.router.routes.nodes[rt.parent]
}

// Children returns the live child routes in declaration order.
func (rt *Route) Children() []*Route {
	out := make([]*Route, 0, len(rt.children))
	for _, id := range rt.children {
		if child, ok := rt.router.routes.nodes[id]; ok {
			out = append(out, child)
		}
	}
	return out
}

// Match returns the concrete matched path. Tracked.
func (rt *Route) Match() (string, bool) {
	m := rt.match.Get()
	return m.path, m.ok
}

// IsMatch reports whether the route matches. Tracked: moving between two
// matched paths does not re-trigger dependents.
func (rt *Route) IsMatch() bool {
	return rt.isMatch.Get()
}

// Params returns the matched parameters; empty when unmatched. Reading a
// key only re-triggers when that key's value changes.
func (rt *Route) Params() *reactive.Map {
	return rt.params
}

// ResolvePath resolves path against the matched path, or against the
// route's pattern path when unmatched. Returns false for paths with a
// scheme. Tracked through Match.
func (rt *Route) ResolvePath(path string) (string, bool) {
	from := rt.Path
	if m, ok := rt.Match(); ok {
		from = m
	}
	return rt.router.Utils.ResolvePath(rt.router.routes.base, path, from)
}

// Run runs fn inside the route's scope: UseRoute returns this route and
// CreateRoute declares children of it.
func (rt *Route) Run(fn func()) {
	rt.owner.Run(fn)
}

// IsDisposed reports whether the route was disposed.
func (rt *Route) IsDisposed() bool {
	return rt.disposed
}

// arena stores a router's routes by ID. Parent and child links are IDs,
// so disposal never depends on pointer cycles.
type arena struct {
	router *Router
	base   string
	next   RouteID
	nodes  map[RouteID]*Route
}

func newArena(r *Router) *arena {
	return &arena{
		router: r,
		nodes:  make(map[RouteID]*Route),
	}
}

// add creates a route. A nil matcher makes a route that always matches
// at path with no params, which is what the base route is.
func (a *arena) add(parent *Route, path string, end bool, matcher routepath.Matcher) (*Route, error) {
	a.next++
	route := &Route{
		ID:     a.next,
		Path:   path,
		End:    end,
		router: a.router,
		owner:  reactive.NewOwner(a.router.owner),
	}

	if parent == nil {
		a.base = path
		base := &routepath.Match{Path: path, Params: map[string]string{}}
		matcher = func(string) *routepath.Match { return base }
	} else {
		route.parent = parent.ID
		parent.children = append(parent.children, route.ID)
	}

	route.owner.Run(func() {
		routeContext.Provide(route)

		route.result = reactive.NewMemo(func() *routepath.Match {
			return matcher(a.router.Path())
		})
		route.match = reactive.NewMemo(func() matchedPath {
			if m := route.result.Get(); m != nil {
				return matchedPath{path: m.Path, ok: true}
			}
			return matchedPath{}
		})
		route.isMatch = reactive.NewMemo(func() bool {
			return route.match.Get().ok
		})
		route.params = reactive.DeriveMap(func() map[string]string {
			if m := route.result.Get(); m != nil {
				return m.Params
			}
			return nil
		})
	})

	a.nodes[route.ID] = route
	a.router.metrics.routeAdded()
	return route, nil
}

// dispose removes a route, children first, then detaches it from its
// parent.
func (a *arena) dispose(id RouteID) {
	route, ok := a.nodes[id]
	if !ok || route.disposed {
		return
	}
	route.disposed = true

	for i := len(route.children) - 1; i >= 0; i-- {
		a.dispose(route.children[i])
	}
	route.children = nil

	route.owner.Dispose()

	if parent, ok := a.nodes[route.parent]; ok {
		for i, child := range parent.children {
			if child == id {
				parent.children = append(parent.children[:i], parent.children[i+1:]...)
				break
			}
		}
	}
	delete(a.nodes, id)
	a.router.metrics.routeRemoved()
}
