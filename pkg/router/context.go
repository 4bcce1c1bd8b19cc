package router

import (
	"github.com/vango-dev/vroute/internal/errors"
	"github.com/vango-dev/vroute/pkg/reactive"
)

var (
	routerContext = reactive.CreateContext[*Router](nil)
	routeContext  = reactive.CreateContext[*Route](nil)
)

// UseRouter returns the router visible from the current owner, or nil.
func UseRouter() *Router {
	return routerContext.Use()
}

// UseRoute returns the nearest enclosing route. Inside a router scope with
// no enclosing route it returns the router's base route; outside any
// router it returns nil.
func UseRoute() *Route {
	if route := routeContext.Use(); route != nil && !route.disposed {
		return route
	}
	if r := UseRouter(); r != nil {
		return r.Base
	}
	return nil
}

// CreateRoute declares a route under the nearest enclosing route. The
// route is disposed with the current owner.
//
// Example:
//
//	r.Run(func() {
//	    users, _ := router.CreateRoute("users", false)
//	    users.Run(func() {
//	        user, _ := router.CreateRoute(":id", true) // /users/:id
//	        ...
//	    })
//	})
func CreateRoute(pattern string, end bool) (*Route, error) {
	r := UseRouter()
	if r == nil {
		return nil, errors.New(errors.CodeNoRouter).WithInput(pattern)
	}

	route, err := r.NewRoute(UseRoute(), pattern, end)
	if err != nil {
		return nil, err
	}
	reactive.OnCleanup(func() {
		r.DisposeRoute(route)
	})
	return route, nil
}
