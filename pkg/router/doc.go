// Package router implements reactive location state and route matching.
//
// The router provides:
//   - A reactive location (path, query string, parsed query) read from an
//     Integration
//   - Nested routes matched against the location path, with per-key
//     reactive params
//   - Push and Replace navigation with redirect coalescing
//   - Active-link matching and redirects
//   - Routes declared from data (RouteDef, Table)
//
// # Navigation
//
// Push and Replace update the location immediately: every Location,
// Query and Route read after the call sees the new value. The integration
// is written once per update pass, when the pass settles. Navigations made
// by effects reacting to a navigation join the same pass, so a chain of
// redirects produces a single history entry using the mode of the first
// navigation. More than MaxRedirects navigations in one pass fail with
// ErrTooManyRedirects.
//
// # Routes
//
// Route patterns use the regexparam syntax:
//
//	users          → static segment
//	users/:id      → named param
//	users/:id?     → optional param
//	files/*        → wildcard, captured as param "wild"
//
// Child patterns resolve against their parent's pattern. A terminal route
// (end=true) matches exactly and cannot host non-terminal children.
//
// # Usage
//
//	root := reactive.Root(func(owner *reactive.Owner) {
//	    r, err := router.New(integration, "/app")
//	    if err != nil {
//	        return
//	    }
//	    r.Run(func() {
//	        users, _ := router.CreateRoute("users", false)
//	        users.Run(func() {
//	            user, _ := router.CreateRoute(":id", true)
//	            reactive.CreateEffect(func() reactive.Cleanup {
//	                if user.IsMatch() {
//	                    fmt.Println("user", user.Params().Value("id"))
//	                }
//	                return nil
//	            })
//	        })
//	    })
//	    r.Push("/users/42")
//	})
//	defer root.Dispose()
package router
