// Package vtest provides testing helpers for code driven by a router.
//
// The vtest package reduces boilerplate when testing navigation logic by
// providing a fluent router builder over an in-memory history and
// assertions on the location, matches and history.
//
// # Quick Start
//
//	func TestLegacyRedirect(t *testing.T) {
//	    h := vtest.NewRouter().
//	        WithRoutes(routes).
//	        Build(t)
//
//	    InstallRedirects(h.Router)
//	    h.Push("/old/users")
//
//	    h.ExpectPath("/users")
//	    h.ExpectHistory("/", "/users")
//	}
//
// # Fluent Builder
//
// The builder allows chaining setup operations:
//
//	h := vtest.NewRouter().
//	    WithBase("/app").
//	    WithInitial("/app/users/1").
//	    WithRoutes(defs).
//	    WithMaxHistory(10).
//	    Build(t)
//
// Build mounts the router in a new reactive root that is disposed with
// the test.
//
// # Assertions
//
//	h.ExpectPath("/users/1")
//	h.ExpectQuery("tab", "posts")
//	h.ExpectMatches("user", "users")
//	h.ExpectParam("user", "id", "1")
//	h.ExpectHistory("/", "/users/1")
//	h.ExpectCommits(2)
package vtest
