// Package integration connects routers to location sources.
//
// A Source is anything holding a current reference that can be written
// and observed: a browser history, a test double, a remote client. Path
// and Hash adapt a Source into a router.Integration:
//
//	history := integration.NewMemoryHistory("/", 100)
//	r, err := router.New(integration.Path(history), "/app")
//	...
//	history.Back() // the router follows
package integration
