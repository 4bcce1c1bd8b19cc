// Package routepath implements the pure path functions of the router:
// resolving paths against a base, compiling route patterns into matchers,
// parsing query strings, and splitting and cleaning raw references.
//
// Nothing in this package is reactive; every function is deterministic in
// its inputs.
package routepath
