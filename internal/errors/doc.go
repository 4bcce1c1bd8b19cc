// Package errors provides coded, structured errors for the router.
//
// Every error has a stable code that maps to a short message, a longer
// explanation and a documentation URL.
//
// # Error Categories
//
//   - navigation: push/replace failures (unresolvable target, redirect loop)
//   - route: route tree construction (bad base, terminal parent)
//   - pattern: route pattern compilation
//   - config: configuration files
//   - integration: location sources and remote clients
//
// # Matching
//
// Errors created with New match the package sentinels by code:
//
//	err := errors.New(errors.CodeTooManyRedirects).WithInput("/login")
//	stderrors.Is(err, errors.ErrTooManyRedirects) // true
//
// # Usage
//
//	err := errors.New("R002").
//	    WithInput("https://example.com").
//	    WithSuggestion("Navigate to an in-app path such as /users")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR R002: invalid navigation target
//	//
//	//   input: https://example.com
//	//
//	//   The navigation target could not be resolved to an in-app path. ...
//	//
//	//   Hint: Navigate to an in-app path such as /users
package errors
