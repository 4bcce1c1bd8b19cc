// Package middleware provides HTTP middleware for the vroute server.
//
// This package includes:
//   - OpenTelemetry tracing middleware
//   - Prometheus metrics middleware
//   - Structured request logging
//
// The middlewares are plain func(http.Handler) http.Handler values and
// work with chi or net/http. Route labels use the matched chi pattern
// when available, so /api/sessions/{id} is one series, not one per id.
//
//	r := chi.NewRouter()
//	r.Use(
//	    middleware.Logger(logger),
//	    middleware.OpenTelemetry(),
//	    middleware.Prometheus(middleware.WithRegistry(registry)),
//	)
//
// Websocket upgrades pass through: the wrapped response writer still
// implements http.Hijacker.
package middleware
