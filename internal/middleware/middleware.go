// Package middleware stores global and route-specific middleware.
//
// These intercept requests to handle cross-cutting concerns such as
// request logging, CORS, method override for HTML forms, rate limiting,
// metrics, tracing and panic recovery. It also owns the global error
// handler that turns returned errors into redirects, error pages or
// JSON bodies.
package middleware
