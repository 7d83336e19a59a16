package handlers

import "net/http"

// RouteMiddleware wraps a single route. database.WithScope and
// auth.Middleware.Require both have this shape.
type RouteMiddleware func(http.HandlerFunc) http.HandlerFunc

// passthrough is a RouteMiddleware that does nothing.
func passthrough(next http.HandlerFunc) http.HandlerFunc {
	return next
}
