// Package middlewares holds the HTTP middlewares mounted by the router: request ids,
// request logging and metrics, bearer token authentication and the authorization hook.
package middlewares

import (
	"net/http"
)

// Middleware wraps an http.Handler.
type Middleware interface {
	Handle(next http.Handler) http.Handler
}

type contextKey string

const (
	UserIDContextKey    contextKey = "user_id"
	RequestIDContextKey contextKey = "request_id"
)
