package auth

import (
	"context"
	"encoding/json"
	"net"
	"net/http"

	"go.uber.org/zap"
)

// DenialRecorder receives rejected capability checks for the security log.
type DenialRecorder interface {
	LogCapabilityDenied(ctx context.Context, capability, reason, clientIP string)
}

// Middleware applies an Authorizer to individual routes.
type Middleware struct {
	authorizer Authorizer
	recorder   DenialRecorder
	logger     *zap.Logger
}

// NewMiddleware creates a new auth middleware. recorder may be nil.
func NewMiddleware(authorizer Authorizer, recorder DenialRecorder, logger *zap.Logger) *Middleware {
	return &Middleware{
		authorizer: authorizer,
		recorder:   recorder,
		logger:     logger,
	}
}

// Require guards a handler with capability. Claims, when present, are placed
// in the request context.
func (m *Middleware) Require(capability Capability) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims, err := m.authorizer.Authorize(r, capability)
			if err != nil {
				if m.recorder != nil {
					m.recorder.LogCapabilityDenied(r.Context(), string(capability), err.Error(), clientIP(r))
				}
				if IsForbidden(err) {
					m.forbidden(w, "Missing capability "+string(capability))
					return
				}
				m.unauthorized(w, "Authentication required")
				return
			}

			if claims != nil {
				r = r.WithContext(context.WithValue(r.Context(), ClaimsKey, claims))
			}
			next(w, r)
		}
	}
}

// unauthorized returns a 401 response with JSON error body.
func (m *Middleware) unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="folio-engine"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "unauthorized",
		"message": message,
	})
}

// forbidden returns a 403 response with JSON error body.
func (m *Middleware) forbidden(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "forbidden",
		"message": message,
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
