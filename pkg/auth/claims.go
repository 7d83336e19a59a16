// Package auth implements the capability check in front of mutating
// endpoints. In open mode every capability is granted; in jwt mode a bearer
// token must carry the capability in its scope.
package auth

import (
	"context"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// ClaimsKey is the context key for storing validated token claims.
const ClaimsKey contextKey = "claims"

// Capability names one action guarded at the endpoint layer.
type Capability string

const (
	CapPortfolioWrite Capability = "portfolio:write"
	CapProfileWrite   Capability = "profile:write"
	CapTimelineWrite  Capability = "timeline:write"
	CapContactSubmit  Capability = "contact:submit"
	CapAnalyticsWrite Capability = "analytics:write"
	CapMCPInvoke      Capability = "mcp:invoke"
)

// scopeAll grants every capability.
const scopeAll = "*"

// Claims is the token payload. Capabilities are granted through the
// space-separated OAuth "scope" claim or the "caps" list.
type Claims struct {
	jwt.RegisteredClaims
	Scope        string   `json:"scope,omitempty"`
	Capabilities []string `json:"caps,omitempty"`
}

// Grants reports whether the claims carry capability c.
func (c *Claims) Grants(capability Capability) bool {
	if c == nil {
		return false
	}
	for _, s := range strings.Fields(c.Scope) {
		if s == scopeAll || s == string(capability) {
			return true
		}
	}
	for _, s := range c.Capabilities {
		if s == scopeAll || s == string(capability) {
			return true
		}
	}
	return false
}

// GetClaims retrieves token claims from the request context.
func GetClaims(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*Claims)
	return claims, ok
}

// GetSubjectFromContext returns the token subject, or "" for anonymous requests.
func GetSubjectFromContext(ctx context.Context) string {
	claims, ok := GetClaims(ctx)
	if !ok || claims == nil {
		return ""
	}
	return claims.Subject
}
