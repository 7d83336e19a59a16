package testhelpers

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/folio-engine/folio-engine/pkg/auth"
)

// SignTestJWT returns an HS256 token for subject carrying caps, valid for an hour.
func SignTestJWT(t *testing.T, secret, subject string, caps ...string) string {
	t.Helper()

	claims := auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Capabilities: caps,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("Failed to sign test token: %v", err)
	}
	return token
}

// BearerTestJWT is SignTestJWT with the "Bearer " prefix for the Authorization header.
func BearerTestJWT(t *testing.T, secret, subject string, caps ...string) string {
	return "Bearer " + SignTestJWT(t, secret, subject, caps...)
}
