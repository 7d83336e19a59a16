package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// TokenValidator validates a bearer token and returns its claims.
type TokenValidator interface {
	ValidateToken(tokenString string) (*Claims, error)
	// Close stops background key refresh, if any.
	Close()
}

// ValidatorConfig selects the key source. JWKSURL wins over Secret.
type ValidatorConfig struct {
	Secret   string
	JWKSURL  string
	Issuer   string
	Audience string
}

// JWTValidator verifies tokens with a shared HMAC secret or with keys
// fetched from a JWKS endpoint.
type JWTValidator struct {
	keyFunc jwt.Keyfunc
	methods []string
	options []jwt.ParserOption
	cancel  context.CancelFunc
}

// NewJWTValidator builds a validator. For JWKS the key set is fetched and
// refreshed in the background until Close is called.
func NewJWTValidator(ctx context.Context, cfg ValidatorConfig) (*JWTValidator, error) {
	v := &JWTValidator{}

	switch {
	case cfg.JWKSURL != "":
		jwksCtx, cancel := context.WithCancel(ctx)
		jwks, err := keyfunc.NewDefaultCtx(jwksCtx, []string{cfg.JWKSURL})
		if err != nil {
			cancel()
			return nil, fmt.Errorf("failed to create JWKS client for %s: %w", cfg.JWKSURL, err)
		}
		v.keyFunc = jwks.Keyfunc
		v.methods = []string{"RS256", "RS384", "RS512", "ES256", "ES384", "EdDSA"}
		v.cancel = cancel
	case cfg.Secret != "":
		secret := []byte(cfg.Secret)
		v.keyFunc = func(*jwt.Token) (any, error) { return secret, nil }
		v.methods = []string{"HS256", "HS384", "HS512"}
	default:
		return nil, errors.New("either a JWT secret or a JWKS URL is required")
	}

	v.options = []jwt.ParserOption{jwt.WithValidMethods(v.methods), jwt.WithExpirationRequired()}
	if cfg.Issuer != "" {
		v.options = append(v.options, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		v.options = append(v.options, jwt.WithAudience(cfg.Audience))
	}
	return v, nil
}

// ValidateToken verifies the signature and standard claims.
func (v *JWTValidator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, v.keyFunc, v.options...)
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, errors.New("invalid claims type")
	}
	return claims, nil
}

// Close stops JWKS refresh.
func (v *JWTValidator) Close() {
	if v.cancel != nil {
		v.cancel()
	}
}

var _ TokenValidator = (*JWTValidator)(nil)
