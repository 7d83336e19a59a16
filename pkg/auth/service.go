package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/folio-engine/folio-engine/pkg/apperrors"
)

// Common authentication errors. Both match apperrors.ErrUnauthorized.
var (
	ErrMissingAuthorization = fmt.Errorf("%w: missing authorization", apperrors.ErrUnauthorized)
	ErrInvalidAuthFormat    = fmt.Errorf("%w: invalid authorization header format", apperrors.ErrUnauthorized)
)

// Authorizer decides whether a request may exercise a capability.
type Authorizer interface {
	// Authorize returns the claims that granted the capability, or nil claims
	// when it was granted without a token. The error matches
	// apperrors.ErrUnauthorized or apperrors.ErrForbidden.
	Authorize(r *http.Request, capability Capability) (*Claims, error)
}

// openAuthorizer grants everything. It is the default for a single-operator site.
type openAuthorizer struct{}

// NewOpenAuthorizer returns an Authorizer that trusts every caller.
func NewOpenAuthorizer() Authorizer {
	return openAuthorizer{}
}

func (openAuthorizer) Authorize(*http.Request, Capability) (*Claims, error) {
	return nil, nil
}

// tokenAuthorizer requires a bearer token unless the capability is public.
type tokenAuthorizer struct {
	validator TokenValidator
	public    map[Capability]bool
	logger    *zap.Logger
}

// NewTokenAuthorizer returns an Authorizer backed by validator. Capabilities
// in public are granted to anonymous callers.
func NewTokenAuthorizer(validator TokenValidator, public []string, logger *zap.Logger) Authorizer {
	set := make(map[Capability]bool, len(public))
	for _, c := range public {
		set[Capability(c)] = true
	}
	return &tokenAuthorizer{
		validator: validator,
		public:    set,
		logger:    logger,
	}
}

func (a *tokenAuthorizer) Authorize(r *http.Request, capability Capability) (*Claims, error) {
	if a.public[capability] {
		return nil, nil
	}

	tokenString, err := bearerToken(r)
	if err != nil {
		a.logger.Debug("No usable bearer token",
			zap.String("path", r.URL.Path),
			zap.String("capability", string(capability)),
			zap.Error(err))
		return nil, err
	}

	claims, err := a.validator.ValidateToken(tokenString)
	if err != nil {
		a.logger.Debug("JWT validation failed",
			zap.String("path", r.URL.Path),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthorized, err)
	}

	if !claims.Grants(capability) {
		return claims, fmt.Errorf("%w: token lacks %s", apperrors.ErrForbidden, capability)
	}
	return claims, nil
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrMissingAuthorization
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", ErrInvalidAuthFormat
	}
	return strings.TrimSpace(token), nil
}

// IsForbidden reports whether err is a capability rejection rather than a
// missing or invalid token.
func IsForbidden(err error) bool {
	return errors.Is(err, apperrors.ErrForbidden)
}

var (
	_ Authorizer = openAuthorizer{}
	_ Authorizer = (*tokenAuthorizer)(nil)
)
