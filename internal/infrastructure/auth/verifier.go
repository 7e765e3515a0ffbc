package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/shoplite/messaging-api/internal/config"
	"github.com/shoplite/messaging-api/internal/domain/identity"
)

const (
	jwksRefreshInterval = 5 * time.Minute
	tokenClockSkew      = time.Minute
)

var (
	// ErrInvalidToken is returned for malformed, expired, or otherwise
	// unverifiable credentials.
	ErrInvalidToken = errors.New("invalid token")
)

// JWKSVerifier validates bearer tokens against the identity provider's JWKS.
type JWKSVerifier struct {
	issuer   string
	audience string
	jwks     *keyfunc.JWKS
	log      zerolog.Logger
}

var _ identity.TokenVerifier = (*JWKSVerifier)(nil)

// NewVerifier builds the token verifier from configuration. When auth is
// disabled (local development), tokens are decoded without signature
// verification.
func NewVerifier(ctx context.Context, cfg *config.Config, log zerolog.Logger) (identity.TokenVerifier, error) {
	if !cfg.AuthEnabled {
		log.Warn().Msg("auth disabled, accepting unverified tokens")
		return &insecureVerifier{}, nil
	}

	jwks, err := keyfunc.Get(cfg.AuthJWKSURL, keyfunc.Options{
		Ctx:               ctx,
		RefreshInterval:   jwksRefreshInterval,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			log.Error().Err(err).Msg("jwks refresh failed")
		},
	})
	if err != nil {
		return nil, fmt.Errorf("fetch jwks: %w", err)
	}

	return &JWKSVerifier{
		issuer:   cfg.AuthIssuer,
		audience: cfg.AuthAudience,
		jwks:     jwks,
		log:      log.With().Str("component", "token-verifier").Logger(),
	}, nil
}

// Verify implements identity.TokenVerifier.
func (v *JWKSVerifier) Verify(ctx context.Context, token string) (*identity.TokenClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithIssuer(v.issuer),
		jwt.WithLeeway(tokenClockSkew),
		jwt.WithExpirationRequired(),
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, v.jwks.Keyfunc, opts...)
	if err != nil || !parsed.Valid {
		v.log.Debug().Err(err).Msg("token validation failed")
		return nil, ErrInvalidToken
	}

	return claimsToTokenClaims(claims)
}

// insecureVerifier decodes tokens without checking signatures. Local
// development only; NewVerifier never returns it when auth is enabled.
type insecureVerifier struct{}

func (v *insecureVerifier) Verify(ctx context.Context, token string) (*identity.TokenClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, ErrInvalidToken
	}
	return claimsToTokenClaims(claims)
}

func claimsToTokenClaims(claims jwt.MapClaims) (*identity.TokenClaims, error) {
	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return nil, ErrInvalidToken
	}

	result := &identity.TokenClaims{Subject: subject}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		result.ExpiresAt = exp.Time
	}
	return result, nil
}
