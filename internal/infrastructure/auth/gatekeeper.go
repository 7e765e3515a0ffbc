package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/shoplite/messaging-api/internal/domain/identity"
)

var (
	// ErrMissingCredential is returned when no bearer credential is present.
	ErrMissingCredential = errors.New("missing bearer credential")
	// ErrUnverifiedIdentity is returned when the resolved account has not
	// completed verification.
	ErrUnverifiedIdentity = errors.New("identity is not verified")
)

// IdentityContextKey is the gin context key carrying the authenticated
// identity.
const IdentityContextKey = "identity"

// Gatekeeper authenticates a bearer credential into a typed Identity. It is
// shared by the websocket handshake and the REST middleware; it has no
// persistence side effects.
type Gatekeeper struct {
	verifier  identity.TokenVerifier
	directory identity.Directory
	log       zerolog.Logger
}

// NewGatekeeper creates a gatekeeper over the token verifier and directory.
func NewGatekeeper(verifier identity.TokenVerifier, directory identity.Directory, log zerolog.Logger) *Gatekeeper {
	return &Gatekeeper{
		verifier:  verifier,
		directory: directory,
		log:       log.With().Str("component", "gatekeeper").Logger(),
	}
}

// Authenticate validates the credential and resolves it into an Identity.
// Fails when the credential is missing or invalid, the subject is unknown,
// or the account is unverified.
func (g *Gatekeeper) Authenticate(ctx context.Context, token string) (identity.Identity, error) {
	if strings.TrimSpace(token) == "" {
		return identity.Identity{}, ErrMissingCredential
	}

	claims, err := g.verifier.Verify(ctx, token)
	if err != nil {
		return identity.Identity{}, err
	}

	user, err := g.directory.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			return identity.Identity{}, ErrInvalidToken
		}
		return identity.Identity{}, err
	}

	if !user.Verified {
		return identity.Identity{}, ErrUnverifiedIdentity
	}

	return identity.Identity{
		UserID:   user.ID,
		Role:     user.Role,
		Verified: user.Verified,
	}, nil
}

// Middleware enforces bearer auth on REST routes and stores the resolved
// Identity in the gin context.
func (g *Gatekeeper) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c.GetHeader("Authorization"))

		id, err := g.Authenticate(c.Request.Context(), token)
		if err != nil {
			g.log.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("request authentication failed")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"message": "unauthorized",
					"type":    "unauthorized_error",
				},
			})
			return
		}

		c.Set(IdentityContextKey, id)
		c.Next()
	}
}

// IdentityFromContext returns the authenticated identity stored by the
// middleware, if any.
func IdentityFromContext(c *gin.Context) (identity.Identity, bool) {
	val, exists := c.Get(IdentityContextKey)
	if !exists {
		return identity.Identity{}, false
	}
	id, ok := val.(identity.Identity)
	return id, ok
}

// BearerToken extracts the credential from an Authorization header value.
func BearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
