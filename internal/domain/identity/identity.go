package identity

import (
	"context"
	"errors"
	"time"
)

// Role is the permission role attached to an identity.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// Opposite returns the counterpart role for customer/admin conversations.
func (r Role) Opposite() Role {
	if r == RoleAdmin {
		return RoleCustomer
	}
	return RoleAdmin
}

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleAdmin
}

// Identity is the immutable authenticated principal attached to a
// connection or request after the handshake succeeds.
type Identity struct {
	UserID   string
	Role     Role
	Verified bool
}

// User is the public profile stored in the directory.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	Role      Role      `json:"role"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
}

// ErrUserNotFound is returned when an identity cannot be resolved.
var ErrUserNotFound = errors.New("user not found")

// TokenClaims is the subset of bearer-token claims the gatekeeper needs.
type TokenClaims struct {
	Subject   string
	ExpiresAt time.Time
}

// TokenVerifier decodes and validates a bearer credential.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*TokenClaims, error)
}

// Directory resolves identities and role membership. Role membership is
// recomputed per call rather than cached; it includes offline accounts.
type Directory interface {
	FindByID(ctx context.Context, userID string) (*User, error)
	ListByRole(ctx context.Context, role Role) ([]*User, error)
}
