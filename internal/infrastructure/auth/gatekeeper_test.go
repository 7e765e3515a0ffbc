package auth

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoplite/messaging-api/internal/domain/identity"
)

type fakeVerifier struct {
	subject string
	err     error
}

func (f *fakeVerifier) Verify(ctx context.Context, token string) (*identity.TokenClaims, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &identity.TokenClaims{Subject: f.subject}, nil
}

type fakeDirectory struct {
	users map[string]*identity.User
}

func (f *fakeDirectory) FindByID(ctx context.Context, userID string) (*identity.User, error) {
	if u, ok := f.users[userID]; ok {
		return u, nil
	}
	return nil, identity.ErrUserNotFound
}

func (f *fakeDirectory) ListByRole(ctx context.Context, role identity.Role) ([]*identity.User, error) {
	return nil, nil
}

func TestAuthenticate_ResolvesIdentity(t *testing.T) {
	g := NewGatekeeper(
		&fakeVerifier{subject: "cust-1"},
		&fakeDirectory{users: map[string]*identity.User{
			"cust-1": {ID: "cust-1", Role: identity.RoleCustomer, Verified: true},
		}},
		zerolog.Nop(),
	)

	id, err := g.Authenticate(context.Background(), "token")

	require.NoError(t, err)
	assert.Equal(t, "cust-1", id.UserID)
	assert.Equal(t, identity.RoleCustomer, id.Role)
	assert.True(t, id.Verified)
}

func TestAuthenticate_MissingCredential(t *testing.T) {
	g := NewGatekeeper(&fakeVerifier{}, &fakeDirectory{}, zerolog.Nop())

	_, err := g.Authenticate(context.Background(), "  ")

	require.ErrorIs(t, err, ErrMissingCredential)
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	g := NewGatekeeper(&fakeVerifier{err: ErrInvalidToken}, &fakeDirectory{}, zerolog.Nop())

	_, err := g.Authenticate(context.Background(), "garbage")

	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthenticate_UnknownSubject(t *testing.T) {
	g := NewGatekeeper(&fakeVerifier{subject: "ghost"}, &fakeDirectory{users: map[string]*identity.User{}}, zerolog.Nop())

	_, err := g.Authenticate(context.Background(), "token")

	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthenticate_UnverifiedIdentity(t *testing.T) {
	g := NewGatekeeper(
		&fakeVerifier{subject: "cust-1"},
		&fakeDirectory{users: map[string]*identity.User{
			"cust-1": {ID: "cust-1", Role: identity.RoleCustomer, Verified: false},
		}},
		zerolog.Nop(),
	)

	_, err := g.Authenticate(context.Background(), "token")

	require.ErrorIs(t, err, ErrUnverifiedIdentity)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"empty header", "", ""},
		{"bearer token", "Bearer abc.def.ghi", "abc.def.ghi"},
		{"case insensitive scheme", "bearer abc", "abc"},
		{"wrong scheme", "Basic dXNlcg==", ""},
		{"scheme only", "Bearer", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BearerToken(tt.header))
		})
	}
}
