// Package identity abstracts the hosted auth provider. The application's
// system of record for accounts is the app_user table; this package only
// manages the external login identities tied to those rows.
package identity

import (
	"context"
	"errors"
)

var (
	ErrUnauthenticated = errors.New("identity: unauthenticated")
	ErrEmailTaken      = errors.New("identity: email already registered")
	ErrUnavailable     = errors.New("identity: provider unavailable")
)

type User struct {
	ID           string
	Email        string
	UserMetadata map[string]interface{}
	AppMetadata  map[string]interface{}
}

type CreateParams struct {
	Email        string
	Password     string
	EmailConfirm bool
	Metadata     map[string]interface{}
}

type UpdateParams struct {
	Email    string
	Metadata map[string]interface{}
}

type Provider interface {
	// CreateUser provisions a login identity and returns it.
	CreateUser(ctx context.Context, params CreateParams) (*User, error)
	// UpdateUser syncs email and metadata on an existing identity.
	UpdateUser(ctx context.Context, userID string, params UpdateParams) error
	// InviteByEmail triggers the provider's invite email for an identity.
	InviteByEmail(ctx context.Context, email string, metadata map[string]interface{}) error
	// UserFromToken resolves an access token to its identity. Any failure is
	// reported as ErrUnauthenticated; callers treat it as a missing session.
	UserFromToken(ctx context.Context, token string) (*User, error)
}
