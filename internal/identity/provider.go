// Package identity defines the boundary to the external identity provider:
// the service that owns account credentials, the email-verified flag, and
// the generation of verification and reset links. Everything behind this
// interface is replaceable; the gateway never touches credentials directly.
package identity

import "context"

// Account is the provider-side view of a user. The profile document in the
// document store carries the application-side fields (role, favorites).
type Account struct {
	UID           string
	Email         string
	DisplayName   string
	EmailVerified bool
}

// AccountUpdate is a partial update; nil fields are left untouched.
type AccountUpdate struct {
	Password      *string
	EmailVerified *bool
	DisplayName   *string
}

// Provider abstracts the credential-issuing identity provider.
//
// Implementations return sentinel.ErrNotFound for unknown accounts and
// sentinel.ErrConflict for duplicate emails; callers translate those into
// domain errors.
type Provider interface {
	// CreateAccount registers a new account with an unverified email.
	CreateAccount(ctx context.Context, email, password, displayName string) (Account, error)

	// GetAccountByEmail resolves an account by its email.
	GetAccountByEmail(ctx context.Context, email string) (Account, error)

	// VerifyCredentials checks email+password and returns the account on
	// success. The error is deliberately uninformative about which part
	// failed.
	VerifyCredentials(ctx context.Context, email, password string) (Account, error)

	// UpdateAccount applies a partial update to the account with the given
	// uid.
	UpdateAccount(ctx context.Context, uid string, update AccountUpdate) error

	// GenerateEmailVerificationLink builds a link that, when followed,
	// marks the account's email as verified.
	GenerateEmailVerificationLink(ctx context.Context, email, redirectURL string) (string, error)

	// GeneratePasswordResetLink builds a link carrying a time-bounded reset
	// credential for the account.
	GeneratePasswordResetLink(ctx context.Context, email, redirectURL string) (string, error)
}
