package profile

import (
	"context"
	"time"
)

// Store persists profile documents. Implementations return
// sentinel.ErrNotFound when no document exists for a uid and
// sentinel.ErrConflict when Set would overwrite an existing document.
type Store interface {
	// Set creates the profile document for a new uid.
	Set(ctx context.Context, p Profile) error

	// Get returns the profile document verbatim.
	Get(ctx context.Context, uid string) (Profile, error)

	// SetLastPasswordReset stamps the audit timestamp after a credential
	// update.
	SetLastPasswordReset(ctx context.Context, uid string, at time.Time) error

	// MutateFavorites runs fn against the current favorites array and
	// persists its result, all inside store-level atomicity, so concurrent
	// mutations of the same profile cannot lose updates. An error from fn
	// aborts the write and is returned verbatim.
	MutateFavorites(ctx context.Context, uid string, fn func(current []string) ([]string, error)) ([]string, error)
}
