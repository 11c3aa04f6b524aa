package profile

import "time"

// Roles stored on the profile document. The role is embedded into session
// tokens at login.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Profile is the application-side user document, keyed by the provider uid.
// Exactly one profile exists per uid; the uid is immutable. The favorites
// array is exclusively owned by this document.
type Profile struct {
	UID               string    `json:"uid"`
	Email             string    `json:"email"`
	Role              string    `json:"role"`
	Favorites         []string  `json:"favorites"`
	CreatedAt         time.Time `json:"createdAt"`
	LastPasswordReset time.Time `json:"lastPasswordReset,omitempty"`
}
