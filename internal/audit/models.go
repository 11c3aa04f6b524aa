package audit

import "time"

// Actions recorded by the identity layer.
const (
	ActionUserRegistered = "user_registered"
	ActionLoginSucceeded = "login_succeeded"
	ActionLoginFailed    = "login_failed"
	ActionPasswordReset  = "password_reset"
)

// Event is emitted from the identity flows to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time
	Action    string
	UID       string
	Email     string
	RequestID string
	// Device is a coarse "Browser version on OS" summary parsed from the
	// User-Agent header; never a fingerprint.
	Device string
}
