package auth

// Identity is a verified caller: the provider uid the token subject resolves
// to, the email the token was issued for, and the role embedded at login.
type Identity struct {
	UID   string
	Email string
	Role  string
}

// RegisterRequest carries the registration payload.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Credentials carries a login attempt.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserSummary is the profile slice returned alongside a fresh session token.
type UserSummary struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// AuthResponse is the login result.
type AuthResponse struct {
	Token string      `json:"token"`
	User  UserSummary `json:"user"`
}

// MessageResponse is the shape of every non-login gateway result.
type MessageResponse struct {
	Message string `json:"message"`
}

// Client-visible gateway messages. ForgotPasswordMessage is returned on every
// forgot-password path, success or not, so responses cannot be used to probe
// which accounts exist.
const (
	RegisteredMessage     = "Registration successful! Please check your email for verification."
	ForgotPasswordMessage = "If an account exists, password reset instructions will be sent."
	PasswordResetMessage  = "Password has been successfully reset. You can now login."
)
