package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"apotheca/internal/audit"
	"apotheca/internal/auth"
	"apotheca/internal/identity"
	jwttoken "apotheca/internal/jwt_token"
	"apotheca/internal/mail"
	"apotheca/internal/platform/metrics"
	"apotheca/internal/profile"
	dErrors "apotheca/pkg/domain-errors"
	"apotheca/pkg/email"
	"apotheca/pkg/platform/sentinel"
)

// Service is the credential and token gateway. It owns registration, login,
// the password-reset flow and bearer-token resolution; everything else in the
// system trusts the Identity this service produces.
type Service struct {
	provider   identity.Provider
	profiles   profile.Store
	tokens     *jwttoken.JWTService
	mailer     mail.Mailer
	auditor    *audit.Publisher
	logger     *slog.Logger
	metrics    *metrics.Metrics
	clientURL  string
	sessionTTL time.Duration
}

func New(
	provider identity.Provider,
	profiles profile.Store,
	tokens *jwttoken.JWTService,
	mailer mail.Mailer,
	auditor *audit.Publisher,
	logger *slog.Logger,
	m *metrics.Metrics,
	clientURL string,
	sessionTTL time.Duration,
) *Service {
	return &Service{
		provider:   provider,
		profiles:   profiles,
		tokens:     tokens,
		mailer:     mailer,
		auditor:    auditor,
		logger:     logger,
		metrics:    m,
		clientURL:  clientURL,
		sessionTTL: sessionTTL,
	}
}

// Register creates a provider account, seeds its profile document and sends
// the verification email. Any failure after account creation leaves the
// account behind without a profile; Login reports those as "User not found".
func (s *Service) Register(ctx context.Context, req auth.RegisterRequest) (auth.MessageResponse, error) {
	name := req.Name
	if name == "" {
		name = email.DeriveDisplayName(req.Email)
	}

	account, err := s.provider.CreateAccount(ctx, req.Email, req.Password, name)
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return auth.MessageResponse{}, dErrors.New(dErrors.CodeInvalidInput, "Email is already in use")
		}
		return auth.MessageResponse{}, dErrors.Wrap(err, dErrors.CodeInvalidInput, "Registration failed")
	}

	now := time.Now().UTC()
	p := profile.Profile{
		UID:       account.UID,
		Email:     account.Email,
		Role:      profile.RoleUser,
		Favorites: []string{},
		CreatedAt: now,
	}
	if err := s.profiles.Set(ctx, p); err != nil {
		s.logger.Error("profile create failed after account create", "uid", account.UID, "error", err)
		return auth.MessageResponse{}, dErrors.Wrap(err, dErrors.CodeInvalidInput, "Registration failed")
	}

	link, err := s.provider.GenerateEmailVerificationLink(ctx, account.Email, s.clientURL+"/verify-email")
	if err != nil {
		return auth.MessageResponse{}, dErrors.Wrap(err, dErrors.CodeInvalidInput, "Registration failed")
	}
	if err := s.mailer.SendVerificationEmail(ctx, account.Email, link, name); err != nil {
		return auth.MessageResponse{}, dErrors.Wrap(err, dErrors.CodeInvalidInput, "Registration failed")
	}

	s.metrics.IncUsersCreated()
	s.emit(ctx, audit.ActionUserRegistered, account.UID, account.Email)
	return auth.MessageResponse{Message: auth.RegisteredMessage}, nil
}

// Login verifies credentials against the provider, requires a verified email
// and an existing profile document, and mints a session token carrying the
// profile's role.
func (s *Service) Login(ctx context.Context, creds auth.Credentials) (auth.AuthResponse, error) {
	account, err := s.provider.VerifyCredentials(ctx, creds.Email, creds.Password)
	if err != nil {
		s.metrics.IncLoginsFailed()
		s.emit(ctx, audit.ActionLoginFailed, "", creds.Email)
		return auth.AuthResponse{}, dErrors.New(dErrors.CodeUnauthorized, "Invalid credentials")
	}
	if !account.EmailVerified {
		s.metrics.IncLoginsFailed()
		s.emit(ctx, audit.ActionLoginFailed, account.UID, account.Email)
		return auth.AuthResponse{}, dErrors.New(dErrors.CodeUnauthorized, "Email is not verified")
	}

	p, err := s.profiles.Get(ctx, account.UID)
	if err != nil {
		s.metrics.IncLoginsFailed()
		s.emit(ctx, audit.ActionLoginFailed, account.UID, account.Email)
		if errors.Is(err, sentinel.ErrNotFound) {
			return auth.AuthResponse{}, dErrors.New(dErrors.CodeUnauthorized, "User not found")
		}
		return auth.AuthResponse{}, dErrors.Wrap(err, dErrors.CodeInternal, "login failed")
	}

	token, err := s.tokens.GenerateSessionToken(account.UID, account.Email, p.Role, s.sessionTTL)
	if err != nil {
		return auth.AuthResponse{}, dErrors.Wrap(err, dErrors.CodeInternal, "login failed")
	}

	s.metrics.IncLoginsSucceeded()
	s.emit(ctx, audit.ActionLoginSucceeded, account.UID, account.Email)
	return auth.AuthResponse{
		Token: token,
		User: auth.UserSummary{
			Name:  account.DisplayName,
			Email: account.Email,
			Role:  p.Role,
		},
	}, nil
}

// ForgotPassword always answers with the same message. Lookup, link
// generation and mail failures are logged and swallowed so callers cannot
// tell registered addresses from unknown ones.
func (s *Service) ForgotPassword(ctx context.Context, emailAddr string) auth.MessageResponse {
	resp := auth.MessageResponse{Message: auth.ForgotPasswordMessage}

	account, err := s.provider.GetAccountByEmail(ctx, emailAddr)
	if err != nil {
		s.logger.Info("forgot password for unknown email", "email", emailAddr)
		return resp
	}
	link, err := s.provider.GeneratePasswordResetLink(ctx, account.Email, s.clientURL+"/reset-password")
	if err != nil {
		s.logger.Error("reset link generation failed", "email", account.Email, "error", err)
		return resp
	}
	if err := s.mailer.SendPasswordResetEmail(ctx, account.Email, link, account.DisplayName); err != nil {
		s.logger.Error("reset email send failed", "email", account.Email, "error", err)
		return resp
	}
	return resp
}

// ResetPassword validates a reset-purpose token and replaces the account
// password, stamping the profile with the reset time. Reset tokens stay
// valid until they expire; a successful reset does not revoke them.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) (auth.MessageResponse, error) {
	claims, err := s.tokens.ValidateResetToken(token)
	if err != nil {
		return auth.MessageResponse{}, dErrors.New(dErrors.CodeInvalidInput, "Invalid or expired reset token")
	}

	account, err := s.provider.GetAccountByEmail(ctx, claims.Email)
	if err != nil {
		return auth.MessageResponse{}, dErrors.Wrap(err, dErrors.CodeInvalidInput, "Failed to reset password. Please try again.")
	}
	if err := s.provider.UpdateAccount(ctx, account.UID, identity.AccountUpdate{Password: &newPassword}); err != nil {
		return auth.MessageResponse{}, dErrors.Wrap(err, dErrors.CodeInvalidInput, "Failed to reset password. Please try again.")
	}
	if err := s.profiles.SetLastPasswordReset(ctx, account.UID, time.Now().UTC()); err != nil {
		return auth.MessageResponse{}, dErrors.Wrap(err, dErrors.CodeInvalidInput, "Failed to reset password. Please try again.")
	}

	s.metrics.IncPasswordResets()
	s.emit(ctx, audit.ActionPasswordReset, account.UID, account.Email)
	return auth.MessageResponse{Message: auth.PasswordResetMessage}, nil
}

// ResolveIdentity turns an Authorization header value into a verified
// Identity. The role comes from the token claims, not a fresh profile read,
// so role changes only take effect on the next login.
func (s *Service) ResolveIdentity(ctx context.Context, bearerHeaderValue string) (auth.Identity, error) {
	raw, ok := strings.CutPrefix(bearerHeaderValue, "Bearer ")
	if !ok || raw == "" {
		return auth.Identity{}, dErrors.New(dErrors.CodeUnauthorized, "invalid authorization header")
	}

	claims, err := s.tokens.ValidateSessionToken(raw)
	if err != nil {
		return auth.Identity{}, err
	}

	account, err := s.provider.GetAccountByEmail(ctx, claims.Email)
	if err != nil {
		return auth.Identity{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	if account.UID != claims.Subject {
		return auth.Identity{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	return auth.Identity{UID: account.UID, Email: account.Email, Role: claims.Role}, nil
}

func (s *Service) emit(ctx context.Context, action string, uid, emailAddr string) {
	if s.auditor == nil {
		return
	}
	s.auditor.Emit(ctx, audit.Event{
		Timestamp: time.Now().UTC(),
		Action:    action,
		UID:       uid,
		Email:     emailAddr,
	})
}
