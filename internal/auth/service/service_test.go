package service

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"apotheca/internal/auth"
	"apotheca/internal/identity"
	jwttoken "apotheca/internal/jwt_token"
	"apotheca/internal/mail"
	"apotheca/internal/profile"
	dErrors "apotheca/pkg/domain-errors"
)

type ServiceSuite struct {
	suite.Suite
	ctx      context.Context
	provider *identity.MemoryProvider
	profiles *profile.MemoryStore
	mailer   *mail.MemoryMailer
	tokens   *jwttoken.JWTService
	service  *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.tokens = jwttoken.NewJWTService("test-signing-key", "apotheca-test")
	s.provider = identity.NewMemoryProvider(s.tokens, time.Hour)
	s.profiles = profile.NewMemoryStore()
	s.mailer = mail.NewMemoryMailer()
	logger := slog.New(slog.DiscardHandler)
	s.service = New(s.provider, s.profiles, s.tokens, s.mailer, nil, logger, nil,
		"https://app.example.com", time.Hour)
}

func (s *ServiceSuite) register(email, password, name string) {
	resp, err := s.service.Register(s.ctx, auth.RegisterRequest{
		Email: email, Password: password, Name: name,
	})
	s.Require().NoError(err)
	s.Require().Equal(auth.RegisteredMessage, resp.Message)
}

// verifyEmail follows the verification link recorded by the mailer.
func (s *ServiceSuite) verifyEmail(email string) {
	for _, msg := range s.mailer.Messages() {
		if msg.Kind == "verification" && msg.To == email {
			code := msg.Link[strings.Index(msg.Link, "oobCode=")+len("oobCode="):]
			s.Require().NoError(s.provider.RedeemVerificationCode(s.ctx, code))
			return
		}
	}
	s.FailNow("no verification email for " + email)
}

func (s *ServiceSuite) Test_Register_CreatesProfileAndSendsVerification() {
	s.register("ana@example.com", "secret123", "Ana")

	account, err := s.provider.GetAccountByEmail(s.ctx, "ana@example.com")
	s.Require().NoError(err)
	s.False(account.EmailVerified)

	p, err := s.profiles.Get(s.ctx, account.UID)
	s.Require().NoError(err)
	s.Equal(profile.RoleUser, p.Role)
	s.Empty(p.Favorites)
	s.False(p.CreatedAt.IsZero())

	msgs := s.mailer.Messages()
	s.Require().Len(msgs, 1)
	s.Equal("verification", msgs[0].Kind)
	s.Contains(msgs[0].Link, "https://app.example.com/verify-email?oobCode=")
}

func (s *ServiceSuite) Test_Register_DuplicateEmail() {
	s.register("ana@example.com", "secret123", "Ana")

	_, err := s.service.Register(s.ctx, auth.RegisterRequest{
		Email: "ana@example.com", Password: "other", Name: "Ana Again",
	})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	s.ErrorContains(err, "Email is already in use")
}

func (s *ServiceSuite) Test_Register_NameDefaultsFromEmail() {
	s.register("john.doe@example.com", "secret123", "")

	account, err := s.provider.GetAccountByEmail(s.ctx, "john.doe@example.com")
	s.Require().NoError(err)
	s.Equal("John Doe", account.DisplayName)
}

func (s *ServiceSuite) Test_New_HonorsSessionTTL() {
	logger := slog.New(slog.DiscardHandler)
	svc := New(s.provider, s.profiles, s.tokens, s.mailer, nil, logger, nil,
		"https://app.example.com", -time.Minute)

	s.register("ana@example.com", "secret123", "Ana")
	s.verifyEmail("ana@example.com")

	resp, err := svc.Login(s.ctx, auth.Credentials{Email: "ana@example.com", Password: "secret123"})
	s.Require().NoError(err)

	// The token was minted already expired, so it cannot resolve.
	_, err = svc.ResolveIdentity(s.ctx, "Bearer "+resp.Token)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	s.ErrorContains(err, "token has expired")
}

func (s *ServiceSuite) Test_Login_UnverifiedEmail() {
	s.register("ana@example.com", "secret123", "Ana")

	_, err := s.service.Login(s.ctx, auth.Credentials{Email: "ana@example.com", Password: "secret123"})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	s.ErrorContains(err, "Email is not verified")
}

func (s *ServiceSuite) Test_Login_WrongPassword() {
	s.register("ana@example.com", "secret123", "Ana")
	s.verifyEmail("ana@example.com")

	_, err := s.service.Login(s.ctx, auth.Credentials{Email: "ana@example.com", Password: "wrong"})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	s.ErrorContains(err, "Invalid credentials")
}

func (s *ServiceSuite) Test_Login_UnknownEmail() {
	_, err := s.service.Login(s.ctx, auth.Credentials{Email: "ghost@example.com", Password: "whatever"})
	s.Require().Error(err)
	s.ErrorContains(err, "Invalid credentials")
}

func (s *ServiceSuite) Test_Login_Succeeds_TokenRoundTrips() {
	s.register("ana@example.com", "secret123", "Ana")
	s.verifyEmail("ana@example.com")

	resp, err := s.service.Login(s.ctx, auth.Credentials{Email: "ana@example.com", Password: "secret123"})
	s.Require().NoError(err)
	s.NotEmpty(resp.Token)
	s.Equal("Ana", resp.User.Name)
	s.Equal("ana@example.com", resp.User.Email)
	s.Equal(profile.RoleUser, resp.User.Role)

	ident, err := s.service.ResolveIdentity(s.ctx, "Bearer "+resp.Token)
	s.Require().NoError(err)
	s.Equal("ana@example.com", ident.Email)
	s.Equal(profile.RoleUser, ident.Role)

	account, err := s.provider.GetAccountByEmail(s.ctx, "ana@example.com")
	s.Require().NoError(err)
	s.Equal(account.UID, ident.UID)
}

func (s *ServiceSuite) Test_Login_AccountWithoutProfile() {
	// An account can exist without a profile document when registration
	// fails between the two writes.
	_, err := s.provider.CreateAccount(s.ctx, "orphan@example.com", "secret123", "Orphan")
	s.Require().NoError(err)
	verified := true
	account, _ := s.provider.GetAccountByEmail(s.ctx, "orphan@example.com")
	s.Require().NoError(s.provider.UpdateAccount(s.ctx, account.UID, identity.AccountUpdate{EmailVerified: &verified}))

	_, err = s.service.Login(s.ctx, auth.Credentials{Email: "orphan@example.com", Password: "secret123"})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	s.ErrorContains(err, "User not found")
}

func (s *ServiceSuite) Test_ResolveIdentity_RejectsMalformedHeader() {
	for _, header := range []string{"", "Bearer", "Bearer ", "Token abc", "abc"} {
		_, err := s.service.ResolveIdentity(s.ctx, header)
		s.Require().Error(err, "header %q", header)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	}
}

func (s *ServiceSuite) Test_ResolveIdentity_RejectsResetToken() {
	s.register("ana@example.com", "secret123", "Ana")
	token, err := s.tokens.GenerateResetToken("ana@example.com", time.Hour)
	s.Require().NoError(err)

	_, err = s.service.ResolveIdentity(s.ctx, "Bearer "+token)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *ServiceSuite) Test_ForgotPassword_SameMessageEitherWay() {
	s.register("ana@example.com", "secret123", "Ana")

	known := s.service.ForgotPassword(s.ctx, "ana@example.com")
	unknown := s.service.ForgotPassword(s.ctx, "ghost@example.com")
	s.Equal(known, unknown)
	s.Equal(auth.ForgotPasswordMessage, known.Message)

	var resetMails int
	for _, msg := range s.mailer.Messages() {
		if msg.Kind == "password_reset" {
			resetMails++
			s.Equal("ana@example.com", msg.To)
		}
	}
	s.Equal(1, resetMails)
}

func (s *ServiceSuite) Test_ForgotPassword_MailFailureIsSwallowed() {
	s.register("ana@example.com", "secret123", "Ana")
	s.mailer.FailWith = context.DeadlineExceeded

	resp := s.service.ForgotPassword(s.ctx, "ana@example.com")
	s.Equal(auth.ForgotPasswordMessage, resp.Message)
}

func (s *ServiceSuite) resetLinkToken(email string) string {
	for _, msg := range s.mailer.Messages() {
		if msg.Kind == "password_reset" && msg.To == email {
			i := strings.Index(msg.Link, "token=")
			require.GreaterOrEqual(s.T(), i, 0)
			return msg.Link[i+len("token="):]
		}
	}
	s.FailNow("no reset email for " + email)
	return ""
}

func (s *ServiceSuite) Test_ResetPassword_Succeeds() {
	s.register("ana@example.com", "secret123", "Ana")
	s.verifyEmail("ana@example.com")
	s.service.ForgotPassword(s.ctx, "ana@example.com")
	token := s.resetLinkToken("ana@example.com")

	resp, err := s.service.ResetPassword(s.ctx, token, "newsecret456")
	s.Require().NoError(err)
	s.Equal(auth.PasswordResetMessage, resp.Message)

	// Old password no longer works, new one does.
	_, err = s.service.Login(s.ctx, auth.Credentials{Email: "ana@example.com", Password: "secret123"})
	s.Require().Error(err)
	login, err := s.service.Login(s.ctx, auth.Credentials{Email: "ana@example.com", Password: "newsecret456"})
	s.Require().NoError(err)
	s.NotEmpty(login.Token)

	account, _ := s.provider.GetAccountByEmail(s.ctx, "ana@example.com")
	p, err := s.profiles.Get(s.ctx, account.UID)
	s.Require().NoError(err)
	s.False(p.LastPasswordReset.IsZero())
	s.WithinDuration(time.Now().UTC(), p.LastPasswordReset, time.Minute)
}

func (s *ServiceSuite) Test_ResetPassword_InvalidToken() {
	_, err := s.service.ResetPassword(s.ctx, "not-a-token", "newsecret456")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	s.ErrorContains(err, "Invalid or expired reset token")
}

func (s *ServiceSuite) Test_ResetPassword_SessionTokenRejected() {
	s.register("ana@example.com", "secret123", "Ana")
	s.verifyEmail("ana@example.com")
	login, err := s.service.Login(s.ctx, auth.Credentials{Email: "ana@example.com", Password: "secret123"})
	s.Require().NoError(err)

	_, err = s.service.ResetPassword(s.ctx, login.Token, "newsecret456")
	s.Require().Error(err)
	s.ErrorContains(err, "Invalid or expired reset token")
}

func (s *ServiceSuite) Test_ResetPassword_TokenStaysValidUntilExpiry() {
	s.register("ana@example.com", "secret123", "Ana")
	s.service.ForgotPassword(s.ctx, "ana@example.com")
	token := s.resetLinkToken("ana@example.com")

	_, err := s.service.ResetPassword(s.ctx, token, "first-new-pass")
	s.Require().NoError(err)
	_, err = s.service.ResetPassword(s.ctx, token, "second-new-pass")
	s.Require().NoError(err)
}
