package jwttoken

import (
	"errors"
	"time"

	dErrors "apotheca/pkg/domain-errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token purposes. Session and reset tokens share the signing mechanism but
// are never interchangeable: validation checks the purpose claim.
const (
	PurposeSession = "session"
	PurposeReset   = "reset"
)

// Claims represents the JWT claims for session and password-reset tokens.
// Session tokens carry the subject uid, email and role; reset tokens carry
// only the email. Role is embedded at login so authorized calls skip a
// profile lookup; role changes take effect at the next login.
type Claims struct {
	Email   string `json:"email"`
	Role    string `json:"role,omitempty"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// JWTService handles JWT creation and validation
type JWTService struct {
	signingKey []byte
	issuer     string
}

func NewJWTService(signingKey string, issuer string) *JWTService {
	return &JWTService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
	}
}

func (s *JWTService) GenerateSessionToken(uid, email, role string, expiresIn time.Duration) (string, error) {
	newToken := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Email:   email,
		Role:    role,
		Purpose: PurposeSession,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uid,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    s.issuer,
			ID:        uuid.NewString(),
		},
	})

	signedToken, err := newToken.SignedString(s.signingKey)
	if err != nil {
		return "", err
	}
	return signedToken, nil
}

// GenerateResetToken mints a time-bounded password-reset token for the given
// email. There is no server-side single-use tracking; validity is solely a
// function of signature and expiry.
func (s *JWTService) GenerateResetToken(email string, expiresIn time.Duration) (string, error) {
	newToken := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Email:   email,
		Purpose: PurposeReset,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    s.issuer,
			ID:        uuid.NewString(),
		},
	})

	signedToken, err := newToken.SignedString(s.signingKey)
	if err != nil {
		return "", err
	}
	return signedToken, nil
}

// ValidateSessionToken verifies signature, expiry and purpose, and requires
// an email claim.
func (s *JWTService) ValidateSessionToken(tokenString string) (*Claims, error) {
	return s.validate(tokenString, PurposeSession)
}

// ValidateResetToken verifies signature, expiry and purpose, and requires an
// email claim.
func (s *JWTService) ValidateResetToken(tokenString string) (*Claims, error) {
	return s.validate(tokenString, PurposeReset)
}

func (s *JWTService) validate(tokenString, purpose string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	if !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}

	if claims.Purpose != purpose {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token purpose")
	}
	if claims.Email == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}

	return claims, nil
}
