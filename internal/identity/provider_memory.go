package identity

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"apotheca/pkg/platform/sentinel"
)

// ResetTokenSigner mints the signed reset credential embedded in password
// reset links. Satisfied by jwt_token.JWTService.
type ResetTokenSigner interface {
	GenerateResetToken(email string, expiresIn time.Duration) (string, error)
}

// MemoryProvider is an in-process identity provider for development and
// tests. Credentials are bcrypt-hashed; verification links carry an opaque
// code the provider itself redeems. It deliberately mirrors the external
// provider contract, including its failure modes.
type MemoryProvider struct {
	mu          sync.RWMutex
	byUID       map[string]*record
	uidByEmail  map[string]string
	verifyCodes map[string]string // code -> uid
	resets      ResetTokenSigner
	resetTTL    time.Duration
}

type record struct {
	account      Account
	passwordHash []byte
}

func NewMemoryProvider(resets ResetTokenSigner, resetTTL time.Duration) *MemoryProvider {
	return &MemoryProvider{
		byUID:       make(map[string]*record),
		uidByEmail:  make(map[string]string),
		verifyCodes: make(map[string]string),
		resets:      resets,
		resetTTL:    resetTTL,
	}
}

func (p *MemoryProvider) CreateAccount(_ context.Context, email, password, displayName string) (Account, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.uidByEmail[email]; exists {
		return Account{}, fmt.Errorf("account %q: %w", email, sentinel.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Account{}, fmt.Errorf("hash password: %w", err)
	}

	account := Account{
		UID:         uuid.NewString(),
		Email:       email,
		DisplayName: displayName,
	}
	p.byUID[account.UID] = &record{account: account, passwordHash: hash}
	p.uidByEmail[email] = account.UID
	return account, nil
}

func (p *MemoryProvider) GetAccountByEmail(_ context.Context, email string) (Account, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	uid, ok := p.uidByEmail[email]
	if !ok {
		return Account{}, sentinel.ErrNotFound
	}
	return p.byUID[uid].account, nil
}

func (p *MemoryProvider) VerifyCredentials(_ context.Context, email, password string) (Account, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	uid, ok := p.uidByEmail[email]
	if !ok {
		return Account{}, sentinel.ErrNotFound
	}
	rec := p.byUID[uid]
	if err := bcrypt.CompareHashAndPassword(rec.passwordHash, []byte(password)); err != nil {
		return Account{}, sentinel.ErrNotFound
	}
	return rec.account, nil
}

func (p *MemoryProvider) UpdateAccount(_ context.Context, uid string, update AccountUpdate) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	rec, ok := p.byUID[uid]
	if !ok {
		return sentinel.ErrNotFound
	}
	if update.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*update.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		rec.passwordHash = hash
	}
	if update.EmailVerified != nil {
		rec.account.EmailVerified = *update.EmailVerified
	}
	if update.DisplayName != nil {
		rec.account.DisplayName = *update.DisplayName
	}
	return nil
}

func (p *MemoryProvider) GenerateEmailVerificationLink(_ context.Context, email, redirectURL string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	uid, ok := p.uidByEmail[email]
	if !ok {
		return "", sentinel.ErrNotFound
	}
	code := uuid.NewString()
	p.verifyCodes[code] = uid
	return fmt.Sprintf("%s?oobCode=%s", redirectURL, code), nil
}

func (p *MemoryProvider) GeneratePasswordResetLink(ctx context.Context, email, redirectURL string) (string, error) {
	if _, err := p.GetAccountByEmail(ctx, email); err != nil {
		return "", err
	}
	token, err := p.resets.GenerateResetToken(email, p.resetTTL)
	if err != nil {
		return "", fmt.Errorf("sign reset token: %w", err)
	}
	return fmt.Sprintf("%s?token=%s", redirectURL, token), nil
}

// RedeemVerificationCode marks the account behind a verification link as
// verified. Codes are single-use.
func (p *MemoryProvider) RedeemVerificationCode(_ context.Context, code string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	uid, ok := p.verifyCodes[code]
	if !ok {
		return sentinel.ErrNotFound
	}
	delete(p.verifyCodes, code)
	p.byUID[uid].account.EmailVerified = true
	return nil
}
