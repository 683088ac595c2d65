package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/curtesyflush1/booster-sub007/domain"
)

// SecretTokenConfig tunes the single-use token windows
type SecretTokenConfig struct {
	ResetTTL        time.Duration
	VerificationTTL time.Duration
}

// SecretTokenServiceImpl implements domain.SecretTokenService. Both token
// classes are 32 random bytes, stored directly on the user record, single-use
// and time-boxed.
type SecretTokenServiceImpl struct {
	userRepo    domain.UserRepository
	passwordSvc domain.PasswordService
	revocations domain.RevocationRegistry
	config      SecretTokenConfig
}

// NewSecretTokenService creates a new secret token service
func NewSecretTokenService(
	userRepo domain.UserRepository,
	passwordSvc domain.PasswordService,
	revocations domain.RevocationRegistry,
	config SecretTokenConfig,
) domain.SecretTokenService {
	return &SecretTokenServiceImpl{
		userRepo:    userRepo,
		passwordSvc: passwordSvc,
		revocations: revocations,
		config:      config,
	}
}

// generateSecureToken returns a cryptographically strong random token
func generateSecureToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate secure token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// IssueResetToken implements domain.SecretTokenService
func (s *SecretTokenServiceImpl) IssueResetToken(ctx context.Context, user *domain.User) (string, error) {
	token, err := generateSecureToken()
	if err != nil {
		return "", err
	}

	expiry := time.Now().Add(s.config.ResetTTL)
	user.ResetToken = token
	user.ResetTokenExpiry = &expiry
	if err := s.userRepo.Update(ctx, user); err != nil {
		return "", fmt.Errorf("failed to store reset token: %w", err)
	}
	return token, nil
}

// ConsumeResetToken implements domain.SecretTokenService. The token is
// invalidated immediately on success, and every previously issued bearer
// token is revoked: they were authorized under the now-changed secret.
func (s *SecretTokenServiceImpl) ConsumeResetToken(ctx context.Context, token, newPassword string) (*domain.User, error) {
	user, err := s.userRepo.FindByResetToken(ctx, token)
	if err != nil {
		return nil, domain.ErrResetTokenInvalid
	}

	if user.ResetTokenExpiry == nil || time.Now().After(*user.ResetTokenExpiry) {
		return nil, domain.ErrResetTokenInvalid
	}

	hashed, err := s.passwordSvc.Hash(newPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash new password: %w", err)
	}

	user.PasswordHash = hashed
	user.ResetToken = ""
	user.ResetTokenExpiry = nil
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update password: %w", err)
	}

	if err := s.revocations.RevokeAll(ctx, user.ID, "password_reset"); err != nil {
		return nil, fmt.Errorf("failed to revoke existing tokens: %w", err)
	}
	return user, nil
}

// IssueVerificationToken implements domain.SecretTokenService. Verification
// tokens carry an expiry too; an unbounded bearer secret sitting in an inbox
// is strictly worse than asking the user to request a fresh one.
func (s *SecretTokenServiceImpl) IssueVerificationToken(ctx context.Context, user *domain.User) (string, error) {
	token, err := generateSecureToken()
	if err != nil {
		return "", err
	}

	expiry := time.Now().Add(s.config.VerificationTTL)
	user.VerificationToken = token
	user.VerificationExpiry = &expiry
	if err := s.userRepo.Update(ctx, user); err != nil {
		return "", fmt.Errorf("failed to store verification token: %w", err)
	}
	return token, nil
}

// ConsumeVerificationToken implements domain.SecretTokenService. Idempotent
// for an already-verified account.
func (s *SecretTokenServiceImpl) ConsumeVerificationToken(ctx context.Context, token string) (*domain.User, error) {
	user, err := s.userRepo.FindByVerificationToken(ctx, token)
	if err != nil {
		return nil, domain.ErrVerificationTokenInvalid
	}

	if user.EmailVerified {
		return user, nil
	}

	if user.VerificationExpiry != nil && time.Now().After(*user.VerificationExpiry) {
		return nil, domain.ErrVerificationTokenInvalid
	}

	user.EmailVerified = true
	user.VerificationToken = ""
	user.VerificationExpiry = nil
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to mark user verified: %w", err)
	}
	return user, nil
}
