package mocks

import (
	"context"

	"github.com/curtesyflush1/booster-sub007/domain"
)

// MockSecretTokenService implements domain.SecretTokenService interface for testing
type MockSecretTokenService struct {
	IssueResetTokenFunc          func(ctx context.Context, user *domain.User) (string, error)
	ConsumeResetTokenFunc        func(ctx context.Context, token, newPassword string) (*domain.User, error)
	IssueVerificationTokenFunc   func(ctx context.Context, user *domain.User) (string, error)
	ConsumeVerificationTokenFunc func(ctx context.Context, token string) (*domain.User, error)
}

// NewMockSecretTokenService creates a new MockSecretTokenService with default behaviors
func NewMockSecretTokenService() *MockSecretTokenService {
	return &MockSecretTokenService{}
}

// IssueResetToken issues a password reset token
func (m *MockSecretTokenService) IssueResetToken(ctx context.Context, user *domain.User) (string, error) {
	if m.IssueResetTokenFunc != nil {
		return m.IssueResetTokenFunc(ctx, user)
	}
	// Default behavior: static token
	return "mock_reset_token", nil
}

// ConsumeResetToken consumes a reset token and sets the new password
func (m *MockSecretTokenService) ConsumeResetToken(ctx context.Context, token, newPassword string) (*domain.User, error) {
	if m.ConsumeResetTokenFunc != nil {
		return m.ConsumeResetTokenFunc(ctx, token, newPassword)
	}
	// Default behavior: invalid token
	return nil, domain.ErrResetTokenInvalid
}

// IssueVerificationToken issues an email verification token
func (m *MockSecretTokenService) IssueVerificationToken(ctx context.Context, user *domain.User) (string, error) {
	if m.IssueVerificationTokenFunc != nil {
		return m.IssueVerificationTokenFunc(ctx, user)
	}
	// Default behavior: static token
	return "mock_verification_token", nil
}

// ConsumeVerificationToken consumes a verification token
func (m *MockSecretTokenService) ConsumeVerificationToken(ctx context.Context, token string) (*domain.User, error) {
	if m.ConsumeVerificationTokenFunc != nil {
		return m.ConsumeVerificationTokenFunc(ctx, token)
	}
	// Default behavior: invalid token
	return nil, domain.ErrVerificationTokenInvalid
}

// Ensure MockSecretTokenService implements the interface
var _ domain.SecretTokenService = (*MockSecretTokenService)(nil)
