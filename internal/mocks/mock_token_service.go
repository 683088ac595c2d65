package mocks

import (
	"time"

	"github.com/curtesyflush1/booster-sub007/domain"
)

// MockTokenService implements domain.TokenService interface for testing
type MockTokenService struct {
	IssueFunc  func(userID uint) (*domain.TokenPair, error)
	VerifyFunc func(token string, role domain.KeyRole) (*domain.TokenClaims, error)
}

// NewMockTokenService creates a new MockTokenService with default behaviors
func NewMockTokenService() *MockTokenService {
	return &MockTokenService{}
}

// Issue signs a fresh token pair
func (m *MockTokenService) Issue(userID uint) (*domain.TokenPair, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(userID)
	}
	// Default behavior: static tokens
	return &domain.TokenPair{
		AccessToken:  "mock_access_token",
		RefreshToken: "mock_refresh_token",
		ExpiresIn:    900,
	}, nil
}

// Verify checks a token's signature and expiry
func (m *MockTokenService) Verify(token string, role domain.KeyRole) (*domain.TokenClaims, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(token, role)
	}
	// Default behavior: valid claims for user 1
	now := time.Now()
	return &domain.TokenClaims{
		UserID:    1,
		JTI:       "mock_jti",
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(15 * time.Minute).Unix(),
	}, nil
}

// Ensure MockTokenService implements the interface
var _ domain.TokenService = (*MockTokenService)(nil)
