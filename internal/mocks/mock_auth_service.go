package mocks

import (
	"context"

	"github.com/curtesyflush1/booster-sub007/domain"
)

// MockAuthService implements domain.AuthService interface for testing
type MockAuthService struct {
	RegisterFunc             func(ctx context.Context, email, password string) (*domain.AuthResult, error)
	LoginFunc                func(ctx context.Context, email, password string) (*domain.AuthResult, error)
	RefreshFunc              func(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	LogoutFunc               func(ctx context.Context, accessToken, refreshToken string) error
	LogoutAllDevicesFunc     func(ctx context.Context, userID uint) error
	RequestPasswordResetFunc func(ctx context.Context, email string) error
	ResetPasswordFunc        func(ctx context.Context, token, newPassword string) error
	ChangePasswordFunc       func(ctx context.Context, userID uint, current, new string) error
	VerifyEmailFunc          func(ctx context.Context, token string) error
	GetUserProfileFunc       func(ctx context.Context, userID uint) (*domain.User, error)
}

// NewMockAuthService creates a new MockAuthService with default behaviors
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

func mockAuthResult(email string) *domain.AuthResult {
	return &domain.AuthResult{
		User: &domain.User{ID: 1, Email: email, Role: "user"},
		Tokens: domain.TokenPair{
			AccessToken:  "mock_access_token",
			RefreshToken: "mock_refresh_token",
			ExpiresIn:    900,
		},
	}
}

// Register registers a new user
func (m *MockAuthService) Register(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, email, password)
	}
	// Default behavior: success
	return mockAuthResult(email), nil
}

// Login authenticates a user
func (m *MockAuthService) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	// Default behavior: success
	return mockAuthResult(email), nil
}

// Refresh rotates a refresh token
func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, refreshToken)
	}
	// Default behavior: fresh pair
	return &domain.TokenPair{
		AccessToken:  "mock_access_token_2",
		RefreshToken: "mock_refresh_token_2",
		ExpiresIn:    900,
	}, nil
}

// Logout revokes the presented tokens
func (m *MockAuthService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, accessToken, refreshToken)
	}
	// Default behavior: success
	return nil
}

// LogoutAllDevices revokes all tracked tokens of a user
func (m *MockAuthService) LogoutAllDevices(ctx context.Context, userID uint) error {
	if m.LogoutAllDevicesFunc != nil {
		return m.LogoutAllDevicesFunc(ctx, userID)
	}
	// Default behavior: success
	return nil
}

// RequestPasswordReset starts a password reset flow
func (m *MockAuthService) RequestPasswordReset(ctx context.Context, email string) error {
	if m.RequestPasswordResetFunc != nil {
		return m.RequestPasswordResetFunc(ctx, email)
	}
	// Default behavior: success
	return nil
}

// ResetPassword consumes a reset token
func (m *MockAuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, token, newPassword)
	}
	// Default behavior: success
	return nil
}

// ChangePassword changes an authenticated user's password
func (m *MockAuthService) ChangePassword(ctx context.Context, userID uint, current, new string) error {
	if m.ChangePasswordFunc != nil {
		return m.ChangePasswordFunc(ctx, userID, current, new)
	}
	// Default behavior: success
	return nil
}

// VerifyEmail consumes a verification token
func (m *MockAuthService) VerifyEmail(ctx context.Context, token string) error {
	if m.VerifyEmailFunc != nil {
		return m.VerifyEmailFunc(ctx, token)
	}
	// Default behavior: success
	return nil
}

// GetUserProfile returns a user's profile
func (m *MockAuthService) GetUserProfile(ctx context.Context, userID uint) (*domain.User, error) {
	if m.GetUserProfileFunc != nil {
		return m.GetUserProfileFunc(ctx, userID)
	}
	// Default behavior: mock user
	return &domain.User{ID: userID, Email: "user@example.com", Role: "user"}, nil
}

// Ensure MockAuthService implements the interface
var _ domain.AuthService = (*MockAuthService)(nil)
