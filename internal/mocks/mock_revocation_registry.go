package mocks

import (
	"context"

	"github.com/curtesyflush1/booster-sub007/domain"
)

// MockRevocationRegistry implements domain.RevocationRegistry interface for testing
type MockRevocationRegistry struct {
	RevokeFunc           func(ctx context.Context, token, reason string) error
	IsRevokedFunc        func(ctx context.Context, token string) (bool, error)
	RevokeAllFunc        func(ctx context.Context, userID uint, reason string) error
	TrackIssuedTokenFunc func(ctx context.Context, userID uint, token string) error
}

// NewMockRevocationRegistry creates a new MockRevocationRegistry with default behaviors
func NewMockRevocationRegistry() *MockRevocationRegistry {
	return &MockRevocationRegistry{}
}

// Revoke marks a token revoked
func (m *MockRevocationRegistry) Revoke(ctx context.Context, token, reason string) error {
	if m.RevokeFunc != nil {
		return m.RevokeFunc(ctx, token, reason)
	}
	// Default behavior: success
	return nil
}

// IsRevoked reports whether a token was revoked
func (m *MockRevocationRegistry) IsRevoked(ctx context.Context, token string) (bool, error) {
	if m.IsRevokedFunc != nil {
		return m.IsRevokedFunc(ctx, token)
	}
	// Default behavior: not revoked
	return false, nil
}

// RevokeAll revokes every tracked token of a user
func (m *MockRevocationRegistry) RevokeAll(ctx context.Context, userID uint, reason string) error {
	if m.RevokeAllFunc != nil {
		return m.RevokeAllFunc(ctx, userID, reason)
	}
	// Default behavior: success
	return nil
}

// TrackIssuedToken records an issued token against its user
func (m *MockRevocationRegistry) TrackIssuedToken(ctx context.Context, userID uint, token string) error {
	if m.TrackIssuedTokenFunc != nil {
		return m.TrackIssuedTokenFunc(ctx, userID, token)
	}
	// Default behavior: success
	return nil
}

// Ensure MockRevocationRegistry implements the interface
var _ domain.RevocationRegistry = (*MockRevocationRegistry)(nil)
