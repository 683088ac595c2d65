package mocks

import (
	"context"

	"github.com/curtesyflush1/booster-sub007/domain"
)

// MockLockoutPolicy implements domain.LockoutPolicy interface for testing
type MockLockoutPolicy struct {
	CheckLockFunc       func(user *domain.User) error
	RegisterFailureFunc func(ctx context.Context, user *domain.User) error
	RegisterSuccessFunc func(ctx context.Context, user *domain.User) error
}

// NewMockLockoutPolicy creates a new MockLockoutPolicy with default behaviors
func NewMockLockoutPolicy() *MockLockoutPolicy {
	return &MockLockoutPolicy{}
}

// CheckLock reports whether the account is inside a lock window
func (m *MockLockoutPolicy) CheckLock(user *domain.User) error {
	if m.CheckLockFunc != nil {
		return m.CheckLockFunc(user)
	}
	// Default behavior: not locked
	return nil
}

// RegisterFailure records a failed attempt
func (m *MockLockoutPolicy) RegisterFailure(ctx context.Context, user *domain.User) error {
	if m.RegisterFailureFunc != nil {
		return m.RegisterFailureFunc(ctx, user)
	}
	// Default behavior: success
	return nil
}

// RegisterSuccess clears failure state after a successful login
func (m *MockLockoutPolicy) RegisterSuccess(ctx context.Context, user *domain.User) error {
	if m.RegisterSuccessFunc != nil {
		return m.RegisterSuccessFunc(ctx, user)
	}
	// Default behavior: success
	return nil
}

// Ensure MockLockoutPolicy implements the interface
var _ domain.LockoutPolicy = (*MockLockoutPolicy)(nil)
