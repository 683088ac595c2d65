package mocks

import (
	"context"

	"github.com/curtesyflush1/booster-sub007/domain"
)

// MockCredentialRepository implements domain.CredentialRepository interface for testing
type MockCredentialRepository struct {
	UpsertFunc                func(ctx context.Context, cred *domain.EncryptedCredential) error
	FindByUserAndRetailerFunc func(ctx context.Context, userID uint, retailer string) (*domain.EncryptedCredential, error)
	ListByUserFunc            func(ctx context.Context, userID uint) ([]*domain.EncryptedCredential, error)
	DeleteFunc                func(ctx context.Context, userID uint, retailer string) error
}

// NewMockCredentialRepository creates a new MockCredentialRepository with default behaviors
func NewMockCredentialRepository() *MockCredentialRepository {
	return &MockCredentialRepository{}
}

// Upsert stores or replaces a credential
func (m *MockCredentialRepository) Upsert(ctx context.Context, cred *domain.EncryptedCredential) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, cred)
	}
	// Default behavior: success
	return nil
}

// FindByUserAndRetailer finds a credential by its owner and retailer
func (m *MockCredentialRepository) FindByUserAndRetailer(ctx context.Context, userID uint, retailer string) (*domain.EncryptedCredential, error) {
	if m.FindByUserAndRetailerFunc != nil {
		return m.FindByUserAndRetailerFunc(ctx, userID, retailer)
	}
	// Default behavior: not found
	return nil, domain.ErrCredentialNotFound
}

// ListByUser lists all credentials of a user
func (m *MockCredentialRepository) ListByUser(ctx context.Context, userID uint) ([]*domain.EncryptedCredential, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	// Default behavior: empty list
	return []*domain.EncryptedCredential{}, nil
}

// Delete removes a credential
func (m *MockCredentialRepository) Delete(ctx context.Context, userID uint, retailer string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userID, retailer)
	}
	// Default behavior: success
	return nil
}

// Ensure MockCredentialRepository implements the interface
var _ domain.CredentialRepository = (*MockCredentialRepository)(nil)
