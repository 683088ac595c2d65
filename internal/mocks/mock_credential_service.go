package mocks

import (
	"context"

	"github.com/curtesyflush1/booster-sub007/domain"
)

// MockCredentialService implements domain.CredentialService interface for testing
type MockCredentialService struct {
	StoreFunc      func(ctx context.Context, userID uint, retailer, username, password, userSecret string, twoFactor bool) error
	GetFunc        func(ctx context.Context, userID uint, retailer, userSecret string) (string, error)
	ListFunc       func(ctx context.Context, userID uint) ([]*domain.EncryptedCredential, error)
	DeleteFunc     func(ctx context.Context, userID uint, retailer string) error
	VerifyFunc     func(ctx context.Context, userID uint, retailer, userSecret string) error
	MigrateFunc    func(ctx context.Context, userID uint, retailer, userSecret string) error
	MigrateAllFunc func(ctx context.Context, userID uint, userSecret string) (*domain.MigrationReport, error)
}

// NewMockCredentialService creates a new MockCredentialService with default behaviors
func NewMockCredentialService() *MockCredentialService {
	return &MockCredentialService{}
}

// Store encrypts and persists a credential
func (m *MockCredentialService) Store(ctx context.Context, userID uint, retailer, username, password, userSecret string, twoFactor bool) error {
	if m.StoreFunc != nil {
		return m.StoreFunc(ctx, userID, retailer, username, password, userSecret, twoFactor)
	}
	// Default behavior: success
	return nil
}

// Get decrypts a stored credential
func (m *MockCredentialService) Get(ctx context.Context, userID uint, retailer, userSecret string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, userID, retailer, userSecret)
	}
	// Default behavior: static plaintext
	return "mock_password", nil
}

// List returns the user's credentials
func (m *MockCredentialService) List(ctx context.Context, userID uint) ([]*domain.EncryptedCredential, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID)
	}
	// Default behavior: empty list
	return []*domain.EncryptedCredential{}, nil
}

// Delete removes a credential
func (m *MockCredentialService) Delete(ctx context.Context, userID uint, retailer string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userID, retailer)
	}
	// Default behavior: success
	return nil
}

// Verify round-trips a stored ciphertext
func (m *MockCredentialService) Verify(ctx context.Context, userID uint, retailer, userSecret string) error {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, userID, retailer, userSecret)
	}
	// Default behavior: healthy
	return nil
}

// Migrate re-encrypts one legacy credential
func (m *MockCredentialService) Migrate(ctx context.Context, userID uint, retailer, userSecret string) error {
	if m.MigrateFunc != nil {
		return m.MigrateFunc(ctx, userID, retailer, userSecret)
	}
	// Default behavior: success
	return nil
}

// MigrateAll re-encrypts all legacy credentials of a user
func (m *MockCredentialService) MigrateAll(ctx context.Context, userID uint, userSecret string) (*domain.MigrationReport, error) {
	if m.MigrateAllFunc != nil {
		return m.MigrateAllFunc(ctx, userID, userSecret)
	}
	// Default behavior: empty report
	return &domain.MigrationReport{Migrated: []string{}, Skipped: []string{}, Failed: []string{}}, nil
}

// Ensure MockCredentialService implements the interface
var _ domain.CredentialService = (*MockCredentialService)(nil)
