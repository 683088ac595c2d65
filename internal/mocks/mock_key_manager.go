package mocks

import (
	"context"
	"time"

	"github.com/curtesyflush1/booster-sub007/domain"
)

// MockKeyManager implements domain.KeyManager interface for testing
type MockKeyManager struct {
	HealthCheckFunc         func(ctx context.Context) bool
	RotateKeyFunc           func(ctx context.Context) (string, error)
	GetKeyMetadataFunc      func(ctx context.Context) (*domain.KeyMetadata, error)
	CreateKeyFunc           func(ctx context.Context, id, description string) (string, error)
	GetConfigurationFunc    func(ctx context.Context) *domain.KMSResult
	TestConfigurationFunc   func(ctx context.Context, candidate domain.KMSConfig) *domain.KMSResult
	UpdateConfigurationFunc func(ctx context.Context, candidate domain.KMSConfig) *domain.KMSResult
}

// NewMockKeyManager creates a new MockKeyManager with default behaviors
func NewMockKeyManager() *MockKeyManager {
	return &MockKeyManager{}
}

// HealthCheck reports provider reachability
func (m *MockKeyManager) HealthCheck(ctx context.Context) bool {
	if m.HealthCheckFunc != nil {
		return m.HealthCheckFunc(ctx)
	}
	// Default behavior: healthy
	return true
}

// RotateKey rotates the master key
func (m *MockKeyManager) RotateKey(ctx context.Context) (string, error) {
	if m.RotateKeyFunc != nil {
		return m.RotateKeyFunc(ctx)
	}
	// Default behavior: static version
	return "mock_key_version", nil
}

// GetKeyMetadata returns the active key's metadata
func (m *MockKeyManager) GetKeyMetadata(ctx context.Context) (*domain.KeyMetadata, error) {
	if m.GetKeyMetadataFunc != nil {
		return m.GetKeyMetadataFunc(ctx)
	}
	// Default behavior: env-style metadata
	return &domain.KeyMetadata{
		KeyID:     "mock_key",
		Version:   1,
		Provider:  "env",
		CreatedAt: time.Now(),
	}, nil
}

// CreateKey provisions a new master key
func (m *MockKeyManager) CreateKey(ctx context.Context, id, description string) (string, error) {
	if m.CreateKeyFunc != nil {
		return m.CreateKeyFunc(ctx, id, description)
	}
	// Default behavior: echo the requested id
	return id, nil
}

// GetConfiguration reports the active configuration
func (m *MockKeyManager) GetConfiguration(ctx context.Context) *domain.KMSResult {
	if m.GetConfigurationFunc != nil {
		return m.GetConfigurationFunc(ctx)
	}
	// Default behavior: env configuration with material redacted
	return &domain.KMSResult{
		Success: true,
		Message: "active configuration",
		Data: map[string]any{
			"provider":         "env",
			"key_id":           "mock_key",
			"key_material_set": true,
		},
	}
}

// TestConfiguration validates a candidate configuration
func (m *MockKeyManager) TestConfiguration(ctx context.Context, candidate domain.KMSConfig) *domain.KMSResult {
	if m.TestConfigurationFunc != nil {
		return m.TestConfigurationFunc(ctx, candidate)
	}
	// Default behavior: accepted
	return &domain.KMSResult{Success: true, Message: "configuration is valid and reachable"}
}

// UpdateConfiguration applies a candidate configuration
func (m *MockKeyManager) UpdateConfiguration(ctx context.Context, candidate domain.KMSConfig) *domain.KMSResult {
	if m.UpdateConfigurationFunc != nil {
		return m.UpdateConfigurationFunc(ctx, candidate)
	}
	// Default behavior: applied
	return &domain.KMSResult{Success: true, Message: "configuration updated"}
}

// Ensure MockKeyManager implements the interface
var _ domain.KeyManager = (*MockKeyManager)(nil)
