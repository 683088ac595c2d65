package kms

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/curtesyflush1/booster-sub007/domain"
)

// CacheInvalidator is notified after a configuration swap or rotation so
// downstream caches of key material observe the new configuration.
type CacheInvalidator interface {
	InvalidateKeyCache()
}

// Manager implements domain.KeyManager on top of a swappable Provider.
// Candidate configurations are validated and connectivity-tested before the
// swap; the swap itself synchronously invalidates downstream key caches.
type Manager struct {
	mu           sync.RWMutex
	provider     Provider
	cfg          domain.KMSConfig
	invalidators []CacheInvalidator
	opTimeout    time.Duration
	audit        domain.AuditLogger
}

// NewManager creates a manager around an initial provider
func NewManager(provider Provider) *Manager {
	return &Manager{provider: provider, opTimeout: 5 * time.Second}
}

// NewManagerFromConfig builds the initial provider from static configuration
func NewManagerFromConfig(ctx context.Context, cfg domain.KMSConfig) (*Manager, error) {
	m := NewManager(nil)
	provider, err := m.buildProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}
	m.provider = provider
	m.cfg = cfg
	return m, nil
}

// OnConfigSwap registers a downstream cache to invalidate on swap/rotation
func (m *Manager) OnConfigSwap(inv CacheInvalidator) {
	m.mu.Lock()
	m.invalidators = append(m.invalidators, inv)
	m.mu.Unlock()
}

// UseAuditLogger attaches audit logging for rotations and config swaps
func (m *Manager) UseAuditLogger(audit domain.AuditLogger) {
	m.mu.Lock()
	m.audit = audit
	m.mu.Unlock()
}

func (m *Manager) logAudit(ctx context.Context, event *domain.AuditEvent) {
	m.mu.RLock()
	audit := m.audit
	m.mu.RUnlock()
	if audit != nil {
		audit.LogEvent(ctx, event)
	}
}

func (m *Manager) current() Provider {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.provider
}

// HealthCheck implements domain.KeyManager
func (m *Manager) HealthCheck(ctx context.Context) bool {
	return m.current().HealthCheck(ctx)
}

// RotateKey implements domain.KeyManager. Existing ciphertexts remain
// decryptable under their original version; only caches are dropped.
func (m *Manager) RotateKey(ctx context.Context) (string, error) {
	versionID, err := m.current().RotateKey(ctx)
	if err != nil {
		return "", err
	}
	m.invalidateCaches()
	m.logAudit(ctx, domain.NewAuditEvent(domain.KeyRotatedEvent, 0).WithMetadata("key_version", versionID))
	return versionID, nil
}

// GetKeyMetadata implements domain.KeyManager
func (m *Manager) GetKeyMetadata(ctx context.Context) (*domain.KeyMetadata, error) {
	return m.current().GetKeyMetadata(ctx)
}

// CreateKey implements domain.KeyManager
func (m *Manager) CreateKey(ctx context.Context, id, description string) (string, error) {
	return m.current().CreateKey(ctx, id, description)
}

// GetConfiguration implements domain.KeyManager. Key material never leaves
// the manager; the envelope only reports whether any is set.
func (m *Manager) GetConfiguration(ctx context.Context) *domain.KMSResult {
	m.mu.RLock()
	provider := m.provider
	cfg := m.cfg
	m.mu.RUnlock()

	return &domain.KMSResult{
		Success: true,
		Message: "active configuration",
		Data: map[string]any{
			"provider":         provider.Name(),
			"region":           cfg.Region,
			"key_id":           cfg.KeyID,
			"key_material_set": cfg.KeyMaterial != "",
		},
	}
}

// TestConfiguration implements domain.KeyManager. Failures are expected
// operational events, reported in the envelope rather than raised.
func (m *Manager) TestConfiguration(ctx context.Context, candidate domain.KMSConfig) *domain.KMSResult {
	provider, err := m.buildProvider(ctx, candidate)
	if err != nil {
		return &domain.KMSResult{
			Success: false,
			Message: "configuration rejected",
			Error:   err.Error(),
		}
	}

	testCtx, cancel := context.WithTimeout(ctx, m.opTimeout)
	defer cancel()
	if !provider.HealthCheck(testCtx) {
		return &domain.KMSResult{
			Success: false,
			Message: "connectivity test failed",
			Error:   domain.ErrKMSConnectivity.Error(),
		}
	}

	return &domain.KMSResult{
		Success: true,
		Message: "configuration is valid and reachable",
		Data:    map[string]any{"provider": provider.Name()},
	}
}

// UpdateConfiguration implements domain.KeyManager
func (m *Manager) UpdateConfiguration(ctx context.Context, candidate domain.KMSConfig) *domain.KMSResult {
	provider, err := m.buildProvider(ctx, candidate)
	if err != nil {
		return &domain.KMSResult{
			Success: false,
			Message: "configuration rejected",
			Error:   err.Error(),
		}
	}

	testCtx, cancel := context.WithTimeout(ctx, m.opTimeout)
	defer cancel()
	if !provider.HealthCheck(testCtx) {
		return &domain.KMSResult{
			Success: false,
			Message: "connectivity test failed, configuration not applied",
			Error:   domain.ErrKMSConnectivity.Error(),
		}
	}

	m.mu.Lock()
	m.provider = provider
	m.cfg = candidate
	m.mu.Unlock()
	m.invalidateCaches()
	m.logAudit(ctx, domain.NewAuditEvent(domain.KMSConfigSwapEvent, 0).WithMetadata("provider", provider.Name()))

	return &domain.KMSResult{
		Success: true,
		Message: "configuration updated",
		Data:    map[string]any{"provider": provider.Name()},
	}
}

// MasterKey exposes the current provider's key material to the credential
// cipher (crypto.MasterKeySource).
func (m *Manager) MasterKey() ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), m.opTimeout)
	defer cancel()
	return m.current().MasterKey(ctx)
}

func (m *Manager) invalidateCaches() {
	m.mu.RLock()
	invalidators := m.invalidators
	m.mu.RUnlock()
	for _, inv := range invalidators {
		inv.InvalidateKeyCache()
	}
}

func (m *Manager) buildProvider(ctx context.Context, cfg domain.KMSConfig) (Provider, error) {
	switch cfg.Provider {
	case "", "env":
		return NewEnvProvider(cfg.KeyID, cfg.KeyMaterial)
	case "aws":
		return NewAWSProvider(ctx, cfg.Region, cfg.KeyID, cfg.KeyMaterial)
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", domain.ErrKMSConfiguration, cfg.Provider)
	}
}
