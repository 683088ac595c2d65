package kms

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/curtesyflush1/booster-sub007/domain"
)

// EnvProvider sources key material from static configuration instead of a
// managed service. It is the default when no external provider is configured
// and always reports healthy.
type EnvProvider struct {
	mu       sync.Mutex
	keyID    string
	material []byte
	versions []envKeyVersion
}

type envKeyVersion struct {
	id        string
	createdAt time.Time
}

// NewEnvProvider creates an environment-backed provider from configured
// key material
func NewEnvProvider(keyID, material string) (*EnvProvider, error) {
	if material == "" {
		return nil, fmt.Errorf("%w: env provider requires key material", domain.ErrKMSConfiguration)
	}
	if keyID == "" {
		keyID = uuid.NewString()
	}
	return &EnvProvider{
		keyID:    keyID,
		material: []byte(material),
		versions: []envKeyVersion{{id: uuid.NewString(), createdAt: time.Now()}},
	}, nil
}

func (p *EnvProvider) Name() string { return "env" }

// HealthCheck always succeeds: static key material has no connectivity to lose
func (p *EnvProvider) HealthCheck(ctx context.Context) bool { return true }

// RotateKey appends a new key version. Prior versions stay on record so
// material encrypted before rotation remains attributable.
func (p *EnvProvider) RotateKey(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	version := envKeyVersion{id: uuid.NewString(), createdAt: time.Now()}
	p.versions = append(p.versions, version)
	return version.id, nil
}

// GetKeyMetadata implements Provider
func (p *EnvProvider) GetKeyMetadata(ctx context.Context) (*domain.KeyMetadata, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	meta := &domain.KeyMetadata{
		KeyID:     p.keyID,
		Version:   len(p.versions),
		Provider:  p.Name(),
		CreatedAt: p.versions[0].createdAt,
	}
	if len(p.versions) > 1 {
		rotatedAt := p.versions[len(p.versions)-1].createdAt
		meta.RotatedAt = &rotatedAt
	}
	return meta, nil
}

// CreateKey implements Provider
func (p *EnvProvider) CreateKey(ctx context.Context, id, description string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if id == "" {
		id = uuid.NewString()
	}
	p.keyID = id
	p.versions = []envKeyVersion{{id: uuid.NewString(), createdAt: time.Now()}}
	return id, nil
}

// MasterKey implements Provider
func (p *EnvProvider) MasterKey(ctx context.Context) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]byte{}, p.material...), nil
}
