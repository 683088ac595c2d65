package kms

import (
	"context"

	"github.com/curtesyflush1/booster-sub007/domain"
)

// Provider is a single key-management backend. The Manager composes one
// current provider with configuration testing/swapping on top.
type Provider interface {
	Name() string
	HealthCheck(ctx context.Context) bool
	// RotateKey produces a new key version; existing ciphertexts remain
	// decryptable under their original version until re-encrypted
	RotateKey(ctx context.Context) (string, error)
	GetKeyMetadata(ctx context.Context) (*domain.KeyMetadata, error)
	CreateKey(ctx context.Context, id, description string) (string, error)
	// MasterKey returns the current master key material for the
	// credential-encryption layer
	MasterKey(ctx context.Context) ([]byte, error)
}
