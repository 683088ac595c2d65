package kms

import (
	"context"
	"errors"
	"testing"

	"github.com/curtesyflush1/booster-sub007/domain"
)

func TestEnvProvider_RequiresKeyMaterial(t *testing.T) {
	if _, err := NewEnvProvider("key", ""); !errors.Is(err, domain.ErrKMSConfiguration) {
		t.Errorf("expected ErrKMSConfiguration, got %v", err)
	}
}

func TestEnvProvider_AlwaysHealthy(t *testing.T) {
	provider, err := NewEnvProvider("key", "material")
	if err != nil {
		t.Fatalf("NewEnvProvider failed: %v", err)
	}
	if !provider.HealthCheck(context.Background()) {
		t.Error("env provider must always report healthy")
	}
}

func TestEnvProvider_MasterKeyReturnsCopy(t *testing.T) {
	provider, err := NewEnvProvider("key", "material")
	if err != nil {
		t.Fatalf("NewEnvProvider failed: %v", err)
	}

	key, err := provider.MasterKey(context.Background())
	if err != nil {
		t.Fatalf("MasterKey failed: %v", err)
	}
	if string(key) != "material" {
		t.Errorf("expected configured material, got %q", key)
	}

	// mutating the returned slice must not poison the provider
	key[0] = 'X'
	again, err := provider.MasterKey(context.Background())
	if err != nil {
		t.Fatalf("MasterKey failed: %v", err)
	}
	if string(again) != "material" {
		t.Error("provider material must be unaffected by caller mutation")
	}
}

func TestEnvProvider_RotationAppendsVersions(t *testing.T) {
	provider, err := NewEnvProvider("key", "material")
	if err != nil {
		t.Fatalf("NewEnvProvider failed: %v", err)
	}
	ctx := context.Background()

	meta, err := provider.GetKeyMetadata(ctx)
	if err != nil {
		t.Fatalf("GetKeyMetadata failed: %v", err)
	}
	if meta.Version != 1 {
		t.Errorf("expected initial version 1, got %d", meta.Version)
	}
	if meta.RotatedAt != nil {
		t.Error("unrotated key must have no rotation stamp")
	}

	v1, err := provider.RotateKey(ctx)
	if err != nil {
		t.Fatalf("RotateKey failed: %v", err)
	}
	v2, err := provider.RotateKey(ctx)
	if err != nil {
		t.Fatalf("RotateKey failed: %v", err)
	}
	if v1 == v2 {
		t.Error("each rotation must mint a distinct version id")
	}

	meta, err = provider.GetKeyMetadata(ctx)
	if err != nil {
		t.Fatalf("GetKeyMetadata failed: %v", err)
	}
	if meta.Version != 3 {
		t.Errorf("expected version 3 after two rotations, got %d", meta.Version)
	}
	if meta.RotatedAt == nil {
		t.Error("rotated key must carry a rotation stamp")
	}
}

func TestEnvProvider_CreateKeyResetsVersions(t *testing.T) {
	provider, err := NewEnvProvider("old-key", "material")
	if err != nil {
		t.Fatalf("NewEnvProvider failed: %v", err)
	}
	ctx := context.Background()

	if _, err := provider.RotateKey(ctx); err != nil {
		t.Fatalf("RotateKey failed: %v", err)
	}

	keyID, err := provider.CreateKey(ctx, "new-key", "fresh key")
	if err != nil {
		t.Fatalf("CreateKey failed: %v", err)
	}
	if keyID != "new-key" {
		t.Errorf("expected requested key id, got %q", keyID)
	}

	meta, err := provider.GetKeyMetadata(ctx)
	if err != nil {
		t.Fatalf("GetKeyMetadata failed: %v", err)
	}
	if meta.KeyID != "new-key" {
		t.Errorf("expected new key id, got %q", meta.KeyID)
	}
	if meta.Version != 1 {
		t.Errorf("a fresh key starts at version 1, got %d", meta.Version)
	}
}
