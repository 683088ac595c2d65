package repositories

import (
	"context"
	"testing"

	"github.com/curtesyflush1/booster-sub007/domain"
)

func TestCredentialRepositoryImpl_UpsertReplacesBlob(t *testing.T) {
	repo := NewCredentialRepository(setupTestDB(t))
	ctx := context.Background()

	cred := &domain.EncryptedCredential{
		UserID:     1,
		Retailer:   "bestbuy",
		Username:   "shopper",
		Ciphertext: "v2:first-blob",
		Scheme:     domain.SchemeUserSpecific,
		Active:     true,
	}
	if err := repo.Upsert(ctx, cred); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	firstID := cred.ID

	replacement := &domain.EncryptedCredential{
		UserID:              1,
		Retailer:            "bestbuy",
		Username:            "shopper2",
		Ciphertext:          "v2:second-blob",
		Scheme:              domain.SchemeUserSpecific,
		FailedVerifications: 1,
		Active:              true,
	}
	if err := repo.Upsert(ctx, replacement); err != nil {
		t.Fatalf("second Upsert failed: %v", err)
	}

	stored, err := repo.FindByUserAndRetailer(ctx, 1, "bestbuy")
	if err != nil {
		t.Fatalf("FindByUserAndRetailer failed: %v", err)
	}
	if stored.ID != firstID {
		t.Errorf("upsert must stay on row %d, got %d", firstID, stored.ID)
	}
	if stored.Ciphertext != "v2:second-blob" {
		t.Errorf("expected replaced blob, got %q", stored.Ciphertext)
	}
	if stored.Username != "shopper2" {
		t.Errorf("expected replaced username, got %q", stored.Username)
	}
	if stored.FailedVerifications != 1 {
		t.Errorf("expected replaced failure count, got %d", stored.FailedVerifications)
	}

	list, err := repo.ListByUser(ctx, 1)
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("expected one row per user+retailer, got %d", len(list))
	}
}

func TestCredentialRepositoryImpl_ScopedToUser(t *testing.T) {
	repo := NewCredentialRepository(setupTestDB(t))
	ctx := context.Background()

	for _, cred := range []*domain.EncryptedCredential{
		{UserID: 1, Retailer: "bestbuy", Ciphertext: "blob1", Scheme: domain.SchemeGlobal, Active: true},
		{UserID: 1, Retailer: "target", Ciphertext: "blob2", Scheme: domain.SchemeUserSpecific, Active: true},
		{UserID: 2, Retailer: "bestbuy", Ciphertext: "blob3", Scheme: domain.SchemeUserSpecific, Active: true},
	} {
		if err := repo.Upsert(ctx, cred); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
	}

	list, err := repo.ListByUser(ctx, 1)
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 credentials for user 1, got %d", len(list))
	}
	// ordered by retailer
	if list[0].Retailer != "bestbuy" || list[1].Retailer != "target" {
		t.Errorf("expected retailer-ordered list, got %s, %s", list[0].Retailer, list[1].Retailer)
	}

	if _, err := repo.FindByUserAndRetailer(ctx, 2, "target"); err != domain.ErrCredentialNotFound {
		t.Errorf("expected ErrCredentialNotFound across users, got %v", err)
	}
}

func TestCredentialRepositoryImpl_Delete(t *testing.T) {
	repo := NewCredentialRepository(setupTestDB(t))
	ctx := context.Background()

	cred := &domain.EncryptedCredential{
		UserID: 1, Retailer: "bestbuy", Ciphertext: "blob", Scheme: domain.SchemeUserSpecific, Active: true,
	}
	if err := repo.Upsert(ctx, cred); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	if err := repo.Delete(ctx, 1, "bestbuy"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := repo.FindByUserAndRetailer(ctx, 1, "bestbuy"); err != domain.ErrCredentialNotFound {
		t.Errorf("expected ErrCredentialNotFound after delete, got %v", err)
	}
	if err := repo.Delete(ctx, 1, "bestbuy"); err != domain.ErrCredentialNotFound {
		t.Errorf("expected ErrCredentialNotFound on double delete, got %v", err)
	}
}
