package services

import (
	"context"
	"fmt"
	"time"

	"github.com/curtesyflush1/booster-sub007/domain"
)

// CredentialServiceImpl implements domain.CredentialService. Retailer
// passwords are encrypted under a key derived from the user's own secret;
// legacy blobs under the master key are migrated lazily.
type CredentialServiceImpl struct {
	credRepo domain.CredentialRepository
	cipher   domain.CredentialCipher
	audit    domain.AuditLogger
}

// NewCredentialService creates a new credential service
func NewCredentialService(credRepo domain.CredentialRepository, cipher domain.CredentialCipher, audit domain.AuditLogger) domain.CredentialService {
	return &CredentialServiceImpl{credRepo: credRepo, cipher: cipher, audit: audit}
}

// Store implements domain.CredentialService. New writes always use the
// user-specific scheme.
func (s *CredentialServiceImpl) Store(ctx context.Context, userID uint, retailer, username, password, userSecret string, twoFactor bool) error {
	if retailer == "" || password == "" {
		return fmt.Errorf("%w: retailer and password are required", domain.ErrValidation)
	}

	ciphertext, err := s.cipher.EncryptWithUserKey(password, userSecret, userID)
	if err != nil {
		return err
	}

	cred := &domain.EncryptedCredential{
		UserID:     userID,
		Retailer:   retailer,
		Username:   username,
		Ciphertext: ciphertext,
		Scheme:     domain.SchemeUserSpecific,
		TwoFactor:  twoFactor,
		Active:     true,
	}
	return s.credRepo.Upsert(ctx, cred)
}

// Get implements domain.CredentialService. Decryption dispatches on the
// stored scheme tag; the tag makes the dispatch total, never a format guess.
func (s *CredentialServiceImpl) Get(ctx context.Context, userID uint, retailer, userSecret string) (string, error) {
	cred, err := s.credRepo.FindByUserAndRetailer(ctx, userID, retailer)
	if err != nil {
		return "", err
	}
	return s.decrypt(cred, userSecret)
}

// List implements domain.CredentialService. Ciphertexts are blanked; callers
// list metadata, they do not read secrets in bulk.
func (s *CredentialServiceImpl) List(ctx context.Context, userID uint) ([]*domain.EncryptedCredential, error) {
	creds, err := s.credRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, cred := range creds {
		cred.Ciphertext = ""
	}
	return creds, nil
}

// Delete implements domain.CredentialService
func (s *CredentialServiceImpl) Delete(ctx context.Context, userID uint, retailer string) error {
	return s.credRepo.Delete(ctx, userID, retailer)
}

// Verify implements domain.CredentialService. A successful round-trip stamps
// last-verified and zeroes the failure counter. A failure clears the stamp
// and bumps the counter; a repeat failure marks the credential inactive as
// defense against silently-stale ciphertext.
func (s *CredentialServiceImpl) Verify(ctx context.Context, userID uint, retailer, userSecret string) error {
	cred, err := s.credRepo.FindByUserAndRetailer(ctx, userID, retailer)
	if err != nil {
		return err
	}

	if _, err := s.decrypt(cred, userSecret); err != nil {
		cred.FailedVerifications++
		cred.LastVerified = nil
		if cred.FailedVerifications > 1 {
			cred.Active = false
		}
		if updateErr := s.credRepo.Upsert(ctx, cred); updateErr != nil {
			return fmt.Errorf("failed to record verification failure: %w", updateErr)
		}
		return domain.ErrDecryptionFailed
	}

	now := time.Now()
	cred.LastVerified = &now
	cred.FailedVerifications = 0
	cred.Active = true
	return s.credRepo.Upsert(ctx, cred)
}

// Migrate implements domain.CredentialService. Idempotent: migrating an
// already user-specific credential is a no-op reported as success.
func (s *CredentialServiceImpl) Migrate(ctx context.Context, userID uint, retailer, userSecret string) error {
	cred, err := s.credRepo.FindByUserAndRetailer(ctx, userID, retailer)
	if err != nil {
		return err
	}
	_, err = s.migrateOne(ctx, cred, userSecret)
	return err
}

// MigrateAll implements domain.CredentialService. The report's lists are
// disjoint; one corrupted credential never aborts the batch.
func (s *CredentialServiceImpl) MigrateAll(ctx context.Context, userID uint, userSecret string) (*domain.MigrationReport, error) {
	creds, err := s.credRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	report := &domain.MigrationReport{
		Migrated: []string{},
		Skipped:  []string{},
		Failed:   []string{},
	}
	for _, cred := range creds {
		migrated, err := s.migrateOne(ctx, cred, userSecret)
		switch {
		case err != nil:
			report.Failed = append(report.Failed, cred.Retailer)
		case migrated:
			report.Migrated = append(report.Migrated, cred.Retailer)
		default:
			report.Skipped = append(report.Skipped, cred.Retailer)
		}
	}
	return report, nil
}

// migrateOne re-encrypts a legacy blob under the user-specific scheme.
// Returns false when the credential was already user-specific.
func (s *CredentialServiceImpl) migrateOne(ctx context.Context, cred *domain.EncryptedCredential, userSecret string) (bool, error) {
	if cred.Scheme == domain.SchemeUserSpecific {
		return false, nil
	}

	plaintext, err := s.cipher.DecryptGlobal(cred.Ciphertext)
	if err != nil {
		return false, err
	}

	ciphertext, err := s.cipher.EncryptWithUserKey(plaintext, userSecret, cred.UserID)
	if err != nil {
		return false, err
	}

	cred.Ciphertext = ciphertext
	cred.Scheme = domain.SchemeUserSpecific
	if err := s.credRepo.Upsert(ctx, cred); err != nil {
		return false, fmt.Errorf("failed to persist migrated credential: %w", err)
	}
	if s.audit != nil {
		s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.CredentialMigration, cred.UserID).WithMetadata("retailer", cred.Retailer))
	}
	return true, nil
}

func (s *CredentialServiceImpl) decrypt(cred *domain.EncryptedCredential, userSecret string) (string, error) {
	switch cred.Scheme {
	case domain.SchemeUserSpecific:
		return s.cipher.DecryptWithUserKey(cred.Ciphertext, userSecret, cred.UserID)
	case domain.SchemeGlobal:
		return s.cipher.DecryptGlobal(cred.Ciphertext)
	default:
		// unknown tag: fall back to the ciphertext's own format marker
		if s.cipher.SchemeOf(cred.Ciphertext) == domain.SchemeUserSpecific {
			return s.cipher.DecryptWithUserKey(cred.Ciphertext, userSecret, cred.UserID)
		}
		return s.cipher.DecryptGlobal(cred.Ciphertext)
	}
}
