package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/curtesyflush1/booster-sub007/domain"
)

// CredentialRepositoryImpl implements domain.CredentialRepository using GORM
type CredentialRepositoryImpl struct {
	db *gorm.DB
}

// DBCredential represents the database model for EncryptedCredential
type DBCredential struct {
	ID                  uint   `gorm:"primaryKey"`
	UserID              uint   `gorm:"uniqueIndex:idx_user_retailer"`
	Retailer            string `gorm:"uniqueIndex:idx_user_retailer;size:64"`
	Username            string `gorm:"size:255"`
	Ciphertext          string
	Scheme              string `gorm:"size:32"`
	TwoFactor           bool
	LastVerified        *time.Time
	FailedVerifications int
	Active              bool `gorm:"index"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// TableName returns the table name for GORM
func (DBCredential) TableName() string {
	return "retailer_credentials"
}

// NewCredentialRepository creates a new credential repository
func NewCredentialRepository(db *gorm.DB) domain.CredentialRepository {
	return &CredentialRepositoryImpl{db: db}
}

// Upsert implements domain.CredentialRepository. One row per user+retailer;
// storing again replaces the blob.
func (r *CredentialRepositoryImpl) Upsert(ctx context.Context, cred *domain.EncryptedCredential) error {
	dbCred := r.domainToDB(cred)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "retailer"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"username", "ciphertext", "scheme", "two_factor",
			"last_verified", "failed_verifications", "active", "updated_at",
		}),
	}).Create(dbCred).Error
	if err != nil {
		return err
	}
	cred.ID = dbCred.ID
	return nil
}

// FindByUserAndRetailer implements domain.CredentialRepository
func (r *CredentialRepositoryImpl) FindByUserAndRetailer(ctx context.Context, userID uint, retailer string) (*domain.EncryptedCredential, error) {
	var dbCred DBCredential
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND retailer = ?", userID, retailer).
		First(&dbCred).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrCredentialNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbCred), nil
}

// ListByUser implements domain.CredentialRepository
func (r *CredentialRepositoryImpl) ListByUser(ctx context.Context, userID uint) ([]*domain.EncryptedCredential, error) {
	var dbCreds []DBCredential
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("retailer").
		Find(&dbCreds).Error
	if err != nil {
		return nil, err
	}

	creds := make([]*domain.EncryptedCredential, 0, len(dbCreds))
	for i := range dbCreds {
		creds = append(creds, r.dbToDomain(&dbCreds[i]))
	}
	return creds, nil
}

// Delete implements domain.CredentialRepository
func (r *CredentialRepositoryImpl) Delete(ctx context.Context, userID uint, retailer string) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND retailer = ?", userID, retailer).
		Delete(&DBCredential{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrCredentialNotFound
	}
	return nil
}

func (r *CredentialRepositoryImpl) domainToDB(cred *domain.EncryptedCredential) *DBCredential {
	return &DBCredential{
		ID:                  cred.ID,
		UserID:              cred.UserID,
		Retailer:            cred.Retailer,
		Username:            cred.Username,
		Ciphertext:          cred.Ciphertext,
		Scheme:              string(cred.Scheme),
		TwoFactor:           cred.TwoFactor,
		LastVerified:        cred.LastVerified,
		FailedVerifications: cred.FailedVerifications,
		Active:              cred.Active,
	}
}

func (r *CredentialRepositoryImpl) dbToDomain(dbCred *DBCredential) *domain.EncryptedCredential {
	return &domain.EncryptedCredential{
		ID:                  dbCred.ID,
		UserID:              dbCred.UserID,
		Retailer:            dbCred.Retailer,
		Username:            dbCred.Username,
		Ciphertext:          dbCred.Ciphertext,
		Scheme:              domain.CredentialScheme(dbCred.Scheme),
		TwoFactor:           dbCred.TwoFactor,
		LastVerified:        dbCred.LastVerified,
		FailedVerifications: dbCred.FailedVerifications,
		Active:              dbCred.Active,
		CreatedAt:           dbCred.CreatedAt,
		UpdatedAt:           dbCred.UpdatedAt,
	}
}
