package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/curtesyflush1/booster-sub007/domain"
)

// UserRepositoryImpl implements domain.UserRepository using GORM
type UserRepositoryImpl struct {
	db *gorm.DB
}

// DBUser represents the database model for User (with GORM tags)
type DBUser struct {
	ID                  uint   `gorm:"primaryKey"`
	Email               string `gorm:"uniqueIndex;size:255"`
	PasswordHash        string `gorm:"column:password"`
	Role                string `gorm:"index;size:64"`
	EmailVerified       bool   `gorm:"index"`
	FailedLoginAttempts int
	LockedUntil         *time.Time
	ResetToken          string `gorm:"index;size:128"`
	ResetTokenExpiry    *time.Time
	VerificationToken   string `gorm:"index;size:128"`
	VerificationExpiry  *time.Time
	CreatedAt           time.Time      `gorm:"index"`
	UpdatedAt           time.Time      `gorm:"index"`
	DeletedAt           gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (DBUser) TableName() string {
	return "users"
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &UserRepositoryImpl{db: db}
}

// Create implements domain.UserRepository
func (r *UserRepositoryImpl) Create(ctx context.Context, user *domain.User) error {
	dbUser := r.domainToDB(user)
	if err := r.db.WithContext(ctx).Create(dbUser).Error; err != nil {
		return err
	}
	user.ID = dbUser.ID
	return nil
}

// FindByEmail implements domain.UserRepository
func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

// FindByID implements domain.UserRepository
func (r *UserRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByResetToken implements domain.UserRepository
func (r *UserRepositoryImpl) FindByResetToken(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, "reset_token = ?", token)
}

// FindByVerificationToken implements domain.UserRepository
func (r *UserRepositoryImpl) FindByVerificationToken(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, "verification_token = ?", token)
}

func (r *UserRepositoryImpl) findOne(ctx context.Context, query string, arg interface{}) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where(query, arg).First(&dbUser).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbUser), nil
}

// Update implements domain.UserRepository
func (r *UserRepositoryImpl) Update(ctx context.Context, user *domain.User) error {
	dbUser := r.domainToDB(user)
	// Select forces writes of zero-valued columns (cleared tokens, reset counters)
	return r.db.WithContext(ctx).Model(&DBUser{ID: user.ID}).
		Select("email", "password", "role", "email_verified",
			"failed_login_attempts", "locked_until",
			"reset_token", "reset_token_expiry",
			"verification_token", "verification_expiry").
		Updates(dbUser).Error
}

// IncrementFailedLogins implements domain.UserRepository. The increment and
// the threshold-triggered lock are a single UPDATE so parallel failed
// attempts cannot lose counts or produce a half-applied lock.
func (r *UserRepositoryImpl) IncrementFailedLogins(ctx context.Context, userID uint, threshold int, lockUntil time.Time) (int, error) {
	err := r.db.WithContext(ctx).Exec(
		`UPDATE `+r.usersTable()+`
		 SET failed_login_attempts = failed_login_attempts + 1,
		     locked_until = CASE WHEN failed_login_attempts + 1 >= ? THEN ? ELSE locked_until END,
		     updated_at = ?
		 WHERE id = ?`,
		threshold, lockUntil, time.Now(), userID,
	).Error
	if err != nil {
		return 0, err
	}

	var count int
	err = r.db.WithContext(ctx).Model(&DBUser{}).
		Where("id = ?", userID).
		Pluck("failed_login_attempts", &count).Error
	return count, err
}

// ResetFailedLogins implements domain.UserRepository
func (r *UserRepositoryImpl) ResetFailedLogins(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Model(&DBUser{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"failed_login_attempts": 0,
			"locked_until":          nil,
		}).Error
}

func (r *UserRepositoryImpl) usersTable() string {
	return r.db.NamingStrategy.TableName("users")
}

// domainToDB converts domain user to database user
func (r *UserRepositoryImpl) domainToDB(user *domain.User) *DBUser {
	return &DBUser{
		ID:                  user.ID,
		Email:               user.Email,
		PasswordHash:        user.PasswordHash,
		Role:                user.Role,
		EmailVerified:       user.EmailVerified,
		FailedLoginAttempts: user.FailedLoginAttempts,
		LockedUntil:         user.LockedUntil,
		ResetToken:          user.ResetToken,
		ResetTokenExpiry:    user.ResetTokenExpiry,
		VerificationToken:   user.VerificationToken,
		VerificationExpiry:  user.VerificationExpiry,
	}
}

// dbToDomain converts database user to domain user
func (r *UserRepositoryImpl) dbToDomain(dbUser *DBUser) *domain.User {
	return &domain.User{
		ID:                  dbUser.ID,
		Email:               dbUser.Email,
		PasswordHash:        dbUser.PasswordHash,
		Role:                dbUser.Role,
		EmailVerified:       dbUser.EmailVerified,
		FailedLoginAttempts: dbUser.FailedLoginAttempts,
		LockedUntil:         dbUser.LockedUntil,
		ResetToken:          dbUser.ResetToken,
		ResetTokenExpiry:    dbUser.ResetTokenExpiry,
		VerificationToken:   dbUser.VerificationToken,
		VerificationExpiry:  dbUser.VerificationExpiry,
		CreatedAt:           dbUser.CreatedAt,
		UpdatedAt:           dbUser.UpdatedAt,
	}
}
