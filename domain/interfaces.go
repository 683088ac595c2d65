package domain

import (
	"context"
	"time"
)

// UserRepository defines user data access operations
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByResetToken(ctx context.Context, token string) (*User, error)
	FindByVerificationToken(ctx context.Context, token string) (*User, error)
	Update(ctx context.Context, user *User) error
	// IncrementFailedLogins atomically bumps the failure counter and, when the
	// new count reaches threshold, sets lock-until in the same statement.
	// Returns the post-increment count.
	IncrementFailedLogins(ctx context.Context, userID uint, threshold int, lockUntil time.Time) (int, error)
	// ResetFailedLogins zeroes the counter and clears lock-until
	ResetFailedLogins(ctx context.Context, userID uint) error
}

// CredentialRepository defines retailer credential data access operations
type CredentialRepository interface {
	Upsert(ctx context.Context, cred *EncryptedCredential) error
	FindByUserAndRetailer(ctx context.Context, userID uint, retailer string) (*EncryptedCredential, error)
	ListByUser(ctx context.Context, userID uint) ([]*EncryptedCredential, error)
	Delete(ctx context.Context, userID uint, retailer string) error
}

// TokenService signs and verifies bearer tokens. Verification is purely
// cryptographic plus expiry; callers compose it with the RevocationRegistry.
type TokenService interface {
	Issue(userID uint) (*TokenPair, error)
	Verify(token string, role KeyRole) (*TokenClaims, error)
}

// RevocationRegistry records which issued tokens are no longer valid.
// IsRevoked is fail-secure: a store outage reads as revoked.
type RevocationRegistry interface {
	Revoke(ctx context.Context, token, reason string) error
	IsRevoked(ctx context.Context, token string) (bool, error)
	RevokeAll(ctx context.Context, userID uint, reason string) error
	TrackIssuedToken(ctx context.Context, userID uint, token string) error
}

// LockoutPolicy gates login attempts with a failed-attempt counter and a
// time-based lock window. The lock check precedes credential comparison.
type LockoutPolicy interface {
	CheckLock(user *User) error
	RegisterFailure(ctx context.Context, user *User) error
	RegisterSuccess(ctx context.Context, user *User) error
}

// SecretTokenService issues and consumes single-use, time-boxed tokens for
// password reset and email verification
type SecretTokenService interface {
	IssueResetToken(ctx context.Context, user *User) (string, error)
	ConsumeResetToken(ctx context.Context, token, newPassword string) (*User, error)
	IssueVerificationToken(ctx context.Context, user *User) (string, error)
	ConsumeVerificationToken(ctx context.Context, token string) (*User, error)
}

// PasswordService defines password hashing operations
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}

// CredentialCipher protects retailer passwords at rest. Derived keys are
// never persisted; they are recomputed from the caller-supplied secret.
type CredentialCipher interface {
	EncryptWithUserKey(plaintext, userSecret string, userID uint) (string, error)
	DecryptWithUserKey(ciphertext, userSecret string, userID uint) (string, error)
	DecryptGlobal(ciphertext string) (string, error)
	// SchemeOf inspects a ciphertext's format marker
	SchemeOf(ciphertext string) CredentialScheme
	// InvalidateKeyCache drops cached master key material after a KMS
	// configuration swap or rotation
	InvalidateKeyCache()
}

// KeyManager is the provider-agnostic master-key abstraction
type KeyManager interface {
	HealthCheck(ctx context.Context) bool
	RotateKey(ctx context.Context) (string, error)
	GetKeyMetadata(ctx context.Context) (*KeyMetadata, error)
	CreateKey(ctx context.Context, id, description string) (string, error)
	// GetConfiguration reports the active configuration with key material
	// redacted
	GetConfiguration(ctx context.Context) *KMSResult
	TestConfiguration(ctx context.Context, candidate KMSConfig) *KMSResult
	UpdateConfiguration(ctx context.Context, candidate KMSConfig) *KMSResult
}

// NotificationService delivers out-of-band messages. Callers treat sends as
// fire-and-forget; a delivery failure never fails the triggering request.
type NotificationService interface {
	SendEmail(to, subject, body string) error
}

// AuthService composes the authentication flows
type AuthService interface {
	Register(ctx context.Context, email, password string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, accessToken, refreshToken string) error
	LogoutAllDevices(ctx context.Context, userID uint) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	ChangePassword(ctx context.Context, userID uint, current, new string) error
	VerifyEmail(ctx context.Context, token string) error
	GetUserProfile(ctx context.Context, userID uint) (*User, error)
}

// CredentialService manages encrypted retailer credentials
type CredentialService interface {
	Store(ctx context.Context, userID uint, retailer, username, password, userSecret string, twoFactor bool) error
	Get(ctx context.Context, userID uint, retailer, userSecret string) (string, error)
	List(ctx context.Context, userID uint) ([]*EncryptedCredential, error)
	Delete(ctx context.Context, userID uint, retailer string) error
	Verify(ctx context.Context, userID uint, retailer, userSecret string) error
	Migrate(ctx context.Context, userID uint, retailer, userSecret string) error
	MigrateAll(ctx context.Context, userID uint, userSecret string) (*MigrationReport, error)
}

// PolicyService defines authorization policy operations
type PolicyService interface {
	AddPolicy(role, resource, action string) error
	RemovePolicy(role, resource, action string) error
	CheckPermission(role, resource, action string) (bool, error)
	GetPolicies() [][]string
}

// CasbinEnforcer interface defines the methods we need from Casbin enforcer
type CasbinEnforcer interface {
	AddPolicy(params ...interface{}) (bool, error)
	RemovePolicy(params ...interface{}) (bool, error)
	Enforce(rvals ...interface{}) (bool, error)
	GetPolicy() ([][]string, error)
	SavePolicy() error
}
