package domain

import "time"

// CredentialScheme tags how a stored retailer credential was encrypted
type CredentialScheme string

const (
	// SchemeGlobal marks legacy blobs encrypted under the master key
	SchemeGlobal CredentialScheme = "global"
	// SchemeUserSpecific marks blobs encrypted under a per-user derived key
	SchemeUserSpecific CredentialScheme = "user-specific"
)

// User represents an account in the alerting service
type User struct {
	ID                  uint
	Email               string
	PasswordHash        string
	Role                string
	EmailVerified       bool
	FailedLoginAttempts int
	LockedUntil         *time.Time
	ResetToken          string
	ResetTokenExpiry    *time.Time
	VerificationToken   string
	VerificationExpiry  *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// IsLocked reports whether the account is inside an active lock window.
// Lock-until, once set, is honored even if the counter was reset elsewhere.
func (u *User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && now.Before(*u.LockedUntil)
}

// EncryptedCredential is a third-party retailer login stored at rest.
// Ciphertext is tag-accompanied: Scheme selects the decryption path.
type EncryptedCredential struct {
	ID           uint
	UserID       uint
	Retailer     string
	Username     string
	Ciphertext   string
	Scheme       CredentialScheme
	TwoFactor    bool
	LastVerified *time.Time
	// FailedVerifications counts consecutive failed health checks; a
	// successful round-trip resets it
	FailedVerifications int
	Active              bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// TokenPair is an issued access/refresh token pair
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// AuthResult represents authentication outcome
type AuthResult struct {
	User   *User
	Tokens TokenPair
}

// TokenClaims are the verified contents of a signed bearer token
type TokenClaims struct {
	UserID    uint   `json:"sub"`
	JTI       string `json:"jti"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// RemainingLife returns how long the token stays valid from now. Revocation
// entries use this as their TTL so a revocation never lapses before the
// token itself would have expired.
func (c *TokenClaims) RemainingLife(now time.Time) time.Duration {
	return time.Unix(c.ExpiresAt, 0).Sub(now)
}

// KeyRole selects which signing secret a token was issued under
type KeyRole string

const (
	KeyRoleAccess  KeyRole = "access"
	KeyRoleRefresh KeyRole = "refresh"
)

// KeyMetadata describes the current master key configuration.
// Versions are appended on rotation, never overwritten.
type KeyMetadata struct {
	KeyID     string
	Version   int
	Provider  string
	CreatedAt time.Time
	RotatedAt *time.Time
}

// KMSConfig is a candidate key-management configuration
type KMSConfig struct {
	Provider    string
	Region      string
	KeyID       string
	KeyMaterial string // backs the env provider; unused for managed providers
}

// MigrationReport is the outcome of a bulk credential migration. The three
// lists are disjoint and a single credential's failure never aborts the batch.
type MigrationReport struct {
	Migrated []string `json:"migrated"`
	Skipped  []string `json:"skipped"`
	Failed   []string `json:"failed"`
}

// KMSResult is the uniform envelope returned by the KMS admin surface
type KMSResult struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
}
