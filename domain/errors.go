package domain

import "errors"

// Authentication errors
var (
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials covers unknown user and bad password alike so the
	// response never reveals whether an account exists
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrAccountLocked      = errors.New("account temporarily locked")
	ErrValidation         = errors.New("invalid input")
)

// Token errors
var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenRevoked = errors.New("token has been revoked")
)

// Secret-token errors
var (
	ErrResetTokenInvalid        = errors.New("invalid or expired reset token")
	ErrVerificationTokenInvalid = errors.New("invalid verification token")
	ErrInvalidCurrentPassword   = errors.New("current password is incorrect")
)

// Credential vault errors
var (
	ErrCredentialNotFound = errors.New("credential not found")
	ErrDecryptionFailed   = errors.New("credential decryption failed")
)

// Key management errors
var (
	ErrKMSConnectivity  = errors.New("key management service unreachable")
	ErrKMSConfiguration = errors.New("invalid key management configuration")
)
