package domain

import (
	"context"
	"time"
)

// AuditEventType defines the type of audit event
type AuditEventType string

const (
	// Authentication events
	UserLoginEvent        AuditEventType = "USER_LOGIN"
	UserLoginFailureEvent AuditEventType = "USER_LOGIN_FAILED"
	UserRegistrationEvent AuditEventType = "USER_REGISTERED"
	UserLogoutEvent       AuditEventType = "USER_LOGOUT"
	AccountLockedEvent    AuditEventType = "ACCOUNT_LOCKED"

	// Secret lifecycle events
	PasswordResetRequestEvent AuditEventType = "PASSWORD_RESET_REQUESTED"
	PasswordResetEvent        AuditEventType = "PASSWORD_RESET"
	PasswordChangedEvent      AuditEventType = "PASSWORD_CHANGED"
	EmailVerifiedEvent        AuditEventType = "EMAIL_VERIFIED"

	// Revocation events
	TokenRevokedEvent     AuditEventType = "TOKEN_REVOKED"
	AllTokensRevokedEvent AuditEventType = "ALL_TOKENS_REVOKED"

	// Key management events
	KeyRotatedEvent     AuditEventType = "KEY_ROTATED"
	KMSConfigSwapEvent  AuditEventType = "KMS_CONFIG_UPDATED"
	CredentialMigration AuditEventType = "CREDENTIAL_MIGRATED"
)

// AuditEvent represents a security-relevant event that occurred in the system
type AuditEvent struct {
	EventType AuditEventType         `json:"event_type"`
	UserID    uint                   `json:"user_id"`
	Email     string                 `json:"email,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	IPAddress string                 `json:"ip_address,omitempty"`
	JTI       string                 `json:"jti,omitempty"`
	ErrorMsg  string                 `json:"error_msg,omitempty"`
	Success   bool                   `json:"success"`
}

// AuditLogger defines operations for audit logging
type AuditLogger interface {
	LogEvent(ctx context.Context, event *AuditEvent) error
}

// NewAuditEvent creates a new audit event with common fields populated
func NewAuditEvent(eventType AuditEventType, userID uint) *AuditEvent {
	return &AuditEvent{
		EventType: eventType,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
		Metadata:  make(map[string]interface{}),
		Success:   true,
	}
}

// WithError sets error information on the audit event
func (e *AuditEvent) WithError(err error) *AuditEvent {
	e.Success = false
	if err != nil {
		e.ErrorMsg = err.Error()
	}
	return e
}

// WithEmail sets the email field
func (e *AuditEvent) WithEmail(email string) *AuditEvent {
	e.Email = email
	return e
}

// WithJTI sets the token identifier involved in the event
func (e *AuditEvent) WithJTI(jti string) *AuditEvent {
	e.JTI = jti
	return e
}

// WithMetadata adds metadata to the event
func (e *AuditEvent) WithMetadata(key string, value interface{}) *AuditEvent {
	e.Metadata[key] = value
	return e
}
