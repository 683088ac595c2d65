package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/curtesyflush1/booster-sub007/domain"
)

// AuthServiceImpl implements domain.AuthService. It is the only component
// with business-level knowledge of the User entity; everything else is
// composed through the domain interfaces.
type AuthServiceImpl struct {
	userRepo        domain.UserRepository
	passwordSvc     domain.PasswordService
	tokenSvc        domain.TokenService
	revocations     domain.RevocationRegistry
	lockout         domain.LockoutPolicy
	secretTokens    domain.SecretTokenService
	notificationSvc domain.NotificationService
	audit           domain.AuditLogger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo domain.UserRepository,
	passwordSvc domain.PasswordService,
	tokenSvc domain.TokenService,
	revocations domain.RevocationRegistry,
	lockout domain.LockoutPolicy,
	secretTokens domain.SecretTokenService,
	notificationSvc domain.NotificationService,
	audit domain.AuditLogger,
) domain.AuthService {
	return &AuthServiceImpl{
		userRepo:        userRepo,
		passwordSvc:     passwordSvc,
		tokenSvc:        tokenSvc,
		revocations:     revocations,
		lockout:         lockout,
		secretTokens:    secretTokens,
		notificationSvc: notificationSvc,
		audit:           audit,
	}
}

// logAudit records a security event; audit delivery never affects the
// triggering operation's outcome.
func (s *AuthServiceImpl) logAudit(ctx context.Context, event *domain.AuditEvent) {
	if s.audit == nil {
		return
	}
	if err := s.audit.LogEvent(ctx, event); err != nil {
		log.Printf("audit event %s dropped: %v", event.EventType, err)
	}
}

// Register implements domain.AuthService
func (s *AuthServiceImpl) Register(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	existingUser, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existingUser != nil {
		return nil, domain.ErrUserAlreadyExists
	}

	hashedPassword, err := s.passwordSvc.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         "user",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	verifyToken, err := s.secretTokens.IssueVerificationToken(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue verification token: %w", err)
	}

	// Fire-and-forget: delivery is non-authoritative for the registration
	// outcome, so a mailer failure is logged and nothing else.
	go func() {
		body := fmt.Sprintf("Welcome! Verify your email with token: %s", verifyToken)
		if err := s.notificationSvc.SendEmail(user.Email, "Verify your email", body); err != nil {
			log.Printf("verification email to %s failed: %v", user.Email, err)
		}
	}()

	tokens, err := s.issueAndTrack(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, domain.NewAuditEvent(domain.UserRegistrationEvent, user.ID).WithEmail(email))

	return &domain.AuthResult{User: user, Tokens: *tokens}, nil
}

// Login implements domain.AuthService. The lock check precedes the password
// comparison: a locked account never triggers hashing work. Unknown user and
// wrong password return the same error.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.lockout.CheckLock(user); err != nil {
		s.logAudit(ctx, domain.NewAuditEvent(domain.AccountLockedEvent, user.ID).WithEmail(email).WithError(err))
		return nil, err
	}

	if !s.passwordSvc.Verify(user.PasswordHash, password) {
		if err := s.lockout.RegisterFailure(ctx, user); err != nil {
			log.Printf("lockout bookkeeping for user %d failed: %v", user.ID, err)
		}
		s.logAudit(ctx, domain.NewAuditEvent(domain.UserLoginFailureEvent, user.ID).WithEmail(email).WithError(domain.ErrInvalidCredentials))
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.lockout.RegisterSuccess(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to clear lockout state: %w", err)
	}

	tokens, err := s.issueAndTrack(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, domain.NewAuditEvent(domain.UserLoginEvent, user.ID).WithEmail(email))

	return &domain.AuthResult{User: user, Tokens: *tokens}, nil
}

// Refresh implements domain.AuthService. The old refresh token is revoked as
// part of successful rotation.
func (s *AuthServiceImpl) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.tokenSvc.Verify(refreshToken, domain.KeyRoleRefresh)
	if err != nil {
		return nil, err
	}

	revoked, err := s.revocations.IsRevoked(ctx, refreshToken)
	if revoked {
		if err != nil {
			log.Printf("revocation check degraded to deny: %v", err)
		}
		return nil, domain.ErrTokenRevoked
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}

	if err := s.revocations.Revoke(ctx, refreshToken, "rotation"); err != nil {
		return nil, fmt.Errorf("failed to revoke rotated token: %w", err)
	}
	s.logAudit(ctx, domain.NewAuditEvent(domain.TokenRevokedEvent, user.ID).WithJTI(claims.JTI).WithMetadata("reason", "rotation"))

	return s.issueAndTrack(ctx, user.ID)
}

// Logout implements domain.AuthService. The refresh token is optional.
func (s *AuthServiceImpl) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if err := s.revocations.Revoke(ctx, accessToken, "logout"); err != nil {
		return fmt.Errorf("failed to revoke access token: %w", err)
	}
	if refreshToken != "" {
		if err := s.revocations.Revoke(ctx, refreshToken, "logout"); err != nil {
			return fmt.Errorf("failed to revoke refresh token: %w", err)
		}
	}
	event := domain.NewAuditEvent(domain.UserLogoutEvent, 0)
	if claims, err := s.tokenSvc.Verify(accessToken, domain.KeyRoleAccess); err == nil {
		event.UserID = claims.UserID
		event.WithJTI(claims.JTI)
	}
	s.logAudit(ctx, event)
	return nil
}

// LogoutAllDevices implements domain.AuthService
func (s *AuthServiceImpl) LogoutAllDevices(ctx context.Context, userID uint) error {
	if err := s.revocations.RevokeAll(ctx, userID, "logout_all"); err != nil {
		return err
	}
	s.logAudit(ctx, domain.NewAuditEvent(domain.AllTokensRevokedEvent, userID).WithMetadata("reason", "logout_all"))
	return nil
}

// RequestPasswordReset implements domain.AuthService. The caller always gets
// the same opaque success, whether or not the email resolves to an account.
func (s *AuthServiceImpl) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		// same outcome as the found path; no account-existence oracle
		return nil
	}

	token, err := s.secretTokens.IssueResetToken(ctx, user)
	if err != nil {
		log.Printf("reset token issuance for user %d failed: %v", user.ID, err)
		return nil
	}

	s.logAudit(ctx, domain.NewAuditEvent(domain.PasswordResetRequestEvent, user.ID).WithEmail(user.Email))

	go func() {
		body := fmt.Sprintf("Reset your password with token: %s", token)
		if err := s.notificationSvc.SendEmail(user.Email, "Password reset", body); err != nil {
			log.Printf("reset email to %s failed: %v", user.Email, err)
		}
	}()
	return nil
}

// ResetPassword implements domain.AuthService
func (s *AuthServiceImpl) ResetPassword(ctx context.Context, token, newPassword string) error {
	user, err := s.secretTokens.ConsumeResetToken(ctx, token, newPassword)
	if err != nil {
		return err
	}
	s.logAudit(ctx, domain.NewAuditEvent(domain.PasswordResetEvent, user.ID).WithEmail(user.Email))
	return nil
}

// ChangePassword implements domain.AuthService. All outstanding tokens are
// revoked: they were issued under the old secret.
func (s *AuthServiceImpl) ChangePassword(ctx context.Context, userID uint, current, newPassword string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if !s.passwordSvc.Verify(user.PasswordHash, current) {
		return domain.ErrInvalidCurrentPassword
	}

	hashed, err := s.passwordSvc.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	user.PasswordHash = hashed
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if err := s.revocations.RevokeAll(ctx, userID, "password_change"); err != nil {
		return fmt.Errorf("failed to revoke existing tokens: %w", err)
	}
	s.logAudit(ctx, domain.NewAuditEvent(domain.PasswordChangedEvent, userID).WithEmail(user.Email))
	return nil
}

// VerifyEmail implements domain.AuthService
func (s *AuthServiceImpl) VerifyEmail(ctx context.Context, token string) error {
	user, err := s.secretTokens.ConsumeVerificationToken(ctx, token)
	if err != nil {
		return err
	}
	s.logAudit(ctx, domain.NewAuditEvent(domain.EmailVerifiedEvent, user.ID).WithEmail(user.Email))
	return nil
}

// GetUserProfile implements domain.AuthService
func (s *AuthServiceImpl) GetUserProfile(ctx context.Context, userID uint) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

// issueAndTrack issues a token pair and registers both tokens in the user's
// tracked set. Tracking failure after issuance is tolerated (eventual
// registration); it is logged, not fatal.
func (s *AuthServiceImpl) issueAndTrack(ctx context.Context, userID uint) (*domain.TokenPair, error) {
	tokens, err := s.tokenSvc.Issue(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue tokens: %w", err)
	}

	if err := s.revocations.TrackIssuedToken(ctx, userID, tokens.AccessToken); err != nil {
		log.Printf("tracking access token for user %d failed: %v", userID, err)
	}
	if err := s.revocations.TrackIssuedToken(ctx, userID, tokens.RefreshToken); err != nil {
		log.Printf("tracking refresh token for user %d failed: %v", userID, err)
	}
	return tokens, nil
}
