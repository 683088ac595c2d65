package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/curtesyflush1/booster-sub007/domain"
	"github.com/curtesyflush1/booster-sub007/internal/mocks"
)

type authServiceMocks struct {
	userRepo     *mocks.MockUserRepository
	passwordSvc  *mocks.MockPasswordService
	tokenSvc     *mocks.MockTokenService
	revocations  *mocks.MockRevocationRegistry
	lockout      *mocks.MockLockoutPolicy
	secretTokens *mocks.MockSecretTokenService
	notifier     *mocks.MockNotificationService
	audit        *mocks.MockAuditLogger
}

func newAuthServiceWithMocks() (domain.AuthService, *authServiceMocks) {
	m := &authServiceMocks{
		userRepo:     mocks.NewMockUserRepository(),
		passwordSvc:  mocks.NewMockPasswordService(),
		tokenSvc:     mocks.NewMockTokenService(),
		revocations:  mocks.NewMockRevocationRegistry(),
		lockout:      mocks.NewMockLockoutPolicy(),
		secretTokens: mocks.NewMockSecretTokenService(),
		notifier:     mocks.NewMockNotificationService(),
		audit:        mocks.NewMockAuditLogger(),
	}
	svc := NewAuthService(m.userRepo, m.passwordSvc, m.tokenSvc, m.revocations, m.lockout, m.secretTokens, m.notifier, m.audit)
	return svc, m
}

func existingUser() *domain.User {
	return &domain.User{
		ID:           1,
		Email:        "user@example.com",
		PasswordHash: "hashed_correct-password",
		Role:         "user",
	}
}

func TestAuthServiceImpl_Register(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		password      string
		setupMocks    func(m *authServiceMocks)
		expectedError error
	}{
		{
			name:       "successful registration",
			email:      "new@example.com",
			password:   "strong-password",
			setupMocks: func(m *authServiceMocks) {},
		},
		{
			name:     "duplicate email",
			email:    "taken@example.com",
			password: "strong-password",
			setupMocks: func(m *authServiceMocks) {
				m.userRepo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.User, error) {
					return existingUser(), nil
				}
			},
			expectedError: domain.ErrUserAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newAuthServiceWithMocks()
			tt.setupMocks(m)

			result, err := svc.Register(context.Background(), tt.email, tt.password)
			if !errors.Is(err, tt.expectedError) {
				t.Fatalf("expected error %v, got %v", tt.expectedError, err)
			}
			if tt.expectedError != nil {
				if result != nil {
					t.Error("expected no result on failure")
				}
				return
			}

			if result.User.Email != tt.email {
				t.Errorf("expected email %s, got %s", tt.email, result.User.Email)
			}
			if result.User.Role != "user" {
				t.Errorf("expected role user, got %s", result.User.Role)
			}
			if result.User.PasswordHash != "hashed_"+tt.password {
				t.Errorf("unexpected password hash %q", result.User.PasswordHash)
			}
			if result.Tokens.AccessToken == "" || result.Tokens.RefreshToken == "" {
				t.Error("expected a token pair on registration")
			}
		})
	}
}

func TestAuthServiceImpl_Login(t *testing.T) {
	tests := []struct {
		name             string
		password         string
		setupMocks       func(m *authServiceMocks, failures *int)
		expectedError    error
		expectedFailures int
	}{
		{
			name:     "successful login",
			password: "correct-password",
			setupMocks: func(m *authServiceMocks, failures *int) {
				m.userRepo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.User, error) {
					return existingUser(), nil
				}
			},
		},
		{
			name:     "unknown email",
			password: "correct-password",
			setupMocks: func(m *authServiceMocks, failures *int) {
				// repository default: not found
			},
			expectedError: domain.ErrInvalidCredentials,
		},
		{
			name:     "wrong password registers a failure",
			password: "wrong-password",
			setupMocks: func(m *authServiceMocks, failures *int) {
				m.userRepo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.User, error) {
					return existingUser(), nil
				}
			},
			expectedError:    domain.ErrInvalidCredentials,
			expectedFailures: 1,
		},
		{
			name:     "locked account short-circuits before password check",
			password: "correct-password",
			setupMocks: func(m *authServiceMocks, failures *int) {
				m.userRepo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.User, error) {
					return existingUser(), nil
				}
				m.lockout.CheckLockFunc = func(user *domain.User) error {
					return domain.ErrAccountLocked
				}
				m.passwordSvc.VerifyFunc = func(hashedPassword, password string) bool {
					t.Error("password must not be compared while locked")
					return false
				}
			},
			expectedError: domain.ErrAccountLocked,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newAuthServiceWithMocks()
			failures := 0
			m.lockout.RegisterFailureFunc = func(ctx context.Context, user *domain.User) error {
				failures++
				return nil
			}
			tt.setupMocks(m, &failures)

			result, err := svc.Login(context.Background(), "user@example.com", tt.password)
			if !errors.Is(err, tt.expectedError) {
				t.Fatalf("expected error %v, got %v", tt.expectedError, err)
			}
			if failures != tt.expectedFailures {
				t.Errorf("expected %d registered failures, got %d", tt.expectedFailures, failures)
			}
			if tt.expectedError == nil && result.Tokens.AccessToken == "" {
				t.Error("expected tokens on successful login")
			}
		})
	}
}

func TestAuthServiceImpl_Login_LockoutSequence(t *testing.T) {
	svc, m := newAuthServiceWithMocks()

	user := existingUser()
	m.userRepo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.User, error) {
		return user, nil
	}

	// real policy against a mock store that counts atomically
	count := 0
	m.userRepo.IncrementFailedLoginsFunc = func(ctx context.Context, userID uint, threshold int, lockUntil time.Time) (int, error) {
		count++
		return count, nil
	}
	policy := NewLockoutPolicy(m.userRepo, LockoutConfig{Threshold: 5, LockWindow: 15 * time.Minute})
	svc = NewAuthService(m.userRepo, m.passwordSvc, m.tokenSvc, m.revocations, policy, m.secretTokens, m.notifier, m.audit)

	for i := 1; i <= 5; i++ {
		_, err := svc.Login(context.Background(), "user@example.com", "wrong-password")
		if err != domain.ErrInvalidCredentials {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i, err)
		}
	}

	// the fifth failure locked the account; even the right password is refused
	if _, err := svc.Login(context.Background(), "user@example.com", "correct-password"); err != domain.ErrAccountLocked {
		t.Errorf("expected ErrAccountLocked after five failures, got %v", err)
	}
}

func TestAuthServiceImpl_Refresh(t *testing.T) {
	tests := []struct {
		name          string
		setupMocks    func(m *authServiceMocks, revokedOld *bool)
		expectedError error
	}{
		{
			name: "successful rotation revokes the old token",
			setupMocks: func(m *authServiceMocks, revokedOld *bool) {
				m.userRepo.FindByIDFunc = func(ctx context.Context, id uint) (*domain.User, error) {
					return existingUser(), nil
				}
				m.revocations.RevokeFunc = func(ctx context.Context, token, reason string) error {
					if token == "old-refresh-token" && reason == "rotation" {
						*revokedOld = true
					}
					return nil
				}
			},
		},
		{
			name: "expired refresh token",
			setupMocks: func(m *authServiceMocks, revokedOld *bool) {
				m.tokenSvc.VerifyFunc = func(token string, role domain.KeyRole) (*domain.TokenClaims, error) {
					return nil, domain.ErrTokenExpired
				}
			},
			expectedError: domain.ErrTokenExpired,
		},
		{
			name: "revoked refresh token",
			setupMocks: func(m *authServiceMocks, revokedOld *bool) {
				m.revocations.IsRevokedFunc = func(ctx context.Context, token string) (bool, error) {
					return true, nil
				}
			},
			expectedError: domain.ErrTokenRevoked,
		},
		{
			name: "revocation store outage denies",
			setupMocks: func(m *authServiceMocks, revokedOld *bool) {
				m.revocations.IsRevokedFunc = func(ctx context.Context, token string) (bool, error) {
					return true, errors.New("redis down")
				}
			},
			expectedError: domain.ErrTokenRevoked,
		},
		{
			name: "deleted user",
			setupMocks: func(m *authServiceMocks, revokedOld *bool) {
				// repository default: not found
			},
			expectedError: domain.ErrTokenInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newAuthServiceWithMocks()
			revokedOld := false
			tt.setupMocks(m, &revokedOld)

			tokens, err := svc.Refresh(context.Background(), "old-refresh-token")
			if !errors.Is(err, tt.expectedError) {
				t.Fatalf("expected error %v, got %v", tt.expectedError, err)
			}
			if tt.expectedError != nil {
				return
			}
			if tokens.AccessToken == "" || tokens.RefreshToken == "" {
				t.Error("expected a fresh token pair")
			}
			if !revokedOld {
				t.Error("rotation must revoke the old refresh token")
			}
		})
	}
}

func TestAuthServiceImpl_Logout(t *testing.T) {
	svc, m := newAuthServiceWithMocks()

	var revoked []string
	m.revocations.RevokeFunc = func(ctx context.Context, token, reason string) error {
		revoked = append(revoked, token)
		return nil
	}

	if err := svc.Logout(context.Background(), "access-token", "refresh-token"); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if len(revoked) != 2 {
		t.Errorf("expected both tokens revoked, got %v", revoked)
	}

	revoked = nil
	if err := svc.Logout(context.Background(), "access-token", ""); err != nil {
		t.Fatalf("Logout without refresh token failed: %v", err)
	}
	if len(revoked) != 1 {
		t.Errorf("expected only the access token revoked, got %v", revoked)
	}
}

func TestAuthServiceImpl_RequestPasswordReset_Opaque(t *testing.T) {
	svc, m := newAuthServiceWithMocks()

	issued := 0
	m.secretTokens.IssueResetTokenFunc = func(ctx context.Context, user *domain.User) (string, error) {
		issued++
		return "reset-token", nil
	}

	// unknown email: same nil outcome, no token issued
	if err := svc.RequestPasswordReset(context.Background(), "nobody@example.com"); err != nil {
		t.Fatalf("expected opaque success for unknown email, got %v", err)
	}
	if issued != 0 {
		t.Error("no token may be issued for an unknown email")
	}

	m.userRepo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.User, error) {
		return existingUser(), nil
	}
	if err := svc.RequestPasswordReset(context.Background(), "user@example.com"); err != nil {
		t.Fatalf("RequestPasswordReset failed: %v", err)
	}
	if issued != 1 {
		t.Errorf("expected one issued token, got %d", issued)
	}

	// issuance failure is still opaque to the caller
	m.secretTokens.IssueResetTokenFunc = func(ctx context.Context, user *domain.User) (string, error) {
		return "", errors.New("store down")
	}
	if err := svc.RequestPasswordReset(context.Background(), "user@example.com"); err != nil {
		t.Errorf("expected opaque success on issuance failure, got %v", err)
	}
}

func TestAuthServiceImpl_ChangePassword(t *testing.T) {
	tests := []struct {
		name            string
		current         string
		setupMocks      func(m *authServiceMocks)
		expectedError   error
		expectRevokeAll bool
	}{
		{
			name:    "successful change revokes all sessions",
			current: "correct-password",
			setupMocks: func(m *authServiceMocks) {
				m.userRepo.FindByIDFunc = func(ctx context.Context, id uint) (*domain.User, error) {
					return existingUser(), nil
				}
			},
			expectRevokeAll: true,
		},
		{
			name:    "wrong current password",
			current: "wrong-password",
			setupMocks: func(m *authServiceMocks) {
				m.userRepo.FindByIDFunc = func(ctx context.Context, id uint) (*domain.User, error) {
					return existingUser(), nil
				}
			},
			expectedError: domain.ErrInvalidCurrentPassword,
		},
		{
			name:          "unknown user",
			current:       "correct-password",
			setupMocks:    func(m *authServiceMocks) {},
			expectedError: domain.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newAuthServiceWithMocks()
			revokeAll := false
			m.revocations.RevokeAllFunc = func(ctx context.Context, userID uint, reason string) error {
				revokeAll = true
				if reason != "password_change" {
					t.Errorf("expected reason password_change, got %q", reason)
				}
				return nil
			}
			tt.setupMocks(m)

			err := svc.ChangePassword(context.Background(), 1, tt.current, "new-password")
			if !errors.Is(err, tt.expectedError) {
				t.Fatalf("expected error %v, got %v", tt.expectedError, err)
			}
			if revokeAll != tt.expectRevokeAll {
				t.Errorf("expected revokeAll=%v, got %v", tt.expectRevokeAll, revokeAll)
			}
		})
	}
}

func TestAuthServiceImpl_IssueTracksTokens(t *testing.T) {
	svc, m := newAuthServiceWithMocks()

	m.userRepo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.User, error) {
		return existingUser(), nil
	}

	var tracked []string
	m.revocations.TrackIssuedTokenFunc = func(ctx context.Context, userID uint, token string) error {
		tracked = append(tracked, token)
		return nil
	}

	if _, err := svc.Login(context.Background(), "user@example.com", "correct-password"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if len(tracked) != 2 {
		t.Errorf("expected both issued tokens tracked, got %v", tracked)
	}
}

func TestAuthServiceImpl_AuditTrail(t *testing.T) {
	svc, m := newAuthServiceWithMocks()
	m.userRepo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.User, error) {
		return existingUser(), nil
	}

	if _, err := svc.Login(context.Background(), "user@example.com", "correct-password"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if _, err := svc.Login(context.Background(), "user@example.com", "wrong-password"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	events := m.audit.Events()
	if len(events) != 2 {
		t.Fatalf("expected 2 audit events, got %d", len(events))
	}
	if events[0].EventType != domain.UserLoginEvent || !events[0].Success {
		t.Errorf("expected a successful login event first, got %+v", events[0])
	}
	if events[1].EventType != domain.UserLoginFailureEvent || events[1].Success {
		t.Errorf("expected a failed login event second, got %+v", events[1])
	}
	if events[1].Email != "user@example.com" || events[1].UserID != 1 {
		t.Errorf("failure event must carry the account identity, got %+v", events[1])
	}
}
