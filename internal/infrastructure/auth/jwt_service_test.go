package auth

import (
	"testing"
	"time"

	"github.com/curtesyflush1/booster-sub007/domain"
)

func newTestJWTService() domain.TokenService {
	return NewJWTService("access-secret", "refresh-secret", "test-issuer", 15*time.Minute, 168*time.Hour)
}

func TestJWTServiceImpl_IssueAndVerify(t *testing.T) {
	svc := newTestJWTService()

	pair, err := svc.Issue(42)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected both tokens to be signed")
	}
	if pair.AccessToken == pair.RefreshToken {
		t.Error("access and refresh tokens must differ")
	}
	if pair.ExpiresIn != int64((15 * time.Minute).Seconds()) {
		t.Errorf("expected expires_in %d, got %d", int64((15 * time.Minute).Seconds()), pair.ExpiresIn)
	}

	claims, err := svc.Verify(pair.AccessToken, domain.KeyRoleAccess)
	if err != nil {
		t.Fatalf("Verify access failed: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("expected user 42, got %d", claims.UserID)
	}
	if claims.JTI == "" {
		t.Error("expected a non-empty jti")
	}
	if claims.RemainingLife(time.Now()) <= 0 {
		t.Error("expected positive remaining life")
	}

	refreshClaims, err := svc.Verify(pair.RefreshToken, domain.KeyRoleRefresh)
	if err != nil {
		t.Fatalf("Verify refresh failed: %v", err)
	}
	if refreshClaims.JTI == claims.JTI {
		t.Error("each token must carry its own jti")
	}
}

func TestJWTServiceImpl_Verify_RoleSeparation(t *testing.T) {
	svc := newTestJWTService()

	pair, err := svc.Issue(1)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	tests := []struct {
		name  string
		token string
		role  domain.KeyRole
	}{
		{"access token under refresh role", pair.AccessToken, domain.KeyRoleRefresh},
		{"refresh token under access role", pair.RefreshToken, domain.KeyRoleAccess},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Verify(tt.token, tt.role); err != domain.ErrTokenInvalid {
				t.Errorf("expected ErrTokenInvalid, got %v", err)
			}
		})
	}
}

func TestJWTServiceImpl_Verify_Invalid(t *testing.T) {
	svc := newTestJWTService()
	other := NewJWTService("other-access", "other-refresh", "test-issuer", 15*time.Minute, 168*time.Hour)

	foreign, err := other.Issue(1)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"garbage token", "not.a.token"},
		{"empty token", ""},
		{"wrong signing secret", foreign.AccessToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Verify(tt.token, domain.KeyRoleAccess); err != domain.ErrTokenInvalid {
				t.Errorf("expected ErrTokenInvalid, got %v", err)
			}
		})
	}
}

func TestJWTServiceImpl_Verify_Expired(t *testing.T) {
	svc := NewJWTService("access-secret", "refresh-secret", "test-issuer", -time.Minute, 168*time.Hour)

	pair, err := svc.Issue(1)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := svc.Verify(pair.AccessToken, domain.KeyRoleAccess); err != domain.ErrTokenExpired {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}
