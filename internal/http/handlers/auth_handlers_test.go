package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/curtesyflush1/booster-sub007/domain"
	"github.com/curtesyflush1/booster-sub007/internal/mocks"
)

func performJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response %q: %v", w.Body.String(), err)
	}
	return body
}

func TestAuthHandlers_Register(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		requestBody    interface{}
		setupMock      func(*mocks.MockAuthService)
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "successful registration",
			requestBody:    RegisterRequest{Email: "user@example.com", Password: "long-enough-password"},
			setupMock:      func(svc *mocks.MockAuthService) {},
			expectedStatus: http.StatusCreated,
		},
		{
			name:        "duplicate email",
			requestBody: RegisterRequest{Email: "taken@example.com", Password: "long-enough-password"},
			setupMock: func(svc *mocks.MockAuthService) {
				svc.RegisterFunc = func(ctx context.Context, email, password string) (*domain.AuthResult, error) {
					return nil, domain.ErrUserAlreadyExists
				}
			},
			expectedStatus: http.StatusConflict,
			expectedError:  "User already exists",
		},
		{
			name:           "password too short",
			requestBody:    RegisterRequest{Email: "user@example.com", Password: "short"},
			setupMock:      func(svc *mocks.MockAuthService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid email",
			requestBody:    RegisterRequest{Email: "not-an-email", Password: "long-enough-password"},
			setupMock:      func(svc *mocks.MockAuthService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authSvc := mocks.NewMockAuthService()
			tt.setupMock(authSvc)

			r := gin.New()
			r.POST("/auth/register", NewAuthHandlers(authSvc).Register)

			w := performJSON(t, r, "POST", "/auth/register", tt.requestBody)

			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d (body %s)", tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.expectedError != "" {
				body := decodeBody(t, w)
				if body["error"] != tt.expectedError {
					t.Errorf("expected error %q, got %q", tt.expectedError, body["error"])
				}
			}
			if tt.expectedStatus == http.StatusCreated {
				body := decodeBody(t, w)
				data, ok := body["data"].(map[string]interface{})
				if !ok {
					t.Fatalf("expected a data envelope, got %v", body)
				}
				if data["access_token"] == "" || data["refresh_token"] == "" {
					t.Error("expected a token pair in the response")
				}
				if data["token_type"] != "Bearer" {
					t.Errorf("expected Bearer token type, got %v", data["token_type"])
				}
			}
		})
	}
}

func TestAuthHandlers_Login(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		requestBody    interface{}
		setupMock      func(*mocks.MockAuthService)
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "successful login",
			requestBody:    LoginRequest{Email: "user@example.com", Password: "correct-password"},
			setupMock:      func(svc *mocks.MockAuthService) {},
			expectedStatus: http.StatusOK,
		},
		{
			name:        "invalid credentials",
			requestBody: LoginRequest{Email: "user@example.com", Password: "wrong-password"},
			setupMock: func(svc *mocks.MockAuthService) {
				svc.LoginFunc = func(ctx context.Context, email, password string) (*domain.AuthResult, error) {
					return nil, domain.ErrInvalidCredentials
				}
			},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Invalid credentials",
		},
		{
			name:        "locked account",
			requestBody: LoginRequest{Email: "locked@example.com", Password: "correct-password"},
			setupMock: func(svc *mocks.MockAuthService) {
				svc.LoginFunc = func(ctx context.Context, email, password string) (*domain.AuthResult, error) {
					return nil, domain.ErrAccountLocked
				}
			},
			expectedStatus: http.StatusLocked,
			expectedError:  "Account temporarily locked",
		},
		{
			name:           "missing password",
			requestBody:    map[string]string{"email": "user@example.com"},
			setupMock:      func(svc *mocks.MockAuthService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authSvc := mocks.NewMockAuthService()
			tt.setupMock(authSvc)

			r := gin.New()
			r.POST("/auth/login", NewAuthHandlers(authSvc).Login)

			w := performJSON(t, r, "POST", "/auth/login", tt.requestBody)

			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d (body %s)", tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.expectedError != "" {
				body := decodeBody(t, w)
				if body["error"] != tt.expectedError {
					t.Errorf("expected error %q, got %q", tt.expectedError, body["error"])
				}
			}
		})
	}
}

func TestAuthHandlers_Refresh(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		setupMock      func(*mocks.MockAuthService)
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "successful rotation",
			setupMock:      func(svc *mocks.MockAuthService) {},
			expectedStatus: http.StatusOK,
		},
		{
			name: "expired refresh token",
			setupMock: func(svc *mocks.MockAuthService) {
				svc.RefreshFunc = func(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
					return nil, domain.ErrTokenExpired
				}
			},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Token expired",
		},
		{
			name: "revoked refresh token",
			setupMock: func(svc *mocks.MockAuthService) {
				svc.RefreshFunc = func(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
					return nil, domain.ErrTokenRevoked
				}
			},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Invalid token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authSvc := mocks.NewMockAuthService()
			tt.setupMock(authSvc)

			r := gin.New()
			r.POST("/auth/refresh", NewAuthHandlers(authSvc).Refresh)

			w := performJSON(t, r, "POST", "/auth/refresh", RefreshRequest{RefreshToken: "some-refresh-token"})

			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d (body %s)", tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.expectedError != "" {
				body := decodeBody(t, w)
				if body["error"] != tt.expectedError {
					t.Errorf("expected error %q, got %q", tt.expectedError, body["error"])
				}
			}
		})
	}
}

func TestAuthHandlers_RequestPasswordReset(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// the acknowledgement must not differ between known and unknown emails
	var bodies []string
	for _, email := range []string{"known@example.com", "unknown@example.com"} {
		authSvc := mocks.NewMockAuthService()
		r := gin.New()
		r.POST("/auth/password-reset", NewAuthHandlers(authSvc).RequestPasswordReset)

		w := performJSON(t, r, "POST", "/auth/password-reset", PasswordResetRequest{Email: email})
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		bodies = append(bodies, w.Body.String())
	}
	if bodies[0] != bodies[1] {
		t.Errorf("reset acknowledgements must be identical, got %q vs %q", bodies[0], bodies[1])
	}
}

func TestAuthHandlers_ResetPassword(t *testing.T) {
	gin.SetMode(gin.TestMode)

	authSvc := mocks.NewMockAuthService()
	authSvc.ResetPasswordFunc = func(ctx context.Context, token, newPassword string) error {
		if token == "good-token" {
			return nil
		}
		return domain.ErrResetTokenInvalid
	}

	r := gin.New()
	r.POST("/auth/password-reset/confirm", NewAuthHandlers(authSvc).ResetPassword)

	w := performJSON(t, r, "POST", "/auth/password-reset/confirm",
		PasswordResetConfirm{Token: "good-token", NewPassword: "brand-new-password"})
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for a valid token, got %d", w.Code)
	}

	w = performJSON(t, r, "POST", "/auth/password-reset/confirm",
		PasswordResetConfirm{Token: "stale-token", NewPassword: "brand-new-password"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a stale token, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["error"] != "Invalid or expired reset token" {
		t.Errorf("unexpected error message: %v", body["error"])
	}
}

func TestAuthHandlers_ChangePassword(t *testing.T) {
	gin.SetMode(gin.TestMode)

	authSvc := mocks.NewMockAuthService()
	authSvc.ChangePasswordFunc = func(ctx context.Context, userID uint, current, new string) error {
		if current == "correct-password" {
			return nil
		}
		return domain.ErrInvalidCurrentPassword
	}

	r := gin.New()
	r.POST("/auth/change-password", func(c *gin.Context) {
		c.Set("user_id", uint(1))
	}, NewAuthHandlers(authSvc).ChangePassword)

	w := performJSON(t, r, "POST", "/auth/change-password",
		ChangePasswordRequest{CurrentPassword: "correct-password", NewPassword: "brand-new-password"})
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d (body %s)", w.Code, w.Body.String())
	}

	w = performJSON(t, r, "POST", "/auth/change-password",
		ChangePasswordRequest{CurrentPassword: "wrong-password", NewPassword: "brand-new-password"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for a wrong current password, got %d", w.Code)
	}
}

func TestAuthHandlers_VerifyEmail(t *testing.T) {
	gin.SetMode(gin.TestMode)

	authSvc := mocks.NewMockAuthService()
	authSvc.VerifyEmailFunc = func(ctx context.Context, token string) error {
		if token == "valid-verification" {
			return nil
		}
		return domain.ErrVerificationTokenInvalid
	}

	r := gin.New()
	r.GET("/auth/verify-email/:token", NewAuthHandlers(authSvc).VerifyEmail)

	req := httptest.NewRequest("GET", "/auth/verify-email/valid-verification", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	req = httptest.NewRequest("GET", "/auth/verify-email/bogus", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a bogus token, got %d", w.Code)
	}
}
