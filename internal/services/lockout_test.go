package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/curtesyflush1/booster-sub007/domain"
	"github.com/curtesyflush1/booster-sub007/internal/mocks"
)

func TestLockoutPolicyImpl_CheckLock(t *testing.T) {
	policy := NewLockoutPolicy(mocks.NewMockUserRepository(), LockoutConfig{Threshold: 5, LockWindow: 15 * time.Minute})

	past := time.Now().Add(-time.Minute)
	future := time.Now().Add(10 * time.Minute)

	tests := []struct {
		name          string
		user          *domain.User
		expectedError error
	}{
		{"unlocked account", &domain.User{ID: 1}, nil},
		{"active lock", &domain.User{ID: 1, LockedUntil: &future}, domain.ErrAccountLocked},
		{"lapsed lock", &domain.User{ID: 1, LockedUntil: &past}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := policy.CheckLock(tt.user); err != tt.expectedError {
				t.Errorf("expected %v, got %v", tt.expectedError, err)
			}
		})
	}
}

func TestLockoutPolicyImpl_RegisterFailure(t *testing.T) {
	userRepo := mocks.NewMockUserRepository()

	var gotThreshold int
	userRepo.IncrementFailedLoginsFunc = func(ctx context.Context, userID uint, threshold int, lockUntil time.Time) (int, error) {
		gotThreshold = threshold
		return 3, nil
	}

	policy := NewLockoutPolicy(userRepo, LockoutConfig{Threshold: 5, LockWindow: 15 * time.Minute})
	user := &domain.User{ID: 1}

	if err := policy.RegisterFailure(context.Background(), user); err != nil {
		t.Fatalf("RegisterFailure failed: %v", err)
	}
	if gotThreshold != 5 {
		t.Errorf("expected threshold 5 passed through, got %d", gotThreshold)
	}
	if user.FailedLoginAttempts != 3 {
		t.Errorf("expected in-memory counter 3, got %d", user.FailedLoginAttempts)
	}
	if user.LockedUntil != nil {
		t.Error("below-threshold failure must not set a lock")
	}
}

func TestLockoutPolicyImpl_RegisterFailure_ThresholdLocks(t *testing.T) {
	userRepo := mocks.NewMockUserRepository()
	userRepo.IncrementFailedLoginsFunc = func(ctx context.Context, userID uint, threshold int, lockUntil time.Time) (int, error) {
		return threshold, nil
	}

	policy := NewLockoutPolicy(userRepo, LockoutConfig{Threshold: 5, LockWindow: 15 * time.Minute})
	user := &domain.User{ID: 1}

	if err := policy.RegisterFailure(context.Background(), user); err != nil {
		t.Fatalf("RegisterFailure failed: %v", err)
	}
	if user.LockedUntil == nil {
		t.Fatal("threshold failure must set the lock")
	}
	until := time.Until(*user.LockedUntil)
	if until <= 14*time.Minute || until > 15*time.Minute {
		t.Errorf("expected a lock close to the 15m window, got %v", until)
	}
	if err := policy.CheckLock(user); err != domain.ErrAccountLocked {
		t.Errorf("expected ErrAccountLocked after threshold, got %v", err)
	}
}

func TestLockoutPolicyImpl_RegisterFailure_StoreError(t *testing.T) {
	userRepo := mocks.NewMockUserRepository()
	userRepo.IncrementFailedLoginsFunc = func(ctx context.Context, userID uint, threshold int, lockUntil time.Time) (int, error) {
		return 0, errors.New("database down")
	}

	policy := NewLockoutPolicy(userRepo, LockoutConfig{Threshold: 5, LockWindow: 15 * time.Minute})
	if err := policy.RegisterFailure(context.Background(), &domain.User{ID: 1}); err == nil {
		t.Error("expected an error when the store rejects the increment")
	}
}

func TestLockoutPolicyImpl_RegisterSuccess(t *testing.T) {
	userRepo := mocks.NewMockUserRepository()

	resetCalls := 0
	userRepo.ResetFailedLoginsFunc = func(ctx context.Context, userID uint) error {
		resetCalls++
		return nil
	}

	policy := NewLockoutPolicy(userRepo, LockoutConfig{Threshold: 5, LockWindow: 15 * time.Minute})

	// a clean account skips the store round trip
	clean := &domain.User{ID: 1}
	if err := policy.RegisterSuccess(context.Background(), clean); err != nil {
		t.Fatalf("RegisterSuccess failed: %v", err)
	}
	if resetCalls != 0 {
		t.Errorf("expected no reset for a clean account, got %d", resetCalls)
	}

	lapsed := time.Now().Add(-time.Minute)
	dirty := &domain.User{ID: 2, FailedLoginAttempts: 4, LockedUntil: &lapsed}
	if err := policy.RegisterSuccess(context.Background(), dirty); err != nil {
		t.Fatalf("RegisterSuccess failed: %v", err)
	}
	if resetCalls != 1 {
		t.Errorf("expected one reset, got %d", resetCalls)
	}
	if dirty.FailedLoginAttempts != 0 || dirty.LockedUntil != nil {
		t.Error("expected cleared in-memory failure state")
	}
}
