package services

import (
	"context"
	"fmt"
	"time"

	"github.com/curtesyflush1/booster-sub007/domain"
)

// LockoutConfig tunes the account lockout policy
type LockoutConfig struct {
	Threshold  int
	LockWindow time.Duration
}

// LockoutPolicyImpl implements domain.LockoutPolicy. The account state
// machine is Unlocked -> Locked(until now+window) once the failure counter
// reaches the threshold; unlocking is purely time-based and checked on the
// next attempt, never proactively.
type LockoutPolicyImpl struct {
	userRepo domain.UserRepository
	config   LockoutConfig
}

// NewLockoutPolicy creates a new lockout policy
func NewLockoutPolicy(userRepo domain.UserRepository, config LockoutConfig) domain.LockoutPolicy {
	return &LockoutPolicyImpl{userRepo: userRepo, config: config}
}

// CheckLock implements domain.LockoutPolicy. It runs before any password
// comparison so a locked account never triggers hashing work.
func (l *LockoutPolicyImpl) CheckLock(user *domain.User) error {
	if user.IsLocked(time.Now()) {
		return domain.ErrAccountLocked
	}
	return nil
}

// RegisterFailure implements domain.LockoutPolicy. The counter increment and
// the threshold-triggered lock happen in one atomic store operation; parallel
// failed attempts from retried clients must not lose counts.
func (l *LockoutPolicyImpl) RegisterFailure(ctx context.Context, user *domain.User) error {
	lockUntil := time.Now().Add(l.config.LockWindow)
	count, err := l.userRepo.IncrementFailedLogins(ctx, user.ID, l.config.Threshold, lockUntil)
	if err != nil {
		return fmt.Errorf("failed to record login failure: %w", err)
	}
	user.FailedLoginAttempts = count
	if count >= l.config.Threshold {
		user.LockedUntil = &lockUntil
	}
	return nil
}

// RegisterSuccess implements domain.LockoutPolicy. Only a verified successful
// authentication resets the counter and clears lock-until.
func (l *LockoutPolicyImpl) RegisterSuccess(ctx context.Context, user *domain.User) error {
	if user.FailedLoginAttempts == 0 && user.LockedUntil == nil {
		return nil
	}
	if err := l.userRepo.ResetFailedLogins(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to reset login failures: %w", err)
	}
	user.FailedLoginAttempts = 0
	user.LockedUntil = nil
	return nil
}
