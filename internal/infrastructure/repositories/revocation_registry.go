package repositories

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"

	"github.com/curtesyflush1/booster-sub007/domain"
)

// RevocationRegistryImpl implements domain.RevocationRegistry using Redis.
// Entries are keyed by token hash and stored with a TTL equal to the token's
// remaining lifetime, so the registry is self-cleaning: a revocation never
// lapses before the token itself would have expired.
//
// The registry is fail-secure. If Redis is unreachable, IsRevoked reports
// revoked; availability is sacrificed for safety.
type RevocationRegistryImpl struct {
	client     *redis.Client
	prefix     string
	setPrefix  string
	defaultTTL time.Duration
}

// NewRevocationRegistry creates a new revocation registry. defaultTTL bounds
// entries whose expiry claim cannot be read; it should equal the refresh
// token lifetime (the longest-lived token class).
func NewRevocationRegistry(client *redis.Client, defaultTTL time.Duration) domain.RevocationRegistry {
	return &RevocationRegistryImpl{
		client:     client,
		prefix:     "revoked:",
		setPrefix:  "usertokens:",
		defaultTTL: defaultTTL,
	}
}

// Revoke implements domain.RevocationRegistry. A token already past its
// natural expiry needs no entry; that is reported as success.
func (r *RevocationRegistryImpl) Revoke(ctx context.Context, token, reason string) error {
	ttl := r.remainingLife(token)
	if ttl <= 0 {
		return nil
	}

	key := r.prefix + hashToken(token)
	if err := r.client.Set(ctx, key, reason, ttl).Err(); err != nil {
		return fmt.Errorf("failed to record revocation: %w", err)
	}
	return nil
}

// IsRevoked implements domain.RevocationRegistry. A store outage reads as
// revoked (deny), never as clear (allow).
func (r *RevocationRegistryImpl) IsRevoked(ctx context.Context, token string) (bool, error) {
	key := r.prefix + hashToken(token)
	n, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return true, fmt.Errorf("revocation store unreachable: %w", err)
	}
	return n > 0, nil
}

// RevokeAll implements domain.RevocationRegistry. Reads the tracked-token set
// for the user, revokes every member, then clears the set.
func (r *RevocationRegistryImpl) RevokeAll(ctx context.Context, userID uint, reason string) error {
	setKey := r.userSetKey(userID)
	tokens, err := r.client.SMembers(ctx, setKey).Result()
	if err != nil {
		return fmt.Errorf("failed to read tracked tokens: %w", err)
	}

	pipe := r.client.Pipeline()
	for _, token := range tokens {
		ttl := r.remainingLife(token)
		if ttl <= 0 {
			continue
		}
		pipe.Set(ctx, r.prefix+hashToken(token), reason, ttl)
	}
	pipe.Del(ctx, setKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to revoke tracked tokens: %w", err)
	}
	return nil
}

// TrackIssuedToken implements domain.RevocationRegistry. Tracking happens
// after issuance; a token briefly outside the set before registration is
// acceptable, but the set must cover it before any bulk revoke matters.
func (r *RevocationRegistryImpl) TrackIssuedToken(ctx context.Context, userID uint, token string) error {
	setKey := r.userSetKey(userID)
	pipe := r.client.Pipeline()
	pipe.SAdd(ctx, setKey, token)
	// refresh the set lifetime to cover the newest token
	pipe.Expire(ctx, setKey, r.defaultTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to track issued token: %w", err)
	}
	return nil
}

func (r *RevocationRegistryImpl) userSetKey(userID uint) string {
	return fmt.Sprintf("%s%d", r.setPrefix, userID)
}

// remainingLife reads the token's expiry claim without verifying the
// signature; the registry stores state about tokens, it does not trust them.
func (r *RevocationRegistryImpl) remainingLife(token string) time.Duration {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return r.defaultTTL
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return r.defaultTTL
	}
	ttl := time.Until(exp.Time)
	if ttl <= 0 {
		return 0
	}
	if ttl < time.Second {
		ttl = time.Second
	}
	return ttl
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
