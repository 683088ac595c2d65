package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/curtesyflush1/booster-sub007/domain"
)

// JWTServiceImpl implements domain.TokenService. Access and refresh tokens
// are signed with distinct secrets so one class can never stand in for the
// other. Verification is purely cryptographic plus expiry; revocation is the
// caller's composition with the registry.
type JWTServiceImpl struct {
	accessSecret  []byte
	refreshSecret []byte
	issuer        string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewJWTService creates a new JWT service
func NewJWTService(accessSecret, refreshSecret, issuer string, accessTTL, refreshTTL time.Duration) domain.TokenService {
	return &JWTServiceImpl{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		issuer:        issuer,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// generateJTI creates a unique token identifier used as the revocation key
func (j *JWTServiceImpl) generateJTI() string {
	bytes := make([]byte, 16)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// Issue implements domain.TokenService
func (j *JWTServiceImpl) Issue(userID uint) (*domain.TokenPair, error) {
	accessToken, err := j.sign(userID, j.accessSecret, j.accessTTL)
	if err != nil {
		return nil, err
	}

	refreshToken, err := j.sign(userID, j.refreshSecret, j.refreshTTL)
	if err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(j.accessTTL.Seconds()),
	}, nil
}

func (j *JWTServiceImpl) sign(userID uint, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID,
		"iss": j.issuer,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
		"jti": j.generateJTI(), // every token is individually revocable
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// Verify implements domain.TokenService. Failures collapse to exactly two
// kinds: expired and invalid. Bad signature, malformed payload and wrong key
// role are indistinguishable to the caller.
func (j *JWTServiceImpl) Verify(tokenString string, role domain.KeyRole) (*domain.TokenClaims, error) {
	secret := j.accessSecret
	if role == domain.KeyRoleRefresh {
		secret = j.refreshSecret
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrTokenInvalid
		}
		return secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}

	if !token.Valid {
		return nil, domain.ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrTokenInvalid
	}

	userID, ok := claims["sub"].(float64)
	if !ok {
		return nil, domain.ErrTokenInvalid
	}

	jti, ok := claims["jti"].(string)
	if !ok || jti == "" {
		return nil, domain.ErrTokenInvalid
	}

	iat, ok := claims["iat"].(float64)
	if !ok {
		return nil, domain.ErrTokenInvalid
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, domain.ErrTokenInvalid
	}

	if time.Unix(int64(exp), 0).Before(time.Now()) {
		return nil, domain.ErrTokenExpired
	}

	return &domain.TokenClaims{
		UserID:    uint(userID),
		JTI:       jti,
		IssuedAt:  int64(iat),
		ExpiresAt: int64(exp),
	}, nil
}
