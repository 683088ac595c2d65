package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/crypto/argon2"

	"github.com/curtesyflush1/booster-sub007/domain"
)

// userSchemePrefix marks ciphertexts produced under a per-user derived key.
// Legacy master-key blobs carry no prefix; the stored scheme tag covers them.
const userSchemePrefix = "v2:"

// MasterKeySource supplies the current master key material. Swapping the KMS
// configuration invalidates the cipher's cached copy through
// InvalidateKeyCache so the next call observes the new source.
type MasterKeySource interface {
	MasterKey() ([]byte, error)
}

// CredentialCipherImpl implements domain.CredentialCipher using AES-256-GCM.
// Per-user keys are derived with argon2id from the user's own secret and are
// never persisted; they are recomputed on every call.
type CredentialCipherImpl struct {
	keySource MasterKeySource
	salt      []byte

	mu        sync.Mutex
	masterKey []byte
}

// NewCredentialCipher creates a credential cipher. salt is the internal
// key-derivation salt from configuration.
func NewCredentialCipher(keySource MasterKeySource, salt string) *CredentialCipherImpl {
	return &CredentialCipherImpl{
		keySource: keySource,
		salt:      []byte(salt),
	}
}

// DeriveUserKey computes the per-user encryption key from the caller-supplied
// secret, the user id and the internal salt. Deterministic: the same inputs
// always yield the same key.
func (c *CredentialCipherImpl) DeriveUserKey(userID uint, userSecret string) []byte {
	salt := append([]byte{}, c.salt...)
	salt = append(salt, []byte(strconv.FormatUint(uint64(userID), 10))...)
	return argon2.IDKey([]byte(userSecret), salt, 1, 64*1024, 4, 32)
}

// EncryptWithUserKey implements domain.CredentialCipher
func (c *CredentialCipherImpl) EncryptWithUserKey(plaintext, userSecret string, userID uint) (string, error) {
	if plaintext == "" {
		return "", fmt.Errorf("%w: empty plaintext", domain.ErrValidation)
	}
	key := c.DeriveUserKey(userID, userSecret)
	sealed, err := seal([]byte(plaintext), key)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt credential: %w", err)
	}
	return userSchemePrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptWithUserKey implements domain.CredentialCipher
func (c *CredentialCipherImpl) DecryptWithUserKey(ciphertext, userSecret string, userID uint) (string, error) {
	if !strings.HasPrefix(ciphertext, userSchemePrefix) {
		return "", domain.ErrDecryptionFailed
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(ciphertext, userSchemePrefix))
	if err != nil {
		return "", domain.ErrDecryptionFailed
	}
	key := c.DeriveUserKey(userID, userSecret)
	plaintext, err := open(raw, key)
	if err != nil {
		return "", domain.ErrDecryptionFailed
	}
	return string(plaintext), nil
}

// EncryptGlobal encrypts under the master key (legacy scheme). Kept for the
// migration tests and the test-stack tool; new writes use the user scheme.
func (c *CredentialCipherImpl) EncryptGlobal(plaintext string) (string, error) {
	key, err := c.currentMasterKey()
	if err != nil {
		return "", err
	}
	sealed, err := seal([]byte(plaintext), key)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt credential: %w", err)
	}
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptGlobal implements domain.CredentialCipher
func (c *CredentialCipherImpl) DecryptGlobal(ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", domain.ErrDecryptionFailed
	}
	key, err := c.currentMasterKey()
	if err != nil {
		return "", err
	}
	plaintext, err := open(raw, key)
	if err != nil {
		return "", domain.ErrDecryptionFailed
	}
	return string(plaintext), nil
}

// SchemeOf implements domain.CredentialCipher. The format marker makes stored
// blobs self-describing even before the record tag is consulted.
func (c *CredentialCipherImpl) SchemeOf(ciphertext string) domain.CredentialScheme {
	if strings.HasPrefix(ciphertext, userSchemePrefix) {
		return domain.SchemeUserSpecific
	}
	return domain.SchemeGlobal
}

// InvalidateKeyCache implements domain.CredentialCipher
func (c *CredentialCipherImpl) InvalidateKeyCache() {
	c.mu.Lock()
	c.masterKey = nil
	c.mu.Unlock()
}

func (c *CredentialCipherImpl) currentMasterKey() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.masterKey != nil {
		return c.masterKey, nil
	}
	material, err := c.keySource.MasterKey()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrKMSConnectivity, err)
	}
	// normalize arbitrary-length material into an AES-256 key
	key := sha256.Sum256(material)
	c.masterKey = key[:]
	return c.masterKey, nil
}

// seal encrypts plaintext with AES-GCM, prepending the random nonce
func seal(plaintext, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aesgcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return append(nonce, aesgcm.Seal(nil, nonce, plaintext, nil)...), nil
}

// open decrypts a nonce-prefixed AES-GCM blob
func open(sealed, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if len(sealed) < aesgcm.NonceSize() {
		return nil, fmt.Errorf("ciphertext shorter than nonce")
	}
	nonce, ciphertext := sealed[:aesgcm.NonceSize()], sealed[aesgcm.NonceSize():]
	return aesgcm.Open(nil, nonce, ciphertext, nil)
}
