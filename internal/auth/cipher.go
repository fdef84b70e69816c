package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/SUGALIRAHUL/adapti-finance-pal/internal/models"
)

// cipherKeySize is the AES-256 key length in bytes.
const cipherKeySize = 32

// SecretCipher protects TOTP seeds at rest with AES-256-GCM. Each call to
// Encrypt uses a fresh random nonce, prepended to the ciphertext before
// base64 encoding, so a blob is self-contained.
type SecretCipher struct {
	aead cipher.AEAD
}

// NewSecretCipher derives a 32-byte key from the configured secret material
// by padding with zero bytes or truncating, then builds the AEAD.
func NewSecretCipher(keyMaterial string) (*SecretCipher, error) {
	if keyMaterial == "" {
		return nil, fmt.Errorf("cipher key material must not be empty")
	}

	key := make([]byte, cipherKeySize)
	copy(key, []byte(keyMaterial))

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &SecretCipher{aead: aead}, nil
}

// Encrypt seals the plaintext and returns base64(nonce || ciphertext).
func (c *SecretCipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt splits the nonce off the decoded blob and opens the ciphertext.
// Any malformed blob, wrong key, or failed authentication tag surfaces as
// models.ErrDecryptionFailed; garbage plaintext is never returned.
func (c *SecretCipher) Decrypt(blob string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return "", fmt.Errorf("%w: malformed blob encoding", models.ErrDecryptionFailed)
	}

	nonceSize := c.aead.NonceSize()
	if len(raw) < nonceSize {
		return "", fmt.Errorf("%w: blob shorter than nonce", models.ErrDecryptionFailed)
	}

	nonce, ciphertext := raw[:nonceSize], raw[nonceSize:]
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("%w: authentication failed", models.ErrDecryptionFailed)
	}

	return string(plaintext), nil
}
