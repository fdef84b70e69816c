package auth

import (
	"encoding/base64"
	"testing"

	"github.com/SUGALIRAHUL/adapti-finance-pal/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecretCipher_NewSecretCipher_EmptyKey(t *testing.T) {
	c, err := NewSecretCipher("")
	assert.Error(t, err)
	assert.Nil(t, c)
}

func TestSecretCipher_KeyMaterialPaddedAndTruncated(t *testing.T) {
	// Short material is padded, long material is truncated; both must work
	short, err := NewSecretCipher("short-key")
	require.NoError(t, err)
	require.NotNil(t, short)

	long, err := NewSecretCipher("this key material is much longer than thirty-two bytes of input")
	require.NoError(t, err)
	require.NotNil(t, long)
}

func TestSecretCipher_EncryptDecrypt_RoundTrip(t *testing.T) {
	c, err := NewSecretCipher("unit-test-cipher-key-material!!!")
	require.NoError(t, err)

	plaintexts := []string{
		"JBSWY3DPEHPK3PXP",
		"",
		"GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ",
		"arbitrary plaintext with spaces",
	}

	for _, plaintext := range plaintexts {
		blob, err := c.Encrypt(plaintext)
		require.NoError(t, err)
		assert.NotEmpty(t, blob)

		decrypted, err := c.Decrypt(blob)
		require.NoError(t, err)
		assert.Equal(t, plaintext, decrypted)
	}
}

func TestSecretCipher_Encrypt_FreshNoncePerCall(t *testing.T) {
	c, err := NewSecretCipher("unit-test-cipher-key-material!!!")
	require.NoError(t, err)

	first, err := c.Encrypt("JBSWY3DPEHPK3PXP")
	require.NoError(t, err)
	second, err := c.Encrypt("JBSWY3DPEHPK3PXP")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestSecretCipher_Decrypt_TamperedCiphertext(t *testing.T) {
	c, err := NewSecretCipher("unit-test-cipher-key-material!!!")
	require.NoError(t, err)

	blob, err := c.Encrypt("JBSWY3DPEHPK3PXP")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(blob)
	require.NoError(t, err)

	// Flip one byte past the nonce
	raw[len(raw)-1] ^= 0xFF
	tampered := base64.StdEncoding.EncodeToString(raw)

	decrypted, err := c.Decrypt(tampered)
	assert.ErrorIs(t, err, models.ErrDecryptionFailed)
	assert.Empty(t, decrypted)
}

func TestSecretCipher_Decrypt_MalformedEncoding(t *testing.T) {
	c, err := NewSecretCipher("unit-test-cipher-key-material!!!")
	require.NoError(t, err)

	decrypted, err := c.Decrypt("not valid base64!!!")
	assert.ErrorIs(t, err, models.ErrDecryptionFailed)
	assert.Empty(t, decrypted)
}

func TestSecretCipher_Decrypt_BlobShorterThanNonce(t *testing.T) {
	c, err := NewSecretCipher("unit-test-cipher-key-material!!!")
	require.NoError(t, err)

	tiny := base64.StdEncoding.EncodeToString([]byte{0x01, 0x02, 0x03})
	decrypted, err := c.Decrypt(tiny)
	assert.ErrorIs(t, err, models.ErrDecryptionFailed)
	assert.Empty(t, decrypted)
}

func TestSecretCipher_Decrypt_WrongKey(t *testing.T) {
	c1, err := NewSecretCipher("unit-test-cipher-key-material!!!")
	require.NoError(t, err)
	c2, err := NewSecretCipher("a completely different key there")
	require.NoError(t, err)

	blob, err := c1.Encrypt("JBSWY3DPEHPK3PXP")
	require.NoError(t, err)

	decrypted, err := c2.Decrypt(blob)
	assert.ErrorIs(t, err, models.ErrDecryptionFailed)
	assert.Empty(t, decrypted)
}
