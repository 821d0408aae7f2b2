package db

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/go-faster/errors"
)

// Token sealing for stored monday.com credentials. Every ciphertext is
// versioned twice: a "v<N>:" prefix on the ciphertext itself and the
// key_version column on the row, so a key rotation can tell old and new
// material apart without guessing.

// currentKeyVersion is stamped on every seal. openToken refuses versions
// it does not know how to open.
const currentKeyVersion = 1

var credentialKey []byte

// InitEncryptionKey loads CREDENTIAL_ENCRYPTION_KEY from the environment.
// Must be called at startup in hosted mode. Panics when the key is absent
// or not a base64-encoded 32-byte value.
func InitEncryptionKey() {
	raw := os.Getenv("CREDENTIAL_ENCRYPTION_KEY")
	if raw == "" {
		panic("CREDENTIAL_ENCRYPTION_KEY is required")
	}
	key, err := base64.StdEncoding.DecodeString(raw)
	if err != nil || len(key) != 32 {
		panic(fmt.Sprintf("CREDENTIAL_ENCRYPTION_KEY must be 32 bytes base64-encoded (got %d bytes)", len(key)))
	}
	credentialKey = key
}

// sealToken encrypts a monday.com API token with AES-256-GCM and returns
// the versioned ciphertext together with the key version that sealed it.
func sealToken(token string) (string, int, error) {
	block, err := aes.NewCipher(credentialKey)
	if err != nil {
		return "", 0, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", 0, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", 0, err
	}
	sealed := gcm.Seal(nonce, nonce, []byte(token), nil) // nonce || ciphertext || tag
	ciphertext := fmt.Sprintf("v%d:%s", currentKeyVersion, base64.StdEncoding.EncodeToString(sealed))
	return ciphertext, currentKeyVersion, nil
}

// openToken decrypts a stored token. Both the row's key version and the
// ciphertext prefix must name a version this build can open; a mismatch
// between the two means the row is corrupt.
func openToken(ciphertext string, keyVersion int) (string, error) {
	if keyVersion != currentKeyVersion {
		return "", errors.Errorf("unsupported credential key version %d", keyVersion)
	}
	prefix := fmt.Sprintf("v%d:", keyVersion)
	if !strings.HasPrefix(ciphertext, prefix) {
		return "", errors.Errorf("ciphertext does not carry the v%d prefix", keyVersion)
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(ciphertext, prefix))
	if err != nil {
		return "", errors.Wrap(err, "decode ciphertext")
	}
	block, err := aes.NewCipher(credentialKey)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}
	nonceSize := gcm.NonceSize()
	if len(raw) < nonceSize {
		return "", errors.New("ciphertext too short")
	}
	plain, err := gcm.Open(nil, raw[:nonceSize], raw[nonceSize:], nil)
	if err != nil {
		return "", errors.Wrap(err, "open token")
	}
	return string(plain), nil
}
