// Package securecipher reversibly obscures ledger secret fields with a
// password-derived key. Obscuring is transparent to the engine core, which
// always works with plaintext values in memory and asks for re-obscuring only
// at persist time.
package securecipher

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
)

// ErrInvalidCiphertext is returned when decrypting a malformed or tampered
// value, typically meaning the wrong password was configured.
var ErrInvalidCiphertext = errors.New("invalid ciphertext")

// Cipher encrypts and decrypts strings with AES-GCM under a key derived from
// the configured password. A cipher built from an empty password is a
// passthrough, matching the ledger-encryption-disabled mode.
type Cipher struct {
	gcm cipher.AEAD
}

// New derives the AES key as the SHA-256 digest of the password.
func New(password string) (*Cipher, error) {
	if password == "" {
		return &Cipher{}, nil
	}

	key := sha256.Sum256([]byte(password))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Cipher{gcm: gcm}, nil
}

// Enabled reports whether values are actually obscured.
func (c *Cipher) Enabled() bool {
	return c.gcm != nil
}

// Encrypt obscures a value. Empty values pass through untouched so optional
// secret fields stay empty in the persisted ledger.
func (c *Cipher) Encrypt(value string) (string, error) {
	if !c.Enabled() || value == "" {
		return value, nil
	}

	nonce := make([]byte, c.gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	sealed := c.gcm.Seal(nonce, nonce, []byte(value), nil)
	return base64.URLEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt.
func (c *Cipher) Decrypt(value string) (string, error) {
	if !c.Enabled() || value == "" {
		return value, nil
	}

	sealed, err := base64.URLEncoding.DecodeString(value)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidCiphertext, err)
	}
	if len(sealed) < c.gcm.NonceSize() {
		return "", ErrInvalidCiphertext
	}
	nonce, ciphertext := sealed[:c.gcm.NonceSize()], sealed[c.gcm.NonceSize():]
	plain, err := c.gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidCiphertext, err)
	}
	return string(plain), nil
}
