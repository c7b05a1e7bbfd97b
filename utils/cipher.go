package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/pbkdf2"
)

const (
	keySize           = 32
	nonceSize         = 24
	keyDerivationIts  = 100000
	keyDerivationSalt = "health-tracker-salt"
)

var ErrDecrypt = errors.New("unable to decrypt credentials")

// CredentialCipher encrypts the secrets stored alongside the user profile
type CredentialCipher struct {
	key [keySize]byte
}

// NewCredentialCipher use encryptionKey (base64, 32 bytes) when provided,
// otherwise derive the key from secret
func NewCredentialCipher(encryptionKey string, secret string) (*CredentialCipher, error) {
	c := &CredentialCipher{}
	if encryptionKey != "" {
		raw, err := base64.URLEncoding.DecodeString(encryptionKey)
		if err != nil {
			if raw, err = base64.StdEncoding.DecodeString(encryptionKey); err != nil {
				return nil, fmt.Errorf("invalid encryption key: %w", err)
			}
		}
		if len(raw) != keySize {
			return nil, fmt.Errorf("invalid encryption key: expected %d bytes got %d", keySize, len(raw))
		}
		copy(c.key[:], raw)
		return c, nil
	}
	if secret == "" {
		return nil, errors.New("either an encryption key or a secret key is required")
	}
	copy(c.key[:], pbkdf2.Key([]byte(secret), []byte(keyDerivationSalt), keyDerivationIts, keySize, sha256.New))
	return c, nil
}

// Encrypt returns url safe base64 text of nonce followed by the sealed box
func (c *CredentialCipher) Encrypt(plain string) (string, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("nonce generation: %w", err)
	}
	sealed := secretbox.Seal(nonce[:], []byte(plain), &nonce, &c.key)
	return base64.URLEncoding.EncodeToString(sealed), nil
}

func (c *CredentialCipher) Decrypt(encrypted string) (string, error) {
	raw, err := base64.URLEncoding.DecodeString(encrypted)
	if err != nil || len(raw) < nonceSize+secretbox.Overhead {
		return "", ErrDecrypt
	}
	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	plain, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, &c.key)
	if !ok {
		return "", ErrDecrypt
	}
	return string(plain), nil
}
