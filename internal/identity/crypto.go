package identity

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

const encVersion = "v1"

var ErrBadCiphertext = errors.New("identity: malformed ciphertext")

// Cipher encrypts RRNs at rest with AES-256-GCM. The key is derived from a
// deployment secret by SHA-256, matching the stored-record format
// "v1:<iv>:<ciphertext>:<tag>" with base64 segments.
type Cipher struct {
	aead cipher.AEAD
}

func NewCipher(secret string) (*Cipher, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("identity: empty encryption secret")
	}
	key := sha256.Sum256([]byte(secret))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Cipher{aead: aead}, nil
}

func (c *Cipher) Encrypt(rrn string) (string, error) {
	iv := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(iv); err != nil {
		return "", err
	}
	sealed := c.aead.Seal(nil, iv, []byte(rrn), nil)
	ct := sealed[:len(sealed)-c.aead.Overhead()]
	tag := sealed[len(sealed)-c.aead.Overhead():]

	enc := base64.StdEncoding
	return fmt.Sprintf("%s:%s:%s:%s", encVersion, enc.EncodeToString(iv), enc.EncodeToString(ct), enc.EncodeToString(tag)), nil
}

func (c *Cipher) Decrypt(stored string) (string, error) {
	parts := strings.Split(stored, ":")
	if len(parts) != 4 || parts[0] != encVersion {
		return "", ErrBadCiphertext
	}
	enc := base64.StdEncoding
	iv, err := enc.DecodeString(parts[1])
	if err != nil {
		return "", ErrBadCiphertext
	}
	ct, err := enc.DecodeString(parts[2])
	if err != nil {
		return "", ErrBadCiphertext
	}
	tag, err := enc.DecodeString(parts[3])
	if err != nil {
		return "", ErrBadCiphertext
	}
	if len(iv) != c.aead.NonceSize() {
		return "", ErrBadCiphertext
	}
	plain, err := c.aead.Open(nil, iv, append(ct, tag...), nil)
	if err != nil {
		return "", fmt.Errorf("identity: decrypt: %w", err)
	}
	return string(plain), nil
}
