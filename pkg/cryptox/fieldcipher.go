package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// MinFieldKeyBytes is the shortest key material NewFieldCipher accepts.
const MinFieldKeyBytes = 32

const (
	encInfo   = "notes/field-cipher/aes-256-gcm"
	indexInfo = "notes/field-cipher/blind-index"
)

var (
	ErrWeakFieldKey     = errors.New("cryptox: field key must be at least 32 bytes")
	ErrCiphertextShort  = errors.New("cryptox: ciphertext too short")
	ErrDecryptionFailed = errors.New("cryptox: decryption failed")
)

// FieldCipher encrypts individual column values (currently user emails) with
// AES-256-GCM and derives a keyed blind index so equality lookups work
// without decrypting every row.
//
// Output format of Encrypt: [12-byte nonce][ciphertext][16-byte auth tag].
// A fresh random nonce is drawn for every call.
type FieldCipher struct {
	aead     cipher.AEAD
	indexKey []byte
}

// NewFieldCipher derives independent encryption and index keys from the
// supplied key material using HKDF-SHA256.
func NewFieldCipher(keyMaterial []byte) (*FieldCipher, error) {
	if len(keyMaterial) < MinFieldKeyBytes {
		return nil, ErrWeakFieldKey
	}

	encKey, err := deriveKey(keyMaterial, encInfo)
	if err != nil {
		return nil, err
	}
	indexKey, err := deriveKey(keyMaterial, indexInfo)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(encKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &FieldCipher{aead: gcm, indexKey: indexKey}, nil
}

func deriveKey(material []byte, info string) ([]byte, error) {
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, material, nil, []byte(info)), key); err != nil {
		return nil, fmt.Errorf("cryptox: derive %s: %w", info, err)
	}
	return key, nil
}

// Encrypt seals plaintext under a new random nonce.
func (c *FieldCipher) Encrypt(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return c.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt opens data produced by Encrypt.
func (c *FieldCipher) Decrypt(data []byte) ([]byte, error) {
	nonceSize := c.aead.NonceSize()
	if len(data) < nonceSize+c.aead.Overhead() {
		return nil, ErrCiphertextShort
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

func (c *FieldCipher) EncryptString(s string) ([]byte, error) { return c.Encrypt([]byte(s)) }

func (c *FieldCipher) DecryptString(data []byte) (string, error) {
	b, err := c.Decrypt(data)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// BlindIndex returns a deterministic keyed digest of value (HMAC-SHA256,
// base64url). Callers normalise value first; the index is case sensitive.
func (c *FieldCipher) BlindIndex(value string) string {
	mac := hmac.New(sha256.New, c.indexKey)
	mac.Write([]byte(value))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
