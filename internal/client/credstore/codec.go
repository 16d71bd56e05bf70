package credstore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/argon2"
)

const (
	markerPlain  byte = 'p'
	markerSealed byte = 's'

	saltSize   = 16
	secretSize = 32
	keySize    = 32
)

var errUnreadableValue = errors.New("value sealed with an unavailable key")

// codec запечатывает значения перед записью в базу
type codec interface {
	seal(plaintext []byte) ([]byte, error)
	open(stored []byte) ([]byte, error)
}

// plainCodec хранит значения как есть
type plainCodec struct{}

func (plainCodec) seal(plaintext []byte) ([]byte, error) {
	return append([]byte{markerPlain}, plaintext...), nil
}

func (plainCodec) open(stored []byte) ([]byte, error) {
	if len(stored) == 0 || stored[0] != markerPlain {
		return nil, errUnreadableValue
	}
	return stored[1:], nil
}

// aeadCodec шифрует значения AES-256-GCM; nonce хранится перед шифртекстом
type aeadCodec struct {
	aead cipher.AEAD
}

func newAEADCodec(key []byte) (*aeadCodec, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return &aeadCodec{aead: aead}, nil
}

func (c *aeadCodec) seal(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	out := make([]byte, 0, 1+len(nonce)+len(plaintext)+c.aead.Overhead())
	out = append(out, markerSealed)
	out = append(out, nonce...)
	return c.aead.Seal(out, nonce, plaintext, nil), nil
}

func (c *aeadCodec) open(stored []byte) ([]byte, error) {
	if len(stored) > 0 && stored[0] == markerPlain {
		return stored[1:], nil
	}
	nonceSize := c.aead.NonceSize()
	if len(stored) < 1+nonceSize || stored[0] != markerSealed {
		return nil, errUnreadableValue
	}
	plaintext, err := c.aead.Open(nil, stored[1:1+nonceSize], stored[1+nonceSize:], nil)
	if err != nil {
		return nil, errUnreadableValue
	}
	return plaintext, nil
}

// loadDeviceKey читает секрет устройства из keyPath (создает при первом запуске) и выводит из него ключ Argon2id
func loadDeviceKey(keyPath string) ([]byte, error) {
	material, err := os.ReadFile(keyPath)
	if errors.Is(err, os.ErrNotExist) {
		material, err = createDeviceSecret(keyPath)
	}
	if err != nil {
		return nil, err
	}
	if len(material) != saltSize+secretSize {
		return nil, fmt.Errorf("device key file %s is corrupted", keyPath)
	}

	salt, secret := material[:saltSize], material[saltSize:]
	return argon2.IDKey(secret, salt, 1, 64*1024, 4, keySize), nil
}

func createDeviceSecret(keyPath string) ([]byte, error) {
	material := make([]byte, saltSize+secretSize)
	if _, err := io.ReadFull(rand.Reader, material); err != nil {
		return nil, fmt.Errorf("failed to generate device secret: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(keyPath), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create key directory: %w", err)
	}
	if err := os.WriteFile(keyPath, material, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write device key: %w", err)
	}
	return material, nil
}
