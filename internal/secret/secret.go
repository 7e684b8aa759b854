package secret

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/pbkdf2"
)

const (
	keySize          = 32 // AES-256
	nonceSize        = 12 // GCM standard nonce size
	seedSize         = 32
	pbkdf2Iterations = 100000
)

// appSalt separates keys stretched from the local seed from any other pbkdf2
// use of the same material.
var appSalt = []byte("timelog.credentials.v1")

// Keychain encrypts small secrets (the issue tracker API token) at rest using
// a machine-local seed file.
type Keychain struct {
	key []byte
}

// DefaultSeedPath returns the default seed file location (~/.timelog/key)
func DefaultSeedPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".timelog", "key"), nil
}

// Open loads the seed file, creating it with fresh random material on first
// use. The file is written 0600; losing it makes stored tokens unreadable.
func Open(seedPath string) (*Keychain, error) {
	seed, err := os.ReadFile(seedPath)
	if os.IsNotExist(err) {
		seed, err = generateSeed(seedPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load key seed: %w", err)
	}

	raw, err := base64.StdEncoding.DecodeString(string(seed))
	if err != nil {
		return nil, fmt.Errorf("key seed is corrupted: %w", err)
	}

	key := pbkdf2.Key(raw, appSalt, pbkdf2Iterations, keySize, sha256.New)
	return &Keychain{key: key}, nil
}

func generateSeed(seedPath string) ([]byte, error) {
	if err := os.MkdirAll(filepath.Dir(seedPath), 0755); err != nil {
		return nil, err
	}

	raw := make([]byte, seedSize)
	if _, err := rand.Read(raw); err != nil {
		return nil, err
	}

	seed := []byte(base64.StdEncoding.EncodeToString(raw))
	if err := os.WriteFile(seedPath, seed, 0600); err != nil {
		return nil, err
	}
	return seed, nil
}

// Encrypt encrypts a secret using AES-256-GCM and returns it base64 encoded
func (k *Keychain) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	block, err := aes.NewCipher(k.key)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	// Seal prepends the nonce to the ciphertext
	ciphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Decrypt reverses Encrypt
func (k *Keychain) Decrypt(encrypted string) (string, error) {
	if encrypted == "" {
		return "", nil
	}

	data, err := base64.StdEncoding.DecodeString(encrypted)
	if err != nil {
		return "", err
	}

	if len(data) < nonceSize {
		return "", errors.New("ciphertext too short")
	}

	block, err := aes.NewCipher(k.key)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	plaintext, err := gcm.Open(nil, data[:nonceSize], data[nonceSize:], nil)
	if err != nil {
		return "", errors.New("decryption failed: wrong key or corrupted data")
	}

	return string(plaintext), nil
}
