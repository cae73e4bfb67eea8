package bbolt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/hkdf"
)

const keyFileName = "credstore.key"

// loadOrCreateSealKey derives the AES-256 sealing key from a 32-byte key
// file stored next to the database. The key file is created on first use
// with 0600 permissions.
func loadOrCreateSealKey(dbPath string) ([]byte, error) {
	keyPath := filepath.Join(filepath.Dir(dbPath), keyFileName)
	seed, err := os.ReadFile(keyPath)
	if os.IsNotExist(err) {
		seed = make([]byte, 32)
		if _, err := rand.Read(seed); err != nil {
			return nil, fmt.Errorf("generating credstore key: %w", err)
		}
		if err := os.WriteFile(keyPath, seed, 0o600); err != nil {
			return nil, fmt.Errorf("writing credstore key file: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("reading credstore key file: %w", err)
	}
	if len(seed) != 32 {
		return nil, fmt.Errorf("credstore key file %s has %d bytes, want 32", keyPath, len(seed))
	}

	h := hkdf.New(sha256.New, seed, nil, []byte("staffdesk credential store v1"))
	key := make([]byte, 32)
	if _, err := io.ReadFull(h, key); err != nil {
		return nil, fmt.Errorf("deriving seal key: %w", err)
	}
	return key, nil
}

// seal encrypts plaintext with AES-256-GCM, nonce-prefixed.
func seal(key, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating GCM: %w", err)
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generating nonce: %w", err)
	}
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// open decrypts a nonce-prefixed AES-256-GCM ciphertext.
func open(key, sealed []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating GCM: %w", err)
	}
	if len(sealed) < gcm.NonceSize() {
		return nil, fmt.Errorf("sealed value too short")
	}
	nonce, ciphertext := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("opening sealed value: %w", err)
	}
	return plaintext, nil
}
