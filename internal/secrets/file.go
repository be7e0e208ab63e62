package secrets

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/gofrs/flock"
)

// FileStore persists values in an AES-256-GCM encrypted file. It is the
// fallback for environments where the OS keyring is unavailable (WSL,
// headless, containers). Writes are serialized through a lock file so
// concurrent saves never leave a corrupted value on disk.
type FileStore struct {
	path     string
	lockPath string
	key      []byte
}

// NewFileStore creates a file-backed store under the padlock data directory.
// If password is empty a machine-specific key is derived instead (less
// secure; a one-time warning is printed).
func NewFileStore(password string) (*FileStore, error) {
	return NewFileStoreAt(filepath.Join(xdg.DataHome, ServiceName), password)
}

// NewFileStoreAt is NewFileStore with an explicit directory.
func NewFileStoreAt(dir, password string) (*FileStore, error) {
	var key []byte
	if password == "" {
		hostname, _ := os.Hostname()
		username := os.Getenv("USER")
		if username == "" {
			username = os.Getenv("USERNAME") // Windows
		}
		hash := sha256.Sum256([]byte(username + "@" + hostname))
		key = hash[:]
		warnOnce("WARNING: using a machine-derived encryption key. Set PADLOCK_STORE_PASSWORD for a stronger one.")
	} else {
		hash := sha256.Sum256([]byte(password))
		key = hash[:]
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	path := filepath.Join(dir, "store.enc")
	return &FileStore{
		path:     path,
		lockPath: path + ".lock",
		key:      key,
	}, nil
}

func (s *FileStore) encrypt(plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create GCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func (s *FileStore) decrypt(ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create GCM: %w", err)
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, fmt.Errorf("ciphertext too short")
	}

	nonce, sealed := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("decrypt store: %w", err)
	}

	return plaintext, nil
}

// withLock runs fn while holding the store's file lock. Read-modify-write
// cycles stay atomic across processes.
func (s *FileStore) withLock(fn func() error) error {
	lock := flock.New(s.lockPath)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	locked, err := lock.TryLockContext(ctx, 100*time.Millisecond)
	if err != nil {
		return fmt.Errorf("acquire store lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("acquire store lock: timeout")
	}
	defer lock.Unlock()

	return fn()
}

// readStore decrypts and parses the store file. Missing or empty file means
// an empty store, not an error.
func (s *FileStore) readStore() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("read store file: %w", err)
	}

	if len(data) == 0 {
		return make(map[string]string), nil
	}

	plaintext, err := s.decrypt(data)
	if err != nil {
		return nil, err
	}

	var store map[string]string
	if err := json.Unmarshal(plaintext, &store); err != nil {
		return nil, fmt.Errorf("parse store file: %w", err)
	}

	return store, nil
}

func (s *FileStore) writeStore(store map[string]string) error {
	plaintext, err := json.Marshal(store)
	if err != nil {
		return fmt.Errorf("serialize store: %w", err)
	}

	ciphertext, err := s.encrypt(plaintext)
	if err != nil {
		return err
	}

	if err := os.WriteFile(s.path, ciphertext, 0600); err != nil {
		return fmt.Errorf("write store file: %w", err)
	}

	return nil
}

// Get retrieves a value by key.
func (s *FileStore) Get(key string) (string, error) {
	store, err := s.readStore()
	if err != nil {
		return "", err
	}

	value, ok := store[key]
	if !ok {
		return "", ErrNotFound
	}

	return value, nil
}

// Set stores a value under key.
func (s *FileStore) Set(key, value string) error {
	return s.withLock(func() error {
		store, err := s.readStore()
		if err != nil {
			return err
		}

		store[key] = value
		return s.writeStore(store)
	})
}

// Delete removes a key.
func (s *FileStore) Delete(key string) error {
	return s.withLock(func() error {
		store, err := s.readStore()
		if err != nil {
			return err
		}

		if _, ok := store[key]; !ok {
			return ErrNotFound
		}

		delete(store, key)
		return s.writeStore(store)
	})
}

// List returns all stored keys.
func (s *FileStore) List() ([]string, error) {
	store, err := s.readStore()
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(store))
	for k := range store {
		keys = append(keys, k)
	}

	return keys, nil
}
