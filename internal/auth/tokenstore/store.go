// Package tokenstore persists the single Dexcom credential record to an
// encrypted file. The file is the only source of truth: every access re-reads
// and re-decrypts it, so no stale in-memory copy can be observed.
package tokenstore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"
)

// ExpiryBuffer keeps us from using a token that would expire mid-flight
// during a multi-step request.
const ExpiryBuffer = 5 * time.Minute

// Record is the persisted credential: the access/refresh token pair plus the
// absolute expiry computed at write time from the vendor's expires_in.
type Record struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// Store reads and writes the encrypted credential file.
type Store struct {
	path string
	key  [32]byte
}

// New creates a store backed by the file at path. The encryption key is
// derived from the configured passphrase; it is never written to disk.
func New(path, passphrase string) *Store {
	return &Store{
		path: path,
		key:  sha256.Sum256([]byte(passphrase)),
	}
}

// Save serializes the record, encrypts it with AES-256-GCM and replaces the
// backing file wholesale.
func (s *Store) Save(rec Record) error {
	plaintext, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal credential record: %w", err)
	}

	block, err := aes.NewCipher(s.key[:])
	if err != nil {
		return fmt.Errorf("init cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return fmt.Errorf("init gcm: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("generate nonce: %w", err)
	}
	ciphertext := gcm.Seal(nonce, nonce, plaintext, nil)

	if err := os.WriteFile(s.path, ciphertext, 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

// Load returns the current record, or nil when there is none. Decryption or
// parse failures are collapsed into "no record": the caller cannot tell a
// corrupted file from a user who never logged in, and must re-authenticate
// either way.
func (s *Store) Load() (*Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read token file: %w", err)
	}

	plaintext, err := s.decrypt(data)
	if err != nil {
		log.Printf("⚠️  Failed to decrypt token file (wrong key or corrupted): %v", err)
		return nil, nil
	}

	var rec Record
	if err := json.Unmarshal(plaintext, &rec); err != nil {
		log.Printf("⚠️  Decrypted token file does not parse: %v", err)
		return nil, nil
	}
	return &rec, nil
}

func (s *Store) decrypt(data []byte) ([]byte, error) {
	block, err := aes.NewCipher(s.key[:])
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if len(data) < gcm.NonceSize() {
		return nil, fmt.Errorf("ciphertext shorter than nonce")
	}
	nonce, ciphertext := data[:gcm.NonceSize()], data[gcm.NonceSize():]
	return gcm.Open(nil, nonce, ciphertext, nil)
}

// IsValid reports whether a record exists and its access token is still more
// than ExpiryBuffer ahead of now.
func (s *Store) IsValid() bool {
	rec, err := s.Load()
	if err != nil || rec == nil {
		return false
	}
	return rec.ExpiresAt.After(time.Now().Add(ExpiryBuffer))
}

// Clear deletes the backing file. Clearing an already-absent store is a no-op.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}
