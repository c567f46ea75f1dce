package tokenstore

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "tokens.enc"), "test-passphrase")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	rec := Record{
		AccessToken:  "access-123",
		RefreshToken: "refresh-456",
		ExpiresAt:    time.Now().Add(time.Hour).Truncate(time.Second),
	}
	if err := s.Save(rec); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got == nil {
		t.Fatal("Load returned no record")
	}
	if got.AccessToken != rec.AccessToken || got.RefreshToken != rec.RefreshToken {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, rec)
	}
	if !got.ExpiresAt.Equal(rec.ExpiresAt) {
		t.Errorf("expiresAt = %v, want %v", got.ExpiresAt, rec.ExpiresAt)
	}
}

func TestLoadMissingFile(t *testing.T) {
	s := newTestStore(t)
	rec, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if rec != nil {
		t.Fatalf("expected no record, got %+v", rec)
	}
}

func TestFileContentIsNotPlaintext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.enc")
	s := New(path, "test-passphrase")
	if err := s.Save(Record{AccessToken: "super-secret-access-token"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(data, []byte("super-secret-access-token")) {
		t.Fatal("token file contains the plaintext access token")
	}
}

func TestLoadWithWrongKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.enc")
	s := New(path, "key-one")
	if err := s.Save(Record{AccessToken: "a", RefreshToken: "r"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	other := New(path, "key-two")
	rec, err := other.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if rec != nil {
		t.Fatal("wrong key should be indistinguishable from no record")
	}
}

func TestLoadCorruptedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.enc")
	if err := os.WriteFile(path, []byte("not ciphertext"), 0o600); err != nil {
		t.Fatal(err)
	}
	s := New(path, "test-passphrase")
	rec, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if rec != nil {
		t.Fatal("corrupted file should be indistinguishable from no record")
	}
}

func TestIsValid(t *testing.T) {
	s := newTestStore(t)

	if s.IsValid() {
		t.Fatal("empty store should not be valid")
	}

	if err := s.Save(Record{AccessToken: "a", ExpiresAt: time.Now().Add(10 * time.Minute)}); err != nil {
		t.Fatal(err)
	}
	if !s.IsValid() {
		t.Fatal("token expiring in 10 minutes should be valid (buffer is 5)")
	}

	if err := s.Save(Record{AccessToken: "a", ExpiresAt: time.Now().Add(4 * time.Minute)}); err != nil {
		t.Fatal(err)
	}
	if s.IsValid() {
		t.Fatal("token expiring in 4 minutes should not be valid (buffer is 5)")
	}
}

func TestClearIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save(Record{AccessToken: "a"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	rec, err := s.Load()
	if err != nil || rec != nil {
		t.Fatalf("after Clear, Load = (%+v, %v), want (nil, nil)", rec, err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("second Clear should be a no-op, got %v", err)
	}
}
