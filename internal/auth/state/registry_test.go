package state

import (
	"testing"
	"time"
)

func TestValidateConsumesToken(t *testing.T) {
	r := NewRegistry()
	token := r.Issue()

	if !r.Validate(token) {
		t.Fatal("first validation should succeed")
	}
	if r.Validate(token) {
		t.Fatal("second validation of the same token should fail")
	}
}

func TestValidateUnknownToken(t *testing.T) {
	r := NewRegistry()
	if r.Validate("never-issued") {
		t.Fatal("unknown token should not validate")
	}
}

func TestValidateExpiredTokenIsRemoved(t *testing.T) {
	r := NewRegistry()
	token := r.Issue()

	// Move the clock past the deadline.
	r.now = func() time.Time { return time.Now().Add(TTL + time.Minute) }

	if r.Validate(token) {
		t.Fatal("expired token should not validate")
	}
	r.mu.Lock()
	_, exists := r.entries[token]
	r.mu.Unlock()
	if exists {
		t.Fatal("failed validation should still remove the entry")
	}
}

func TestIssueReturnsUniqueTokens(t *testing.T) {
	r := NewRegistry()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token := r.Issue()
		if len(token) != 32 {
			t.Fatalf("token length = %d, want 32 hex chars", len(token))
		}
		if seen[token] {
			t.Fatalf("duplicate token issued: %s", token)
		}
		seen[token] = true
	}
}

func TestSweepRemovesOnlyExpired(t *testing.T) {
	r := NewRegistry()
	stale := r.Issue()

	base := time.Now()
	r.now = func() time.Time { return base.Add(TTL + time.Minute) }
	fresh := r.Issue() // deadline computed from the shifted clock

	if n := r.sweep(); n != 1 {
		t.Fatalf("sweep removed %d entries, want 1", n)
	}

	r.mu.Lock()
	_, staleExists := r.entries[stale]
	_, freshExists := r.entries[fresh]
	r.mu.Unlock()

	if staleExists {
		t.Error("expired entry should be swept")
	}
	if !freshExists {
		t.Error("unexpired entry should survive the sweep")
	}
}
