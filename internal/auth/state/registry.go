// Package state issues and validates one-time CSRF state tokens that bind an
// authorization redirect to its callback.
package state

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"sync"
	"time"
)

// TTL is how long an issued state token stays valid.
const TTL = 10 * time.Minute

// Registry is an in-memory one-time token registry. Entries never survive a
// process restart, which invalidates all in-flight authorization attempts.
type Registry struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Issue generates a random state token and records it with a deadline of
// now + TTL.
func (r *Registry) Issue() string {
	b := make([]byte, 16)
	rand.Read(b)
	token := hex.EncodeToString(b)

	r.mu.Lock()
	r.entries[token] = r.now().Add(TTL)
	r.mu.Unlock()
	return token
}

// Validate consumes the token and reports whether it was known and unexpired.
// The entry is deleted regardless of outcome, so a token can never be
// replayed even after a failed validation.
func (r *Registry) Validate(token string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	deadline, ok := r.entries[token]
	if !ok {
		return false
	}
	delete(r.entries, token)
	return r.now().Before(deadline)
}

// StartSweep reaps expired entries on a fixed interval so abandoned
// authorization attempts do not accumulate.
func (r *Registry) StartSweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		for range ticker.C {
			if n := r.sweep(); n > 0 {
				log.Printf("🧹 Swept %d expired state entries", n)
			}
		}
	}()
}

func (r *Registry) sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	removed := 0
	for token, deadline := range r.entries {
		if now.After(deadline) {
			delete(r.entries, token)
			removed++
		}
	}
	return removed
}
