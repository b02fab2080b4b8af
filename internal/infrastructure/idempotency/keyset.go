// Package idempotency provides a time-bounded set of already-processed
// identifiers. It is checked before and marked after an external side
// effect; it only absorbs rapid duplicate submissions. The persistent store
// remains the real source of truth, never this memory alone.
package idempotency

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// KeySet is a set of identifiers that expire after a fixed window.
type KeySet struct {
	store *gocache.Cache
	ttl   time.Duration
}

// NewKeySet creates a key set whose entries expire after ttl.
func NewKeySet(ttl, cleanupInterval time.Duration) *KeySet {
	return &KeySet{
		store: gocache.New(ttl, cleanupInterval),
		ttl:   ttl,
	}
}

// Seen reports whether key was marked within the TTL window.
func (s *KeySet) Seen(key string) bool {
	_, found := s.store.Get(key)
	return found
}

// Mark records key. Re-marking refreshes the window.
func (s *KeySet) Mark(key string) {
	s.store.Set(key, struct{}{}, s.ttl)
}

// Forget drops key, re-enabling the side effect (used when the external
// call failed and a retry must be allowed through).
func (s *KeySet) Forget(key string) {
	s.store.Delete(key)
}
