// Package memory provides an in-process TTL cache used when no Redis
// deployment is configured. Expired entries stay in the map until the next
// read or write touches them; reads never delete live entries.
package memory

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	suggestions []string
	expiresAt   time.Time
}

type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

func NewStore() *Store {
	return &Store{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// NewStoreWithClock is for tests that need deterministic expiry.
func NewStoreWithClock(now func() time.Time) *Store {
	return &Store{
		entries: make(map[string]entry),
		now:     now,
	}
}

func (s *Store) Get(_ context.Context, sessionID string) ([]string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[sessionID]
	if !ok || !s.now().Before(e.expiresAt) {
		return nil, false, nil
	}
	out := make([]string, len(e.suggestions))
	copy(out, e.suggestions)
	return out, true, nil
}

func (s *Store) Set(_ context.Context, sessionID string, suggestions []string, ttl time.Duration) error {
	if len(suggestions) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]string, len(suggestions))
	copy(stored, suggestions)
	s.entries[sessionID] = entry{
		suggestions: stored,
		expiresAt:   s.now().Add(ttl),
	}
	s.sweepLocked()
	return nil
}

func (s *Store) Invalidate(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionID)
	return nil
}

// sweepLocked drops entries that already expired so the map does not grow
// without bound across many sessions.
func (s *Store) sweepLocked() {
	now := s.now()
	for k, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, k)
		}
	}
}
