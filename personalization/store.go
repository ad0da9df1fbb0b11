package personalization

import (
	"errors"
	"sync"
)

// ErrProfileNotFound reports that a user has no stored profile yet. Callers
// treat this as a cold profile, not a failure.
var ErrProfileNotFound = errors.New("personalization profile not found")

// ProfileStore persists per-user personalization profiles. Implementations
// must be safe for concurrent use; the Aggregator serializes writes to a
// single user but different users read and write concurrently.
type ProfileStore interface {
	// Load returns the stored profile or ErrProfileNotFound.
	Load(userID string) (*Profile, error)

	// Save upserts a profile.
	Save(profile *Profile) error
}

// MemoryStore is an in-process ProfileStore used in tests and as the
// degraded-mode fallback when no durable store is configured.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]*Profile
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: make(map[string]*Profile)}
}

// Load implements ProfileStore.
func (s *MemoryStore) Load(userID string) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, ok := s.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return profile.Clone(), nil
}

// Save implements ProfileStore.
func (s *MemoryStore) Save(profile *Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profiles[profile.UserID] = profile.Clone()
	return nil
}
