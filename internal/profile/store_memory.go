package profile

import (
	"context"
	"sync"
	"time"

	"apotheca/pkg/platform/sentinel"
)

// MemoryStore keeps profile documents in process. It favors clarity over
// performance and is the reference for the store contract: the mutex makes
// MutateFavorites a true critical section.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]Profile
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: make(map[string]Profile)}
}

func (s *MemoryStore) Set(_ context.Context, p Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.profiles[p.UID]; exists {
		return sentinel.ErrConflict
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	s.profiles[p.UID] = p
	return nil
}

func (s *MemoryStore) Get(_ context.Context, uid string) (Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[uid]
	if !ok {
		return Profile{}, sentinel.ErrNotFound
	}
	return p, nil
}

func (s *MemoryStore) SetLastPasswordReset(_ context.Context, uid string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[uid]
	if !ok {
		return sentinel.ErrNotFound
	}
	p.LastPasswordReset = at
	s.profiles[uid] = p
	return nil
}

func (s *MemoryStore) MutateFavorites(_ context.Context, uid string, fn func(current []string) ([]string, error)) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[uid]
	if !ok {
		return nil, sentinel.ErrNotFound
	}

	current := make([]string, len(p.Favorites))
	copy(current, p.Favorites)

	next, err := fn(current)
	if err != nil {
		return nil, err
	}

	p.Favorites = next
	s.profiles[uid] = p
	return next, nil
}
