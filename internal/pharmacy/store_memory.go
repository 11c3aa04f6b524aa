package pharmacy

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"apotheca/pkg/platform/sentinel"
)

// MemoryStore keeps pharmacy documents and their comment subcollections in
// process. It favors clarity over performance.
type MemoryStore struct {
	mu         sync.RWMutex
	pharmacies map[string]Pharmacy
	comments   map[string]map[string]Comment // pharmacyID -> commentID -> comment
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		pharmacies: make(map[string]Pharmacy),
		comments:   make(map[string]map[string]Comment),
	}
}

func (s *MemoryStore) Save(_ context.Context, p Pharmacy) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	s.pharmacies[p.ID] = p
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (Pharmacy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.pharmacies[id]
	if !ok {
		return Pharmacy{}, sentinel.ErrNotFound
	}
	return p, nil
}

func (s *MemoryStore) List(_ context.Context) ([]Pharmacy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Pharmacy, 0, len(s.pharmacies))
	for _, p := range s.pharmacies {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) Exists(_ context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.pharmacies[id]
	return ok, nil
}

func (s *MemoryStore) AddComment(_ context.Context, pharmacyID string, c Comment) (Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pharmacies[pharmacyID]; !ok {
		return Comment{}, sentinel.ErrNotFound
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	if s.comments[pharmacyID] == nil {
		s.comments[pharmacyID] = make(map[string]Comment)
	}
	s.comments[pharmacyID][c.ID] = c
	return c, nil
}

func (s *MemoryStore) GetComment(_ context.Context, pharmacyID, commentID string) (Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.comments[pharmacyID][commentID]
	if !ok {
		return Comment{}, sentinel.ErrNotFound
	}
	return c, nil
}

func (s *MemoryStore) ListComments(_ context.Context, pharmacyID string) ([]Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.pharmacies[pharmacyID]; !ok {
		return nil, sentinel.ErrNotFound
	}
	out := make([]Comment, 0, len(s.comments[pharmacyID]))
	for _, c := range s.comments[pharmacyID] {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) DeleteComment(_ context.Context, pharmacyID, commentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.comments[pharmacyID][commentID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.comments[pharmacyID], commentID)
	return nil
}
