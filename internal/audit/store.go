package audit

import (
	"context"
	"sync"
)

// Store is an append-only sink for audit events.
type Store interface {
	Append(ctx context.Context, e Event) error
	ListByUser(ctx context.Context, uid string) ([]Event, error)
}

// MemoryStore keeps audit events in process, in arrival order.
type MemoryStore struct {
	mu     sync.RWMutex
	events []Event
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(_ context.Context, e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func (s *MemoryStore) ListByUser(_ context.Context, uid string) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Event
	for _, e := range s.events {
		if e.UID == uid {
			out = append(out, e)
		}
	}
	return out, nil
}
