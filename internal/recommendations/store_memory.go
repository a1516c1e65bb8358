package recommendations

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore is an in-memory implementation of Store.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]Recommendation
}

// NewMemoryStore constructs a MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]Recommendation)}
}

// Replace stores recs for ticketID, last write wins.
func (s *MemoryStore) Replace(ctx context.Context, ticketID string, recs []Recommendation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[ticketID] = slices.Clone(recs)
	return nil
}

// Get returns the recommendations stored for ticketID.
func (s *MemoryStore) Get(ctx context.Context, ticketID string) ([]Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs, ok := s.data[ticketID]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(recs), nil
}
