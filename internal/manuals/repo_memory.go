package manuals

import (
	"context"
	"slices"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu    sync.RWMutex
	data  map[string]Manual
	order []string
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string]Manual),
	}
}

// Save stores the manual, keeping the original position of an existing id.
func (r *MemoryRepo) Save(ctx context.Context, m Manual) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[m.ID]; !ok {
		r.order = append(r.order, m.ID)
	}
	m.Sections = slices.Clone(m.Sections)
	r.data[m.ID] = m
	return nil
}

// Get returns a manual by id.
func (r *MemoryRepo) Get(ctx context.Context, id string) (Manual, error) {
	if err := ctx.Err(); err != nil {
		return Manual{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.data[id]
	if !ok {
		return Manual{}, ErrNotFound
	}
	return m, nil
}

// List returns every manual in insertion order.
func (r *MemoryRepo) List(ctx context.Context) ([]Manual, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Manual, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.data[id])
	}
	return out, nil
}

// Delete removes a manual and reports whether it existed.
func (r *MemoryRepo) Delete(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[id]; !ok {
		return false, nil
	}
	delete(r.data, id)
	r.order = slices.DeleteFunc(r.order, func(v string) bool { return v == id })
	return true, nil
}
