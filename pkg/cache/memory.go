package cache

import (
	"context"
	"sync"
)

// MemoryStore keeps entries in a map. Used in tests and as a cheap default
// when nothing should touch the disk.
type MemoryStore struct {
	mu sync.RWMutex
	m  map[string]Entry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{m: make(map[string]Entry)}
}

func (s *MemoryStore) Load(_ context.Context, key string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.m[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	cp := e
	return &cp, nil
}

func (s *MemoryStore) Save(_ context.Context, key string, e *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.m[key] = *e
	return nil
}
