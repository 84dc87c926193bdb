package status

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryStore is the offline/dev implementation: a mutex map with lazy
// expiry. It satisfies the same contract as the redis store so tests and
// single-process deployments share code paths with production.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memEntry
	now     func() time.Time
}

type memEntry struct {
	state     State
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Put(_ context.Context, jobID string, st State, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[jobID] = memEntry{state: st, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, jobID string) (State, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[jobID]
	if !ok {
		return State{}, false, nil
	}
	if s.now().After(e.expiresAt) {
		delete(s.entries, jobID)
		return State{}, false, nil
	}
	return e.state, true, nil
}

func (s *MemoryStore) Merge(_ context.Context, jobID string, patch Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[jobID]
	if !ok || s.now().After(e.expiresAt) {
		delete(s.entries, jobID)
		return fmt.Errorf("job %s: state expired", jobID)
	}
	patch.apply(&e.state)
	s.entries[jobID] = e
	return nil
}
