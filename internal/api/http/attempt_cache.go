package http

import (
	"sync"
	"time"

	"github.com/examforge/examforge/internal/exam"
)

// AttemptCache holds composed practice exams between compose and grade.
// Entries expire with the practice window since the exam itself is never
// persisted.
type AttemptCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cachedAttempt
}

type cachedAttempt struct {
	exam      *exam.ComposedExam
	ownerID   string
	expiresAt time.Time
}

func NewAttemptCache(ttl time.Duration) *AttemptCache {
	return &AttemptCache{ttl: ttl, entries: make(map[string]cachedAttempt)}
}

func (c *AttemptCache) put(id, ownerID string, ex *exam.ComposedExam) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[id] = cachedAttempt{exam: ex, ownerID: ownerID, expiresAt: time.Now().Add(c.ttl)}
	// Opportunistic cleanup keeps the map from growing unbounded.
	for k, e := range c.entries {
		if time.Now().After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}

func (c *AttemptCache) get(id string) (*exam.ComposedExam, string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[id]
	if !ok || time.Now().After(e.expiresAt) {
		delete(c.entries, id)
		return nil, "", false
	}
	return e.exam, e.ownerID, true
}
