package cache

import (
	"context"
	"sync"
	"time"

	"formstudio/internal/model"
)

type memoryEntry struct {
	session   *model.RespondentSession
	expiresAt time.Time
}

type memoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewMemoryRespondentCache is the fallback store used when no Redis address
// is configured. Sessions live in process memory with the same TTL.
func NewMemoryRespondentCache() RespondentCache {
	return &memoryCache{
		entries: make(map[string]memoryEntry),
	}
}

func (c *memoryCache) Set(ctx context.Context, session *model.RespondentSession) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	copied := *session
	c.entries[session.ID] = memoryEntry{
		session:   &copied,
		expiresAt: time.Now().Add(respondentTTL),
	}
	return nil
}

func (c *memoryCache) Get(ctx context.Context, id string) (*model.RespondentSession, error) {
	c.mu.RLock()
	entry, ok := c.entries[id]
	c.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, id)
		c.mu.Unlock()
		return nil, nil
	}
	copied := *entry.session
	return &copied, nil
}

func (c *memoryCache) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
	return nil
}
