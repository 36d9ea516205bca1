package store

import (
	"context"
	"sync"

	"github.com/dishalabs/disha-gateway/internal/model"
)

// MemoryCache is the default terminal-result cache: process-local,
// unbounded in practice because terminal sessions are small and few.
type MemoryCache struct {
	mu    sync.RWMutex
	items map[string]model.ResultSession
}

// NewMemoryCache creates an empty in-process cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: make(map[string]model.ResultSession)}
}

// Get returns the cached terminal session for an id.
func (c *MemoryCache) Get(_ context.Context, sessionID string) (*model.ResultSession, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	session, ok := c.items[sessionID]
	if !ok {
		return nil, false
	}
	return &session, true
}

// Put stores a terminal session snapshot.
func (c *MemoryCache) Put(_ context.Context, session model.ResultSession) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[session.SessionID] = session
}
