package livequery

import (
	"sync"

	"github.com/google/uuid"
)

// DocumentCache mirrors the store's view of one subscription. The feed is
// the single source of truth: the cache keeps exactly the latest event per
// id in arrival order (last-write-wins, no timestamp comparison), and a
// remove for an unknown id is a no-op.
//
// A cache belongs to exactly one CollectionView and is never shared.
type DocumentCache struct {
	mu      sync.Mutex
	entries map[uuid.UUID]GoalSnapshot
}

func NewDocumentCache() *DocumentCache {
	return &DocumentCache{
		entries: make(map[uuid.UUID]GoalSnapshot),
	}
}

// Apply mutates the cache atomically from a single feed event.
func (c *DocumentCache) Apply(event ChangeEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch event.Type {
	case EventUpsert:
		if event.Snapshot == nil {
			return
		}
		c.entries[event.Id] = *event.Snapshot
	case EventRemove:
		delete(c.entries, event.Id)
	}
}

// Snapshot returns a copy of all live entries. Order is unspecified; the
// view derives its own ordering.
func (c *DocumentCache) Snapshot() []GoalSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]GoalSnapshot, 0, len(c.entries))
	for _, snap := range c.entries {
		out = append(out, snap)
	}
	return out
}

func (c *DocumentCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
