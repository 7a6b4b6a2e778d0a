package storage

import (
	"sync"
	"time"

	"pms_metrics/models"
)

// SnapshotCache keeps recently loaded property snapshots in memory so
// repeated metric computations within one pass skip the database. Entries
// expire after the configured TTL and are invalidated explicitly whenever a
// sync replaces the underlying rows.
type SnapshotCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
	now     func() time.Time
}

type cacheEntry struct {
	snapshot *models.PropertySnapshot
	storedAt time.Time
}

func NewSnapshotCache(ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

func (c *SnapshotCache) Get(propertyID string) (*models.PropertySnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[propertyID]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.storedAt) > c.ttl {
		delete(c.entries, propertyID)
		return nil, false
	}
	return entry.snapshot, true
}

func (c *SnapshotCache) Put(propertyID string, snap *models.PropertySnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[propertyID] = cacheEntry{snapshot: snap, storedAt: c.now()}
}

func (c *SnapshotCache) Invalidate(propertyID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, propertyID)
}

func (c *SnapshotCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}
