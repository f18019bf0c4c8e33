package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryProfileCache is an in-process ProfileCache with TTL expiry.
type MemoryProfileCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]memoryProfileEntry
}

type memoryProfileEntry struct {
	name      string
	expiresAt time.Time
}

// NewMemoryProfileCache creates a profile cache with the given TTL.
func NewMemoryProfileCache(ttl time.Duration) *MemoryProfileCache {
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	return &MemoryProfileCache{
		ttl:     ttl,
		entries: make(map[string]memoryProfileEntry),
	}
}

// GetName returns the cached display name for uid, if present and fresh.
func (c *MemoryProfileCache) GetName(ctx context.Context, uid string) (string, bool) {
	c.mu.RLock()
	entry, ok := c.entries[uid]
	c.mu.RUnlock()
	if !ok || time.Now().After(entry.expiresAt) {
		return "", false
	}
	return entry.name, true
}

// SetName caches the display name for uid.
func (c *MemoryProfileCache) SetName(ctx context.Context, uid, name string) {
	c.mu.Lock()
	c.entries[uid] = memoryProfileEntry{name: name, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

// MemoryReminderQueue is an in-process ReminderQueue.
type MemoryReminderQueue struct {
	mu      sync.Mutex
	entries map[string]ReminderEntry // "inventoryID/itemID" -> entry
}

// NewMemoryReminderQueue creates an empty reminder queue.
func NewMemoryReminderQueue() *MemoryReminderQueue {
	return &MemoryReminderQueue{entries: make(map[string]ReminderEntry)}
}

func reminderKey(inventoryID, itemID string) string {
	return inventoryID + "/" + itemID
}

// Schedule enqueues or replaces the reminder for an item.
func (q *MemoryReminderQueue) Schedule(ctx context.Context, entry ReminderEntry) error {
	q.mu.Lock()
	q.entries[reminderKey(entry.InventoryID, entry.ItemID)] = entry
	q.mu.Unlock()
	return nil
}

// Cancel drops the pending reminder for an item, if any.
func (q *MemoryReminderQueue) Cancel(ctx context.Context, inventoryID, itemID string) error {
	q.mu.Lock()
	delete(q.entries, reminderKey(inventoryID, itemID))
	q.mu.Unlock()
	return nil
}

// PopDue removes and returns every reminder due at or before now.
func (q *MemoryReminderQueue) PopDue(ctx context.Context, now time.Time) ([]ReminderEntry, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	due := make([]ReminderEntry, 0)
	for key, entry := range q.entries {
		if !entry.DueAt.After(now) {
			due = append(due, entry)
			delete(q.entries, key)
		}
	}
	return due, nil
}

var (
	_ ProfileCache  = (*MemoryProfileCache)(nil)
	_ ReminderQueue = (*MemoryReminderQueue)(nil)
)
