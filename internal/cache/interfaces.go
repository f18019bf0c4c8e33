package cache

import (
	"context"
	"time"
)

// ProfileCache caches resolved display names to keep member lists cheap.
// A miss is never an error; callers fall through to the user store.
type ProfileCache interface {
	// GetName returns the cached display name for uid, if present.
	GetName(ctx context.Context, uid string) (string, bool)

	// SetName caches the display name for uid.
	SetName(ctx context.Context, uid, name string)
}

// ReminderEntry is one scheduled item reminder.
type ReminderEntry struct {
	InventoryID string    `json:"inventory_id"`
	ItemID      string    `json:"item_id"`
	ItemName    string    `json:"item_name"`
	DueAt       time.Time `json:"due_at"`
}

// ReminderQueue holds pending item reminders keyed by (inventory, item).
// Scheduling an already-queued item replaces its due time.
type ReminderQueue interface {
	// Schedule enqueues or replaces the reminder for an item.
	Schedule(ctx context.Context, entry ReminderEntry) error

	// Cancel drops the pending reminder for an item, if any.
	Cancel(ctx context.Context, inventoryID, itemID string) error

	// PopDue removes and returns every reminder due at or before now.
	PopDue(ctx context.Context, now time.Time) ([]ReminderEntry, error)
}
