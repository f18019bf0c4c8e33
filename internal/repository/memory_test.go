package repository

import (
	"context"
	"testing"
	"time"

	"wastenot-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_UpdateItemCopiesReminderDate(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.CreateItem(ctx, &model.InventoryItem{
		ID: "item-1", InventoryID: "inv-1", ItemName: "Milk", Quantity: 1,
	}))

	due := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)
	reminder := due
	require.NoError(t, store.UpdateItem(ctx, "inv-1", "item-1",
		&model.ItemPatch{ReminderDate: &reminder}, "alice", time.Now()))

	// Mutating the caller's time must not reach into the store.
	reminder = reminder.AddDate(1, 0, 0)

	stored, err := store.GetItem(ctx, "inv-1", "item-1")
	require.NoError(t, err)
	require.NotNil(t, stored.ReminderDate)
	assert.True(t, stored.ReminderDate.Equal(due))
}
