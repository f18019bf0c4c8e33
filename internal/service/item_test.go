package service

import (
	"context"
	"testing"
	"time"

	"wastenot-api/internal/model"
	"wastenot-api/internal/repository"
	"wastenot-api/pkg/apierror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeScheduler records reminder scheduling calls.
type fakeScheduler struct {
	scheduled []string
	cancelled []string
}

func (f *fakeScheduler) ScheduleItem(_ context.Context, item *model.InventoryItem) {
	f.scheduled = append(f.scheduled, item.ID)
}

func (f *fakeScheduler) CancelItem(_ context.Context, _, itemID string) {
	f.cancelled = append(f.cancelled, itemID)
}

func newItemFixture(t *testing.T) (*ItemService, *repository.MemoryStore, *fakeScheduler) {
	t.Helper()
	store := repository.NewMemoryStore()
	scheduler := &fakeScheduler{}
	svc := NewItemService(store, store, scheduler, true)
	return svc, store, scheduler
}

func TestAddItem_IntoExplicitInventory(t *testing.T) {
	svc, store, _ := newItemFixture(t)
	ctx := context.Background()

	seedInventory(t, store, "inv-1", "Kitchen", "alice")

	item, err := svc.AddItem(ctx, "alice", "inv-1", &model.InventoryItem{
		ItemName: "Milk",
		Quantity: 2,
		Barcode:  "123456",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "inv-1", item.InventoryID)
	assert.Equal(t, "alice", item.CreatedBy)
	assert.Equal(t, "alice", item.LastUpdatedBy)
	assert.False(t, item.LastUpdated.IsZero())

	items, err := svc.ListItems(ctx, "alice", "inv-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Milk", items[0].ItemName)
}

func TestListItems_EmptyInventoryIsEmptySlice(t *testing.T) {
	svc, store, _ := newItemFixture(t)
	ctx := context.Background()

	seedInventory(t, store, "inv-1", "Kitchen", "alice")

	items, err := svc.ListItems(ctx, "alice", "inv-1")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Len(t, items, 0)
}

func TestAddItem_AutoCreatesDefaultInventory(t *testing.T) {
	svc, store, _ := newItemFixture(t)
	ctx := context.Background()

	item, err := svc.AddItem(ctx, "alice", "", &model.InventoryItem{
		ItemName: "Milk",
		Quantity: 1,
	})
	require.NoError(t, err)
	require.NotEmpty(t, item.InventoryID)

	inv, err := store.GetByID(ctx, item.InventoryID)
	require.NoError(t, err)
	assert.Equal(t, defaultInventoryName, inv.Name)
	assert.Equal(t, "alice", inv.Owner)
	assert.Equal(t, model.RoleOwner, inv.Members["alice"])
}

func TestAddItem_UsesFirstInventoryWhenUnselected(t *testing.T) {
	svc, store, _ := newItemFixture(t)
	ctx := context.Background()

	seedInventory(t, store, "inv-1", "Kitchen", "alice")

	item, err := svc.AddItem(ctx, "alice", "", &model.InventoryItem{
		ItemName: "Milk",
		Quantity: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "inv-1", item.InventoryID)
}

func TestResolveInventory_ReadWithNoInventories(t *testing.T) {
	svc, _, _ := newItemFixture(t)

	_, err := svc.ResolveInventory(context.Background(), "alice", "", false)
	require.Error(t, err)

	apiErr, ok := err.(*apierror.Error)
	require.True(t, ok)
	assert.Equal(t, "NO_SELECTION", apiErr.Code)
}

func TestAddItem_Validation(t *testing.T) {
	svc, store, _ := newItemFixture(t)
	ctx := context.Background()

	seedInventory(t, store, "inv-1", "Kitchen", "alice")

	_, err := svc.AddItem(ctx, "alice", "inv-1", &model.InventoryItem{ItemName: "  "})
	require.Error(t, err)

	_, err = svc.AddItem(ctx, "alice", "inv-1", &model.InventoryItem{ItemName: "Milk", Quantity: -1})
	require.Error(t, err)

	_, err = svc.AddItem(ctx, "", "inv-1", &model.InventoryItem{ItemName: "Milk"})
	require.Error(t, err)
	apiErr, ok := err.(*apierror.Error)
	require.True(t, ok)
	assert.Equal(t, "NOT_AUTHENTICATED", apiErr.Code)
}

func TestUpdateItem_StampsModificationMetadata(t *testing.T) {
	svc, store, _ := newItemFixture(t)
	ctx := context.Background()

	seedInventory(t, store, "inv-1", "Kitchen", "alice")
	require.NoError(t, store.AddMember(ctx, "inv-1", "bob", model.RoleMember))

	item, err := svc.AddItem(ctx, "alice", "inv-1", &model.InventoryItem{
		ItemName: "Milk",
		Quantity: 2,
	})
	require.NoError(t, err)
	createdAt := item.LastUpdated

	name := "Oat milk"
	updated, err := svc.UpdateItem(ctx, "bob", "inv-1", item.ID, &model.ItemPatch{ItemName: &name})
	require.NoError(t, err)

	assert.Equal(t, "Oat milk", updated.ItemName)
	assert.Equal(t, 2, updated.Quantity)
	assert.Equal(t, "alice", updated.CreatedBy)
	assert.Equal(t, "bob", updated.LastUpdatedBy)
	assert.False(t, updated.LastUpdated.Before(createdAt))
}

func TestUpdateItem_ExplicitZeroQuantitySurvives(t *testing.T) {
	svc, store, _ := newItemFixture(t)
	ctx := context.Background()

	seedInventory(t, store, "inv-1", "Kitchen", "alice")
	item, err := svc.AddItem(ctx, "alice", "inv-1", &model.InventoryItem{
		ItemName: "Milk",
		Quantity: 2,
	})
	require.NoError(t, err)

	zero := 0
	updated, err := svc.UpdateItem(ctx, "alice", "inv-1", item.ID, &model.ItemPatch{Quantity: &zero})
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Quantity)
}

func TestItemAccess_RequiresMembership(t *testing.T) {
	svc, store, _ := newItemFixture(t)
	ctx := context.Background()

	seedInventory(t, store, "inv-1", "Kitchen", "alice")
	item, err := svc.AddItem(ctx, "alice", "inv-1", &model.InventoryItem{
		ItemName: "Milk",
		Quantity: 1,
	})
	require.NoError(t, err)

	_, err = svc.GetItem(ctx, "mallory", "inv-1", item.ID)
	require.Error(t, err)
	apiErr, ok := err.(*apierror.Error)
	require.True(t, ok)
	assert.Equal(t, "FORBIDDEN", apiErr.Code)

	_, err = svc.ListItems(ctx, "mallory", "inv-1")
	require.Error(t, err)

	err = svc.DeleteItem(ctx, "mallory", "inv-1", item.ID)
	require.Error(t, err)
}

func TestReminder_ScheduledOnAddAndRescheduledOnUpdate(t *testing.T) {
	svc, store, scheduler := newItemFixture(t)
	ctx := context.Background()

	seedInventory(t, store, "inv-1", "Kitchen", "alice")

	due := time.Now().Add(24 * time.Hour).UTC()
	item, err := svc.AddItem(ctx, "alice", "inv-1", &model.InventoryItem{
		ItemName:     "Milk",
		Quantity:     1,
		ReminderDate: &due,
	})
	require.NoError(t, err)
	require.Len(t, scheduler.scheduled, 1)

	// An unrelated field update still reschedules the reminder.
	name := "Oat milk"
	_, err = svc.UpdateItem(ctx, "alice", "inv-1", item.ID, &model.ItemPatch{ItemName: &name})
	require.NoError(t, err)
	assert.Len(t, scheduler.scheduled, 2)

	_, err = svc.UpdateItem(ctx, "alice", "inv-1", item.ID, &model.ItemPatch{ClearReminder: true})
	require.NoError(t, err)
	assert.Equal(t, []string{item.ID}, scheduler.cancelled)
}

func TestReminder_NotScheduledWithoutDate(t *testing.T) {
	svc, store, scheduler := newItemFixture(t)
	ctx := context.Background()

	seedInventory(t, store, "inv-1", "Kitchen", "alice")

	_, err := svc.AddItem(ctx, "alice", "inv-1", &model.InventoryItem{
		ItemName: "Milk",
		Quantity: 1,
	})
	require.NoError(t, err)
	assert.Empty(t, scheduler.scheduled)
}

func TestDeleteItem_CancelsReminderWhenConfigured(t *testing.T) {
	svc, store, scheduler := newItemFixture(t)
	ctx := context.Background()

	seedInventory(t, store, "inv-1", "Kitchen", "alice")
	due := time.Now().Add(time.Hour).UTC()
	item, err := svc.AddItem(ctx, "alice", "inv-1", &model.InventoryItem{
		ItemName:     "Milk",
		Quantity:     1,
		ReminderDate: &due,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteItem(ctx, "alice", "inv-1", item.ID))
	assert.Equal(t, []string{item.ID}, scheduler.cancelled)

	_, err = svc.GetItem(ctx, "alice", "inv-1", item.ID)
	require.Error(t, err)
}

func TestDeleteItem_KeepsReminderWhenDisabled(t *testing.T) {
	store := repository.NewMemoryStore()
	scheduler := &fakeScheduler{}
	svc := NewItemService(store, store, scheduler, false)
	ctx := context.Background()

	seedInventory(t, store, "inv-1", "Kitchen", "alice")
	due := time.Now().Add(time.Hour).UTC()
	item, err := svc.AddItem(ctx, "alice", "inv-1", &model.InventoryItem{
		ItemName:     "Milk",
		Quantity:     1,
		ReminderDate: &due,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteItem(ctx, "alice", "inv-1", item.ID))
	assert.Empty(t, scheduler.cancelled)
}
