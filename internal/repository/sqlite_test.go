package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"wastenot-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLite_InventoryRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	inv := model.NewInventory("inv-1", "Kitchen", "alice")
	require.NoError(t, store.Create(ctx, inv))

	loaded, err := store.GetByID(ctx, "inv-1")
	require.NoError(t, err)
	assert.Equal(t, "Kitchen", loaded.Name)
	assert.Equal(t, "alice", loaded.Owner)
	assert.Equal(t, model.RoleOwner, loaded.Members["alice"])
	assert.Equal(t, []string{"alice"}, loaded.MembersArray)

	_, err = store.GetByID(ctx, "ghost")
	assert.ErrorIs(t, err, ErrInventoryNotFound)
}

func TestSQLite_MembershipRepresentationsStayInSync(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, model.NewInventory("inv-1", "Kitchen", "alice")))
	require.NoError(t, store.AddMember(ctx, "inv-1", "bob", model.RoleMember))
	require.NoError(t, store.AddMember(ctx, "inv-1", "bob", model.RoleMember))
	require.NoError(t, store.AddMember(ctx, "inv-1", "carol", model.RoleMember))

	loaded, err := store.GetByID(ctx, "inv-1")
	require.NoError(t, err)
	assert.Len(t, loaded.Members, 3)
	assert.Len(t, loaded.MembersArray, 3)
	assert.Equal(t, model.RoleMember, loaded.Members["bob"])

	assert.ErrorIs(t, store.AddMember(ctx, "ghost", "bob", model.RoleMember), ErrInventoryNotFound)
}

func TestSQLite_ListByMember(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, model.NewInventory("inv-1", "Kitchen", "alice")))
	require.NoError(t, store.Create(ctx, model.NewInventory("inv-2", "Garage", "bob")))
	require.NoError(t, store.AddMember(ctx, "inv-2", "alice", model.RoleMember))

	mine, err := store.ListByMember(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, mine, 2)

	theirs, err := store.ListByMember(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, theirs, 1)
	assert.Equal(t, "inv-2", theirs[0].ID)
}

func TestSQLite_ItemCRUD(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, model.NewInventory("inv-1", "Kitchen", "alice")))

	due := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	item := &model.InventoryItem{
		ID:            "item-1",
		InventoryID:   "inv-1",
		Barcode:       "123456",
		ItemName:      "Milk",
		Quantity:      2,
		Brand:         "Dairy Co",
		Category:      "dairy",
		ReminderDate:  &due,
		LastUpdated:   time.Now().UTC().Truncate(time.Second),
		CreatedBy:     "alice",
		LastUpdatedBy: "alice",
	}
	require.NoError(t, store.CreateItem(ctx, item))

	loaded, err := store.GetItem(ctx, "inv-1", "item-1")
	require.NoError(t, err)
	assert.Equal(t, "Milk", loaded.ItemName)
	assert.Equal(t, 2, loaded.Quantity)
	require.NotNil(t, loaded.ReminderDate)
	assert.True(t, loaded.ReminderDate.Equal(due))

	// Partial update leaves unpatched fields alone.
	name := "Oat milk"
	zero := 0
	updatedAt := time.Now().UTC().Truncate(time.Second)
	err = store.UpdateItem(ctx, "inv-1", "item-1", &model.ItemPatch{
		ItemName: &name,
		Quantity: &zero,
	}, "bob", updatedAt)
	require.NoError(t, err)

	loaded, err = store.GetItem(ctx, "inv-1", "item-1")
	require.NoError(t, err)
	assert.Equal(t, "Oat milk", loaded.ItemName)
	assert.Equal(t, 0, loaded.Quantity)
	assert.Equal(t, "123456", loaded.Barcode)
	assert.Equal(t, "bob", loaded.LastUpdatedBy)
	require.NotNil(t, loaded.ReminderDate)

	// ClearReminder nulls the reminder column.
	err = store.UpdateItem(ctx, "inv-1", "item-1", &model.ItemPatch{ClearReminder: true}, "bob", updatedAt)
	require.NoError(t, err)
	loaded, err = store.GetItem(ctx, "inv-1", "item-1")
	require.NoError(t, err)
	assert.Nil(t, loaded.ReminderDate)

	require.NoError(t, store.DeleteItem(ctx, "inv-1", "item-1"))
	_, err = store.GetItem(ctx, "inv-1", "item-1")
	assert.ErrorIs(t, err, ErrItemNotFound)
	assert.ErrorIs(t, store.DeleteItem(ctx, "inv-1", "item-1"), ErrItemNotFound)
}

func TestSQLite_ItemScopedToInventory(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateItem(ctx, &model.InventoryItem{
		ID: "item-1", InventoryID: "inv-1", ItemName: "Milk",
		LastUpdated: time.Now().UTC(), CreatedBy: "alice", LastUpdatedBy: "alice",
	}))

	_, err := store.GetItem(ctx, "inv-2", "item-1")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestSQLite_ListExpiringBetween(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	inWindow := now.Add(24 * time.Hour)
	outOfWindow := now.Add(72 * time.Hour)

	require.NoError(t, store.CreateItem(ctx, &model.InventoryItem{
		ID: "item-1", InventoryID: "inv-1", ItemName: "Milk", ReminderDate: &inWindow,
		LastUpdated: now, CreatedBy: "alice", LastUpdatedBy: "alice",
	}))
	require.NoError(t, store.CreateItem(ctx, &model.InventoryItem{
		ID: "item-2", InventoryID: "inv-1", ItemName: "Cheese", ReminderDate: &outOfWindow,
		LastUpdated: now, CreatedBy: "alice", LastUpdatedBy: "alice",
	}))
	require.NoError(t, store.CreateItem(ctx, &model.InventoryItem{
		ID: "item-3", InventoryID: "inv-1", ItemName: "Salt",
		LastUpdated: now, CreatedBy: "alice", LastUpdatedBy: "alice",
	}))

	expiring, err := store.ListExpiringBetween(ctx, now, now.Add(48*time.Hour))
	require.NoError(t, err)
	require.Len(t, expiring, 1)
	assert.Equal(t, "item-1", expiring[0].ID)
}

func TestSQLite_DuplicatePendingInvitationRejected(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := &model.Invitation{
		ID: "invite-1", FromUser: "alice", ToUser: "bob", InventoryID: "inv-1",
		InventoryName: "Kitchen", Status: model.InvitationPending, CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, store.CreateInvitation(ctx, first))

	dup := &model.Invitation{
		ID: "invite-2", FromUser: "alice", ToUser: "bob", InventoryID: "inv-1",
		InventoryName: "Kitchen", Status: model.InvitationPending, CreatedAt: time.Now().UTC(),
	}
	assert.ErrorIs(t, store.CreateInvitation(ctx, dup), ErrDuplicatePending)

	// Resolving the first frees the slot for a new pending invitation.
	require.NoError(t, store.UpdateStatus(ctx, "invite-1", model.InvitationDeclined))
	require.NoError(t, store.CreateInvitation(ctx, dup))
}

func TestSQLite_PendingFeedExcludesResolved(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i, id := range []string{"invite-1", "invite-2"} {
		require.NoError(t, store.CreateInvitation(ctx, &model.Invitation{
			ID: id, FromUser: "alice", ToUser: "bob", InventoryID: "inv-" + id,
			InventoryName: "Kitchen", Status: model.InvitationPending,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	pending, err := store.ListPendingByInvitee(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "invite-1", pending[0].ID)

	require.NoError(t, store.UpdateStatus(ctx, "invite-1", model.InvitationAccepted))

	pending, err = store.ListPendingByInvitee(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "invite-2", pending[0].ID)

	exists, err := store.ExistsPending(ctx, "bob", "inv-invite-1", "alice")
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = store.ExistsPending(ctx, "bob", "inv-invite-2", "alice")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestSQLite_UserRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := &model.UserProfile{
		ID: "alice", Username: "Alice", Email: "alice@example.com",
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, store.CreateUser(ctx, user))

	loaded, err := store.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice", loaded.ID)

	token := "fcm-1"
	require.NoError(t, store.UpdateUser(ctx, "alice", nil, &token))

	loaded, err = store.GetUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice", loaded.Username)
	assert.Equal(t, "fcm-1", loaded.FCMToken)

	_, err = store.GetUser(ctx, "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSQLite_DuplicateEmailRejected(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, &model.UserProfile{
		ID: "alice", Username: "Alice", Email: "alice@example.com",
		CreatedAt: time.Now().UTC(),
	}))

	err := store.CreateUser(ctx, &model.UserProfile{
		ID: "alice-2", Username: "Imposter", Email: "alice@example.com",
		CreatedAt: time.Now().UTC(),
	})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestSQLite_Stats(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, model.NewInventory("inv-1", "Kitchen", "alice")))
	require.NoError(t, store.CreateInvitation(ctx, &model.Invitation{
		ID: "invite-1", FromUser: "alice", ToUser: "bob", InventoryID: "inv-1",
		Status: model.InvitationPending, CreatedAt: time.Now().UTC(),
	}))

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats["total_inventories"])
	assert.EqualValues(t, 1, stats["pending_invitations"])
}
