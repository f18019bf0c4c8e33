package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestItemPatch_Apply(t *testing.T) {
	due := time.Now().Add(time.Hour)
	item := &InventoryItem{
		ItemName:     "Milk",
		Quantity:     2,
		Category:     "dairy",
		ReminderDate: &due,
	}

	name := "Oat milk"
	zero := 0
	(&ItemPatch{ItemName: &name, Quantity: &zero}).Apply(item)

	assert.Equal(t, "Oat milk", item.ItemName)
	assert.Equal(t, 0, item.Quantity, "explicit zero must not read as unset")
	assert.Equal(t, "dairy", item.Category)
	assert.NotNil(t, item.ReminderDate)

	(&ItemPatch{ClearReminder: true}).Apply(item)
	assert.Nil(t, item.ReminderDate)
}

func TestInventory_IsMember(t *testing.T) {
	inv := NewInventory("inv-1", "Kitchen", "alice")

	assert.True(t, inv.IsMember("alice"))
	assert.False(t, inv.IsMember("bob"))
	assert.Equal(t, RoleOwner, inv.Members["alice"])
	assert.Equal(t, []string{"alice"}, inv.MembersArray)
}

func TestInvitation_IsPending(t *testing.T) {
	inv := &Invitation{Status: InvitationPending}
	assert.True(t, inv.IsPending())

	inv.Status = InvitationAccepted
	assert.False(t, inv.IsPending())
}
