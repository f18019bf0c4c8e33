package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"wastenot-api/internal/model"
	"wastenot-api/internal/repository"
	"wastenot-api/pkg/apierror"
	"wastenot-api/pkg/uid"
)

// defaultInventoryName is used when an item is added with no inventory
// selected and the user has none yet.
const defaultInventoryName = "My Inventory"

// ReminderScheduler schedules and cancels item reminders. Delivery is
// handled elsewhere; these calls only manage the pending queue.
type ReminderScheduler interface {
	ScheduleItem(ctx context.Context, item *model.InventoryItem)
	CancelItem(ctx context.Context, inventoryID, itemID string)
}

// ItemService handles per-inventory item CRUD, gated by membership.
type ItemService struct {
	items       repository.ItemRepository
	inventories repository.InventoryRepository
	reminders   ReminderScheduler

	// cancelOnDelete controls whether deleting an item cancels its pending
	// reminder.
	cancelOnDelete bool
}

// NewItemService creates a new item service. The reminder scheduler is
// optional.
func NewItemService(
	items repository.ItemRepository,
	inventories repository.InventoryRepository,
	reminders ReminderScheduler,
	cancelOnDelete bool,
) *ItemService {
	return &ItemService{
		items:          items,
		inventories:    inventories,
		reminders:      reminders,
		cancelOnDelete: cancelOnDelete,
	}
}

// ResolveInventory maps a possibly-empty inventory selection to a concrete
// inventory id for userID. With no selection, the user's first inventory is
// used; when forWrite is set and the user has none, a personal inventory is
// created on the fly.
func (s *ItemService) ResolveInventory(ctx context.Context, userID, inventoryID string, forWrite bool) (string, error) {
	if userID == "" {
		return "", apierror.NotAuthenticated("")
	}
	if inventoryID != "" {
		if _, err := s.requireMember(ctx, inventoryID, userID); err != nil {
			return "", err
		}
		return inventoryID, nil
	}

	inventories, err := s.inventories.ListByMember(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to list inventories: %w", err)
	}
	if len(inventories) > 0 {
		return inventories[0].ID, nil
	}
	if !forWrite {
		return "", apierror.NoSelection("")
	}

	inv := model.NewInventory(uid.New(), defaultInventoryName, userID)
	if err := s.inventories.Create(ctx, inv); err != nil {
		return "", apierror.StoreWriteFailed("Could not create inventory")
	}
	log.Printf("[ItemService] Created default inventory %s for %s", inv.ID, userID)
	return inv.ID, nil
}

// AddItem creates an item in the given inventory, stamping provenance and
// scheduling a reminder when a reminder date is set.
func (s *ItemService) AddItem(ctx context.Context, userID, inventoryID string, item *model.InventoryItem) (*model.InventoryItem, error) {
	if userID == "" {
		return nil, apierror.NotAuthenticated("")
	}
	if strings.TrimSpace(item.ItemName) == "" {
		return nil, apierror.BadRequest("item name is required")
	}
	if item.Quantity < 0 {
		return nil, apierror.BadRequest("quantity cannot be negative")
	}

	resolvedID, err := s.ResolveInventory(ctx, userID, inventoryID, true)
	if err != nil {
		return nil, err
	}

	item.ID = uid.New()
	item.InventoryID = resolvedID
	item.CreatedBy = userID
	item.LastUpdatedBy = userID
	item.LastUpdated = time.Now().UTC()

	if err := s.items.CreateItem(ctx, item); err != nil {
		return nil, apierror.StoreWriteFailed("Could not create item")
	}

	if s.reminders != nil && item.ReminderDate != nil {
		s.reminders.ScheduleItem(ctx, item)
	}
	return item, nil
}

// UpdateItem applies a partial update, always stamping the modification
// metadata. The reminder is rescheduled after every update, even when the
// reminder date did not change.
func (s *ItemService) UpdateItem(ctx context.Context, userID, inventoryID, itemID string, patch *model.ItemPatch) (*model.InventoryItem, error) {
	inventoryID, err := s.ResolveInventory(ctx, userID, inventoryID, false)
	if err != nil {
		return nil, err
	}
	if patch.Quantity != nil && *patch.Quantity < 0 {
		return nil, apierror.BadRequest("quantity cannot be negative")
	}

	err = s.items.UpdateItem(ctx, inventoryID, itemID, patch, userID, time.Now().UTC())
	if err == repository.ErrItemNotFound {
		return nil, apierror.NotFound("Item not found")
	}
	if err != nil {
		return nil, apierror.StoreWriteFailed("Could not update item")
	}

	item, err := s.items.GetItem(ctx, inventoryID, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload item: %w", err)
	}

	if s.reminders != nil {
		if item.ReminderDate != nil {
			s.reminders.ScheduleItem(ctx, item)
		} else if patch.ClearReminder {
			s.reminders.CancelItem(ctx, inventoryID, itemID)
		}
	}
	return item, nil
}

// DeleteItem removes an item and, when configured, cancels its pending
// reminder.
func (s *ItemService) DeleteItem(ctx context.Context, userID, inventoryID, itemID string) error {
	inventoryID, err := s.ResolveInventory(ctx, userID, inventoryID, false)
	if err != nil {
		return err
	}

	err = s.items.DeleteItem(ctx, inventoryID, itemID)
	if err == repository.ErrItemNotFound {
		return apierror.NotFound("Item not found")
	}
	if err != nil {
		return apierror.StoreWriteFailed("Could not delete item")
	}

	if s.reminders != nil && s.cancelOnDelete {
		s.reminders.CancelItem(ctx, inventoryID, itemID)
	}
	return nil
}

// GetItem fetches one item.
func (s *ItemService) GetItem(ctx context.Context, userID, inventoryID, itemID string) (*model.InventoryItem, error) {
	inventoryID, err := s.ResolveInventory(ctx, userID, inventoryID, false)
	if err != nil {
		return nil, err
	}
	item, err := s.items.GetItem(ctx, inventoryID, itemID)
	if err == repository.ErrItemNotFound {
		return nil, apierror.NotFound("Item not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return item, nil
}

// ListItems returns the full item snapshot for an inventory. An inventory
// with no items yields an empty list, never an error.
func (s *ItemService) ListItems(ctx context.Context, userID, inventoryID string) ([]*model.InventoryItem, error) {
	inventoryID, err := s.ResolveInventory(ctx, userID, inventoryID, false)
	if err != nil {
		return nil, err
	}
	items, err := s.items.ListItems(ctx, inventoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

func (s *ItemService) requireMember(ctx context.Context, inventoryID, userID string) (*model.Inventory, error) {
	if userID == "" {
		return nil, apierror.NotAuthenticated("")
	}
	if inventoryID == "" {
		return nil, apierror.NoSelection("")
	}
	inv, err := s.inventories.GetByID(ctx, inventoryID)
	if err == repository.ErrInventoryNotFound {
		return nil, apierror.NotFound("Inventory not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}
	if !inv.IsMember(userID) {
		return nil, apierror.Forbidden("Not a member of this inventory")
	}
	return inv, nil
}
