package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"wastenot-api/internal/cache"
	"wastenot-api/internal/model"
	"wastenot-api/internal/repository"
	"wastenot-api/pkg/apierror"
	"wastenot-api/pkg/uid"
)

// UnknownDisplayName is the placeholder used when a member's profile cannot
// be resolved.
const UnknownDisplayName = "Unknown"

// InventoryService handles shared-inventory and membership logic.
type InventoryService struct {
	inventories repository.InventoryRepository
	users       repository.UserRepository
	profiles    cache.ProfileCache
}

// NewInventoryService creates a new inventory service. The profile cache is
// optional.
func NewInventoryService(
	inventories repository.InventoryRepository,
	users repository.UserRepository,
	profiles cache.ProfileCache,
) *InventoryService {
	return &InventoryService{
		inventories: inventories,
		users:       users,
		profiles:    profiles,
	}
}

// CreateInventory creates a shared inventory owned by ownerID, with the owner
// seeded into both membership representations.
func (s *InventoryService) CreateInventory(ctx context.Context, ownerID, name string) (*model.Inventory, error) {
	if ownerID == "" {
		return nil, apierror.NotAuthenticated("")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apierror.BadRequest("inventory name cannot be empty")
	}

	inv := model.NewInventory(uid.New(), name, ownerID)
	if err := s.inventories.Create(ctx, inv); err != nil {
		return nil, apierror.StoreWriteFailed("Could not create inventory")
	}

	log.Printf("[InventoryService] Created inventory %s (%q) for %s", inv.ID, name, ownerID)
	return inv, nil
}

// ListInventories returns every inventory uid belongs to.
func (s *InventoryService) ListInventories(ctx context.Context, userID string) ([]*model.Inventory, error) {
	if userID == "" {
		return nil, apierror.NotAuthenticated("")
	}
	inventories, err := s.inventories.ListByMember(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventories: %w", err)
	}
	return inventories, nil
}

// Rename updates an inventory's display name. The caller must be a member.
func (s *InventoryService) Rename(ctx context.Context, userID, inventoryID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apierror.BadRequest("inventory name cannot be empty")
	}
	if _, err := s.requireMember(ctx, inventoryID, userID); err != nil {
		return err
	}
	if err := s.inventories.Rename(ctx, inventoryID, name); err != nil {
		return apierror.StoreWriteFailed("Could not rename inventory")
	}
	return nil
}

// AddMember unions userID into the inventory's membership. Idempotent.
func (s *InventoryService) AddMember(ctx context.Context, inventoryID, userID, role string) error {
	err := s.inventories.AddMember(ctx, inventoryID, userID, role)
	if err == repository.ErrInventoryNotFound {
		return apierror.NotFound("Inventory not found")
	}
	if err != nil {
		return apierror.StoreWriteFailed("Could not add member")
	}
	return nil
}

// ListMembers returns the member identities of an inventory. The caller must
// be a member.
func (s *InventoryService) ListMembers(ctx context.Context, userID, inventoryID string) ([]string, error) {
	inv, err := s.requireMember(ctx, inventoryID, userID)
	if err != nil {
		return nil, err
	}
	return inv.MembersArray, nil
}

// ResolveDisplayNames maps member identities to display names. Lookups that
// fail degrade per member to the Unknown placeholder; the batch never fails
// on one bad identity.
func (s *InventoryService) ResolveDisplayNames(ctx context.Context, userIDs []string) map[string]string {
	names := make(map[string]string, len(userIDs))
	for _, id := range userIDs {
		if s.profiles != nil {
			if name, ok := s.profiles.GetName(ctx, id); ok {
				names[id] = name
				continue
			}
		}

		profile, err := s.users.GetUser(ctx, id)
		if err != nil {
			if err != repository.ErrUserNotFound {
				log.Printf("[InventoryService] Error fetching profile for %s: %v", id, err)
			}
			names[id] = UnknownDisplayName
			continue
		}

		name := profile.Username
		if name == "" {
			name = UnknownDisplayName
		}
		names[id] = name
		if s.profiles != nil {
			s.profiles.SetName(ctx, id, name)
		}
	}
	return names
}

// requireMember loads an inventory and verifies userID belongs to it.
func (s *InventoryService) requireMember(ctx context.Context, inventoryID, userID string) (*model.Inventory, error) {
	if userID == "" {
		return nil, apierror.NotAuthenticated("")
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
