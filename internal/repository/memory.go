package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"wastenot-api/internal/model"
)

// MemoryStore is an in-memory implementation of all repositories, used for
// tests and for running without any external store.
type MemoryStore struct {
	mu          sync.RWMutex
	inventories map[string]*model.Inventory
	items       map[string]map[string]*model.InventoryItem // inventoryID -> itemID -> item
	invitations map[string]*model.Invitation
	users       map[string]*model.UserProfile
	usersByMail map[string]string // email -> id
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		inventories: make(map[string]*model.Inventory),
		items:       make(map[string]map[string]*model.InventoryItem),
		invitations: make(map[string]*model.Invitation),
		users:       make(map[string]*model.UserProfile),
		usersByMail: make(map[string]string),
	}
}

func cloneInventory(inv *model.Inventory) *model.Inventory {
	out := *inv
	out.Members = make(map[string]string, len(inv.Members))
	for k, v := range inv.Members {
		out.Members[k] = v
	}
	out.MembersArray = append([]string(nil), inv.MembersArray...)
	return &out
}

func cloneItem(item *model.InventoryItem) *model.InventoryItem {
	out := *item
	if item.ReminderDate != nil {
		t := *item.ReminderDate
		out.ReminderDate = &t
	}
	return &out
}

// Create persists a new inventory.
func (s *MemoryStore) Create(ctx context.Context, inv *model.Inventory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inventories[inv.ID] = cloneInventory(inv)
	return nil
}

// GetByID fetches one inventory.
func (s *MemoryStore) GetByID(ctx context.Context, id string) (*model.Inventory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.inventories[id]
	if !ok {
		return nil, ErrInventoryNotFound
	}
	return cloneInventory(inv), nil
}

// ListByMember returns every inventory whose flattened list contains uid.
func (s *MemoryStore) ListByMember(ctx context.Context, uid string) ([]*model.Inventory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*model.Inventory, 0)
	for _, inv := range s.inventories {
		if inv.IsMember(uid) {
			result = append(result, cloneInventory(inv))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// Rename updates the display name.
func (s *MemoryStore) Rename(ctx context.Context, id, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.inventories[id]
	if !ok {
		return ErrInventoryNotFound
	}
	inv.Name = name
	return nil
}

// AddMember unions uid into both membership representations.
func (s *MemoryStore) AddMember(ctx context.Context, id, uid, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.inventories[id]
	if !ok {
		return ErrInventoryNotFound
	}
	if _, present := inv.Members[uid]; !present {
		inv.Members[uid] = role
		inv.MembersArray = append(inv.MembersArray, uid)
	}
	return nil
}

// CreateItem persists a new item record.
func (s *MemoryStore) CreateItem(ctx context.Context, item *model.InventoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	byID, ok := s.items[item.InventoryID]
	if !ok {
		byID = make(map[string]*model.InventoryItem)
		s.items[item.InventoryID] = byID
	}
	byID[item.ID] = cloneItem(item)
	return nil
}

// GetItem fetches one item scoped to an inventory.
func (s *MemoryStore) GetItem(ctx context.Context, inventoryID, itemID string) (*model.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[inventoryID][itemID]
	if !ok {
		return nil, ErrItemNotFound
	}
	return cloneItem(item), nil
}

// UpdateItem applies a partial update in place.
func (s *MemoryStore) UpdateItem(ctx context.Context, inventoryID, itemID string, patch *model.ItemPatch, updatedBy string, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[inventoryID][itemID]
	if !ok {
		return ErrItemNotFound
	}
	patch.Apply(item)
	if item.ReminderDate != nil {
		// Apply copies the patch pointer; re-own the time so the retained
		// item never aliases caller memory.
		t := *item.ReminderDate
		item.ReminderDate = &t
	}
	item.LastUpdated = updatedAt
	item.LastUpdatedBy = updatedBy
	return nil
}

// DeleteItem removes one item.
func (s *MemoryStore) DeleteItem(ctx context.Context, inventoryID, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[inventoryID][itemID]; !ok {
		return ErrItemNotFound
	}
	delete(s.items[inventoryID], itemID)
	return nil
}

// ListItems returns the full item snapshot for an inventory.
func (s *MemoryStore) ListItems(ctx context.Context, inventoryID string) ([]*model.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]*model.InventoryItem, 0, len(s.items[inventoryID]))
	for _, item := range s.items[inventoryID] {
		items = append(items, cloneItem(item))
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].LastUpdated.After(items[j].LastUpdated)
	})
	return items, nil
}

// ListExpiringBetween returns items with a reminder date inside [start, end].
func (s *MemoryStore) ListExpiringBetween(ctx context.Context, start, end time.Time) ([]*model.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]*model.InventoryItem, 0)
	for _, byID := range s.items {
		for _, item := range byID {
			if item.ReminderDate == nil {
				continue
			}
			if item.ReminderDate.Before(start) || item.ReminderDate.After(end) {
				continue
			}
			items = append(items, cloneItem(item))
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ReminderDate.Before(*items[j].ReminderDate)
	})
	return items, nil
}

// CreateInvitation appends one record, enforcing the pending-uniqueness
// constraint the way the indexed backends do.
func (s *MemoryStore) CreateInvitation(ctx context.Context, inv *model.Invitation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if inv.Status == model.InvitationPending {
		for _, existing := range s.invitations {
			if existing.Status == model.InvitationPending &&
				existing.FromUser == inv.FromUser &&
				existing.ToUser == inv.ToUser &&
				existing.InventoryID == inv.InventoryID {
				return ErrDuplicatePending
			}
		}
	}
	copied := *inv
	s.invitations[inv.ID] = &copied
	return nil
}

// GetInvitation fetches one record by id.
func (s *MemoryStore) GetInvitation(ctx context.Context, id string) (*model.Invitation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.invitations[id]
	if !ok {
		return nil, ErrInvitationNotFound
	}
	copied := *inv
	return &copied, nil
}

// ListPendingByInvitee returns all pending records addressed to uid.
func (s *MemoryStore) ListPendingByInvitee(ctx context.Context, uid string) ([]*model.Invitation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*model.Invitation, 0)
	for _, inv := range s.invitations {
		if inv.ToUser == uid && inv.Status == model.InvitationPending {
			copied := *inv
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// ExistsPending reports whether a pending record matches the triple.
func (s *MemoryStore) ExistsPending(ctx context.Context, toUser, inventoryID, fromUser string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, inv := range s.invitations {
		if inv.ToUser == toUser && inv.InventoryID == inventoryID &&
			inv.FromUser == fromUser && inv.Status == model.InvitationPending {
			return true, nil
		}
	}
	return false, nil
}

// UpdateStatus flips a record's status in place.
func (s *MemoryStore) UpdateStatus(ctx context.Context, id, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invitations[id]
	if !ok {
		return ErrInvitationNotFound
	}
	inv.Status = status
	return nil
}

// CreateUser persists a profile.
func (s *MemoryStore) CreateUser(ctx context.Context, u *model.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.usersByMail[u.Email]; exists {
		return ErrDuplicateEmail
	}
	copied := *u
	s.users[u.ID] = &copied
	s.usersByMail[u.Email] = u.ID
	return nil
}

// GetUser fetches a profile by identity.
func (s *MemoryStore) GetUser(ctx context.Context, id string) (*model.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

// GetUserByEmail resolves the email key to a profile.
func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*model.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usersByMail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	u, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

// UpdateUser updates the mutable profile fields.
func (s *MemoryStore) UpdateUser(ctx context.Context, id string, username, fcmToken *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return ErrUserNotFound
	}
	if username != nil {
		u.Username = *username
	}
	if fcmToken != nil {
		u.FCMToken = *fcmToken
	}
	return nil
}

// Stats returns statistics about the store.
func (s *MemoryStore) Stats(ctx context.Context) (map[string]interface{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	totalItems := 0
	for _, byID := range s.items {
		totalItems += len(byID)
	}
	pending := 0
	for _, inv := range s.invitations {
		if inv.Status == model.InvitationPending {
			pending++
		}
	}
	return map[string]interface{}{
		"backend":             "memory",
		"total_inventories":   int64(len(s.inventories)),
		"total_items":         int64(totalItems),
		"total_invitations":   int64(len(s.invitations)),
		"total_users":         int64(len(s.users)),
		"pending_invitations": int64(pending),
	}, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}

// Ensure MemoryStore implements the repository interfaces
var (
	_ InventoryRepository  = (*MemoryStore)(nil)
	_ ItemRepository       = (*MemoryStore)(nil)
	_ InvitationRepository = (*MemoryStore)(nil)
	_ UserRepository       = (*MemoryStore)(nil)
	_ StatsProvider        = (*MemoryStore)(nil)
)
