package repository

import (
	"context"
	"errors"
	"time"

	"wastenot-api/internal/model"
)

var (
	ErrInventoryNotFound  = errors.New("inventory not found")
	ErrItemNotFound       = errors.New("item not found")
	ErrInvitationNotFound = errors.New("invitation not found")
	ErrUserNotFound       = errors.New("user not found")

	// ErrDuplicatePending is returned by backends that enforce the
	// one-pending-invitation-per-triple constraint at the store layer.
	ErrDuplicatePending = errors.New("pending invitation already exists")

	// ErrDuplicateEmail is returned when a registration hits the unique
	// email constraint, closing the check-then-create race.
	ErrDuplicateEmail = errors.New("email already registered")
)

// InventoryRepository defines shared-inventory data access methods.
//
// AddMember must update the role mapping and the flattened member list
// together: a single document write on document backends, a single
// authoritative row on relational ones.
type InventoryRepository interface {
	// Create persists a new inventory with its initial membership.
	Create(ctx context.Context, inv *model.Inventory) error

	// GetByID fetches one inventory, including both membership views.
	GetByID(ctx context.Context, id string) (*model.Inventory, error)

	// ListByMember returns every inventory whose flattened member list
	// contains uid.
	ListByMember(ctx context.Context, uid string) ([]*model.Inventory, error)

	// Rename updates the display name.
	Rename(ctx context.Context, id, name string) error

	// AddMember unions uid into the membership. Adding an existing member
	// is a no-op.
	AddMember(ctx context.Context, id, uid, role string) error
}

// ItemRepository defines per-inventory item data access methods.
type ItemRepository interface {
	// CreateItem persists a new item record.
	CreateItem(ctx context.Context, item *model.InventoryItem) error

	// GetItem fetches one item scoped to an inventory.
	GetItem(ctx context.Context, inventoryID, itemID string) (*model.InventoryItem, error)

	// UpdateItem applies a partial update and stamps the modification
	// metadata. Fields absent from the patch are left untouched.
	UpdateItem(ctx context.Context, inventoryID, itemID string, patch *model.ItemPatch, updatedBy string, updatedAt time.Time) error

	// DeleteItem removes one item.
	DeleteItem(ctx context.Context, inventoryID, itemID string) error

	// ListItems returns the full item snapshot for an inventory. An
	// inventory with no items yields an empty slice, not an error.
	ListItems(ctx context.Context, inventoryID string) ([]*model.InventoryItem, error)

	// ListExpiringBetween returns items whose reminder date falls inside
	// [start, end], across all inventories. Used by the expiry summary.
	ListExpiringBetween(ctx context.Context, start, end time.Time) ([]*model.InventoryItem, error)
}

// InvitationRepository defines invitation-ledger data access methods.
// The ledger is append-only: records are created and their status updated,
// never deleted.
type InvitationRepository interface {
	// CreateInvitation appends one record to the ledger.
	CreateInvitation(ctx context.Context, inv *model.Invitation) error

	// GetInvitation fetches one record by id.
	GetInvitation(ctx context.Context, id string) (*model.Invitation, error)

	// ListPendingByInvitee returns all pending records addressed to uid.
	ListPendingByInvitee(ctx context.Context, uid string) ([]*model.Invitation, error)

	// ExistsPending reports whether a pending record matches the
	// (inviter, invitee, inventory) triple.
	ExistsPending(ctx context.Context, toUser, inventoryID, fromUser string) (bool, error)

	// UpdateStatus flips a record's status in place.
	UpdateStatus(ctx context.Context, id, status string) error
}

// UserRepository defines user-profile data access methods.
type UserRepository interface {
	// CreateUser persists a profile at registration.
	CreateUser(ctx context.Context, u *model.UserProfile) error

	// GetUser fetches a profile by identity.
	GetUser(ctx context.Context, id string) (*model.UserProfile, error)

	// GetUserByEmail resolves the human-facing email key to a profile.
	GetUserByEmail(ctx context.Context, email string) (*model.UserProfile, error)

	// UpdateUser updates the mutable profile fields. Nil fields are kept.
	UpdateUser(ctx context.Context, id string, username, fcmToken *string) error
}

// StatsProvider exposes store statistics for the admin surface.
type StatsProvider interface {
	Stats(ctx context.Context) (map[string]interface{}, error)
}
