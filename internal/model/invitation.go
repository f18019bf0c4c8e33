package model

import "time"

// Invitation status values. The ledger is append-only: records move from
// pending to accepted or declined and are never deleted.
const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
	InvitationDeclined = "declined"
)

// Invitation links an inviter, an invitee and a target inventory.
// InventoryName is a denormalized copy taken at creation time so pending
// invitations can be rendered without a second lookup.
type Invitation struct {
	ID            string    `json:"id"`
	FromUser      string    `json:"from_user"`
	ToUser        string    `json:"to_user"`
	InventoryID   string    `json:"inventory_id"`
	InventoryName string    `json:"inventory_name"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// IsPending reports whether the invitation is still unresolved.
func (i *Invitation) IsPending() bool {
	return i.Status == InvitationPending
}
