package model

import "time"

// Membership roles. The role model only distinguishes owner from member;
// both may read and write items today.
const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

// Inventory is a named collection of perishable items shared by a set of users.
//
// Members and MembersArray are two views of the same fact: the map carries
// roles, the array is the flattened identity list used for containment
// queries. Every mutation path must update both in a single document write so
// they cannot drift.
type Inventory struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Owner        string            `json:"owner"`
	Members      map[string]string `json:"members"`
	MembersArray []string          `json:"members_array"`
	CreatedAt    time.Time         `json:"created_at"`
}

// IsMember reports whether uid appears in the flattened member list.
func (inv *Inventory) IsMember(uid string) bool {
	for _, m := range inv.MembersArray {
		if m == uid {
			return true
		}
	}
	return false
}

// NewInventory builds an inventory with the owner seeded into both
// membership representations.
func NewInventory(id, name, owner string) *Inventory {
	return &Inventory{
		ID:           id,
		Name:         name,
		Owner:        owner,
		Members:      map[string]string{owner: RoleOwner},
		MembersArray: []string{owner},
		CreatedAt:    time.Now().UTC(),
	}
}
