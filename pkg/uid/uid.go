// Package uid generates the string identifiers used across the service:
// inventories, items, invitations, and user profiles all share the same
// UUID-shaped id space.
package uid

import "github.com/google/uuid"

// New returns a fresh identifier.
func New() string {
	return uuid.NewString()
}

// IsValid reports whether id parses as a UUID.
func IsValid(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
