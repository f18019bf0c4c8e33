package repository

import (
	"context"
	"database/sql"
	"fmt"

	"wastenot-api/internal/model"
)

// CreateInvitation appends one record to the ledger. The partial unique index
// on (from_user, to_user, inventory_id) WHERE status='pending' turns a
// check-then-act race into ErrDuplicatePending.
func (s *SQLiteStore) CreateInvitation(ctx context.Context, inv *model.Invitation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO invitations (id, from_user, to_user, inventory_id, inventory_name, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.FromUser, inv.ToUser, inv.InventoryID, inv.InventoryName,
		inv.Status, inv.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicatePending
	}
	if err != nil {
		return fmt.Errorf("failed to insert invitation: %w", err)
	}
	return nil
}

// GetInvitation fetches one record by id.
func (s *SQLiteStore) GetInvitation(ctx context.Context, id string) (*model.Invitation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inv := &model.Invitation{ID: id}
	err := s.db.QueryRowContext(ctx, `
		SELECT from_user, to_user, inventory_id, inventory_name, status, created_at
		FROM invitations WHERE id = ?`, id).
		Scan(&inv.FromUser, &inv.ToUser, &inv.InventoryID, &inv.InventoryName,
			&inv.Status, &inv.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrInvitationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}
	return inv, nil
}

// ListPendingByInvitee returns all pending records addressed to uid.
func (s *SQLiteStore) ListPendingByInvitee(ctx context.Context, uid string) ([]*model.Invitation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, from_user, to_user, inventory_id, inventory_name, status, created_at
		FROM invitations WHERE to_user = ? AND status = ?
		ORDER BY created_at`, uid, model.InvitationPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	defer rows.Close()

	result := make([]*model.Invitation, 0)
	for rows.Next() {
		inv := &model.Invitation{}
		if err := rows.Scan(&inv.ID, &inv.FromUser, &inv.ToUser, &inv.InventoryID,
			&inv.InventoryName, &inv.Status, &inv.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, inv)
	}
	return result, rows.Err()
}

// ExistsPending reports whether a pending record matches the triple.
func (s *SQLiteStore) ExistsPending(ctx context.Context, toUser, inventoryID, fromUser string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM invitations
		WHERE to_user = ? AND inventory_id = ? AND from_user = ? AND status = ?`,
		toUser, inventoryID, fromUser, model.InvitationPending).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check invitation: %w", err)
	}
	return n > 0, nil
}

// UpdateStatus flips a record's status in place.
func (s *SQLiteStore) UpdateStatus(ctx context.Context, id, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE invitations SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update invitation status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrInvitationNotFound
	}
	return nil
}
