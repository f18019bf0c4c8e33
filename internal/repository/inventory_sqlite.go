package repository

import (
	"context"
	"database/sql"
	"fmt"

	"wastenot-api/internal/model"
)

// Create persists a new inventory and its initial membership in one
// transaction.
func (s *SQLiteStore) Create(ctx context.Context, inv *model.Inventory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO inventories (id, name, owner, created_at) VALUES (?, ?, ?, ?)`,
		inv.ID, inv.Name, inv.Owner, inv.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert inventory: %w", err)
	}

	for uid, role := range inv.Members {
		_, err = tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO inventory_members (inventory_id, user_id, role) VALUES (?, ?, ?)`,
			inv.ID, uid, role)
		if err != nil {
			return fmt.Errorf("failed to insert member %s: %w", uid, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetByID fetches one inventory with both membership views rebuilt from the
// members table.
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (*model.Inventory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inv := &model.Inventory{ID: id}
	err := s.db.QueryRowContext(ctx,
		`SELECT name, owner, created_at FROM inventories WHERE id = ?`, id).
		Scan(&inv.Name, &inv.Owner, &inv.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrInventoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory: %w", err)
	}

	members, membersArray, err := s.loadMembers(ctx, id)
	if err != nil {
		return nil, err
	}
	inv.Members = members
	inv.MembersArray = membersArray
	return inv, nil
}

func (s *SQLiteStore) loadMembers(ctx context.Context, inventoryID string) (map[string]string, []string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, role FROM inventory_members WHERE inventory_id = ? ORDER BY user_id`,
		inventoryID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load members: %w", err)
	}
	defer rows.Close()

	members := make(map[string]string)
	membersArray := make([]string, 0)
	for rows.Next() {
		var uid, role string
		if err := rows.Scan(&uid, &role); err != nil {
			return nil, nil, err
		}
		members[uid] = role
		membersArray = append(membersArray, uid)
	}
	return members, membersArray, rows.Err()
}

// ListByMember returns every inventory uid belongs to.
func (s *SQLiteStore) ListByMember(ctx context.Context, uid string) ([]*model.Inventory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT i.id, i.name, i.owner, i.created_at
		FROM inventories i
		JOIN inventory_members m ON m.inventory_id = i.id
		WHERE m.user_id = ?
		ORDER BY i.created_at`, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventories: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	result := make([]*model.Inventory, 0)
	for rows.Next() {
		inv := &model.Inventory{}
		if err := rows.Scan(&inv.ID, &inv.Name, &inv.Owner, &inv.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, inv)
		ids = append(ids, inv.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, id := range ids {
		members, membersArray, err := s.loadMembers(ctx, id)
		if err != nil {
			return nil, err
		}
		result[i].Members = members
		result[i].MembersArray = membersArray
	}
	return result, nil
}

// Rename updates the display name.
func (s *SQLiteStore) Rename(ctx context.Context, id, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE inventories SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return fmt.Errorf("failed to rename inventory: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrInventoryNotFound
	}
	return nil
}

// AddMember unions uid into the membership. A second add of the same member
// is swallowed by INSERT OR IGNORE.
func (s *SQLiteStore) AddMember(ctx context.Context, id, uid, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM inventories WHERE id = ?`, id).Scan(&exists)
	if err == sql.ErrNoRows {
		return ErrInventoryNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check inventory: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO inventory_members (inventory_id, user_id, role) VALUES (?, ?, ?)`,
		id, uid, role)
	if err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}
	return nil
}
