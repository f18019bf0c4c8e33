package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"wastenot-api/internal/model"
)

// CreateItem persists a new item record.
func (s *SQLiteStore) CreateItem(ctx context.Context, item *model.InventoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO inventory_items (
			id, inventory_id, barcode, item_name, quantity, last_updated,
			product_description, image_url, ingredients, nutrition_facts,
			brand, title, category, reminder_date, created_by, last_updated_by
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.InventoryID, item.Barcode, item.ItemName, item.Quantity,
		item.LastUpdated, item.ProductDescription, item.ImageURL, item.Ingredients,
		item.NutritionFacts, item.Brand, item.Title, item.Category,
		item.ReminderDate, item.CreatedBy, item.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}
	return nil
}

const itemColumns = `id, inventory_id, barcode, item_name, quantity, last_updated,
	product_description, image_url, ingredients, nutrition_facts,
	brand, title, category, reminder_date, created_by, last_updated_by`

func scanItem(row interface{ Scan(...interface{}) error }) (*model.InventoryItem, error) {
	item := &model.InventoryItem{}
	var reminder sql.NullTime
	err := row.Scan(
		&item.ID, &item.InventoryID, &item.Barcode, &item.ItemName, &item.Quantity,
		&item.LastUpdated, &item.ProductDescription, &item.ImageURL, &item.Ingredients,
		&item.NutritionFacts, &item.Brand, &item.Title, &item.Category,
		&reminder, &item.CreatedBy, &item.LastUpdatedBy)
	if err != nil {
		return nil, err
	}
	if reminder.Valid {
		t := reminder.Time
		item.ReminderDate = &t
	}
	return item, nil
}

// GetItem fetches one item scoped to an inventory.
func (s *SQLiteStore) GetItem(ctx context.Context, inventoryID, itemID string) (*model.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM inventory_items WHERE id = ? AND inventory_id = ?`,
		itemID, inventoryID)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return item, nil
}

// UpdateItem applies a partial update. Only fields present in the patch are
// written; the modification stamp is always written.
func (s *SQLiteStore) UpdateItem(ctx context.Context, inventoryID, itemID string, patch *model.ItemPatch, updatedBy string, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := "last_updated = ?, last_updated_by = ?"
	args := []interface{}{updatedAt, updatedBy}

	if patch.ItemName != nil {
		set += ", item_name = ?"
		args = append(args, *patch.ItemName)
	}
	if patch.Quantity != nil {
		set += ", quantity = ?"
		args = append(args, *patch.Quantity)
	}
	if patch.ProductDescription != nil {
		set += ", product_description = ?"
		args = append(args, *patch.ProductDescription)
	}
	if patch.Category != nil {
		set += ", category = ?"
		args = append(args, *patch.Category)
	}
	if patch.ClearReminder {
		set += ", reminder_date = NULL"
	} else if patch.ReminderDate != nil {
		set += ", reminder_date = ?"
		args = append(args, *patch.ReminderDate)
	}

	args = append(args, itemID, inventoryID)
	res, err := s.db.ExecContext(ctx,
		`UPDATE inventory_items SET `+set+` WHERE id = ? AND inventory_id = ?`, args...)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrItemNotFound
	}
	return nil
}

// DeleteItem removes one item.
func (s *SQLiteStore) DeleteItem(ctx context.Context, inventoryID, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM inventory_items WHERE id = ? AND inventory_id = ?`, itemID, inventoryID)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrItemNotFound
	}
	return nil
}

// ListItems returns the full item snapshot for an inventory.
func (s *SQLiteStore) ListItems(ctx context.Context, inventoryID string) ([]*model.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM inventory_items WHERE inventory_id = ? ORDER BY last_updated DESC`,
		inventoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	items := make([]*model.InventoryItem, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ListExpiringBetween returns items with a reminder date inside [start, end].
func (s *SQLiteStore) ListExpiringBetween(ctx context.Context, start, end time.Time) ([]*model.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM inventory_items
		 WHERE reminder_date IS NOT NULL AND reminder_date >= ? AND reminder_date <= ?
		 ORDER BY reminder_date`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list expiring items: %w", err)
	}
	defer rows.Close()

	items := make([]*model.InventoryItem, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
