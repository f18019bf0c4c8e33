package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"sync"

	_ "modernc.org/sqlite" // Pure Go SQLite driver - no CGO required
)

// SQLiteStore implements all repositories on a single SQLite database.
// Thread-safe with WAL mode for high-concurrency reads.
//
// Membership is kept as one authoritative inventory_members table; the role
// mapping and the flattened member list are both derived from it, so the two
// representations cannot drift. Duplicate pending invitations are rejected by
// a partial unique index rather than a client-side check.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore opens (or creates) the SQLite database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite: %w", err)
	}

	// SQLite only supports 1 writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	log.Printf("[SQLiteStore] Initialized with database: %s", dbPath)
	return &SQLiteStore{db: db}, nil
}

// createTables creates the schema.
func createTables(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS inventories (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		owner TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);
	CREATE TABLE IF NOT EXISTS inventory_members (
		inventory_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		role TEXT NOT NULL,
		PRIMARY KEY (inventory_id, user_id)
	);
	CREATE INDEX IF NOT EXISTS idx_members_user ON inventory_members(user_id);
	CREATE TABLE IF NOT EXISTS inventory_items (
		id TEXT PRIMARY KEY,
		inventory_id TEXT NOT NULL,
		barcode TEXT NOT NULL DEFAULT '',
		item_name TEXT NOT NULL,
		quantity INTEGER NOT NULL DEFAULT 0,
		last_updated DATETIME NOT NULL,
		product_description TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL DEFAULT '',
		ingredients TEXT NOT NULL DEFAULT '',
		nutrition_facts TEXT NOT NULL DEFAULT '',
		brand TEXT NOT NULL DEFAULT '',
		title TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		reminder_date DATETIME,
		created_by TEXT NOT NULL,
		last_updated_by TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_items_inventory ON inventory_items(inventory_id);
	CREATE INDEX IF NOT EXISTS idx_items_reminder ON inventory_items(reminder_date);
	CREATE TABLE IF NOT EXISTS invitations (
		id TEXT PRIMARY KEY,
		from_user TEXT NOT NULL,
		to_user TEXT NOT NULL,
		inventory_id TEXT NOT NULL,
		inventory_name TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_invitations_invitee ON invitations(to_user, status);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_invitations_pending
		ON invitations(from_user, to_user, inventory_id) WHERE status = 'pending';
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		fcm_token TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL
	);
	`
	_, err := db.Exec(query)
	return err
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Stats returns statistics about the store.
func (s *SQLiteStore) Stats(ctx context.Context) (map[string]interface{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{"backend": "sqlite"}

	counts := map[string]string{
		"inventories": "SELECT COUNT(*) FROM inventories",
		"items":       "SELECT COUNT(*) FROM inventory_items",
		"invitations": "SELECT COUNT(*) FROM invitations",
		"users":       "SELECT COUNT(*) FROM users",
	}
	for name, query := range counts {
		var n int64
		if err := s.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
			return nil, err
		}
		stats["total_"+name] = n
	}

	var pending int64
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM invitations WHERE status = 'pending'").Scan(&pending); err == nil {
		stats["pending_invitations"] = pending
	}

	return stats, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ensure SQLiteStore implements the repository interfaces
var (
	_ InventoryRepository  = (*SQLiteStore)(nil)
	_ ItemRepository       = (*SQLiteStore)(nil)
	_ InvitationRepository = (*SQLiteStore)(nil)
	_ UserRepository       = (*SQLiteStore)(nil)
	_ StatsProvider        = (*SQLiteStore)(nil)
)
