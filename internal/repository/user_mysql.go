package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"wastenot-api/internal/model"

	"github.com/go-sql-driver/mysql"
)

// MySQLUserRepository implements UserRepository on a shared MySQL users
// table, for deployments where accounts live alongside other relational
// data. The document-store user repository is the default.
type MySQLUserRepository struct {
	db *sql.DB
}

// NewMySQLUserRepository wraps an existing MySQL connection and ensures the
// users table exists.
func NewMySQLUserRepository(db *sql.DB) (*MySQLUserRepository, error) {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id VARCHAR(64) PRIMARY KEY,
		username VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		fcm_token VARCHAR(512) NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL
	)`
	if _, err := db.Exec(query); err != nil {
		return nil, fmt.Errorf("failed to create users table: %w", err)
	}

	log.Printf("[MySQLUserRepository] Initialized")
	return &MySQLUserRepository{db: db}, nil
}

// CreateUser persists a profile at registration.
func (r *MySQLUserRepository) CreateUser(ctx context.Context, u *model.UserProfile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, username, email, fcm_token, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.Email, u.FCMToken, u.CreatedAt)
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return ErrDuplicateEmail
	}
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetUser fetches a profile by identity.
func (r *MySQLUserRepository) GetUser(ctx context.Context, id string) (*model.UserProfile, error) {
	u := &model.UserProfile{ID: id}
	err := r.db.QueryRowContext(ctx,
		`SELECT username, email, fcm_token, created_at FROM users WHERE id = ?`, id).
		Scan(&u.Username, &u.Email, &u.FCMToken, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// GetUserByEmail resolves the email key to a profile.
func (r *MySQLUserRepository) GetUserByEmail(ctx context.Context, email string) (*model.UserProfile, error) {
	u := &model.UserProfile{Email: email}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, fcm_token, created_at FROM users WHERE email = ?`, email).
		Scan(&u.ID, &u.Username, &u.FCMToken, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return u, nil
}

// UpdateUser updates the mutable profile fields.
func (r *MySQLUserRepository) UpdateUser(ctx context.Context, id string, username, fcmToken *string) error {
	set := ""
	args := []interface{}{}
	if username != nil {
		set = "username = ?"
		args = append(args, *username)
	}
	if fcmToken != nil {
		if set != "" {
			set += ", "
		}
		set += "fcm_token = ?"
		args = append(args, *fcmToken)
	}
	if set == "" {
		return nil
	}

	args = append(args, id)
	res, err := r.db.ExecContext(ctx, `UPDATE users SET `+set+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Ensure MySQLUserRepository implements UserRepository
var _ UserRepository = (*MySQLUserRepository)(nil)
