package repository

import (
	"context"
	"database/sql"
	"fmt"

	"wastenot-api/internal/model"
)

// CreateUser persists a profile at registration.
func (s *SQLiteStore) CreateUser(ctx context.Context, u *model.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, username, email, fcm_token, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.Email, u.FCMToken, u.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetUser fetches a profile by identity.
func (s *SQLiteStore) GetUser(ctx context.Context, id string) (*model.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u := &model.UserProfile{ID: id}
	err := s.db.QueryRowContext(ctx,
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
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*model.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u := &model.UserProfile{Email: email}
	err := s.db.QueryRowContext(ctx,
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
func (s *SQLiteStore) UpdateUser(ctx context.Context, id string, username, fcmToken *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

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
	res, err := s.db.ExecContext(ctx, `UPDATE users SET `+set+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}
