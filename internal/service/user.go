package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wastenot-api/internal/model"
	"wastenot-api/internal/repository"
	"wastenot-api/pkg/apierror"
	"wastenot-api/pkg/uid"
)

// UserService handles user-profile reads and writes. Credential checking is
// the identity provider's job; this service only owns the profile record.
type UserService struct {
	users repository.UserRepository
}

// NewUserService creates a new user service.
func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// Register creates the profile record for a new account.
func (s *UserService) Register(ctx context.Context, username, email string) (*model.UserProfile, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" || email == "" {
		return nil, apierror.BadRequest("username and email are required")
	}

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, apierror.Conflict("Email already registered")
	} else if err != repository.ErrUserNotFound {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	profile := &model.UserProfile{
		ID:        uid.New(),
		Username:  username,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}
	// The unique email constraint closes the race between the check above
	// and a concurrent registration for the same address.
	if err := s.users.CreateUser(ctx, profile); err == repository.ErrDuplicateEmail {
		return nil, apierror.Conflict("Email already registered")
	} else if err != nil {
		return nil, apierror.StoreWriteFailed("Could not create profile")
	}
	return profile, nil
}

// GetProfile fetches a profile by identity.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*model.UserProfile, error) {
	if userID == "" {
		return nil, apierror.NotAuthenticated("")
	}
	profile, err := s.users.GetUser(ctx, userID)
	if err == repository.ErrUserNotFound {
		return nil, apierror.NotFound("User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

// GetProfileByEmail resolves the email lookup key to a profile.
func (s *UserService) GetProfileByEmail(ctx context.Context, email string) (*model.UserProfile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	profile, err := s.users.GetUserByEmail(ctx, email)
	if err == repository.ErrUserNotFound {
		return nil, apierror.LookupFailed("")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile by email: %w", err)
	}
	return profile, nil
}

// UpdateProfile updates the mutable profile fields. Nil fields are kept.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, username, fcmToken *string) error {
	if userID == "" {
		return apierror.NotAuthenticated("")
	}
	err := s.users.UpdateUser(ctx, userID, username, fcmToken)
	if err == repository.ErrUserNotFound {
		return apierror.NotFound("User not found")
	}
	if err != nil {
		return apierror.StoreWriteFailed("Could not update profile")
	}
	return nil
}
