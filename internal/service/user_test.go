package service

import (
	"context"
	"testing"

	"wastenot-api/internal/model"
	"wastenot-api/internal/repository"
	"wastenot-api/pkg/apierror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_NormalizesEmail(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewUserService(store)
	ctx := context.Background()

	profile, err := svc.Register(ctx, "  Alice ", " Alice@Example.COM ")
	require.NoError(t, err)

	assert.Equal(t, "Alice", profile.Username)
	assert.Equal(t, "alice@example.com", profile.Email)
	assert.NotEmpty(t, profile.ID)

	found, err := svc.GetProfileByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, profile.ID, found.ID)
}

func TestRegister_DuplicateEmailRejected(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewUserService(store)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Alice", "alice@example.com")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Imposter", "alice@example.com")
	require.Error(t, err)

	apiErr, ok := err.(*apierror.Error)
	require.True(t, ok)
	assert.Equal(t, "CONFLICT", apiErr.Code)
}

// racingUserRepo simulates a concurrent registration landing between the
// email pre-check and the insert: the check misses, the insert hits the
// unique constraint.
type racingUserRepo struct {
	*repository.MemoryStore
}

func (r *racingUserRepo) GetUserByEmail(ctx context.Context, email string) (*model.UserProfile, error) {
	return nil, repository.ErrUserNotFound
}

func (r *racingUserRepo) CreateUser(ctx context.Context, u *model.UserProfile) error {
	return repository.ErrDuplicateEmail
}

func TestRegister_ConcurrentDuplicateIsConflict(t *testing.T) {
	svc := NewUserService(&racingUserRepo{repository.NewMemoryStore()})

	_, err := svc.Register(context.Background(), "Alice", "alice@example.com")
	require.Error(t, err)

	apiErr, ok := err.(*apierror.Error)
	require.True(t, ok)
	assert.Equal(t, "CONFLICT", apiErr.Code)
}

func TestGetProfileByEmail_UnknownIsLookupFailure(t *testing.T) {
	svc := NewUserService(repository.NewMemoryStore())

	_, err := svc.GetProfileByEmail(context.Background(), "ghost@example.com")
	require.Error(t, err)

	apiErr, ok := err.(*apierror.Error)
	require.True(t, ok)
	assert.Equal(t, "LOOKUP_FAILED", apiErr.Code)
}

func TestUpdateProfile_PartialUpdate(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewUserService(store)
	ctx := context.Background()

	profile, err := svc.Register(ctx, "Alice", "alice@example.com")
	require.NoError(t, err)

	token := "fcm-token-1"
	require.NoError(t, svc.UpdateProfile(ctx, profile.ID, nil, &token))

	updated, err := svc.GetProfile(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", updated.Username)
	assert.Equal(t, "fcm-token-1", updated.FCMToken)

	name := "Alicia"
	require.NoError(t, svc.UpdateProfile(ctx, profile.ID, &name, nil))

	updated, err = svc.GetProfile(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alicia", updated.Username)
	assert.Equal(t, "fcm-token-1", updated.FCMToken)
}

func TestUpdateProfile_UnknownUser(t *testing.T) {
	svc := NewUserService(repository.NewMemoryStore())

	name := "Ghost"
	err := svc.UpdateProfile(context.Background(), "ghost", &name, nil)
	require.Error(t, err)

	apiErr, ok := err.(*apierror.Error)
	require.True(t, ok)
	assert.Equal(t, "NOT_FOUND", apiErr.Code)
}
