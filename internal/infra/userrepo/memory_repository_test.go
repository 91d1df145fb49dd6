package userrepo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/aqi-advisor/internal/domain/auth"
)

func TestMemoryRepository_CreateAndLookup(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, auth.User{Phone: "+13035550100", PasswordHash: "hash", City: "Denver", HasAsthma: true})
	require.NoError(t, err)
	require.Equal(t, int64(1), created.ID)
	require.False(t, created.CreatedAt.IsZero())

	byPhone, found, err := repo.GetByPhone(ctx, "+13035550100")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, created.ID, byPhone.ID)

	byID, found, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "Denver", byID.City)

	_, found, err = repo.GetByPhone(ctx, "+19995550100")
	require.NoError(t, err)
	require.False(t, found)
}

func TestMemoryRepository_DuplicatePhone(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	_, err := repo.Create(ctx, auth.User{Phone: "+13035550100"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, auth.User{Phone: "+13035550100"})
	require.ErrorIs(t, err, auth.ErrPhoneExists)
}

func TestMemoryRepository_UpdateHealthFields(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, auth.User{Phone: "+13035550100", City: "Denver"})
	require.NoError(t, err)

	updated, err := repo.UpdateHealthFields(ctx, created.ID, auth.HealthFields{
		City:       "Boulder",
		State:      "CO",
		Country:    "USA",
		BirthMonth: 6,
		BirthYear:  1990,
		HasCopd:    true,
	})
	require.NoError(t, err)
	require.Equal(t, "Boulder", updated.City)
	require.True(t, updated.HasCopd)
	require.Equal(t, "+13035550100", updated.Phone)

	stored, found, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, updated, stored)
}
