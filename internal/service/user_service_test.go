package service

import (
	"context"
	"testing"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	ann, err := f.users.Create(ctx, models.UserCreate{Name: "Ann", Email: "ann@example.com"})
	require.NoError(t, err)
	bob, err := f.users.Create(ctx, models.UserCreate{Name: "Bob", Email: "bob@example.com"})
	require.NoError(t, err)

	t.Run("InvalidEmail", func(t *testing.T) {
		_, err := f.users.Create(ctx, models.UserCreate{Name: "Eve", Email: "eve"})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		_, err := f.users.Create(ctx, models.UserCreate{Name: "Ann 2", Email: "ann@example.com"})
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("GetAndList", func(t *testing.T) {
		got, err := f.users.Get(ctx, ann.ID)
		require.NoError(t, err)
		assert.Equal(t, *ann, *got)

		all, err := f.users.List(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)

		_, err = f.users.Get(ctx, 999)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("PartialUpdate", func(t *testing.T) {
		got, err := f.users.Update(ctx, bob.ID, models.UserUpdate{Name: ptr("Robert")})
		require.NoError(t, err)
		assert.Equal(t, "Robert", got.Name)
		assert.Equal(t, "bob@example.com", got.Email)

		got, err = f.users.Update(ctx, bob.ID, models.UserUpdate{Email: ptr("robert@example.com")})
		require.NoError(t, err)
		assert.Equal(t, "Robert", got.Name)
		assert.Equal(t, "robert@example.com", got.Email)
	})

	t.Run("UpdateConflicts", func(t *testing.T) {
		_, err := f.users.Update(ctx, bob.ID, models.UserUpdate{Email: ptr("ann@example.com")})
		assert.ErrorIs(t, err, domain.ErrConflict)

		_, err = f.users.Update(ctx, 999, models.UserUpdate{Name: ptr("Nobody")})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, f.users.Delete(ctx, bob.ID))
		_, err := f.users.Get(ctx, bob.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.ErrorIs(t, f.users.Delete(ctx, bob.ID), domain.ErrNotFound)
	})

	t.Run("DeleteOwner", func(t *testing.T) {
		f.item(t, ann.ID, "Drill", true)
		assert.ErrorIs(t, f.users.Delete(ctx, ann.ID), domain.ErrConflict)
	})
}
