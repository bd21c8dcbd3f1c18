package database

import (
	"context"
	"testing"
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itemNames(items []models.Item) []string {
	names := make([]string, 0, len(items))
	for _, it := range items {
		names = append(names, it.Name)
	}
	return names
}

func TestItems(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createUser(t, db, "Owner", "owner@example.com")
	other := createUser(t, db, "Other", "other@example.com")

	drill := createItem(t, db, owner.ID, "Drill", "Cordless DRILL with battery", true)
	saw := createItem(t, db, owner.ID, "Saw", "Hand saw", false)
	ladder := createItem(t, db, other.ID, "Ladder", "Aluminium, 100% sturdy", true)

	t.Run("Get", func(t *testing.T) {
		it, err := db.GetItem(ctx, drill.ID)
		require.NoError(t, err)
		assert.Equal(t, *drill, *it)
		assert.Nil(t, it.RequestID)

		_, err = db.GetItem(ctx, 999)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Update", func(t *testing.T) {
		upd := *saw
		upd.Description = "Sharp hand saw"
		upd.Available = true
		require.NoError(t, db.UpdateItem(ctx, &upd))

		it, err := db.GetItem(ctx, saw.ID)
		require.NoError(t, err)
		assert.Equal(t, "Sharp hand saw", it.Description)
		assert.True(t, it.Available)

		upd.Available = false
		require.NoError(t, db.UpdateItem(ctx, &upd))

		assert.ErrorIs(t, db.UpdateItem(ctx, &models.Item{ID: 999}), domain.ErrNotFound)
	})

	t.Run("ListByOwner", func(t *testing.T) {
		items, err := db.ListItemsByOwner(ctx, owner.ID, models.Page{From: 0, Size: 10})
		require.NoError(t, err)
		assert.Equal(t, []string{"Drill", "Saw"}, itemNames(items))

		items, err = db.ListItemsByOwner(ctx, owner.ID, models.Page{From: 1, Size: 1})
		require.NoError(t, err)
		assert.Equal(t, []string{"Saw"}, itemNames(items))

		items, err = db.ListItemsByOwner(ctx, 999, models.Page{Size: 10})
		require.NoError(t, err)
		assert.Empty(t, items)
		assert.NotNil(t, items)
	})

	t.Run("Search", func(t *testing.T) {
		tests := []struct {
			text string
			want []string
		}{
			{text: "drill", want: []string{"Drill"}},
			{text: "BATTERY", want: []string{"Drill"}},
			{text: "saw", want: []string{}},
			{text: "a", want: []string{"Drill", "Ladder"}},
			{text: "100%", want: []string{"Ladder"}},
			{text: "%", want: []string{"Ladder"}},
			{text: "_", want: []string{}},
		}
		for _, tt := range tests {
			t.Run(tt.text, func(t *testing.T) {
				items, err := db.SearchItems(ctx, tt.text, models.Page{Size: 10})
				require.NoError(t, err)
				assert.Equal(t, tt.want, itemNames(items))
			})
		}

		items, err := db.SearchItems(ctx, "a", models.Page{From: 1, Size: 1})
		require.NoError(t, err)
		assert.Equal(t, []string{"Ladder"}, itemNames(items))
	})

	t.Run("SearchUnicode", func(t *testing.T) {
		drill := &models.Item{Name: "Дрель", Description: "Аккумуляторная", Available: true, OwnerID: owner.ID}
		require.NoError(t, db.CreateItem(ctx, drill))

		for _, text := range []string{"дрель", "Дрель", "ДРЕЛЬ", "аккумулятор"} {
			items, err := db.SearchItems(ctx, text, models.Page{Size: 10})
			require.NoError(t, err)
			assert.Equal(t, []string{"Дрель"}, itemNames(items), text)
		}
	})

	t.Run("ByRequest", func(t *testing.T) {
		req := &models.ItemRequest{Description: "need a tent", RequesterID: other.ID, Created: time.Now()}
		require.NoError(t, db.CreateRequest(ctx, req))

		tent := &models.Item{Name: "Tent", Description: "Two person tent", Available: true, OwnerID: owner.ID, RequestID: &req.ID}
		require.NoError(t, db.CreateItem(ctx, tent))

		items, err := db.ListItemsByRequest(ctx, req.ID)
		require.NoError(t, err)
		require.Len(t, items, 1)
		require.NotNil(t, items[0].RequestID)
		assert.Equal(t, req.ID, *items[0].RequestID)
	})

	t.Run("MissingOwner", func(t *testing.T) {
		err := db.CreateItem(ctx, &models.Item{Name: "x", Description: "y", OwnerID: 999})
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	_ = ladder
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, escapeLike("100%"))
	assert.Equal(t, `a\_b`, escapeLike("a_b"))
	assert.Equal(t, `c:\\dir`, escapeLike(`c:\dir`))
}
