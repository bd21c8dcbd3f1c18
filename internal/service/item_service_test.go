package service

import (
	"context"
	"testing"
	"time"

	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestItemService_CreateAndUpdate(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	owner := f.user(t, "owner")
	other := f.user(t, "other")

	t.Run("Validation", func(t *testing.T) {
		_, err := f.items.Create(ctx, owner.ID, models.ItemCreate{Name: "Drill", Description: "Cordless"})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("UnknownOwner", func(t *testing.T) {
		_, err := f.items.Create(ctx, 999, models.ItemCreate{Name: "Drill", Description: "Cordless", Available: ptr(true)})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("UnknownRequest", func(t *testing.T) {
		_, err := f.items.Create(ctx, owner.ID, models.ItemCreate{
			Name: "Drill", Description: "Cordless", Available: ptr(true), RequestID: ptr(int64(42)),
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	drill := f.item(t, owner.ID, "Drill", true)

	t.Run("PartialUpdate", func(t *testing.T) {
		got, err := f.items.Update(ctx, owner.ID, drill.ID, models.ItemUpdate{Available: ptr(false)})
		require.NoError(t, err)
		assert.Equal(t, "Drill", got.Name)
		assert.Equal(t, "Drill for rent", got.Description)
		assert.False(t, got.Available)

		got, err = f.items.Update(ctx, owner.ID, drill.ID, models.ItemUpdate{Name: ptr("Hammer drill")})
		require.NoError(t, err)
		assert.Equal(t, "Hammer drill", got.Name)
		assert.False(t, got.Available)
	})

	t.Run("NotOwner", func(t *testing.T) {
		_, err := f.items.Update(ctx, other.ID, drill.ID, models.ItemUpdate{Name: ptr("Mine now")})
		assert.ErrorIs(t, err, domain.ErrAccessDenied)
	})

	t.Run("UnknownItem", func(t *testing.T) {
		_, err := f.items.Update(ctx, owner.ID, 999, models.ItemUpdate{Name: ptr("x")})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("BlankName", func(t *testing.T) {
		_, err := f.items.Update(ctx, owner.ID, drill.ID, models.ItemUpdate{Name: ptr(" ")})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestItemService_GetWithBookings(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	owner := f.user(t, "owner")
	booker := f.user(t, "booker")
	drill := f.item(t, owner.ID, "Drill", true)

	earlier := f.booking(t, booker.ID, drill.ID, baseTime.Add(time.Hour), baseTime.Add(2*time.Hour))
	later := f.booking(t, booker.ID, drill.ID, baseTime.Add(5*time.Hour), baseTime.Add(6*time.Hour))
	waiting := f.booking(t, booker.ID, drill.ID, baseTime.Add(4*time.Hour), baseTime.Add(5*time.Hour))
	for _, b := range []*models.Booking{earlier, later} {
		_, err := f.bookings.Approve(ctx, owner.ID, b.ID, true)
		require.NoError(t, err)
	}

	f.setClock(baseTime.Add(3 * time.Hour))

	t.Run("Owner", func(t *testing.T) {
		d, err := f.items.Get(ctx, owner.ID, drill.ID)
		require.NoError(t, err)
		require.NotNil(t, d.LastBooking)
		require.NotNil(t, d.NextBooking)
		assert.Equal(t, earlier.ID, d.LastBooking.ID)
		assert.Equal(t, booker.ID, d.LastBooking.BookerID)
		assert.Equal(t, later.ID, d.NextBooking.ID, "waiting booking %d must be skipped", waiting.ID)
		assert.NotNil(t, d.Comments)
	})

	t.Run("NonOwner", func(t *testing.T) {
		d, err := f.items.Get(ctx, booker.ID, drill.ID)
		require.NoError(t, err)
		assert.Nil(t, d.LastBooking)
		assert.Nil(t, d.NextBooking)
	})

	t.Run("ListOwned", func(t *testing.T) {
		f.item(t, owner.ID, "Saw", true)

		list, err := f.items.ListOwned(ctx, owner.ID, models.Page{Size: 10})
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "Drill", list[0].Name)
		assert.NotNil(t, list[0].LastBooking)
		assert.Equal(t, "Saw", list[1].Name)
		assert.Nil(t, list[1].LastBooking)

		list, err = f.items.ListOwned(ctx, owner.ID, models.Page{From: 1, Size: 1})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Saw", list[0].Name)
	})

	t.Run("Unknown", func(t *testing.T) {
		_, err := f.items.Get(ctx, owner.ID, 999)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		_, err = f.items.Get(ctx, 999, drill.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestItemService_Search(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	owner := f.user(t, "owner")
	f.item(t, owner.ID, "Drill", true)
	f.item(t, owner.ID, "Old drill", false)

	got, err := f.items.Search(ctx, "DRILL", models.Page{Size: 10})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Drill", got[0].Name)

	f.item(t, owner.ID, "Дрель", true)
	for _, text := range []string{"дрель", "Дрель", "ДРЕЛЬ"} {
		got, err = f.items.Search(ctx, text, models.Page{Size: 10})
		require.NoError(t, err)
		require.Len(t, got, 1, text)
		assert.Equal(t, "Дрель", got[0].Name)
	}

	got, err = f.items.Search(ctx, "   ", models.Page{Size: 10})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestItemService_AddComment(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	owner := f.user(t, "owner")
	booker := f.user(t, "booker")
	stranger := f.user(t, "stranger")
	drill := f.item(t, owner.ID, "Drill", true)

	b := f.booking(t, booker.ID, drill.ID, baseTime.Add(time.Hour), baseTime.Add(2*time.Hour))
	in := models.CommentCreate{Text: "Works great"}

	t.Run("BeforeApproval", func(t *testing.T) {
		f.setClock(baseTime.Add(3 * time.Hour))
		_, err := f.items.AddComment(ctx, booker.ID, drill.ID, in)
		assert.ErrorIs(t, err, domain.ErrItemUnavailable)
	})

	f.setClock(baseTime)
	_, err := f.bookings.Approve(ctx, owner.ID, b.ID, true)
	require.NoError(t, err)

	t.Run("BookingNotFinished", func(t *testing.T) {
		f.setClock(baseTime.Add(90 * time.Minute))
		_, err := f.items.AddComment(ctx, booker.ID, drill.ID, in)
		assert.ErrorIs(t, err, domain.ErrItemUnavailable)
	})

	t.Run("NeverBooked", func(t *testing.T) {
		f.setClock(baseTime.Add(3 * time.Hour))
		_, err := f.items.AddComment(ctx, stranger.ID, drill.ID, in)
		assert.ErrorIs(t, err, domain.ErrItemUnavailable)
	})

	t.Run("BlankText", func(t *testing.T) {
		_, err := f.items.AddComment(ctx, booker.ID, drill.ID, models.CommentCreate{Text: "  "})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("Success", func(t *testing.T) {
		now := baseTime.Add(3 * time.Hour)
		f.setClock(now)

		c, err := f.items.AddComment(ctx, booker.ID, drill.ID, in)
		require.NoError(t, err)
		assert.Equal(t, "Works great", c.Text)
		assert.Equal(t, "booker", c.AuthorName)
		assert.True(t, now.Equal(c.Created))
		f.pub.AssertCalled(t, "PublishJSON", events.EventCommentAdded, mock.Anything)

		d, err := f.items.Get(ctx, stranger.ID, drill.ID)
		require.NoError(t, err)
		require.Len(t, d.Comments, 1)
		assert.Equal(t, c.ID, d.Comments[0].ID)
		assert.Equal(t, "booker", d.Comments[0].AuthorName)
	})

	t.Run("UnknownItem", func(t *testing.T) {
		_, err := f.items.AddComment(ctx, booker.ID, 999, in)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
