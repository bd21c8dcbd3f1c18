package domain

import (
	"context"
	"time"

	"shareit/internal/models"
)

// Store is the persistence port. Lookups of a missing row return an error
// matching ErrNotFound.
type Store interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id int64) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, u *models.User) error
	DeleteUser(ctx context.Context, id int64) error

	CreateItem(ctx context.Context, it *models.Item) error
	GetItem(ctx context.Context, id int64) (*models.Item, error)
	UpdateItem(ctx context.Context, it *models.Item) error
	ListItemsByOwner(ctx context.Context, ownerID int64, page models.Page) ([]models.Item, error)
	ListItemsByRequest(ctx context.Context, requestID int64) ([]models.Item, error)
	SearchItems(ctx context.Context, text string, page models.Page) ([]models.Item, error)

	CreateBooking(ctx context.Context, b *models.Booking) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	DecideBooking(ctx context.Context, id int64, status models.BookingStatus) error
	ListBookings(ctx context.Context, q models.BookingQuery) ([]models.Booking, error)
	ListItemBookings(ctx context.Context, itemID int64) ([]models.Booking, error)
	HasFinishedBooking(ctx context.Context, bookerID, itemID int64, now time.Time) (bool, error)

	CreateComment(ctx context.Context, c *models.Comment) error
	ListItemComments(ctx context.Context, itemID int64) ([]models.Comment, error)

	CreateRequest(ctx context.Context, r *models.ItemRequest) error
	GetRequest(ctx context.Context, id int64) (*models.ItemRequest, error)
	ListRequestsByRequester(ctx context.Context, requesterID int64) ([]models.ItemRequest, error)
	ListRequestsExcept(ctx context.Context, requesterID int64, page models.Page) ([]models.ItemRequest, error)
}

// TxRunner runs fn against a Store bound to a single transaction. The
// transaction commits when fn returns nil.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(Store) error) error
}

// Repository is the full storage dependency of the services.
type Repository interface {
	Store
	TxRunner
}

type EventPublisher interface {
	PublishJSON(eventType string, payload any) error
}

// RateLimiter decides whether one more request under key is allowed.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
