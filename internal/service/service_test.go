package service

import (
	"context"
	"testing"
	"time"

	"shareit/internal/config"
	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2030, 5, 10, 12, 0, 0, 0, time.UTC)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishJSON(eventType string, payload any) error {
	return m.Called(eventType, payload).Error(0)
}

type fixture struct {
	db       *database.DB
	users    *UserService
	items    *ItemService
	bookings *BookingService
	requests *RequestService
	pub      *mockPublisher
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zerolog.Nop()
	db, err := database.NewDB(config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"}, &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	pub := &mockPublisher{}
	pub.On("PublishJSON", mock.Anything, mock.Anything).Return(nil).Maybe()

	f := &fixture{
		db:       db,
		users:    NewUserService(db, &logger),
		items:    NewItemService(db, pub, &logger),
		bookings: NewBookingService(db, pub, &logger),
		requests: NewRequestService(db, &logger),
		pub:      pub,
	}
	f.setClock(baseTime)
	return f
}

func (f *fixture) setClock(now time.Time) {
	clock := func() time.Time { return now }
	f.items.now = clock
	f.bookings.now = clock
	f.requests.now = clock
}

func (f *fixture) user(t *testing.T, name string) *models.User {
	t.Helper()
	u, err := f.users.Create(context.Background(), models.UserCreate{Name: name, Email: name + "@example.com"})
	require.NoError(t, err)
	return u
}

func (f *fixture) item(t *testing.T, ownerID int64, name string, available bool) *models.Item {
	t.Helper()
	it, err := f.items.Create(context.Background(), ownerID, models.ItemCreate{
		Name:        name,
		Description: name + " for rent",
		Available:   &available,
	})
	require.NoError(t, err)
	return it
}

func (f *fixture) booking(t *testing.T, bookerID, itemID int64, start, end time.Time) *models.Booking {
	t.Helper()
	b, err := f.bookings.Create(context.Background(), bookerID, models.BookingCreate{ItemID: &itemID, Start: &start, End: &end})
	require.NoError(t, err)
	return b
}

func ptr[T any](v T) *T { return &v }

// storeStub lets a test override single storage calls; anything not
// overridden panics through the nil embedded interface.
type storeStub struct {
	domain.Repository
	mock.Mock
}

func (s *storeStub) GetUser(ctx context.Context, id int64) (*models.User, error) {
	args := s.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (s *storeStub) ListBookings(ctx context.Context, q models.BookingQuery) ([]models.Booking, error) {
	args := s.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Booking), args.Error(1)
}
