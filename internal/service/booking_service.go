package service

import (
	"context"
	"time"

	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
)

type BookingService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
	now      func() time.Time
}

func NewBookingService(repo domain.Repository, eventBus domain.EventPublisher, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
		now:      time.Now,
	}
}

// Create places a WAITING booking of someone else's available item.
func (s *BookingService) Create(ctx context.Context, requesterID int64, in models.BookingCreate) (_ *models.Booking, err error) {
	ctx, span := startSpan(ctx, "BookingService.Create", attribute.Int64("user.id", requesterID))
	defer func() { endSpan(span, err) }()

	if err := in.Validate(s.now()); err != nil {
		return nil, domain.Invalid(err)
	}

	var booking models.Booking
	err = s.repo.WithTx(ctx, func(st domain.Store) error {
		booker, err := st.GetUser(ctx, requesterID)
		if err != nil {
			return err
		}
		item, err := st.GetItem(ctx, *in.ItemID)
		if err != nil {
			return err
		}
		if item.OwnerID == booker.ID {
			return domain.AccessDenied("owner cannot book own item %d", item.ID)
		}
		if !item.Available {
			return domain.ItemUnavailable("item %d is not available", item.ID)
		}

		booking = models.Booking{
			Start:  *in.Start,
			End:    *in.End,
			Status: models.StatusWaiting,
			Item:   models.BookingItem{ID: item.ID, Name: item.Name, OwnerID: item.OwnerID},
			Booker: models.BookingUser{ID: booker.ID, Name: booker.Name},
		}
		return st.CreateBooking(ctx, &booking)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("booking_id", booking.ID).
		Int64("item_id", booking.Item.ID).
		Int64("booker_id", requesterID).
		Msg("booking created")
	s.publish(events.EventBookingCreated, booking)

	return &booking, nil
}

// Approve records the owner's decision on a WAITING booking.
func (s *BookingService) Approve(ctx context.Context, ownerID, bookingID int64, approved bool) (_ *models.Booking, err error) {
	ctx, span := startSpan(ctx, "BookingService.Approve",
		attribute.Int64("user.id", ownerID),
		attribute.Int64("booking.id", bookingID),
		attribute.Bool("booking.approved", approved))
	defer func() { endSpan(span, err) }()

	var booking *models.Booking
	err = s.repo.WithTx(ctx, func(st domain.Store) error {
		b, err := st.GetBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		if _, err := st.GetUser(ctx, ownerID); err != nil {
			return err
		}
		if b.Item.OwnerID != ownerID {
			return domain.AccessDenied("only the owner of item %d can decide on booking %d", b.Item.ID, b.ID)
		}
		if b.Status != models.StatusWaiting {
			return domain.BookingUnavailable("booking %d was already %s", b.ID, b.Status)
		}

		status := models.Decision(approved)
		if err := st.DecideBooking(ctx, b.ID, status); err != nil {
			return err
		}
		b.Status = status
		booking = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("booking_id", booking.ID).
		Int64("owner_id", ownerID).
		Str("status", string(booking.Status)).
		Msg("booking decided")

	eventType := events.EventBookingRejected
	if approved {
		eventType = events.EventBookingApproved
	}
	s.publish(eventType, *booking)

	return booking, nil
}

// Get returns a booking visible to its booker and the item owner only.
func (s *BookingService) Get(ctx context.Context, callerID, bookingID int64) (_ *models.Booking, err error) {
	ctx, span := startSpan(ctx, "BookingService.Get", attribute.Int64("user.id", callerID), attribute.Int64("booking.id", bookingID))
	defer func() { endSpan(span, err) }()

	b, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetUser(ctx, callerID); err != nil {
		return nil, err
	}
	if b.Booker.ID != callerID && b.Item.OwnerID != callerID {
		return nil, domain.AccessDenied("user %d is neither booker nor owner of booking %d", callerID, bookingID)
	}
	return b, nil
}

// ListForBooker pages through the caller's own bookings.
func (s *BookingService) ListForBooker(ctx context.Context, callerID int64, state models.State, page models.Page) ([]models.Booking, error) {
	return s.list(ctx, models.ScopeBooker, callerID, state, page)
}

// ListForOwner pages through bookings of the caller's items.
func (s *BookingService) ListForOwner(ctx context.Context, callerID int64, state models.State, page models.Page) ([]models.Booking, error) {
	return s.list(ctx, models.ScopeOwner, callerID, state, page)
}

// ExportForOwner is ListForOwner without paging.
func (s *BookingService) ExportForOwner(ctx context.Context, callerID int64, state models.State) ([]models.Booking, error) {
	return s.list(ctx, models.ScopeOwner, callerID, state, models.Unpaged())
}

func (s *BookingService) list(ctx context.Context, scope models.Scope, callerID int64, state models.State, page models.Page) (_ []models.Booking, err error) {
	ctx, span := startSpan(ctx, "BookingService.List",
		attribute.Int64("user.id", callerID),
		attribute.String("booking.scope", scope.String()),
		attribute.String("booking.state", state.String()))
	defer func() { endSpan(span, err) }()

	if _, err := s.repo.GetUser(ctx, callerID); err != nil {
		return nil, err
	}
	return s.repo.ListBookings(ctx, models.BookingQuery{
		Scope:  scope,
		UserID: callerID,
		State:  state,
		Now:    s.now(),
		Page:   page,
	})
}

func (s *BookingService) publish(eventType string, b models.Booking) {
	if s.eventBus == nil {
		return
	}
	payload := events.BookingEventPayload{
		BookingID: b.ID,
		ItemID:    b.Item.ID,
		BookerID:  b.Booker.ID,
		OwnerID:   b.Item.OwnerID,
		Status:    string(b.Status),
		Start:     b.Start,
		End:       b.End,
	}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event", eventType).Int64("booking_id", b.ID).Msg("failed to publish event")
	}
}
