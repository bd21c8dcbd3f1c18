package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"
)

const bookingSelect = `SELECT b.id, b.start_time, b.end_time, b.status,
		i.id AS "item.id", i.name AS "item.name", i.owner_id AS "item.owner_id",
		u.id AS "booker.id", u.name AS "booker.name"
	FROM bookings b
	JOIN items i ON i.id = b.item_id
	JOIN users u ON u.id = b.booker_id`

func (s *Store) CreateBooking(ctx context.Context, b *models.Booking) error {
	b.Start = utc(b.Start)
	b.End = utc(b.End)

	query := `INSERT INTO bookings (start_time, end_time, item_id, booker_id, status)
		VALUES (?, ?, ?, ?, ?) RETURNING id`
	if err := s.get(ctx, &b.ID, query, b.Start, b.End, b.Item.ID, b.Booker.ID, string(b.Status)); err != nil {
		if isForeignKeyViolation(err) {
			return domain.Conflict("booking references a missing item or booker")
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (s *Store) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	var b models.Booking
	err := s.get(ctx, &b, bookingSelect+` WHERE b.id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("booking", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &b, nil
}

// DecideBooking moves a WAITING booking to status. The WHERE clause makes
// the transition a compare-and-set, so only the first decision lands.
func (s *Store) DecideBooking(ctx context.Context, id int64, status models.BookingStatus) error {
	n, err := s.exec(ctx,
		`UPDATE bookings SET status = ? WHERE id = ? AND status = ?`,
		string(status), id, string(models.StatusWaiting))
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if n > 0 {
		return nil
	}

	var exists bool
	if err := s.get(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM bookings WHERE id = ?)`, id); err != nil {
		return fmt.Errorf("failed to check booking: %w", err)
	}
	if !exists {
		return domain.NotFound("booking", id)
	}
	return domain.BookingUnavailable("booking %d has already been decided", id)
}

// ListBookings returns one page of the scope's bookings passing the state
// filter, newest start first.
func (s *Store) ListBookings(ctx context.Context, q models.BookingQuery) ([]models.Booking, error) {
	clauses := []string{q.Scope.Condition()}
	args := []any{q.UserID}

	if cond, condArgs := q.State.Condition(utc(q.Now)); cond != "" {
		clauses = append(clauses, cond)
		args = append(args, condArgs...)
	}

	query := bookingSelect + ` WHERE ` + strings.Join(clauses, " AND ") + ` ORDER BY b.start_time DESC, b.id DESC`
	pc, pa := pageClause(q.Page)
	args = append(args, pa...)

	bookings := make([]models.Booking, 0)
	if err := s.selectAll(ctx, &bookings, query+pc, args...); err != nil {
		return nil, fmt.Errorf("failed to list %s bookings: %w", q.Scope, err)
	}
	return bookings, nil
}

func (s *Store) ListItemBookings(ctx context.Context, itemID int64) ([]models.Booking, error) {
	bookings := make([]models.Booking, 0)
	query := bookingSelect + ` WHERE b.item_id = ? ORDER BY b.start_time`
	if err := s.selectAll(ctx, &bookings, query, itemID); err != nil {
		return nil, fmt.Errorf("failed to list item bookings: %w", err)
	}
	return bookings, nil
}

// HasFinishedBooking reports whether bookerID holds an approved booking of
// itemID that ended before now.
func (s *Store) HasFinishedBooking(ctx context.Context, bookerID, itemID int64, now time.Time) (bool, error) {
	var ok bool
	query := `SELECT EXISTS(
		SELECT 1 FROM bookings
		WHERE booker_id = ? AND item_id = ? AND status = ? AND end_time < ?)`
	if err := s.get(ctx, &ok, query, bookerID, itemID, string(models.StatusApproved), utc(now)); err != nil {
		return false, fmt.Errorf("failed to check finished bookings: %w", err)
	}
	return ok, nil
}
