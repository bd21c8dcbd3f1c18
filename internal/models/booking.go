package models

import (
	"errors"
	"time"
)

type BookingStatus string

const (
	StatusWaiting  BookingStatus = "WAITING"
	StatusApproved BookingStatus = "APPROVED"
	StatusRejected BookingStatus = "REJECTED"
)

// Decision maps the owner's approve flag to the resulting status.
func Decision(approved bool) BookingStatus {
	if approved {
		return StatusApproved
	}
	return StatusRejected
}

type BookingItem struct {
	ID      int64  `db:"id" json:"id"`
	Name    string `db:"name" json:"name"`
	OwnerID int64  `db:"owner_id" json:"-"`
}

type BookingUser struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

type Booking struct {
	ID     int64         `db:"id" json:"id"`
	Start  time.Time     `db:"start_time" json:"start"`
	End    time.Time     `db:"end_time" json:"end"`
	Status BookingStatus `db:"status" json:"status"`
	Item   BookingItem   `db:"item" json:"item"`
	Booker BookingUser   `db:"booker" json:"booker"`
}

func (b Booking) Short() BookingShort {
	return BookingShort{ID: b.ID, BookerID: b.Booker.ID, Start: b.Start, End: b.End}
}

// BookingCreate is the booking request as received from a caller.
type BookingCreate struct {
	ItemID *int64     `json:"itemId"`
	Start  *time.Time `json:"start"`
	End    *time.Time `json:"end"`
}

// Validate checks presence, that start is not in the past, that end is in
// the future, and ordering.
func (in BookingCreate) Validate(now time.Time) error {
	var errs []error
	if in.ItemID == nil {
		errs = append(errs, errors.New("itemId must not be empty"))
	}
	if in.Start == nil {
		errs = append(errs, errors.New("start must not be empty"))
	} else if in.Start.Before(now) {
		errs = append(errs, errors.New("start must not be in the past"))
	}
	if in.End == nil {
		errs = append(errs, errors.New("end must not be empty"))
	} else if !in.End.After(now) {
		errs = append(errs, errors.New("end must be in the future"))
	}
	if !StartBeforeEnd(in.Start, in.End) {
		errs = append(errs, errors.New("start must be before end"))
	}
	return errors.Join(errs...)
}

// StartBeforeEnd reports whether start precedes end. A missing bound is
// treated as valid; presence is checked separately.
func StartBeforeEnd(start, end *time.Time) bool {
	if start == nil || end == nil {
		return true
	}
	return start.Before(*end)
}
