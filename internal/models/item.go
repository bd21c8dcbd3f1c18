package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Item struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
	Available   bool   `db:"available" json:"available"`
	OwnerID     int64  `db:"owner_id" json:"-"`
	RequestID   *int64 `db:"request_id" json:"requestId,omitempty"`
}

type ItemCreate struct {
	Name        string `json:"name" yaml:"name" validate:"required,max=255"`
	Description string `json:"description" yaml:"description" validate:"required,max=512"`
	Available   *bool  `json:"available" yaml:"available" validate:"required"`
	RequestID   *int64 `json:"requestId" yaml:"request_id"`
}

func (in *ItemCreate) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	return validateStruct(in)
}

// ItemUpdate carries a partial change; nil fields are left untouched.
type ItemUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

func (in *ItemUpdate) Validate() error {
	trimPtr(in.Name)
	trimPtr(in.Description)
	if blank(in.Name) {
		return errors.New("name must not be empty")
	}
	if tooLong(in.Name, MaxNameLength) {
		return fmt.Errorf("name must be at most %d characters", MaxNameLength)
	}
	if blank(in.Description) {
		return errors.New("description must not be empty")
	}
	if tooLong(in.Description, MaxTextLength) {
		return fmt.Errorf("description must be at most %d characters", MaxTextLength)
	}
	return nil
}

func (in ItemUpdate) Apply(it *Item) {
	if in.Name != nil {
		it.Name = *in.Name
	}
	if in.Description != nil {
		it.Description = *in.Description
	}
	if in.Available != nil {
		it.Available = *in.Available
	}
}

// BookingShort is the compact booking reference shown on an item card.
type BookingShort struct {
	ID       int64     `json:"id"`
	BookerID int64     `json:"bookerId"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

// ItemDetails is the item view: last/next bookings are populated only
// for the owner.
type ItemDetails struct {
	Item
	LastBooking *BookingShort `json:"lastBooking"`
	NextBooking *BookingShort `json:"nextBooking"`
	Comments    []Comment     `json:"comments"`
}

// NeighbourBookings picks the last and next approved bookings relative to
// now: last is the latest start not after now, next the earliest start
// strictly after now.
func NeighbourBookings(bookings []Booking, now time.Time) (last, next *BookingShort) {
	var lastB, nextB *Booking
	for i := range bookings {
		b := &bookings[i]
		if b.Status != StatusApproved {
			continue
		}
		if b.Start.After(now) {
			if nextB == nil || b.Start.Before(nextB.Start) {
				nextB = b
			}
			continue
		}
		if lastB == nil || b.Start.After(lastB.Start) {
			lastB = b
		}
	}
	if lastB != nil {
		s := lastB.Short()
		last = &s
	}
	if nextB != nil {
		s := nextB.Short()
		next = &s
	}
	return last, next
}
