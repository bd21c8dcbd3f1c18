package models

import (
	"fmt"
	"strings"
	"time"
)

// State is a booking list filter. Every variant carries both its SQL
// condition and an equivalent in-memory predicate so the two can never be
// applied differently between the booker and owner listings.
type State struct {
	name  string
	cond  func(now time.Time) (string, []any)
	match func(b Booking, now time.Time) bool
}

var (
	StateAll = State{
		name:  "ALL",
		cond:  func(time.Time) (string, []any) { return "", nil },
		match: func(Booking, time.Time) bool { return true },
	}
	StatePast = State{
		name:  "PAST",
		cond:  func(now time.Time) (string, []any) { return "b.end_time < ?", []any{now} },
		match: func(b Booking, now time.Time) bool { return b.End.Before(now) },
	}
	StateCurrent = State{
		name: "CURRENT",
		cond: func(now time.Time) (string, []any) {
			return "b.start_time <= ? AND b.end_time >= ?", []any{now, now}
		},
		match: func(b Booking, now time.Time) bool { return !now.Before(b.Start) && !now.After(b.End) },
	}
	StateFuture = State{
		name:  "FUTURE",
		cond:  func(now time.Time) (string, []any) { return "b.start_time > ?", []any{now} },
		match: func(b Booking, now time.Time) bool { return b.Start.After(now) },
	}
	StateWaiting  = statusState(StatusWaiting)
	StateRejected = statusState(StatusRejected)
)

// States lists every filter in display order.
var States = []State{StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected}

func statusState(s BookingStatus) State {
	return State{
		name:  string(s),
		cond:  func(time.Time) (string, []any) { return "b.status = ?", []any{string(s)} },
		match: func(b Booking, _ time.Time) bool { return b.Status == s },
	}
}

// ParseState resolves a filter name case-insensitively. Empty means ALL.
func ParseState(raw string) (State, error) {
	name := strings.ToUpper(strings.TrimSpace(raw))
	if name == "" {
		return StateAll, nil
	}
	for _, s := range States {
		if s.name == name {
			return s, nil
		}
	}
	return State{}, fmt.Errorf("Unknown state: %s", raw)
}

func (s State) String() string { return s.name }

// Condition returns the WHERE fragment (with ? placeholders) and its
// arguments. An empty fragment means no restriction.
func (s State) Condition(now time.Time) (string, []any) {
	if s.cond == nil {
		return StateAll.cond(now)
	}
	return s.cond(now)
}

func (s State) Matches(b Booking, now time.Time) bool {
	if s.match == nil {
		return true
	}
	return s.match(b, now)
}

// Scope selects whose bookings a listing covers.
type Scope int

const (
	ScopeBooker Scope = iota
	ScopeOwner
)

func (s Scope) Condition() string {
	if s == ScopeOwner {
		return "i.owner_id = ?"
	}
	return "b.booker_id = ?"
}

func (s Scope) String() string {
	if s == ScopeOwner {
		return "owner"
	}
	return "booker"
}

// BookingQuery describes one booking listing.
type BookingQuery struct {
	Scope  Scope
	UserID int64
	State  State
	Now    time.Time
	Page   Page
}
