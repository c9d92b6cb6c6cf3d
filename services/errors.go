package services

import (
	"errors"
	"fmt"
	"time"
)

// ValidationError rejects malformed input before it touches shared state.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NoAvailabilityError means no table satisfies capacity and overlap
// constraints for the requested window. Not a system fault.
type NoAvailabilityError struct {
	RestaurantID  uint
	Date          string
	StartTime     string
	DurationHours int
	PartySize     int
}

func (e *NoAvailabilityError) Error() string {
	return fmt.Sprintf("no table available for party of %d at restaurant %d on %s %s (%dh)",
		e.PartySize, e.RestaurantID, e.Date, e.StartTime, e.DurationHours)
}

// InvalidTransitionError reports a state change that violates the state
// machine or the actor's role. Never silently coerced.
type InvalidTransitionError struct {
	Entity  string // "reservation" | "order"
	ID      uint
	From    string
	To      string
	Rule    string
	ActorID uint
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s %d: cannot go %s -> %s: %s", e.Entity, e.ID, e.From, e.To, e.Rule)
}

// PolicyViolationError rejects a cancellation outside the allowed window.
type PolicyViolationError struct {
	ReservationID uint
	Reason        string
	Deadline      time.Time
}

func (e *PolicyViolationError) Error() string {
	return fmt.Sprintf("reservation %d: %s", e.ReservationID, e.Reason)
}

// ConcurrencyConflictError means a racing booking committed the slot
// first. Retried once internally; callers see NoAvailabilityError.
type ConcurrencyConflictError struct {
	TableID uint
	Date    string
}

func (e *ConcurrencyConflictError) Error() string {
	return fmt.Sprintf("table %d already booked for an overlapping window on %s", e.TableID, e.Date)
}

// errAdvisoryUnavailable never leaves the selection strategy; it only
// triggers the deterministic fallback.
var errAdvisoryUnavailable = errors.New("advisory selection unavailable")
