package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/laith-prog/rms/entity"
)

// CancellationPolicy is externally configured and read-only to the core.
type CancellationPolicy struct {
	MinimumAdvanceHours int
	AllowSameDay        bool
	EmergencyContact    string
}

type CancellationInfo struct {
	Allowed  bool      `json:"allowed"`
	Reason   string    `json:"reason"`
	Deadline time.Time `json:"deadline"`
}

// CanCancel decides whether a reservation may be cancelled at `now`.
// Pure: no side effects, so it serves both the cancel operation and the
// informational "can I still cancel?" query.
func CanCancel(res *entity.Reservation, policy CancellationPolicy, now time.Time) CancellationInfo {
	switch res.Status {
	case entity.ReservationCancelled:
		return CancellationInfo{Reason: "Reservation is already cancelled"}
	case entity.ReservationCompleted:
		return CancellationInfo{Reason: "Cannot cancel completed reservations"}
	case entity.ReservationRejected:
		return CancellationInfo{Reason: "Cannot cancel rejected reservations"}
	}

	start, err := res.StartAt()
	if err != nil {
		return CancellationInfo{Reason: "Reservation has an invalid date or time"}
	}
	deadline := cancellationDeadline(start, policy)

	if !start.After(now) {
		return CancellationInfo{Reason: "Cannot cancel past reservations", Deadline: deadline}
	}

	hoursRemaining := start.Sub(now).Hours()
	sameDay := res.ReservationDate == now.Format(entity.DateLayout)

	var reasons []string
	if !policy.AllowSameDay && sameDay {
		reasons = append(reasons, "Same-day cancellations are not allowed.")
	}
	if hoursRemaining < float64(policy.MinimumAdvanceHours) {
		reasons = append(reasons, fmt.Sprintf(
			"Minimum %d hours advance notice required. Only %.1f hours remaining until your reservation.",
			policy.MinimumAdvanceHours, hoursRemaining))
	}
	if len(reasons) > 0 {
		return CancellationInfo{
			Reason:   strings.Join(reasons, " ") + " " + policy.EmergencyContact,
			Deadline: deadline,
		}
	}

	return CancellationInfo{Allowed: true, Reason: "Reservation can be cancelled", Deadline: deadline}
}

// cancellationDeadline is start minus the advance-notice window,
// clipped to the start of the reservation day when same-day
// cancellation is disallowed.
func cancellationDeadline(start time.Time, policy CancellationPolicy) time.Time {
	deadline := start.Add(-time.Duration(policy.MinimumAdvanceHours) * time.Hour)
	if !policy.AllowSameDay {
		midnight := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
		if deadline.After(midnight) {
			deadline = midnight
		}
	}
	return deadline
}
