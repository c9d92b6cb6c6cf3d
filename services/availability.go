package services

import (
	"time"

	"github.com/laith-prog/rms/entity"
	"github.com/laith-prog/rms/repository"

	"gorm.io/gorm"
)

// AvailabilityEngine computes which tables are free for an exact
// window, accounting for duration overlap with existing pending and
// confirmed reservations.
type AvailabilityEngine struct {
	Tables       *repository.TableRepository
	Reservations *repository.ReservationRepository
}

func NewAvailabilityEngine(tables *repository.TableRepository, reservations *repository.ReservationRepository) *AvailabilityEngine {
	return &AvailabilityEngine{Tables: tables, Reservations: reservations}
}

// overlaps implements half-open interval semantics: [s1,e1) and
// [s2,e2) overlap iff s1<e2 && s2<e1. A reservation ending exactly when
// another begins does not overlap.
func overlaps(s1, e1, s2, e2 int) bool {
	return s1 < e2 && s2 < e1
}

// FindAvailableTables returns every active table of the restaurant that
// can seat the party and has no conflicting reservation in the
// requested window, smallest sufficient capacity first. An empty result
// is a valid outcome, not an error.
//
// When db is non-nil the reads run on it, so the booking flow can
// perform the check inside its transaction.
func (e *AvailabilityEngine) FindAvailableTables(db *gorm.DB, restaurantID uint, date, startTime string, durationHours, partySize int) ([]entity.Table, error) {
	if partySize < 1 {
		return nil, &ValidationError{Field: "partySize", Reason: "must be at least 1"}
	}
	if durationHours < 1 {
		return nil, &ValidationError{Field: "durationHours", Reason: "must be at least 1 hour"}
	}
	if _, err := time.Parse(entity.DateLayout, date); err != nil {
		return nil, &ValidationError{Field: "date", Reason: "use YYYY-MM-DD"}
	}
	start, err := time.Parse(entity.TimeLayout, startTime)
	if err != nil {
		return nil, &ValidationError{Field: "time", Reason: "use HH:MM"}
	}

	reqStart := start.Hour()*60 + start.Minute()
	reqEnd := reqStart + durationHours*60

	candidates, err := e.Tables.Candidates(db, restaurantID, partySize)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	ids := make([]uint, 0, len(candidates))
	for _, t := range candidates {
		ids = append(ids, t.ID)
	}

	// one query per (tables, date); idx_table_date drives it
	blocking, err := e.Reservations.Blocking(db, ids, date)
	if err != nil {
		return nil, err
	}

	taken := make(map[uint]bool)
	for _, res := range blocking {
		s, en, err := res.Window()
		if err != nil {
			continue // unparseable legacy row cannot block
		}
		if overlaps(s, en, reqStart, reqEnd) {
			taken[res.TableID] = true
		}
	}

	free := make([]entity.Table, 0, len(candidates))
	for _, t := range candidates {
		if !taken[t.ID] {
			free = append(free, t)
		}
	}
	return free, nil
}

// tableFreeFor rechecks a single table after insert, excluding the new
// reservation itself. Used by the booking flow's commit-time conflict
// detection.
func (e *AvailabilityEngine) tableFreeFor(db *gorm.DB, tableID, excludeReservationID uint, date string, reqStart, reqEnd int) (bool, error) {
	blocking, err := e.Reservations.Blocking(db, []uint{tableID}, date)
	if err != nil {
		return false, err
	}
	for _, res := range blocking {
		if res.ID == excludeReservationID {
			continue
		}
		s, en, err := res.Window()
		if err != nil {
			continue
		}
		if overlaps(s, en, reqStart, reqEnd) {
			return false, nil
		}
	}
	return true, nil
}
