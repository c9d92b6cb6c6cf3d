package entity

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Reservation statuses. rejected, completed and cancelled are terminal.
const (
	ReservationPending   = "pending"
	ReservationConfirmed = "confirmed"
	ReservationRejected  = "rejected"
	ReservationCompleted = "completed"
	ReservationCancelled = "cancelled"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

type Reservation struct {
	gorm.Model
	PartySize       int    `gorm:"not null" json:"partySize"`
	ReservationDate string `gorm:"not null;index:idx_table_date,priority:2" json:"reservationDate"` // "YYYY-MM-DD"
	StartTime       string `gorm:"not null" json:"startTime"`                                       // "HH:MM"
	DurationHours   int    `gorm:"not null;default:1" json:"durationHours"`
	Status          string `gorm:"not null;default:pending;index" json:"status"`
	SpecialRequests string `json:"specialRequests"`

	CustomerID uint `gorm:"index" json:"customerId"`
	Customer   User `json:"-"`

	RestaurantID uint       `gorm:"index" json:"restaurantId"`
	Restaurant   Restaurant `json:"-"`

	TableID uint  `gorm:"index:idx_table_date,priority:1" json:"tableId"`
	Table   Table `json:"-"`

	StatusUpdates []ReservationStatusUpdate `json:"-"`
	Selection     *TableSelection           `json:"-"`
}

func ReservationTerminal(status string) bool {
	switch status {
	case ReservationRejected, ReservationCompleted, ReservationCancelled:
		return true
	}
	return false
}

// StartAt combines the date and start time into a wall-clock instant.
func (r *Reservation) StartAt() (time.Time, error) {
	return time.ParseInLocation(DateLayout+" "+TimeLayout, r.ReservationDate+" "+r.StartTime, time.Local)
}

// Window returns the half-open [start, end) interval in minutes since
// midnight of the reservation date. End may exceed 24h.
func (r *Reservation) Window() (startMin, endMin int, err error) {
	t, err := time.Parse(TimeLayout, r.StartTime)
	if err != nil {
		return 0, 0, fmt.Errorf("bad start time %q: %w", r.StartTime, err)
	}
	startMin = t.Hour()*60 + t.Minute()
	return startMin, startMin + r.DurationHours*60, nil
}
