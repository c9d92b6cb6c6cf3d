package entity

import (
	"gorm.io/gorm"
)

// Append-only audit row; only IsNotified ever changes after insert.
type ReservationStatusUpdate struct {
	gorm.Model
	Status     string `gorm:"not null" json:"status"`
	Notes      string `json:"notes"`
	IsNotified bool   `gorm:"default:false" json:"isNotified"`

	ReservationID uint        `gorm:"index" json:"reservationId"`
	Reservation   Reservation `json:"-"`

	UpdatedByID *uint `json:"updatedById"`
	UpdatedBy   *User `json:"-"`
}
