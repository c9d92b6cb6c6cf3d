package entity

import (
	"gorm.io/gorm"
)

// How the table of a reservation was picked. A failed advisory call is
// recorded as deterministic with AdvisoryError set.
const (
	SelectionDeterministic = "deterministic"
	SelectionAdvisory      = "advisory"
)

// TableSelection records one booking's table choice for later analysis.
// Written once at reservation creation, read-only afterwards.
type TableSelection struct {
	gorm.Model
	Method string `gorm:"not null" json:"method"`

	ReservationID uint        `gorm:"uniqueIndex" json:"reservationId"`
	Reservation   Reservation `json:"-"`

	SelectedTableID uint  `json:"selectedTableId"`
	SelectedTable   Table `json:"-"`

	// snapshot of the candidate set offered to the strategy
	CandidateCount int    `json:"candidateCount"`
	CandidatesJSON string `gorm:"type:text" json:"-"`

	Reasoning          string  `json:"reasoning"`
	Confidence         float64 `json:"confidence"`
	AlternativeTableID *uint   `json:"alternativeTableId,omitempty"`

	LatencyMs     int64  `json:"latencyMs"`
	AdvisoryError string `json:"-"`
}
