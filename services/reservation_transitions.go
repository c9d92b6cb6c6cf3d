package services

import (
	"github.com/laith-prog/rms/entity"

	"gorm.io/gorm"
)

// Legal reservation transitions. Anything absent is invalid; terminal
// states have no entry at all.
var reservationTransitions = map[string][]string{
	entity.ReservationPending:   {entity.ReservationConfirmed, entity.ReservationRejected, entity.ReservationCancelled},
	entity.ReservationConfirmed: {entity.ReservationCompleted, entity.ReservationCancelled},
}

func reservationTransitionLegal(from, to string) bool {
	for _, t := range reservationTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// Transition moves a reservation to a new status on behalf of an actor.
// The status flip is a compare-and-swap inside a transaction, the audit
// row is appended in the same transaction, and the notification is
// enqueued only after commit.
func (s *ReservationService) Transition(actor *entity.User, reservationID uint, to, note string) (*entity.Reservation, *entity.ReservationStatusUpdate, error) {
	res, err := s.Repo.FindByID(reservationID)
	if err != nil {
		return nil, nil, err
	}
	from := res.Status

	if !reservationTransitionLegal(from, to) {
		rule := "no such transition"
		if entity.ReservationTerminal(from) {
			rule = from + " is a terminal state"
		}
		return nil, nil, &InvalidTransitionError{
			Entity: "reservation", ID: res.ID, From: from, To: to, Rule: rule, ActorID: actor.ID,
		}
	}
	if rule := canTransitionReservation(actor, res, to); rule != "" {
		return nil, nil, &InvalidTransitionError{
			Entity: "reservation", ID: res.ID, From: from, To: to, Rule: rule, ActorID: actor.ID,
		}
	}

	actorID := actor.ID
	update := &entity.ReservationStatusUpdate{
		ReservationID: res.ID,
		Status:        to,
		Notes:         note,
		UpdatedByID:   &actorID,
	}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		ok, err := s.Repo.UpdateStatusFromTo(tx, res.ID, from, to)
		if err != nil {
			return err
		}
		if !ok {
			// a concurrent transition won the row
			current, err := s.Repo.FindByID(res.ID)
			rule := "reservation changed concurrently"
			if err == nil {
				rule = "reservation is now " + current.Status
			}
			return &InvalidTransitionError{
				Entity: "reservation", ID: res.ID, From: from, To: to, Rule: rule, ActorID: actor.ID,
			}
		}
		return s.Repo.AppendStatusUpdate(tx, update)
	})
	if err != nil {
		return nil, nil, err
	}

	res.Status = to
	s.Notifier.Enqueue(StatusEvent{
		Kind:       "reservation",
		EntityID:   res.ID,
		UpdateID:   update.ID,
		CustomerID: res.CustomerID,
		Status:     to,
		Notes:      note,
	})
	return res, update, nil
}

// Cancel applies the cancellation rules before delegating to the state
// machine: a customer cancels a pending reservation unconditionally, a
// confirmed one only inside the policy window; a manager is never
// gated by the policy.
func (s *ReservationService) Cancel(actor *entity.User, reservationID uint, note string) (*entity.Reservation, error) {
	res, err := s.Repo.FindByID(reservationID)
	if err != nil {
		return nil, err
	}

	if actor.Role == entity.RoleCustomer && res.Status == entity.ReservationConfirmed {
		info := CanCancel(res, s.Policy, s.Now())
		if !info.Allowed {
			return nil, &PolicyViolationError{
				ReservationID: res.ID,
				Reason:        info.Reason,
				Deadline:      info.Deadline,
			}
		}
	}

	updated, _, err := s.Transition(actor, reservationID, entity.ReservationCancelled, note)
	return updated, err
}
