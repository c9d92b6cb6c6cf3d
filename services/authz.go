package services

import (
	"github.com/laith-prog/rms/entity"
)

// All role/affiliation gating lives here: one check per operation entry
// point instead of separate code paths per role.

// canTransitionReservation returns "" when the actor may perform the
// transition, otherwise the violated rule.
func canTransitionReservation(actor *entity.User, res *entity.Reservation, to string) string {
	isOwner := actor.Role == entity.RoleCustomer && actor.ID == res.CustomerID
	isManager := actor.Role == entity.RoleManager && actor.WorksAt(res.RestaurantID)
	isStaff := actor.IsStaff() && actor.WorksAt(res.RestaurantID)

	switch {
	case res.Status == entity.ReservationPending && (to == entity.ReservationConfirmed || to == entity.ReservationRejected):
		if !isManager {
			return "only a manager of the restaurant may approve or reject"
		}
	case res.Status == entity.ReservationConfirmed && to == entity.ReservationCompleted:
		if !isStaff {
			return "only staff of the restaurant may complete a reservation"
		}
	case to == entity.ReservationCancelled:
		// customers cancel their own reservation; the cancellation
		// policy gate for confirmed ones is applied by the caller
		if !isOwner && !isManager {
			return "only the booking customer or a manager may cancel"
		}
	default:
		return "transition not permitted"
	}
	return ""
}

// canTransitionOrder mirrors the reservation check for orders.
func canTransitionOrder(actor *entity.User, o *entity.Order, to string) string {
	isOwner := actor.Role == entity.RoleCustomer && actor.ID == o.CustomerID
	isManager := actor.Role == entity.RoleManager && actor.WorksAt(o.RestaurantID)
	isAssignedChef := o.AssignedChefID != nil && *o.AssignedChefID == actor.ID && actor.WorksAt(o.RestaurantID)
	isAssignedWaiter := o.AssignedWaiterID != nil && *o.AssignedWaiterID == actor.ID && actor.WorksAt(o.RestaurantID)
	isChef := actor.Role == entity.RoleChef && actor.WorksAt(o.RestaurantID)

	switch to {
	case entity.OrderApproved, entity.OrderRejected:
		if !isManager {
			return "only a manager may approve or reject an order"
		}
	case entity.OrderPreparing:
		// an unassigned order may be picked up by any chef of the
		// restaurant, who then becomes the assigned chef
		if o.AssignedChefID == nil {
			if !isChef && !isManager {
				return "only a chef of the restaurant or a manager may start preparing"
			}
		} else if !isAssignedChef && !isManager {
			return "only the assigned chef or a manager may start preparing"
		}
	case entity.OrderReady:
		if !isAssignedChef && !isManager {
			return "only the assigned chef or a manager may mark an order ready"
		}
	case entity.OrderCompleted:
		if !isAssignedWaiter && !isAssignedChef && !isManager {
			return "only the assigned waiter, assigned chef or a manager may complete an order"
		}
	case entity.OrderCancelled:
		if !isOwner && !isManager {
			return "only the ordering customer or a manager may cancel"
		}
	default:
		return "transition not permitted"
	}
	return ""
}
