package services

import (
	"github.com/laith-prog/rms/entity"

	"gorm.io/gorm"
)

// Legal order transitions. ready orders can no longer be cancelled.
var orderTransitions = map[string][]string{
	entity.OrderPending:   {entity.OrderApproved, entity.OrderRejected, entity.OrderCancelled},
	entity.OrderApproved:  {entity.OrderPreparing, entity.OrderCancelled},
	entity.OrderPreparing: {entity.OrderReady, entity.OrderCancelled},
	entity.OrderReady:     {entity.OrderCompleted},
}

func orderTransitionLegal(from, to string) bool {
	for _, t := range orderTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// Transition moves an order through its lifecycle with the same
// CAS-in-transaction discipline as reservations. Entering approved also
// derives the estimated preparation time; a chef starting an unassigned
// order becomes its assigned chef.
func (s *OrderService) Transition(actor *entity.User, orderID uint, to, note string) (*entity.Order, *entity.OrderStatusUpdate, error) {
	order, err := s.Repo.FindByID(orderID)
	if err != nil {
		return nil, nil, err
	}
	from := order.Status

	if !orderTransitionLegal(from, to) {
		rule := "no such transition"
		if entity.OrderTerminal(from) {
			rule = from + " is a terminal state"
		}
		return nil, nil, &InvalidTransitionError{
			Entity: "order", ID: order.ID, From: from, To: to, Rule: rule, ActorID: actor.ID,
		}
	}
	if rule := canTransitionOrder(actor, order, to); rule != "" {
		return nil, nil, &InvalidTransitionError{
			Entity: "order", ID: order.ID, From: from, To: to, Rule: rule, ActorID: actor.ID,
		}
	}

	actorID := actor.ID
	update := &entity.OrderStatusUpdate{
		OrderID:     order.ID,
		Status:      to,
		Notes:       note,
		UpdatedByID: &actorID,
	}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		ok, err := s.Repo.UpdateStatusFromTo(tx, order.ID, from, to)
		if err != nil {
			return err
		}
		if !ok {
			current, err := s.Repo.FindByID(order.ID)
			rule := "order changed concurrently"
			if err == nil {
				rule = "order is now " + current.Status
			}
			return &InvalidTransitionError{
				Entity: "order", ID: order.ID, From: from, To: to, Rule: rule, ActorID: actor.ID,
			}
		}

		if to == entity.OrderApproved {
			var items []entity.OrderItem
			if err := tx.Preload("MenuItem").Where("order_id = ?", order.ID).Find(&items).Error; err != nil {
				return err
			}
			if err := s.Repo.UpdateFields(tx, order.ID, map[string]any{
				"estimated_preparation_time": estimatePreparationTime(items),
			}); err != nil {
				return err
			}
		}
		if to == entity.OrderPreparing && order.AssignedChefID == nil && actor.Role == entity.RoleChef {
			if err := s.Repo.UpdateFields(tx, order.ID, map[string]any{
				"assigned_chef_id": actor.ID,
			}); err != nil {
				return err
			}
		}

		return s.Repo.AppendStatusUpdate(tx, update)
	})
	if err != nil {
		return nil, nil, err
	}

	updated, err := s.Repo.FindByID(order.ID)
	if err != nil {
		updated = order
		updated.Status = to
	}
	s.Notifier.Enqueue(StatusEvent{
		Kind:       "order",
		EntityID:   order.ID,
		UpdateID:   update.ID,
		CustomerID: order.CustomerID,
		Status:     to,
		Notes:      note,
	})
	return updated, update, nil
}

// AssignStaff sets or changes the chef or waiter on an order.
// Assigning the same person again is a no-op; switching to a different
// person is only allowed before the order is ready. Manager-only.
func (s *OrderService) AssignStaff(actor *entity.User, orderID, staffID uint, role string) (*entity.Order, error) {
	if role != entity.RoleChef && role != entity.RoleWaiter {
		return nil, &ValidationError{Field: "role", Reason: "must be chef or waiter"}
	}
	order, err := s.Repo.FindByID(orderID)
	if err != nil {
		return nil, err
	}
	if actor.Role != entity.RoleManager || !actor.WorksAt(order.RestaurantID) {
		return nil, &InvalidTransitionError{
			Entity: "order", ID: order.ID, From: order.Status, To: order.Status,
			Rule: "only a manager of the restaurant may assign staff", ActorID: actor.ID,
		}
	}

	current := order.AssignedChefID
	field := "assigned_chef_id"
	if role == entity.RoleWaiter {
		current = order.AssignedWaiterID
		field = "assigned_waiter_id"
	}
	if current != nil && *current == staffID {
		return order, nil // idempotent
	}

	switch order.Status {
	case entity.OrderApproved, entity.OrderPreparing:
		// assignment and reassignment allowed
	case entity.OrderReady:
		if current != nil {
			return nil, &InvalidTransitionError{
				Entity: "order", ID: order.ID, From: order.Status, To: order.Status,
				Rule: "cannot reassign staff once the order is ready", ActorID: actor.ID,
			}
		}
	default:
		return nil, &InvalidTransitionError{
			Entity: "order", ID: order.ID, From: order.Status, To: order.Status,
			Rule: "staff can only be assigned after approval and before completion", ActorID: actor.ID,
		}
	}

	if _, err := s.Users.FindStaff(staffID, order.RestaurantID, role); err != nil {
		return nil, &ValidationError{Field: "staffId", Reason: "no active " + role + " with this id at the restaurant"}
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		return s.Repo.UpdateFields(tx, order.ID, map[string]any{field: staffID})
	})
	if err != nil {
		return nil, err
	}
	return s.Repo.FindByID(order.ID)
}

// CancelByCustomer rejects cancellation once the kitchen has finished
// the order; everything else goes through the normal machine.
func (s *OrderService) CancelByCustomer(actor *entity.User, orderID uint, note string) (*entity.Order, error) {
	updated, _, err := s.Transition(actor, orderID, entity.OrderCancelled, note)
	return updated, err
}
