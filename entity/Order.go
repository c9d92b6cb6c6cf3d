package entity

import (
	"gorm.io/gorm"
)

// Order types.
const (
	OrderDineIn   = "dine_in"
	OrderPickup   = "pickup"
	OrderDelivery = "delivery"
)

// Order statuses. rejected, completed and cancelled are terminal.
const (
	OrderPending   = "pending"
	OrderApproved  = "approved"
	OrderRejected  = "rejected"
	OrderPreparing = "preparing"
	OrderReady     = "ready"
	OrderCompleted = "completed"
	OrderCancelled = "cancelled"
)

type Order struct {
	gorm.Model
	OrderType           string `gorm:"not null" json:"orderType"`
	Status              string `gorm:"not null;default:pending;index" json:"status"`
	SpecialInstructions string `json:"specialInstructions"`
	DeliveryAddress     string `json:"deliveryAddress"`

	// derived money fields, cents; recomputed whenever items change
	Subtotal    int64 `json:"subtotal"`
	Tax         int64 `json:"tax"`
	DeliveryFee int64 `json:"deliveryFee"`
	Total       int64 `json:"total"`

	// minutes; derived when the order is approved
	EstimatedPreparationTime int `json:"estimatedPreparationTime"`

	CustomerID uint `gorm:"index" json:"customerId"`
	Customer   User `json:"-"`

	RestaurantID uint       `gorm:"index" json:"restaurantId"`
	Restaurant   Restaurant `json:"-"`

	// dine-in linkage to a booked table
	ReservationID *uint        `json:"reservationId,omitempty"`
	Reservation   *Reservation `json:"-"`

	AssignedChefID   *uint `json:"assignedChefId,omitempty"`
	AssignedChef     *User `gorm:"foreignKey:AssignedChefID" json:"-"`
	AssignedWaiterID *uint `json:"assignedWaiterId,omitempty"`
	AssignedWaiter   *User `gorm:"foreignKey:AssignedWaiterID" json:"-"`

	Items         []OrderItem         `json:"-"`
	StatusUpdates []OrderStatusUpdate `json:"-"`
}

func OrderTerminal(status string) bool {
	switch status {
	case OrderRejected, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

func ValidOrderType(t string) bool {
	switch t {
	case OrderDineIn, OrderPickup, OrderDelivery:
		return true
	}
	return false
}
