package entity

import (
	"gorm.io/gorm"
)

// Staff roles are always tied to a restaurant; customers never are.
const (
	RoleCustomer = "customer"
	RoleWaiter   = "waiter"
	RoleChef     = "chef"
	RoleManager  = "manager"
)

type User struct {
	gorm.Model
	Email       string `gorm:"uniqueIndex;not null" json:"email"`
	Password    string `json:"-"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
	Role        string `gorm:"not null;default:customer" json:"role"`
	IsActive    bool   `gorm:"default:true" json:"isActive"`

	// restaurant the staff member belongs to (nil for customers)
	RestaurantID *uint       `json:"restaurantId,omitempty"`
	Restaurant   *Restaurant `json:"-"`

	// Relations — preload only when needed
	Reservations []Reservation `gorm:"foreignKey:CustomerID" json:"-"`
	Orders       []Order       `gorm:"foreignKey:CustomerID" json:"-"`
	Reviews      []Review      `gorm:"foreignKey:CustomerID" json:"-"`
}

func (u *User) IsStaff() bool {
	return u.Role == RoleWaiter || u.Role == RoleChef || u.Role == RoleManager
}

// WorksAt reports whether this staff member is affiliated with the restaurant.
func (u *User) WorksAt(restaurantID uint) bool {
	return u.IsStaff() && u.RestaurantID != nil && *u.RestaurantID == restaurantID
}
