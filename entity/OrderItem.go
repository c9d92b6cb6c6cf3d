package entity

import (
	"gorm.io/gorm"
)

type OrderItem struct {
	gorm.Model
	Quantity int `gorm:"not null;default:1" json:"quantity"`

	// price of one unit at order time, cents; menu price changes later
	// must not affect existing orders
	UnitPrice int64 `gorm:"not null" json:"unitPrice"`
	ItemTotal int64 `gorm:"not null" json:"itemTotal"`

	SpecialInstructions string `json:"specialInstructions"`

	OrderID uint  `gorm:"index" json:"orderId"`
	Order   Order `json:"-"`

	MenuItemID uint     `json:"menuItemId"`
	MenuItem   MenuItem `json:"-"`
}
