package entity

import (
	"gorm.io/gorm"
)

type OrderStatusUpdate struct {
	gorm.Model
	Status     string `gorm:"not null" json:"status"`
	Notes      string `json:"notes"`
	IsNotified bool   `gorm:"default:false" json:"isNotified"`

	OrderID uint  `gorm:"index" json:"orderId"`
	Order   Order `json:"-"`

	UpdatedByID *uint `json:"updatedById"`
	UpdatedBy   *User `json:"-"`
}
