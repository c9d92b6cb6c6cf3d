package entity

import (
	"gorm.io/gorm"
)

type Review struct {
	gorm.Model
	Rating  int    `gorm:"not null" json:"rating"` // 1-5
	Comment string `json:"comment"`

	CustomerID uint `gorm:"index" json:"customerId"`
	Customer   User `json:"-"`

	RestaurantID uint       `gorm:"index" json:"restaurantId"`
	Restaurant   Restaurant `json:"-"`
}
