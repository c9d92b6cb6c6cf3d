package entity

import (
	"gorm.io/gorm"
)

type MenuItem struct {
	gorm.Model
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"` // cents

	// kitchen time for one unit, in minutes
	PreparationTime int `gorm:"default:15" json:"preparationTime"`

	IsVegetarian bool `json:"isVegetarian"`
	IsVegan      bool `json:"isVegan"`
	IsGlutenFree bool `json:"isGlutenFree"`
	ContainsNuts bool `json:"containsNuts"`
	IsSpicy      bool `json:"isSpicy"`

	IsActive bool `gorm:"default:true" json:"isActive"`

	RestaurantID uint       `gorm:"index" json:"restaurantId"`
	Restaurant   Restaurant `json:"-"`

	OrderItems []OrderItem `json:"-"`
}
