package entity

import (
	"gorm.io/gorm"
)

// Physical floors a table can sit on.
const (
	FloorGround  = "ground"
	FloorFirst   = "first"
	FloorSecond  = "second"
	FloorRooftop = "rooftop"
)

func ValidFloor(f string) bool {
	switch f {
	case FloorGround, FloorFirst, FloorSecond, FloorRooftop:
		return true
	}
	return false
}

type Table struct {
	gorm.Model
	TableNumber string `gorm:"not null;uniqueIndex:uniq_table_per_floor" json:"tableNumber"`
	Capacity    int    `gorm:"not null" json:"capacity"`
	Floor       string `gorm:"not null;default:ground;uniqueIndex:uniq_table_per_floor" json:"floor"`
	IsActive    bool   `gorm:"default:true" json:"isActive"`

	RestaurantID uint       `gorm:"index;uniqueIndex:uniq_table_per_floor" json:"restaurantId"`
	Restaurant   Restaurant `json:"-"`

	Reservations []Reservation `json:"-"`
}
