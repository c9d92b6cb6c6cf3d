package entity

import (
	"gorm.io/gorm"
)

type Restaurant struct {
	gorm.Model
	Name        string `gorm:"not null" json:"name"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Description string `json:"description"`

	OpeningTime string `json:"openingTime"` // "HH:MM"
	ClosingTime string `json:"closingTime"` // "HH:MM"

	OffersDineIn   bool `gorm:"default:true" json:"offersDineIn"`
	OffersTakeaway bool `gorm:"default:true" json:"offersTakeaway"`
	OffersDelivery bool `gorm:"default:false" json:"offersDelivery"`

	IsActive bool `gorm:"default:true" json:"isActive"`

	Tables       []Table       `json:"-"`
	MenuItems    []MenuItem    `json:"-"`
	Reservations []Reservation `json:"-"`
	Orders       []Order       `json:"-"`
	Reviews      []Review      `json:"-"`
}
