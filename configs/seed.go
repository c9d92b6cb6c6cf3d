package configs

import (
	"log"

	"github.com/laith-prog/rms/entity"

	"golang.org/x/crypto/bcrypt"
)

// SeedDemo creates one restaurant with tables, a small menu and a staff
// crew so the API is usable right after first boot. Skipped when any
// restaurant already exists.
func SeedDemo() error {
	db := DB()

	var count int64
	if err := db.Model(&entity.Restaurant{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	rest := entity.Restaurant{
		Name:           "Damascus Gate",
		Address:        "14 Market Street",
		Phone:          "+10000000001",
		Description:    "Levantine kitchen with rooftop seating",
		OpeningTime:    "11:00",
		ClosingTime:    "23:00",
		OffersDineIn:   true,
		OffersTakeaway: true,
		OffersDelivery: true,
		IsActive:       true,
	}
	if err := db.Create(&rest).Error; err != nil {
		return err
	}

	tables := []entity.Table{
		{TableNumber: "1", Capacity: 2, Floor: entity.FloorGround, IsActive: true, RestaurantID: rest.ID},
		{TableNumber: "2", Capacity: 4, Floor: entity.FloorGround, IsActive: true, RestaurantID: rest.ID},
		{TableNumber: "3", Capacity: 4, Floor: entity.FloorGround, IsActive: true, RestaurantID: rest.ID},
		{TableNumber: "1", Capacity: 6, Floor: entity.FloorFirst, IsActive: true, RestaurantID: rest.ID},
		{TableNumber: "2", Capacity: 8, Floor: entity.FloorFirst, IsActive: true, RestaurantID: rest.ID},
		{TableNumber: "1", Capacity: 4, Floor: entity.FloorRooftop, IsActive: true, RestaurantID: rest.ID},
	}
	if err := db.Create(&tables).Error; err != nil {
		return err
	}

	menu := []entity.MenuItem{
		{Name: "Hummus", Price: 650, PreparationTime: 5, IsVegan: true, IsVegetarian: true, IsGlutenFree: true, IsActive: true, RestaurantID: rest.ID},
		{Name: "Shawarma Plate", Price: 1450, PreparationTime: 15, IsActive: true, RestaurantID: rest.ID},
		{Name: "Mixed Grill", Price: 2200, PreparationTime: 25, IsActive: true, RestaurantID: rest.ID},
		{Name: "Fattoush", Price: 850, PreparationTime: 10, IsVegetarian: true, IsActive: true, RestaurantID: rest.ID},
		{Name: "Knafeh", Price: 700, PreparationTime: 12, IsVegetarian: true, ContainsNuts: true, IsActive: true, RestaurantID: rest.ID},
	}
	if err := db.Create(&menu).Error; err != nil {
		return err
	}

	pass := getEnv("SEED_STAFF_PASSWORD", "changeme123")
	hash, err := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	staff := []entity.User{
		{Email: "manager@rms.local", Password: string(hash), FirstName: "Mona", LastName: "Halabi", Role: entity.RoleManager, IsActive: true, RestaurantID: &rest.ID},
		{Email: "chef@rms.local", Password: string(hash), FirstName: "Karim", LastName: "Aziz", Role: entity.RoleChef, IsActive: true, RestaurantID: &rest.ID},
		{Email: "waiter@rms.local", Password: string(hash), FirstName: "Sami", LastName: "Odeh", Role: entity.RoleWaiter, IsActive: true, RestaurantID: &rest.ID},
	}
	if err := db.Create(&staff).Error; err != nil {
		return err
	}

	log.Println("seeded demo restaurant, tables, menu and staff")
	return nil
}
