package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/laith-prog/rms/entity"
	"github.com/laith-prog/rms/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entity.User{},
		&entity.Restaurant{},
		&entity.MenuItem{},
		&entity.Table{},
		&entity.Reservation{},
		&entity.ReservationStatusUpdate{},
		&entity.Order{},
		&entity.OrderItem{},
		&entity.OrderStatusUpdate{},
		&entity.TableSelection{},
		&entity.Review{},
	))
	return db
}

type fixture struct {
	DB         *gorm.DB
	Restaurant entity.Restaurant
	Customer   entity.User
	Manager    entity.User
	Chef       entity.User
	Waiter     entity.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)

	f := &fixture{DB: db}
	f.Restaurant = entity.Restaurant{
		Name: "Test Bistro", OpeningTime: "10:00", ClosingTime: "23:00",
		OffersDineIn: true, OffersTakeaway: true, OffersDelivery: true, IsActive: true,
	}
	require.NoError(t, db.Create(&f.Restaurant).Error)

	f.Customer = entity.User{Email: "cust@test.local", Role: entity.RoleCustomer, IsActive: true}
	f.Manager = entity.User{Email: "mgr@test.local", Role: entity.RoleManager, IsActive: true, RestaurantID: &f.Restaurant.ID}
	f.Chef = entity.User{Email: "chef@test.local", Role: entity.RoleChef, IsActive: true, RestaurantID: &f.Restaurant.ID}
	f.Waiter = entity.User{Email: "waiter@test.local", Role: entity.RoleWaiter, IsActive: true, RestaurantID: &f.Restaurant.ID}
	for _, u := range []*entity.User{&f.Customer, &f.Manager, &f.Chef, &f.Waiter} {
		require.NoError(t, db.Create(u).Error)
	}
	return f
}

func (f *fixture) addTable(t *testing.T, number string, capacity int, floor string) entity.Table {
	t.Helper()
	table := entity.Table{
		TableNumber: number, Capacity: capacity, Floor: floor,
		IsActive: true, RestaurantID: f.Restaurant.ID,
	}
	require.NoError(t, f.DB.Create(&table).Error)
	return table
}

func (f *fixture) addMenuItem(t *testing.T, name string, price int64, prepMinutes int) entity.MenuItem {
	t.Helper()
	item := entity.MenuItem{
		Name: name, Price: price, PreparationTime: prepMinutes,
		IsActive: true, RestaurantID: f.Restaurant.ID,
	}
	require.NoError(t, f.DB.Create(&item).Error)
	return item
}

// testClock is a frozen Now for deterministic policy and validation
// checks: 2025-06-01 10:00 local time.
var testClock = time.Date(2025, 6, 1, 10, 0, 0, 0, time.Local)

func (f *fixture) reservationService(selector TableSelector) *ReservationService {
	resvRepo := repository.NewReservationRepository(f.DB)
	orderRepo := repository.NewOrderRepository(f.DB)
	tableRepo := repository.NewTableRepository(f.DB)
	restRepo := repository.NewRestaurantRepository(f.DB)

	if selector == nil {
		selector = DeterministicSelector{}
	}
	svc := NewReservationService(
		f.DB, resvRepo, tableRepo, restRepo,
		NewAvailabilityEngine(tableRepo, resvRepo),
		selector,
		CancellationPolicy{MinimumAdvanceHours: 24, EmergencyContact: "Call the restaurant."},
		NewNotifier(resvRepo, orderRepo, nil),
	)
	svc.Now = func() time.Time { return testClock }
	return svc
}

func (f *fixture) orderService() *OrderService {
	resvRepo := repository.NewReservationRepository(f.DB)
	orderRepo := repository.NewOrderRepository(f.DB)
	svc := NewOrderService(
		f.DB, orderRepo,
		repository.NewMenuRepository(f.DB),
		repository.NewRestaurantRepository(f.DB),
		repository.NewUserRepository(f.DB),
		resvRepo,
		NewNotifier(resvRepo, orderRepo, nil),
		0.10, 500,
	)
	svc.Now = func() time.Time { return testClock }
	return svc
}

func gormModel(id uint) gorm.Model {
	return gorm.Model{ID: id}
}

func bookingReq(restaurantID uint) *CreateReservationReq {
	return &CreateReservationReq{
		RestaurantID:  restaurantID,
		Date:          "2025-06-02",
		StartTime:     "19:00",
		DurationHours: 2,
		PartySize:     2,
	}
}
