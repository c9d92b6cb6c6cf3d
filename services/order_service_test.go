package services

import (
	"testing"

	"github.com/laith-prog/rms/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrder_DerivesMoneyFields(t *testing.T) {
	f := newFixture(t)
	burger := f.addMenuItem(t, "Burger", 1500, 10)
	fries := f.addMenuItem(t, "Fries", 500, 5)
	svc := f.orderService()

	order, err := svc.Create(f.Customer.ID, &CreateOrderReq{
		RestaurantID: f.Restaurant.ID,
		OrderType:    entity.OrderPickup,
		Items: []OrderItemIn{
			{MenuItemID: burger.ID, Quantity: 1},
			{MenuItemID: fries.ID, Quantity: 2},
		},
	})
	require.NoError(t, err)

	assert.EqualValues(t, 2500, order.Subtotal) // 1500 + 2*500
	assert.EqualValues(t, 250, order.Tax)       // 10%
	assert.EqualValues(t, 0, order.DeliveryFee) // pickup
	assert.EqualValues(t, 2750, order.Total)
	assert.Equal(t, entity.OrderPending, order.Status)

	// price snapshots on the items
	items, err := svc.Repo.Items(order.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	// initial audit row
	history, err := svc.Repo.StatusHistory(order.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, entity.OrderPending, history[0].Status)
}

func TestCreateOrder_DeliveryFeeAndAddress(t *testing.T) {
	f := newFixture(t)
	burger := f.addMenuItem(t, "Burger", 1000, 10)
	svc := f.orderService()

	_, err := svc.Create(f.Customer.ID, &CreateOrderReq{
		RestaurantID: f.Restaurant.ID,
		OrderType:    entity.OrderDelivery,
		Items:        []OrderItemIn{{MenuItemID: burger.ID, Quantity: 1}},
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "deliveryAddress", verr.Field)

	order, err := svc.Create(f.Customer.ID, &CreateOrderReq{
		RestaurantID:    f.Restaurant.ID,
		OrderType:       entity.OrderDelivery,
		DeliveryAddress: "1 Elm Street",
		Items:           []OrderItemIn{{MenuItemID: burger.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 500, order.DeliveryFee)
	assert.EqualValues(t, 1000+100+500, order.Total)
}

func TestCreateOrder_RejectsForeignMenuItems(t *testing.T) {
	f := newFixture(t)
	other := entity.Restaurant{Name: "Elsewhere", IsActive: true, OffersDineIn: true}
	require.NoError(t, f.DB.Create(&other).Error)
	foreign := entity.MenuItem{Name: "Foreign", Price: 900, IsActive: true, RestaurantID: other.ID}
	require.NoError(t, f.DB.Create(&foreign).Error)
	svc := f.orderService()

	_, err := svc.Create(f.Customer.ID, &CreateOrderReq{
		RestaurantID: f.Restaurant.ID,
		OrderType:    entity.OrderPickup,
		Items:        []OrderItemIn{{MenuItemID: foreign.ID, Quantity: 1}},
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "items", verr.Field)
}

func TestCreateOrder_ReservationLinkage(t *testing.T) {
	f := newFixture(t)
	table := f.addTable(t, "1", 4, entity.FloorGround)
	burger := f.addMenuItem(t, "Burger", 1000, 10)
	svc := f.orderService()

	res := seedReservation(t, f, table.ID, "2025-06-02", "19:00", 2, entity.ReservationConfirmed)

	order, err := svc.Create(f.Customer.ID, &CreateOrderReq{
		RestaurantID:  f.Restaurant.ID,
		OrderType:     entity.OrderDineIn,
		ReservationID: &res.ID,
		Items:         []OrderItemIn{{MenuItemID: burger.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	require.NotNil(t, order.ReservationID)
	assert.Equal(t, res.ID, *order.ReservationID)

	// cancelled reservation cannot carry an order
	cancelled := seedReservation(t, f, table.ID, "2025-06-03", "19:00", 2, entity.ReservationCancelled)
	_, err = svc.Create(f.Customer.ID, &CreateOrderReq{
		RestaurantID:  f.Restaurant.ID,
		OrderType:     entity.OrderDineIn,
		ReservationID: &cancelled.ID,
		Items:         []OrderItemIn{{MenuItemID: burger.ID, Quantity: 1}},
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "reservationId", verr.Field)

	// someone else's reservation
	stranger := entity.User{Email: "other@test.local", Role: entity.RoleCustomer, IsActive: true}
	require.NoError(t, f.DB.Create(&stranger).Error)
	_, err = svc.Create(stranger.ID, &CreateOrderReq{
		RestaurantID:  f.Restaurant.ID,
		OrderType:     entity.OrderDineIn,
		ReservationID: &res.ID,
		Items:         []OrderItemIn{{MenuItemID: burger.ID, Quantity: 1}},
	})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "reservationId", verr.Field)
}

func TestAddItem_RecomputesTotals(t *testing.T) {
	f := newFixture(t)
	burger := f.addMenuItem(t, "Burger", 1500, 10)
	fries := f.addMenuItem(t, "Fries", 500, 5)
	svc := f.orderService()

	order, err := svc.Create(f.Customer.ID, &CreateOrderReq{
		RestaurantID: f.Restaurant.ID,
		OrderType:    entity.OrderPickup,
		Items:        []OrderItemIn{{MenuItemID: burger.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	updated, err := svc.AddItem(f.Customer.ID, order.ID, OrderItemIn{MenuItemID: fries.ID, Quantity: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 2500, updated.Subtotal)
	assert.EqualValues(t, 250, updated.Tax)
	assert.EqualValues(t, 2750, updated.Total)
}

func TestAddItem_OnlyWhilePending(t *testing.T) {
	f := newFixture(t)
	burger := f.addMenuItem(t, "Burger", 1500, 10)
	fries := f.addMenuItem(t, "Fries", 500, 5)
	svc := f.orderService()

	order, err := svc.Create(f.Customer.ID, &CreateOrderReq{
		RestaurantID: f.Restaurant.ID,
		OrderType:    entity.OrderPickup,
		Items:        []OrderItemIn{{MenuItemID: burger.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	_, _, err = svc.Transition(&f.Manager, order.ID, entity.OrderApproved, "")
	require.NoError(t, err)

	_, err = svc.AddItem(f.Customer.ID, order.ID, OrderItemIn{MenuItemID: fries.ID, Quantity: 1})
	var inv *InvalidTransitionError
	require.ErrorAs(t, err, &inv)
}

func TestEstimatePreparationTime_SlowestLineWins(t *testing.T) {
	items := []entity.OrderItem{
		{Quantity: 1, MenuItem: entity.MenuItem{PreparationTime: 10}},
		{Quantity: 2, MenuItem: entity.MenuItem{PreparationTime: 15}},
		{Quantity: 3, MenuItem: entity.MenuItem{PreparationTime: 5}},
	}
	// 10, 30 and 15 minute lines run in parallel
	assert.Equal(t, 30, estimatePreparationTime(items))
	assert.Equal(t, 0, estimatePreparationTime(nil))
}

func TestApprove_SetsEstimatedPreparationTime(t *testing.T) {
	f := newFixture(t)
	slow := f.addMenuItem(t, "Roast", 2000, 25)
	fast := f.addMenuItem(t, "Salad", 800, 5)
	svc := f.orderService()

	order, err := svc.Create(f.Customer.ID, &CreateOrderReq{
		RestaurantID: f.Restaurant.ID,
		OrderType:    entity.OrderPickup,
		Items: []OrderItemIn{
			{MenuItemID: slow.ID, Quantity: 2},
			{MenuItemID: fast.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)
	assert.Zero(t, order.EstimatedPreparationTime)

	approved, _, err := svc.Transition(&f.Manager, order.ID, entity.OrderApproved, "")
	require.NoError(t, err)
	assert.Equal(t, 50, approved.EstimatedPreparationTime) // 25min x 2
}
