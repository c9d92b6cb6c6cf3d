package services

import (
	"context"
	"sync"
	"testing"

	"github.com/laith-prog/rms/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReservation_Succeeds(t *testing.T) {
	f := newFixture(t)
	small := f.addTable(t, "1", 2, entity.FloorGround)
	f.addTable(t, "2", 6, entity.FloorFirst)
	svc := f.reservationService(nil)

	result, err := svc.CreateReservation(context.Background(), f.Customer.ID, bookingReq(f.Restaurant.ID))
	require.NoError(t, err)

	res := result.Reservation
	assert.Equal(t, entity.ReservationPending, res.Status)
	assert.Equal(t, small.ID, res.TableID, "smallest sufficient table wins")
	assert.Equal(t, f.Customer.ID, res.CustomerID)

	// initial audit row
	var updates []entity.ReservationStatusUpdate
	require.NoError(t, f.DB.Where("reservation_id = ?", res.ID).Find(&updates).Error)
	require.Len(t, updates, 1)
	assert.Equal(t, entity.ReservationPending, updates[0].Status)
	assert.False(t, updates[0].IsNotified)

	// selection record
	require.NotNil(t, result.Selection)
	assert.Equal(t, entity.SelectionDeterministic, result.Selection.Method)
	assert.Equal(t, small.ID, result.Selection.SelectedTableID)
	assert.Equal(t, 2, result.Selection.CandidateCount)
}

func TestCreateReservation_NoTableAvailable(t *testing.T) {
	f := newFixture(t)
	table := f.addTable(t, "1", 4, entity.FloorGround)
	seedReservation(t, f, table.ID, "2025-06-02", "19:00", 2, entity.ReservationConfirmed)
	svc := f.reservationService(nil)

	_, err := svc.CreateReservation(context.Background(), f.Customer.ID, bookingReq(f.Restaurant.ID))

	var na *NoAvailabilityError
	require.ErrorAs(t, err, &na)
	assert.Equal(t, f.Restaurant.ID, na.RestaurantID)
	assert.Equal(t, "2025-06-02", na.Date)
}

func TestCreateReservation_AdjacentWindowsShareTable(t *testing.T) {
	f := newFixture(t)
	table := f.addTable(t, "1", 4, entity.FloorGround)
	seedReservation(t, f, table.ID, "2025-06-02", "17:00", 2, entity.ReservationConfirmed)
	svc := f.reservationService(nil)

	// 19:00-21:00 starts exactly when the existing one ends
	result, err := svc.CreateReservation(context.Background(), f.Customer.ID, bookingReq(f.Restaurant.ID))
	require.NoError(t, err)
	assert.Equal(t, table.ID, result.Reservation.TableID)
}

func TestCreateReservation_RejectsPastStart(t *testing.T) {
	f := newFixture(t)
	f.addTable(t, "1", 4, entity.FloorGround)
	svc := f.reservationService(nil)

	req := bookingReq(f.Restaurant.ID)
	req.Date = "2025-05-30"

	_, err := svc.CreateReservation(context.Background(), f.Customer.ID, req)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "date", verr.Field)
}

func TestCreateReservation_UnknownRestaurant(t *testing.T) {
	f := newFixture(t)
	svc := f.reservationService(nil)

	_, err := svc.CreateReservation(context.Background(), f.Customer.ID, bookingReq(999))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "restaurantId", verr.Field)
}

func TestCreateReservation_ConcurrentRequestsOneWinner(t *testing.T) {
	f := newFixture(t)
	f.addTable(t, "1", 4, entity.FloorGround)
	svc := f.reservationService(nil)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateReservation(context.Background(), f.Customer.ID, bookingReq(f.Restaurant.ID))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			var na *NoAvailabilityError
			assert.ErrorAs(t, err, &na)
		}
	}
	assert.Equal(t, 1, succeeded)

	var count int64
	require.NoError(t, f.DB.Model(&entity.Reservation{}).
		Where("status IN ?", []string{entity.ReservationPending, entity.ReservationConfirmed}).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCreateReservation_RecordsAdvisoryFallback(t *testing.T) {
	f := newFixture(t)
	table := f.addTable(t, "1", 4, entity.FloorGround)
	selector := NewAdvisorySelector(nil, 0, 0.4) // no client: always falls back
	svc := f.reservationService(selector)

	result, err := svc.CreateReservation(context.Background(), f.Customer.ID, bookingReq(f.Restaurant.ID))
	require.NoError(t, err)

	assert.Equal(t, table.ID, result.Reservation.TableID)
	assert.Equal(t, entity.SelectionDeterministic, result.Selection.Method)
	assert.Equal(t, errAdvisoryUnavailable.Error(), result.Selection.AdvisoryError)
}

func TestReassignTable(t *testing.T) {
	f := newFixture(t)
	t1 := f.addTable(t, "1", 4, entity.FloorGround)
	t2 := f.addTable(t, "2", 4, entity.FloorGround)
	tiny := f.addTable(t, "3", 1, entity.FloorGround)
	svc := f.reservationService(nil)

	res := seedReservation(t, f, t1.ID, "2025-06-02", "19:00", 2, entity.ReservationConfirmed)

	// non-manager refused
	_, err := svc.ReassignTable(&f.Waiter, res.ID, t2.ID)
	var inv *InvalidTransitionError
	require.ErrorAs(t, err, &inv)

	// capacity checked
	_, err = svc.ReassignTable(&f.Manager, res.ID, tiny.ID)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "tableId", verr.Field)

	// manager moves it
	moved, err := svc.ReassignTable(&f.Manager, res.ID, t2.ID)
	require.NoError(t, err)
	assert.Equal(t, t2.ID, moved.TableID)

	// target occupied for an overlapping window
	seedReservation(t, f, t1.ID, "2025-06-02", "20:00", 2, entity.ReservationConfirmed)
	_, err = svc.ReassignTable(&f.Manager, res.ID, t1.ID)
	var na *NoAvailabilityError
	require.ErrorAs(t, err, &na)
}

func TestListAvailable_UnknownRestaurant(t *testing.T) {
	f := newFixture(t)
	svc := f.reservationService(nil)

	_, err := svc.ListAvailable(999, "2025-06-02", "19:00", 2, 2)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}
