package services

import (
	"testing"

	"github.com/laith-prog/rms/entity"
	"github.com/laith-prog/rms/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func availabilityEngine(f *fixture) *AvailabilityEngine {
	return NewAvailabilityEngine(
		repository.NewTableRepository(f.DB),
		repository.NewReservationRepository(f.DB),
	)
}

func seedReservation(t *testing.T, f *fixture, tableID uint, date, start string, hours int, status string) entity.Reservation {
	t.Helper()
	res := entity.Reservation{
		PartySize: 2, ReservationDate: date, StartTime: start, DurationHours: hours,
		Status: status, CustomerID: f.Customer.ID, RestaurantID: f.Restaurant.ID, TableID: tableID,
	}
	require.NoError(t, f.DB.Create(&res).Error)
	return res
}

func TestFindAvailableTables_FiltersByCapacity(t *testing.T) {
	f := newFixture(t)
	f.addTable(t, "1", 2, entity.FloorGround)
	big := f.addTable(t, "2", 6, entity.FloorGround)

	free, err := availabilityEngine(f).FindAvailableTables(nil, f.Restaurant.ID, "2025-06-02", "19:00", 2, 4)
	require.NoError(t, err)
	require.Len(t, free, 1)
	assert.Equal(t, big.ID, free[0].ID)
}

func TestFindAvailableTables_OrdersSmallestSufficientFirst(t *testing.T) {
	f := newFixture(t)
	f.addTable(t, "9", 8, entity.FloorFirst)
	f.addTable(t, "1", 4, entity.FloorGround)
	f.addTable(t, "2", 4, entity.FloorGround)

	free, err := availabilityEngine(f).FindAvailableTables(nil, f.Restaurant.ID, "2025-06-02", "19:00", 1, 3)
	require.NoError(t, err)
	require.Len(t, free, 3)
	assert.Equal(t, 4, free[0].Capacity)
	assert.Equal(t, "1", free[0].TableNumber)
	assert.Equal(t, "2", free[1].TableNumber)
	assert.Equal(t, 8, free[2].Capacity)
}

func TestFindAvailableTables_OverlapBlocks(t *testing.T) {
	f := newFixture(t)
	table := f.addTable(t, "1", 4, entity.FloorGround)
	seedReservation(t, f, table.ID, "2025-06-02", "19:00", 2, entity.ReservationConfirmed)

	cases := []struct {
		name  string
		start string
		hours int
		free  bool
	}{
		{"same window", "19:00", 2, false},
		{"starts inside", "20:00", 2, false},
		{"ends inside", "18:00", 2, false},
		{"covers fully", "18:00", 4, false},
		{"ends exactly at start", "17:00", 2, true},
		{"starts exactly at end", "21:00", 1, true},
		{"different day", "19:00", 2, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			date := "2025-06-02"
			if tc.name == "different day" {
				date = "2025-06-03"
			}
			free, err := availabilityEngine(f).FindAvailableTables(nil, f.Restaurant.ID, date, tc.start, tc.hours, 2)
			require.NoError(t, err)
			if tc.free {
				assert.Len(t, free, 1)
			} else {
				assert.Empty(t, free)
			}
		})
	}
}

func TestFindAvailableTables_TerminalReservationsDoNotBlock(t *testing.T) {
	f := newFixture(t)
	table := f.addTable(t, "1", 4, entity.FloorGround)
	seedReservation(t, f, table.ID, "2025-06-02", "19:00", 2, entity.ReservationCancelled)
	seedReservation(t, f, table.ID, "2025-06-02", "19:00", 2, entity.ReservationRejected)

	free, err := availabilityEngine(f).FindAvailableTables(nil, f.Restaurant.ID, "2025-06-02", "19:00", 2, 2)
	require.NoError(t, err)
	assert.Len(t, free, 1)
}

func TestFindAvailableTables_InactiveTablesExcluded(t *testing.T) {
	f := newFixture(t)
	table := f.addTable(t, "1", 4, entity.FloorGround)
	require.NoError(t, f.DB.Model(&table).Update("is_active", false).Error)

	free, err := availabilityEngine(f).FindAvailableTables(nil, f.Restaurant.ID, "2025-06-02", "19:00", 2, 2)
	require.NoError(t, err)
	assert.Empty(t, free)
}

func TestFindAvailableTables_Validation(t *testing.T) {
	f := newFixture(t)
	f.addTable(t, "1", 4, entity.FloorGround)
	engine := availabilityEngine(f)

	var verr *ValidationError

	_, err := engine.FindAvailableTables(nil, f.Restaurant.ID, "2025-06-02", "19:00", 2, 0)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "partySize", verr.Field)

	_, err = engine.FindAvailableTables(nil, f.Restaurant.ID, "2025-06-02", "19:00", 0, 2)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "durationHours", verr.Field)

	_, err = engine.FindAvailableTables(nil, f.Restaurant.ID, "02-06-2025", "19:00", 2, 2)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "date", verr.Field)

	_, err = engine.FindAvailableTables(nil, f.Restaurant.ID, "2025-06-02", "7pm", 2, 2)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "time", verr.Field)
}

func TestOverlaps_HalfOpen(t *testing.T) {
	assert.True(t, overlaps(19*60, 21*60, 20*60, 22*60))
	assert.True(t, overlaps(19*60, 21*60, 18*60, 20*60))
	assert.True(t, overlaps(19*60, 21*60, 18*60, 22*60))
	assert.True(t, overlaps(19*60, 21*60, 19*60, 21*60))

	// adjacent windows share a boundary minute but not a table
	assert.False(t, overlaps(17*60, 19*60, 19*60, 21*60))
	assert.False(t, overlaps(21*60, 23*60, 19*60, 21*60))
}
