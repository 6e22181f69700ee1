package services

import (
	"testing"

	"airline-reservation/internal/status"
	"airline-reservation/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openFlight(seats int) models.Flight {
	return models.Flight{Number: 101, TotalSeats: seats, AvailableSeats: seats}
}

func TestReserveSeats(t *testing.T) {
	f := openFlight(5)

	require.NoError(t, ReserveSeats(&f, 3, models.Economy))
	assert.Equal(t, 2, f.AvailableSeats)
	assert.Equal(t, 1, f.TimesBooked)
	assert.Equal(t, models.FlightAvailable, f.Status)

	require.NoError(t, ReserveSeats(&f, 2, models.First))
	assert.Equal(t, 0, f.AvailableSeats)
	assert.Equal(t, models.FlightFull, f.Status)

	err := ReserveSeats(&f, 1, models.Economy)
	assert.ErrorIs(t, err, status.ErrInsufficientSeats)
	assert.Equal(t, 2, f.TimesBooked)
}

func TestReserveSeats_RejectsNonPositive(t *testing.T) {
	f := openFlight(5)

	assert.ErrorIs(t, ReserveSeats(&f, 0, models.Economy), status.ErrInvalidSeatCount)
	assert.ErrorIs(t, ReserveSeats(&f, -2, models.Economy), status.ErrInvalidSeatCount)
	assert.Equal(t, openFlight(5), f)
}

func TestReserveSeats_ClassPool(t *testing.T) {
	f := models.Flight{
		TotalSeats:     6,
		AvailableSeats: 6,
		ClassCapacity:  models.SeatCounts{Economy: 4, Business: 2},
		ClassAvailable: models.SeatCounts{Economy: 4, Business: 2},
	}

	err := ReserveSeats(&f, 1, models.First)
	assert.ErrorIs(t, err, status.ErrInsufficientSeats)
	assert.Equal(t, 6, f.AvailableSeats)

	require.NoError(t, ReserveSeats(&f, 2, models.Business))
	assert.Equal(t, models.SeatCounts{Economy: 4}, SeatAvailability(f))
	assert.Equal(t, 4, f.AvailableSeats)
}

func TestReleaseSeats(t *testing.T) {
	f := openFlight(4)
	require.NoError(t, ReserveSeats(&f, 4, models.Economy))
	require.Equal(t, models.FlightFull, f.Status)

	require.NoError(t, ReleaseSeats(&f, 4, models.Economy))
	assert.Equal(t, 4, f.AvailableSeats)
	assert.Equal(t, 0, f.TimesBooked)
	assert.Equal(t, models.FlightAvailable, f.Status)
}

func TestReleaseSeats_GuardsDoubleRelease(t *testing.T) {
	f := openFlight(4)
	require.NoError(t, ReserveSeats(&f, 2, models.Economy))
	require.NoError(t, ReleaseSeats(&f, 2, models.Economy))

	err := ReleaseSeats(&f, 2, models.Economy)
	assert.ErrorIs(t, err, status.ErrSeatOverflow)
	assert.Equal(t, 4, f.AvailableSeats)
	assert.Equal(t, 0, f.TimesBooked)
}

func TestReleaseSeats_GuardsClassPool(t *testing.T) {
	f := models.Flight{
		TotalSeats:     6,
		AvailableSeats: 5,
		ClassCapacity:  models.SeatCounts{Economy: 4, Business: 2},
		ClassAvailable: models.SeatCounts{Economy: 3, Business: 2},
	}

	assert.ErrorIs(t, ReleaseSeats(&f, 1, models.Business), status.ErrSeatOverflow)
	require.NoError(t, ReleaseSeats(&f, 1, models.Economy))
	assert.Equal(t, models.SeatCounts{Economy: 4, Business: 2}, f.ClassAvailable)
}

func TestSeatAvailability_WithoutPools(t *testing.T) {
	assert.Equal(t, models.SeatCounts{Economy: 7}, SeatAvailability(openFlight(7)))
}
