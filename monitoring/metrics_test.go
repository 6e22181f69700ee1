package monitoring

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"airline-reservation/models"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonitor_TrackOperation(t *testing.T) {
	m := NewMonitor()

	m.TrackOperation("create_booking", nil)
	m.TrackOperation("create_booking", nil)
	m.TrackOperation("create_booking", errors.New("no seats"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.operations.WithLabelValues("create_booking", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("create_booking", "failure")))
}

func TestMonitor_TrackBookingAndRefund(t *testing.T) {
	m := NewMonitor()

	m.TrackBooking(models.Booking{Seats: 2, Class: models.Business, FarePaid: decimal.NewFromInt(1200)})
	m.TrackRefund(decimal.NewFromInt(1080))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.seatsBooked.WithLabelValues("Business")))
	assert.Equal(t, 1200.0, testutil.ToFloat64(m.revenue.WithLabelValues("Business")))
	assert.Equal(t, 1080.0, testutil.ToFloat64(m.refunds))
}

func TestMonitor_SeatGauge(t *testing.T) {
	m := NewMonitor()

	m.SetSeatsAvailable(models.Flight{Number: 101, AvailableSeats: 168})
	assert.Equal(t, 168.0, testutil.ToFloat64(m.seatsFree.WithLabelValues("101")))

	m.ForgetFlight(101)
	assert.Equal(t, 0, testutil.CollectAndCount(m.seatsFree))
}

func TestMonitor_WriteTextfile(t *testing.T) {
	m := NewMonitor()
	m.TrackCompletions(3)

	path := filepath.Join(t.TempDir(), "reservation.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "reservation_bookings_completed_total 3")
}

func TestMonitor_NilIsNoop(t *testing.T) {
	var m *Monitor

	assert.NotPanics(t, func() {
		m.TrackOperation("cancel_booking", nil)
		m.TrackBooking(models.Booking{})
		m.TrackRefund(decimal.Zero)
		m.TrackCompletions(1)
		m.TrackNotification(nil)
		m.SetSeatsAvailable(models.Flight{})
		m.ForgetFlight(1)
	})
	assert.NoError(t, m.WriteTextfile("ignored"))
	assert.Nil(t, m.Registry())
}
