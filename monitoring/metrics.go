package monitoring

import (
	"strconv"

	"airline-reservation/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

// Monitor records reservation metrics on its own registry. A nil *Monitor
// is valid and records nothing.
type Monitor struct {
	registry *prometheus.Registry

	operations    *prometheus.CounterVec
	seatsBooked   *prometheus.CounterVec
	revenue       *prometheus.CounterVec
	refunds       prometheus.Counter
	completions   prometheus.Counter
	seatsFree     *prometheus.GaugeVec
	notifications *prometheus.CounterVec
}

func NewMonitor() *Monitor {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Monitor{
		registry: reg,
		operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reservation_operations_total",
				Help: "Reservation operations by outcome",
			},
			[]string{"operation", "status"},
		),
		seatsBooked: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reservation_seats_booked_total",
				Help: "Seats sold per cabin class",
			},
			[]string{"class"},
		),
		revenue: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reservation_fares_total",
				Help: "Fares charged per cabin class",
			},
			[]string{"class"},
		),
		refunds: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "reservation_refunds_total",
				Help: "Amount refunded on cancellations",
			},
		),
		completions: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "reservation_bookings_completed_total",
				Help: "Bookings moved to Completed after travel",
			},
		),
		seatsFree: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "reservation_seats_available",
				Help: "Seats currently available per flight",
			},
			[]string{"flight_no"},
		),
		notifications: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reservation_notifications_total",
				Help: "Booking notifications by outcome",
			},
			[]string{"status"},
		),
	}
}

func (m *Monitor) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// TrackOperation counts an operation as success or failure.
func (m *Monitor) TrackOperation(operation string, err error) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, outcome(err)).Inc()
}

func (m *Monitor) TrackBooking(b models.Booking) {
	if m == nil {
		return
	}
	class := b.Class.String()
	m.seatsBooked.WithLabelValues(class).Add(float64(b.Seats))
	m.revenue.WithLabelValues(class).Add(b.FarePaid.InexactFloat64())
}

func (m *Monitor) TrackRefund(refund decimal.Decimal) {
	if m == nil {
		return
	}
	m.refunds.Add(refund.InexactFloat64())
}

func (m *Monitor) TrackCompletions(n int) {
	if m == nil {
		return
	}
	m.completions.Add(float64(n))
}

func (m *Monitor) TrackNotification(err error) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(outcome(err)).Inc()
}

// SetSeatsAvailable publishes the current free seats of a flight.
func (m *Monitor) SetSeatsAvailable(f models.Flight) {
	if m == nil {
		return
	}
	m.seatsFree.WithLabelValues(strconv.Itoa(f.Number)).Set(float64(f.AvailableSeats))
}

func (m *Monitor) ForgetFlight(flightNo int) {
	if m == nil {
		return
	}
	m.seatsFree.DeleteLabelValues(strconv.Itoa(flightNo))
}

// WriteTextfile dumps every metric in the text exposition format, for the
// node exporter textfile collector.
func (m *Monitor) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}

func outcome(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
