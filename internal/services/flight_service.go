package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"airline-reservation/internal/status"
	"airline-reservation/internal/store"
	"airline-reservation/models"
	"airline-reservation/monitoring"

	"github.com/shopspring/decimal"
)

type FlightInput struct {
	Number        int    `validate:"gt=0"`
	Origin        string `validate:"required,max=50"`
	Destination   string `validate:"required,max=50,nefield=Origin"`
	DepartureDate models.Date
	DepartureTime models.TimeOfDay
	ArrivalDate   models.Date
	ArrivalTime   models.TimeOfDay

	FareBasis  models.FareBasis
	BaseFare   decimal.Decimal
	ClassFares models.ClassFares
	Distance   decimal.Decimal

	// ClassSeats is optional. When set, TotalSeats may be left at zero and
	// is taken from the class sum.
	ClassSeats models.SeatCounts
	TotalSeats int
}

// FlightUpdate changes only the fields that are set.
type FlightUpdate struct {
	Origin        *string `validate:"omitempty,min=1,max=50"`
	Destination   *string `validate:"omitempty,min=1,max=50"`
	DepartureDate *models.Date
	DepartureTime *models.TimeOfDay
	ArrivalDate   *models.Date
	ArrivalTime   *models.TimeOfDay

	FareBasis  *models.FareBasis
	BaseFare   *decimal.Decimal
	ClassFares *models.ClassFares
	Distance   *decimal.Decimal

	ClassSeats *models.SeatCounts
	TotalSeats *int
}

type FlightService struct {
	store   *store.Memory
	monitor *monitoring.Monitor
}

func NewFlightService(st *store.Memory, monitor *monitoring.Monitor) *FlightService {
	return &FlightService{store: st, monitor: monitor}
}

func (s *FlightService) List(_ context.Context) ([]models.Flight, error) {
	var out []models.Flight
	err := s.store.View(func(tx *store.Tx) error {
		out = tx.Flights()
		return nil
	})
	return out, err
}

// ListAvailable returns the flights that still have seats to sell.
func (s *FlightService) ListAvailable(_ context.Context) ([]models.Flight, error) {
	var out []models.Flight
	err := s.store.View(func(tx *store.Tx) error {
		for _, f := range tx.Flights() {
			if f.Bookable() {
				out = append(out, f)
			}
		}
		return nil
	})
	return out, err
}

func (s *FlightService) Get(_ context.Context, flightNo int) (models.Flight, error) {
	var f models.Flight
	err := s.store.View(func(tx *store.Tx) error {
		var ok bool
		f, ok = tx.Flight(flightNo)
		if !ok {
			return fmt.Errorf("%w: %d", status.ErrFlightNotFound, flightNo)
		}
		return nil
	})
	return f, err
}

func (s *FlightService) Add(_ context.Context, in FlightInput) (models.Flight, error) {
	in.Origin = strings.TrimSpace(in.Origin)
	in.Destination = strings.TrimSpace(in.Destination)
	if err := validateStruct(in, status.ErrInvalidFlight); err != nil {
		return models.Flight{}, err
	}

	f := models.Flight{
		Number:        in.Number,
		Origin:        in.Origin,
		Destination:   in.Destination,
		DepartureDate: in.DepartureDate,
		DepartureTime: in.DepartureTime,
		ArrivalDate:   in.ArrivalDate,
		ArrivalTime:   in.ArrivalTime,
		FareBasis:     in.FareBasis,
		BaseFare:      in.BaseFare,
		ClassFares:    in.ClassFares,
		Distance:      in.Distance,
		ClassCapacity: in.ClassSeats,
		TotalSeats:    in.TotalSeats,
		TotalRevenue:  decimal.Zero,
	}
	if err := normalizeFlight(&f); err != nil {
		return models.Flight{}, err
	}
	f.ClassAvailable = f.ClassCapacity
	f.AvailableSeats = f.TotalSeats
	syncFlightStatus(&f)

	err := s.store.Update(func(tx *store.Tx) error {
		return tx.InsertFlight(f)
	})
	s.monitor.TrackOperation("add_flight", err)
	if err != nil {
		return models.Flight{}, err
	}

	s.monitor.SetSeatsAvailable(f)
	slog.Info("flight added", "flight_no", f.Number, "route", f.Origin+"-"+f.Destination, "seats", f.TotalSeats)
	return f, nil
}

// Update edits a flight in place. Seat availability is recomputed from the
// bookings that still hold seats, so capacity cannot shrink below them.
func (s *FlightService) Update(_ context.Context, flightNo int, upd FlightUpdate) (models.Flight, error) {
	upd.Origin = trimmed(upd.Origin)
	upd.Destination = trimmed(upd.Destination)
	if err := validateStruct(upd, status.ErrInvalidFlight); err != nil {
		return models.Flight{}, err
	}

	var f models.Flight
	err := s.store.Update(func(tx *store.Tx) error {
		var ok bool
		f, ok = tx.Flight(flightNo)
		if !ok {
			return fmt.Errorf("%w: %d", status.ErrFlightNotFound, flightNo)
		}
		applyFlightUpdate(&f, upd)
		if f.Origin == f.Destination {
			return fmt.Errorf("%w: origin and destination are both %q", status.ErrInvalidFlight, f.Origin)
		}
		if err := normalizeFlight(&f); err != nil {
			return err
		}

		var held int
		var heldByClass models.SeatCounts
		for _, b := range tx.Bookings() {
			if b.FlightNo == flightNo && b.HoldsSeats() {
				held += b.Seats
				heldByClass = heldByClass.Add(b.Class, b.Seats)
			}
		}
		if f.TotalSeats < held {
			return fmt.Errorf("%w: %d seats already booked on flight %d",
				status.ErrInvalidSeatCount, held, flightNo)
		}
		f.AvailableSeats = f.TotalSeats - held
		f.ClassAvailable = models.SeatCounts{}
		if f.TracksClassPools() {
			for _, c := range models.CabinClasses {
				left := f.ClassCapacity.Of(c) - heldByClass.Of(c)
				if left < 0 {
					return fmt.Errorf("%w: %d %s seats already booked on flight %d",
						status.ErrInvalidSeatCount, heldByClass.Of(c), c, flightNo)
				}
				f.ClassAvailable = f.ClassAvailable.Add(c, left)
			}
		}
		syncFlightStatus(&f)
		return tx.SaveFlight(f)
	})
	s.monitor.TrackOperation("update_flight", err)
	if err != nil {
		return models.Flight{}, err
	}

	s.monitor.SetSeatsAvailable(f)
	slog.Info("flight updated", "flight_no", f.Number)
	return f, nil
}

// Delete removes a flight nobody is still booked on.
func (s *FlightService) Delete(_ context.Context, flightNo int) error {
	err := s.store.Update(func(tx *store.Tx) error {
		if _, ok := tx.Flight(flightNo); !ok {
			return fmt.Errorf("%w: %d", status.ErrFlightNotFound, flightNo)
		}
		for _, b := range tx.Bookings() {
			if b.FlightNo == flightNo && b.Status == models.BookingConfirmed {
				return fmt.Errorf("%w: booking %d", status.ErrFlightHasActiveBookings, b.ID)
			}
		}
		return tx.DeleteFlight(flightNo)
	})
	s.monitor.TrackOperation("delete_flight", err)
	if err != nil {
		return err
	}

	s.monitor.ForgetFlight(flightNo)
	slog.Info("flight deleted", "flight_no", flightNo)
	return nil
}

func applyFlightUpdate(f *models.Flight, upd FlightUpdate) {
	if upd.Origin != nil {
		f.Origin = *upd.Origin
	}
	if upd.Destination != nil {
		f.Destination = *upd.Destination
	}
	if upd.DepartureDate != nil {
		f.DepartureDate = *upd.DepartureDate
	}
	if upd.DepartureTime != nil {
		f.DepartureTime = *upd.DepartureTime
	}
	if upd.ArrivalDate != nil {
		f.ArrivalDate = *upd.ArrivalDate
	}
	if upd.ArrivalTime != nil {
		f.ArrivalTime = *upd.ArrivalTime
	}
	if upd.FareBasis != nil {
		f.FareBasis = *upd.FareBasis
	}
	if upd.BaseFare != nil {
		f.BaseFare = *upd.BaseFare
	}
	if upd.ClassFares != nil {
		f.ClassFares = *upd.ClassFares
	}
	if upd.Distance != nil {
		f.Distance = *upd.Distance
	}
	if upd.ClassSeats != nil {
		f.ClassCapacity = *upd.ClassSeats
		if upd.TotalSeats == nil && upd.ClassSeats.Total() > 0 {
			f.TotalSeats = upd.ClassSeats.Total()
		}
	}
	if upd.TotalSeats != nil {
		f.TotalSeats = *upd.TotalSeats
	}
}

// normalizeFlight checks the schedule, pricing and capacity of f and fills
// TotalSeats from the class pools when it was left at zero.
func normalizeFlight(f *models.Flight) error {
	if !f.DepartureDate.Valid() {
		return fmt.Errorf("%w: departure %s", status.ErrInvalidDate, f.DepartureDate)
	}
	if !f.ArrivalDate.Valid() {
		return fmt.Errorf("%w: arrival %s", status.ErrInvalidDate, f.ArrivalDate)
	}
	if !f.DepartureTime.Valid() {
		return fmt.Errorf("%w: departure %s", status.ErrInvalidTime, f.DepartureTime)
	}
	if !f.ArrivalTime.Valid() {
		return fmt.Errorf("%w: arrival %s", status.ErrInvalidTime, f.ArrivalTime)
	}
	if f.ArrivalDate.Before(f.DepartureDate) {
		return fmt.Errorf("%w: arrives %s before it departs %s",
			status.ErrInvalidFlight, f.ArrivalDate, f.DepartureDate)
	}

	basis, err := models.ParseFareBasis(string(f.FareBasis))
	if err != nil {
		return fmt.Errorf("%w: %v", status.ErrInvalidFlight, err)
	}
	f.FareBasis = basis
	for _, amount := range []decimal.Decimal{
		f.BaseFare, f.Distance, f.ClassFares.Economy, f.ClassFares.Business, f.ClassFares.First,
	} {
		if amount.IsNegative() {
			return fmt.Errorf("%w: negative fare or distance %s", status.ErrInvalidFlight, amount)
		}
	}

	c := f.ClassCapacity
	if c.Economy < 0 || c.Business < 0 || c.First < 0 {
		return fmt.Errorf("%w: negative class capacity", status.ErrInvalidSeatCount)
	}
	if c.Total() > 0 {
		if f.TotalSeats == 0 {
			f.TotalSeats = c.Total()
		} else if f.TotalSeats != c.Total() {
			return fmt.Errorf("%w: class seats add up to %d, total is %d",
				status.ErrInvalidSeatCount, c.Total(), f.TotalSeats)
		}
	}
	if f.TotalSeats <= 0 {
		return fmt.Errorf("%w: flight needs at least one seat", status.ErrInvalidSeatCount)
	}
	return nil
}
