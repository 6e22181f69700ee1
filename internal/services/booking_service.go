package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"airline-reservation/internal/status"
	"airline-reservation/internal/store"
	"airline-reservation/models"
	"airline-reservation/monitoring"

	"github.com/shopspring/decimal"
)

type BookingRequest struct {
	PassengerID int
	FlightNo    int
	Seats       int
	Class       models.CabinClass
	TravelDate  models.Date
}

// BookingService is the only writer of bookings and of the passenger and
// flight counters that follow from them.
type BookingService struct {
	store    *store.Memory
	fares    *FareEngine
	notifier Notifier
	monitor  *monitoring.Monitor
	now      func() time.Time
}

func NewBookingService(st *store.Memory, fares *FareEngine, notifier Notifier, monitor *monitoring.Monitor, now func() time.Time) *BookingService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if now == nil {
		now = time.Now
	}
	return &BookingService{
		store:    st,
		fares:    fares,
		notifier: notifier,
		monitor:  monitor,
		now:      now,
	}
}

func (s *BookingService) today() models.Date {
	return models.DateOf(s.now())
}

func (s *BookingService) CreateBooking(ctx context.Context, req BookingRequest) (models.Booking, error) {
	var (
		booking models.Booking
		flight  models.Flight
	)
	today := s.today()

	err := s.store.Update(func(tx *store.Tx) error {
		passenger, ok := tx.Passenger(req.PassengerID)
		if !ok {
			return status.ErrNotAuthenticated
		}

		flight, ok = tx.Flight(req.FlightNo)
		if !ok {
			return fmt.Errorf("%w: %d", status.ErrFlightNotFound, req.FlightNo)
		}
		if flight.Status == models.FlightFull {
			return fmt.Errorf("%w: flight %d is full", status.ErrFlightNotAvailable, flight.Number)
		}

		if req.Seats < 1 {
			return fmt.Errorf("%w: %d", status.ErrInvalidSeatCount, req.Seats)
		}
		if !req.TravelDate.Valid() {
			return fmt.Errorf("%w: %s", status.ErrInvalidDate, req.TravelDate)
		}
		if !req.TravelDate.After(today) {
			return fmt.Errorf("%w: %s", status.ErrDateNotInFuture, req.TravelDate)
		}

		fare := s.fares.Compute(flight, req.Seats, req.Class)

		if err := ReserveSeats(&flight, req.Seats, req.Class); err != nil {
			return err
		}

		id, err := tx.NextBookingID()
		if err != nil {
			return err
		}
		booking = models.Booking{
			ID:          id,
			PassengerID: passenger.ID,
			FlightNo:    flight.Number,
			BookingDate: today,
			TravelDate:  req.TravelDate,
			Seats:       req.Seats,
			Class:       req.Class,
			FarePaid:    fare,
			Refund:      decimal.Zero,
			Status:      models.BookingConfirmed,
		}
		if err := tx.InsertBooking(booking); err != nil {
			return err
		}

		passenger.TotalBookings++
		passenger.TotalSpent = passenger.TotalSpent.Add(fare)
		if err := tx.SavePassenger(passenger); err != nil {
			return err
		}

		flight.TotalRevenue = flight.TotalRevenue.Add(fare)
		return tx.SaveFlight(flight)
	})
	s.monitor.TrackOperation("create_booking", err)
	if err != nil {
		return models.Booking{}, err
	}

	s.monitor.TrackBooking(booking)
	s.monitor.SetSeatsAvailable(flight)
	slog.Info("booking confirmed",
		"booking_id", booking.ID,
		"passenger_id", booking.PassengerID,
		"flight_no", booking.FlightNo,
		"seats", booking.Seats,
		"class", booking.Class.String(),
		"fare", booking.FarePaid.StringFixed(2))
	s.publish(ctx, models.NotifyBookingConfirmed, booking)

	return booking, nil
}

// CancelBooking cancels one of the passenger's own bookings and returns the
// refund granted.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID, passengerID int) (decimal.Decimal, error) {
	var (
		booking models.Booking
		flight  models.Flight
		tracked bool
	)
	today := s.today()

	err := s.store.Update(func(tx *store.Tx) error {
		passenger, ok := tx.Passenger(passengerID)
		if !ok {
			return status.ErrNotAuthenticated
		}

		booking, ok = tx.Booking(bookingID)
		if !ok || booking.PassengerID != passengerID {
			return fmt.Errorf("%w: %d", status.ErrBookingNotFound, bookingID)
		}
		switch booking.Status {
		case models.BookingCancelled:
			return fmt.Errorf("%w: %d", status.ErrAlreadyCancelled, bookingID)
		case models.BookingCompleted:
			return fmt.Errorf("%w: %d", status.ErrCannotCancelCompleted, bookingID)
		}

		refund := ComputeRefund(booking, today)
		booking.Status = models.BookingCancelled
		booking.Refund = refund
		if err := tx.SaveBooking(booking); err != nil {
			return err
		}

		// A deleted flight has no inventory left to return seats to.
		flight, tracked = tx.Flight(booking.FlightNo)
		if tracked {
			if err := ReleaseSeats(&flight, booking.Seats, booking.Class); err != nil {
				return err
			}
			flight.TotalRevenue = flight.TotalRevenue.Sub(refund)
			if err := tx.SaveFlight(flight); err != nil {
				return err
			}
		}

		passenger.TotalSpent = passenger.TotalSpent.Sub(refund)
		if passenger.TotalBookings > 0 {
			passenger.TotalBookings--
		}
		return tx.SavePassenger(passenger)
	})
	s.monitor.TrackOperation("cancel_booking", err)
	if err != nil {
		return decimal.Zero, err
	}

	s.monitor.TrackRefund(booking.Refund)
	if tracked {
		s.monitor.SetSeatsAvailable(flight)
	}
	slog.Info("booking cancelled",
		"booking_id", booking.ID,
		"passenger_id", booking.PassengerID,
		"flight_no", booking.FlightNo,
		"refund", booking.Refund.StringFixed(2))
	s.publish(ctx, models.NotifyBookingCancelled, booking)

	return booking.Refund, nil
}

// Quote prices one seat of class on f without booking it and names the
// basis used.
func (s *BookingService) Quote(f models.Flight, class models.CabinClass) (models.FareBasis, decimal.Decimal) {
	return s.fares.Basis(f), s.fares.Compute(f, 1, class)
}

// FindByPassenger returns the passenger's bookings in the order they were made.
func (s *BookingService) FindByPassenger(_ context.Context, passengerID int) ([]models.Booking, error) {
	var out []models.Booking
	err := s.store.View(func(tx *store.Tx) error {
		if _, ok := tx.Passenger(passengerID); !ok {
			return status.ErrNotAuthenticated
		}
		for _, b := range tx.Bookings() {
			if b.PassengerID == passengerID {
				out = append(out, b)
			}
		}
		return nil
	})
	return out, err
}

func (s *BookingService) ListAll(_ context.Context) ([]models.Booking, error) {
	var out []models.Booking
	err := s.store.View(func(tx *store.Tx) error {
		out = tx.Bookings()
		return nil
	})
	return out, err
}

// Get returns a booking only to the passenger who owns it.
func (s *BookingService) Get(_ context.Context, bookingID, passengerID int) (models.Booking, error) {
	var b models.Booking
	err := s.store.View(func(tx *store.Tx) error {
		var ok bool
		b, ok = tx.Booking(bookingID)
		if !ok || b.PassengerID != passengerID {
			return fmt.Errorf("%w: %d", status.ErrBookingNotFound, bookingID)
		}
		return nil
	})
	return b, err
}

// CompleteDue marks every confirmed booking whose travel date has passed as
// Completed. Seats stay held and passenger totals are left alone.
func (s *BookingService) CompleteDue(ctx context.Context) (int, error) {
	var completed []models.Booking
	today := s.today()

	err := s.store.Update(func(tx *store.Tx) error {
		for _, b := range tx.Bookings() {
			if b.Status != models.BookingConfirmed || !b.TravelDate.Before(today) {
				continue
			}
			b.Status = models.BookingCompleted
			if err := tx.SaveBooking(b); err != nil {
				return err
			}
			completed = append(completed, b)
		}
		return nil
	})
	s.monitor.TrackOperation("complete_due", err)
	if err != nil {
		return 0, err
	}

	s.monitor.TrackCompletions(len(completed))
	if len(completed) > 0 {
		slog.Info("bookings completed", "count", len(completed), "as_of", today.String())
	}
	for _, b := range completed {
		s.publish(ctx, models.NotifyBookingCompleted, b)
	}
	return len(completed), nil
}

func (s *BookingService) publish(ctx context.Context, kind models.NotificationType, b models.Booking) {
	note := NewNotification(kind, b, s.now())
	if err := s.notifier.Notify(ctx, note); err != nil {
		slog.Warn("failed to publish booking event", "error", err, "type", kind, "booking_id", b.ID)
	}
}
