package services

import (
	"fmt"

	"airline-reservation/internal/status"
	"airline-reservation/models"
)

// ReserveSeats takes seats out of the flight's inventory. When the flight
// tracks class pools the class pool must cover the request as well.
func ReserveSeats(f *models.Flight, seats int, class models.CabinClass) error {
	if seats < 1 {
		return fmt.Errorf("%w: %d", status.ErrInvalidSeatCount, seats)
	}
	if seats > f.AvailableSeats {
		return fmt.Errorf("%w: requested %d, %d left on flight %d",
			status.ErrInsufficientSeats, seats, f.AvailableSeats, f.Number)
	}
	if f.TracksClassPools() {
		if left := f.ClassAvailable.Of(class); seats > left {
			return fmt.Errorf("%w: requested %d %s, %d left on flight %d",
				status.ErrInsufficientSeats, seats, class, left, f.Number)
		}
		f.ClassAvailable = f.ClassAvailable.Add(class, -seats)
	}

	f.AvailableSeats -= seats
	f.TimesBooked++
	syncFlightStatus(f)
	return nil
}

// ReleaseSeats gives seats from a cancelled booking back to the flight. It
// refuses to push availability above capacity, which would mean the same
// booking was released twice.
func ReleaseSeats(f *models.Flight, seats int, class models.CabinClass) error {
	if seats < 1 {
		return fmt.Errorf("%w: %d", status.ErrInvalidSeatCount, seats)
	}
	if f.AvailableSeats+seats > f.TotalSeats {
		return fmt.Errorf("%w: flight %d has %d of %d seats free, cannot release %d",
			status.ErrSeatOverflow, f.Number, f.AvailableSeats, f.TotalSeats, seats)
	}
	if f.TracksClassPools() {
		if f.ClassAvailable.Of(class)+seats > f.ClassCapacity.Of(class) {
			return fmt.Errorf("%w: flight %d %s pool", status.ErrSeatOverflow, f.Number, class)
		}
		f.ClassAvailable = f.ClassAvailable.Add(class, seats)
	}

	f.AvailableSeats += seats
	if f.TimesBooked > 0 {
		f.TimesBooked--
	}
	syncFlightStatus(f)
	return nil
}

// SeatAvailability reports the free seats per class, or only the aggregate
// under Economy when the flight does not track class pools.
func SeatAvailability(f models.Flight) models.SeatCounts {
	if f.TracksClassPools() {
		return f.ClassAvailable
	}
	return models.SeatCounts{Economy: f.AvailableSeats}
}

func syncFlightStatus(f *models.Flight) {
	if f.AvailableSeats == 0 {
		f.Status = models.FlightFull
	} else {
		f.Status = models.FlightAvailable
	}
}
