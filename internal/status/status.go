package status

import (
	"errors"
	"fmt"
)

var (
	ErrNotAuthenticated   = errors.New("auth: not authenticated")
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrInvalidInput       = errors.New("input: invalid input")
	ErrInvalidEmail       = errors.New("input: invalid email")
	ErrInvalidDate        = errors.New("input: invalid date")
	ErrInvalidTime        = errors.New("input: invalid time")
	ErrDateNotInFuture    = errors.New("input: travel date must be in the future")
	ErrInvalidSeatCount   = errors.New("input: invalid seat count")
)

var (
	ErrMaxCapacityReached   = errors.New("capacity: maximum capacity reached")
	ErrMaxPassengersReached = fmt.Errorf("%w: passengers", ErrMaxCapacityReached)
	ErrMaxFlightsReached    = fmt.Errorf("%w: flights", ErrMaxCapacityReached)
	ErrMaxBookingsReached   = fmt.Errorf("%w: bookings", ErrMaxCapacityReached)
)

var (
	ErrFlightNotFound          = errors.New("flight: flight not found")
	ErrFlightExists            = errors.New("flight: flight number already exists")
	ErrFlightNotAvailable      = errors.New("flight: flight not available")
	ErrInsufficientSeats       = fmt.Errorf("%w: insufficient seats", ErrFlightNotAvailable)
	ErrFlightHasActiveBookings = errors.New("flight: flight has active bookings")
	ErrInvalidFlight           = errors.New("flight: invalid flight details")
	ErrSeatOverflow            = errors.New("flight: released seats exceed capacity")
)

var (
	ErrBookingNotFound       = errors.New("booking: booking not found")
	ErrAlreadyCancelled      = errors.New("booking: booking already cancelled")
	ErrCannotCancelCompleted = errors.New("booking: cannot cancel a completed booking")
)

var (
	ErrPassengerNotFound = errors.New("passenger: passenger not found")
	ErrEmailTaken        = errors.New("passenger: email already registered")
	ErrWeakPassword      = errors.New("passenger: password must be at least 6 characters")
	ErrPasswordMismatch  = errors.New("passenger: passwords do not match")
)
