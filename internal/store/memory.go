package store

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"airline-reservation/internal/status"
	"airline-reservation/models"
)

var errReadOnly = errors.New("store: write in read-only transaction")

// FirstBookingID is the id handed out to the first booking of a run.
const FirstBookingID = 1001

type Limits struct {
	Passengers int
	Flights    int
	Bookings   int
}

func DefaultLimits() Limits {
	return Limits{Passengers: 100, Flights: 100, Bookings: 100}
}

// Memory owns every passenger, flight and booking of a run. Callers only
// ever see copies; all mutation happens inside Update.
type Memory struct {
	mu     sync.Mutex
	limits Limits

	passengers   map[int]models.Passenger
	passengerIDs []int

	flights   map[int]models.Flight
	flightNos []int
	// Deleted flight numbers stay retired so old bookings never point at a new flight.
	retired   map[int]bool

	bookings      map[int]models.Booking
	bookingIDs    []int
	lastBookingID int
}

func NewMemory(limits Limits) *Memory {
	return &Memory{
		limits:        limits,
		passengers:    make(map[int]models.Passenger),
		flights:       make(map[int]models.Flight),
		retired:       make(map[int]bool),
		bookings:      make(map[int]models.Booking),
		lastBookingID: FirstBookingID - 1,
	}
}

func (m *Memory) Limits() Limits {
	return m.limits
}

// View runs fn with a read-only transaction.
func (m *Memory) View(fn func(tx *Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return fn(&Tx{m: m})
}

// Update runs fn as one atomic unit. If fn returns an error or panics every
// write it made is undone in reverse order before the lock is released.
func (m *Memory) Update(fn func(tx *Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &Tx{m: m, writable: true}
	defer func() {
		if r := recover(); r != nil {
			tx.rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.rollback()
		return err
	}
	return nil
}

type Tx struct {
	m        *Memory
	writable bool
	undo     []func()
}

func (tx *Tx) rollback() {
	for i := len(tx.undo) - 1; i >= 0; i-- {
		tx.undo[i]()
	}
	tx.undo = nil
}

func (tx *Tx) Passenger(id int) (models.Passenger, bool) {
	p, ok := tx.m.passengers[id]
	return p, ok
}

func (tx *Tx) PassengerCount() int {
	return len(tx.m.passengerIDs)
}

// Passengers returns every passenger in registration order.
func (tx *Tx) Passengers() []models.Passenger {
	out := make([]models.Passenger, 0, len(tx.m.passengerIDs))
	for _, id := range tx.m.passengerIDs {
		out = append(out, tx.m.passengers[id])
	}
	return out
}

func (tx *Tx) InsertPassenger(p models.Passenger) error {
	if !tx.writable {
		return errReadOnly
	}
	if len(tx.m.passengerIDs) >= tx.m.limits.Passengers {
		return status.ErrMaxPassengersReached
	}
	if _, ok := tx.m.passengers[p.ID]; ok {
		return status.ErrInvalidInput
	}

	tx.m.passengers[p.ID] = p
	tx.m.passengerIDs = append(tx.m.passengerIDs, p.ID)
	tx.undo = append(tx.undo, func() {
		delete(tx.m.passengers, p.ID)
		tx.m.passengerIDs = tx.m.passengerIDs[:len(tx.m.passengerIDs)-1]
	})
	return nil
}

func (tx *Tx) SavePassenger(p models.Passenger) error {
	if !tx.writable {
		return errReadOnly
	}
	prev, ok := tx.m.passengers[p.ID]
	if !ok {
		return status.ErrPassengerNotFound
	}

	tx.m.passengers[p.ID] = p
	tx.undo = append(tx.undo, func() { tx.m.passengers[p.ID] = prev })
	return nil
}

func (tx *Tx) Flight(no int) (models.Flight, bool) {
	f, ok := tx.m.flights[no]
	return f, ok
}

// Flights returns every flight in the order it was added.
func (tx *Tx) Flights() []models.Flight {
	out := make([]models.Flight, 0, len(tx.m.flightNos))
	for _, no := range tx.m.flightNos {
		out = append(out, tx.m.flights[no])
	}
	return out
}

func (tx *Tx) InsertFlight(f models.Flight) error {
	if !tx.writable {
		return errReadOnly
	}
	if _, ok := tx.m.flights[f.Number]; ok {
		return status.ErrFlightExists
	}
	if tx.m.retired[f.Number] {
		return fmt.Errorf("%w: number %d belonged to a deleted flight", status.ErrFlightExists, f.Number)
	}
	if len(tx.m.flightNos) >= tx.m.limits.Flights {
		return status.ErrMaxFlightsReached
	}

	tx.m.flights[f.Number] = f
	tx.m.flightNos = append(tx.m.flightNos, f.Number)
	tx.undo = append(tx.undo, func() {
		delete(tx.m.flights, f.Number)
		tx.m.flightNos = tx.m.flightNos[:len(tx.m.flightNos)-1]
	})
	return nil
}

func (tx *Tx) SaveFlight(f models.Flight) error {
	if !tx.writable {
		return errReadOnly
	}
	prev, ok := tx.m.flights[f.Number]
	if !ok {
		return status.ErrFlightNotFound
	}

	tx.m.flights[f.Number] = f
	tx.undo = append(tx.undo, func() { tx.m.flights[f.Number] = prev })
	return nil
}

func (tx *Tx) DeleteFlight(no int) error {
	if !tx.writable {
		return errReadOnly
	}
	prev, ok := tx.m.flights[no]
	if !ok {
		return status.ErrFlightNotFound
	}
	idx := slices.Index(tx.m.flightNos, no)

	delete(tx.m.flights, no)
	tx.m.flightNos = slices.Delete(tx.m.flightNos, idx, idx+1)
	tx.m.retired[no] = true
	tx.undo = append(tx.undo, func() {
		delete(tx.m.retired, no)
		tx.m.flights[no] = prev
		tx.m.flightNos = slices.Insert(tx.m.flightNos, idx, no)
	})
	return nil
}

func (tx *Tx) Booking(id int) (models.Booking, bool) {
	b, ok := tx.m.bookings[id]
	return b, ok
}

// Bookings returns every booking in insertion order.
func (tx *Tx) Bookings() []models.Booking {
	out := make([]models.Booking, 0, len(tx.m.bookingIDs))
	for _, id := range tx.m.bookingIDs {
		out = append(out, tx.m.bookings[id])
	}
	return out
}

// NextBookingID advances the booking id counter. The advance is undone
// with the rest of the transaction.
func (tx *Tx) NextBookingID() (int, error) {
	if !tx.writable {
		return 0, errReadOnly
	}
	tx.m.lastBookingID++
	tx.undo = append(tx.undo, func() { tx.m.lastBookingID-- })
	return tx.m.lastBookingID, nil
}

func (tx *Tx) InsertBooking(b models.Booking) error {
	if !tx.writable {
		return errReadOnly
	}
	if len(tx.m.bookingIDs) >= tx.m.limits.Bookings {
		return status.ErrMaxBookingsReached
	}
	if _, ok := tx.m.bookings[b.ID]; ok {
		return status.ErrInvalidInput
	}

	tx.m.bookings[b.ID] = b
	tx.m.bookingIDs = append(tx.m.bookingIDs, b.ID)
	tx.undo = append(tx.undo, func() {
		delete(tx.m.bookings, b.ID)
		tx.m.bookingIDs = tx.m.bookingIDs[:len(tx.m.bookingIDs)-1]
	})
	return nil
}

func (tx *Tx) SaveBooking(b models.Booking) error {
	if !tx.writable {
		return errReadOnly
	}
	prev, ok := tx.m.bookings[b.ID]
	if !ok {
		return status.ErrBookingNotFound
	}

	tx.m.bookings[b.ID] = b
	tx.undo = append(tx.undo, func() { tx.m.bookings[b.ID] = prev })
	return nil
}
