package models

import "github.com/shopspring/decimal"

type Booking struct {
	ID          int        `json:"booking_id"`
	PassengerID int        `json:"passenger_id"`
	FlightNo    int        `json:"flight_no"`
	BookingDate Date       `json:"booking_date"`
	TravelDate  Date       `json:"travel_date"`
	Seats       int        `json:"seats_booked"`
	Class       CabinClass `json:"class_type"`

	// FarePaid is fixed at creation. A cancellation records Refund instead.
	FarePaid decimal.Decimal `json:"fare_paid"`
	Refund   decimal.Decimal `json:"refund"`

	Status BookingStatus `json:"status"`
}

// HoldsSeats reports whether the booking still counts against flight inventory.
func (b Booking) HoldsSeats() bool {
	return b.Status != BookingCancelled
}
