package models

import (
	"github.com/shopspring/decimal"
)

// SeatCounts holds one number per cabin class.
type SeatCounts struct {
	Economy  int `json:"economy"`
	Business int `json:"business"`
	First    int `json:"first"`
}

func (s SeatCounts) Total() int {
	return s.Economy + s.Business + s.First
}

func (s SeatCounts) Of(c CabinClass) int {
	switch c {
	case Business:
		return s.Business
	case First:
		return s.First
	default:
		return s.Economy
	}
}

// Add adjusts the count for c by n and returns the result.
func (s SeatCounts) Add(c CabinClass, n int) SeatCounts {
	switch c {
	case Business:
		s.Business += n
	case First:
		s.First += n
	default:
		s.Economy += n
	}
	return s
}

// ClassFares holds a per-seat fare for every cabin class.
type ClassFares struct {
	Economy  decimal.Decimal `json:"economy"`
	Business decimal.Decimal `json:"business"`
	First    decimal.Decimal `json:"first"`
}

func (f ClassFares) Of(c CabinClass) decimal.Decimal {
	switch c {
	case Business:
		return f.Business
	case First:
		return f.First
	default:
		return f.Economy
	}
}

type Flight struct {
	Number        int       `json:"flight_no"`
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination"`
	DepartureDate Date      `json:"departure_date"`
	DepartureTime TimeOfDay `json:"departure_time"`
	ArrivalDate   Date      `json:"arrival_date"`
	ArrivalTime   TimeOfDay `json:"arrival_time"`

	FareBasis  FareBasis       `json:"fare_basis,omitempty"`
	BaseFare   decimal.Decimal `json:"base_fare"`
	ClassFares ClassFares      `json:"class_fares"`
	Distance   decimal.Decimal `json:"distance"`

	// Class pools are tracked only when ClassCapacity has a non-zero total.
	ClassCapacity  SeatCounts `json:"class_capacity"`
	ClassAvailable SeatCounts `json:"class_available"`
	TotalSeats     int        `json:"total_seats"`
	AvailableSeats int        `json:"available_seats"`

	Status       FlightStatus    `json:"status"`
	TimesBooked  int             `json:"times_booked"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

func (f Flight) TracksClassPools() bool {
	return f.ClassCapacity.Total() > 0
}

// Bookable reports whether the flight is shown to passengers.
func (f Flight) Bookable() bool {
	return f.Status == FlightAvailable && f.AvailableSeats > 0
}
