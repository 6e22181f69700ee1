package services

import (
	"context"
	"time"

	"airline-reservation/internal/status"
	"airline-reservation/internal/store"
	"airline-reservation/models"

	"github.com/shopspring/decimal"
)

const recentBookingsShown = 3

// UnknownRoute labels bookings whose flight has since been deleted.
const UnknownRoute = "Unknown"

type RecentBooking struct {
	Booking models.Booking
	Route   string
}

type PersonalReport struct {
	Passenger models.Passenger

	Total     int
	Confirmed int
	Cancelled int
	Completed int

	// FarePaid sums every booking ever made, cancelled ones included.
	// Passenger.TotalSpent is the account balance after refunds.
	FarePaid decimal.Decimal

	History     []models.Booking
	Recent      []RecentBooking
	GeneratedAt time.Time
}

type ReportService struct {
	store *store.Memory
	now   func() time.Time
}

func NewReportService(st *store.Memory, now func() time.Time) *ReportService {
	if now == nil {
		now = time.Now
	}
	return &ReportService{store: st, now: now}
}

func (s *ReportService) Generate(_ context.Context, passengerID int) (PersonalReport, error) {
	report := PersonalReport{FarePaid: decimal.Zero}

	err := s.store.View(func(tx *store.Tx) error {
		p, ok := tx.Passenger(passengerID)
		if !ok {
			return status.ErrNotAuthenticated
		}
		report.Passenger = p

		for _, b := range tx.Bookings() {
			if b.PassengerID != passengerID {
				continue
			}
			report.History = append(report.History, b)
			report.FarePaid = report.FarePaid.Add(b.FarePaid)
			switch b.Status {
			case models.BookingConfirmed:
				report.Confirmed++
			case models.BookingCancelled:
				report.Cancelled++
			case models.BookingCompleted:
				report.Completed++
			}
		}
		report.Total = len(report.History)

		// most recent first
		for i := len(report.History) - 1; i >= 0 && len(report.Recent) < recentBookingsShown; i-- {
			b := report.History[i]
			route := UnknownRoute
			if f, ok := tx.Flight(b.FlightNo); ok {
				route = f.Origin + " -> " + f.Destination
			}
			report.Recent = append(report.Recent, RecentBooking{Booking: b, Route: route})
		}
		return nil
	})
	if err != nil {
		return PersonalReport{}, err
	}

	report.GeneratedAt = s.now()
	return report, nil
}
