package models

import "github.com/shopspring/decimal"

type Passenger struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Password string `json:"-"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`

	// Maintained by the booking ledger only.
	TotalBookings int             `json:"total_bookings"`
	TotalSpent    decimal.Decimal `json:"total_spent"`
}
