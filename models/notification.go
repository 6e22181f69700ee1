package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type NotificationType string

const (
	NotifyBookingConfirmed NotificationType = "booking_confirmed"
	NotifyBookingCancelled NotificationType = "booking_cancelled"
	NotifyBookingCompleted NotificationType = "booking_completed"
)

type Notification struct {
	ID          string           `json:"id"`
	Type        NotificationType `json:"type"`
	BookingID   int              `json:"booking_id"`
	PassengerID int              `json:"passenger_id"`
	FlightNo    int              `json:"flight_no"`
	Seats       int              `json:"seats"`
	Amount      decimal.Decimal  `json:"amount"`
	Timestamp   time.Time        `json:"timestamp"`
}
