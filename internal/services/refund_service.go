package services

import (
	"airline-reservation/models"

	"github.com/shopspring/decimal"
)

type refundTier struct {
	minDays int
	rate    decimal.Decimal
}

// Tiers are checked top-down; the first one whose threshold is met wins.
var refundTiers = []refundTier{
	{minDays: 7, rate: decimal.RequireFromString("0.9")},
	{minDays: 3, rate: decimal.RequireFromString("0.5")},
	{minDays: 1, rate: decimal.RequireFromString("0.2")},
}

// DaysBefore approximates the days between today and the travel date with
// 30-day months and 365-day years. Refund tiers depend on this exact
// arithmetic, so it must not be replaced with calendar subtraction.
func DaysBefore(travel, today models.Date) int {
	return (travel.Year-today.Year)*365 +
		(travel.Month-today.Month)*30 +
		(travel.Day - today.Day)
}

// RefundRate returns the share of the fare refunded daysBefore travel.
func RefundRate(daysBefore int) decimal.Decimal {
	for _, tier := range refundTiers {
		if daysBefore >= tier.minDays {
			return tier.rate
		}
	}
	return decimal.Zero
}

// ComputeRefund returns the amount given back when b is cancelled today.
func ComputeRefund(b models.Booking, today models.Date) decimal.Decimal {
	return b.FarePaid.Mul(RefundRate(DaysBefore(b.TravelDate, today)))
}
