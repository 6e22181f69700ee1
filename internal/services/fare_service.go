package services

import (
	"airline-reservation/models"

	"github.com/shopspring/decimal"
)

var (
	economyMultiplier  = decimal.NewFromInt(1)
	businessMultiplier = decimal.NewFromInt(2)
	firstMultiplier    = decimal.RequireFromString("3.5")
	hundred            = decimal.NewFromInt(100)
)

// ClassMultiplier returns the fare multiplier for a cabin class. Values
// outside the known classes are priced as Economy.
func ClassMultiplier(c models.CabinClass) decimal.Decimal {
	switch c {
	case models.Business:
		return businessMultiplier
	case models.First:
		return firstMultiplier
	default:
		return economyMultiplier
	}
}

// FareStrategy prices a number of seats in one cabin class on a flight.
// The result covers all seats and is not rounded.
type FareStrategy interface {
	Fare(f models.Flight, seats int, class models.CabinClass) decimal.Decimal
}

// FlatRate charges BaseFare per seat.
type FlatRate struct{}

func (FlatRate) Fare(f models.Flight, seats int, class models.CabinClass) decimal.Decimal {
	return f.BaseFare.Mul(decimal.NewFromInt(int64(seats))).Mul(ClassMultiplier(class))
}

// DistanceRate reads BaseFare as a rate per 100 distance units.
type DistanceRate struct{}

func (DistanceRate) Fare(f models.Flight, seats int, class models.CabinClass) decimal.Decimal {
	return f.Distance.
		Mul(f.BaseFare.Div(hundred)).
		Mul(ClassMultiplier(class)).
		Mul(decimal.NewFromInt(int64(seats)))
}

// ClassRate charges the flight's own per-class fare, which already reflects
// the cabin, so no multiplier is applied.
type ClassRate struct{}

func (ClassRate) Fare(f models.Flight, seats int, class models.CabinClass) decimal.Decimal {
	return f.ClassFares.Of(class).Mul(decimal.NewFromInt(int64(seats)))
}

type FareEngine struct {
	fallback   models.FareBasis
	strategies map[models.FareBasis]FareStrategy
}

func NewFareEngine(fallback models.FareBasis) *FareEngine {
	if fallback == models.FareBasisDefault {
		fallback = models.FareBasisFlat
	}
	return &FareEngine{
		fallback: fallback,
		strategies: map[models.FareBasis]FareStrategy{
			models.FareBasisFlat:     FlatRate{},
			models.FareBasisDistance: DistanceRate{},
			models.FareBasisClass:    ClassRate{},
		},
	}
}

// Basis resolves the pricing model used for f.
func (e *FareEngine) Basis(f models.Flight) models.FareBasis {
	if _, ok := e.strategies[f.FareBasis]; ok {
		return f.FareBasis
	}
	return e.fallback
}

func (e *FareEngine) Compute(f models.Flight, seats int, class models.CabinClass) decimal.Decimal {
	return e.strategies[e.Basis(f)].Fare(f, seats, class)
}
