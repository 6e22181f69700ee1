package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_Valid(t *testing.T) {
	tests := []struct {
		name string
		date Date
		want bool
	}{
		{"ordinary day", Date{Day: 15, Month: 10, Year: 2026}, true},
		{"leap day in leap year", Date{Day: 29, Month: 2, Year: 2028}, true},
		{"leap day in common year", Date{Day: 29, Month: 2, Year: 2026}, false},
		{"century not leap", Date{Day: 29, Month: 2, Year: 2100}, false},
		{"day 31 in 30 day month", Date{Day: 31, Month: 4, Year: 2026}, false},
		{"day zero", Date{Day: 0, Month: 1, Year: 2026}, false},
		{"month 13", Date{Day: 1, Month: 13, Year: 2026}, false},
		{"year before range", Date{Day: 1, Month: 1, Year: MinYear - 1}, false},
		{"year after range", Date{Day: 1, Month: 1, Year: MaxYear + 1}, false},
		{"last supported day", Date{Day: 31, Month: 12, Year: MaxYear}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.date.Valid())
		})
	}
}

func TestIsLeapYear(t *testing.T) {
	assert.True(t, IsLeapYear(2024))
	assert.True(t, IsLeapYear(2000))
	assert.False(t, IsLeapYear(2026))
	assert.False(t, IsLeapYear(1900))

	assert.Equal(t, 29, DaysInMonth(2, 2024))
	assert.Equal(t, 28, DaysInMonth(2, 2025))
	assert.Equal(t, 30, DaysInMonth(9, 2025))
	assert.Equal(t, 31, DaysInMonth(12, 2025))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("25/10/2026")
	require.NoError(t, err)
	assert.Equal(t, Date{Day: 25, Month: 10, Year: 2026}, d)
	assert.Equal(t, "25/10/2026", d.String())

	// Parsing only checks shape; range checks belong to Valid.
	d, err = ParseDate("31/2/2026")
	require.NoError(t, err)
	assert.False(t, d.Valid())

	_, err = ParseDate("tomorrow")
	assert.Error(t, err)
}

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("08:05")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay{Hour: 8, Minute: 5}, tod)
	assert.Equal(t, "8:05", tod.String())
	assert.True(t, tod.Valid())

	assert.False(t, TimeOfDay{Hour: 24}.Valid())
	assert.False(t, TimeOfDay{Minute: 60}.Valid())

	_, err = ParseTimeOfDay("noon")
	assert.Error(t, err)
}

func TestDate_Compare(t *testing.T) {
	a := Date{Day: 30, Month: 11, Year: 2026}
	b := Date{Day: 1, Month: 12, Year: 2026}
	c := Date{Day: 1, Month: 1, Year: 2027}

	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, c.Compare(b))
	assert.Equal(t, 0, b.Compare(b))
	assert.True(t, a.Before(b))
	assert.True(t, c.After(a))
	assert.False(t, b.After(b))

	assert.Equal(t, Date{Day: 15, Month: 10, Year: 2026}, DateOf(time.Date(2026, time.October, 15, 23, 59, 0, 0, time.UTC)))
}

func TestCabinClass(t *testing.T) {
	tests := []struct {
		in   string
		want CabinClass
	}{
		{"economy", Economy},
		{"Business", Business},
		{" first ", First},
		{"first class", First},
		{"2", Business},
		{"3", First},
		{"premium", Economy},
		{"", Economy},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseCabinClass(tt.in), tt.in)
	}

	assert.Equal(t, "CabinClass(7)", CabinClass(7).String())
	assert.False(t, CabinClass(7).Valid())

	b, err := json.Marshal(struct {
		Class CabinClass `json:"class"`
	}{Business})
	require.NoError(t, err)
	assert.JSONEq(t, `{"class":"Business"}`, string(b))
}

func TestBookingStatus(t *testing.T) {
	assert.False(t, BookingConfirmed.Terminal())
	assert.True(t, BookingCancelled.Terminal())
	assert.True(t, BookingCompleted.Terminal())

	var s BookingStatus
	require.NoError(t, s.UnmarshalText([]byte("Completed")))
	assert.Equal(t, BookingCompleted, s)
	assert.Error(t, s.UnmarshalText([]byte("Pending")))

	assert.True(t, Booking{Status: BookingConfirmed}.HoldsSeats())
	assert.True(t, Booking{Status: BookingCompleted}.HoldsSeats())
	assert.False(t, Booking{Status: BookingCancelled}.HoldsSeats())
}

func TestFlightStatus(t *testing.T) {
	var s FlightStatus
	require.NoError(t, s.UnmarshalText([]byte("Full")))
	assert.Equal(t, FlightFull, s)
	assert.Equal(t, "Available", FlightAvailable.String())
	assert.Error(t, s.UnmarshalText([]byte("Boarding")))

	f := Flight{Status: FlightAvailable, AvailableSeats: 3}
	assert.True(t, f.Bookable())
	f.AvailableSeats = 0
	assert.False(t, f.Bookable())
	f = Flight{Status: FlightFull, AvailableSeats: 3}
	assert.False(t, f.Bookable())
}

func TestParseFareBasis(t *testing.T) {
	for in, want := range map[string]FareBasis{
		"":          FareBasisDefault,
		"flat":      FareBasisFlat,
		" Distance": FareBasisDistance,
		"CLASS":     FareBasisClass,
	} {
		got, err := ParseFareBasis(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFareBasis("zonal")
	assert.Error(t, err)
}

func TestSeatCounts(t *testing.T) {
	s := SeatCounts{Economy: 150, Business: 20}
	assert.Equal(t, 170, s.Total())
	assert.Equal(t, 20, s.Of(Business))
	assert.Equal(t, 0, s.Of(First))

	s2 := s.Add(First, 4).Add(Economy, -10)
	assert.Equal(t, SeatCounts{Economy: 140, Business: 20, First: 4}, s2)
	assert.Equal(t, 150, s.Economy, "Add returns a copy")

	assert.False(t, Flight{}.TracksClassPools())
	assert.True(t, Flight{ClassCapacity: s}.TracksClassPools())

	fares := ClassFares{Economy: decimal.NewFromInt(100), Business: decimal.NewFromInt(250), First: decimal.NewFromInt(400)}
	assert.True(t, fares.Of(First).Equal(decimal.NewFromInt(400)))
	assert.True(t, fares.Of(CabinClass(9)).Equal(decimal.NewFromInt(100)))
}
