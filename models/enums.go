package models

import (
	"fmt"
	"strings"
)

// CabinClass determines the fare multiplier. The zero value is Economy.
type CabinClass uint8

const (
	Economy CabinClass = iota
	Business
	First
)

var cabinClassNames = [...]string{"Economy", "Business", "First"}

// CabinClasses lists every cabin class in display order.
var CabinClasses = []CabinClass{Economy, Business, First}

func (c CabinClass) Valid() bool { return c <= First }

func (c CabinClass) String() string {
	if !c.Valid() {
		return fmt.Sprintf("CabinClass(%d)", uint8(c))
	}
	return cabinClassNames[c]
}

// ParseCabinClass maps user text to a cabin class. Unrecognized input
// falls back to Economy, matching the legacy booking prompt.
func ParseCabinClass(s string) CabinClass {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "business", "2":
		return Business
	case "first", "first class", "3":
		return First
	default:
		return Economy
	}
}

func (c CabinClass) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *CabinClass) UnmarshalText(b []byte) error {
	*c = ParseCabinClass(string(b))
	return nil
}

type BookingStatus uint8

const (
	BookingConfirmed BookingStatus = iota + 1
	BookingCancelled
	BookingCompleted
)

func (s BookingStatus) String() string {
	switch s {
	case BookingConfirmed:
		return "Confirmed"
	case BookingCancelled:
		return "Cancelled"
	case BookingCompleted:
		return "Completed"
	}
	return fmt.Sprintf("BookingStatus(%d)", uint8(s))
}

// Terminal reports whether no further transition may leave s.
func (s BookingStatus) Terminal() bool {
	return s == BookingCancelled || s == BookingCompleted
}

func (s BookingStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *BookingStatus) UnmarshalText(b []byte) error {
	switch string(b) {
	case "Confirmed":
		*s = BookingConfirmed
	case "Cancelled":
		*s = BookingCancelled
	case "Completed":
		*s = BookingCompleted
	default:
		return fmt.Errorf("unknown booking status %q", b)
	}
	return nil
}

type FlightStatus uint8

const (
	FlightAvailable FlightStatus = iota
	FlightFull
)

func (s FlightStatus) String() string {
	if s == FlightFull {
		return "Full"
	}
	return "Available"
}

func (s FlightStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *FlightStatus) UnmarshalText(b []byte) error {
	switch string(b) {
	case "Available":
		*s = FlightAvailable
	case "Full":
		*s = FlightFull
	default:
		return fmt.Errorf("unknown flight status %q", b)
	}
	return nil
}

// FareBasis names a pricing model. The empty basis means "use the configured default".
type FareBasis string

const (
	FareBasisDefault  FareBasis = ""
	FareBasisFlat     FareBasis = "flat"
	FareBasisDistance FareBasis = "distance"
	FareBasisClass    FareBasis = "class"
)

func ParseFareBasis(s string) (FareBasis, error) {
	switch b := FareBasis(strings.ToLower(strings.TrimSpace(s))); b {
	case FareBasisDefault, FareBasisFlat, FareBasisDistance, FareBasisClass:
		return b, nil
	}
	return "", fmt.Errorf("unknown fare basis %q", s)
}
