package domain

import (
	"fmt"
	"time"
)

// SolarDayKind tags the outcome of a sunrise/sunset calculation.
type SolarDayKind int

const (
	Normal SolarDayKind = iota
	AlwaysDay
	AlwaysNight
)

func (k SolarDayKind) String() string {
	switch k {
	case Normal:
		return "normal"
	case AlwaysDay:
		return "always_day"
	case AlwaysNight:
		return "always_night"
	default:
		return fmt.Sprintf("SolarDayKind(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k SolarDayKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *SolarDayKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "normal":
		*k = Normal
	case "always_day":
		*k = AlwaysDay
	case "always_night":
		*k = AlwaysNight
	default:
		return fmt.Errorf("unknown solar day kind %q", b)
	}
	return nil
}

// SolarDay is the result of one engine call. Sunrise and Sunset are set only
// when Kind is Normal.
type SolarDay struct {
	Date     CalendarDate
	Location Location
	Zenith   float64
	Kind     SolarDayKind
	Sunrise  time.Time
	Sunset   time.Time

	// SolarNoon is the UTC instant of the sun's upper transit and is set
	// for every kind.
	SolarNoon time.Time

	// Declination (degrees) and EquationOfTime (minutes) evaluated at
	// solar noon.
	Declination    float64
	EquationOfTime float64
}

// DayLength returns the time the sun spends above the zenith threshold.
func (s SolarDay) DayLength() time.Duration {
	switch s.Kind {
	case AlwaysDay:
		return 24 * time.Hour
	case AlwaysNight:
		return 0
	default:
		return s.Sunset.Sub(s.Sunrise)
	}
}
