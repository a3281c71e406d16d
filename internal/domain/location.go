package domain

import (
	"fmt"
	"math"
)

// Location is an observer position in degrees.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NewLocation returns a validated Location.
func NewLocation(lat, lon float64) (Location, error) {
	loc := Location{Latitude: lat, Longitude: lon}
	if err := loc.Validate(); err != nil {
		return Location{}, err
	}
	return loc, nil
}

// Validate checks the coordinate ranges. NaN is rejected for both axes.
func (l Location) Validate() error {
	if math.IsNaN(l.Latitude) || l.Latitude < -90 || l.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v must be between -90 and 90 degrees", ErrInvalidLocation, l.Latitude)
	}
	if math.IsNaN(l.Longitude) || l.Longitude < -180 || l.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v must be between -180 and 180 degrees", ErrInvalidLocation, l.Longitude)
	}
	return nil
}

func (l Location) String() string {
	return fmt.Sprintf("%.4f°, %.4f°", l.Latitude, l.Longitude)
}
