package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLocation_Valid(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
	}{
		{"origin", 0, 0},
		{"new york", 40.7128, -74.0060},
		{"north pole", 90, 0},
		{"south pole", -90, 0},
		{"antimeridian east", 0, 180},
		{"antimeridian west", 0, -180},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := NewLocation(tt.lat, tt.lon)
			require.NoError(t, err)
			assert.Equal(t, tt.lat, loc.Latitude)
			assert.Equal(t, tt.lon, loc.Longitude)
		})
	}
}

func TestNewLocation_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
		field    string
	}{
		{"latitude too high", 90.0001, 0, "latitude"},
		{"latitude too low", -91, 0, "latitude"},
		{"longitude too high", 0, 180.5, "longitude"},
		{"longitude too low", 0, -181, "longitude"},
		{"latitude NaN", math.NaN(), 0, "latitude"},
		{"longitude NaN", 0, math.NaN(), "longitude"},
		{"latitude infinite", math.Inf(1), 0, "latitude"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLocation(tt.lat, tt.lon)
			require.ErrorIs(t, err, ErrInvalidLocation)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestLocation_String(t *testing.T) {
	assert.Equal(t, "40.7128°, -74.0060°", Location{Latitude: 40.7128, Longitude: -74.006}.String())
}
