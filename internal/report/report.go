// Package report turns a sunrise/sunset request into a report with civil
// times in the requested zone. HTTP handlers, the Kafka pipeline and the CLI
// all go through Builder.
package report

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/couchcryptid/suntimes/internal/cities"
	"github.com/couchcryptid/suntimes/internal/civiltime"
	"github.com/couchcryptid/suntimes/internal/domain"
)

// ErrInvalidRequest reports a request whose fields are missing or contradict
// each other.
var ErrInvalidRequest = errors.New("invalid request")

// Zone sources recorded on a Report.
const (
	ZoneFromRequest = "request"
	ZoneFromCity    = "city"
	ZoneInferred    = "inferred"
	ZoneDefault     = "default"
)

// Request asks for sunrise and sunset at a city or at explicit coordinates.
type Request struct {
	City      string   `json:"city,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	// Name labels a coordinate request in the report. Ignored for cities.
	Name string `json:"name,omitempty"`

	// Date is YYYY-MM-DD; empty means today (UTC).
	Date string `json:"date,omitempty"`

	// Range is one of domain.RangeKinds; empty means a single day.
	Range string `json:"range,omitempty"`

	// TimeZone is an IANA name. Empty means the city's zone, or one inferred
	// from the coordinates.
	TimeZone string `json:"timezone,omitempty"`

	// Zenith overrides the default horizon, in degrees.
	Zenith *float64 `json:"zenith,omitempty"`
}

// Report is the answer to a Request.
type Report struct {
	Name        string           `json:"name"`
	Location    domain.Location  `json:"location"`
	TimeZone    string           `json:"timezone"`
	ZoneSource  string           `json:"zone_source"`
	Range       domain.RangeKind `json:"range"`
	Zenith      float64          `json:"zenith"`
	Days        []DayReport      `json:"days"`
	GeneratedAt time.Time        `json:"generated_at"`
}

// DayReport is one calendar date of a Report. Sunrise and Sunset are nil on
// polar days and nights.
type DayReport struct {
	Date      domain.CalendarDate  `json:"date"`
	Kind      domain.SolarDayKind  `json:"kind"`
	Sunrise   *civiltime.Formatted `json:"sunrise,omitempty"`
	Sunset    *civiltime.Formatted `json:"sunset,omitempty"`
	SolarNoon civiltime.Formatted  `json:"solar_noon"`
	DayLength string               `json:"day_length"`
}

// ID is a deterministic key for the report's inputs. Reprocessing the same
// request yields the same ID.
func (r Report) ID() string {
	var start string
	if len(r.Days) > 0 {
		start = r.Days[0].Date.String()
	}
	input := fmt.Sprintf("%g|%g|%s|%s|%s|%g", r.Location.Latitude, r.Location.Longitude, start, r.Range, r.TimeZone, r.Zenith)
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:8])
}

// IsInvalidInput reports whether err was caused by the request rather than by
// the service.
func IsInvalidInput(err error) bool {
	for _, target := range []error{
		ErrInvalidRequest,
		domain.ErrInvalidLocation,
		domain.ErrInvalidDate,
		domain.ErrDateOutOfWindow,
		domain.ErrInvalidRange,
		civiltime.ErrUnknownZone,
		cities.ErrUnknownCity,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func newDayReport(day domain.SolarDay, loc *time.Location) DayReport {
	dr := DayReport{
		Date:      day.Date,
		Kind:      day.Kind,
		SolarNoon: civiltime.FormatIn(day.SolarNoon, loc),
		DayLength: day.DayLength().Round(time.Second).String(),
	}
	if day.Kind == domain.Normal {
		rise := civiltime.FormatIn(day.Sunrise, loc)
		set := civiltime.FormatIn(day.Sunset, loc)
		dr.Sunrise = &rise
		dr.Sunset = &set
	}
	return dr
}
