// Package civiltime renders UTC instants as wall-clock text in UTC and in a
// named IANA time zone.
package civiltime

import (
	"errors"
	"fmt"
	"sync"
	"time"

	// Embed the tz database so zone lookups work on hosts without one.
	_ "time/tzdata"
)

const (
	utcLayout    = "15:04:05 UTC"
	zonedLayout  = "15:04:05 MST"
	offsetLayout = "-07:00"
)

// ErrUnknownZone is returned for zone names the tz database does not know.
var ErrUnknownZone = errors.New("unknown time zone")

// UnknownZoneError carries the rejected zone name.
type UnknownZoneError struct {
	Zone string
}

func (e *UnknownZoneError) Error() string {
	return fmt.Sprintf("unknown time zone %q", e.Zone)
}

// Is makes errors.Is(err, ErrUnknownZone) hold.
func (e *UnknownZoneError) Is(target error) bool {
	return target == ErrUnknownZone
}

// zones holds every location resolved so far, keyed by name. A loaded
// *time.Location is never mutated, so entries are shared by all callers.
// Unknown names are not stored.
var zones sync.Map

// LoadZone resolves an IANA zone name, reading the tz database at most once
// per name. The empty name and "Local" are rejected: they would silently
// format in the host's zone.
func LoadZone(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return nil, &UnknownZoneError{Zone: name}
	}
	if loc, ok := zones.Load(name); ok {
		return loc.(*time.Location), nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, &UnknownZoneError{Zone: name}
	}
	actual, _ := zones.LoadOrStore(name, loc)
	return actual.(*time.Location), nil
}

// Formatted is one instant rendered for display.
type Formatted struct {
	UTC          string    `json:"utc"`
	Zoned        string    `json:"local"`
	Zone         string    `json:"zone"`
	Abbreviation string    `json:"abbreviation"`
	UTCOffset    string    `json:"utc_offset"`
	Local        time.Time `json:"-"`
}

// Format renders instant in UTC and in zone. The offset and abbreviation
// are those in force at instant, so DST transitions are respected.
func Format(instant time.Time, zone string) (Formatted, error) {
	loc, err := LoadZone(zone)
	if err != nil {
		return Formatted{}, err
	}
	return FormatIn(instant, loc), nil
}

// FormatIn is Format with an already resolved location.
func FormatIn(instant time.Time, loc *time.Location) Formatted {
	local := instant.In(loc)
	abbr, _ := local.Zone()
	return Formatted{
		UTC:          instant.UTC().Format(utcLayout),
		Zoned:        local.Format(zonedLayout),
		Zone:         loc.String(),
		Abbreviation: abbr,
		UTCOffset:    local.Format(offsetLayout),
		Local:        local,
	}
}

func (f Formatted) String() string {
	return f.Zoned
}
