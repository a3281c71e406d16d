// Package domain holds the value types shared by the sunrise/sunset engine,
// the civil time formatter and the adapters that feed them.
//
// # Coordinates
//
// Locations are WGS-84 degrees. Latitude is positive north and must lie in
// [-90, 90]; longitude is positive east and must lie in [-180, 180]. Both
// bounds are inclusive, so the poles and the antimeridian are valid input.
//
// # Dates
//
// A [CalendarDate] is a proleptic Gregorian civil date with no time of day
// and no zone. Its instant anchor is 00:00 UTC, which is what the engine uses
// as the Julian day origin. Years are limited to 1..9999 so that dates always
// round-trip through the YYYY-MM-DD wire form.
//
// # Solar day outcomes
//
// Every valid (location, date) pair maps to exactly one [SolarDayKind]:
//
//	Normal       both sunrise and sunset occur; Sunrise < Sunset
//	AlwaysDay    the sun stays above the horizon zenith all day
//	AlwaysNight  the sun stays below the horizon zenith all day
//
// Sunrise and sunset are UTC instants anchored on the requested date. When
// the local event falls on the other side of UTC midnight (for example a New
// York sunset in June, or an Auckland sunrise) the instant lands on the
// adjacent UTC calendar day rather than being folded back into the requested
// one, which keeps Sunrise < Sunset for every Normal result.
//
// Polar day and polar night are ordinary results, never errors. The only
// error outcomes of the engine are [ErrInvalidLocation] and [ErrInvalidDate].
package domain
