package domain

import "context"

// ZoneFinder maps coordinates to an IANA time zone name.
type ZoneFinder interface {
	TimeZone(ctx context.Context, lat, lon float64) (string, error)
}
