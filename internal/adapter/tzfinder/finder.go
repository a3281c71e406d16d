// Package tzfinder resolves coordinates to IANA time zone names using the
// polygon data bundled with tzf.
package tzfinder

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/suntimes/internal/observability"
	"github.com/ringsaturn/tzf"
)

// Finder implements domain.ZoneFinder over an in-process tzf finder.
type Finder struct {
	finder  tzf.F
	metrics *observability.Metrics
	logger  *slog.Logger
}

// New loads the bundled zone polygons. Loading takes a noticeable fraction
// of a second, so create one Finder per process.
func New(metrics *observability.Metrics, logger *slog.Logger) (*Finder, error) {
	f, err := tzf.NewDefaultFinder()
	if err != nil {
		return nil, fmt.Errorf("load time zone polygons: %w", err)
	}
	return &Finder{finder: f, metrics: metrics, logger: logger}, nil
}

// TimeZone returns the IANA zone containing lat, lon.
func (f *Finder) TimeZone(ctx context.Context, lat, lon float64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// tzf takes lon, lat order.
	name := f.finder.GetTimezoneName(lon, lat)
	if name == "" {
		f.metrics.ZoneInference.WithLabelValues("error").Inc()
		f.logger.Debug("no time zone for coordinates", "lat", lat, "lon", lon)
		return "", fmt.Errorf("no time zone found for %.6f, %.6f", lat, lon)
	}

	f.metrics.ZoneInference.WithLabelValues("success").Inc()
	return name, nil
}
