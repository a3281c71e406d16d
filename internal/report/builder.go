package report

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/couchcryptid/suntimes/internal/cities"
	"github.com/couchcryptid/suntimes/internal/civiltime"
	"github.com/couchcryptid/suntimes/internal/domain"
	"github.com/couchcryptid/suntimes/internal/ephemeris"
	"github.com/couchcryptid/suntimes/internal/observability"
)

// Settings are the service-wide defaults a Builder applies.
type Settings struct {
	// Zenith is used when a request does not set one.
	Zenith float64

	// DateWindow bounds requested dates around today. Zero disables the check.
	DateWindow time.Duration
}

// Builder assembles Reports.
type Builder struct {
	cities   *cities.Table
	zones    domain.ZoneFinder
	settings Settings
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewBuilder creates a Builder. Pass a nil finder to disable zone inference;
// coordinate requests without a zone are then reported in UTC.
func NewBuilder(table *cities.Table, finder domain.ZoneFinder, settings Settings, logger *slog.Logger, metrics *observability.Metrics) *Builder {
	if settings.Zenith == 0 {
		settings.Zenith = ephemeris.DefaultZenith
	}
	return &Builder{
		cities:   table,
		zones:    finder,
		settings: settings,
		logger:   logger,
		metrics:  metrics,
	}
}

// Cities returns the table the builder resolves city names against.
func (b *Builder) Cities() *cities.Table {
	return b.cities
}

// Build computes the report for req.
func (b *Builder) Build(ctx context.Context, req Request) (Report, error) {
	name, loc, city, err := b.resolvePlace(req)
	if err != nil {
		return Report{}, err
	}

	dates, kind, err := b.resolveDates(req)
	if err != nil {
		return Report{}, err
	}

	zenith := b.settings.Zenith
	if req.Zenith != nil {
		zenith = *req.Zenith
		if !(zenith > 0 && zenith < 180) {
			return Report{}, fmt.Errorf("%w: zenith %v must be between 0 and 180 degrees", ErrInvalidRequest, zenith)
		}
	}

	zone, source, err := b.resolveZone(ctx, req, loc, city)
	if err != nil {
		return Report{}, err
	}

	rep := Report{
		Name:        name,
		Location:    loc,
		TimeZone:    zone.String(),
		ZoneSource:  source,
		Range:       kind,
		Zenith:      zenith,
		Days:        make([]DayReport, 0, len(dates)),
		GeneratedAt: domain.Now(),
	}
	for _, d := range dates {
		day, err := ephemeris.ComputeAt(loc, d, zenith)
		if err != nil {
			return Report{}, err
		}
		b.metrics.SolarDays.WithLabelValues(day.Kind.String()).Inc()
		rep.Days = append(rep.Days, newDayReport(day, zone))
	}

	b.logger.Debug("report built",
		"name", rep.Name,
		"lat", loc.Latitude,
		"lon", loc.Longitude,
		"zone", rep.TimeZone,
		"zone_source", source,
		"days", len(rep.Days),
	)
	return rep, nil
}

// CheckReadiness verifies that the engine and the zone database answer for a
// fixed reference request.
func (b *Builder) CheckReadiness(_ context.Context) error {
	if _, err := civiltime.LoadZone("Europe/London"); err != nil {
		return fmt.Errorf("time zone database unavailable: %w", err)
	}
	greenwich := domain.Location{Latitude: 51.4769, Longitude: 0}
	day, err := ephemeris.ComputeAt(greenwich, domain.Today(), b.settings.Zenith)
	if err != nil {
		return err
	}
	if day.SolarNoon.IsZero() {
		return fmt.Errorf("engine returned no solar noon for %s", day.Date)
	}
	return nil
}

func (b *Builder) resolvePlace(req Request) (string, domain.Location, *cities.City, error) {
	hasCoords := req.Latitude != nil || req.Longitude != nil
	city := strings.TrimSpace(req.City)

	switch {
	case city != "" && hasCoords:
		return "", domain.Location{}, nil, fmt.Errorf("%w: give either a city or coordinates, not both", ErrInvalidRequest)
	case city != "":
		c, err := b.cities.Lookup(city)
		if err != nil {
			return "", domain.Location{}, nil, err
		}
		return c.Name, c.Location(), &c, nil
	case req.Latitude == nil || req.Longitude == nil:
		return "", domain.Location{}, nil, fmt.Errorf("%w: a city or both latitude and longitude are required", ErrInvalidRequest)
	}

	loc, err := domain.NewLocation(*req.Latitude, *req.Longitude)
	if err != nil {
		return "", domain.Location{}, nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = loc.String()
	}
	return name, loc, nil, nil
}

func (b *Builder) resolveDates(req Request) ([]domain.CalendarDate, domain.RangeKind, error) {
	start := domain.Today()
	if req.Date != "" {
		d, err := domain.ParseCalendarDate(req.Date)
		if err != nil {
			return nil, "", err
		}
		start = d
	}

	kind, err := domain.ParseRangeKind(req.Range)
	if err != nil {
		return nil, "", err
	}
	r, err := domain.NewDateRange(start, kind)
	if err != nil {
		return nil, "", err
	}

	now := domain.Now()
	for _, d := range []domain.CalendarDate{r.Start, r.End} {
		if err := domain.CheckWindow(d, now, b.settings.DateWindow); err != nil {
			return nil, "", err
		}
	}

	dates, err := r.Dates()
	if err != nil {
		return nil, "", err
	}
	return dates, r.Kind, nil
}

// resolveZone picks the display zone: the request's, then the city's, then
// one inferred from the coordinates, then UTC. An explicit zone that does not
// resolve is an error; inference failures fall back to UTC.
func (b *Builder) resolveZone(ctx context.Context, req Request, loc domain.Location, city *cities.City) (*time.Location, string, error) {
	if name := strings.TrimSpace(req.TimeZone); name != "" {
		z, err := civiltime.LoadZone(name)
		if err != nil {
			return nil, "", err
		}
		return z, ZoneFromRequest, nil
	}

	if city != nil {
		z, err := civiltime.LoadZone(city.TimeZone)
		if err != nil {
			return nil, "", err
		}
		return z, ZoneFromCity, nil
	}

	if b.zones != nil {
		var z *time.Location
		name, err := b.zones.TimeZone(ctx, loc.Latitude, loc.Longitude)
		if err == nil {
			z, err = civiltime.LoadZone(name)
		}
		if err == nil {
			return z, ZoneInferred, nil
		}
		if ctx.Err() != nil {
			return nil, "", ctx.Err()
		}
		b.logger.Warn("time zone inference failed, using UTC",
			"error", err,
			"lat", loc.Latitude,
			"lon", loc.Longitude,
		)
	}

	return time.UTC, ZoneDefault, nil
}
