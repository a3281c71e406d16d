// Command sunrise prints sunrise and sunset times for a city or coordinates.
//
// Usage:
//
//	sunrise -city "New York" -date 2024-06-20
//	sunrise -lat 48.8566 -lon 2.3522 -range 1-week -tz Europe/Paris
//	sunrise -list-cities
//	sunrise -seasons 2025 -tz Australia/Sydney
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/couchcryptid/suntimes/internal/adapter/tzfinder"
	"github.com/couchcryptid/suntimes/internal/cities"
	"github.com/couchcryptid/suntimes/internal/civiltime"
	"github.com/couchcryptid/suntimes/internal/domain"
	"github.com/couchcryptid/suntimes/internal/ephemeris"
	"github.com/couchcryptid/suntimes/internal/observability"
	"github.com/couchcryptid/suntimes/internal/report"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	city       string
	lat, lon   float64
	hasCoords  bool
	name       string
	date       string
	rangeKind  string
	zone       string
	zenith     float64
	civil      bool
	inferZone  bool
	citiesFile string
	listCities bool
	seasons    int
	asJSON     bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("sunrise", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.city, "city", "", "city name from the built-in table (see -list-cities)")
	fs.Float64Var(&o.lat, "lat", 0, "latitude in degrees, north positive")
	fs.Float64Var(&o.lon, "lon", 0, "longitude in degrees, east positive")
	fs.StringVar(&o.name, "name", "", "label for a coordinate location")
	fs.StringVar(&o.date, "date", "", "date as YYYY-MM-DD (default today, UTC)")
	fs.StringVar(&o.rangeKind, "range", "day", "span of days: day, 3-day, 1-week, 2-week, 3-week, month")
	fs.StringVar(&o.zone, "tz", "", "IANA time zone for local times (default: the city's, or inferred)")
	fs.Float64Var(&o.zenith, "zenith", 0, "sun zenith angle in degrees defining sunrise (default 90.8333)")
	fs.BoolVar(&o.civil, "civil", false, "report civil twilight (zenith 96°) instead of sunrise/sunset")
	fs.BoolVar(&o.inferZone, "infer-tz", true, "infer the time zone from coordinates when -tz is not given")
	fs.StringVar(&o.citiesFile, "cities", "", "YAML file replacing the built-in city table")
	fs.BoolVar(&o.listCities, "list-cities", false, "list known cities and exit")
	fs.IntVar(&o.seasons, "seasons", 0, "print the equinoxes and solstices of this year and exit")
	fs.BoolVar(&o.asJSON, "json", false, "print the report as JSON")

	if err := fs.Parse(args); err != nil {
		return o, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "lat" || f.Name == "lon" {
			o.hasCoords = true
		}
	})
	if fs.NArg() > 0 {
		return o, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	if o.civil && o.zenith != 0 {
		return o, errors.New("-civil and -zenith are mutually exclusive")
	}
	return o, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	o, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, "sunrise:", err)
		return 2
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	table := cities.Default()
	if o.citiesFile != "" {
		if table, err = cities.LoadFile(o.citiesFile); err != nil {
			fmt.Fprintln(stderr, "sunrise:", err)
			return 1
		}
	}

	switch {
	case o.listCities:
		fmt.Fprint(stdout, table.Format())
		return 0
	case o.seasons != 0:
		if err := printSeasons(stdout, o.seasons, o.zone); err != nil {
			fmt.Fprintln(stderr, "sunrise:", err)
			return 1
		}
		return 0
	}

	// The CLI is a single process; keep its metrics off the default registry.
	metrics := observability.NewMetricsWith(prometheus.NewRegistry())

	var finder domain.ZoneFinder
	if o.inferZone && o.hasCoords && o.zone == "" {
		f, err := tzfinder.New(metrics, logger)
		if err != nil {
			logger.Warn("time zone inference unavailable", "error", err)
		} else {
			finder = f
		}
	}

	builder := report.NewBuilder(table, finder, report.Settings{}, logger, metrics)
	rep, err := builder.Build(ctx, o.request())
	if err != nil {
		fmt.Fprintln(stderr, "sunrise:", err)
		if report.IsInvalidInput(err) {
			return 2
		}
		return 1
	}

	if o.asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		err = enc.Encode(rep)
	} else {
		err = report.WriteText(stdout, rep)
	}
	if err != nil {
		fmt.Fprintln(stderr, "sunrise:", err)
		return 1
	}
	return 0
}

func (o options) request() report.Request {
	req := report.Request{
		City:     o.city,
		Name:     o.name,
		Date:     o.date,
		Range:    o.rangeKind,
		TimeZone: o.zone,
	}
	if o.hasCoords {
		lat, lon := o.lat, o.lon
		req.Latitude, req.Longitude = &lat, &lon
	}
	switch {
	case o.civil:
		z := ephemeris.CivilZenith
		req.Zenith = &z
	case o.zenith != 0:
		z := o.zenith
		req.Zenith = &z
	}
	return req
}

func printSeasons(w io.Writer, year int, zone string) error {
	if year < 1 || year > 9999 {
		return fmt.Errorf("%w: year %d out of range", domain.ErrInvalidDate, year)
	}
	if zone == "" {
		zone = "UTC"
	}
	loc, err := civiltime.LoadZone(zone)
	if err != nil {
		return err
	}

	s := ephemeris.SeasonsOf(year)
	rows := []struct {
		name string
		f    civiltime.Formatted
	}{
		{"March equinox", civiltime.FormatIn(s.MarchEquinox, loc)},
		{"June solstice", civiltime.FormatIn(s.JuneSolstice, loc)},
		{"September equinox", civiltime.FormatIn(s.SeptemberEquinox, loc)},
		{"December solstice", civiltime.FormatIn(s.DecemberSolstice, loc)},
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "%-18s %s %s\n", r.name, r.f.Local.Format(domain.DateLayout), r.f.Zoned); err != nil {
			return err
		}
	}
	return nil
}
