// Command validate cross-checks the ephemeris engine against an independent
// sunrise implementation for every city and every day of a year, and checks
// the engine's own ordering and polar classification invariants.
//
// Usage:
//
//	go run ./cmd/validate -year 2024 -tolerance 3m
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/couchcryptid/suntimes/internal/cities"
	"github.com/couchcryptid/suntimes/internal/domain"
	"github.com/couchcryptid/suntimes/internal/ephemeris"
	"github.com/nathan-osman/go-sunrise"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	checks int
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	year := flag.Int("year", time.Now().Year(), "calendar year to validate")
	tolerance := flag.Duration("tolerance", 3*time.Minute, "maximum allowed difference from the reference")
	citiesFile := flag.String("cities", "", "YAML city table (default: built-in)")
	maxErrors := flag.Int("max-errors", 20, "maximum errors printed per phase")
	flag.Parse()

	table := cities.Default()
	if *citiesFile != "" {
		var err error
		if table, err = cities.LoadFile(*citiesFile); err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
			os.Exit(1)
		}
	}

	if code := run(*year, *tolerance, table, *maxErrors); code != 0 {
		os.Exit(code)
	}
}

func run(year int, tolerance time.Duration, table *cities.Table, maxErrors int) int {
	days := daysOf(year)

	fmt.Printf("=== Ephemeris Validation %d ===\n\n", year)

	phases := []*phase{
		validateReference(table, days, tolerance),
		validateOrdering(table, days),
		validatePolar(days),
		validateSeasons(year),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-44s %6d checks  %s\n", p.name, p.checks, status)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			if i == maxErrors {
				fmt.Printf("  ... %d more\n", len(p.errors)-maxErrors)
				break
			}
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func daysOf(year int) []domain.CalendarDate {
	start := domain.CalendarDate{Year: year, Month: time.January, Day: 1}
	var days []domain.CalendarDate
	for d := start; d.Year == year; d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

// ── Phase 1: Reference agreement ──

func validateReference(table *cities.Table, days []domain.CalendarDate, tolerance time.Duration) *phase {
	p := &phase{name: "Phase 1: Reference agreement (go-sunrise)"}

	var worst time.Duration
	var worstAt string
	for _, c := range table.All() {
		for _, d := range days {
			day, err := ephemeris.Compute(c.Location(), d)
			if err != nil {
				p.errorf("%s %s: %v", c.Name, d, err)
				continue
			}
			rise, set := sunrise.SunriseSunset(c.Latitude, c.Longitude, d.Year, d.Month, d.Day)
			if rise.IsZero() || set.IsZero() || day.Kind != domain.Normal {
				continue
			}

			for _, ev := range []struct {
				name      string
				got, want time.Time
			}{
				{"sunrise", day.Sunrise, rise},
				{"sunset", day.Sunset, set},
			} {
				p.checks++
				diff := ev.got.Sub(ev.want).Abs()
				if diff > worst {
					worst, worstAt = diff, fmt.Sprintf("%s %s %s", c.Name, d, ev.name)
				}
				if diff > tolerance {
					p.errorf("%s %s %s: engine %s, reference %s (off by %s)",
						c.Name, d, ev.name, ev.got.Format(time.RFC3339), ev.want.Format(time.RFC3339), diff)
				}
			}
		}
	}
	fmt.Printf("  largest difference: %s (%s)\n", worst, worstAt)
	return p
}

// ── Phase 2: Event ordering ──

func validateOrdering(table *cities.Table, days []domain.CalendarDate) *phase {
	p := &phase{name: "Phase 2: Event ordering"}

	for _, c := range table.All() {
		for _, d := range days {
			day, err := ephemeris.Compute(c.Location(), d)
			if err != nil {
				p.errorf("%s %s: %v", c.Name, d, err)
				continue
			}
			p.checks++
			if day.Kind != domain.Normal {
				p.errorf("%s %s: unexpected %s", c.Name, d, day.Kind)
				continue
			}
			if !day.Sunrise.Before(day.SolarNoon) || !day.SolarNoon.Before(day.Sunset) {
				p.errorf("%s %s: sunrise %s, noon %s, sunset %s out of order",
					c.Name, d, day.Sunrise.Format(time.RFC3339), day.SolarNoon.Format(time.RFC3339), day.Sunset.Format(time.RFC3339))
			}
			if l := day.DayLength(); l <= 0 || l >= 24*time.Hour {
				p.errorf("%s %s: day length %s", c.Name, d, l)
			}
		}
	}
	return p
}

// ── Phase 3: Polar classification ──
// The reference reports no events on polar days and nights. Near a transition
// the two models may disagree for a day or two.

func validatePolar(days []domain.CalendarDate) *phase {
	p := &phase{name: "Phase 3: Polar classification"}

	const allowedDisagreements = 8
	for _, loc := range []domain.Location{
		{Latitude: 78.2232, Longitude: 15.6267},   // Longyearbyen
		{Latitude: 69.6492, Longitude: 18.9553},   // Tromsø
		{Latitude: -77.8463, Longitude: 166.6683}, // McMurdo
	} {
		var disagreements int
		for _, d := range days {
			day, err := ephemeris.Compute(loc, d)
			if err != nil {
				p.errorf("%s %s: %v", loc, d, err)
				continue
			}
			p.checks++
			rise, _ := sunrise.SunriseSunset(loc.Latitude, loc.Longitude, d.Year, d.Month, d.Day)
			if rise.IsZero() == (day.Kind == domain.Normal) {
				disagreements++
			}
		}
		if disagreements > allowedDisagreements {
			p.errorf("%s: %d days classified differently from the reference", loc, disagreements)
		}
	}
	return p
}

// ── Phase 4: Seasons ──
// Declination peaks at the solstices and crosses zero at the equinoxes.

func validateSeasons(year int) *phase {
	p := &phase{name: "Phase 4: Equinoxes and solstices"}

	s := ephemeris.SeasonsOf(year)
	toJD := func(t time.Time) float64 { return float64(t.Unix())/86400 + 2440587.5 }

	for _, ev := range []struct {
		name string
		at   time.Time
		want float64
		tol  float64
	}{
		{"March equinox", s.MarchEquinox, 0, 0.02},
		{"June solstice", s.JuneSolstice, 23.44, 0.02},
		{"September equinox", s.SeptemberEquinox, 0, 0.02},
		{"December solstice", s.DecemberSolstice, -23.44, 0.02},
	} {
		p.checks++
		decl := ephemeris.SunAt(toJD(ev.at)).Declination
		if diff := decl - ev.want; diff > ev.tol || diff < -ev.tol {
			p.errorf("%s %s: declination %.4f°, want %.2f°", ev.name, ev.at.Format(time.RFC3339), decl, ev.want)
		}
	}
	return p
}
