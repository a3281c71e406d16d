package ephemeris_test

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/couchcryptid/suntimes/internal/cities"
	"github.com/couchcryptid/suntimes/internal/domain"
	"github.com/couchcryptid/suntimes/internal/ephemeris"
	"github.com/nathan-osman/go-sunrise"
	"github.com/sixdouglas/suncalc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	newYork = domain.Location{Latitude: 40.7128, Longitude: -74.0060}
	london  = domain.Location{Latitude: 51.5072, Longitude: -0.1275}
	arctic  = domain.Location{Latitude: 78.0, Longitude: 15.0}
	mcmurdo = domain.Location{Latitude: -77.85, Longitude: 166.67}
)

func date(y int, m time.Month, d int) domain.CalendarDate {
	return domain.CalendarDate{Year: y, Month: m, Day: d}
}

func utc(y int, m time.Month, d, hh, mm, ss int) time.Time {
	return time.Date(y, m, d, hh, mm, ss, 0, time.UTC)
}

func assertNear(t *testing.T, want, got time.Time, tolerance time.Duration, label ...string) {
	t.Helper()
	diff := got.Sub(want).Abs()
	assert.LessOrEqual(t, diff, tolerance, "%s: want %s, got %s", strings.Join(label, " "), want, got)
}

func TestCompute_NewYorkJuneSolstice(t *testing.T) {
	day, err := ephemeris.Compute(newYork, date(2024, time.June, 20))
	require.NoError(t, err)
	require.Equal(t, domain.Normal, day.Kind)

	assert.False(t, day.Sunrise.Before(utc(2024, time.June, 20, 9, 0, 0)))
	assert.True(t, day.Sunrise.Before(utc(2024, time.June, 20, 10, 0, 0)))
	assert.False(t, day.Sunset.Before(utc(2024, time.June, 21, 0, 0, 0)), "sunset lands on the next UTC day")
	assert.True(t, day.Sunset.Before(utc(2024, time.June, 21, 1, 0, 0)))

	// Almanac: 05:25 EDT / 20:31 EDT.
	assertNear(t, utc(2024, time.June, 20, 9, 25, 0), day.Sunrise, 2*time.Minute)
	assertNear(t, utc(2024, time.June, 21, 0, 31, 0), day.Sunset, 2*time.Minute)
	assert.True(t, day.Sunrise.Before(day.SolarNoon) && day.SolarNoon.Before(day.Sunset))
}

func TestCompute_LondonReference(t *testing.T) {
	winter, err := ephemeris.Compute(london, date(2014, time.January, 2))
	require.NoError(t, err)
	assertNear(t, utc(2014, time.January, 2, 8, 6, 15), winter.Sunrise, 2*time.Minute)
	assertNear(t, utc(2014, time.January, 2, 16, 3, 8), winter.Sunset, 2*time.Minute)

	summer, err := ephemeris.Compute(london, date(2014, time.June, 28))
	require.NoError(t, err)
	assertNear(t, utc(2014, time.June, 28, 20, 21, 40), summer.Sunset, 2*time.Minute)
}

func TestComputeAt_CivilTwilight(t *testing.T) {
	official, err := ephemeris.Compute(london, date(2014, time.January, 2))
	require.NoError(t, err)
	civil, err := ephemeris.ComputeAt(london, date(2014, time.January, 2), ephemeris.CivilZenith)
	require.NoError(t, err)

	assertNear(t, utc(2014, time.January, 2, 7, 26, 21), civil.Sunrise, 2*time.Minute)
	assert.True(t, civil.Sunrise.Before(official.Sunrise))
	assert.True(t, civil.Sunset.After(official.Sunset))
	assert.Equal(t, ephemeris.CivilZenith, civil.Zenith)
}

func TestCompute_CupertinoNewYearsDay(t *testing.T) {
	cupertino := domain.Location{Latitude: 37.3229978, Longitude: -122.0321823}
	day, err := ephemeris.Compute(cupertino, date(2024, time.January, 1))
	require.NoError(t, err)

	// 07:22:13 and 17:00:33 PST, solar noon 12:11:23 PST.
	assertNear(t, utc(2024, time.January, 1, 15, 22, 13), day.Sunrise, 2*time.Minute)
	assertNear(t, utc(2024, time.January, 2, 1, 0, 33), day.Sunset, 2*time.Minute)
	assertNear(t, utc(2024, time.January, 1, 20, 11, 23), day.SolarNoon, 90*time.Second)
}

func TestCompute_PolarDayAndNight(t *testing.T) {
	tests := []struct {
		name string
		loc  domain.Location
		date domain.CalendarDate
		want domain.SolarDayKind
	}{
		{"arctic midsummer", arctic, date(2024, time.June, 20), domain.AlwaysDay},
		{"arctic midwinter", arctic, date(2024, time.December, 20), domain.AlwaysNight},
		{"antarctic midwinter", mcmurdo, date(2024, time.June, 20), domain.AlwaysNight},
		{"antarctic midsummer", mcmurdo, date(2024, time.December, 20), domain.AlwaysDay},
		{"north pole june", domain.Location{Latitude: 90, Longitude: 0}, date(2024, time.June, 1), domain.AlwaysDay},
		{"south pole june", domain.Location{Latitude: -90, Longitude: 0}, date(2024, time.June, 1), domain.AlwaysNight},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			day, err := ephemeris.Compute(tt.loc, tt.date)
			require.NoError(t, err)
			assert.Equal(t, tt.want, day.Kind)
			assert.True(t, day.Sunrise.IsZero())
			assert.True(t, day.Sunset.IsZero())
			assert.False(t, day.SolarNoon.IsZero())
		})
	}
}

func TestCompute_InvalidLocation(t *testing.T) {
	for _, loc := range []domain.Location{
		{Latitude: 90.5, Longitude: 0},
		{Latitude: -90.5, Longitude: 0},
		{Latitude: 0, Longitude: 181},
		{Latitude: 0, Longitude: -180.01},
	} {
		_, err := ephemeris.Compute(loc, date(2024, time.June, 20))
		assert.ErrorIs(t, err, domain.ErrInvalidLocation, "location %v", loc)
	}
}

func TestCompute_InvalidDate(t *testing.T) {
	for _, d := range []domain.CalendarDate{
		date(2023, time.February, 29),
		date(2024, time.April, 31),
		date(2024, 13, 1),
		{},
	} {
		_, err := ephemeris.Compute(newYork, d)
		assert.ErrorIs(t, err, domain.ErrInvalidDate, "date %+v", d)
	}
}

func TestCompute_EquatorNearEquinox(t *testing.T) {
	equinox := ephemeris.SeasonsOf(2024).Dates()[0]
	for lon := -180.0; lon <= 180; lon += 22.5 {
		day, err := ephemeris.Compute(domain.Location{Latitude: 0, Longitude: lon}, equinox)
		require.NoError(t, err)
		require.Equal(t, domain.Normal, day.Kind)

		// Refraction and the solar disk add roughly seven minutes.
		length := day.DayLength()
		assert.InDelta(t, 12*time.Hour, length, float64(10*time.Minute), "longitude %v: %s", lon, length)
	}
}

func TestCompute_SunriseBeforeSunsetAllYear(t *testing.T) {
	start := date(2024, time.January, 1)
	for _, city := range cities.Default().All() {
		for i := 0; i < 366; i += 5 {
			d := start.AddDays(i)
			day, err := ephemeris.Compute(city.Location(), d)
			require.NoError(t, err)
			require.Equal(t, domain.Normal, day.Kind, "%s on %s", city.Name, d)
			assert.True(t, day.Sunrise.Before(day.Sunset), "%s on %s", city.Name, d)
			assert.True(t, day.Sunrise.Before(day.SolarNoon), "%s on %s", city.Name, d)
			assert.True(t, day.SolarNoon.Before(day.Sunset), "%s on %s", city.Name, d)

			// Events stay within a day of the requested date.
			assert.True(t, day.Sunrise.After(d.Midnight().Add(-24*time.Hour)))
			assert.True(t, day.Sunset.Before(d.Midnight().Add(48*time.Hour)))
		}
	}
}

func TestCompute_AgreesWithGoSunrise(t *testing.T) {
	dates := []domain.CalendarDate{
		date(2024, time.March, 20),
		date(2024, time.June, 20),
		date(2024, time.September, 22),
		date(2024, time.December, 21),
	}
	for _, city := range cities.Default().All() {
		for _, d := range dates {
			wantRise, wantSet := sunrise.SunriseSunset(city.Latitude, city.Longitude, d.Year, d.Month, d.Day)
			day, err := ephemeris.Compute(city.Location(), d)
			require.NoError(t, err)
			assertNear(t, wantRise, day.Sunrise, 3*time.Minute, city.Name, "sunrise", d.String())
			assertNear(t, wantSet, day.Sunset, 3*time.Minute, city.Name, "sunset", d.String())
		}
	}
}

func TestCompute_AgreesWithSuncalc(t *testing.T) {
	places := map[string]domain.Location{
		"london":   london,
		"new york": newYork,
		"tokyo":    {Latitude: 35.6762, Longitude: 139.6503},
	}
	for name, loc := range places {
		for _, d := range []domain.CalendarDate{date(2024, time.February, 10), date(2024, time.August, 5)} {
			day, err := ephemeris.Compute(loc, d)
			require.NoError(t, err)

			times := suncalc.GetTimes(d.Midnight().Add(12*time.Hour), loc.Latitude, loc.Longitude)
			assertNear(t, times["sunrise"].Value.UTC(), day.Sunrise, 2*time.Minute, name, "sunrise", d.String())
			assertNear(t, times["sunset"].Value.UTC(), day.Sunset, 2*time.Minute, name, "sunset", d.String())
		}
	}
}

func TestCompute_ConcurrentCallsAgree(t *testing.T) {
	want, err := ephemeris.Compute(newYork, date(2024, time.June, 20))
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]domain.SolarDay, 64)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = ephemeris.Compute(newYork, date(2024, time.June, 20))
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}
