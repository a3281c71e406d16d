package ephemeris

import (
	"testing"
	"time"

	"github.com/couchcryptid/suntimes/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestJulianDay(t *testing.T) {
	assert.InDelta(t, 2451544.5, JulianDay(domain.CalendarDate{Year: 2000, Month: time.January, Day: 1}), 1e-9)
	assert.InDelta(t, 2460481.5, JulianDay(domain.CalendarDate{Year: 2024, Month: time.June, Day: 20}), 1e-9)
	assert.InDelta(t, 0.0, JulianCentury(J2000), 1e-12)
}

func TestSunAt_Declination(t *testing.T) {
	s := SeasonsOf(2024)
	toJD := func(t time.Time) float64 {
		return float64(t.Unix())/86400 + 2440587.5
	}

	assert.InDelta(t, 23.44, SunAt(toJD(s.JuneSolstice)).Declination, 0.02)
	assert.InDelta(t, -23.44, SunAt(toJD(s.DecemberSolstice)).Declination, 0.02)
	assert.InDelta(t, 0, SunAt(toJD(s.MarchEquinox)).Declination, 0.02)
	assert.InDelta(t, 0, SunAt(toJD(s.SeptemberEquinox)).Declination, 0.02)
}

func TestSunAt_EquationOfTime(t *testing.T) {
	feb := JulianDay(domain.CalendarDate{Year: 2024, Month: time.February, Day: 11}) + 0.5
	nov := JulianDay(domain.CalendarDate{Year: 2024, Month: time.November, Day: 3}) + 0.5

	assert.InDelta(t, -14.2, SunAt(feb).EquationOfTime, 0.3)
	assert.InDelta(t, 16.4, SunAt(nov).EquationOfTime, 0.3)
}

func TestSunAt_ObliquityAndLongitudeRanges(t *testing.T) {
	sun := SunAt(J2000)
	assert.InDelta(t, 23.44, sun.Obliquity, 0.01)
	assert.GreaterOrEqual(t, sun.MeanLongitude, 0.0)
	assert.Less(t, sun.MeanLongitude, 360.0)
}

func TestInstant_WrapsAcrossMidnight(t *testing.T) {
	d := domain.CalendarDate{Year: 2024, Month: time.June, Day: 20}

	assert.Equal(t, time.Date(2024, time.June, 20, 9, 25, 30, 0, time.UTC), instant(d, 565.5))
	assert.Equal(t, time.Date(2024, time.June, 21, 0, 30, 0, 0, time.UTC), instant(d, 1470))
	assert.Equal(t, time.Date(2024, time.June, 19, 19, 25, 0, 0, time.UTC), instant(d, -275))
	assert.Equal(t, time.Date(2024, time.June, 21, 0, 0, 0, 0, time.UTC), instant(d, 1440))
}

func TestHourAngleCosine_Equator(t *testing.T) {
	// At the equator with the sun on the equator, cos H is cos(zenith).
	assert.InDelta(t, -0.01454, hourAngleCosine(0, 0, DefaultZenith), 1e-4)
	assert.InDelta(t, 0, hourAngleCosine(0, 0, 90), 1e-12)
}
