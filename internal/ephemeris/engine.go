package ephemeris

import (
	"math"
	"time"

	"github.com/couchcryptid/suntimes/internal/domain"
	"github.com/mooncaker816/learnmeeus/v3/julian"
	"github.com/soniakeys/unit"
)

const (
	// DefaultZenith is 90°50′: the geometric horizon plus standard
	// refraction (34′) and the apparent solar radius (16′).
	DefaultZenith = 90.0 + 50.0/60.0

	// CivilZenith is the sun 6° below the horizon.
	CivilZenith = 96.0

	minutesPerDay = 1440.0
)

// JulianDay returns the Julian day at 0h UT on d.
func JulianDay(d domain.CalendarDate) float64 {
	return julian.CalendarGregorianToJD(d.Year, int(d.Month), float64(d.Day))
}

// Compute is ComputeAt with DefaultZenith.
func Compute(loc domain.Location, date domain.CalendarDate) (domain.SolarDay, error) {
	return ComputeAt(loc, date, DefaultZenith)
}

// ComputeAt returns sunrise, sunset and solar noon on date at loc, with the
// horizon defined by zenith degrees. It fails only with domain.ErrInvalidLocation
// or domain.ErrInvalidDate.
func ComputeAt(loc domain.Location, date domain.CalendarDate, zenith float64) (domain.SolarDay, error) {
	if err := loc.Validate(); err != nil {
		return domain.SolarDay{}, err
	}
	if err := date.Validate(); err != nil {
		return domain.SolarDay{}, err
	}

	jd0 := JulianDay(date)
	noonMinutes, noonSun := solarNoon(jd0, loc.Longitude)

	day := domain.SolarDay{
		Date:           date,
		Location:       loc,
		Zenith:         zenith,
		SolarNoon:      instant(date, noonMinutes),
		Declination:    noonSun.Declination,
		EquationOfTime: noonSun.EquationOfTime,
	}

	cosH := hourAngleCosine(loc.Latitude, noonSun.Declination, zenith)
	switch {
	case cosH < -1:
		day.Kind = domain.AlwaysDay
		return day, nil
	case cosH > 1:
		day.Kind = domain.AlwaysNight
		return day, nil
	}

	h := unit.Angle(math.Acos(cosH)).Deg()
	rise := refine(jd0, loc, zenith, noonMinutes-4*h, -1)
	set := refine(jd0, loc, zenith, noonMinutes+4*h, 1)
	if set <= rise {
		// A grazing sun can swap the refined events; fall back to the noon pass.
		rise, set = noonMinutes-4*h, noonMinutes+4*h
	}

	day.Kind = domain.Normal
	day.Sunrise = instant(date, rise)
	day.Sunset = instant(date, set)
	return day, nil
}

// solarNoon returns the UTC minute of the sun's transit and the solar
// quantities there. The first estimate uses EqT at the mean noon; the second
// re-evaluates EqT at the estimated transit.
func solarNoon(jd0, lon float64) (float64, Sun) {
	mean := 720 - 4*lon
	sun := SunAt(jd0 + mean/minutesPerDay)
	noon := mean - sun.EquationOfTime
	sun = SunAt(jd0 + noon/minutesPerDay)
	return mean - sun.EquationOfTime, sun
}

// refine recomputes an event at its own approximate minute. sign is -1 for
// sunrise and +1 for sunset. If the event no longer exists at the refined
// instant (only possible at the edge of polar day or night) the estimate is
// kept.
func refine(jd0 float64, loc domain.Location, zenith, estimate, sign float64) float64 {
	sun := SunAt(jd0 + estimate/minutesPerDay)
	cosH := hourAngleCosine(loc.Latitude, sun.Declination, zenith)
	if cosH < -1 || cosH > 1 {
		return estimate
	}
	h := unit.Angle(math.Acos(cosH)).Deg()
	return 720 - 4*(loc.Longitude-sign*h) - sun.EquationOfTime
}

// instant places a UTC minute offset on date. Offsets outside [0, 1440)
// land on the adjacent UTC day. Results are rounded to the second.
func instant(date domain.CalendarDate, minutes float64) time.Time {
	dayOffset := math.Floor(minutes / minutesPerDay)
	within := minutes - dayOffset*minutesPerDay
	base := date.Midnight().AddDate(0, 0, int(dayOffset))
	return base.Add(time.Duration(within * float64(time.Minute))).Round(time.Second)
}
