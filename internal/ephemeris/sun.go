package ephemeris

import (
	"math"

	"github.com/soniakeys/unit"
)

// J2000 is the Julian day of 2000-01-01 12:00 TT.
const J2000 = 2451545.0

// Sun holds the solar quantities at one instant.
type Sun struct {
	// MeanLongitude, MeanAnomaly and ApparentLongitude in degrees.
	MeanLongitude     float64
	MeanAnomaly       float64
	ApparentLongitude float64

	// Obliquity of the ecliptic, corrected for nutation, in degrees.
	Obliquity float64

	// Declination in degrees, positive north.
	Declination float64

	// EquationOfTime in minutes: apparent minus mean solar time.
	EquationOfTime float64
}

// JulianCentury converts a Julian day to centuries since J2000.
func JulianCentury(jd float64) float64 {
	return (jd - J2000) / 36525.0
}

// SunAt evaluates the solar position model at Julian day jd.
func SunAt(jd float64) Sun {
	t := JulianCentury(jd)

	l0 := normalizeDegrees(280.46646 + t*(36000.76983+0.0003032*t))
	m := 357.52911 + t*(35999.05029-0.0001537*t)
	e := 0.016708634 - t*(0.000042037+0.0000001267*t)

	mRad := unit.AngleFromDeg(m).Rad()
	center := math.Sin(mRad)*(1.914602-t*(0.004817+0.000014*t)) +
		math.Sin(2*mRad)*(0.019993-0.000101*t) +
		math.Sin(3*mRad)*0.000289

	omega := unit.AngleFromDeg(125.04 - 1934.136*t)
	lambda := l0 + center - 0.00569 - 0.00478*omega.Sin()

	seconds := 21.448 - t*(46.8150+t*(0.00059-t*0.001813))
	eps0 := 23.0 + (26.0+seconds/60.0)/60.0
	eps := eps0 + 0.00256*omega.Cos()

	epsAngle := unit.AngleFromDeg(eps)
	decl := unit.Angle(math.Asin(epsAngle.Sin() * unit.AngleFromDeg(lambda).Sin())).Deg()

	y := math.Tan(epsAngle.Rad() / 2)
	y *= y
	l0Rad := unit.AngleFromDeg(l0).Rad()
	eqt := y*math.Sin(2*l0Rad) -
		2*e*math.Sin(mRad) +
		4*e*y*math.Sin(mRad)*math.Cos(2*l0Rad) -
		0.5*y*y*math.Sin(4*l0Rad) -
		1.25*e*e*math.Sin(2*mRad)

	return Sun{
		MeanLongitude:     l0,
		MeanAnomaly:       m,
		ApparentLongitude: lambda,
		Obliquity:         eps,
		Declination:       decl,
		EquationOfTime:    4 * unit.Angle(eqt).Deg(),
	}
}

// hourAngleCosine returns cos H for the sun at declination decl (degrees)
// crossing zenith (degrees) at latitude lat (degrees).
func hourAngleCosine(lat, decl, zenith float64) float64 {
	phi := unit.AngleFromDeg(lat)
	delta := unit.AngleFromDeg(decl)
	return (unit.AngleFromDeg(zenith).Cos() - phi.Sin()*delta.Sin()) / (phi.Cos() * delta.Cos())
}

func normalizeDegrees(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}
