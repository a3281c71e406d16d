// Package ephemeris computes sunrise, sunset and solar noon for a location
// and calendar date.
//
// The method is the NOAA low-precision solar position model:
//
//  1. The date is converted to the Julian day at 0h UT and to Julian
//     centuries T = (JD - 2451545.0) / 36525.
//  2. Mean longitude L0, mean anomaly M and the equation of center C give
//     the true longitude; nutation in longitude gives the apparent longitude λ.
//  3. Obliquity ε (mean plus nutation correction) and λ give the declination
//     δ = asin(sin ε · sin λ).
//  4. The equation of time EqT (minutes) follows from L0, M, ε and the
//     orbital eccentricity.
//  5. The hour angle at the requested zenith z and latitude φ is
//     cos H = (cos z - sin φ · sin δ) / (cos φ · cos δ). Values below -1
//     mean the sun never drops to z (AlwaysDay); above 1 it never rises to z
//     (AlwaysNight).
//  6. Sunrise = 720 - 4·(λobs + H) - EqT and sunset = 720 - 4·(λobs - H) - EqT
//     in UTC minutes from midnight, where λobs is the observer longitude.
//  7. Minutes outside [0, 1440) move the instant onto the adjacent UTC day.
//
// The orbital quantities are first evaluated at local solar noon, which also
// decides the polar classification, and then once more at each event's
// approximate instant. The second pass keeps results within about a minute of
// reference almanacs even near the equinoxes, when declination moves fastest.
//
// Everything here is a pure function of its arguments and safe for
// concurrent use.
package ephemeris
