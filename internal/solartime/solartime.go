// Package solartime converts civil birth times into true solar time.
//
// The correction has two parts: the equation of time (orbital eccentricity
// and axial tilt, from a low-precision solar position model) and the
// longitude offset of the observer from the timezone's standard meridian.
// Both are expressed in minutes and added to the civil time.
package solartime

import (
	"math"
	"time"
)

const (
	// unixEpochJD is the Julian Day of 1970-01-01T00:00:00Z.
	unixEpochJD = 2440587.5

	// j2000 is the Julian Day of 2000-01-01T12:00:00 TT.
	j2000 = 2451545.0

	obliquity = 23.439 // degrees

	secondsPerDay = 86400.0
)

// Correction is the breakdown of a true-solar-time correction, in minutes.
type Correction struct {
	EquationOfTime float64 `json:"equation_of_time" yaml:"equation_of_time"`
	Longitude      float64 `json:"longitude" yaml:"longitude"`
	// Minutes is the applied total, truncated toward zero.
	Minutes int `json:"minutes" yaml:"minutes"`
}

// Correct returns the true solar time for a civil birth time.
//
// The wall-clock fields of local (year through nanosecond) are interpreted in
// zone.Location; local's own location is ignored. When dst is set the clock is
// one hour ahead of standard time, so the instant used for the Julian Day is
// moved back an hour. The resulting minute offset is then added to the
// unadjusted instant, and the result is expressed in zone.Location.
func Correct(local time.Time, longitude float64, zone Zone, dst bool) time.Time {
	corrected, _ := CorrectDetailed(local, longitude, zone, dst)
	return corrected
}

// CorrectDetailed is Correct, also returning the correction breakdown.
func CorrectDetailed(local time.Time, longitude float64, zone Zone, dst bool) (time.Time, Correction) {
	loc := zone.Location
	if loc == nil {
		loc = time.UTC
	}

	instant := wallClock(local, loc)

	adjusted := instant
	if dst {
		adjusted = instant.Add(-time.Hour)
	}

	c := Correction{
		EquationOfTime: EquationOfTime(JulianDay(adjusted)),
		Longitude:      LongitudeCorrection(longitude, zone.ID),
	}
	c.Minutes = int(c.EquationOfTime + c.Longitude)

	return instant.Add(time.Duration(c.Minutes) * time.Minute).In(loc), c
}

// wallClock re-anchors the civil fields of t in loc.
func wallClock(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
}

// JulianDay returns the Julian Day of an instant, at whole-second precision.
func JulianDay(t time.Time) float64 {
	return float64(t.Unix())/secondsPerDay + unixEpochJD
}

// EquationOfTime returns the equation of time in minutes for a Julian Day:
// mean solar longitude minus apparent right ascension, times four.
//
// The difference is not normalized. The mean longitude lies in [0°, 360°)
// (negative before J2000) while atan2 yields (−180°, 180°], so on some days
// the result carries an extra ±1440 minutes and the corrected time lands on
// a neighbouring day. Charts depend on that behaviour.
func EquationOfTime(jd float64) float64 {
	n := jd - j2000

	l := math.Mod(280.460+0.9856474*n, 360)
	g := radians(math.Mod(357.528+0.9856003*n, 360))
	lambda := radians(l + 1.915*math.Sin(g) + 0.020*math.Sin(2*g))

	alpha := math.Atan2(math.Cos(radians(obliquity))*math.Sin(lambda), math.Cos(lambda))

	return 4 * (degrees(radians(l)) - degrees(alpha))
}

// LongitudeCorrection returns four minutes per degree east of the zone's
// standard meridian.
func LongitudeCorrection(longitude float64, zoneID string) float64 {
	return (longitude - StandardMeridian(zoneID)) * 4
}

func radians(d float64) float64 {
	return d * math.Pi / 180
}

func degrees(r float64) float64 {
	return r * 180 / math.Pi
}
