// Package solar computes apparent solar positions for flight-window planning.
//
// The position math follows the NOAA low-accuracy algorithm (Meeus-derived
// polynomial series for the solar longitude, declination and equation of
// time), which is accurate to well under 0.1 degrees for the years a survey
// plan cares about. Azimuth is measured from true north, clockwise.
package solar

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// Position holds the apparent solar position for one instant.
type Position struct {
	ElevationDeg float64 // apparent elevation above the horizon, negative at night
	AzimuthDeg   float64 // compass azimuth of the sun, 0 = north, clockwise
}

// refractionDeg is the mean atmospheric refraction applied at the horizon.
const refractionDeg = 0.5667

func degToRad(deg float64) float64 { return deg * math.Pi / 180.0 }
func radToDeg(rad float64) float64 { return rad * 180.0 / math.Pi }
func fixAngle(a float64) float64   { return a - 360.0*math.Floor(a/360.0) }

func clamp1(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

// PositionAt returns the apparent solar position at time t for an observer
// at the given latitude and longitude (decimal degrees, WGS84).
func PositionAt(t time.Time, lat, lon float64) Position {
	jd := julian.TimeToJD(t.UTC())
	T := (jd - 2451545.0) / 36525.0

	// Geometric mean longitude and anomaly of the sun
	L0 := fixAngle(280.46646 + T*(36000.76983+T*0.0003032))
	M := fixAngle(357.52911 + T*(35999.05029-T*0.0001537))
	e := 0.016708634 - T*(0.000042037+T*0.0000001267)

	// Equation of center and apparent longitude
	C := math.Sin(degToRad(M))*(1.914602-T*(0.004817+T*0.000014)) +
		math.Sin(degToRad(2*M))*(0.019993-T*0.000101) +
		math.Sin(degToRad(3*M))*0.000289
	omega := 125.04 - 1934.136*T
	lambda := L0 + C - 0.00569 - 0.00478*math.Sin(degToRad(omega))

	// Obliquity and declination
	eps0 := 23 + (26+(21.448-T*(46.815+T*(0.00059-T*0.001813)))/60)/60
	declRad := math.Asin(clamp1(math.Sin(degToRad(eps0)) * math.Sin(degToRad(lambda))))

	// Equation of time, minutes
	y := math.Tan(degToRad(eps0) / 2)
	y *= y
	eqTimeMin := radToDeg(y*math.Sin(degToRad(2*L0))-
		2*e*math.Sin(degToRad(M))+
		4*e*y*math.Sin(degToRad(M))*math.Cos(degToRad(2*L0))-
		0.5*y*y*math.Sin(degToRad(4*L0))-
		1.25*e*e*math.Sin(degToRad(2*M))) * 4

	// Hour angle from true solar time
	utc := t.UTC()
	utcMin := float64(utc.Hour()*60+utc.Minute()) + float64(utc.Second())/60.0
	tst := utcMin + 4*lon + eqTimeMin
	haDeg := tst/4 - 180
	haRad := degToRad(haDeg)

	latRad := degToRad(lat)
	cosZen := clamp1(math.Sin(latRad)*math.Sin(declRad) +
		math.Cos(latRad)*math.Cos(declRad)*math.Cos(haRad))
	zenRad := math.Acos(cosZen)
	elDeg := 90 - radToDeg(zenRad) + refractionDeg

	azDeg := 0.0
	if den := math.Cos(latRad) * math.Sin(zenRad); den > 1e-12 {
		azDeg = radToDeg(math.Acos(clamp1((math.Sin(declRad) - math.Sin(latRad)*cosZen) / den)))
		if haDeg > 0 {
			azDeg = 360 - azDeg
		}
	}

	return Position{
		ElevationDeg: elDeg,
		AzimuthDeg:   fixAngle(azDeg),
	}
}
