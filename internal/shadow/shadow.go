// Package shadow models tree-cast shadows and their intrusion into a
// survey buffer around a line feature.
package shadow

import (
	"math"
	"time"

	"github.com/IrinaTerentieva/DroneFlightPlanner/pkg/solar"
)

// NightCutoffDeg is the solar elevation below which a sample is treated as
// night. Elevations just above zero would otherwise produce near-infinite
// shadow lengths from the tangent blow-up.
const NightCutoffDeg = 0.01

// Sample is the shadow cast by an object of known height at one instant.
// Night samples carry no length or azimuth.
type Sample struct {
	Time       time.Time
	Night      bool
	LengthM    float64 // shadow length in meters
	AzimuthDeg float64 // direction the shadow points, 0 = north, clockwise
}

// Cast computes the shadow of an object of heightM meters for one solar
// position sample.
func Cast(s solar.Sample, heightM float64) Sample {
	if s.Position.ElevationDeg <= NightCutoffDeg || heightM <= 0 {
		return Sample{Time: s.Time, Night: s.Position.ElevationDeg <= NightCutoffDeg}
	}
	length := heightM / math.Tan(s.Position.ElevationDeg*math.Pi/180)
	return Sample{
		Time:       s.Time,
		LengthM:    length,
		AzimuthDeg: math.Mod(s.Position.AzimuthDeg+180, 360),
	}
}

// Penetration returns the percentage of a survey buffer of width bufferM
// occupied by the shadow, for a feature oriented along bearingDeg. The
// shadow vector is projected onto the axis perpendicular to the feature;
// results clamp to [0, 100]. Night samples penetrate 0%.
func Penetration(s Sample, bearingDeg, bufferM float64) float64 {
	if s.Night || bufferM <= 0 {
		return 0
	}
	delta := (s.AzimuthDeg - bearingDeg) * math.Pi / 180
	perp := s.LengthM * math.Abs(math.Sin(delta))
	pct := 100 * perp / bufferM
	if pct > 100 {
		return 100
	}
	return pct
}

// PenetrationSample is one timestamped buffer-penetration reading.
type PenetrationSample struct {
	Time  time.Time
	Night bool
	Pct   float64
}

// Series computes the day's penetration series for a feature bearing.
func Series(samples []solar.Sample, heightM, bearingDeg, bufferM float64) []PenetrationSample {
	out := make([]PenetrationSample, len(samples))
	for i, s := range samples {
		cast := Cast(s, heightM)
		out[i] = PenetrationSample{
			Time:  cast.Time,
			Night: cast.Night,
			Pct:   Penetration(cast, bearingDeg, bufferM),
		}
	}
	return out
}

// SimpleSeries computes the orientation-agnostic pair of penetration series:
// one for a north-south line and one for an east-west line.
func SimpleSeries(samples []solar.Sample, heightM, bufferM float64) (ns, ew []PenetrationSample) {
	return Series(samples, heightM, 0, bufferM), Series(samples, heightM, 90, bufferM)
}
