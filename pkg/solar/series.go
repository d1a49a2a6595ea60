package solar

import (
	"time"
)

// Sample is one timestamped solar position in a day series.
type Sample struct {
	Time     time.Time
	Position Position
}

// DaySeries returns solar positions for every cadence step of the calendar
// day containing midnight, in midnight's timezone. The series always starts
// at local 00:00 and ends before the following midnight.
func DaySeries(midnight time.Time, step time.Duration, lat, lon float64) []Sample {
	dayEnd := midnight.AddDate(0, 0, 1)
	n := int(dayEnd.Sub(midnight) / step)
	samples := make([]Sample, 0, n)
	for t := midnight; t.Before(dayEnd); t = t.Add(step) {
		samples = append(samples, Sample{Time: t, Position: PositionAt(t, lat, lon)})
	}
	return samples
}

// Noon returns the timestamp of peak solar elevation in the series.
// ok is false for an empty series.
func Noon(samples []Sample) (noon time.Time, ok bool) {
	if len(samples) == 0 {
		return time.Time{}, false
	}
	best := samples[0]
	for _, s := range samples[1:] {
		if s.Position.ElevationDeg > best.Position.ElevationDeg {
			best = s
		}
	}
	return best.Time, true
}

// MaxElevation returns the highest elevation in the series, or the zero
// value for an empty series.
func MaxElevation(samples []Sample) float64 {
	max := 0.0
	for i, s := range samples {
		if i == 0 || s.Position.ElevationDeg > max {
			max = s.Position.ElevationDeg
		}
	}
	return max
}
