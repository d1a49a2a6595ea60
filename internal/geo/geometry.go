// Package geo provides planar line geometry for survey features.
//
// Coordinates are expected in a projected CRS with meter units; segment
// lengths, buffer widths and footprint radii are all metric.
package geo

import (
	"errors"
	"math"
)

// ErrDegenerateGeometry indicates a zero-length line or segment whose
// bearing is undefined.
var ErrDegenerateGeometry = errors.New("degenerate geometry")

// Point is a planar coordinate in meters.
type Point struct {
	X float64
	Y float64
}

// LineString is an ordered vertex sequence describing a line feature.
type LineString []Point

// Length returns the total line length in meters.
func (l LineString) Length() float64 {
	total := 0.0
	for i := 1; i < len(l); i++ {
		total += distance(l[i-1], l[i])
	}
	return total
}

// Interpolate returns the point at chainage d along the line. Chainages
// outside [0, Length] clamp to the endpoints.
func (l LineString) Interpolate(d float64) Point {
	if len(l) == 0 {
		return Point{}
	}
	if d <= 0 {
		return l[0]
	}
	remaining := d
	for i := 1; i < len(l); i++ {
		seg := distance(l[i-1], l[i])
		if seg <= 0 {
			continue
		}
		if remaining <= seg {
			t := remaining / seg
			return Point{
				X: l[i-1].X + t*(l[i].X-l[i-1].X),
				Y: l[i-1].Y + t*(l[i].Y-l[i-1].Y),
			}
		}
		remaining -= seg
	}
	return l[len(l)-1]
}

// Bearing returns the compass bearing from the line's first vertex to its
// last, in degrees from north, clockwise, [0, 360).
func (l LineString) Bearing() (float64, error) {
	if len(l) < 2 {
		return 0, ErrDegenerateGeometry
	}
	p0, p1 := l[0], l[len(l)-1]
	dx, dy := p1.X-p0.X, p1.Y-p0.Y
	if dx == 0 && dy == 0 {
		return 0, ErrDegenerateGeometry
	}
	// atan2(dx, dy) measures from north
	b := math.Atan2(dx, dy) * 180 / math.Pi
	return math.Mod(b+360, 360), nil
}

// Axis reduces a bearing to the undirected [0, 180) range: a line has no
// forward direction, so 10 and 190 degrees describe the same orientation.
func Axis(bearingDeg float64) float64 {
	return math.Mod(math.Mod(bearingDeg, 180)+180, 180)
}

var compassLabels = []string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// CompassLabel returns the 16-wind compass label for a bearing.
func CompassLabel(bearingDeg float64) string {
	idx := int(math.Round(math.Mod(bearingDeg+360, 360)/22.5)) % 16
	return compassLabels[idx]
}

func distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}
