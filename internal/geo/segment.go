package geo

import (
	"math"
)

// Segment is one fixed-length slice of a parent line. Each segment carries
// its own bearing, computed from its own endpoints: curved lines can have
// materially different local orientations.
type Segment struct {
	Index      int
	StartChain float64 // chainage of the segment start along the parent line
	EndChain   float64
	Line       LineString // two-point chord between the interpolated ends
	BearingDeg float64
}

// Length returns the segment's chainage span in meters.
func (s Segment) Length() float64 {
	return s.EndChain - s.StartChain
}

// Midpoint returns the segment chord's midpoint, the center of its canopy
// sampling footprint.
func (s Segment) Midpoint() Point {
	a, b := s.Line[0], s.Line[1]
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// Footprint is a circular canopy sampling area around a segment midpoint.
type Footprint struct {
	Center Point
	Radius float64
}

// Footprint returns the segment's canopy sampling footprint for the given
// radius.
func (s Segment) Footprint(radius float64) Footprint {
	return Footprint{Center: s.Midpoint(), Radius: radius}
}

// Contains reports whether p falls inside the footprint.
func (f Footprint) Contains(p Point) bool {
	return distance(f.Center, p) <= f.Radius
}

// Split divides a line into ceil(length/segmentLength) segments. All
// segments span segmentLength along the line except a shorter remainder
// tail; together they cover the line with no gaps or overlaps. A
// segmentLength of zero (or one exceeding the line) yields a single segment
// covering the whole feature.
func Split(line LineString, segmentLength float64) ([]Segment, error) {
	total := line.Length()
	if total <= 0 {
		return nil, ErrDegenerateGeometry
	}
	if segmentLength <= 0 || segmentLength >= total {
		return buildSegments(line, []float64{0, total})
	}

	n := int(math.Ceil(total / segmentLength))
	chainages := make([]float64, 0, n+1)
	for i := 0; i < n; i++ {
		chainages = append(chainages, float64(i)*segmentLength)
	}
	chainages = append(chainages, total)
	return buildSegments(line, chainages)
}

func buildSegments(line LineString, chainages []float64) ([]Segment, error) {
	segments := make([]Segment, 0, len(chainages)-1)
	for i := 1; i < len(chainages); i++ {
		start, end := chainages[i-1], chainages[i]
		chord := LineString{line.Interpolate(start), line.Interpolate(end)}
		bearing, err := chord.Bearing()
		if err != nil {
			return nil, err
		}
		segments = append(segments, Segment{
			Index:      i - 1,
			StartChain: start,
			EndChain:   end,
			Line:       chord,
			BearingDeg: bearing,
		})
	}
	return segments, nil
}
