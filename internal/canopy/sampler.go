package canopy

import (
	"fmt"
	"sort"

	"github.com/IrinaTerentieva/DroneFlightPlanner/internal/geo"
	"gonum.org/v1/gonum/stat"
)

// heightQuantile is the quantile reported as a segment's effective canopy
// height. The 75th percentile rides above gaps and noise without chasing
// the single tallest outlier.
const heightQuantile = 0.75

// Height75 returns the 75th-percentile value of the samples.
func Height75(vals []float64) float64 {
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)
	return stat.Quantile(heightQuantile, stat.LinInterp, sorted, nil)
}

// SampleHeight returns the effective canopy height for a footprint.
func SampleHeight(src Source, fp geo.Footprint) (float64, error) {
	vals, err := src.Sample(fp)
	if err != nil {
		return 0, fmt.Errorf("sampling footprint at (%.1f, %.1f): %w", fp.Center.X, fp.Center.Y, err)
	}
	return Height75(vals), nil
}
