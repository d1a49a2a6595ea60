// Package canopy samples canopy-height rasters over segment footprints.
package canopy

import (
	"errors"
	"math"

	"github.com/IrinaTerentieva/DroneFlightPlanner/internal/geo"
)

// ErrMissingCanopyData indicates a footprint with zero valid raster cells.
var ErrMissingCanopyData = errors.New("missing canopy data")

// Source supplies raster height values intersecting a sampling footprint.
type Source interface {
	// Sample returns every valid cell value whose center falls inside the
	// footprint. It fails with ErrMissingCanopyData when none do.
	Sample(fp geo.Footprint) ([]float64, error)
}

// Grid is an in-memory height raster. Rows run north to south; the whole
// raster is loaded once per run so per-segment sampling never touches disk.
type Grid struct {
	values    []float64 // row-major
	ncols     int
	nrows     int
	xll       float64 // x of the lower-left corner
	yll       float64
	cellsize  float64
	nodata    float64
	hasNodata bool
}

// NewGrid builds a grid from row-major values. rows[0] is the northernmost
// row. Cells equal to nodata are invalid.
func NewGrid(rows [][]float64, xll, yll, cellsize, nodata float64) *Grid {
	nrows := len(rows)
	ncols := 0
	if nrows > 0 {
		ncols = len(rows[0])
	}
	values := make([]float64, 0, nrows*ncols)
	for _, row := range rows {
		values = append(values, row...)
	}
	return &Grid{
		values:    values,
		ncols:     ncols,
		nrows:     nrows,
		xll:       xll,
		yll:       yll,
		cellsize:  cellsize,
		nodata:    nodata,
		hasNodata: true,
	}
}

// cellCenter returns the center coordinate of the cell at row r, column c.
func (g *Grid) cellCenter(r, c int) geo.Point {
	return geo.Point{
		X: g.xll + (float64(c)+0.5)*g.cellsize,
		Y: g.yll + (float64(g.nrows-r)-0.5)*g.cellsize,
	}
}

func (g *Grid) valid(v float64) bool {
	if math.IsNaN(v) {
		return false
	}
	return !g.hasNodata || v != g.nodata
}

// Sample implements Source over the in-memory grid. Only the rows and
// columns overlapping the footprint's bounding box are scanned.
func (g *Grid) Sample(fp geo.Footprint) ([]float64, error) {
	if g.ncols == 0 || g.nrows == 0 || g.cellsize <= 0 {
		return nil, ErrMissingCanopyData
	}

	minC := int(math.Floor((fp.Center.X - fp.Radius - g.xll) / g.cellsize))
	maxC := int(math.Ceil((fp.Center.X + fp.Radius - g.xll) / g.cellsize))
	top := g.yll + float64(g.nrows)*g.cellsize
	minR := int(math.Floor((top - (fp.Center.Y + fp.Radius)) / g.cellsize))
	maxR := int(math.Ceil((top - (fp.Center.Y - fp.Radius)) / g.cellsize))

	minC, maxC = clampRange(minC, maxC, g.ncols)
	minR, maxR = clampRange(minR, maxR, g.nrows)

	var vals []float64
	for r := minR; r < maxR; r++ {
		for c := minC; c < maxC; c++ {
			v := g.values[r*g.ncols+c]
			if !g.valid(v) {
				continue
			}
			if fp.Contains(g.cellCenter(r, c)) {
				vals = append(vals, v)
			}
		}
	}
	if len(vals) == 0 {
		return nil, ErrMissingCanopyData
	}
	return vals, nil
}

func clampRange(lo, hi, n int) (int, int) {
	if lo < 0 {
		lo = 0
	}
	if hi > n {
		hi = n
	}
	if lo > hi {
		lo = hi
	}
	return lo, hi
}
