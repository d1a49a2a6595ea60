package canopy

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/IrinaTerentieva/DroneFlightPlanner/internal/geo"
)

func uniformGrid(nrows, ncols int, value float64) *Grid {
	rows := make([][]float64, nrows)
	for r := range rows {
		row := make([]float64, ncols)
		for c := range row {
			row[c] = value
		}
		rows[r] = row
	}
	return NewGrid(rows, 0, 0, 10, -9999)
}

func TestGridSample(t *testing.T) {
	// 10x10 grid, 10 m cells, origin at (0,0): covers 0..100 in x and y
	g := uniformGrid(10, 10, 17.5)

	vals, err := g.Sample(geo.Footprint{Center: geo.Point{X: 50, Y: 50}, Radius: 15})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vals) == 0 {
		t.Fatal("expected cells inside the footprint")
	}
	for _, v := range vals {
		if v != 17.5 {
			t.Fatalf("unexpected cell value %v", v)
		}
	}
}

func TestGridSampleOutsideCoverage(t *testing.T) {
	g := uniformGrid(10, 10, 5)

	_, err := g.Sample(geo.Footprint{Center: geo.Point{X: 5000, Y: 5000}, Radius: 20})
	if !errors.Is(err, ErrMissingCanopyData) {
		t.Errorf("error = %v, expected ErrMissingCanopyData", err)
	}
}

func TestGridSampleAllNodata(t *testing.T) {
	g := NewGrid([][]float64{
		{-9999, -9999},
		{-9999, -9999},
	}, 0, 0, 10, -9999)

	_, err := g.Sample(geo.Footprint{Center: geo.Point{X: 10, Y: 10}, Radius: 30})
	if !errors.Is(err, ErrMissingCanopyData) {
		t.Errorf("error = %v, expected ErrMissingCanopyData", err)
	}
}

func TestGridSampleSkipsNodata(t *testing.T) {
	g := NewGrid([][]float64{
		{-9999, 12},
		{14, -9999},
	}, 0, 0, 10, -9999)

	vals, err := g.Sample(geo.Footprint{Center: geo.Point{X: 10, Y: 10}, Radius: 30})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vals) != 2 {
		t.Fatalf("expected 2 valid cells, got %d (%v)", len(vals), vals)
	}
}

func TestHeight75(t *testing.T) {
	vals := []float64{2, 4, 6, 8, 10, 12, 14, 16}
	h := Height75(vals)
	// 75th percentile sits between the median and the maximum
	if h <= 9 || h >= 16 {
		t.Errorf("Height75 = %.2f, expected between median and max", h)
	}

	if h := Height75([]float64{7, 7, 7}); math.Abs(h-7) > 1e-9 {
		t.Errorf("Height75 of constant values = %.2f, expected 7", h)
	}
}

func TestHeight75RobustToOutlier(t *testing.T) {
	base := []float64{10, 10, 10, 10, 10, 10, 10, 10, 10, 80}
	h := Height75(base)
	if h > 20 {
		t.Errorf("Height75 = %.2f, expected the outlier not to dominate", h)
	}
}

func TestSampleHeight(t *testing.T) {
	g := uniformGrid(10, 10, 21)
	h, err := SampleHeight(g, geo.Footprint{Center: geo.Point{X: 50, Y: 50}, Radius: 25})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(h-21) > 1e-9 {
		t.Errorf("SampleHeight = %.2f, expected 21", h)
	}
}

func TestLoadASCIIGrid(t *testing.T) {
	asc := `ncols 3
nrows 2
xllcorner 100
yllcorner 200
cellsize 10
NODATA_value -9999
5 6 -9999
8 9 10
`
	path := filepath.Join(t.TempDir(), "chm.asc")
	if err := os.WriteFile(path, []byte(asc), 0o644); err != nil {
		t.Fatal(err)
	}

	g, err := LoadASCIIGrid(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.ncols != 3 || g.nrows != 2 {
		t.Fatalf("grid is %dx%d, expected 3x2", g.ncols, g.nrows)
	}

	// Footprint over the whole raster: 5 valid cells, nodata skipped
	vals, err := g.Sample(geo.Footprint{Center: geo.Point{X: 115, Y: 210}, Radius: 50})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vals) != 5 {
		t.Errorf("expected 5 valid cells, got %d (%v)", len(vals), vals)
	}

	// Bottom-left cell center is (105, 205), value 8
	vals, err = g.Sample(geo.Footprint{Center: geo.Point{X: 105, Y: 205}, Radius: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vals) != 1 || vals[0] != 8 {
		t.Errorf("bottom-left cell = %v, expected [8]", vals)
	}
}

func TestLoadASCIIGridMalformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing header", "1 2 3\n4 5 6\n"},
		{"row count mismatch", "ncols 3\nnrows 5\ncellsize 10\n1 2 3\n"},
		{"column count mismatch", "ncols 3\nnrows 1\ncellsize 10\n1 2\n"},
		{"bad cell value", "ncols 2\nnrows 1\ncellsize 10\n1 oak\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.asc")
			if err := os.WriteFile(path, []byte(tt.body), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadASCIIGrid(path); err == nil {
				t.Error("expected an error for malformed grid")
			}
		})
	}
}
