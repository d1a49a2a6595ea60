package planner

import (
	"context"
	"testing"

	"github.com/IrinaTerentieva/DroneFlightPlanner/internal/canopy"
	"github.com/IrinaTerentieva/DroneFlightPlanner/internal/geo"
	"github.com/IrinaTerentieva/DroneFlightPlanner/internal/vector"
	"github.com/IrinaTerentieva/DroneFlightPlanner/pkg/config"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{
		Location: config.Location{Latitude: 48, Longitude: 0, Elevation: 300, Timezone: "UTC"},
		Date:     "2025-06-15",
		Cadence:  "15m",
		Planner: config.PlannerData{
			TreeHeight:    15,
			BufferWidth:   10,
			ThresholdPct:  40,
			SegmentLength: 100,
			Workers:       2,
		},
	}
}

func testGrid(value float64) *canopy.Grid {
	rows := make([][]float64, 40)
	for r := range rows {
		row := make([]float64, 40)
		for c := range row {
			row[c] = value
		}
		rows[r] = row
	}
	return canopy.NewGrid(rows, -100, -100, 10, -9999)
}

func TestRunUniformHeight(t *testing.T) {
	p := New(testConfig(), nil, zap.NewNop().Sugar())

	features := []vector.Feature{
		{ID: "line-1", Line: geo.LineString{{X: 0, Y: 0}, {X: 250, Y: 0}}},
		{ID: "line-2", Line: geo.LineString{{X: 0, Y: 100}, {X: 0, Y: 180}}},
	}

	report, err := p.Run(context.Background(), features)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// line-1 splits into 3 segments, line-2 stays whole
	if len(report.Items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(report.Items))
	}
	if report.Failed != 0 {
		t.Fatalf("expected no failures, got %d (%v)", report.Failed, report.Failures)
	}
	for _, item := range report.Items {
		if item.Err != nil {
			t.Fatalf("item %s: %v", item.FeatureID, item.Err)
		}
		if len(item.Series) != 96 {
			t.Errorf("item %s has %d penetration samples, expected 96", item.FeatureID, len(item.Series))
		}
		if item.Result.Category.String() == "" {
			t.Errorf("item %s has no category", item.FeatureID)
		}
		if item.FromRaster {
			t.Errorf("item %s claims raster height in uniform mode", item.FeatureID)
		}
		if item.HeightM != 15 {
			t.Errorf("item %s height = %.1f, expected 15", item.FeatureID, item.HeightM)
		}
	}

	// Mid-June at 48N has plenty of daylight; an east-west line with a
	// modest threshold should get at least one window.
	if report.Items[0].Result.Total == 0 {
		t.Error("expected flyable time for the first segment in June")
	}
}

func TestRunIsolatesBadGeometry(t *testing.T) {
	p := New(testConfig(), nil, zap.NewNop().Sugar())

	features := []vector.Feature{
		{ID: "good", Line: geo.LineString{{X: 0, Y: 0}, {X: 80, Y: 0}}},
		{ID: "degenerate", Line: geo.LineString{{X: 5, Y: 5}, {X: 5, Y: 5}}},
	}

	report, err := p.Run(context.Background(), features)
	if err != nil {
		t.Fatalf("run must not abort on a bad feature: %v", err)
	}
	if report.Succeeded != 1 || report.Failed != 1 {
		t.Fatalf("succeeded/failed = %d/%d, expected 1/1", report.Succeeded, report.Failed)
	}
	if report.Failures["degenerate_geometry"] != 1 {
		t.Errorf("failure kinds = %v, expected degenerate_geometry: 1", report.Failures)
	}
}

func TestRunWithRasterHeights(t *testing.T) {
	cfg := testConfig()
	cfg.Planner.TreeHeight = 0
	cfg.Planner.CHMPath = "in-memory"
	cfg.Planner.SegmentBufferRadius = 25
	p := New(cfg, testGrid(18), zap.NewNop().Sugar())

	features := []vector.Feature{
		{ID: "line-1", Line: geo.LineString{{X: 0, Y: 0}, {X: 200, Y: 0}}},
	}
	report, err := p.Run(context.Background(), features)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Failed != 0 {
		t.Fatalf("expected no failures, got %v", report.Failures)
	}
	for _, item := range report.Items {
		if !item.FromRaster {
			t.Errorf("item %s height not sampled from raster", item.FeatureID)
		}
		if item.HeightM != 18 {
			t.Errorf("item %s height = %.2f, expected 18", item.FeatureID, item.HeightM)
		}
	}
}

func TestRunMissingCanopyFallsBackToDefault(t *testing.T) {
	cfg := testConfig()
	cfg.Planner.TreeHeight = 0
	cfg.Planner.CHMPath = "in-memory"
	cfg.Planner.SegmentBufferRadius = 25
	cfg.Planner.DefaultTreeHeight = 12
	p := New(cfg, testGrid(18), zap.NewNop().Sugar())

	// Far outside raster coverage
	features := []vector.Feature{
		{ID: "off-raster", Line: geo.LineString{{X: 90000, Y: 90000}, {X: 90080, Y: 90000}}},
	}
	report, err := p.Run(context.Background(), features)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Failed != 0 {
		t.Fatalf("expected default-height fallback, got failures %v", report.Failures)
	}
	if report.Items[0].HeightM != 12 || report.Items[0].FromRaster {
		t.Errorf("item height = %.1f fromRaster=%v, expected 12/false",
			report.Items[0].HeightM, report.Items[0].FromRaster)
	}
}

func TestRunMissingCanopyWithoutDefaultFails(t *testing.T) {
	cfg := testConfig()
	cfg.Planner.TreeHeight = 0
	cfg.Planner.CHMPath = "in-memory"
	cfg.Planner.SegmentBufferRadius = 25
	p := New(cfg, testGrid(18), zap.NewNop().Sugar())

	features := []vector.Feature{
		{ID: "off-raster", Line: geo.LineString{{X: 90000, Y: 90000}, {X: 90080, Y: 90000}}},
		{ID: "on-raster", Line: geo.LineString{{X: 0, Y: 0}, {X: 80, Y: 0}}},
	}
	report, err := p.Run(context.Background(), features)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Succeeded != 1 || report.Failed != 1 {
		t.Fatalf("succeeded/failed = %d/%d, expected 1/1", report.Succeeded, report.Failed)
	}
	if report.Failures["missing_canopy_data"] != 1 {
		t.Errorf("failure kinds = %v, expected missing_canopy_data: 1", report.Failures)
	}
}

func TestRunPolarNightIsFatal(t *testing.T) {
	cfg := testConfig()
	cfg.Location.Latitude = 78
	cfg.Location.Longitude = 15
	cfg.Date = "2025-12-21"
	p := New(cfg, nil, zap.NewNop().Sugar())

	_, err := p.Run(context.Background(), []vector.Feature{
		{ID: "line-1", Line: geo.LineString{{X: 0, Y: 0}, {X: 80, Y: 0}}},
	})
	if err == nil {
		t.Fatal("expected a run-wide error for polar night")
	}
}

func TestOutputFeatures(t *testing.T) {
	p := New(testConfig(), nil, zap.NewNop().Sugar())

	report, err := p.Run(context.Background(), []vector.Feature{
		{ID: "line-1", Line: geo.LineString{{X: 0, Y: 0}, {X: 250, Y: 0}}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := report.OutputFeatures()
	if len(out) != 3 {
		t.Fatalf("expected 3 output features, got %d", len(out))
	}

	seen := map[string]bool{}
	for _, f := range out {
		seen[f.ID] = true
		if f.Properties["orig_id"] != "line-1" {
			t.Errorf("orig_id = %v", f.Properties["orig_id"])
		}
		if f.Properties["orientation"] != 90 {
			t.Errorf("orientation = %v, expected 90", f.Properties["orientation"])
		}
		if f.Properties["dir_category"] != "E" {
			t.Errorf("dir_category = %v, expected E", f.Properties["dir_category"])
		}
		if _, ok := f.Properties["window_category"]; !ok {
			t.Error("missing window_category")
		}
		if _, ok := f.Properties["canopy_h75"]; ok {
			t.Error("canopy_h75 must be absent in uniform-height mode")
		}
	}
	for _, id := range []string{"line-1_seg0", "line-1_seg1", "line-1_seg2"} {
		if !seen[id] {
			t.Errorf("missing output feature %s (have %v)", id, seen)
		}
	}
}
