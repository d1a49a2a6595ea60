// Package planner runs the shadow flight-window pipeline over survey
// features.
package planner

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/IrinaTerentieva/DroneFlightPlanner/internal/canopy"
	"github.com/IrinaTerentieva/DroneFlightPlanner/internal/geo"
	"github.com/IrinaTerentieva/DroneFlightPlanner/internal/shadow"
	"github.com/IrinaTerentieva/DroneFlightPlanner/internal/vector"
	"github.com/IrinaTerentieva/DroneFlightPlanner/internal/windows"
	"github.com/IrinaTerentieva/DroneFlightPlanner/pkg/config"
	"github.com/IrinaTerentieva/DroneFlightPlanner/pkg/solar"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Planner computes flight windows for survey features. One Planner serves
// one configuration; the day's solar series is computed once per run and
// shared read-only by every worker.
type Planner struct {
	cfg    *config.Config
	raster canopy.Source // nil in uniform-height mode
	logger *zap.SugaredLogger
}

// New creates a planner. raster may be nil when a uniform tree height is
// configured.
func New(cfg *config.Config, raster canopy.Source, logger *zap.SugaredLogger) *Planner {
	return &Planner{cfg: cfg, raster: raster, logger: logger}
}

// Item is the outcome for one feature segment. Failed items carry Err and
// empty results; a failure never aborts the rest of the run.
type Item struct {
	FeatureID  string
	Segment    geo.Segment
	Segmented  bool // false when the whole feature ran as one piece
	HeightM    float64
	FromRaster bool
	Series     []shadow.PenetrationSample
	Result     windows.Result
	Err        error
}

// Report summarizes one planning run.
type Report struct {
	RunID     string
	Noon      solar.Sample
	Items     []Item
	Succeeded int
	Failed    int
	Failures  map[string]int // error kind -> count
}

// Run plans every feature and collects per-item results. It fails outright
// only for run-wide problems: an unusable date/timezone or a day with no
// daylight at the location.
func (p *Planner) Run(ctx context.Context, features []vector.Feature) (*Report, error) {
	day, err := p.cfg.Day()
	if err != nil {
		return nil, err
	}
	step, err := p.cfg.Step()
	if err != nil {
		return nil, err
	}

	loc := p.cfg.Location
	series := solar.DaySeries(day, step, loc.Latitude, loc.Longitude)
	if solar.MaxElevation(series) <= shadow.NightCutoffDeg {
		return nil, fmt.Errorf("%w: no daylight at %.4f, %.4f on %s",
			windows.ErrInsufficientSolarData, loc.Latitude, loc.Longitude, p.cfg.Date)
	}
	noonTime, _ := solar.Noon(series)
	var noon solar.Sample
	for _, s := range series {
		if s.Time.Equal(noonTime) {
			noon = s
		}
	}

	report := &Report{
		RunID:    uuid.New().String(),
		Noon:     noon,
		Failures: make(map[string]int),
	}

	jobs := p.collectJobs(features, report)
	p.logger.Infow("planning run started",
		"run_id", report.RunID,
		"features", len(features),
		"segments", len(jobs),
		"date", p.cfg.Date,
		"cadence", step.String(),
	)

	results := p.fanOut(ctx, jobs, series, noonTime, step)
	report.Items = append(report.Items, results...)

	for _, item := range report.Items {
		if item.Err != nil {
			report.Failed++
			report.Failures[errorKind(item.Err)]++
		} else {
			report.Succeeded++
		}
	}

	p.logger.Infow("planning run finished",
		"run_id", report.RunID,
		"succeeded", report.Succeeded,
		"failed", report.Failed,
	)
	for kind, n := range report.Failures {
		p.logger.Warnf("%d item(s) failed with %s", n, kind)
	}
	return report, nil
}

// collectJobs splits features into per-segment work items. Geometry
// failures are recorded on the report immediately rather than queued.
func (p *Planner) collectJobs(features []vector.Feature, report *Report) []Item {
	var jobs []Item
	for _, f := range features {
		segments, err := geo.Split(f.Line, p.cfg.Planner.SegmentLength)
		if err != nil {
			report.Items = append(report.Items, Item{
				FeatureID: f.ID,
				Err:       fmt.Errorf("feature %s: %w", f.ID, err),
			})
			continue
		}
		for _, seg := range segments {
			jobs = append(jobs, Item{
				FeatureID: f.ID,
				Segment:   seg,
				Segmented: len(segments) > 1,
			})
		}
	}
	return jobs
}

func (p *Planner) fanOut(ctx context.Context, jobs []Item, series []solar.Sample, noon time.Time, step time.Duration) []Item {
	workers := p.cfg.Planner.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}
	if workers < 1 {
		workers = 1
	}

	jobCh := make(chan Item)
	resultCh := make(chan Item)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range jobCh {
				resultCh <- p.planItem(item, series, noon, step)
			}
		}()
	}

	go func() {
		defer close(jobCh)
		for _, item := range jobs {
			select {
			case jobCh <- item:
			case <-ctx.Done():
				return
			}
		}
	}()
	go func() {
		wg.Wait()
		close(resultCh)
	}()

	results := make([]Item, 0, len(jobs))
	for item := range resultCh {
		results = append(results, item)
	}
	return results
}

// planItem runs the per-segment pipeline: canopy height, penetration
// series, window derivation.
func (p *Planner) planItem(item Item, series []solar.Sample, noon time.Time, step time.Duration) Item {
	height, fromRaster, err := p.segmentHeight(item.Segment)
	if err != nil {
		item.Err = fmt.Errorf("feature %s segment %d: %w", item.FeatureID, item.Segment.Index, err)
		return item
	}
	item.HeightM = height
	item.FromRaster = fromRaster

	item.Series = shadow.Series(series, height, item.Segment.BearingDeg, p.cfg.Planner.BufferWidth)
	result, err := windows.Derive(item.Series, p.cfg.Planner.ThresholdPct, noon, step)
	if err != nil {
		item.Err = fmt.Errorf("feature %s segment %d: %w", item.FeatureID, item.Segment.Index, err)
		return item
	}
	item.Result = result
	return item
}

// segmentHeight resolves the effective tree height for a segment. With a
// raster configured, a footprint without canopy coverage falls back to
// default_tree_height when one is set; otherwise the segment fails.
func (p *Planner) segmentHeight(seg geo.Segment) (height float64, fromRaster bool, err error) {
	if p.raster == nil {
		return p.cfg.Planner.TreeHeight, false, nil
	}
	h, err := canopy.SampleHeight(p.raster, seg.Footprint(p.cfg.Planner.SegmentBufferRadius))
	if err != nil {
		if errors.Is(err, canopy.ErrMissingCanopyData) && p.cfg.Planner.DefaultTreeHeight > 0 {
			p.logger.Debugw("no canopy coverage, using default height",
				"x", seg.Midpoint().X, "y", seg.Midpoint().Y,
				"default_height", p.cfg.Planner.DefaultTreeHeight)
			return p.cfg.Planner.DefaultTreeHeight, false, nil
		}
		return 0, false, err
	}
	return h, true, nil
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, geo.ErrDegenerateGeometry):
		return "degenerate_geometry"
	case errors.Is(err, canopy.ErrMissingCanopyData):
		return "missing_canopy_data"
	case errors.Is(err, windows.ErrInsufficientSolarData):
		return "insufficient_solar_data"
	default:
		return "other"
	}
}

// OutputFeatures converts successful items into vector features carrying
// the planning attributes.
func (r *Report) OutputFeatures() []vector.Feature {
	out := make([]vector.Feature, 0, len(r.Items))
	for _, item := range r.Items {
		if item.Err != nil {
			continue
		}
		id := item.FeatureID
		if item.Segmented {
			id = fmt.Sprintf("%s_seg%d", item.FeatureID, item.Segment.Index)
		}
		props := map[string]interface{}{
			"orig_id":           item.FeatureID,
			"segment":           item.Segment.Index,
			"orientation":       int(math.Round(item.Segment.BearingDeg)),
			"dir_category":      geo.CompassLabel(item.Segment.BearingDeg),
			"flight_windows":    windows.Format(item.Result.Windows),
			"flight_duration_h": item.Result.FormatDurationH(),
			"window_category":   item.Result.Category.String(),
		}
		if item.FromRaster {
			props["canopy_h75"] = math.Round(item.HeightM*100) / 100
		}
		out = append(out, vector.Feature{
			ID:         id,
			Line:       item.Segment.Line,
			Properties: props,
		})
	}
	return out
}
