// Package app wires configuration, inputs and the planner into runnable
// application modes.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/IrinaTerentieva/DroneFlightPlanner/internal/canopy"
	"github.com/IrinaTerentieva/DroneFlightPlanner/internal/controllers/restserver"
	"github.com/IrinaTerentieva/DroneFlightPlanner/internal/log"
	"github.com/IrinaTerentieva/DroneFlightPlanner/internal/planner"
	"github.com/IrinaTerentieva/DroneFlightPlanner/internal/plot"
	"github.com/IrinaTerentieva/DroneFlightPlanner/internal/vector"
	"github.com/IrinaTerentieva/DroneFlightPlanner/pkg/config"
	"go.uber.org/zap"
)

// App represents the main application
type App struct {
	cfg    *config.Config
	logger *zap.SugaredLogger
}

// New creates a new application instance
func New(cfg *config.Config, logger *zap.SugaredLogger) *App {
	return &App{cfg: cfg, logger: logger}
}

// RunPlan executes one batch planning run: read features, plan windows,
// write the output vector file and optional plots.
func (a *App) RunPlan(ctx context.Context) error {
	if a.cfg.Vector.Input == "" {
		return fmt.Errorf("no vector.input configured; nothing to plan")
	}

	features, err := vector.ReadFeatures(a.cfg.Vector.Input)
	if err != nil {
		return fmt.Errorf("reading features: %w", err)
	}
	a.logger.Infof("loaded %d line feature(s) from %s", len(features), a.cfg.Vector.Input)

	var raster canopy.Source
	if a.cfg.Planner.CHMPath != "" {
		grid, err := canopy.LoadASCIIGrid(a.cfg.Planner.CHMPath)
		if err != nil {
			return fmt.Errorf("loading canopy raster: %w", err)
		}
		raster = grid
		a.logger.Infof("loaded canopy height model from %s", a.cfg.Planner.CHMPath)
	}

	report, err := planner.New(a.cfg, raster, a.logger).Run(ctx, features)
	if err != nil {
		return err
	}

	outPath := a.cfg.Vector.Output
	if outPath == "" {
		outPath = defaultOutputPath(a.cfg.Vector.Input)
	}
	if err := vector.WriteFeatures(outPath, report.OutputFeatures()); err != nil {
		return err
	}
	a.logger.Infof("wrote %d planned feature(s) to %s", report.Succeeded, outPath)

	if a.cfg.Plot.Enabled {
		if err := a.writePlots(report); err != nil {
			return err
		}
	}

	if report.Failed > 0 {
		a.logger.Warnf("%d of %d item(s) failed; see log for details",
			report.Failed, report.Failed+report.Succeeded)
	}
	return nil
}

// RunServe starts the REST planning server and blocks until shutdown.
func (a *App) RunServe(ctx context.Context) error {
	var wg sync.WaitGroup

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ctrl, err := restserver.NewController(ctx, &wg, a.cfg, a.logger)
	if err != nil {
		return err
	}
	if err := ctrl.StartController(); err != nil {
		return err
	}

	log.Info("Application started successfully")

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigs:
		log.Info("shutdown signal received, initiating graceful shutdown...")
	case <-ctx.Done():
		log.Info("context cancelled, shutting down...")
	}

	cancel()
	wg.Wait()
	log.Info("shutdown complete")
	return nil
}

func (a *App) writePlots(report *planner.Report) error {
	dir := a.cfg.Plot.OutputDir
	if dir == "" {
		dir = "plots"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating plot directory: %w", err)
	}

	noon := report.Noon.Time
	written := 0
	for _, item := range report.Items {
		if item.Err != nil {
			continue
		}
		id := item.FeatureID
		if item.Segmented {
			id = fmt.Sprintf("%s_seg%d", item.FeatureID, item.Segment.Index)
		}
		name := strings.ReplaceAll(id, string(os.PathSeparator), "_") + ".png"
		title := fmt.Sprintf("%s  %s  (%s)", id, a.cfg.Date, item.Result.Category)
		if err := plot.PenetrationCurve(filepath.Join(dir, name), title, item.Series, item.Result.Windows, noon); err != nil {
			return fmt.Errorf("plotting %s: %w", id, err)
		}
		written++
	}
	a.logger.Infof("wrote %d plot(s) to %s", written, dir)
	return nil
}

func defaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_segments_with_windows" + ext
}
