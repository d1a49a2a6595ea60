// Package config defines the planner configuration model and its providers.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidLocation indicates latitude or longitude outside the WGS84 range.
var ErrInvalidLocation = errors.New("invalid location")

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// LoadConfig loads and validates the complete configuration
	LoadConfig() (*Config, error)
}

// Config represents the complete, validated planner configuration
type Config struct {
	Location Location    `yaml:"location"`
	Date     string      `yaml:"date"`
	Cadence  string      `yaml:"cadence"`
	Planner  PlannerData `yaml:"planner"`
	Vector   VectorData  `yaml:"vector,omitempty"`
	Plot     PlotData    `yaml:"plot,omitempty"`
	Server   ServerData  `yaml:"server,omitempty"`
}

// Location holds the observer position shared by every feature in a run
type Location struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	Elevation float64 `yaml:"elevation"`
	Timezone  string  `yaml:"timezone"`
}

// PlannerData holds the shadow and windowing parameters
type PlannerData struct {
	TreeHeight          float64 `yaml:"tree_height,omitempty"`
	CHMPath             string  `yaml:"chm_path,omitempty"`
	DefaultTreeHeight   float64 `yaml:"default_tree_height,omitempty"`
	BufferWidth         float64 `yaml:"buffer_width"`
	ThresholdPct        float64 `yaml:"threshold_pct"`
	SegmentLength       float64 `yaml:"segment_length,omitempty"`
	SegmentBufferRadius float64 `yaml:"segment_buffer_radius,omitempty"`
	Workers             int     `yaml:"workers,omitempty"`
}

// VectorData holds the input/output vector file paths
type VectorData struct {
	Input  string `yaml:"input,omitempty"`
	Output string `yaml:"output,omitempty"`
}

// PlotData holds the penetration-curve plot settings
type PlotData struct {
	Enabled   bool   `yaml:"enabled,omitempty"`
	OutputDir string `yaml:"output_dir,omitempty"`
}

// ServerData holds the REST planning server settings
type ServerData struct {
	ListenAddr string `yaml:"listen_addr,omitempty"`
}

// Day returns the configured planning date.
func (c *Config) Day() (time.Time, error) {
	tz, err := time.LoadLocation(c.Location.Timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("unknown timezone %q: %w", c.Location.Timezone, err)
	}
	d, err := time.ParseInLocation("2006-01-02", c.Date, tz)
	if err != nil {
		return time.Time{}, fmt.Errorf("unreadable date %q (want YYYY-MM-DD): %w", c.Date, err)
	}
	return d, nil
}

// Step returns the configured sampling cadence as a duration.
func (c *Config) Step() (time.Duration, error) {
	return ParseCadence(c.Cadence)
}

// ParseCadence parses a cadence string. Accepted forms: a Go duration
// ("15m", "1h"), a bare minute count ("15"), or the minute-suffixed forms
// the original planning configs used ("15min", "15-minute", "15T").
func ParseCadence(s string) (time.Duration, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0, fmt.Errorf("empty cadence")
	}
	for _, suffix := range []string{"-minute", "-min", "min", "t"} {
		if strings.HasSuffix(s, suffix) {
			if n, err := strconv.Atoi(strings.TrimSuffix(s, suffix)); err == nil {
				return validCadence(time.Duration(n) * time.Minute)
			}
		}
	}
	if n, err := strconv.Atoi(s); err == nil {
		return validCadence(time.Duration(n) * time.Minute)
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("unreadable cadence %q: %w", s, err)
	}
	return validCadence(d)
}

func validCadence(d time.Duration) (time.Duration, error) {
	if d < time.Minute || d > 24*time.Hour {
		return 0, fmt.Errorf("cadence %v out of range [1m, 24h]", d)
	}
	return d, nil
}

// Validate checks the configuration for startup-fatal problems.
func (c *Config) Validate() error {
	loc := c.Location
	if loc.Latitude < -90 || loc.Latitude > 90 {
		return fmt.Errorf("%w: latitude %.4f outside [-90, 90]", ErrInvalidLocation, loc.Latitude)
	}
	if loc.Longitude < -180 || loc.Longitude > 180 {
		return fmt.Errorf("%w: longitude %.4f outside [-180, 180]", ErrInvalidLocation, loc.Longitude)
	}
	if _, err := c.Day(); err != nil {
		return err
	}
	if _, err := c.Step(); err != nil {
		return err
	}
	p := c.Planner
	if p.BufferWidth <= 0 {
		return fmt.Errorf("buffer_width must be positive, got %.2f", p.BufferWidth)
	}
	if p.ThresholdPct < 0 || p.ThresholdPct > 100 {
		return fmt.Errorf("threshold_pct %.1f outside [0, 100]", p.ThresholdPct)
	}
	if p.CHMPath == "" && p.TreeHeight <= 0 {
		return fmt.Errorf("either planner.tree_height or planner.chm_path must be set")
	}
	if p.CHMPath == "" && p.TreeHeight > 0 {
		// uniform-height mode needs nothing else
	} else if p.CHMPath != "" && p.SegmentBufferRadius <= 0 {
		return fmt.Errorf("segment_buffer_radius must be positive when chm_path is set")
	}
	if c.Vector.Input != "" && p.SegmentLength < 0 {
		return fmt.Errorf("segment_length must not be negative, got %.2f", p.SegmentLength)
	}
	if p.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", p.Workers)
	}
	return nil
}
