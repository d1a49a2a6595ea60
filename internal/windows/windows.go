// Package windows collapses buffer-penetration time series into flyable
// time windows and pilot-facing categories.
package windows

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/IrinaTerentieva/DroneFlightPlanner/internal/shadow"
)

// ErrInsufficientSolarData indicates an empty or all-night penetration
// series, as produced by polar conditions.
var ErrInsufficientSolarData = errors.New("insufficient solar data")

// Window is a closed interval of flyable time.
type Window struct {
	Start time.Time
	End   time.Time
}

// Duration returns the window's span.
func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

func (w Window) String() string {
	return fmt.Sprintf("%s-%s", w.Start.Format("15:04"), w.End.Format("15:04"))
}

// Format serializes windows as "HH:MM-HH:MM;HH:MM-HH:MM" for the vector
// output attributes.
func Format(wins []Window) string {
	parts := make([]string, len(wins))
	for i, w := range wins {
		parts[i] = w.String()
	}
	return strings.Join(parts, ";")
}

// Total returns the summed duration of the windows.
func Total(wins []Window) time.Duration {
	var total time.Duration
	for _, w := range wins {
		total += w.Duration()
	}
	return total
}

// Merge sorts windows by start and coalesces overlapping or abutting
// intervals. Merging an already-merged list returns it unchanged.
func Merge(wins []Window) []Window {
	if len(wins) == 0 {
		return nil
	}
	sorted := make([]Window, len(wins))
	copy(sorted, wins)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start.Before(sorted[j].Start) })

	merged := sorted[:1]
	for _, w := range sorted[1:] {
		last := &merged[len(merged)-1]
		if !w.Start.After(last.End) {
			if w.End.After(last.End) {
				last.End = w.End
			}
			continue
		}
		merged = append(merged, w)
	}
	return merged
}

// Result holds the derived windows and their pilot category for one
// feature or segment.
type Result struct {
	Windows  []Window
	Total    time.Duration
	Category Category
}

// FormatDurationH returns the total flyable duration in hours, rounded to
// two decimals, for the vector output attributes.
func (r Result) FormatDurationH() float64 {
	return float64(int(r.Total.Hours()*100+0.5)) / 100
}

// Derive runs the full window derivation for one penetration series: mark
// each sample flyable when the sun is up and penetration stays at or below
// thresholdPct, coalesce consecutive flyable samples into windows (a single
// excluded sample breaks a window), and classify the day. Each window's end
// extends one cadence step past its last flyable sample so durations cover
// the full sampled span.
//
// A series with no daylight at all fails with ErrInsufficientSolarData.
// A daylit series with nothing flyable yields zero windows and the
// extra-short category.
func Derive(series []shadow.PenetrationSample, thresholdPct float64, noon time.Time, step time.Duration) (Result, error) {
	if len(series) == 0 {
		return Result{}, fmt.Errorf("%w: empty penetration series", ErrInsufficientSolarData)
	}

	daylight := false
	var wins []Window
	open := false
	var start, last time.Time
	for _, s := range series {
		if !s.Night {
			daylight = true
		}
		flyable := !s.Night && s.Pct <= thresholdPct
		switch {
		case flyable && !open:
			open = true
			start, last = s.Time, s.Time
		case flyable:
			last = s.Time
		case open:
			wins = append(wins, Window{Start: start, End: last.Add(step)})
			open = false
		}
	}
	if open {
		wins = append(wins, Window{Start: start, End: last.Add(step)})
	}

	if !daylight {
		return Result{}, fmt.Errorf("%w: sun never rises above the night cutoff", ErrInsufficientSolarData)
	}

	wins = Merge(wins)
	return Result{
		Windows:  wins,
		Total:    Total(wins),
		Category: Classify(wins, noon),
	}, nil
}
