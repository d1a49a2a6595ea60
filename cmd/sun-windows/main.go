package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/IrinaTerentieva/DroneFlightPlanner/internal/plot"
	"github.com/IrinaTerentieva/DroneFlightPlanner/internal/shadow"
	"github.com/IrinaTerentieva/DroneFlightPlanner/internal/windows"
	"github.com/IrinaTerentieva/DroneFlightPlanner/pkg/config"
	"github.com/IrinaTerentieva/DroneFlightPlanner/pkg/solar"
)

func main() {
	var (
		lat       = flag.Float64("lat", 0, "Latitude in decimal degrees")
		lon       = flag.Float64("lon", 0, "Longitude in decimal degrees")
		tzName    = flag.String("tz", "UTC", "Timezone name (e.g. America/Edmonton)")
		dateStr   = flag.String("date", "", "Planning date as YYYY-MM-DD (default: today)")
		cadence   = flag.String("cadence", "15m", "Sampling cadence")
		height    = flag.Float64("tree-height", 15, "Uniform tree height in meters")
		buffer    = flag.Float64("buffer-width", 10, "Survey buffer width in meters")
		threshold = flag.Float64("threshold", 30, "Maximum buffer shadow percentage")
		plotDir   = flag.String("plot-dir", "", "Write NS/EW penetration plots to this directory")
	)
	flag.Parse()

	if *lat < -90 || *lat > 90 || *lon < -180 || *lon > 180 {
		fmt.Fprintln(os.Stderr, "Error: latitude/longitude out of range")
		os.Exit(1)
	}

	tz, err := time.LoadLocation(*tzName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: unknown timezone %q\n", *tzName)
		os.Exit(1)
	}
	day := time.Now().In(tz)
	if *dateStr != "" {
		day, err = time.ParseInLocation("2006-01-02", *dateStr, tz)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
			os.Exit(1)
		}
	}
	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, tz)

	step, err := config.ParseCadence(*cadence)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	series := solar.DaySeries(midnight, step, *lat, *lon)
	if solar.MaxElevation(series) <= shadow.NightCutoffDeg {
		fmt.Fprintf(os.Stderr, "Error: no daylight at %.4f, %.4f on %s\n",
			*lat, *lon, midnight.Format("2006-01-02"))
		os.Exit(1)
	}
	noon, _ := solar.Noon(series)

	ns, ew := shadow.SimpleSeries(series, *height, *buffer)

	fmt.Printf("Shadow planning for %.4f, %.4f on %s (%s)\n\n",
		*lat, *lon, midnight.Format("2006-01-02"), *tzName)
	fmt.Printf("%-6s  %9s  %13s  %13s\n", "Time", "Elevation", "NS Shadow (%)", "EW Shadow (%)")
	for i, s := range series {
		if s.Position.ElevationDeg <= shadow.NightCutoffDeg {
			continue
		}
		fmt.Printf("%-6s  %8.1f°  %13.1f  %13.1f\n",
			s.Time.Format("15:04"), s.Position.ElevationDeg, ns[i].Pct, ew[i].Pct)
	}

	peak := solar.MaxElevation(series)
	fmt.Printf("\nPeak sun at %s (elevation %.1f°)\n", noon.Format("15:04"), peak)

	nsResult, err := windows.Derive(ns, *threshold, noon, step)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	ewResult, err := windows.Derive(ew, *threshold, noon, step)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	printWindows("NS", nsResult)
	printWindows("EW", ewResult)

	if *plotDir != "" {
		if err := os.MkdirAll(*plotDir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		date := midnight.Format("2006-01-02")
		nsPath := filepath.Join(*plotDir, "ns_"+date+".png")
		ewPath := filepath.Join(*plotDir, "ew_"+date+".png")
		if err := plot.PenetrationCurve(nsPath, "NS lines "+date, ns, nsResult.Windows, noon); err != nil {
			fmt.Fprintf(os.Stderr, "Error plotting: %v\n", err)
			os.Exit(1)
		}
		if err := plot.PenetrationCurve(ewPath, "EW lines "+date, ew, ewResult.Windows, noon); err != nil {
			fmt.Fprintf(os.Stderr, "Error plotting: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\nPlots written to %s and %s\n", nsPath, ewPath)
	}
}

func printWindows(axis string, res windows.Result) {
	fmt.Printf("\nRecommended %s flight windows (%s, %.2f h total):\n",
		axis, res.Category, res.FormatDurationH())
	if len(res.Windows) == 0 {
		fmt.Println(" - none")
		return
	}
	for _, w := range res.Windows {
		fmt.Printf(" - %s to %s\n", w.Start.Format("15:04"), w.End.Format("15:04"))
	}
}
