package restserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/IrinaTerentieva/DroneFlightPlanner/internal/shadow"
	"github.com/IrinaTerentieva/DroneFlightPlanner/internal/windows"
	"github.com/IrinaTerentieva/DroneFlightPlanner/pkg/config"
	"github.com/IrinaTerentieva/DroneFlightPlanner/pkg/solar"
	"go.uber.org/zap"
)

// Handlers holds the HTTP request handlers
type Handlers struct {
	cfg    *config.Config
	logger *zap.SugaredLogger
}

// NewHandlers creates the handler set
func NewHandlers(cfg *config.Config, logger *zap.SugaredLogger) *Handlers {
	return &Handlers{cfg: cfg, logger: logger}
}

// WindowJSON is one flyable interval in a response.
type WindowJSON struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// AxisResult is the derived plan for one line orientation.
type AxisResult struct {
	Windows   []WindowJSON `json:"windows"`
	DurationH float64      `json:"duration_h"`
	Category  string       `json:"category"`
}

// PlanResponse is the simple-mode planning result for a location and date.
type PlanResponse struct {
	Date             string     `json:"date"`
	Timezone         string     `json:"timezone"`
	SolarNoon        string     `json:"solar_noon"`
	PeakElevationDeg float64    `json:"peak_elevation_deg"`
	TreeHeightM      float64    `json:"tree_height_m"`
	BufferWidthM     float64    `json:"buffer_width_m"`
	ThresholdPct     float64    `json:"threshold_pct"`
	NorthSouth       AxisResult `json:"north_south"`
	EastWest         AxisResult `json:"east_west"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// GetHealth reports service liveness.
func (h *Handlers) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetWindows plans NS/EW flight windows for a location and date supplied
// as query parameters. Parameters missing from the query fall back to the
// server configuration.
func (h *Handlers) GetWindows(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	lat, err := queryFloat(q.Get("lat"), h.cfg.Location.Latitude)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad lat: " + err.Error()})
		return
	}
	lon, err := queryFloat(q.Get("lon"), h.cfg.Location.Longitude)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad lon: " + err.Error()})
		return
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "latitude/longitude out of range"})
		return
	}

	height, err := queryFloat(q.Get("tree_height"), h.cfg.Planner.TreeHeight)
	if err != nil || height <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "tree_height must be a positive number"})
		return
	}
	buffer, err := queryFloat(q.Get("buffer_width"), h.cfg.Planner.BufferWidth)
	if err != nil || buffer <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "buffer_width must be a positive number"})
		return
	}
	threshold, err := queryFloat(q.Get("threshold_pct"), h.cfg.Planner.ThresholdPct)
	if err != nil || threshold < 0 || threshold > 100 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "threshold_pct must be in [0, 100]"})
		return
	}

	tzName := q.Get("tz")
	if tzName == "" {
		tzName = h.cfg.Location.Timezone
	}
	tz, err := time.LoadLocation(tzName)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("unknown timezone %q", tzName)})
		return
	}

	dateStr := q.Get("date")
	if dateStr == "" {
		dateStr = h.cfg.Date
	}
	day, err := time.ParseInLocation("2006-01-02", dateStr, tz)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("bad date %q, want YYYY-MM-DD", dateStr)})
		return
	}

	step := 15 * time.Minute
	if cad := q.Get("cadence"); cad != "" {
		step, err = config.ParseCadence(cad)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
	}

	series := solar.DaySeries(day, step, lat, lon)
	if solar.MaxElevation(series) <= shadow.NightCutoffDeg {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error: fmt.Sprintf("no daylight at %.4f, %.4f on %s", lat, lon, dateStr),
		})
		return
	}
	noon, _ := solar.Noon(series)

	ns, ew := shadow.SimpleSeries(series, height, buffer)
	nsResult, err := windows.Derive(ns, threshold, noon, step)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return
	}
	ewResult, err := windows.Derive(ew, threshold, noon, step)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, PlanResponse{
		Date:             dateStr,
		Timezone:         tzName,
		SolarNoon:        noon.Format("15:04"),
		PeakElevationDeg: solar.MaxElevation(series),
		TreeHeightM:      height,
		BufferWidthM:     buffer,
		ThresholdPct:     threshold,
		NorthSouth:       toAxisResult(nsResult),
		EastWest:         toAxisResult(ewResult),
	})
}

func toAxisResult(res windows.Result) AxisResult {
	out := AxisResult{
		Windows:   make([]WindowJSON, 0, len(res.Windows)),
		DurationH: res.FormatDurationH(),
		Category:  res.Category.String(),
	}
	for _, w := range res.Windows {
		out.Windows = append(out.Windows, WindowJSON{
			Start: w.Start.Format("15:04"),
			End:   w.End.Format("15:04"),
		})
	}
	return out
}

func queryFloat(raw string, fallback float64) (float64, error) {
	if raw == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(raw, 64)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
