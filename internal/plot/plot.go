// Package plot renders penetration day-curves for pilot review.
package plot

import (
	"fmt"
	"image/color"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/IrinaTerentieva/DroneFlightPlanner/internal/shadow"
	"github.com/IrinaTerentieva/DroneFlightPlanner/internal/windows"
)

// Curve in teal, windows in translucent gold, night in translucent blue,
// solar noon in red.
var (
	curveColor  = color.RGBA{R: 0, G: 128, B: 128, A: 255}
	windowColor = color.RGBA{R: 255, G: 215, B: 0, A: 80}
	noonColor   = color.RGBA{R: 200, G: 30, B: 30, A: 255}
	nightColor  = color.RGBA{R: 70, G: 90, B: 200, A: 50}
)

func hourOfDay(t time.Time) float64 {
	return float64(t.Hour()) + float64(t.Minute())/60 + float64(t.Second())/3600
}

// PenetrationCurve writes a PNG of the day's buffer penetration: the
// percentage curve over daylight hours, flyable windows shaded, night
// spans dimmed, and solar noon marked.
func PenetrationCurve(path, title string, series []shadow.PenetrationSample, wins []windows.Window, noon time.Time) error {
	if len(series) == 0 {
		return fmt.Errorf("empty penetration series")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Time"
	p.Y.Label.Text = "Shadow in buffer (%)"
	p.X.Min, p.X.Max = 0, 24
	p.Y.Min, p.Y.Max = 0, 105
	p.X.Tick.Marker = hourTicks{}
	p.Add(plotter.NewGrid())

	for _, w := range wins {
		if err := addSpan(p, hourOfDay(w.Start), hourOfDay(w.End), windowColor); err != nil {
			return err
		}
	}
	for _, span := range nightSpans(series) {
		if err := addSpan(p, span[0], span[1], nightColor); err != nil {
			return err
		}
	}

	var pts plotter.XYs
	for _, s := range series {
		if s.Night {
			continue
		}
		pts = append(pts, plotter.XY{X: hourOfDay(s.Time), Y: s.Pct})
	}
	curve, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	curve.LineStyle.Width = vg.Points(2)
	curve.LineStyle.Color = curveColor
	p.Add(curve)
	p.Legend.Add("penetration", curve)

	noonLine, err := plotter.NewLine(plotter.XYs{
		{X: hourOfDay(noon), Y: 0},
		{X: hourOfDay(noon), Y: 105},
	})
	if err != nil {
		return err
	}
	noonLine.LineStyle.Width = vg.Points(1.5)
	noonLine.LineStyle.Color = noonColor
	noonLine.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	p.Add(noonLine)
	p.Legend.Add("solar noon", noonLine)

	return p.Save(9*vg.Inch, 5*vg.Inch, path)
}

func addSpan(p *plot.Plot, x0, x1 float64, c color.Color) error {
	poly, err := plotter.NewPolygon(plotter.XYs{
		{X: x0, Y: 0}, {X: x1, Y: 0}, {X: x1, Y: 105}, {X: x0, Y: 105},
	})
	if err != nil {
		return err
	}
	poly.Color = c
	poly.LineStyle.Color = color.Transparent
	p.Add(poly)
	return nil
}

// nightSpans returns contiguous [startHour, endHour] spans of night samples.
func nightSpans(series []shadow.PenetrationSample) [][2]float64 {
	var spans [][2]float64
	open := false
	var start, last float64
	for _, s := range series {
		h := hourOfDay(s.Time)
		switch {
		case s.Night && !open:
			open = true
			start, last = h, h
		case s.Night:
			last = h
		case open:
			spans = append(spans, [2]float64{start, last})
			open = false
		}
	}
	if open {
		spans = append(spans, [2]float64{start, 24})
	}
	return spans
}

type hourTicks struct{}

// Ticks labels every third hour.
func (hourTicks) Ticks(min, max float64) []plot.Tick {
	var ticks []plot.Tick
	for h := 0; h <= 24; h++ {
		if float64(h) < min || float64(h) > max {
			continue
		}
		t := plot.Tick{Value: float64(h)}
		if h%3 == 0 {
			t.Label = fmt.Sprintf("%02d:00", h)
		}
		ticks = append(ticks, t)
	}
	return ticks
}
