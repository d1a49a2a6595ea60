package solar

import (
	"testing"
	"time"
)

func TestPositionAt(t *testing.T) {
	tests := []struct {
		name           string
		time           time.Time
		lat, lon       float64
		elevationRange [2]float64 // min, max
		azimuthRange   [2]float64 // min, max; skipped when both zero
	}{
		{
			// Sun nearly overhead at the equinox on the prime meridian
			name:           "equinox noon at equator",
			time:           time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC),
			lat:            0, lon: 0,
			elevationRange: [2]float64{80, 91},
		},
		{
			// Solstice noon at 50N: 90 - 50 + 23.44 = 63.4 degrees
			name:           "solstice noon at 50N",
			time:           time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC),
			lat:            50, lon: 0,
			elevationRange: [2]float64{58, 68},
			azimuthRange:   [2]float64{150, 210},
		},
		{
			name:           "solstice morning sun in the east",
			time:           time.Date(2024, 6, 21, 6, 0, 0, 0, time.UTC),
			lat:            50, lon: 0,
			elevationRange: [2]float64{5, 30},
			azimuthRange:   [2]float64{50, 120},
		},
		{
			name:           "solstice evening sun in the west",
			time:           time.Date(2024, 6, 21, 18, 0, 0, 0, time.UTC),
			lat:            50, lon: 0,
			elevationRange: [2]float64{5, 30},
			azimuthRange:   [2]float64{240, 310},
		},
		{
			name:           "midnight is below the horizon",
			time:           time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC),
			lat:            50, lon: 0,
			elevationRange: [2]float64{-90, -5},
		},
		{
			name:           "polar night never rises",
			time:           time.Date(2024, 12, 21, 12, 0, 0, 0, time.UTC),
			lat:            78, lon: 15,
			elevationRange: [2]float64{-90, -1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := PositionAt(tt.time, tt.lat, tt.lon)

			if pos.ElevationDeg < tt.elevationRange[0] || pos.ElevationDeg > tt.elevationRange[1] {
				t.Errorf("ElevationDeg = %.2f, expected in range [%.1f, %.1f]",
					pos.ElevationDeg, tt.elevationRange[0], tt.elevationRange[1])
			}
			if tt.azimuthRange != [2]float64{} {
				if pos.AzimuthDeg < tt.azimuthRange[0] || pos.AzimuthDeg > tt.azimuthRange[1] {
					t.Errorf("AzimuthDeg = %.2f, expected in range [%.1f, %.1f]",
						pos.AzimuthDeg, tt.azimuthRange[0], tt.azimuthRange[1])
				}
			}
		})
	}
}

func TestElevationRisesTowardNoon(t *testing.T) {
	day := time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC)
	prev := PositionAt(day.Add(7*time.Hour), 50, 0).ElevationDeg
	for h := 8; h <= 12; h++ {
		el := PositionAt(day.Add(time.Duration(h)*time.Hour), 50, 0).ElevationDeg
		if el <= prev {
			t.Fatalf("elevation at %02d:00 = %.2f, not above %.2f", h, el, prev)
		}
		prev = el
	}
}

func TestDaySeries(t *testing.T) {
	midnight := time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC)
	samples := DaySeries(midnight, 15*time.Minute, 50, 0)

	if len(samples) != 96 {
		t.Fatalf("expected 96 samples at 15m cadence, got %d", len(samples))
	}
	if !samples[0].Time.Equal(midnight) {
		t.Errorf("series starts at %v, expected %v", samples[0].Time, midnight)
	}
	last := samples[len(samples)-1].Time
	if want := midnight.Add(23*time.Hour + 45*time.Minute); !last.Equal(want) {
		t.Errorf("series ends at %v, expected %v", last, want)
	}

	noon, ok := Noon(samples)
	if !ok {
		t.Fatal("Noon returned not ok for a full series")
	}
	if noon.Hour() < 11 || noon.Hour() > 13 {
		t.Errorf("solar noon at %v, expected near midday", noon)
	}
}

func TestMaxElevationPolarNight(t *testing.T) {
	midnight := time.Date(2024, 12, 21, 0, 0, 0, 0, time.UTC)
	samples := DaySeries(midnight, 30*time.Minute, 78, 15)
	if max := MaxElevation(samples); max > 0 {
		t.Errorf("MaxElevation = %.2f during polar night, expected below zero", max)
	}
}

func TestNoonEmptySeries(t *testing.T) {
	if _, ok := Noon(nil); ok {
		t.Error("Noon(nil) reported ok")
	}
}
