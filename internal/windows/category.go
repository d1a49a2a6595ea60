package windows

import (
	"time"
)

// Category is the pilot-facing label for a day's flight windows.
type Category int

const (
	FlyAnyTime Category = iota
	FlyLongMorningEvening
	FlyLongNoon
	FlyShortMorningEvening
	FlyShortNoon
	FlyExtraShort
)

var categoryLabels = map[Category]string{
	FlyAnyTime:             "Fly any time",
	FlyLongMorningEvening:  "Fly long morning + evening",
	FlyLongNoon:            "Fly long noon",
	FlyShortMorningEvening: "Fly short morning + evening",
	FlyShortNoon:           "Fly short noon",
	FlyExtraShort:          "Fly extra short",
}

func (c Category) String() string {
	return categoryLabels[c]
}

// Day-period layout around solar noon. The noon period spans solar noon
// ± 2.5 h; morning and evening are everything either side of it.
const noonHalfSpan = 150 * time.Minute

// Duration thresholds of the category decision table.
const (
	anyTimeMin    = 8 * time.Hour
	longDayMin    = 4 * time.Hour
	extraShortMax = 150 * time.Minute
)

type period int

const (
	morning period = iota
	midday
	evening
)

// periodOf assigns a window to the day period holding the majority of its
// duration. Straddling windows follow the majority side; exact ties go to
// the noon period.
func periodOf(w Window, noon time.Time) period {
	morningEnd := noon.Add(-noonHalfSpan)
	eveningStart := noon.Add(noonHalfSpan)

	m := overlap(w, Window{Start: w.Start, End: morningEnd})
	e := overlap(w, Window{Start: eveningStart, End: w.End})
	n := w.Duration() - m - e

	if m > n && m > e {
		return morning
	}
	if e > n && e > m {
		return evening
	}
	return midday
}

func overlap(a, b Window) time.Duration {
	start, end := a.Start, a.End
	if b.Start.After(start) {
		start = b.Start
	}
	if b.End.Before(end) {
		end = b.End
	}
	if end.Before(start) {
		return 0
	}
	return end.Sub(start)
}

// Classify maps a merged window list to a category. The rules form an
// ordered decision table evaluated top to bottom; the first match wins, and
// the extra-short rule catches everything the others pass over.
func Classify(wins []Window, noon time.Time) Category {
	var total, morningD, middayD, eveningD time.Duration
	var longest Window
	for _, w := range wins {
		d := w.Duration()
		total += d
		switch periodOf(w, noon) {
		case morning:
			morningD += d
		case evening:
			eveningD += d
		default:
			middayD += d
		}
		if d > longest.Duration() {
			longest = w
		}
	}
	noonCentered := len(wins) > 0 && periodOf(longest, noon) == midday

	switch {
	case total > anyTimeMin:
		return FlyAnyTime
	case total >= longDayMin && morningD > 0 && eveningD > 0 && middayD < morningD+eveningD:
		return FlyLongMorningEvening
	case total >= longDayMin && noonCentered:
		return FlyLongNoon
	case total < extraShortMax:
		return FlyExtraShort
	case middayD == 0:
		return FlyShortMorningEvening
	default:
		return FlyShortNoon
	}
}
