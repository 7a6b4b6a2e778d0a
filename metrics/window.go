// Package metrics computes leasing and financial metrics over canonical
// snapshots. Every calculator is a pure function of a snapshot plus a
// resolved window: no I/O, no shared state, deterministic output.
package metrics

import (
	"time"

	"pms_metrics/timeframe"
)

// Window is a resolved reporting timeframe. End doubles as the evaluation
// date for point-in-time checks.
type Window struct {
	Name  string
	Start time.Time
	End   time.Time
}

// ResolveWindow resolves a named timeframe against a reference date.
func ResolveWindow(name string, reference time.Time) (Window, error) {
	start, end, err := timeframe.Resolve(name, reference)
	if err != nil {
		return Window{}, err
	}
	return Window{Name: name, Start: start, End: end}, nil
}

// pct is the shared percentage guard: every formula resolves a zero
// denominator to 0 rather than raising.
func pct(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator * 100
}

// round1 rounds to one decimal place.
func round1(f float64) float64 {
	if f < 0 {
		return float64(int(f*10-0.5)) / 10
	}
	return float64(int(f*10+0.5)) / 10
}
