package forecast

import (
	"sort"
	"time"

	"github.com/devpulse/devpulse/schema"
)

// point is one observation of a metric at a moment in time.
type point struct {
	At    time.Time
	Value float64
}

// buildSeries extracts a time-ordered value series for one metric path from
// snapshot history. Snapshots with unresolvable paths or dates are skipped.
func buildSeries(history []schema.MetricsSnapshot, metricPath string) []point {
	points := make([]point, 0, len(history))
	for i := range history {
		snap := &history[i]
		at := snap.GeneratedAt
		if at.IsZero() {
			parsed, err := time.Parse(schema.DateLayout, snap.Date)
			if err != nil {
				continue
			}
			at = parsed
		}
		value, err := snap.MetricValue(metricPath)
		if err != nil {
			continue
		}
		points = append(points, point{At: at, Value: value})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].At.Before(points[j].At) })
	return points
}

// dayOffsets converts points into fractional days since base.
func dayOffsets(points []point, base time.Time) []float64 {
	xs := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.At.Sub(base).Hours() / 24
	}
	return xs
}

// values extracts the observation values.
func values(points []point) []float64 {
	ys := make([]float64, len(points))
	for i, p := range points {
		ys[i] = p.Value
	}
	return ys
}

// pointsAfter returns the points strictly newer than the cutoff.
func pointsAfter(points []point, cutoff time.Time) []point {
	var newer []point
	for _, p := range points {
		if p.At.After(cutoff) {
			newer = append(newer, p)
		}
	}
	return newer
}
