package forecast

import (
	"math"
	"sort"

	"github.com/devpulse/devpulse/schema"
)

// DetectAnomalies runs three independent detectors over the metric series
// and unions their findings. A point flagged by several detectors is
// reported once, attributed to the highest-priority detector.
func (e *Engine) DetectAnomalies(subject, metricPath string, history []schema.MetricsSnapshot) *schema.AnomalyReport {
	series := buildSeries(history, metricPath)
	report := &schema.AnomalyReport{
		Subject:     subject,
		MetricPath:  metricPath,
		TotalPoints: len(series),
	}
	if len(series) < schema.MinAnomalyPoints {
		report.Insufficient = true
		return report
	}

	ys := values(series)

	var flagged []schema.Anomaly
	flagged = append(flagged, densityAnomalies(series, ys)...)
	flagged = append(flagged, zScoreAnomalies(series, ys)...)
	flagged = append(flagged, movingAvgAnomalies(series, ys)...)

	// Dedupe on index; append order above fixes detector priority.
	seen := make(map[int]bool)
	for _, a := range flagged {
		if seen[a.Index] {
			continue
		}
		seen[a.Index] = true
		report.Anomalies = append(report.Anomalies, a)
	}
	sort.Slice(report.Anomalies, func(i, j int) bool {
		return report.Anomalies[i].Index < report.Anomalies[j].Index
	})

	report.AnomalyScore = math.Round(float64(len(report.Anomalies))/float64(len(ys))*1000) / 10
	return report
}

// densityAnomalies flags the fraction of points furthest from the median,
// sized by the contamination rate.
func densityAnomalies(series []point, ys []float64) []schema.Anomaly {
	n := len(ys)
	budget := int(math.Ceil(schema.Contamination * float64(n)))
	if budget == 0 {
		return nil
	}

	med := medianOf(ys)
	type scored struct {
		index int
		dev   float64
	}
	devs := make([]scored, n)
	for i, y := range ys {
		devs[i] = scored{index: i, dev: math.Abs(y - med)}
	}
	sort.Slice(devs, func(i, j int) bool {
		if devs[i].dev != devs[j].dev {
			return devs[i].dev > devs[j].dev
		}
		return devs[i].index < devs[j].index
	})

	spread := stdOf(ys)
	if spread == 0 {
		return nil
	}

	var out []schema.Anomaly
	for _, s := range devs[:budget] {
		// Points inside one spread of the median are unremarkable even
		// when the budget says to pick something.
		if s.dev <= spread {
			continue
		}
		out = append(out, schema.Anomaly{
			Index:    s.index,
			Date:     schema.DayKey(series[s.index].At),
			Value:    ys[s.index],
			Expected: med,
			Detector: schema.DetectorDensity,
			Severity: s.dev / spread,
		})
	}
	return out
}

// zScoreAnomalies flags points beyond the z-score threshold.
func zScoreAnomalies(series []point, ys []float64) []schema.Anomaly {
	m := meanOf(ys)
	sd := stdOf(ys)
	if sd == 0 {
		return nil
	}

	var out []schema.Anomaly
	for i, y := range ys {
		z := math.Abs(y-m) / sd
		if z > schema.ZScoreThreshold {
			out = append(out, schema.Anomaly{
				Index:    i,
				Date:     schema.DayKey(series[i].At),
				Value:    y,
				Expected: m,
				Detector: schema.DetectorZScore,
				Severity: z,
			})
		}
	}
	return out
}

// movingAvgAnomalies flags points deviating hard from a centered moving
// average. The threshold adapts to how noisy the deviations are overall.
func movingAvgAnomalies(series []point, ys []float64) []schema.Anomaly {
	n := len(ys)
	window := schema.MovingAvgWindow
	if half := n / 2; half < window {
		window = half
	}
	if window < 2 {
		return nil
	}

	avg := make([]float64, n)
	for i := range ys {
		start := i - window/2
		if start < 0 {
			start = 0
		}
		end := i + window/2 + 1
		if end > n {
			end = n
		}
		avg[i] = meanOf(ys[start:end])
	}

	devs := make([]float64, n)
	for i := range ys {
		devs[i] = math.Abs(ys[i] - avg[i])
	}
	threshold := 2 * stdOf(devs)
	if threshold == 0 {
		return nil
	}

	var out []schema.Anomaly
	for i, dev := range devs {
		if dev > threshold {
			out = append(out, schema.Anomaly{
				Index:    i,
				Date:     schema.DayKey(series[i].At),
				Value:    ys[i],
				Expected: avg[i],
				Detector: schema.DetectorMovingAvg,
				Severity: dev,
			})
		}
	}
	return out
}

func medianOf(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
