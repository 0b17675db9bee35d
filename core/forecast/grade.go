package forecast

import (
	"fmt"
	"math"

	"github.com/devpulse/devpulse/schema"
)

// ForecastGrade projects the performance grade forward by fitting a line
// through historical grade percentages.
func (e *Engine) ForecastGrade(subject string, history []schema.MetricsSnapshot, weeksAhead int) (*schema.GradeForecast, error) {
	if weeksAhead <= 0 {
		weeksAhead = 4
	}
	series := buildSeries(history, schema.MetricGradePercentage)

	// Zero percentages are unscored snapshots, not observations.
	var scored []point
	for _, p := range series {
		if p.Value > 0 {
			scored = append(scored, p)
		}
	}
	if len(scored) < 3 {
		return nil, fmt.Errorf("insufficient grade history for %s: %d points", subject, len(scored))
	}

	base := scored[0].At
	xs := dayOffsets(scored, base)
	ys := values(scored)

	slope, intercept := fitLine(xs, ys)
	futureDay := xs[len(xs)-1] + float64(weeksAhead*7)
	predicted := slope*futureDay + intercept
	predicted = math.Max(0, math.Min(100, predicted))

	grade, _ := schema.GradeForPercentage(predicted)

	trend := "stable"
	if slope > 0 {
		trend = "improving"
	} else if slope < 0 {
		trend = "declining"
	}

	return &schema.GradeForecast{
		Subject:             subject,
		PredictedGrade:      grade,
		PredictedPercentage: math.Round(predicted*10) / 10,
		Confidence:          math.Round(lineConfidence(xs, ys, slope, intercept)*10) / 10,
		Trend:               trend,
		ForecastDate:        schema.DayKey(scored[len(scored)-1].At.AddDate(0, 0, weeksAhead*7)),
	}, nil
}

// DegradationRisk compares recent grade percentages against older history
// to flag decline before it shows up in a single snapshot.
func (e *Engine) DegradationRisk(subject string, history []schema.MetricsSnapshot) *schema.DegradationReport {
	series := buildSeries(history, schema.MetricGradePercentage)
	var scores []float64
	for _, p := range series {
		if p.Value > 0 {
			scores = append(scores, p.Value)
		}
	}

	if len(scores) < 5 {
		return &schema.DegradationReport{
			Subject:    subject,
			RiskLevel:  schema.RiskUnknown,
			Prediction: "Insufficient performance data",
		}
	}

	recent := scores[len(scores)-5:]
	older := scores[:len(scores)-5]
	if len(older) == 0 {
		older = scores[:len(scores)/2]
	}

	recentAvg := meanOf(recent)
	olderAvg := meanOf(older)

	trendChange := 0.0
	if olderAvg > 0 {
		trendChange = (recentAvg - olderAvg) / olderAvg * 100
	}

	var level schema.RiskLevel
	var prediction string
	switch {
	case trendChange < -15:
		level = schema.RiskHigh
		prediction = "Performance degradation detected - significant decline in recent metrics"
	case trendChange < -5:
		level = schema.RiskMedium
		prediction = "Moderate performance decline observed"
	case trendChange > 10:
		level = schema.RiskLow
		prediction = "Performance improving - positive trend detected"
	default:
		level = schema.RiskLow
		prediction = "Performance stable - no significant degradation detected"
	}

	sd := stdOf(scores)
	volatility := "low"
	if sd > 15 {
		volatility = "high"
	} else if sd > 8 {
		volatility = "medium"
	}

	return &schema.DegradationReport{
		Subject:           subject,
		RiskLevel:         level,
		Prediction:        prediction,
		TrendChangePct:    math.Round(trendChange*100) / 100,
		RecentAverage:     math.Round(recentAvg*10) / 10,
		HistoricalAverage: math.Round(olderAvg*10) / 10,
		Volatility:        volatility,
		Confidence:        math.Min(100, math.Max(10, 100-sd)),
	}
}

// fitLine is ordinary least squares for a single feature.
func fitLine(xs, ys []float64) (slope, intercept float64) {
	xMean := meanOf(xs)
	yMean := meanOf(ys)
	num, den := 0.0, 0.0
	for i := range xs {
		dx := xs[i] - xMean
		num += dx * (ys[i] - yMean)
		den += dx * dx
	}
	if den == 0 {
		return 0, yMean
	}
	slope = num / den
	return slope, yMean - slope*xMean
}

// lineConfidence maps the fit's coefficient of determination onto 0..100.
func lineConfidence(xs, ys []float64, slope, intercept float64) float64 {
	yMean := meanOf(ys)
	ssRes, ssTot := 0.0, 0.0
	for i := range xs {
		pred := slope*xs[i] + intercept
		ssRes += (ys[i] - pred) * (ys[i] - pred)
		ssTot += (ys[i] - yMean) * (ys[i] - yMean)
	}
	if ssTot == 0 {
		return 50
	}
	r2 := 1 - ssRes/ssTot
	return math.Max(0, math.Min(100, r2*100))
}
