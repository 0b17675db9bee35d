package forecast

import (
	"fmt"
	"math"

	"github.com/devpulse/devpulse/schema"
)

// Forecast predicts the metric for the coming horizon. It requires a
// trained model; call Train first.
func (e *Engine) Forecast(subject, metricPath string, horizonDays int) (*schema.Forecast, error) {
	if horizonDays <= 0 {
		horizonDays = schema.DefaultHorizonDays
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	state, err := e.getModel(subject, metricPath)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, fmt.Errorf("no trained model for %s %s", subject, metricPath)
	}

	now := e.now()
	forecast := &schema.Forecast{
		Subject:     subject,
		MetricPath:  metricPath,
		HorizonDays: horizonDays,
		Kind:        state.Kind,
		GeneratedAt: now,
	}

	var preds []float64
	var width func(pred float64) float64

	switch state.Kind {
	case schema.ModelAutoregressive:
		preds = state.AR.forecast(horizonDays)
		w := 1.96 * state.AR.ResidualStd
		width = func(float64) float64 { return w }
	default:
		preds = make([]float64, horizonDays)
		for i := 0; i < horizonDays; i++ {
			day := now.AddDate(0, 0, i+1).Sub(state.BaseTime).Hours() / 24
			preds[i] = state.Linear.predict(state.Scaler.transform(day))
		}
		width = linearBandWidth(state)
	}

	for i, pred := range preds {
		w := width(pred)
		forecast.Points = append(forecast.Points, schema.ForecastPoint{
			Date:       schema.DayKey(now.AddDate(0, 0, i+1)),
			Value:      pred,
			LowerBound: pred - w,
			UpperBound: pred + w,
		})
	}
	forecast.Trend = forecastTrend(preds)

	return forecast, nil
}

// linearBandWidth derives the confidence half-width for the online model.
// With incremental update history the band tracks recent squared error;
// without it a flat ten percent band applies.
func linearBandWidth(state *modelState) func(pred float64) float64 {
	if len(state.RecentMSE) > 0 {
		w := 1.96 * math.Sqrt(meanOf(state.RecentMSE))
		return func(float64) float64 { return w }
	}
	return func(pred float64) float64 { return math.Abs(pred) * 0.1 }
}

// forecastTrend labels the direction of the predicted path.
func forecastTrend(preds []float64) schema.TrendDirection {
	slope := slopeOf(preds)
	switch {
	case slope > 0.1:
		return schema.TrendIncreasing
	case slope < -0.1:
		return schema.TrendDecreasing
	default:
		return schema.TrendStable
	}
}
