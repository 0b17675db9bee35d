package forecast

import (
	"time"

	"github.com/devpulse/devpulse/internal/contract"
	"github.com/devpulse/devpulse/schema"
)

// Autoregression is only attempted with a comfortable sample; below this
// the online linear model is the better bias/variance trade.
const (
	arMinPoints = 24
	arMaxOrder  = 4
)

// Train fits or updates the model for one (subject, metric path) pair from
// snapshot history. The outcome reports which lifecycle path was taken; an
// existing model is left untouched when history is too thin.
func (e *Engine) Train(subject, metricPath string, history []schema.MetricsSnapshot) (schema.TrainOutcome, error) {
	series := buildSeries(history, metricPath)
	if len(series) < schema.MinForecastPoints {
		return schema.TrainInsufficient, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	state, err := e.getModel(subject, metricPath)
	if err != nil {
		return "", err
	}

	if state == nil || e.modelExpired(state) {
		return e.trainFull(subject, metricPath, series, state)
	}

	fresh := pointsAfter(series, state.LastTimestamp)
	if len(fresh) < schema.IncrementalThreshold {
		return schema.TrainSkippedFresh, nil
	}

	// Autoregression cannot absorb points one at a time; refit from scratch.
	if state.Kind != schema.ModelOnlineLinear {
		return e.trainFull(subject, metricPath, series, state)
	}
	return e.trainIncremental(subject, metricPath, state, fresh)
}

// TrainAll runs Train for every key forecast metric. A failure on one
// metric is logged and recorded in its outcome; the remaining metrics
// still train.
func (e *Engine) TrainAll(subject string, history []schema.MetricsSnapshot) map[string]schema.TrainOutcome {
	outcomes := make(map[string]schema.TrainOutcome, len(schema.KeyForecastMetrics))
	for _, metricPath := range schema.KeyForecastMetrics {
		outcome, err := e.Train(subject, metricPath, history)
		if err != nil {
			contract.LogWarn("train "+modelKey(subject, metricPath), err)
			outcome = schema.TrainFailed
		}
		outcomes[metricPath] = outcome
	}
	return outcomes
}

func (e *Engine) modelExpired(state *modelState) bool {
	return e.now().Sub(state.Meta.TrainedAt) > schema.MaxModelAgeDays*24*time.Hour
}

// trainFull fits a fresh model over the whole series. Callers hold e.mu.
func (e *Engine) trainFull(subject, metricPath string, series []point, prev *modelState) (schema.TrainOutcome, error) {
	base := series[0].At
	ys := values(series)
	now := e.now()

	state := &modelState{
		BaseTime:      base,
		LastTimestamp: series[len(series)-1].At,
		Meta: schema.ModelMeta{
			Subject:       subject,
			MetricPath:    metricPath,
			ModelVersion:  1,
			TrainedAt:     now,
			LastUpdatedAt: now,
			PointsSeen:    len(series),
			LastOutcome:   schema.TrainedFull,
		},
	}

	trained := false
	if len(series) >= arMinPoints {
		order := len(series) / 6
		if order > arMaxOrder {
			order = arMaxOrder
		}
		if ar, err := fitAR(ys, order); err == nil {
			state.Kind = schema.ModelAutoregressive
			state.AR = ar
			trained = true
		}
	}
	if !trained {
		xs := dayOffsets(series, base)
		scaler := fitScaler(xs)
		scaled := make([]float64, len(xs))
		for i, x := range xs {
			scaled[i] = scaler.transform(x)
		}
		linear := &onlineLinear{}
		linear.fit(scaled, ys)
		state.Kind = schema.ModelOnlineLinear
		state.Linear = linear
		state.Scaler = scaler
	}
	state.Meta.Kind = state.Kind
	if prev != nil {
		// A rebuild resets the update counter and bumps the version.
		state.Meta.UpdateCount = 0
		state.Meta.ModelVersion = prev.Meta.ModelVersion + 1
	}

	if err := e.putModel(subject, metricPath, state); err != nil {
		return "", err
	}
	return schema.TrainedFull, nil
}

// trainIncremental feeds only the new points through the online model.
// Callers hold e.mu.
func (e *Engine) trainIncremental(subject, metricPath string, state *modelState, fresh []point) (schema.TrainOutcome, error) {
	xs := dayOffsets(fresh, state.BaseTime)
	ys := values(fresh)
	scaled := make([]float64, len(xs))
	for i, x := range xs {
		scaled[i] = state.Scaler.transform(x)
	}

	state.Linear.partialFit(scaled, ys)

	// Error on the points just absorbed drives the confidence band.
	state.RecentMSE = append(state.RecentMSE, state.Linear.mseOn(scaled, ys))
	if len(state.RecentMSE) > schema.MSEWindow {
		state.RecentMSE = state.RecentMSE[len(state.RecentMSE)-schema.MSEWindow:]
	}

	state.LastTimestamp = fresh[len(fresh)-1].At
	state.Meta.LastUpdatedAt = e.now()
	state.Meta.UpdateCount++
	state.Meta.PointsSeen += len(fresh)
	state.Meta.LastOutcome = schema.TrainedIncremental

	if err := e.putModel(subject, metricPath, state); err != nil {
		return "", err
	}
	return schema.TrainedIncremental, nil
}
