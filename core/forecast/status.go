package forecast

import (
	"sort"
	"time"

	"github.com/devpulse/devpulse/schema"
)

// LearningSummary reports the lifecycle state of every persisted model.
func (e *Engine) LearningSummary() (*schema.LearningSummary, error) {
	var metas []schema.ModelMeta
	if e.store != nil {
		stored, err := e.store.ListMeta()
		if err != nil {
			return nil, err
		}
		metas = stored
	} else {
		e.mu.Lock()
		for _, state := range e.models {
			metas = append(metas, state.Meta)
		}
		e.mu.Unlock()
	}

	now := e.now()
	summary := &schema.LearningSummary{TotalModels: len(metas)}
	for _, meta := range metas {
		age := now.Sub(meta.TrainedAt).Hours() / 24
		stale := age > schema.MaxModelAgeDays
		status := schema.LearningStatus{
			Subject:       meta.Subject,
			MetricPath:    meta.MetricPath,
			Kind:          meta.Kind,
			ModelVersion:  meta.ModelVersion,
			TrainedAt:     meta.TrainedAt,
			LastUpdatedAt: meta.LastUpdatedAt,
			PointsSeen:    meta.PointsSeen,
			UpdateCount:   meta.UpdateCount,
			LastOutcome:   meta.LastOutcome,
			AgeDays:       age,
			Freshness:     freshnessBucket(now.Sub(meta.LastUpdatedAt)),
			Stale:         stale,
		}
		summary.Models = append(summary.Models, status)
		if stale {
			summary.StaleModels++
		}
		summary.TotalUpdates += meta.UpdateCount
	}

	sort.Slice(summary.Models, func(i, j int) bool {
		a, b := summary.Models[i], summary.Models[j]
		if a.Subject != b.Subject {
			return a.Subject < b.Subject
		}
		return a.MetricPath < b.MetricPath
	})
	return summary, nil
}

// freshnessBucket maps time since the last update onto a coarse label.
func freshnessBucket(sinceUpdate time.Duration) string {
	switch {
	case sinceUpdate <= 7*24*time.Hour:
		return "fresh"
	case sinceUpdate <= schema.MaxModelAgeDays*24*time.Hour:
		return "aging"
	default:
		return "stale"
	}
}

// ModelAge returns how old a subject's model for the metric is, or false
// when no model exists.
func (e *Engine) ModelAge(subject, metricPath string) (time.Duration, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	state, err := e.getModel(subject, metricPath)
	if err != nil || state == nil {
		return 0, false
	}
	return e.now().Sub(state.Meta.TrainedAt), true
}
