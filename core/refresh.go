package core

import (
	"context"
	"time"

	"github.com/devpulse/devpulse/core/calc"
	"github.com/devpulse/devpulse/internal/contract"
	"github.com/devpulse/devpulse/schema"
)

// Refresh runs the full pipeline for one task: cache check, in-flight
// dedupe, rate limit, fetch, compute, train, persist. The result's Status
// says which path was taken.
func (m *Manager) Refresh(ctx context.Context, task schema.RefreshTask) *schema.RefreshResult {
	start := m.now()
	key := task.Key()
	result := &schema.RefreshResult{Subject: task.Subject, Scope: task.Scope}

	if !task.Force {
		if snap, ok := m.cachedSnapshot(key); ok {
			result.Status = schema.RefreshFromCache
			result.Source = "cache"
			result.Snapshot = snap
			return m.finish(result, start)
		}
	}

	if !m.markInFlight(key) {
		result.Status = schema.RefreshInProgress
		return m.finish(result, start)
	}
	defer m.releaseInFlight(key)

	if !m.limiter.allow(m.now()) {
		result.Status = schema.RefreshRateLimit
		result.Queued = m.enqueue(task)
		if !result.Queued {
			result.Error = "rate limited and refresh queue is full"
		}
		return m.finish(result, start)
	}

	commits, prs, failures, err := m.fetchEvents(ctx, task)
	result.FailedRepos = failures
	if err != nil {
		result.Status = schema.RefreshFailed
		result.Error = err.Error()
		return m.finish(result, start)
	}

	snap := calc.Compute(task.Subject, task.Scope, commits, prs, m.now())
	result.Snapshot = snap
	m.attachRepoInsights(ctx, task, result)

	m.persistAndTrain(key, task.Subject, snap, result)

	if m.summarizer != nil {
		if text, err := m.summarizer.Summarize(ctx, snap); err != nil {
			contract.LogWarn("summarize "+key, err)
		} else {
			result.Summary = text
		}
	}

	m.storeInCache(key, snap)
	result.Status = schema.RefreshOK
	return m.finish(result, start)
}

// persistAndTrain saves the snapshot and feeds history through the forecast
// engine. Persistence problems degrade to warnings; the computed snapshot
// is still returned to the caller.
func (m *Manager) persistAndTrain(key, subject string, snap *schema.MetricsSnapshot, result *schema.RefreshResult) {
	var store contract.SnapshotStore
	if m.stores != nil {
		store = m.stores.GetSnapshotStore()
	}
	if store == nil {
		return
	}

	if err := store.SaveSnapshot(snap); err != nil {
		contract.LogWarn("save snapshot "+key, err)
	}

	history, err := store.GetHistory(subject, m.cfg.HistoryLimit)
	if err != nil {
		contract.LogWarn("load history "+key, err)
		return
	}

	result.Outcomes = m.engine.TrainAll(subject, history)

	if summary, err := m.engine.LearningSummary(); err != nil {
		contract.LogWarn("learning summary "+key, err)
	} else {
		result.Learning = summary
	}
}

// attachRepoInsights decorates a repository-scope result with coarse
// repository metadata. Lookup failures degrade to a warning.
func (m *Manager) attachRepoInsights(ctx context.Context, task schema.RefreshTask, result *schema.RefreshResult) {
	if task.Scope != schema.RepositoryScope {
		return
	}
	repo := m.cfg.Repo
	if len(task.Repos) > 0 {
		repo = task.Repos[0]
	}
	insights, err := m.source.FetchRepositoryInsights(ctx, repo)
	if err != nil {
		contract.LogWarn("repository insights "+task.Key(), err)
		return
	}
	result.RepoInsights = &insights
}

// RefreshAll refreshes every task in order. Rate-limited tasks end up on
// the deferred queue for the background worker.
func (m *Manager) RefreshAll(ctx context.Context, tasks []schema.RefreshTask) []*schema.RefreshResult {
	results := make([]*schema.RefreshResult, 0, len(tasks))
	for _, task := range tasks {
		results = append(results, m.Refresh(ctx, task))
	}
	return results
}

// enqueue offers the task to the deferred queue, giving up after the
// configured wait.
func (m *Manager) enqueue(task schema.RefreshTask) bool {
	task.EnqueuedAt = m.now()
	timer := time.NewTimer(m.cfg.QueueWait)
	defer timer.Stop()
	select {
	case m.queue <- task:
		return true
	case <-timer.C:
		return false
	}
}

func (m *Manager) finish(result *schema.RefreshResult, start time.Time) *schema.RefreshResult {
	now := m.now()
	result.DurationMS = now.Sub(start).Milliseconds()
	result.CompletedAt = now
	return result
}
