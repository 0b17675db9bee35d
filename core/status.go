package core

import (
	"sort"

	"github.com/devpulse/devpulse/schema"
)

// Status reports the orchestrator's cache, rate-limit and queue state.
func (m *Manager) Status() schema.RefreshStatus {
	now := m.now()

	m.mu.Lock()
	cache := m.cacheStatus(now)
	inFlight := make([]string, 0, len(m.inFlight))
	for key := range m.inFlight {
		inFlight = append(inFlight, key)
	}
	running := m.running
	m.mu.Unlock()
	sort.Strings(inFlight)

	return schema.RefreshStatus{
		Cache: cache,
		Rate:  m.limiter.status(now),
		Queue: schema.QueueStatus{
			Depth:    len(m.queue),
			Capacity: cap(m.queue),
			Running:  running,
		},
		InFlight: inFlight,
	}
}

// SubjectStatus reports the orchestrator's view of one refresh key.
func (m *Manager) SubjectStatus(task schema.RefreshTask) schema.SubjectStatus {
	now := m.now()
	key := task.Key()

	m.mu.Lock()
	entry, cached := m.cache[key]
	inFlight := m.inFlight[key]
	m.mu.Unlock()

	status := schema.SubjectStatus{
		Key:           key,
		InFlight:      inFlight,
		Cached:        cached,
		QueueDepth:    len(m.queue),
		RateRemaining: m.limiter.status(now).Remaining,
	}
	if cached {
		status.CacheFresh = now.Sub(entry.storedAt) <= m.cfg.CacheMaxAge
		status.LastRefreshAt = entry.storedAt
	}
	return status
}
