package core

import (
	"sort"
	"strings"
	"time"

	"github.com/devpulse/devpulse/schema"
)

// cacheEntry holds one computed snapshot and when it was stored.
type cacheEntry struct {
	snap     *schema.MetricsSnapshot
	storedAt time.Time
}

// cachedSnapshot returns the cached snapshot for the key if it is still
// within the configured max age.
func (m *Manager) cachedSnapshot(key string) (*schema.MetricsSnapshot, bool) {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.cache[key]
	if !ok || now.Sub(entry.storedAt) > m.cfg.CacheMaxAge {
		return nil, false
	}
	return entry.snap, true
}

func (m *Manager) storeInCache(key string, snap *schema.MetricsSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache[key] = cacheEntry{snap: snap, storedAt: m.now()}
}

// ClearCache drops cached snapshots whose key contains the pattern. An
// empty pattern clears everything. It returns the number of entries dropped.
func (m *Manager) ClearCache(pattern string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	dropped := 0
	for key := range m.cache {
		if pattern == "" || strings.Contains(key, pattern) {
			delete(m.cache, key)
			dropped++
		}
	}
	return dropped
}

// cacheStatus summarizes the cache under m.mu.
func (m *Manager) cacheStatus(now time.Time) schema.CacheStatus {
	status := schema.CacheStatus{
		Entries:    len(m.cache),
		MaxAgeMins: int(m.cfg.CacheMaxAge.Minutes()),
	}
	for key, entry := range m.cache {
		if now.Sub(entry.storedAt) <= m.cfg.CacheMaxAge {
			status.Fresh++
		} else {
			status.Stale++
		}
		status.Keys = append(status.Keys, key)
	}
	sort.Strings(status.Keys)
	return status
}
