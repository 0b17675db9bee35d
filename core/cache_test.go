package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devpulse/devpulse/internal/githubapi"
	"github.com/devpulse/devpulse/schema"
)

func cachedManager() (*Manager, *time.Time) {
	return testManager(testConfig(), &githubapi.MockSourceAPI{}, nil)
}

func TestCachedSnapshotMissing(t *testing.T) {
	m, _ := cachedManager()
	snap, ok := m.cachedSnapshot("repository:acme/api")
	assert.False(t, ok)
	assert.Nil(t, snap)
}

func TestCachedSnapshotFreshness(t *testing.T) {
	m, now := cachedManager()
	snap := &schema.MetricsSnapshot{Subject: "acme/api"}
	m.storeInCache("repository:acme/api", snap)

	got, ok := m.cachedSnapshot("repository:acme/api")
	require.True(t, ok)
	assert.Same(t, snap, got)

	// Entries past the max age stop being served
	*now = now.Add(16 * time.Minute)
	_, ok = m.cachedSnapshot("repository:acme/api")
	assert.False(t, ok)
}

func TestClearCachePattern(t *testing.T) {
	m, _ := cachedManager()
	m.storeInCache("repository:acme/api", &schema.MetricsSnapshot{})
	m.storeInCache("repository:acme/web", &schema.MetricsSnapshot{})
	m.storeInCache("tracked:octocat", &schema.MetricsSnapshot{})

	dropped := m.ClearCache("acme")
	assert.Equal(t, 2, dropped)

	_, ok := m.cachedSnapshot("tracked:octocat")
	assert.True(t, ok)
}

func TestClearCacheAll(t *testing.T) {
	m, _ := cachedManager()
	m.storeInCache("repository:acme/api", &schema.MetricsSnapshot{})
	m.storeInCache("tracked:octocat", &schema.MetricsSnapshot{})

	assert.Equal(t, 2, m.ClearCache(""))
	assert.Equal(t, 0, m.ClearCache(""))
}

func TestStatusReportsCacheAndQueue(t *testing.T) {
	m, now := cachedManager()
	m.storeInCache("repository:acme/api", &schema.MetricsSnapshot{})
	*now = now.Add(20 * time.Minute)
	m.storeInCache("tracked:octocat", &schema.MetricsSnapshot{})

	status := m.Status()
	assert.Equal(t, 2, status.Cache.Entries)
	assert.Equal(t, 1, status.Cache.Fresh)
	assert.Equal(t, 1, status.Cache.Stale)
	assert.Equal(t, []string{"repository:acme/api", "tracked:octocat"}, status.Cache.Keys)
	assert.Equal(t, 15, status.Cache.MaxAgeMins)

	assert.Equal(t, 0, status.Queue.Depth)
	assert.Equal(t, 4, status.Queue.Capacity)
	assert.False(t, status.Queue.Running)
	assert.Empty(t, status.InFlight)
}

func TestSubjectStatus(t *testing.T) {
	m, now := cachedManager()
	task := schema.RefreshTask{Subject: "acme/api", Scope: schema.RepositoryScope}

	status := m.SubjectStatus(task)
	assert.Equal(t, "repository:acme/api", status.Key)
	assert.False(t, status.Cached)
	assert.False(t, status.InFlight)

	m.storeInCache(task.Key(), &schema.MetricsSnapshot{})
	storedAt := *now
	status = m.SubjectStatus(task)
	assert.True(t, status.Cached)
	assert.True(t, status.CacheFresh)
	assert.Equal(t, storedAt, status.LastRefreshAt)

	*now = now.Add(time.Hour)
	status = m.SubjectStatus(task)
	assert.True(t, status.Cached)
	assert.False(t, status.CacheFresh)

	require.True(t, m.markInFlight(task.Key()))
	defer m.releaseInFlight(task.Key())
	assert.True(t, m.SubjectStatus(task).InFlight)
}
