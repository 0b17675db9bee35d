package iocache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devpulse/devpulse/schema"
)

func storedMeta(subject, metricPath string) schema.ModelMeta {
	trained := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return schema.ModelMeta{
		Subject:       subject,
		MetricPath:    metricPath,
		Kind:          schema.ModelOnlineLinear,
		TrainedAt:     trained,
		LastUpdatedAt: trained.Add(24 * time.Hour),
		PointsSeen:    12,
		UpdateCount:   0,
		LastOutcome:   schema.TrainedFull,
	}
}

func TestModelStore_NoneBackend(t *testing.T) {
	store, err := NewModelStore(schema.NoneBackend, "")
	require.NoError(t, err)
	require.NotNil(t, store)

	err = store.SaveModel("octocat", schema.MetricLeadTimeHours, []byte("blob"), storedMeta("octocat", schema.MetricLeadTimeHours))
	assert.NoError(t, err)

	blob, meta, err := store.LoadModel("octocat", schema.MetricLeadTimeHours)
	assert.NoError(t, err)
	assert.Nil(t, blob)
	assert.Zero(t, meta)

	assert.NoError(t, store.Close())
}

func TestModelStore_SaveAndLoad(t *testing.T) {
	store, err := NewModelStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	meta := storedMeta("octocat", schema.MetricLeadTimeHours)
	require.NoError(t, store.SaveModel("octocat", schema.MetricLeadTimeHours, []byte(`{"weights":[1,2]}`), meta))

	blob, loaded, err := store.LoadModel("octocat", schema.MetricLeadTimeHours)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"weights":[1,2]}`), blob)
	assert.Equal(t, meta.Kind, loaded.Kind)
	assert.Equal(t, meta.PointsSeen, loaded.PointsSeen)
	assert.True(t, meta.TrainedAt.Equal(loaded.TrainedAt))
}

func TestModelStore_LoadMissingReturnsZero(t *testing.T) {
	store, err := NewModelStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	blob, meta, err := store.LoadModel("nobody", schema.MetricLeadTimeHours)
	require.NoError(t, err)
	assert.Nil(t, blob)
	assert.Zero(t, meta)
}

func TestModelStore_UpsertReplaces(t *testing.T) {
	store, err := NewModelStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	meta := storedMeta("octocat", schema.MetricLeadTimeHours)
	require.NoError(t, store.SaveModel("octocat", schema.MetricLeadTimeHours, []byte("v1"), meta))

	meta.UpdateCount = 3
	meta.LastOutcome = schema.TrainedIncremental
	require.NoError(t, store.SaveModel("octocat", schema.MetricLeadTimeHours, []byte("v2"), meta))

	blob, loaded, err := store.LoadModel("octocat", schema.MetricLeadTimeHours)
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), blob)
	assert.Equal(t, 3, loaded.UpdateCount)
	assert.Equal(t, schema.TrainedIncremental, loaded.LastOutcome)
}

func TestModelStore_ListMeta(t *testing.T) {
	store, err := NewModelStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	require.NoError(t, store.SaveModel("octocat", schema.MetricLeadTimeHours, []byte("a"), storedMeta("octocat", schema.MetricLeadTimeHours)))
	require.NoError(t, store.SaveModel("hubber", schema.MetricDeploysPerWeek, []byte("b"), storedMeta("hubber", schema.MetricDeploysPerWeek)))

	metas, err := store.ListMeta()
	require.NoError(t, err)
	require.Len(t, metas, 2)

	// Ordered by subject, then metric path
	assert.Equal(t, "hubber", metas[0].Subject)
	assert.Equal(t, "octocat", metas[1].Subject)
}

func TestModelStore_DeleteModels(t *testing.T) {
	store, err := NewModelStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	require.NoError(t, store.SaveModel("octocat", schema.MetricLeadTimeHours, []byte("a"), storedMeta("octocat", schema.MetricLeadTimeHours)))
	require.NoError(t, store.SaveModel("octocat", schema.MetricDeploysPerWeek, []byte("b"), storedMeta("octocat", schema.MetricDeploysPerWeek)))
	require.NoError(t, store.SaveModel("hubber", schema.MetricLeadTimeHours, []byte("c"), storedMeta("hubber", schema.MetricLeadTimeHours)))

	require.NoError(t, store.DeleteModels("octocat"))
	metas, err := store.ListMeta()
	require.NoError(t, err)
	require.Len(t, metas, 1)
	assert.Equal(t, "hubber", metas[0].Subject)

	// Empty subject wipes everything
	require.NoError(t, store.DeleteModels(""))
	metas, err = store.ListMeta()
	require.NoError(t, err)
	assert.Empty(t, metas)
}
