package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devpulse/devpulse/schema"
)

func sampleSnapshots() []schema.MetricsSnapshot {
	generated := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	healthy := schema.MetricsSnapshot{
		Subject:      "octocat",
		Date:         "2024-03-10",
		Scope:        schema.TrackedScope,
		TotalCommits: 42,
		TotalPRs:     12,
		GeneratedAt:  generated,
	}
	healthy.DORA.LeadTime.TotalLeadTimeHours = 18.5
	healthy.DORA.DeploymentFrequency.PerWeek = 4.2
	healthy.DORA.ChangeFailureRate.Percentage = 6.5
	healthy.DORA.MTTR.MTTRHours = 3.1
	healthy.CodeQuality.ReviewCoveragePercentage = 91.0
	healthy.CodeQuality.AvgPRSize = 120
	healthy.Collab.UniqueReviewers = 5
	healthy.Productivity.MaxCommitStreak = 9
	healthy.Productivity.WorkLifeBalanceScore = 88
	healthy.Grade.OverallGrade = "A"
	healthy.Grade.Percentage = 92.5

	// No activity means no grade letter, exercising the nullable column.
	empty := schema.MetricsSnapshot{
		Subject:     "ghost",
		Date:        "2024-03-10",
		Scope:       schema.TrackedScope,
		GeneratedAt: generated,
	}
	return []schema.MetricsSnapshot{healthy, empty}
}

func TestSnapshotRowStructTags(t *testing.T) {
	sch := parquet.SchemaOf(new(SnapshotRow))
	require.NotNil(t, sch)

	expectedColumns := []string{
		"subject",
		"snapshot_date",
		"scope",
		"generated_at",
		"total_commits",
		"total_prs",
		"lead_time_hours",
		"deploys_per_week",
		"failure_rate_pct",
		"mttr_hours",
		"review_coverage_pct",
		"avg_pr_size",
		"unique_reviewers",
		"max_commit_streak",
		"work_life_balance_score",
		"grade_letter",
		"grade_pct",
	}
	for _, colName := range expectedColumns {
		col, ok := sch.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestModelMetaRowStructTags(t *testing.T) {
	sch := parquet.SchemaOf(new(ModelMetaRow))
	require.NotNil(t, sch)

	expectedColumns := []string{
		"subject",
		"metric_path",
		"kind",
		"model_version",
		"trained_at",
		"last_updated_at",
		"points_seen",
		"update_count",
		"last_outcome",
	}
	for _, colName := range expectedColumns {
		col, ok := sch.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestConvertSnapshots(t *testing.T) {
	rows := ConvertSnapshots(sampleSnapshots())
	require.Len(t, rows, 2)

	assert.Equal(t, "octocat", rows[0].Subject)
	assert.Equal(t, "2024-03-10", rows[0].SnapshotDate)
	assert.Equal(t, "tracked", rows[0].Scope)
	assert.Equal(t, int32(42), rows[0].TotalCommits)
	assert.InDelta(t, 18.5, rows[0].LeadTimeHours, 0.001)
	assert.InDelta(t, 4.2, rows[0].DeploysPerWeek, 0.001)
	require.NotNil(t, rows[0].GradeLetter)
	assert.Equal(t, "A", *rows[0].GradeLetter)

	assert.Equal(t, "ghost", rows[1].Subject)
	assert.Nil(t, rows[1].GradeLetter, "Snapshot without a grade should map to a nil letter")
}

func TestWriteSnapshotsParquetRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "snapshots.parquet")

	data := ConvertSnapshots(sampleSnapshots())
	err := WriteSnapshotsParquet(data, outputPath)
	require.NoError(t, err, "Writing Parquet file should not produce error")

	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Output file should not be empty")

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer file.Close()

	reader := parquet.NewGenericReader[SnapshotRow](file)
	defer reader.Close()

	readData := make([]SnapshotRow, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err, "Should be able to read data")
	}
	assert.Equal(t, len(data), n, "Should read all records")

	for i := range data {
		assert.Equal(t, data[i].Subject, readData[i].Subject)
		assert.Equal(t, data[i].SnapshotDate, readData[i].SnapshotDate)
		assert.Equal(t, data[i].TotalCommits, readData[i].TotalCommits)
		assert.InDelta(t, data[i].LeadTimeHours, readData[i].LeadTimeHours, 0.001)
		assert.InDelta(t, data[i].GradePct, readData[i].GradePct, 0.001)
		if data[i].GradeLetter == nil {
			assert.Nil(t, readData[i].GradeLetter)
		} else {
			require.NotNil(t, readData[i].GradeLetter)
			assert.Equal(t, *data[i].GradeLetter, *readData[i].GradeLetter)
		}
	}
}

func TestWriteModelMetaParquetRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "models.parquet")

	trained := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	metas := []schema.ModelMeta{
		{
			Subject:       "octocat",
			MetricPath:    schema.MetricLeadTimeHours,
			Kind:          schema.ModelOnlineLinear,
			ModelVersion:  2,
			TrainedAt:     trained,
			LastUpdatedAt: trained.Add(48 * time.Hour),
			PointsSeen:    15,
			UpdateCount:   1,
			LastOutcome:   schema.TrainedIncremental,
		},
	}
	data := ConvertModelMetas(metas)
	require.Len(t, data, 1)
	assert.Equal(t, "online_linear", data[0].Kind)
	assert.Equal(t, "incremental", data[0].LastOutcome)
	assert.Equal(t, int32(2), data[0].ModelVersion)

	err := WriteModelMetaParquet(data, outputPath)
	require.NoError(t, err)

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer file.Close()

	reader := parquet.NewGenericReader[ModelMetaRow](file)
	defer reader.Close()

	readData := make([]ModelMetaRow, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	require.Equal(t, 1, n)
	assert.Equal(t, data[0].Subject, readData[0].Subject)
	assert.Equal(t, data[0].MetricPath, readData[0].MetricPath)
	assert.Equal(t, data[0].PointsSeen, readData[0].PointsSeen)
	assert.WithinDuration(t, data[0].TrainedAt, readData[0].TrainedAt, time.Nanosecond)
}

func TestWriteSnapshotsParquetEmptyData(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "empty_snapshots.parquet")

	err := WriteSnapshotsParquet([]SnapshotRow{}, outputPath)
	require.NoError(t, err, "Writing empty data should not produce error")

	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Output file should contain schema even if empty")
}

func TestWriteSnapshotsParquetInvalidPath(t *testing.T) {
	data := ConvertSnapshots(sampleSnapshots())
	err := WriteSnapshotsParquet(data, "/nonexistent/directory/output.parquet")
	require.Error(t, err, "Writing to invalid path should produce error")
}
