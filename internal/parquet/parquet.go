// Package parquet provides data structures and functions for exporting
// metrics snapshots and model metadata to Parquet files using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/devpulse/devpulse/schema"
)

// SnapshotRow is the flattened form of a metrics snapshot for analytics.
// One row per (subject, snapshot date).
type SnapshotRow struct {
	// Subject is the developer login or owner/name repository key
	Subject string `parquet:"subject,snappy"`

	// SnapshotDate is the YYYY-MM-DD key within the subject's history
	SnapshotDate string `parquet:"snapshot_date,snappy"`

	// Scope is either "repository" or "tracked"
	Scope string `parquet:"scope,snappy"`

	// GeneratedAt is when the snapshot was computed
	GeneratedAt time.Time `parquet:"generated_at,snappy"`

	TotalCommits int32 `parquet:"total_commits,snappy"`
	TotalPRs     int32 `parquet:"total_prs,snappy"`

	// Delivery metrics
	LeadTimeHours  float64 `parquet:"lead_time_hours,snappy"`
	DeploysPerWeek float64 `parquet:"deploys_per_week,snappy"`
	FailureRatePct float64 `parquet:"failure_rate_pct,snappy"`
	MTTRHours      float64 `parquet:"mttr_hours,snappy"`

	// Quality and collaboration
	ReviewCoveragePct float64 `parquet:"review_coverage_pct,snappy"`
	AvgPRSize         float64 `parquet:"avg_pr_size,snappy"`
	UniqueReviewers   int32   `parquet:"unique_reviewers,snappy"`

	// Work patterns
	MaxCommitStreak      int32   `parquet:"max_commit_streak,snappy"`
	WorkLifeBalanceScore float64 `parquet:"work_life_balance_score,snappy"`

	// Grade outcome. GradeLetter is nullable because snapshots with no
	// activity carry no grade.
	GradeLetter *string `parquet:"grade_letter,optional,snappy"`
	GradePct    float64 `parquet:"grade_pct,snappy"`
}

// ModelMetaRow is the flattened form of one trained model's bookkeeping.
type ModelMetaRow struct {
	Subject       string    `parquet:"subject,snappy"`
	MetricPath    string    `parquet:"metric_path,snappy"`
	Kind          string    `parquet:"kind,snappy"`
	ModelVersion  int32     `parquet:"model_version,snappy"`
	TrainedAt     time.Time `parquet:"trained_at,snappy"`
	LastUpdatedAt time.Time `parquet:"last_updated_at,snappy"`
	PointsSeen    int32     `parquet:"points_seen,snappy"`
	UpdateCount   int32     `parquet:"update_count,snappy"`
	LastOutcome   string    `parquet:"last_outcome,snappy"`
}

// WriteSnapshotsParquet writes a slice of SnapshotRow structs to a Parquet file.
func WriteSnapshotsParquet(data []SnapshotRow, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Schema is inferred from the SnapshotRow struct tags
	writer := parquet.NewGenericWriter[SnapshotRow](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	return nil
}

// WriteModelMetaParquet writes a slice of ModelMetaRow structs to a Parquet file.
func WriteModelMetaParquet(data []ModelMetaRow, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Schema is inferred from the ModelMetaRow struct tags
	writer := parquet.NewGenericWriter[ModelMetaRow](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	return nil
}

// ConvertSnapshots flattens metrics snapshots into Parquet rows.
func ConvertSnapshots(snapshots []schema.MetricsSnapshot) []SnapshotRow {
	result := make([]SnapshotRow, len(snapshots))
	for i := range snapshots {
		snap := &snapshots[i]
		row := SnapshotRow{
			Subject:              snap.Subject,
			SnapshotDate:         snap.Date,
			Scope:                string(snap.Scope),
			GeneratedAt:          snap.GeneratedAt,
			TotalCommits:         int32(snap.TotalCommits),
			TotalPRs:             int32(snap.TotalPRs),
			LeadTimeHours:        snap.DORA.LeadTime.TotalLeadTimeHours,
			DeploysPerWeek:       snap.DORA.DeploymentFrequency.PerWeek,
			FailureRatePct:       snap.DORA.ChangeFailureRate.Percentage,
			MTTRHours:            snap.DORA.MTTR.MTTRHours,
			ReviewCoveragePct:    snap.CodeQuality.ReviewCoveragePercentage,
			AvgPRSize:            snap.CodeQuality.AvgPRSize,
			UniqueReviewers:      int32(snap.Collab.UniqueReviewers),
			MaxCommitStreak:      int32(snap.Productivity.MaxCommitStreak),
			WorkLifeBalanceScore: snap.Productivity.WorkLifeBalanceScore,
			GradePct:             snap.Grade.Percentage,
		}
		if snap.Grade.OverallGrade != "" {
			letter := snap.Grade.OverallGrade
			row.GradeLetter = &letter
		}
		result[i] = row
	}
	return result
}

// MockFetchSnapshots generates sample snapshot rows for demonstration.
func MockFetchSnapshots() []SnapshotRow {
	now := time.Now()
	gradeA := "A"
	gradeC := "C"
	// Note: the third row carries no grade to demonstrate nullable fields

	return []SnapshotRow{
		{
			Subject:              "octocat/hello-world",
			SnapshotDate:         now.AddDate(0, 0, -1).Format("2006-01-02"),
			Scope:                "repository",
			GeneratedAt:          now.Add(-26 * time.Hour),
			TotalCommits:         42,
			TotalPRs:             12,
			LeadTimeHours:        26.4,
			DeploysPerWeek:       4.5,
			FailureRatePct:       8.3,
			MTTRHours:            3.2,
			ReviewCoveragePct:    91.7,
			AvgPRSize:            140.5,
			UniqueReviewers:      5,
			MaxCommitStreak:      7,
			WorkLifeBalanceScore: 82.0,
			GradeLetter:          &gradeA,
			GradePct:             92.5,
		},
		{
			Subject:              "octocat/spoon-knife",
			SnapshotDate:         now.AddDate(0, 0, -1).Format("2006-01-02"),
			Scope:                "repository",
			GeneratedAt:          now.Add(-25 * time.Hour),
			TotalCommits:         9,
			TotalPRs:             2,
			LeadTimeHours:        70.1,
			DeploysPerWeek:       0.8,
			FailureRatePct:       25.0,
			MTTRHours:            18.5,
			ReviewCoveragePct:    50.0,
			AvgPRSize:            410.0,
			UniqueReviewers:      1,
			MaxCommitStreak:      2,
			WorkLifeBalanceScore: 61.3,
			GradeLetter:          &gradeC,
			GradePct:             58.2,
		},
		{
			Subject:      "octocat",
			SnapshotDate: now.Format("2006-01-02"),
			Scope:        "tracked",
			GeneratedAt:  now.Add(-10 * time.Minute),
		},
	}
}

// MockFetchModelMetas generates sample model metadata rows for demonstration.
func MockFetchModelMetas() []ModelMetaRow {
	now := time.Now()

	return []ModelMetaRow{
		{
			Subject:       "octocat/hello-world",
			MetricPath:    schema.MetricLeadTimeHours,
			Kind:          "autoregressive",
			ModelVersion:  3,
			TrainedAt:     now.Add(-72 * time.Hour),
			LastUpdatedAt: now.Add(-2 * time.Hour),
			PointsSeen:    30,
			UpdateCount:   5,
			LastOutcome:   "incremental",
		},
		{
			Subject:       "octocat/hello-world",
			MetricPath:    schema.MetricDeploysPerWeek,
			Kind:          "online_linear",
			ModelVersion:  1,
			TrainedAt:     now.Add(-2 * time.Hour),
			LastUpdatedAt: now.Add(-2 * time.Hour),
			PointsSeen:    14,
			UpdateCount:   0,
			LastOutcome:   "full",
		},
	}
}

// ConvertModelMetas flattens model metadata into Parquet rows.
func ConvertModelMetas(metas []schema.ModelMeta) []ModelMetaRow {
	result := make([]ModelMetaRow, len(metas))
	for i, meta := range metas {
		result[i] = ModelMetaRow{
			Subject:       meta.Subject,
			MetricPath:    meta.MetricPath,
			Kind:          string(meta.Kind),
			ModelVersion:  int32(meta.ModelVersion),
			TrainedAt:     meta.TrainedAt,
			LastUpdatedAt: meta.LastUpdatedAt,
			PointsSeen:    int32(meta.PointsSeen),
			UpdateCount:   int32(meta.UpdateCount),
			LastOutcome:   string(meta.LastOutcome),
		}
	}
	return result
}
