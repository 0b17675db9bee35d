package schema

import (
	"fmt"
	"time"
)

// LeadTimeBreakdown splits lead time for changes into its phases.
// All values are averages in hours unless named otherwise.
type LeadTimeBreakdown struct {
	TotalLeadTimeHours float64 `json:"total_lead_time_hours"`
	CodeTimeHours      float64 `json:"code_time_hours"`
	ReviewTimeHours    float64 `json:"review_time_hours"`
	MergeTimeHours     float64 `json:"merge_time_hours"`
	P50LeadTimeHours   float64 `json:"p50_lead_time_hours"`
	P90LeadTimeHours   float64 `json:"p90_lead_time_hours"`
	P95LeadTimeHours   float64 `json:"p95_lead_time_hours"`
	SampleCount        int     `json:"sample_count"`
}

// DeploymentFrequency tracks merged-PR cadence with a windowed trend.
type DeploymentFrequency struct {
	PerWeek          float64        `json:"per_week"`
	PerDay           float64        `json:"per_day"`
	WeeklyTrend      map[string]int `json:"weekly_trend,omitempty"`
	DailyTrend       map[string]int `json:"daily_trend,omitempty"`
	TrendDirection   TrendDirection `json:"trend_direction"`
	TotalDeployments int            `json:"total_deployments"`
}

// FailedPR records a merged PR classified as a failure signal.
type FailedPR struct {
	Number   int             `json:"number"`
	Title    string          `json:"title"`
	Category FailureCategory `json:"category"`
	MergedAt string          `json:"merged_at"`
}

// ChangeFailureRate summarizes keyword-classified failure signals.
type ChangeFailureRate struct {
	Percentage    float64                 `json:"percentage"`
	FailureTypes  map[FailureCategory]int `json:"failure_types,omitempty"`
	HotfixCommits int                     `json:"hotfix_commits"`
	FailedPRs     []FailedPR              `json:"failed_prs,omitempty"`
	TotalFailures int                     `json:"total_failures"`
	TotalPRs      int                     `json:"total_prs"`
}

// MTTRMetrics holds the mean-time-to-recovery approximation.
// Pairing a recovery PR with the immediately preceding merge is a
// heuristic with no causal verification; treat the numbers as indicative.
type MTTRMetrics struct {
	MTTRHours         float64 `json:"mttr_hours"`
	MTTRDays          float64 `json:"mttr_days"`
	RecoveryIncidents int     `json:"recovery_incidents"`
	P50MTTRHours      float64 `json:"p50_mttr_hours"`
	P90MTTRHours      float64 `json:"p90_mttr_hours"`
}

// DORAMetrics groups the four delivery metrics.
type DORAMetrics struct {
	LeadTime            LeadTimeBreakdown   `json:"lead_time"`
	DeploymentFrequency DeploymentFrequency `json:"deployment_frequency"`
	ChangeFailureRate   ChangeFailureRate   `json:"change_failure_rate"`
	MTTR                MTTRMetrics         `json:"mttr"`
}

// SizeDistribution buckets change sizes by total lines touched.
type SizeDistribution struct {
	Small  int `json:"small"`
	Medium int `json:"medium"`
	Large  int `json:"large"`
}

// CodeQualityMetrics covers change sizing and review hygiene.
type CodeQualityMetrics struct {
	AvgCommitSize            float64          `json:"avg_commit_size"`
	AvgPRSize                float64          `json:"avg_pr_size"`
	LargeCommitsPercentage   float64          `json:"large_commits_percentage"`
	LargePRsPercentage       float64          `json:"large_prs_percentage"`
	ReviewCoveragePercentage float64          `json:"review_coverage_percentage"`
	AvgFilesPerCommit        float64          `json:"avg_files_per_commit"`
	CommitSizeDistribution   SizeDistribution `json:"commit_size_distribution"`
}

// ProductivityMetrics captures when work happens and how sustainable it is.
type ProductivityMetrics struct {
	CommitsByDay            map[int]int `json:"commits_by_day,omitempty"`  // 0 = Monday
	CommitsByHour           map[int]int `json:"commits_by_hour,omitempty"` // 0-23
	WeekendWorkPercentage   float64     `json:"weekend_work_percentage"`
	LateNightWorkPercentage float64     `json:"late_night_work_percentage"`
	MaxCommitStreak         int         `json:"max_commit_streak"`
	MostProductiveDay       int         `json:"most_productive_day"`
	MostProductiveHour      int         `json:"most_productive_hour"`
	WorkLifeBalanceScore    float64     `json:"work_life_balance_score"`
	CommitsObserved         int         `json:"commits_observed"`
}

// CollaborationMetrics covers review participation.
type CollaborationMetrics struct {
	UniqueReviewers            int            `json:"unique_reviewers"`
	UniqueAuthors              int            `json:"unique_authors"`
	AvgReviewResponseTimeHours float64        `json:"avg_review_response_time_hours"`
	TotalReviews               int            `json:"total_reviews"`
	ReviewsPerPR               float64        `json:"reviews_per_pr"`
	TopReviewers               map[string]int `json:"top_reviewers,omitempty"`
	CollaborationIndex         int            `json:"collaboration_index"`
}

// PerformanceGrade is the weighted rubric result.
type PerformanceGrade struct {
	OverallGrade     string         `json:"overall_grade"`
	GradeDescription string         `json:"grade_description"`
	Percentage       float64        `json:"percentage"`
	TotalScore       int            `json:"total_score"`
	MaxScore         int            `json:"max_score"`
	CategoryScores   map[string]int `json:"category_scores,omitempty"`
	CategoryMax      map[string]int `json:"category_max_scores,omitempty"`
	Strengths        []string       `json:"strengths,omitempty"`
	ImprovementAreas []string       `json:"improvement_areas,omitempty"`
}

// MetricsSnapshot is one computed metrics record for a (subject, date) key.
// A new snapshot for the same key replaces the prior one; earlier dates are
// retained as history. Snapshots are never mutated after creation.
type MetricsSnapshot struct {
	Subject      string               `json:"subject"`
	Date         string               `json:"date"` // YYYY-MM-DD
	Scope        Scope                `json:"scope"`
	TotalCommits int                  `json:"total_commits"`
	TotalPRs     int                  `json:"total_prs"`
	DORA         DORAMetrics          `json:"dora"`
	CodeQuality  CodeQualityMetrics   `json:"code_quality"`
	Productivity ProductivityMetrics  `json:"productivity_patterns"`
	Collab       CollaborationMetrics `json:"collaboration"`
	Grade        PerformanceGrade     `json:"performance_grade"`
	WeeklyCommits map[string]int      `json:"weekly_commit_frequency,omitempty"`
	GeneratedAt  time.Time            `json:"generated_at"`
}

// Dotted metric paths understood by MetricValue. Forecasting and clustering
// address snapshot fields through these.
const (
	MetricLeadTimeHours   = "dora.lead_time.total_lead_time_hours"
	MetricDeploysPerWeek  = "dora.deployment_frequency.per_week"
	MetricFailureRate     = "dora.change_failure_rate.percentage"
	MetricMTTRHours       = "dora.mttr.mttr_hours"
	MetricReviewCoverage  = "code_quality.review_coverage_percentage"
	MetricCommitStreak    = "productivity_patterns.max_commit_streak"
	MetricUniqueReviewers = "collaboration.unique_reviewers"
	MetricWorkLifeBalance = "productivity_patterns.work_life_balance_score"
	MetricGradePercentage = "performance_grade.percentage"
	MetricTotalCommits    = "total_commits"
	MetricTotalPRs        = "total_prs"
)

// KeyForecastMetrics are the paths the orchestrator trains and forecasts on
// every refresh.
var KeyForecastMetrics = []string{
	MetricLeadTimeHours,
	MetricDeploysPerWeek,
	MetricFailureRate,
	MetricReviewCoverage,
}

// MetricValue resolves a dotted metric path against the snapshot.
func (s *MetricsSnapshot) MetricValue(path string) (float64, error) {
	switch path {
	case MetricLeadTimeHours:
		return s.DORA.LeadTime.TotalLeadTimeHours, nil
	case MetricDeploysPerWeek:
		return s.DORA.DeploymentFrequency.PerWeek, nil
	case MetricFailureRate:
		return s.DORA.ChangeFailureRate.Percentage, nil
	case MetricMTTRHours:
		return s.DORA.MTTR.MTTRHours, nil
	case MetricReviewCoverage:
		return s.CodeQuality.ReviewCoveragePercentage, nil
	case MetricCommitStreak:
		return float64(s.Productivity.MaxCommitStreak), nil
	case MetricUniqueReviewers:
		return float64(s.Collab.UniqueReviewers), nil
	case MetricWorkLifeBalance:
		return s.Productivity.WorkLifeBalanceScore, nil
	case MetricGradePercentage:
		return s.Grade.Percentage, nil
	case MetricTotalCommits:
		return float64(s.TotalCommits), nil
	case MetricTotalPRs:
		return float64(s.TotalPRs), nil
	}
	return 0, fmt.Errorf("unknown metric path %q", path)
}

// SubjectFeatures is the standardized feature vector used for clustering.
type SubjectFeatures struct {
	Subject         string  `json:"subject"`
	LeadTimeHours   float64 `json:"lead_time_hours"`
	DeploysPerWeek  float64 `json:"deploys_per_week"`
	FailureRate     float64 `json:"failure_rate"`
	ReviewCoverage  float64 `json:"review_coverage"`
	CommitStreak    float64 `json:"commit_streak"`
	UniqueReviewers float64 `json:"unique_reviewers"`
}

// Vector returns the features in clustering order.
func (f SubjectFeatures) Vector() []float64 {
	return []float64{
		f.LeadTimeHours,
		f.DeploysPerWeek,
		f.FailureRate,
		f.ReviewCoverage,
		f.CommitStreak,
		f.UniqueReviewers,
	}
}

// FeaturesFromSnapshot extracts the clustering features from a snapshot.
func FeaturesFromSnapshot(s *MetricsSnapshot) SubjectFeatures {
	return SubjectFeatures{
		Subject:         s.Subject,
		LeadTimeHours:   s.DORA.LeadTime.TotalLeadTimeHours,
		DeploysPerWeek:  s.DORA.DeploymentFrequency.PerWeek,
		FailureRate:     s.DORA.ChangeFailureRate.Percentage,
		ReviewCoverage:  s.CodeQuality.ReviewCoveragePercentage,
		CommitStreak:    float64(s.Productivity.MaxCommitStreak),
		UniqueReviewers: float64(s.Collab.UniqueReviewers),
	}
}
