package schema

// BenchmarkTier holds one row of the DORA industry benchmark table.
type BenchmarkTier struct {
	LeadTimeHours     float64
	DeploysPerWeek    float64
	ChangeFailureRate float64
	MTTRHours         float64
}

// DORA benchmark tiers used by the grading rubric.
var (
	EliteBenchmark  = BenchmarkTier{LeadTimeHours: 24, DeploysPerWeek: 10, ChangeFailureRate: 5, MTTRHours: 1}
	HighBenchmark   = BenchmarkTier{LeadTimeHours: 168, DeploysPerWeek: 3, ChangeFailureRate: 10, MTTRHours: 24}
	MediumBenchmark = BenchmarkTier{LeadTimeHours: 720, DeploysPerWeek: 1, ChangeFailureRate: 15, MTTRHours: 168}
)

// Change size thresholds (total lines added+deleted).
const (
	LargeCommitThreshold = 500
	LargePRThreshold     = 1000

	SmallChangeCutoff  = 50  // below this a commit is "small"
	MediumChangeCutoff = 200 // below this a commit is "medium", else "large"
)

// RecentCommitWindow is how many trailing commit messages are scanned for
// hotfix keywords as a secondary failure signal.
const RecentCommitWindow = 50

// Deployment trend parameters: the mean of the latest window weeks is
// compared against the mean of the window before it.
const (
	TrendWindowWeeks       = 4
	TrendMinWeeks          = 8
	TrendIncreaseThreshold = 1.2
	TrendDecreaseThreshold = 0.8
)

// Late-night boundaries: commits in [LateNightStart, 24) or [0, EarlyMorningEnd).
const (
	LateNightStart  = 22
	EarlyMorningEnd = 6
)

// TopReviewerCount bounds the reviewer leaderboard.
const TopReviewerCount = 5

// gradeCutoffs maps minimum percentage to letter grade, highest first.
var gradeCutoffs = []struct {
	Min         float64
	Grade       string
	Description string
}{
	{90, "A+", "Elite Performance"},
	{85, "A", "Excellent Performance"},
	{80, "A-", "Very Good Performance"},
	{75, "B+", "Good Performance"},
	{70, "B", "Above Average Performance"},
	{65, "B-", "Average Performance"},
	{60, "C+", "Below Average Performance"},
	{55, "C", "Needs Improvement"},
}

// GradeForPercentage maps a rubric percentage to its letter grade and
// description. Below the lowest cutoff the floor grade applies.
func GradeForPercentage(pct float64) (string, string) {
	for _, c := range gradeCutoffs {
		if pct >= c.Min {
			return c.Grade, c.Description
		}
	}
	return "C-", "Significant Improvement Needed"
}
