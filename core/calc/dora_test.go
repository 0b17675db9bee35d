package calc

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devpulse/devpulse/schema"
)

var base = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC) // Monday

func stamp(t time.Time) string {
	return t.Format(time.RFC3339)
}

func mergedPR(number int, title string, mergedAt time.Time) schema.PullRequestEvent {
	return schema.PullRequestEvent{
		Number:    number,
		Title:     title,
		CreatedAt: stamp(mergedAt.Add(-2 * time.Hour)),
		MergedAt:  stamp(mergedAt),
		State:     "MERGED",
	}
}

func TestLeadTimePhases(t *testing.T) {
	pr := schema.PullRequestEvent{
		Number:    1,
		Title:     "Add widget",
		CreatedAt: stamp(base.Add(2 * time.Hour)),
		MergedAt:  stamp(base.Add(6 * time.Hour)),
		Commits:   []schema.CommitRef{{SHA: "abc", CommittedAt: stamp(base)}},
		Reviews:   []schema.ReviewEvent{{Reviewer: "alice", SubmittedAt: stamp(base.Add(5 * time.Hour))}},
	}

	lead := computeLeadTime([]schema.PullRequestEvent{pr})
	assert.Equal(t, 1, lead.SampleCount)
	assert.InDelta(t, 6.0, lead.TotalLeadTimeHours, 1e-9)
	assert.InDelta(t, 2.0, lead.CodeTimeHours, 1e-9)
	assert.InDelta(t, 3.0, lead.ReviewTimeHours, 1e-9)
	assert.InDelta(t, 1.0, lead.MergeTimeHours, 1e-9)

	// Phases add back up to the total for a single clean sample.
	sum := lead.CodeTimeHours + lead.ReviewTimeHours + lead.MergeTimeHours
	assert.InDelta(t, lead.TotalLeadTimeHours, sum, 1e-9)
}

func TestLeadTimeSkipsUnparseableAndUnmerged(t *testing.T) {
	prs := []schema.PullRequestEvent{
		{Number: 1, Title: "Open PR", CreatedAt: stamp(base), State: "OPEN"},
		{Number: 2, Title: "Bad dates", CreatedAt: "garbage", MergedAt: stamp(base)},
		{Number: 3, Title: "No commits", CreatedAt: stamp(base), MergedAt: stamp(base.Add(time.Hour))},
	}
	lead := computeLeadTime(prs)
	assert.Equal(t, 0, lead.SampleCount)
	assert.Zero(t, lead.TotalLeadTimeHours)
}

func TestLeadTimeNegativePhaseDropped(t *testing.T) {
	// PR created before its first commit: code time is negative and dropped,
	// total lead time still counts.
	pr := schema.PullRequestEvent{
		Number:    1,
		Title:     "Rebased work",
		CreatedAt: stamp(base),
		MergedAt:  stamp(base.Add(10 * time.Hour)),
		Commits:   []schema.CommitRef{{SHA: "abc", CommittedAt: stamp(base.Add(time.Hour))}},
	}
	lead := computeLeadTime([]schema.PullRequestEvent{pr})
	assert.Equal(t, 1, lead.SampleCount)
	assert.InDelta(t, 9.0, lead.TotalLeadTimeHours, 1e-9)
	assert.Zero(t, lead.CodeTimeHours)
}

// weeklyPRs builds one PR per merge in the given per-week counts, starting
// at the base Monday.
func weeklyPRs(counts []int) []schema.PullRequestEvent {
	var prs []schema.PullRequestEvent
	n := 0
	for week, count := range counts {
		for i := 0; i < count; i++ {
			n++
			mergedAt := base.AddDate(0, 0, 7*week+i%5)
			prs = append(prs, mergedPR(n, fmt.Sprintf("Change %d", n), mergedAt))
		}
	}
	return prs
}

func TestDeploymentFrequencyAverages(t *testing.T) {
	prs := weeklyPRs([]int{2, 4})
	prs = append(prs, schema.PullRequestEvent{Number: 99, Title: "Open", CreatedAt: stamp(base), State: "OPEN"})

	freq := computeDeploymentFrequency(prs)
	assert.Equal(t, 6, freq.TotalDeployments)
	assert.Equal(t, 3.0, freq.PerWeek)
	assert.Len(t, freq.WeeklyTrend, 2)
	assert.Equal(t, schema.TrendStable, freq.TrendDirection)
}

func TestDeploymentFrequencyEmpty(t *testing.T) {
	freq := computeDeploymentFrequency(nil)
	assert.Zero(t, freq.PerWeek)
	assert.Zero(t, freq.TotalDeployments)
	assert.Equal(t, schema.TrendStable, freq.TrendDirection)
}

func TestWeeklyTrendDirection(t *testing.T) {
	cases := []struct {
		name   string
		counts []int
		want   schema.TrendDirection
	}{
		{"increasing", []int{5, 5, 5, 5, 7, 7, 7, 7}, schema.TrendIncreasing},
		{"decreasing", []int{5, 5, 5, 5, 3, 3, 3, 3}, schema.TrendDecreasing},
		{"exact 1.2x is stable", []int{5, 5, 5, 5, 6, 6, 6, 6}, schema.TrendStable},
		{"exact 0.8x is stable", []int{5, 5, 5, 5, 4, 4, 4, 4}, schema.TrendStable},
		{"too few weeks", []int{1, 9, 9, 9, 9}, schema.TrendStable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			freq := computeDeploymentFrequency(weeklyPRs(tc.counts))
			assert.Equal(t, tc.want, freq.TrendDirection)
		})
	}
}

func TestChangeFailureRate(t *testing.T) {
	var prs []schema.PullRequestEvent
	for i := 1; i <= 10; i++ {
		prs = append(prs, mergedPR(i, fmt.Sprintf("Add feature %d", i), base.Add(time.Duration(i)*time.Hour)))
	}
	prs = append(prs,
		mergedPR(11, "Hotfix login crash", base.Add(11*time.Hour)),
		mergedPR(12, "Urgent rollback of deploy", base.Add(12*time.Hour)),
	)

	rate := computeChangeFailureRate(prs, nil)
	require.Equal(t, 12, rate.TotalPRs)
	assert.Equal(t, 2, rate.TotalFailures)
	assert.Equal(t, 16.67, rate.Percentage)
	assert.Equal(t, 1, rate.FailureTypes[schema.FailureHotfix])
	assert.Equal(t, 1, rate.FailureTypes[schema.FailureRevert])
	assert.Len(t, rate.FailedPRs, 2)
}

func TestChangeFailureRateUnmergedNotClassified(t *testing.T) {
	prs := []schema.PullRequestEvent{
		{Number: 1, Title: "Hotfix pending", CreatedAt: stamp(base), State: "OPEN"},
		mergedPR(2, "Add docs", base),
	}
	rate := computeChangeFailureRate(prs, nil)
	assert.Equal(t, 0, rate.TotalFailures)
	assert.Zero(t, rate.Percentage)
}

func TestChangeFailureRateHotfixCommits(t *testing.T) {
	var commits []schema.CommitEvent
	// Old hotfix commit falls outside the recent window.
	commits = append(commits, schema.CommitEvent{Message: "hotfix: ancient history", CommittedAt: stamp(base)})
	for i := 0; i < schema.RecentCommitWindow-1; i++ {
		commits = append(commits, schema.CommitEvent{Message: "routine work", CommittedAt: stamp(base)})
	}
	commits = append(commits, schema.CommitEvent{Message: "Emergency patch for outage", CommittedAt: stamp(base)})

	rate := computeChangeFailureRate([]schema.PullRequestEvent{mergedPR(1, "Add thing", base)}, commits)
	assert.Equal(t, 1, rate.HotfixCommits)
}

func TestMTTRAdjacentPairs(t *testing.T) {
	prs := []schema.PullRequestEvent{
		mergedPR(1, "Add feature", base),
		mergedPR(2, "Fix crash in feature", base.Add(4*time.Hour)),
		mergedPR(3, "Add another feature", base.Add(10*time.Hour)),
	}
	mttr := computeMTTR(prs)
	assert.Equal(t, 1, mttr.RecoveryIncidents)
	assert.InDelta(t, 4.0, mttr.MTTRHours, 1e-9)
	assert.InDelta(t, 4.0/24, mttr.MTTRDays, 1e-9)
}

func TestMTTRFirstMergeNeverCounts(t *testing.T) {
	prs := []schema.PullRequestEvent{
		mergedPR(1, "Fix startup bug", base),
		mergedPR(2, "Add feature", base.Add(2*time.Hour)),
	}
	mttr := computeMTTR(prs)
	assert.Equal(t, 0, mttr.RecoveryIncidents)
	assert.Zero(t, mttr.MTTRHours)
}

func TestMTTROrdersByMergeTime(t *testing.T) {
	// Delivered out of order; pairing follows merge time, not slice order.
	prs := []schema.PullRequestEvent{
		mergedPR(2, "Fix broken build", base.Add(6*time.Hour)),
		mergedPR(1, "Add pipeline", base),
	}
	mttr := computeMTTR(prs)
	assert.Equal(t, 1, mttr.RecoveryIncidents)
	assert.InDelta(t, 6.0, mttr.MTTRHours, 1e-9)
}
