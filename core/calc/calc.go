// Package calc computes delivery metrics snapshots from commit and
// pull request activity.
package calc

import (
	"time"

	"github.com/devpulse/devpulse/internal/contract"
	"github.com/devpulse/devpulse/schema"
)

// Compute builds a full metrics snapshot for a subject from its raw activity.
// Records with malformed timestamps are skipped, never fatal.
func Compute(subject string, scope schema.Scope, commits []schema.CommitEvent, prs []schema.PullRequestEvent, now time.Time) *schema.MetricsSnapshot {
	snap := &schema.MetricsSnapshot{
		Subject:      subject,
		Date:         schema.DayKey(now),
		Scope:        scope,
		TotalCommits: len(commits),
		TotalPRs:     len(prs),
		GeneratedAt:  now,
	}

	snap.DORA = schema.DORAMetrics{
		LeadTime:            computeLeadTime(prs),
		DeploymentFrequency: computeDeploymentFrequency(prs),
		ChangeFailureRate:   computeChangeFailureRate(prs, commits),
		MTTR:                computeMTTR(prs),
	}
	snap.CodeQuality = computeCodeQuality(commits, prs)
	snap.Productivity = computeProductivity(commits)
	snap.Collab = computeCollaboration(prs)
	snap.Grade = computeGrade(snap)
	snap.WeeklyCommits = weeklyCommitTrend(commits)

	return snap
}

// weeklyCommitTrend buckets commits into ISO week keys.
func weeklyCommitTrend(commits []schema.CommitEvent) map[string]int {
	if len(commits) == 0 {
		return nil
	}
	weekly := make(map[string]int)
	for _, c := range commits {
		t, ok := contract.ParseEventTime(c.CommittedAt)
		if !ok {
			continue
		}
		weekly[schema.WeekKey(t)]++
	}
	if len(weekly) == 0 {
		return nil
	}
	return weekly
}
