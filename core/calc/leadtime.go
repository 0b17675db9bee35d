package calc

import (
	"time"

	"github.com/devpulse/devpulse/internal/contract"
	"github.com/devpulse/devpulse/schema"
)

// computeLeadTime breaks merged-PR lead time into code, review and merge
// phases. Each phase sample is kept only when non-negative, so clock skew in
// one phase never discards the whole pull request.
func computeLeadTime(prs []schema.PullRequestEvent) schema.LeadTimeBreakdown {
	var leadTimes, codeTimes, reviewTimes, mergeTimes []float64

	for i := range prs {
		pr := &prs[i]
		if !pr.Merged() {
			continue
		}
		createdAt, ok := contract.ParseEventTime(pr.CreatedAt)
		if !ok {
			continue
		}
		mergedAt, ok := contract.ParseEventTime(pr.MergedAt)
		if !ok {
			continue
		}

		firstCommit, ok := firstCommitTime(pr.Commits)
		if !ok {
			continue
		}

		// Code time: first commit to PR creation.
		if d := createdAt.Sub(firstCommit); d >= 0 {
			codeTimes = append(codeTimes, d.Hours())
		}

		// Total lead time: first commit to merge.
		if d := mergedAt.Sub(firstCommit); d >= 0 {
			leadTimes = append(leadTimes, d.Hours())
		}

		firstReview, lastReview, ok := reviewTimeBounds(pr.Reviews)
		if !ok {
			continue
		}

		// Review time: PR creation to first review.
		if d := firstReview.Sub(createdAt); d >= 0 {
			reviewTimes = append(reviewTimes, d.Hours())
		}

		// Merge time: last review to merge.
		if d := mergedAt.Sub(lastReview); d >= 0 {
			mergeTimes = append(mergeTimes, d.Hours())
		}
	}

	return schema.LeadTimeBreakdown{
		TotalLeadTimeHours: mean(leadTimes),
		CodeTimeHours:      mean(codeTimes),
		ReviewTimeHours:    mean(reviewTimes),
		MergeTimeHours:     mean(mergeTimes),
		P50LeadTimeHours:   percentile(leadTimes, 50),
		P90LeadTimeHours:   percentile(leadTimes, 90),
		P95LeadTimeHours:   percentile(leadTimes, 95),
		SampleCount:        len(leadTimes),
	}
}

// firstCommitTime returns the earliest parseable commit time in the PR.
func firstCommitTime(refs []schema.CommitRef) (time.Time, bool) {
	var first time.Time
	found := false
	for _, ref := range refs {
		t, ok := contract.ParseEventTime(ref.CommittedAt)
		if !ok {
			continue
		}
		if !found || t.Before(first) {
			first = t
			found = true
		}
	}
	return first, found
}

// reviewTimeBounds returns the earliest and latest parseable review times.
func reviewTimeBounds(reviews []schema.ReviewEvent) (first, last time.Time, ok bool) {
	for _, r := range reviews {
		t, parsed := contract.ParseEventTime(r.SubmittedAt)
		if !parsed {
			continue
		}
		if !ok {
			first, last, ok = t, t, true
			continue
		}
		if t.Before(first) {
			first = t
		}
		if t.After(last) {
			last = t
		}
	}
	return first, last, ok
}
