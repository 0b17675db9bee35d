package calc

import (
	"strings"

	"github.com/devpulse/devpulse/schema"
)

// computeChangeFailureRate classifies merged PRs against the failure keyword
// taxonomy and scans recent commit messages for hotfix signals. The rate is
// failures over all pull requests, merged or not.
func computeChangeFailureRate(prs []schema.PullRequestEvent, commits []schema.CommitEvent) schema.ChangeFailureRate {
	rate := schema.ChangeFailureRate{TotalPRs: len(prs)}
	if len(prs) == 0 {
		return rate
	}

	types := make(map[schema.FailureCategory]int)
	for i := range prs {
		pr := &prs[i]
		if !pr.Merged() {
			continue
		}
		cat := schema.ClassifyFailure(pr.Title, pr.Body)
		if cat == "" {
			continue
		}
		types[cat]++
		rate.TotalFailures++
		rate.FailedPRs = append(rate.FailedPRs, schema.FailedPR{
			Number:   pr.Number,
			Title:    pr.Title,
			Category: cat,
			MergedAt: pr.MergedAt,
		})
	}
	if len(types) > 0 {
		rate.FailureTypes = types
	}

	// Recent commit messages carry hotfix signal too.
	recent := commits
	if len(recent) > schema.RecentCommitWindow {
		recent = recent[len(recent)-schema.RecentCommitWindow:]
	}
	for _, c := range recent {
		if schema.FailureHotfix.Matches(strings.ToLower(c.Message)) {
			rate.HotfixCommits++
		}
	}

	rate.Percentage = round2(float64(rate.TotalFailures) / float64(len(prs)) * 100)
	return rate
}
