package calc

import (
	"sort"

	"github.com/devpulse/devpulse/internal/contract"
	"github.com/devpulse/devpulse/schema"
)

// computeCollaboration measures review participation. Self-reviews never
// count toward reviewer totals or response times.
func computeCollaboration(prs []schema.PullRequestEvent) schema.CollaborationMetrics {
	if len(prs) == 0 {
		return schema.CollaborationMetrics{}
	}

	reviewerCounts := make(map[string]int)
	authorSet := make(map[string]struct{})
	var responseTimes []float64
	totalReviews := 0

	for i := range prs {
		pr := &prs[i]
		if pr.Author != "" {
			authorSet[pr.Author] = struct{}{}
		}
		createdAt, createdOK := contract.ParseEventTime(pr.CreatedAt)

		for _, review := range pr.Reviews {
			if review.Reviewer == "" || review.Reviewer == pr.Author {
				continue
			}
			reviewerCounts[review.Reviewer]++
			totalReviews++

			if !createdOK {
				continue
			}
			submittedAt, ok := contract.ParseEventTime(review.SubmittedAt)
			if !ok {
				continue
			}
			if d := submittedAt.Sub(createdAt); d > 0 {
				responseTimes = append(responseTimes, d.Hours())
			}
		}
	}

	collab := schema.CollaborationMetrics{
		UniqueReviewers:            len(reviewerCounts),
		UniqueAuthors:              len(authorSet),
		AvgReviewResponseTimeHours: mean(responseTimes),
		TotalReviews:               totalReviews,
		ReviewsPerPR:               float64(totalReviews) / float64(len(prs)),
		TopReviewers:               topReviewers(reviewerCounts),
		CollaborationIndex:         len(reviewerCounts) * len(authorSet),
	}
	return collab
}

// topReviewers keeps the busiest reviewers, ties broken by name.
func topReviewers(counts map[string]int) map[string]int {
	if len(counts) == 0 {
		return nil
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})

	if len(names) > schema.TopReviewerCount {
		names = names[:schema.TopReviewerCount]
	}
	top := make(map[string]int, len(names))
	for _, name := range names {
		top[name] = counts[name]
	}
	return top
}
