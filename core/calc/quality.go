package calc

import "github.com/devpulse/devpulse/schema"

// computeCodeQuality covers change sizing, review coverage and commit focus.
func computeCodeQuality(commits []schema.CommitEvent, prs []schema.PullRequestEvent) schema.CodeQualityMetrics {
	var commitSizes, filesChanged []float64
	largeCommits := 0
	dist := schema.SizeDistribution{}

	for _, c := range commits {
		size := float64(c.Additions + c.Deletions)
		commitSizes = append(commitSizes, size)
		filesChanged = append(filesChanged, float64(c.ChangedFiles))
		if size > schema.LargeCommitThreshold {
			largeCommits++
		}
		switch {
		case size < schema.SmallChangeCutoff:
			dist.Small++
		case size < schema.MediumChangeCutoff:
			dist.Medium++
		default:
			dist.Large++
		}
	}

	var prSizes []float64
	largePRs := 0
	reviewedPRs := 0
	for i := range prs {
		pr := &prs[i]
		size := float64(pr.Additions + pr.Deletions)
		prSizes = append(prSizes, size)
		if size > schema.LargePRThreshold {
			largePRs++
		}
		if len(pr.Reviews) > 0 {
			reviewedPRs++
		}
	}

	quality := schema.CodeQualityMetrics{
		AvgCommitSize:          mean(commitSizes),
		AvgPRSize:              mean(prSizes),
		AvgFilesPerCommit:      mean(filesChanged),
		CommitSizeDistribution: dist,
	}
	if len(commits) > 0 {
		quality.LargeCommitsPercentage = float64(largeCommits) / float64(len(commits)) * 100
	}
	if len(prs) > 0 {
		quality.LargePRsPercentage = float64(largePRs) / float64(len(prs)) * 100
		quality.ReviewCoveragePercentage = round2(float64(reviewedPRs) / float64(len(prs)) * 100)
	}
	return quality
}
