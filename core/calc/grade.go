package calc

import "github.com/devpulse/devpulse/schema"

// Category names for the grading rubric.
const (
	categoryDORA          = "dora"
	categoryCodeQuality   = "code_quality"
	categoryProductivity  = "productivity"
	categoryCollaboration = "collaboration"
)

// Category point budgets.
const (
	doraMax          = 40
	codeQualityMax   = 25
	productivityMax  = 20
	collaborationMax = 15
)

// computeGrade applies the weighted rubric across all metric categories.
func computeGrade(snap *schema.MetricsSnapshot) schema.PerformanceGrade {
	scores := map[string]int{
		categoryDORA:          scoreDORA(&snap.DORA),
		categoryCodeQuality:   scoreCodeQuality(&snap.CodeQuality),
		categoryProductivity:  scoreProductivity(&snap.Productivity),
		categoryCollaboration: scoreCollaboration(&snap.Collab),
	}
	maxScores := map[string]int{
		categoryDORA:          doraMax,
		categoryCodeQuality:   codeQualityMax,
		categoryProductivity:  productivityMax,
		categoryCollaboration: collaborationMax,
	}

	totalScore, totalMax := 0, 0
	for cat, s := range scores {
		totalScore += s
		totalMax += maxScores[cat]
	}
	pct := float64(totalScore) / float64(totalMax) * 100
	grade, desc := schema.GradeForPercentage(pct)

	return schema.PerformanceGrade{
		OverallGrade:     grade,
		GradeDescription: desc,
		Percentage:       round1(pct),
		TotalScore:       totalScore,
		MaxScore:         totalMax,
		CategoryScores:   scores,
		CategoryMax:      maxScores,
		Strengths:        gradeStrengths(scores, maxScores),
		ImprovementAreas: gradeImprovements(scores, maxScores),
	}
}

// scoreDORA awards up to 10 points per delivery metric against the
// industry benchmark tiers.
func scoreDORA(dora *schema.DORAMetrics) int {
	score := 0

	// Lead time, lower is better.
	switch lead := dora.LeadTime.TotalLeadTimeHours; {
	case lead <= schema.EliteBenchmark.LeadTimeHours:
		score += 10
	case lead <= schema.HighBenchmark.LeadTimeHours:
		score += 8
	case lead <= schema.MediumBenchmark.LeadTimeHours:
		score += 6
	default:
		score += 3
	}

	// Deployment frequency, higher is better.
	switch freq := dora.DeploymentFrequency.PerWeek; {
	case freq >= schema.EliteBenchmark.DeploysPerWeek:
		score += 10
	case freq >= schema.HighBenchmark.DeploysPerWeek:
		score += 8
	case freq >= schema.MediumBenchmark.DeploysPerWeek:
		score += 6
	default:
		score += 3
	}

	// Change failure rate, lower is better.
	switch rate := dora.ChangeFailureRate.Percentage; {
	case rate <= schema.EliteBenchmark.ChangeFailureRate:
		score += 10
	case rate <= schema.HighBenchmark.ChangeFailureRate:
		score += 8
	case rate <= schema.MediumBenchmark.ChangeFailureRate:
		score += 6
	default:
		score += 3
	}

	// MTTR, lower is better.
	switch mttr := dora.MTTR.MTTRHours; {
	case mttr <= schema.EliteBenchmark.MTTRHours:
		score += 10
	case mttr <= schema.HighBenchmark.MTTRHours:
		score += 8
	case mttr <= schema.MediumBenchmark.MTTRHours:
		score += 6
	default:
		score += 3
	}

	return score
}

func scoreCodeQuality(quality *schema.CodeQualityMetrics) int {
	score := 0

	switch coverage := quality.ReviewCoveragePercentage; {
	case coverage >= 90:
		score += 10
	case coverage >= 70:
		score += 8
	default:
		score += 5
	}

	switch largePRs := quality.LargePRsPercentage; {
	case largePRs <= 10:
		score += 8
	case largePRs <= 25:
		score += 6
	default:
		score += 3
	}

	if quality.AvgFilesPerCommit <= 5 {
		score += 7
	} else {
		score += 4
	}

	return score
}

func scoreProductivity(prod *schema.ProductivityMetrics) int {
	score := 0

	switch balance := prod.WorkLifeBalanceScore; {
	case balance >= 80:
		score += 10
	case balance >= 60:
		score += 8
	default:
		score += 5
	}

	switch streak := prod.MaxCommitStreak; {
	case streak >= 7:
		score += 10
	case streak >= 3:
		score += 7
	default:
		score += 4
	}

	return score
}

func scoreCollaboration(collab *schema.CollaborationMetrics) int {
	score := 0

	switch reviewers := collab.UniqueReviewers; {
	case reviewers >= 5:
		score += 8
	case reviewers >= 2:
		score += 6
	default:
		score += 3
	}

	switch response := collab.AvgReviewResponseTimeHours; {
	case response <= 24:
		score += 7
	case response <= 72:
		score += 5
	default:
		score += 2
	}

	return score
}

var strengthMessages = map[string]string{
	categoryDORA:          "Excellent DORA metrics performance - industry-leading delivery capabilities",
	categoryCodeQuality:   "Outstanding code quality practices - thorough reviews and well-sized changes",
	categoryProductivity:  "Strong productivity patterns - consistent contributions with good work-life balance",
	categoryCollaboration: "Exceptional team collaboration - active engagement with multiple reviewers",
}

var improvementMessages = map[string]string{
	categoryDORA:          "Focus on DORA metrics: reduce lead times, increase deployment frequency",
	categoryCodeQuality:   "Improve code quality: increase review coverage, create smaller PRs",
	categoryProductivity:  "Enhance productivity: maintain consistent contributions, improve work-life balance",
	categoryCollaboration: "Strengthen collaboration: engage more reviewers, respond faster to reviews",
}

// gradeCategories fixes iteration order for deterministic output.
var gradeCategories = []string{
	categoryDORA,
	categoryCodeQuality,
	categoryProductivity,
	categoryCollaboration,
}

// gradeStrengths lists categories scoring at least 80% of their budget.
func gradeStrengths(scores, maxScores map[string]int) []string {
	var strengths []string
	for _, cat := range gradeCategories {
		pct := float64(scores[cat]) / float64(maxScores[cat]) * 100
		if pct >= 80 {
			strengths = append(strengths, strengthMessages[cat])
		}
	}
	if len(strengths) > 0 {
		return strengths
	}

	// No standout category: surface the relatively best one.
	best, bestRatio := "", -1.0
	for _, cat := range gradeCategories {
		ratio := float64(scores[cat]) / float64(maxScores[cat])
		if ratio > bestRatio {
			best, bestRatio = cat, ratio
		}
	}
	if best != "" {
		return []string{strengthMessages[best]}
	}
	return nil
}

// gradeImprovements lists categories scoring under 70% of their budget.
func gradeImprovements(scores, maxScores map[string]int) []string {
	var areas []string
	for _, cat := range gradeCategories {
		pct := float64(scores[cat]) / float64(maxScores[cat]) * 100
		if pct < 70 {
			areas = append(areas, improvementMessages[cat])
		}
	}
	return areas
}
