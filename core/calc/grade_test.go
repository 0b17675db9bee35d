package calc

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/devpulse/devpulse/schema"
)

func eliteSnapshot() *schema.MetricsSnapshot {
	snap := &schema.MetricsSnapshot{}
	snap.DORA.LeadTime.TotalLeadTimeHours = 12
	snap.DORA.DeploymentFrequency.PerWeek = 12
	snap.DORA.ChangeFailureRate.Percentage = 3
	snap.DORA.MTTR.MTTRHours = 0.5
	snap.CodeQuality.ReviewCoveragePercentage = 95
	snap.CodeQuality.LargePRsPercentage = 5
	snap.CodeQuality.AvgFilesPerCommit = 3
	snap.Productivity.WorkLifeBalanceScore = 90
	snap.Productivity.MaxCommitStreak = 10
	snap.Collab.UniqueReviewers = 6
	snap.Collab.AvgReviewResponseTimeHours = 4
	return snap
}

func TestGradeElite(t *testing.T) {
	grade := computeGrade(eliteSnapshot())
	assert.Equal(t, 100, grade.TotalScore)
	assert.Equal(t, 100, grade.MaxScore)
	assert.Equal(t, 100.0, grade.Percentage)
	assert.Equal(t, "A+", grade.OverallGrade)
	assert.Equal(t, "Elite Performance", grade.GradeDescription)
	assert.Len(t, grade.Strengths, 4)
	assert.Empty(t, grade.ImprovementAreas)
}

func TestGradeFloor(t *testing.T) {
	snap := &schema.MetricsSnapshot{}
	snap.DORA.LeadTime.TotalLeadTimeHours = 2000
	snap.DORA.DeploymentFrequency.PerWeek = 0.1
	snap.DORA.ChangeFailureRate.Percentage = 40
	snap.DORA.MTTR.MTTRHours = 500
	snap.CodeQuality.LargePRsPercentage = 50
	snap.CodeQuality.AvgFilesPerCommit = 10
	snap.Collab.AvgReviewResponseTimeHours = 100

	grade := computeGrade(snap)
	// Floor scores: DORA 12, quality 5+3+4, productivity 5+4, collab 3+2.
	assert.Equal(t, 38, grade.TotalScore)
	assert.Equal(t, "C-", grade.OverallGrade)
	assert.NotEmpty(t, grade.ImprovementAreas)
	// Even a weak profile surfaces its relatively best category.
	assert.Len(t, grade.Strengths, 1)
}

func TestGradeBenchmarkBoundaries(t *testing.T) {
	snap := eliteSnapshot()
	// Exactly at the elite lead time boundary still scores elite.
	snap.DORA.LeadTime.TotalLeadTimeHours = schema.EliteBenchmark.LeadTimeHours
	grade := computeGrade(snap)
	assert.Equal(t, doraMax, grade.CategoryScores[categoryDORA])

	// Just past it drops to the high tier.
	snap.DORA.LeadTime.TotalLeadTimeHours = schema.EliteBenchmark.LeadTimeHours + 1
	grade = computeGrade(snap)
	assert.Equal(t, doraMax-2, grade.CategoryScores[categoryDORA])
}

func TestGradeCategoryBudgets(t *testing.T) {
	grade := computeGrade(eliteSnapshot())
	assert.Equal(t, 40, grade.CategoryMax[categoryDORA])
	assert.Equal(t, 25, grade.CategoryMax[categoryCodeQuality])
	assert.Equal(t, 20, grade.CategoryMax[categoryProductivity])
	assert.Equal(t, 15, grade.CategoryMax[categoryCollaboration])
}
