package forecast

import (
	"fmt"

	"github.com/devpulse/devpulse/schema"
)

// Insights derives actionable observations from a snapshot and, when
// history is available, from metric trends and anomalies.
func (e *Engine) Insights(snap *schema.MetricsSnapshot, history []schema.MetricsSnapshot) *schema.InsightsReport {
	report := &schema.InsightsReport{}

	grade := snap.Grade
	switch {
	case grade.Percentage >= 85:
		report.PerformanceInsights = append(report.PerformanceInsights,
			fmt.Sprintf("Excellent performance with %s grade (%.1f%%)", grade.OverallGrade, grade.Percentage))
	case grade.Percentage >= 70:
		report.PerformanceInsights = append(report.PerformanceInsights,
			fmt.Sprintf("Good performance with %s grade (%.1f%%) - room for improvement", grade.OverallGrade, grade.Percentage))
	default:
		report.PerformanceInsights = append(report.PerformanceInsights,
			fmt.Sprintf("Performance needs attention with %s grade (%.1f%%)", grade.OverallGrade, grade.Percentage))
	}

	dora := snap.DORA
	if dora.LeadTime.TotalLeadTimeHours > schema.HighBenchmark.LeadTimeHours {
		report.Alerts = append(report.Alerts, "Lead time is longer than industry average")
		report.Recommendations = append(report.Recommendations, "Consider breaking down work into smaller, reviewable chunks")
	}
	if dora.DeploymentFrequency.PerWeek < schema.MediumBenchmark.DeploysPerWeek {
		report.Alerts = append(report.Alerts, "Low deployment frequency detected")
		report.Recommendations = append(report.Recommendations, "Increase deployment cadence with smaller, more frequent releases")
	}
	if dora.ChangeFailureRate.Percentage > schema.MediumBenchmark.ChangeFailureRate {
		report.Alerts = append(report.Alerts, "High change failure rate")
		report.Recommendations = append(report.Recommendations, "Invest in automated testing and code review processes")
	}

	if snap.CodeQuality.ReviewCoveragePercentage < 70 {
		report.Recommendations = append(report.Recommendations, "Increase code review coverage for better quality")
	}
	if snap.CodeQuality.LargePRsPercentage > 25 {
		report.Recommendations = append(report.Recommendations, "Break down large PRs for easier reviews and faster merges")
	}
	if snap.Productivity.WorkLifeBalanceScore < 60 && snap.Productivity.CommitsObserved > 0 {
		report.Recommendations = append(report.Recommendations, "Consider improving work-life balance - avoid excessive weekend/late-night work")
	}

	if len(history) > 1 {
		leadSeries := buildSeries(history, schema.MetricLeadTimeHours)
		if len(leadSeries) >= 2 {
			switch slope := slopeOf(values(leadSeries)); {
			case slope > 0.1:
				report.TrendInsights = append(report.TrendInsights, "Lead time is trending upward - investigate bottlenecks")
			case slope < -0.1:
				report.TrendInsights = append(report.TrendInsights, "Lead time is improving - great progress!")
			}
		}

		anomalies := e.DetectAnomalies(snap.Subject, schema.MetricDeploysPerWeek, history)
		if anomalies.AnomalyScore > 20 {
			report.Alerts = append(report.Alerts, "Unusual patterns detected in deployment frequency")
		}
	}

	report.Bottlenecks = Bottlenecks(snap)
	return report
}

// Bottlenecks flags workflow stages that are slowing delivery down.
func Bottlenecks(snap *schema.MetricsSnapshot) []string {
	var bottlenecks []string

	lead := snap.DORA.LeadTime
	if lead.ReviewTimeHours > 24 {
		bottlenecks = append(bottlenecks, "Code review process - reviews taking longer than 24 hours")
	}
	if lead.MergeTimeHours > 12 {
		bottlenecks = append(bottlenecks, "Merge/Deployment process - long time from approval to merge")
	}
	if lead.CodeTimeHours > 48 {
		bottlenecks = append(bottlenecks, "Development process - long time from first commit to PR creation")
	}

	if snap.DORA.DeploymentFrequency.PerWeek < 1 {
		bottlenecks = append(bottlenecks, "Deployment pipeline - infrequent deployments suggest process issues")
	}
	if snap.DORA.ChangeFailureRate.Percentage > 15 {
		bottlenecks = append(bottlenecks, "Quality assurance - high failure rate indicates testing gaps")
	}

	if snap.CodeQuality.ReviewCoveragePercentage < 70 {
		bottlenecks = append(bottlenecks, "Review coverage - insufficient code review coverage")
	}
	if snap.CodeQuality.LargePRsPercentage > 25 {
		bottlenecks = append(bottlenecks, "Pull request sizing - too many large PRs slowing down reviews")
	}

	if snap.Collab.UniqueReviewers < 2 {
		bottlenecks = append(bottlenecks, "Review diversity - limited number of reviewers creates dependency")
	}
	if snap.Collab.AvgReviewResponseTimeHours > 48 {
		bottlenecks = append(bottlenecks, "Review responsiveness - slow review response times")
	}

	if snap.Productivity.WeekendWorkPercentage > 20 {
		bottlenecks = append(bottlenecks, "Work-life balance - excessive weekend work may lead to burnout")
	}

	return bottlenecks
}
