package calc

import (
	"sort"

	"github.com/devpulse/devpulse/internal/contract"
	"github.com/devpulse/devpulse/schema"
)

// computeDeploymentFrequency treats each merged PR as a deployment and
// averages over the weeks and days that saw at least one merge.
func computeDeploymentFrequency(prs []schema.PullRequestEvent) schema.DeploymentFrequency {
	weekly := make(map[string]int)
	daily := make(map[string]int)
	total := 0

	for i := range prs {
		pr := &prs[i]
		if !pr.Merged() {
			continue
		}
		total++
		t, ok := contract.ParseEventTime(pr.MergedAt)
		if !ok {
			continue
		}
		weekly[schema.WeekKey(t)]++
		daily[schema.DayKey(t)]++
	}

	freq := schema.DeploymentFrequency{
		TrendDirection:   schema.TrendStable,
		TotalDeployments: total,
	}
	if len(weekly) == 0 {
		return freq
	}

	weekSum := 0
	for _, n := range weekly {
		weekSum += n
	}
	daySum := 0
	for _, n := range daily {
		daySum += n
	}
	freq.PerWeek = round2(float64(weekSum) / float64(len(weekly)))
	freq.PerDay = round2(float64(daySum) / float64(len(daily)))
	freq.WeeklyTrend = weekly
	freq.DailyTrend = daily
	freq.TrendDirection = weeklyTrendDirection(weekly)

	return freq
}

// weeklyTrendDirection compares the latest trend window against the one
// before it. Fewer weeks than two full windows reads as stable.
func weeklyTrendDirection(weekly map[string]int) schema.TrendDirection {
	if len(weekly) < schema.TrendMinWeeks {
		return schema.TrendStable
	}

	weeks := make([]string, 0, len(weekly))
	for w := range weekly {
		weeks = append(weeks, w)
	}
	sort.Strings(weeks)

	recent := weeks[len(weeks)-schema.TrendWindowWeeks:]
	previous := weeks[len(weeks)-2*schema.TrendWindowWeeks : len(weeks)-schema.TrendWindowWeeks]

	recentSum, previousSum := 0, 0
	for _, w := range recent {
		recentSum += weekly[w]
	}
	for _, w := range previous {
		previousSum += weekly[w]
	}
	recentAvg := float64(recentSum) / schema.TrendWindowWeeks
	previousAvg := float64(previousSum) / schema.TrendWindowWeeks

	switch {
	case recentAvg > previousAvg*schema.TrendIncreaseThreshold:
		return schema.TrendIncreasing
	case recentAvg < previousAvg*schema.TrendDecreaseThreshold:
		return schema.TrendDecreasing
	default:
		return schema.TrendStable
	}
}
