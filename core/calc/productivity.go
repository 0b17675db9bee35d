package calc

import (
	"sort"
	"time"

	"github.com/devpulse/devpulse/internal/contract"
	"github.com/devpulse/devpulse/schema"
)

// computeProductivity analyzes work timing patterns and contribution streaks.
// Percentages are against all commits, parseable or not, so malformed records
// dilute rather than inflate the signal.
func computeProductivity(commits []schema.CommitEvent) schema.ProductivityMetrics {
	if len(commits) == 0 {
		return schema.ProductivityMetrics{}
	}

	dayCounts := make(map[int]int)
	hourCounts := make(map[int]int)
	daySet := make(map[string]struct{})
	weekendCommits := 0
	lateNightCommits := 0
	observed := 0

	for _, c := range commits {
		t, ok := contract.ParseEventTime(c.CommittedAt)
		if !ok {
			continue
		}
		observed++
		dayCounts[schema.WeekdayIndex(t)]++
		hourCounts[t.Hour()]++
		daySet[schema.DayKey(t)] = struct{}{}
		if schema.IsWeekend(t) {
			weekendCommits++
		}
		if schema.IsLateNight(t) {
			lateNightCommits++
		}
	}

	total := float64(len(commits))
	weekendPct := round2(float64(weekendCommits) / total * 100)
	lateNightPct := round2(float64(lateNightCommits) / total * 100)

	balance := 100 - weekendPct - lateNightPct
	if balance < 0 {
		balance = 0
	}

	return schema.ProductivityMetrics{
		CommitsByDay:            dayCounts,
		CommitsByHour:           hourCounts,
		WeekendWorkPercentage:   weekendPct,
		LateNightWorkPercentage: lateNightPct,
		MaxCommitStreak:         maxStreak(daySet),
		MostProductiveDay:       argmax(dayCounts),
		MostProductiveHour:      argmax(hourCounts),
		WorkLifeBalanceScore:    balance,
		CommitsObserved:         observed,
	}
}

// maxStreak returns the longest run of consecutive calendar days with
// at least one commit.
func maxStreak(daySet map[string]struct{}) int {
	if len(daySet) == 0 {
		return 0
	}
	days := make([]time.Time, 0, len(daySet))
	for d := range daySet {
		t, err := time.Parse(schema.DateLayout, d)
		if err != nil {
			continue
		}
		days = append(days, t)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	best, current := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i].Sub(days[i-1]) == 24*time.Hour {
			current++
		} else {
			current = 1
		}
		if current > best {
			best = current
		}
	}
	return best
}

// argmax returns the key with the highest count. Ties resolve to the
// smallest key so the result is deterministic.
func argmax(counts map[int]int) int {
	bestKey, bestCount := 0, -1
	keys := make([]int, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	for _, k := range keys {
		if counts[k] > bestCount {
			bestKey, bestCount = k, counts[k]
		}
	}
	return bestKey
}
