package calc

import (
	"sort"
	"time"

	"github.com/devpulse/devpulse/internal/contract"
	"github.com/devpulse/devpulse/schema"
)

// computeMTTR approximates recovery time by pairing each recovery-looking
// merge with the merge immediately before it. There is no causal link
// between the pair, so the result is an upper-level indicator only.
func computeMTTR(prs []schema.PullRequestEvent) schema.MTTRMetrics {
	type mergedPR struct {
		title    string
		mergedAt time.Time
	}

	merged := make([]mergedPR, 0, len(prs))
	for i := range prs {
		pr := &prs[i]
		if !pr.Merged() {
			continue
		}
		t, ok := contract.ParseEventTime(pr.MergedAt)
		if !ok {
			continue
		}
		merged = append(merged, mergedPR{title: pr.Title, mergedAt: t})
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].mergedAt.Before(merged[j].mergedAt)
	})

	var recoveries []float64
	for i := 1; i < len(merged); i++ {
		if !schema.IsRecoveryTitle(merged[i].title) {
			continue
		}
		d := merged[i].mergedAt.Sub(merged[i-1].mergedAt)
		if d > 0 {
			recoveries = append(recoveries, d.Hours())
		}
	}

	avg := mean(recoveries)
	return schema.MTTRMetrics{
		MTTRHours:         avg,
		MTTRDays:          avg / 24,
		RecoveryIncidents: len(recoveries),
		P50MTTRHours:      percentile(recoveries, 50),
		P90MTTRHours:      percentile(recoveries, 90),
	}
}
