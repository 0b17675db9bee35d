package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/devpulse/devpulse/internal/contract"
	"github.com/devpulse/devpulse/schema"
)

// PrintRefreshResult outputs a refresh result, dispatching on the configured format.
func PrintRefreshResult(result *schema.RefreshResult, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONOut(w, result)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRefreshCSV(w, result)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRefreshTable(w, result, cfg)
		}, "Wrote table")
	}
}

// metricRows flattens the headline metrics of a snapshot into table rows.
func metricRows(snap *schema.MetricsSnapshot) [][]string {
	return [][]string{
		{"Lead Time (hours)", fmtFloat(snap.DORA.LeadTime.TotalLeadTimeHours)},
		{"  Code Time (hours)", fmtFloat(snap.DORA.LeadTime.CodeTimeHours)},
		{"  Review Time (hours)", fmtFloat(snap.DORA.LeadTime.ReviewTimeHours)},
		{"  Merge Time (hours)", fmtFloat(snap.DORA.LeadTime.MergeTimeHours)},
		{"Deploys / Week", fmtFloat(snap.DORA.DeploymentFrequency.PerWeek)},
		{"Deploy Trend", string(snap.DORA.DeploymentFrequency.TrendDirection)},
		{"Change Failure Rate (%)", fmtFloat(snap.DORA.ChangeFailureRate.Percentage)},
		{"MTTR (hours)", fmtFloat(snap.DORA.MTTR.MTTRHours)},
		{"Review Coverage (%)", fmtFloat(snap.CodeQuality.ReviewCoveragePercentage)},
		{"Avg PR Size (lines)", fmtFloat(snap.CodeQuality.AvgPRSize)},
		{"Unique Reviewers", strconv.Itoa(snap.Collab.UniqueReviewers)},
		{"Max Commit Streak (days)", strconv.Itoa(snap.Productivity.MaxCommitStreak)},
		{"Work-Life Balance", fmtFloat(snap.Productivity.WorkLifeBalanceScore)},
		{"Total Commits", strconv.Itoa(snap.TotalCommits)},
		{"Total PRs", strconv.Itoa(snap.TotalPRs)},
	}
}

// writeRefreshTable generates and writes the human-readable refresh summary.
func writeRefreshTable(w io.Writer, result *schema.RefreshResult, cfg *contract.Config) error {
	fmt.Fprintf(w, "%s\n", header("Refresh: "+result.Subject, "🔄", cfg))
	fmt.Fprintf(w, "Status: %s", result.Status)
	if result.Source != "" {
		fmt.Fprintf(w, " (source: %s)", result.Source)
	}
	fmt.Fprintln(w)

	if result.Error != "" {
		fmt.Fprintf(w, "Error: %s\n", result.Error)
	}
	if result.Queued {
		fmt.Fprintln(w, "The refresh was queued for the background worker.")
	}
	for _, failure := range result.FailedRepos {
		fmt.Fprintf(w, "Partial failure: %s: %s\n", failure.Repo, failure.Error)
	}

	snap := result.Snapshot
	if snap == nil {
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Metric", "Value"})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})
	if err := table.Bulk(metricRows(snap)); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintf(w, "Grade: %s (%s) %s\n",
		snap.Grade.OverallGrade, fmtFloat(snap.Grade.Percentage)+"%", gradeLabel(snap.Grade.Percentage, cfg))

	if ri := result.RepoInsights; ri != nil {
		fmt.Fprintf(w, "Repository: %s (%s) ★%d ⑂%d, %d open issues\n",
			ri.FullName, ri.Language, ri.Stars, ri.Forks, ri.OpenIssues)
	}

	if result.Summary != "" {
		fmt.Fprintf(w, "\n%s\n", result.Summary)
	}
	fmt.Fprintf(w, "Completed in %dms\n", result.DurationMS)
	return nil
}

// writeRefreshCSV writes the snapshot's headline metrics in CSV format.
func writeRefreshCSV(w io.Writer, result *schema.RefreshResult) error {
	header := []string{"subject", "scope", "date", "metric", "value"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		snap := result.Snapshot
		if snap == nil {
			return nil
		}
		for _, row := range metricRows(snap) {
			rec := []string{snap.Subject, string(snap.Scope), snap.Date, row[0], row[1]}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
