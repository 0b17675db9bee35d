package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devpulse/devpulse/internal/contract"
	"github.com/devpulse/devpulse/internal/iocache"
)

// insightsCmd narrates a subject's stored metrics.
var insightsCmd = &cobra.Command{
	Use:   "insights [owner/name]",
	Short: "Generate insights, alerts and recommendations for a subject.",
	Long: `Turn a subject's latest snapshot and history into plain-language
observations: performance insights, trend movements, delivery bottlenecks,
actionable recommendations and threshold alerts.

Requires at least one stored snapshot; run 'devpulse refresh' first.

Examples:
  # Insights for a repository
  devpulse insights octocat/hello-world

  # Insights for a developer, exported as JSON
  devpulse insights --scope tracked --developer octocat --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		subject := cfg.RefreshTask().Subject

		history, err := iocache.Manager.GetSnapshotStore().GetHistory(subject, cfg.HistoryLimit)
		if err != nil {
			contract.LogFatal("Cannot load snapshot history", err)
		}
		if len(history) == 0 {
			contract.LogFatal("Cannot generate insights", fmt.Errorf("no snapshots stored for %s", subject))
		}

		latest := history[len(history)-1]
		insights := engine.Insights(&latest, history)

		if err := writer.WriteInsights(insights, cfg); err != nil {
			contract.LogFatal("Cannot write insights", err)
		}
	},
}
