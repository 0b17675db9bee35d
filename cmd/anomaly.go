package cmd

import (
	"github.com/spf13/cobra"

	"github.com/devpulse/devpulse/internal/contract"
	"github.com/devpulse/devpulse/internal/iocache"
	"github.com/devpulse/devpulse/schema"
)

// anomalyCmd scans stored history for anomalous data points.
var anomalyCmd = &cobra.Command{
	Use:   "anomaly [owner/name]",
	Short: "Detect anomalies in a subject's metric history.",
	Long: `Scan the stored snapshot history for data points that stand out from
the series around them.

Three detectors run over every key metric: z-score against the series mean,
deviation from a trailing moving average, and local density. A point flagged
by several detectors is reported once under the highest-priority detector.

Examples:
  # Scan a repository's history
  devpulse anomaly octocat/hello-world

  # Scan a developer's history as JSON
  devpulse anomaly --scope tracked --developer octocat --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		subject := cfg.RefreshTask().Subject

		history, err := iocache.Manager.GetSnapshotStore().GetHistory(subject, cfg.HistoryLimit)
		if err != nil {
			contract.LogFatal("Cannot load snapshot history", err)
		}

		var reports []schema.AnomalyReport
		for _, path := range schema.KeyForecastMetrics {
			reports = append(reports, *engine.DetectAnomalies(subject, path, history))
		}

		if err := writer.WriteAnomalies(reports, cfg); err != nil {
			contract.LogFatal("Cannot write anomaly reports", err)
		}
	},
}
