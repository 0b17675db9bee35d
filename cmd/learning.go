package cmd

import (
	"github.com/spf13/cobra"

	"github.com/devpulse/devpulse/internal/contract"
)

// learningCmd reports the lifecycle of every trained model.
var learningCmd = &cobra.Command{
	Use:   "learning",
	Short: "Show the lifecycle of every trained forecast model.",
	Long: `Report how every persisted forecast model is aging: when it was
trained, how many points it has seen, how many incremental updates it took
and whether it has gone stale.

Stale models are retrained from scratch on the next refresh, so this view
tells you how much training work upcoming refreshes will do.

Examples:
  # Model lifecycle table
  devpulse learning

  # Full detail as CSV
  devpulse learning --output csv --output-file models.csv`,
	Args:    cobra.NoArgs,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		summary, err := engine.LearningSummary()
		if err != nil {
			contract.LogFatal("Cannot summarize models", err)
		}

		if err := writer.WriteLearning(summary, cfg); err != nil {
			contract.LogFatal("Cannot write learning summary", err)
		}
	},
}
