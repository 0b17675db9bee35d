package cmd

import (
	"github.com/spf13/cobra"

	"github.com/devpulse/devpulse/internal/contract"
)

// statusCmd reports orchestrator state.
var statusCmd = &cobra.Command{
	Use:   "status [owner/name]",
	Short: "Show the refresh orchestrator's cache, rate limit and queue state.",
	Long: `Report the orchestrator's in-memory state: cache entries with their
freshness, rate limiter usage in the current window, deferred queue depth
and any in-flight refreshes.

Examples:
  # Human-readable status
  devpulse status octocat/hello-world

  # Status as JSON for dashboards
  devpulse status octocat/hello-world --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := writer.WriteStatus(mgr.Status(), cfg); err != nil {
			contract.LogFatal("Cannot write status", err)
		}
	},
}
