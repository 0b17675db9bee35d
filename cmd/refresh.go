package cmd

import (
	"github.com/spf13/cobra"

	"github.com/devpulse/devpulse/internal/contract"
)

// refreshCmd runs the full metrics pipeline for one subject.
var refreshCmd = &cobra.Command{
	Use:   "refresh [owner/name]",
	Short: "Fetch activity and compute a fresh metrics snapshot.",
	Long: `Fetch commits and pull requests, compute DORA and quality metrics,
train forecast models on the accumulated history and persist the snapshot.

A repository subject is refreshed directly. A tracked-scope refresh pulls the
developer's activity across every tracked repository; repositories that fail
to fetch are reported as partial failures without losing the rest.

Results are served from the in-memory cache while fresh unless --force is
given, and rate-limited refreshes are queued for the background worker
instead of being dropped.

Examples:
  # Refresh one repository
  devpulse refresh octocat/hello-world

  # Bypass the cache and refetch now
  devpulse refresh octocat/hello-world --force

  # Refresh a developer across their tracked repositories
  devpulse refresh --scope tracked --developer octocat

  # Export the snapshot as JSON
  devpulse refresh octocat/hello-world --output json --output-file snapshot.json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		result := mgr.Refresh(rootCtx, cfg.RefreshTask())
		if err := writer.WriteRefresh(result, cfg); err != nil {
			contract.LogFatal("Cannot write refresh result", err)
		}
	},
}
