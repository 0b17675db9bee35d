package cmd

import (
	"github.com/spf13/cobra"

	"github.com/devpulse/devpulse/internal/contract"
	"github.com/devpulse/devpulse/internal/iocache"
	"github.com/devpulse/devpulse/schema"
)

// clusterCmd groups stored subjects by performance profile.
var clusterCmd = &cobra.Command{
	Use:   "cluster",
	Short: "Group all stored subjects into performance clusters.",
	Long: `Group every subject with a stored snapshot into performance clusters.

The latest snapshot per subject is reduced to a feature vector (lead time,
deploy cadence, failure rate, review coverage, streaks, reviewers) and
clustered with k-means over standardized features. Each cluster gets a label
describing the dominant profile.

At least three subjects are needed; refresh more repositories or developers
first if the data is too thin.

Examples:
  # Cluster everything in the snapshot store
  devpulse cluster

  # Machine-readable clusters
  devpulse cluster --output json`,
	Args:    cobra.NoArgs,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		latest, err := iocache.Manager.GetSnapshotStore().GetLatest()
		if err != nil {
			contract.LogFatal("Cannot load latest snapshots", err)
		}

		features := make([]schema.SubjectFeatures, 0, len(latest))
		for i := range latest {
			features = append(features, schema.FeaturesFromSnapshot(&latest[i]))
		}
		result := engine.ClusterSubjects(features)

		if err := writer.WriteClusters(result, cfg); err != nil {
			contract.LogFatal("Cannot write clusters", err)
		}
	},
}
