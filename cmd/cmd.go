// Package cmd defines the command-line interface for devpulse.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/devpulse/devpulse/internal/contract"
	"github.com/devpulse/devpulse/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(forecastCmd)
	rootCmd.AddCommand(anomalyCmd)
	rootCmd.AddCommand(clusterCmd)
	rootCmd.AddCommand(insightsCmd)
	rootCmd.AddCommand(learningCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the store subcommands to the parent store command
	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeTrackCmd)
	storeCmd.AddCommand(storeTrackedCmd)
	storeCmd.AddCommand(storeExportCmd)
	storeCmd.AddCommand(storeClearCmd)
	storeCmd.AddCommand(storeMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("token", "", "GitHub API token (or set DEVPULSE_TOKEN)")
	rootCmd.PersistentFlags().String("base-url", "", "GitHub API base URL override for GitHub Enterprise")
	rootCmd.PersistentFlags().StringP("developer", "d", "", "Developer login for tracked scope")
	rootCmd.PersistentFlags().String("scope", string(schema.RepositoryScope), "Refresh scope: repository or tracked")
	rootCmd.PersistentFlags().Int("workers", schema.FetchWorkers, "Number of concurrent repository fetch workers")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().String("snapshot-backend", string(schema.SQLiteBackend), "Snapshot backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("snapshot-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("model-backend", string(schema.SQLiteBackend), "Model backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("model-db-connect", "", "Database connection string for model storage (must differ from snapshot-db-connect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("emoji", "yes", "Enable emojis in output headers (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of refreshCmd to Viper
	refreshCmd.Flags().String("fetch-timeout", "", "Per-repository fetch timeout (e.g., 30s, 2m)")
	refreshCmd.Flags().String("cache-max-age", "", "How long a cached snapshot stays fresh (e.g., 15m)")
	refreshCmd.Flags().Int("queue-size", contract.DefaultQueueSize, "Capacity of the deferred refresh queue")
	refreshCmd.Flags().Bool("force", false, "Refetch even when a fresh cached snapshot exists")
	if err := viper.BindPFlags(refreshCmd.Flags()); err != nil {
		contract.LogFatal("Error binding refresh flags", err)
	}

	// Bind all flags of forecastCmd to Viper
	forecastCmd.Flags().Int("horizon", contract.DefaultHorizonDays, "Forecast horizon in days")
	forecastCmd.Flags().Int("history", contract.DefaultHistoryLimit, "Number of history snapshots to use")
	if err := viper.BindPFlags(forecastCmd.Flags()); err != nil {
		contract.LogFatal("Error binding forecast flags", err)
	}

	// Bind all flags of storeMigrateCmd to Viper
	storeMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(storeMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding store migrate flags", err)
	}
}
