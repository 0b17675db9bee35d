package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/devpulse/devpulse/core/forecast"
	"github.com/devpulse/devpulse/internal/contract"
	"github.com/devpulse/devpulse/internal/iocache"
	"github.com/devpulse/devpulse/schema"
)

// storeSetup loads minimal configuration needed for store operations.
// This is used by commands that need store access without full shared setup,
// avoiding repository validation and token handling.
func storeSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get store-related config values
	snapBackend := schema.DatabaseBackend(strings.ToLower(viper.GetString("snapshot-backend")))
	snapConnect := viper.GetString("snapshot-db-connect")
	modelBackend := schema.DatabaseBackend(strings.ToLower(viper.GetString("model-backend")))
	modelConnect := viper.GetString("model-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(snapBackend, snapConnect); err != nil {
		return err
	}
	if err := contract.ValidateDatabaseConnectionString(modelBackend, modelConnect); err != nil {
		return err
	}

	cfg.SnapshotBackend = snapBackend
	cfg.SnapshotDBConnect = snapConnect
	cfg.ModelBackend = modelBackend
	cfg.ModelDBConnect = modelConnect

	// Get output-related config values (used by export and table rendering)
	cfg.Output = schema.OutputMode(strings.ToLower(viper.GetString("output")))
	cfg.OutputFile = viper.GetString("output-file")
	cfg.HistoryLimit = contract.DefaultHistoryLimit
	if colors, err := contract.ParseBoolString(viper.GetString("color")); err == nil {
		cfg.UseColors = colors
	}
	if emojis, err := contract.ParseBoolString(viper.GetString("emoji")); err == nil {
		cfg.UseEmojis = emojis
	}

	// Initialize stores with the loaded config
	if err := iocache.InitStores(cfg); err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}
	engine = forecast.NewEngine(iocache.Manager.GetModelStore())

	return nil
}

// storeSetupWrapper wraps storeSetup to provide PreRunE for store commands.
func storeSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeSetup()
}

// storeMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize stores or create tables,
// allowing migrations to run on a fresh database.
func storeMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(strings.ToLower(viper.GetString("snapshot-backend")))
	connStr := viper.GetString("snapshot-db-connect")

	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetSnapshotDBFilePath()
	}

	cfg.SnapshotBackend = backend
	cfg.SnapshotDBConnect = connStr

	return nil
}

// storeMigrateSetupWrapper wraps storeMigrateSetup to provide PreRunE for migrate command.
func storeMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeMigrateSetup()
}

// storeCmd focused on persistence management.
//
// Note: Store subcommands use minimal initialization (storeSetup) instead of
// the full sharedSetup used by refresh commands. This avoids repository
// validation and token handling for simple persistence operations.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage snapshot history and trained model storage",
	Long: `Manage the persistence layer behind refreshes and forecasting.

DevPulse keeps two stores:
- Snapshots - one metrics record per (subject, date), plus tracked repositories
- Models    - serialized forecast models with training metadata

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show store connectivity and row counts
  track   - Track a repository for a developer
  tracked - List a developer's tracked repositories
  export  - Export data to Parquet for analytics
  clear   - Remove all trained models
  migrate - Run database schema migrations

Examples:
  # Check store health
  devpulse store status

  # Export for analysis in pandas/DuckDB
  devpulse store export --output-file devpulse-data`,
}

// storeStatusCmd shows persistence status.
var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display store connectivity and row counts",
	Long: `Show connectivity and content statistics for the snapshot and model
stores: backend type, reachability, snapshot rows and model rows.

Examples:
  # Check store health
  devpulse store status`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetSnapshotStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		if metas, err := iocache.Manager.GetModelStore().ListMeta(); err == nil {
			status.Models = len(metas)
		}
		iocache.PrintStoreStatus(status)
	},
}

// storeTrackCmd adds a repository to a developer's tracked set.
var storeTrackCmd = &cobra.Command{
	Use:   "track <developer> <owner/name>",
	Short: "Track a repository for a developer",
	Long: `Add a repository to the set refreshed for a developer in tracked scope.

Tracking is idempotent; adding the same repository twice is a no-op.

Examples:
  # Track two repositories for octocat
  devpulse store track octocat octocat/hello-world
  devpulse store track octocat octocat/spoon-knife

  # Then refresh across both
  devpulse refresh --scope tracked --developer octocat`,
	Args:    cobra.ExactArgs(2),
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		repo, err := contract.ParseRepoRef(args[1])
		if err != nil {
			contract.LogFatal("Invalid repository", err)
		}
		if err := iocache.Manager.GetSnapshotStore().TrackRepo(args[0], repo); err != nil {
			contract.LogFatal("Failed to track repository", err)
		}
		fmt.Printf("Tracking %s for %s\n", repo.FullName(), args[0])
	},
}

// storeTrackedCmd lists a developer's tracked repositories.
var storeTrackedCmd = &cobra.Command{
	Use:     "tracked <developer>",
	Short:   "List a developer's tracked repositories",
	Args:    cobra.ExactArgs(1),
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		repos, err := iocache.Manager.GetSnapshotStore().GetTrackedRepos(args[0])
		if err != nil {
			contract.LogFatal("Failed to list tracked repositories", err)
		}
		if len(repos) == 0 {
			fmt.Printf("No repositories tracked for %s\n", args[0])
			return
		}
		for _, repo := range repos {
			fmt.Println(repo.FullName())
		}
	},
}

// storeExportCmd exports store data to Parquet files.
var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export snapshot history and model metadata to Parquet",
	Long: `Export all stored data to Parquet format for use with analytics tools.

Exports two datasets:
- Snapshot history - the full metrics record per (subject, date)
- Model metadata - training lifecycle per (subject, metric)

Parquet format enables:
- Fast querying with DuckDB, Apache Spark, pandas
- Efficient storage with columnar compression
- Direct import into BI tools (Tableau, Metabase, etc.)

Requires: --output-file parameter

Examples:
  # Export all data
  devpulse store export --output-file devpulse-data

  # Use with DuckDB for analysis
  duckdb -c "SELECT * FROM read_parquet('devpulse-data.snapshots.parquet') LIMIT 10"`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteSnapshotExport(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export store data", err)
		}
	},
}

// storeClearCmd clears trained models.
var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all trained forecast models",
	Long: `Delete every persisted forecast model and its training metadata.

Snapshot history is kept, so the next refresh retrains models from scratch
on the stored history.

WARNING: This action cannot be undone.

Examples:
  # Reset the model store
  devpulse store clear`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.Manager.GetModelStore().DeleteModels(""); err != nil {
			contract.LogFatal("Failed to clear models", err)
		}
		fmt.Println("Trained models cleared successfully.")
	},
}

// storeMigrateCmd runs database migrations for the stores.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the persistence layer.

Migrations allow:
- Upgrading to new schema versions when DevPulse is updated
- Safely modifying database structure without data loss
- Rolling back schema changes if needed

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  devpulse store migrate

  # Rollback to initial state
  devpulse store migrate --target-version 0`,
	PreRunE: storeMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateStores(cfg.SnapshotBackend, cfg.SnapshotDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
