package iocache

import (
	"errors"
	"fmt"

	"github.com/devpulse/devpulse/internal/parquet"
	"github.com/devpulse/devpulse/schema"
)

// ExecuteSnapshotExport exports snapshot history and model metadata to
// Parquet files alongside the given base path.
func ExecuteSnapshotExport(outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	store := Manager.GetSnapshotStore()
	if store == nil {
		return errors.New("snapshot store is not initialized")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get snapshot store status: %w", err)
	}
	if status.Snapshots == 0 {
		return errors.New("no snapshot data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total snapshots: %d\n", status.Snapshots)

	// Walk every subject's full history, not just the latest per subject
	latest, err := store.GetLatest()
	if err != nil {
		return fmt.Errorf("failed to list subjects: %w", err)
	}

	var history []schema.MetricsSnapshot
	for _, snap := range latest {
		subjectHistory, err := store.GetHistory(snap.Subject, schema.HistoryCap)
		if err != nil {
			return fmt.Errorf("failed to retrieve history for %s: %w", snap.Subject, err)
		}
		history = append(history, subjectHistory...)
	}

	snapshotRows := parquet.ConvertSnapshots(history)
	snapshotsFile := outputFile + ".snapshots.parquet"
	if err := parquet.WriteSnapshotsParquet(snapshotRows, snapshotsFile); err != nil {
		return fmt.Errorf("failed to write snapshots: %w", err)
	}
	fmt.Printf("Exported %d snapshot rows to: %s\n", len(snapshotRows), snapshotsFile)

	// Model metadata rides along when a model store is configured
	if models := Manager.GetModelStore(); models != nil {
		metas, err := models.ListMeta()
		if err != nil {
			return fmt.Errorf("failed to list model metadata: %w", err)
		}
		if len(metas) > 0 {
			metaRows := parquet.ConvertModelMetas(metas)
			modelsFile := outputFile + ".models.parquet"
			if err := parquet.WriteModelMetaParquet(metaRows, modelsFile); err != nil {
				return fmt.Errorf("failed to write model metadata: %w", err)
			}
			fmt.Printf("Exported %d model records to: %s\n", len(metaRows), modelsFile)
		}
	}

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Apache Arrow")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
