package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/devpulse/devpulse/internal/contract"
	"github.com/devpulse/devpulse/schema"
)

// PrintClusterResult outputs clustering results, dispatching on the configured format.
func PrintClusterResult(result *schema.ClusterResult, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONOut(w, result)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeClusterCSV(w, result)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeClusterTable(w, result, cfg)
		}, "Wrote table")
	}
}

func writeClusterTable(w io.Writer, result *schema.ClusterResult, cfg *contract.Config) error {
	fmt.Fprintf(w, "%s\n", header("Performance Clusters", "👥", cfg))
	if result.Insufficient {
		fmt.Fprintf(w, "Not enough subjects (%d) for clustering; at least %d are required.\n",
			result.SubjectCount, schema.ClusterMinSubjects)
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Cluster", "Label", "Members", "Subjects"})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignLeft
	})

	var data [][]string
	for _, cluster := range result.Clusters {
		data = append(data, []string{
			strconv.Itoa(cluster.ID),
			cluster.Label,
			strconv.Itoa(len(cluster.Subjects)),
			strings.Join(cluster.Subjects, ", "),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintf(w, "%d subjects over features: %s\n",
		result.SubjectCount, strings.Join(result.FeatureNames, ", "))
	return nil
}

func writeClusterCSV(w io.Writer, result *schema.ClusterResult) error {
	header := []string{"cluster_id", "label", "subject"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, cluster := range result.Clusters {
			for _, subject := range cluster.Subjects {
				if err := cw.Write([]string{strconv.Itoa(cluster.ID), cluster.Label, subject}); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
