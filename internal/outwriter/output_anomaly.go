package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/devpulse/devpulse/internal/contract"
	"github.com/devpulse/devpulse/schema"
)

// severityLabel grades an anomaly severity for table display.
func severityLabel(severity float64, useColors bool) string {
	var text string
	switch {
	case severity >= 4:
		text = "critical"
	case severity >= 3:
		text = "high"
	default:
		text = "moderate"
	}
	if !useColors {
		return text
	}
	switch text {
	case "critical":
		return color.New(color.FgRed, color.Bold).Sprint(text)
	case "high":
		return color.New(color.FgYellow, color.Bold).Sprint(text)
	default:
		return color.New(color.FgCyan).Sprint(text)
	}
}

// PrintAnomalyReports outputs anomaly reports, dispatching on the configured format.
func PrintAnomalyReports(reports []schema.AnomalyReport, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONOut(w, reports)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAnomalyCSV(w, reports)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAnomalyTables(w, reports, cfg)
		}, "Wrote table")
	}
}

func writeAnomalyTables(w io.Writer, reports []schema.AnomalyReport, cfg *contract.Config) error {
	for _, report := range reports {
		fmt.Fprintf(w, "%s\n", header(fmt.Sprintf("Anomalies: %s — %s", report.Subject, report.MetricPath), "🚨", cfg))
		if report.Insufficient {
			fmt.Fprintf(w, "Not enough data points (%d) for anomaly detection.\n\n", report.TotalPoints)
			continue
		}
		if len(report.Anomalies) == 0 {
			fmt.Fprintf(w, "No anomalies in %d points.\n\n", report.TotalPoints)
			continue
		}

		table := tablewriter.NewWriter(w)
		table.Header([]string{"Date", "Value", "Expected", "Detector", "Severity"})
		table.Configure(func(tc *tablewriter.Config) {
			tc.Row.Alignment.Global = tw.AlignRight
		})

		var data [][]string
		for _, a := range report.Anomalies {
			data = append(data, []string{
				a.Date,
				fmtFloat(a.Value),
				fmtFloat(a.Expected),
				string(a.Detector),
				severityLabel(a.Severity, cfg.UseColors),
			})
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
		fmt.Fprintf(w, "Anomaly score: %s%% (%d of %d points flagged)\n\n",
			fmtFloat(report.AnomalyScore), len(report.Anomalies), report.TotalPoints)
	}
	return nil
}

func writeAnomalyCSV(w io.Writer, reports []schema.AnomalyReport) error {
	header := []string{"subject", "metric_path", "index", "date", "value", "expected", "detector", "severity", "anomaly_score"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, report := range reports {
			for _, a := range report.Anomalies {
				rec := []string{
					report.Subject,
					report.MetricPath,
					strconv.Itoa(a.Index),
					a.Date,
					fmtFloat(a.Value),
					fmtFloat(a.Expected),
					string(a.Detector),
					fmtFloat(a.Severity),
					fmtFloat(report.AnomalyScore),
				}
				if err := cw.Write(rec); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
