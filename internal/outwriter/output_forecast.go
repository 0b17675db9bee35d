package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/devpulse/devpulse/internal/contract"
	"github.com/devpulse/devpulse/schema"
)

// PrintForecasts outputs metric forecasts, dispatching on the configured format.
func PrintForecasts(forecasts []schema.Forecast, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONOut(w, forecasts)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeForecastCSV(w, forecasts)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeForecastTables(w, forecasts, cfg)
		}, "Wrote table")
	}
}

func writeForecastTables(w io.Writer, forecasts []schema.Forecast, cfg *contract.Config) error {
	for _, fc := range forecasts {
		fmt.Fprintf(w, "%s\n", header(fmt.Sprintf("Forecast: %s — %s", fc.Subject, fc.MetricPath), "📈", cfg))
		fmt.Fprintf(w, "Model: %s, trend: %s, horizon: %d days\n", fc.Kind, fc.Trend, fc.HorizonDays)

		table := tablewriter.NewWriter(w)
		table.Header([]string{"Date", "Predicted", "Lower", "Upper"})
		table.Configure(func(tc *tablewriter.Config) {
			tc.Row.Alignment.Global = tw.AlignRight
		})

		var data [][]string
		for _, p := range fc.Points {
			data = append(data, []string{p.Date, fmtFloat(p.Value), fmtFloat(p.LowerBound), fmtFloat(p.UpperBound)})
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}
	return nil
}

func writeForecastCSV(w io.Writer, forecasts []schema.Forecast) error {
	header := []string{"subject", "metric_path", "model", "trend", "date", "value", "lower_bound", "upper_bound"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, fc := range forecasts {
			for _, p := range fc.Points {
				rec := []string{
					fc.Subject,
					fc.MetricPath,
					string(fc.Kind),
					string(fc.Trend),
					p.Date,
					fmtFloat(p.Value),
					fmtFloat(p.LowerBound),
					fmtFloat(p.UpperBound),
				}
				if err := cw.Write(rec); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// PrintLearningSummary outputs the model-lifecycle summary, dispatching on
// the configured format.
func PrintLearningSummary(summary *schema.LearningSummary, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONOut(w, summary)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeLearningCSV(w, summary)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeLearningTable(w, summary, cfg)
		}, "Wrote table")
	}
}

func writeLearningTable(w io.Writer, summary *schema.LearningSummary, cfg *contract.Config) error {
	fmt.Fprintf(w, "%s\n", header("Continuous Learning", "🧠", cfg))

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Subject", "Metric", "Model", "Ver", "Points", "Updates", "Age (days)", "Freshness"})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	width := getMaxSubjectWidth()
	var data [][]string
	for _, m := range summary.Models {
		data = append(data, []string{
			truncateSubject(m.Subject, width),
			m.MetricPath,
			string(m.Kind),
			strconv.Itoa(m.ModelVersion),
			strconv.Itoa(m.PointsSeen),
			strconv.Itoa(m.UpdateCount),
			fmtFloat(m.AgeDays),
			m.Freshness,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintf(w, "%d models, %d stale, %d incremental updates\n",
		summary.TotalModels, summary.StaleModels, summary.TotalUpdates)
	return nil
}

func writeLearningCSV(w io.Writer, summary *schema.LearningSummary) error {
	header := []string{"subject", "metric_path", "model", "model_version", "points_seen", "update_count", "last_outcome", "age_days", "freshness", "stale"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, m := range summary.Models {
			rec := []string{
				m.Subject,
				m.MetricPath,
				string(m.Kind),
				strconv.Itoa(m.ModelVersion),
				strconv.Itoa(m.PointsSeen),
				strconv.Itoa(m.UpdateCount),
				string(m.LastOutcome),
				fmtFloat(m.AgeDays),
				m.Freshness,
				strconv.FormatBool(m.Stale),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
