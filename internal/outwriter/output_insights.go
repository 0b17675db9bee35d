package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/devpulse/devpulse/internal/contract"
	"github.com/devpulse/devpulse/schema"
)

// PrintInsightsReport outputs snapshot insights, dispatching on the configured format.
func PrintInsightsReport(insights *schema.InsightsReport, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONOut(w, insights)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeInsightsCSV(w, insights)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeInsightsText(w, insights, cfg)
		}, "Wrote insights")
	}
}

// insightSections pairs each insight category with its lines, in render order.
func insightSections(insights *schema.InsightsReport) []struct {
	Name  string
	Emoji string
	Lines []string
} {
	return []struct {
		Name  string
		Emoji string
		Lines []string
	}{
		{"Alerts", "🚨", insights.Alerts},
		{"Performance", "📊", insights.PerformanceInsights},
		{"Trends", "📈", insights.TrendInsights},
		{"Bottlenecks", "🧱", insights.Bottlenecks},
		{"Recommendations", "💡", insights.Recommendations},
	}
}

func writeInsightsText(w io.Writer, insights *schema.InsightsReport, cfg *contract.Config) error {
	for _, section := range insightSections(insights) {
		if len(section.Lines) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s\n", header(section.Name, section.Emoji, cfg))
		for _, line := range section.Lines {
			fmt.Fprintf(w, "  - %s\n", line)
		}
		fmt.Fprintln(w)
	}
	return nil
}

func writeInsightsCSV(w io.Writer, insights *schema.InsightsReport) error {
	header := []string{"category", "insight"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, section := range insightSections(insights) {
			for _, line := range section.Lines {
				if err := cw.Write([]string{section.Name, line}); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
