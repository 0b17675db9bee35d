// Package outwriter renders metrics, forecasts and orchestrator state as
// text tables, JSON or CSV.
package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/devpulse/devpulse/internal/contract"
	"github.com/devpulse/devpulse/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteRefresh prints a refresh result using the configured output format.
func (ow *OutWriter) WriteRefresh(result *schema.RefreshResult, cfg *contract.Config) error {
	return PrintRefreshResult(result, cfg)
}

// WriteForecasts prints metric forecasts using the configured output format.
func (ow *OutWriter) WriteForecasts(forecasts []schema.Forecast, cfg *contract.Config) error {
	return PrintForecasts(forecasts, cfg)
}

// WriteAnomalies prints anomaly reports using the configured output format.
func (ow *OutWriter) WriteAnomalies(reports []schema.AnomalyReport, cfg *contract.Config) error {
	return PrintAnomalyReports(reports, cfg)
}

// WriteClusters prints clustering results using the configured output format.
func (ow *OutWriter) WriteClusters(result *schema.ClusterResult, cfg *contract.Config) error {
	return PrintClusterResult(result, cfg)
}

// WriteInsights prints snapshot insights using the configured output format.
func (ow *OutWriter) WriteInsights(insights *schema.InsightsReport, cfg *contract.Config) error {
	return PrintInsightsReport(insights, cfg)
}

// WriteStatus prints the orchestrator status using the configured output format.
func (ow *OutWriter) WriteStatus(status schema.RefreshStatus, cfg *contract.Config) error {
	return PrintRefreshStatus(&status, cfg)
}

// WriteLearning prints the learning summary using the configured output format.
func (ow *OutWriter) WriteLearning(summary *schema.LearningSummary, cfg *contract.Config) error {
	return PrintLearningSummary(summary, cfg)
}

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSONOut is a generic JSON encoder that handles indentation consistently.
func writeJSONOut(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	if err := writeRows(csvWriter); err != nil {
		return err
	}

	return nil
}

// gradeLabel returns the grade label, colored when the config asks for it.
func gradeLabel(pct float64, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetColorLabel(pct)
	}
	return contract.GetPlainLabel(pct)
}

// header prefixes a section title with an emoji when enabled.
func header(title, emoji string, cfg *contract.Config) string {
	if cfg.UseEmojis && emoji != "" {
		return emoji + " " + title
	}
	return title
}

// getMaxSubjectWidth calculates the width budget for subject columns based
// on the terminal width.
func getMaxSubjectWidth() int {
	termWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || termWidth <= 0 {
		// Conservative default for narrow terminals and CI
		termWidth = 80
	}

	// Reserve space for the fixed metric columns with table formatting
	available := termWidth - 55
	if available < 12 {
		return 12
	}
	if available > 40 {
		return 40
	}
	return available
}

// truncateSubject shortens a subject key for table display.
func truncateSubject(subject string, width int) string {
	if len(subject) <= width {
		return subject
	}
	if width <= 3 {
		return subject[:width]
	}
	return subject[:width-3] + "..."
}

// fmtFloat renders a float with one decimal, the table-wide convention.
func fmtFloat(v float64) string {
	return fmt.Sprintf("%.1f", v)
}
