package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
)

// Grade label constants.
const (
	EliteValue   = "Elite"   // Elite performance
	StrongValue  = "Strong"  // Strong performance
	AverageValue = "Average" // Average performance
	LaggingValue = "Lagging" // Lagging performance
)

// Color variables for console output.
var (
	EliteColor   = color.New(color.FgGreen, color.Bold) // eliteColor represents top-tier delivery.
	StrongColor  = color.New(color.FgCyan, color.Bold)  // strongColor represents healthy delivery.
	AverageColor = color.New(color.FgYellow)            // averageColor represents standard caution, not bold.
	LaggingColor = color.New(color.FgRed, color.Bold)   // laggingColor represents delivery at risk.
)

// GetPlainLabel returns a plain text label for a grade percentage.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(pct float64) string {
	switch {
	case pct >= 85:
		return EliteValue
	case pct >= 70:
		return StrongValue
	case pct >= 55:
		return AverageValue
	default:
		return LaggingValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
// It uses GetPlainLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(pct float64) string {
	text := GetPlainLabel(pct)

	switch text {
	case EliteValue:
		return EliteColor.Sprint(text)
	case StrongValue:
		return StrongColor.Sprint(text)
	case AverageValue:
		return AverageColor.Sprint(text)
	default: // "Lagging"
		return LaggingColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetSnapshotDBFilePath returns the path to the SQLite DB file for snapshots.
func GetSnapshotDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".devpulse_snapshots.db"
	}
	return filepath.Join(homeDir, ".devpulse_snapshots.db")
}

// GetModelDBFilePath returns the path to the SQLite DB file for trained models.
func GetModelDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".devpulse_models.db"
	}
	return filepath.Join(homeDir, ".devpulse_models.db")
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// eventTimeLayouts are tried in order when parsing wire timestamps.
var eventTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseEventTime parses a wire timestamp leniently. A malformed or empty
// value returns ok=false so one bad record never poisons a batch.
func ParseEventTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range eventTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
