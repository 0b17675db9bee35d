package outwriter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devpulse/devpulse/internal/contract"
	"github.com/devpulse/devpulse/schema"
)

func sampleAnomalyReports() []schema.AnomalyReport {
	return []schema.AnomalyReport{
		{
			Subject:    "acme/api",
			MetricPath: schema.MetricFailureRate,
			Anomalies: []schema.Anomaly{
				{Index: 4, Date: "2024-03-05", Value: 38.0, Expected: 8.5, Detector: schema.DetectorZScore, Severity: 4.2},
				{Index: 9, Date: "2024-03-10", Value: 21.0, Expected: 8.1, Detector: schema.DetectorMovingAvg, Severity: 2.1},
			},
			AnomalyScore: 20.0,
			TotalPoints:  10,
		},
	}
}

func TestSeverityLabel(t *testing.T) {
	assert.Equal(t, "critical", severityLabel(4.2, false))
	assert.Equal(t, "high", severityLabel(3.0, false))
	assert.Equal(t, "moderate", severityLabel(1.9, false))
}

func TestWriteAnomalyTables(t *testing.T) {
	cfg := &contract.Config{Output: schema.TextOut, UseColors: false}

	var buf bytes.Buffer
	err := writeAnomalyTables(&buf, sampleAnomalyReports(), cfg)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Anomalies: acme/api")
	assert.Contains(t, output, "2024-03-05")
	assert.Contains(t, output, "zscore")
	assert.Contains(t, output, "critical")
	assert.Contains(t, output, "moderate")
	assert.Contains(t, output, "Anomaly score: 20.0% (2 of 10 points flagged)")
}

func TestWriteAnomalyTablesInsufficient(t *testing.T) {
	cfg := &contract.Config{Output: schema.TextOut}
	reports := []schema.AnomalyReport{
		{Subject: "acme/api", MetricPath: schema.MetricFailureRate, TotalPoints: 3, Insufficient: true},
	}

	var buf bytes.Buffer
	err := writeAnomalyTables(&buf, reports, cfg)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "Not enough data points (3)")
}

func TestWriteAnomalyTablesClean(t *testing.T) {
	cfg := &contract.Config{Output: schema.TextOut}
	reports := []schema.AnomalyReport{
		{Subject: "acme/api", MetricPath: schema.MetricFailureRate, TotalPoints: 20},
	}

	var buf bytes.Buffer
	err := writeAnomalyTables(&buf, reports, cfg)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "No anomalies in 20 points.")
}

func TestWriteAnomalyCSV(t *testing.T) {
	var buf bytes.Buffer
	err := writeAnomalyCSV(&buf, sampleAnomalyReports())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)

	assert.Contains(t, lines[0], "detector")
	assert.Contains(t, lines[1], "zscore")
	assert.Contains(t, lines[2], "moving_average")
}
