package outwriter

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devpulse/devpulse/internal/contract"
	"github.com/devpulse/devpulse/schema"
)

func sampleForecasts() []schema.Forecast {
	return []schema.Forecast{
		{
			Subject:     "acme/api",
			MetricPath:  schema.MetricLeadTimeHours,
			HorizonDays: 7,
			Kind:        schema.ModelAutoregressive,
			Trend:       schema.TrendDecreasing,
			Points: []schema.ForecastPoint{
				{Date: "2024-03-11", Value: 24.0, LowerBound: 20.5, UpperBound: 27.5},
				{Date: "2024-03-12", Value: 23.1, LowerBound: 19.4, UpperBound: 26.8},
			},
			GeneratedAt: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
		},
	}
}

func TestWriteForecastTables(t *testing.T) {
	cfg := &contract.Config{Output: schema.TextOut, UseEmojis: true}

	var buf bytes.Buffer
	err := writeForecastTables(&buf, sampleForecasts(), cfg)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "📈 Forecast: acme/api")
	assert.Contains(t, output, schema.MetricLeadTimeHours)
	assert.Contains(t, output, "Model: autoregressive, trend: decreasing, horizon: 7 days")
	assert.Contains(t, output, "2024-03-11")
	assert.Contains(t, output, "24.0")
}

func TestWriteForecastCSV(t *testing.T) {
	var buf bytes.Buffer
	err := writeForecastCSV(&buf, sampleForecasts())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3) // header + 2 points

	assert.Equal(t, "subject,metric_path,model,trend,date,value,lower_bound,upper_bound", lines[0])
	assert.Contains(t, lines[1], "acme/api")
	assert.Contains(t, lines[1], "2024-03-11,24.0,20.5,27.5")
}

func TestForecastJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	err := writeJSONOut(&buf, sampleForecasts())
	require.NoError(t, err)

	var decoded []schema.Forecast
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, schema.ModelAutoregressive, decoded[0].Kind)
	assert.Len(t, decoded[0].Points, 2)
}

func sampleLearningSummary() *schema.LearningSummary {
	return &schema.LearningSummary{
		Models: []schema.LearningStatus{
			{
				Subject:      "acme/api",
				MetricPath:   schema.MetricLeadTimeHours,
				Kind:         schema.ModelAutoregressive,
				ModelVersion: 3,
				PointsSeen:   30,
				UpdateCount:  4,
				LastOutcome:  schema.TrainedIncremental,
				AgeDays:      2.5,
				Freshness:    "fresh",
			},
			{
				Subject:      "acme/api",
				MetricPath:   schema.MetricDeploysPerWeek,
				Kind:         schema.ModelOnlineLinear,
				ModelVersion: 1,
				PointsSeen:   18,
				UpdateCount:  1,
				LastOutcome:  schema.TrainedFull,
				AgeDays:      41.0,
				Freshness:    "stale",
				Stale:        true,
			},
		},
		TotalModels:  2,
		StaleModels:  1,
		TotalUpdates: 5,
	}
}

func TestWriteLearningTable(t *testing.T) {
	cfg := &contract.Config{Output: schema.TextOut}

	var buf bytes.Buffer
	err := writeLearningTable(&buf, sampleLearningSummary(), cfg)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Continuous Learning")
	assert.Contains(t, output, "autoregressive")
	assert.Contains(t, output, "stale")
	assert.Contains(t, output, "2 models, 1 stale, 5 incremental updates")
}

func TestWriteLearningCSV(t *testing.T) {
	var buf bytes.Buffer
	err := writeLearningCSV(&buf, sampleLearningSummary())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)

	assert.Contains(t, lines[0], "model_version")
	assert.Contains(t, lines[0], "last_outcome")
	assert.Contains(t, lines[1], "incremental")
	assert.True(t, strings.HasSuffix(lines[2], "true"), "stale flag should close the row: %s", lines[2])
}
