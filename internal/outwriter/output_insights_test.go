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

func sampleInsights() *schema.InsightsReport {
	return &schema.InsightsReport{
		PerformanceInsights: []string{"Elite lead time for changes"},
		TrendInsights:       []string{"Deployment frequency is increasing"},
		Recommendations:     []string{"Split large pull requests"},
		Alerts:              []string{"Change failure rate above 15%"},
	}
}

func TestWriteInsightsText(t *testing.T) {
	cfg := &contract.Config{Output: schema.TextOut, UseEmojis: false}

	var buf bytes.Buffer
	err := writeInsightsText(&buf, sampleInsights(), cfg)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Alerts")
	assert.Contains(t, output, "  - Change failure rate above 15%")
	assert.Contains(t, output, "Recommendations")
	assert.Contains(t, output, "  - Split large pull requests")
	assert.NotContains(t, output, "Bottlenecks") // empty sections are skipped
}

func TestWriteInsightsTextAlertsFirst(t *testing.T) {
	cfg := &contract.Config{Output: schema.TextOut}

	var buf bytes.Buffer
	err := writeInsightsText(&buf, sampleInsights(), cfg)
	require.NoError(t, err)

	output := buf.String()
	assert.Less(t, strings.Index(output, "Alerts"), strings.Index(output, "Performance"))
	assert.Less(t, strings.Index(output, "Trends"), strings.Index(output, "Recommendations"))
}

func TestWriteInsightsCSV(t *testing.T) {
	var buf bytes.Buffer
	err := writeInsightsCSV(&buf, sampleInsights())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5) // header + 4 insight lines

	assert.Equal(t, "category,insight", lines[0])
	assert.Contains(t, lines[1], "Alerts")
	assert.Contains(t, buf.String(), "Recommendations,Split large pull requests")
}
