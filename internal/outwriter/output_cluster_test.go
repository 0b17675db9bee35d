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

func sampleClusterResult() *schema.ClusterResult {
	return &schema.ClusterResult{
		Clusters: []schema.Cluster{
			{ID: 0, Label: "High performers", Subjects: []string{"acme/api", "acme/web"}},
			{ID: 1, Label: "Needs attention", Subjects: []string{"acme/legacy"}},
		},
		SubjectCount: 3,
		FeatureNames: schema.ClusterFeatureNames,
	}
}

func TestWriteClusterTable(t *testing.T) {
	cfg := &contract.Config{Output: schema.TextOut}

	var buf bytes.Buffer
	err := writeClusterTable(&buf, sampleClusterResult(), cfg)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Performance Clusters")
	assert.Contains(t, output, "High performers")
	assert.Contains(t, output, "acme/api, acme/web")
	assert.Contains(t, output, "Needs attention")
	assert.Contains(t, output, "3 subjects over features: lead_time_hours")
}

func TestWriteClusterTableInsufficient(t *testing.T) {
	cfg := &contract.Config{Output: schema.TextOut}
	result := &schema.ClusterResult{SubjectCount: 2, Insufficient: true}

	var buf bytes.Buffer
	err := writeClusterTable(&buf, result, cfg)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "Not enough subjects (2) for clustering")
}

func TestWriteClusterCSV(t *testing.T) {
	var buf bytes.Buffer
	err := writeClusterCSV(&buf, sampleClusterResult())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4) // header + 3 subjects

	assert.Equal(t, "cluster_id,label,subject", lines[0])
	assert.Contains(t, lines[1], "0,High performers,acme/api")
	assert.Contains(t, lines[3], "1,Needs attention,acme/legacy")
}
