package mcp_test

import (
	"context"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devpulse/devpulse/core"
	"github.com/devpulse/devpulse/core/forecast"
	"github.com/devpulse/devpulse/internal/contract"
	"github.com/devpulse/devpulse/internal/githubapi"
	mcp_internal "github.com/devpulse/devpulse/internal/mcp"
	"github.com/devpulse/devpulse/schema"
)

func testServerConfig() *contract.Config {
	return &contract.Config{
		Repo:         schema.RepoRef{Owner: "acme", Name: "api"},
		Scope:        schema.RepositoryScope,
		Workers:      2,
		HistoryLimit: 30,
		HorizonDays:  7,
		CacheMaxAge:  15 * time.Minute,
		RateWindow:   time.Hour,
		RateMax:      100,
		QueueSize:    4,
		QueueWait:    50 * time.Millisecond,
	}
}

// newTestServer builds a server with no stores, so handlers that need
// persistence fail in a controlled way.
func newTestServer(cfg *contract.Config) *server.MCPServer {
	source := &githubapi.MockSourceAPI{}
	engine := forecast.NewEngine(nil)
	mgr := core.NewManager(cfg, source, nil, engine)
	return mcp_internal.NewMCPServer(cfg, mgr, nil, engine)
}

func callTool(t *testing.T, s *server.MCPServer, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	return res
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "Tool result content should be text")
	return text.Text
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	s := newTestServer(testServerConfig())

	t.Run("refresh_metrics invalid repo", func(t *testing.T) {
		res := callTool(t, s, "refresh_metrics", map[string]any{
			"repo": "not-a-repo",
		})
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, resultText(t, res), "invalid repository")
	})

	t.Run("refresh_metrics tracked without developer", func(t *testing.T) {
		res := callTool(t, s, "refresh_metrics", map[string]any{
			"scope": "tracked",
		})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "developer is required")
	})

	t.Run("get_forecast missing subject", func(t *testing.T) {
		res := callTool(t, s, "get_forecast", map[string]any{
			"subject": "",
		})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "subject is required")
	})

	t.Run("get_forecast untrained model", func(t *testing.T) {
		res := callTool(t, s, "get_forecast", map[string]any{
			"subject": "acme/api",
			"metric":  schema.MetricLeadTimeHours,
		})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "forecast failed")
	})

	t.Run("detect_anomalies without store", func(t *testing.T) {
		res := callTool(t, s, "detect_anomalies", map[string]any{
			"subject": "acme/api",
		})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "no snapshot store configured")
	})

	t.Run("cluster_subjects without store", func(t *testing.T) {
		res := callTool(t, s, "cluster_subjects", map[string]any{})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "no snapshot store configured")
	})

	t.Run("forecast_grade without store", func(t *testing.T) {
		res := callTool(t, s, "forecast_grade", map[string]any{
			"subject": "acme/api",
		})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "no snapshot store configured")
	})

	t.Run("forecast_grade missing subject", func(t *testing.T) {
		res := callTool(t, s, "forecast_grade", map[string]any{})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "subject is required")
	})
}

func TestMCPServerHandlers_StatusAndLearning(t *testing.T) {
	s := newTestServer(testServerConfig())

	t.Run("get_refresh_status reports queue", func(t *testing.T) {
		res := callTool(t, s, "get_refresh_status", map[string]any{})
		assert.False(t, res.IsError)
		text := resultText(t, res)
		assert.Contains(t, text, "\"queue\"")
		assert.Contains(t, text, "\"rate_limit\"")
	})

	t.Run("get_refresh_status for one subject", func(t *testing.T) {
		res := callTool(t, s, "get_refresh_status", map[string]any{
			"subject": "acme/api",
		})
		assert.False(t, res.IsError)
		text := resultText(t, res)
		assert.Contains(t, text, "\"key\": \"repository:acme/api\"")
		assert.Contains(t, text, "\"cached\": false")
	})

	t.Run("get_learning_summary empty engine", func(t *testing.T) {
		res := callTool(t, s, "get_learning_summary", map[string]any{})
		assert.False(t, res.IsError)
		assert.Contains(t, resultText(t, res), "\"total_models\": 0")
	})

	t.Run("clear_cache empty cache", func(t *testing.T) {
		res := callTool(t, s, "clear_cache", map[string]any{})
		assert.False(t, res.IsError)
		assert.Contains(t, resultText(t, res), "Dropped 0 cached snapshots.")
	})
}
