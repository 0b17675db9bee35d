// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/devpulse/devpulse/core"
	"github.com/devpulse/devpulse/core/forecast"
	"github.com/devpulse/devpulse/internal/contract"
	"github.com/devpulse/devpulse/schema"
)

// NewMCPServer initializes and configures the DevPulse MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr *core.Manager, stores contract.StoreManager, engine *forecast.Engine) *server.MCPServer {
	s := server.NewMCPServer(
		"DevPulse Metrics Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
		stores:  stores,
		engine:  engine,
	}

	// --- 1. Tool: refresh_metrics ---
	s.AddTool(mcp.NewTool("refresh_metrics",
		mcp.WithDescription("Refresh engineering metrics for a repository or a developer's tracked repositories."),
		mcp.WithString("repo", mcp.Description("Repository as owner/name (required for repository scope).")),
		mcp.WithString("developer", mcp.Description("Developer login (required for tracked scope).")),
		mcp.WithString("scope", mcp.Description("Refresh scope. Defaults to 'repository'."), mcp.Enum("repository", "tracked")),
		mcp.WithBoolean("force", mcp.Description("Bypass the snapshot cache even when fresh.")),
	), h.handleRefreshMetrics)

	// --- 2. Tool: get_forecast ---
	s.AddTool(mcp.NewTool("get_forecast",
		mcp.WithDescription("Forecast future values for a subject's key metrics from trained models."),
		mcp.WithString("subject", mcp.Description("Subject key (owner/name repository or developer login)."), mcp.Required()),
		mcp.WithString("metric", mcp.Description("Dotted metric path. Defaults to every key forecast metric."),
			mcp.Enum(schema.KeyForecastMetrics...)),
		mcp.WithNumber("horizon", mcp.Description("Forecast horizon in days.")),
	), h.handleGetForecast)

	// --- 3. Tool: detect_anomalies ---
	s.AddTool(mcp.NewTool("detect_anomalies",
		mcp.WithDescription("Detect anomalous data points in a subject's metric history."),
		mcp.WithString("subject", mcp.Description("Subject key (owner/name repository or developer login)."), mcp.Required()),
		mcp.WithString("metric", mcp.Description("Dotted metric path. Defaults to every key forecast metric."),
			mcp.Enum(schema.KeyForecastMetrics...)),
		mcp.WithNumber("history", mcp.Description("Number of history snapshots to scan.")),
	), h.handleDetectAnomalies)

	// --- 4. Tool: cluster_subjects ---
	s.AddTool(mcp.NewTool("cluster_subjects",
		mcp.WithDescription("Group all stored subjects into performance clusters by their latest snapshots."),
	), h.handleClusterSubjects)

	// --- 5. Tool: get_insights ---
	s.AddTool(mcp.NewTool("get_insights",
		mcp.WithDescription("Generate performance insights, alerts and recommendations for a subject."),
		mcp.WithString("subject", mcp.Description("Subject key (owner/name repository or developer login)."), mcp.Required()),
	), h.handleGetInsights)

	// --- 6. Tool: get_refresh_status ---
	s.AddTool(mcp.NewTool("get_refresh_status",
		mcp.WithDescription("Report the refresh orchestrator's cache, rate limit and queue state, or one subject's view of it."),
		mcp.WithString("subject", mcp.Description("Repository as owner/name. When given, reports that subject's cache and in-flight state.")),
		mcp.WithString("scope", mcp.Description("Scope of the subject. Defaults to 'repository'."), mcp.Enum("repository", "tracked")),
	), h.handleGetRefreshStatus)

	// --- 7. Tool: get_learning_summary ---
	s.AddTool(mcp.NewTool("get_learning_summary",
		mcp.WithDescription("Summarize the lifecycle of every trained forecast model."),
	), h.handleGetLearningSummary)

	// --- 8. Tool: forecast_grade ---
	s.AddTool(mcp.NewTool("forecast_grade",
		mcp.WithDescription("Project a subject's performance grade a number of weeks ahead from its stored history."),
		mcp.WithString("subject", mcp.Description("Subject key (owner/name repository or developer login)."), mcp.Required()),
		mcp.WithNumber("weeks", mcp.Description("How many weeks ahead to project. Defaults to 4.")),
	), h.handleForecastGrade)

	// --- 9. Tool: clear_cache ---
	s.AddTool(mcp.NewTool("clear_cache",
		mcp.WithDescription("Drop cached snapshots so the next refresh fetches fresh data. An empty pattern clears everything."),
		mcp.WithString("pattern", mcp.Description("Only drop cache entries whose key contains this substring.")),
	), h.handleClearCache)

	return s
}

// StartMCPServer starts the DevPulse MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr *core.Manager, stores contract.StoreManager, engine *forecast.Engine) error {
	s := NewMCPServer(baseCfg, mgr, stores, engine)
	return server.ServeStdio(s)
}
