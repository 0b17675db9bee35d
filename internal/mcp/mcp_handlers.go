package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/devpulse/devpulse/core"
	"github.com/devpulse/devpulse/core/forecast"
	"github.com/devpulse/devpulse/internal/contract"
	"github.com/devpulse/devpulse/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     *core.Manager
	stores  contract.StoreManager
	engine  *forecast.Engine
}

// metricPaths resolves the metric argument to the paths a tool should cover.
func metricPaths(request mcp.CallToolRequest) []string {
	if m := request.GetString("metric", ""); m != "" {
		return []string{m}
	}
	return schema.KeyForecastMetrics
}

// subjectHistory loads a subject's snapshot history from the store.
func (h *toolHandler) subjectHistory(subject string, limit int) ([]schema.MetricsSnapshot, error) {
	var store contract.SnapshotStore
	if h.stores != nil {
		store = h.stores.GetSnapshotStore()
	}
	if store == nil {
		return nil, fmt.Errorf("no snapshot store configured")
	}
	if limit <= 0 {
		limit = h.baseCfg.HistoryLimit
	}
	return store.GetHistory(subject, limit)
}

func (h *toolHandler) handleRefreshMetrics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.Force = request.GetBool("force", false)

	scope := request.GetString("scope", string(schema.RepositoryScope))
	cfg.Scope = schema.Scope(scope)
	if !cfg.Scope.IsValid() {
		return mcp.NewToolResultError(fmt.Sprintf("invalid scope '%s'. must be repository, tracked", scope)), nil
	}

	if cfg.Scope == schema.TrackedScope {
		if d := request.GetString("developer", ""); d != "" {
			cfg.Developer = d
		}
		if cfg.Developer == "" {
			return mcp.NewToolResultError("developer is required for tracked scope"), nil
		}
	} else {
		repoStr := request.GetString("repo", "")
		if repoStr == "" {
			repoStr = cfg.Repo.FullName()
		}
		repo, err := contract.ParseRepoRef(repoStr)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		cfg.Repo = repo
	}

	result := h.mgr.Refresh(ctx, cfg.RefreshTask())

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetForecast(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	subject := request.GetString("subject", "")
	if subject == "" {
		return mcp.NewToolResultError("subject is required"), nil
	}
	horizon := request.GetInt("horizon", h.baseCfg.HorizonDays)

	var forecasts []schema.Forecast
	for _, path := range metricPaths(request) {
		fc, err := h.engine.Forecast(subject, path, horizon)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("forecast failed for %s: %v", path, err)), nil
		}
		forecasts = append(forecasts, *fc)
	}

	jsonData, _ := json.MarshalIndent(forecasts, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleDetectAnomalies(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	subject := request.GetString("subject", "")
	if subject == "" {
		return mcp.NewToolResultError("subject is required"), nil
	}

	history, err := h.subjectHistory(subject, request.GetInt("history", 0))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("history lookup failed: %v", err)), nil
	}

	var reports []schema.AnomalyReport
	for _, path := range metricPaths(request) {
		reports = append(reports, *h.engine.DetectAnomalies(subject, path, history))
	}

	jsonData, _ := json.MarshalIndent(reports, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleClusterSubjects(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var store contract.SnapshotStore
	if h.stores != nil {
		store = h.stores.GetSnapshotStore()
	}
	if store == nil {
		return mcp.NewToolResultError("no snapshot store configured"), nil
	}

	latest, err := store.GetLatest()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("snapshot lookup failed: %v", err)), nil
	}

	features := make([]schema.SubjectFeatures, 0, len(latest))
	for i := range latest {
		features = append(features, schema.FeaturesFromSnapshot(&latest[i]))
	}
	result := h.engine.ClusterSubjects(features)

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetInsights(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	subject := request.GetString("subject", "")
	if subject == "" {
		return mcp.NewToolResultError("subject is required"), nil
	}

	history, err := h.subjectHistory(subject, 0)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("history lookup failed: %v", err)), nil
	}
	if len(history) == 0 {
		return mcp.NewToolResultError(fmt.Sprintf("no snapshots stored for %s", subject)), nil
	}

	latest := history[len(history)-1]
	insights := h.engine.Insights(&latest, history)

	jsonData, _ := json.MarshalIndent(insights, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetRefreshStatus(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if subject := request.GetString("subject", ""); subject != "" {
		task := schema.RefreshTask{
			Subject: subject,
			Scope:   schema.Scope(request.GetString("scope", string(schema.RepositoryScope))),
		}
		status := h.mgr.SubjectStatus(task)
		jsonData, _ := json.MarshalIndent(status, "", "  ")
		return mcp.NewToolResultText(string(jsonData)), nil
	}

	status := h.mgr.Status()
	jsonData, _ := json.MarshalIndent(status, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleForecastGrade(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	subject := request.GetString("subject", "")
	if subject == "" {
		return mcp.NewToolResultError("subject is required"), nil
	}
	weeks := request.GetInt("weeks", 4)

	history, err := h.subjectHistory(subject, 0)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("history lookup failed: %v", err)), nil
	}

	projection, err := h.engine.ForecastGrade(subject, history, weeks)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("grade forecast failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(projection, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleClearCache(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pattern := request.GetString("pattern", "")
	dropped := h.mgr.ClearCache(pattern)
	return mcp.NewToolResultText(fmt.Sprintf("Dropped %d cached snapshots.", dropped)), nil
}

func (h *toolHandler) handleGetLearningSummary(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summary, err := h.engine.LearningSummary()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("learning summary failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(summary, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
