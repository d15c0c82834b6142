package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/douremember/core"
	"github.com/huangsam/douremember/internal/contract"
	"github.com/huangsam/douremember/internal/outwriter"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
	now     func() time.Time
}

// csvExport is the export_reports_csv payload.
type csvExport struct {
	FileName string `json:"file_name"`
	Rows     int    `json:"rows"`
	Content  string `json:"content"`
}

// load resolves the acting user and loads the filtered reports.
func (h *toolHandler) load(ctx context.Context, request mcp.CallToolRequest) (core.PatientReports, error) {
	userID := request.GetString("user_id", h.baseCfg.UserID)
	if userID == "" {
		return core.PatientReports{}, fmt.Errorf("user_id is required")
	}
	store := h.mgr.GetDataStore()
	if store == nil {
		return core.PatientReports{}, fmt.Errorf("store is not initialized")
	}
	kind := request.GetString("kind", h.baseCfg.KindFilter)
	return core.LoadPatientReports(ctx, store, userID, kind)
}

func toolJSON(data any) *mcp.CallToolResult {
	jsonData, _ := json.MarshalIndent(data, "", "  ")
	return mcp.NewToolResultText(string(jsonData))
}

func (h *toolHandler) handleGetReports(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reports, err := h.load(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load reports: %v", err)), nil
	}
	views := reports.Views
	if l := request.GetInt("limit", 0); l > 0 && l < len(views) {
		views = views[:l]
	}
	return toolJSON(views), nil
}

func (h *toolHandler) handleGetReportSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reports, err := h.load(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load reports: %v", err)), nil
	}
	return toolJSON(core.BuildSummary(reports.PatientID, reports.PatientName, reports.Views)), nil
}

func (h *toolHandler) handleGetTrend(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reports, err := h.load(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load reports: %v", err)), nil
	}
	return toolJSON(core.BuildTrendSeries(reports.Views)), nil
}

func (h *toolHandler) handleExportReportsCSV(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reports, err := h.load(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load reports: %v", err)), nil
	}
	if len(reports.Views) == 0 {
		return mcp.NewToolResultError("no reports to export"), nil
	}

	views := reports.Views
	if loc := h.baseCfg.Location; loc != nil {
		for i := range views {
			views[i].Date = views[i].Date.In(loc)
		}
	}
	var buf bytes.Buffer
	if err := outwriter.WriteReportsCSV(&buf, views); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("export failed: %v", err)), nil
	}
	kind := request.GetString("kind", h.baseCfg.KindFilter)
	return toolJSON(csvExport{
		FileName: outwriter.CSVFileName(reports.PatientName, kind, h.now()),
		Rows:     len(views),
		Content:  buf.String(),
	}), nil
}
