// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"
	"time"

	"github.com/huangsam/douremember/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the report MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"DoURemember Reports Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
		now:     time.Now,
	}

	userArg := mcp.WithString("user_id", mcp.Description("Acting user. Caregivers and doctors see their group's patient (defaults to the configured user)."))
	kindArg := mcp.WithString("kind", mcp.Description("Report kind filter, e.g. 'Inicial' or 'General'. Empty or 'todos' keeps every kind."))

	// --- 1. Tool: get_reports ---
	s.AddTool(mcp.NewTool("get_reports",
		mcp.WithDescription("List the normalized evaluation reports of the user's patient, newest first."),
		userArg,
		kindArg,
		mcp.WithNumber("limit", mcp.Description("Limit the number of reports returned.")),
	), h.handleGetReports)

	// --- 2. Tool: get_report_summary ---
	s.AddTool(mcp.NewTool("get_report_summary",
		mcp.WithDescription("Per-criterion averages, global average and the comparison against the initial benchmark report."),
		userArg,
		kindArg,
	), h.handleGetReportSummary)

	// --- 3. Tool: get_trend ---
	s.AddTool(mcp.NewTool("get_trend",
		mcp.WithDescription("Global score series of the patient's reports, oldest first."),
		userArg,
		kindArg,
	), h.handleGetTrend)

	// --- 4. Tool: export_reports_csv ---
	s.AddTool(mcp.NewTool("export_reports_csv",
		mcp.WithDescription("Export the filtered reports as the Spanish CSV download, returning the file name and content."),
		userArg,
		kindArg,
	), h.handleExportReportsCSV)

	return s
}

// StartMCPServer starts the report MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
