package mcp_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/douremember/internal/contract"
	"github.com/huangsam/douremember/internal/datastore"
	mcp_internal "github.com/huangsam/douremember/internal/mcp"
	"github.com/huangsam/douremember/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededManager(t *testing.T) *datastore.MockStoreManager {
	t.Helper()
	ctx := context.Background()
	store, err := datastore.NewDataStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	_, err = store.InsertGroup(ctx, schema.Group{ID: "g1", DoctorID: "d1", CaregiverID: "c1", PatientID: "p1"})
	require.NoError(t, err)
	require.NoError(t, store.UpsertProfile(ctx, schema.Profile{ID: "p1", Name: "José Pérez", Role: schema.PatientRole}))

	base := time.Date(2024, 1, 2, 15, 30, 0, 0, time.UTC)
	for i, kind := range []string{schema.InitialKind, schema.GeneralKind, schema.GeneralKind} {
		var values [schema.NumCriteria]float64
		for j := range values {
			values[j] = float64(2 + i)
		}
		_, err := store.InsertReport(ctx, schema.Report{
			UserID: "p1", Kind: kind, CreatedAt: base.AddDate(0, 0, i),
			Scores: schema.ScoresFromValues(values),
		})
		require.NoError(t, err)
	}

	mgr := &datastore.MockStoreManager{}
	mgr.On("GetDataStore").Return(store)
	return mgr
}

func callTool(t *testing.T, cfg *contract.Config, mgr contract.StoreManager, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	s := mcp_internal.NewMCPServer(cfg, mgr)
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	res, err := tool.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotEmpty(t, res.Content)
	return res
}

func resultText(res *mcp.CallToolResult) string {
	return res.Content[0].(mcp.TextContent).Text
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	cfg := &contract.Config{}

	t.Run("missing user", func(t *testing.T) {
		res := callTool(t, cfg, seededManager(t), "get_reports", map[string]any{})
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, resultText(res), "user_id is required")
	})

	t.Run("store not initialized", func(t *testing.T) {
		mgr := &datastore.MockStoreManager{}
		mgr.On("GetDataStore").Return(nil)
		res := callTool(t, cfg, mgr, "get_trend", map[string]any{"user_id": "c1"})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "store is not initialized")
	})

	t.Run("export without reports", func(t *testing.T) {
		res := callTool(t, cfg, seededManager(t), "export_reports_csv", map[string]any{"user_id": "c1", "kind": "mensual"})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "no reports to export")
	})
}

func TestMCPServerHandlers_GetReports(t *testing.T) {
	mgr := seededManager(t)

	res := callTool(t, &contract.Config{UserID: "c1"}, mgr, "get_reports", map[string]any{})
	require.False(t, res.IsError, resultText(res))

	var views []schema.ReportView
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &views))
	require.Len(t, views, 3)
	assert.Equal(t, "p1", views[0].UserID)
	assert.Equal(t, "José Pérez", views[0].PatientName)
	assert.Equal(t, 4.0, views[0].GlobalScore, "newest first")

	res = callTool(t, &contract.Config{}, mgr, "get_reports", map[string]any{"user_id": "d1", "kind": "inicial", "limit": 5.0})
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &views))
	require.Len(t, views, 1)
	assert.Equal(t, schema.InitialKind, views[0].Kind)

	res = callTool(t, &contract.Config{}, mgr, "get_reports", map[string]any{"user_id": "c1", "limit": 2.0})
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &views))
	assert.Len(t, views, 2)
}

func TestMCPServerHandlers_Summary(t *testing.T) {
	res := callTool(t, &contract.Config{}, seededManager(t), "get_report_summary", map[string]any{"user_id": "c1"})
	require.False(t, res.IsError, resultText(res))

	var summary schema.ReportSummary
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &summary))
	assert.Equal(t, "p1", summary.PatientID)
	assert.Equal(t, 3, summary.TotalReports)
	assert.Equal(t, 3.0, summary.GlobalAverage)
	require.NotNil(t, summary.Benchmark)
	assert.Equal(t, schema.InitialKind, summary.Benchmark.Kind)
	require.NotNil(t, summary.Comparison)
	assert.Equal(t, 2.0, summary.Comparison.GlobalDelta)
}

func TestMCPServerHandlers_Trend(t *testing.T) {
	res := callTool(t, &contract.Config{}, seededManager(t), "get_trend", map[string]any{"user_id": "p1"})
	require.False(t, res.IsError, resultText(res))

	var points []schema.TrendPoint
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &points))
	require.Len(t, points, 3)
	assert.Equal(t, []float64{2, 3, 4}, []float64{points[0].Value, points[1].Value, points[2].Value})
}

func TestMCPServerHandlers_ExportCSV(t *testing.T) {
	cfg := &contract.Config{Location: time.FixedZone("COT", -5*3600)}
	res := callTool(t, cfg, seededManager(t), "export_reports_csv", map[string]any{"user_id": "c1", "kind": "General"})
	require.False(t, res.IsError, resultText(res))

	var payload struct {
		FileName string `json:"file_name"`
		Rows     int    `json:"rows"`
		Content  string `json:"content"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &payload))
	assert.Regexp(t, `^reportes_jose_perez_general_\d{4}-\d{2}-\d{2}\.csv$`, payload.FileName)
	assert.Equal(t, 2, payload.Rows)

	lines := strings.Split(payload.Content, "\r\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], `"Fecha","Tipo de reporte"`))
	assert.Equal(t, `"4 ene 2024, 10:30 a. m.","General","4.0","4.0","4.0","4.0","4.0","4.0","4.0","4.0"`, lines[1])
}
