package mcp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbecker/lumen/internal/domain/analytics"
	"github.com/mbecker/lumen/internal/domain/capture"
	"github.com/mbecker/lumen/internal/domain/project"
	"github.com/mbecker/lumen/internal/kvstore"
)

func testHandlers(t *testing.T) *Handlers {
	t.Helper()

	kv, err := kvstore.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	analyticsSvc := analytics.NewService(kv, logger)
	projectSvc := project.NewService(kv, analyticsSvc, logger)
	captureSvc := capture.NewService(kv, nil, analyticsSvc, nil, projectSvc, logger)

	return NewHandlers(captureSvc, projectSvc, analyticsSvc, "local")
}

// makeRequest creates a CallToolRequest with the given arguments.
func makeRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

// resultText extracts the text payload of a tool result.
func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok)
	return text.Text
}

func TestCaptureStoreAndSearch(t *testing.T) {
	h := testHandlers(t)
	ctx := context.Background()

	result, err := h.HandleCaptureStore(ctx, makeRequest(map[string]any{
		"content": "Urgent: call the supplier about the delayed shipment.",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var stored capture.Capture
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &stored))
	assert.Equal(t, "high", stored.Processed.Priority)

	result, err = h.HandleCaptureSearch(ctx, makeRequest(map[string]any{"query": "supplier"}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var found struct {
		Captures []capture.Capture `json:"captures"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &found))
	require.Len(t, found.Captures, 1)
	assert.Equal(t, stored.ID, found.Captures[0].ID)
}

func TestCaptureStoreRequiresContent(t *testing.T) {
	h := testHandlers(t)

	result, err := h.HandleCaptureStore(context.Background(), makeRequest(map[string]any{}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestProjectListTool(t *testing.T) {
	h := testHandlers(t)
	ctx := context.Background()

	_, err := h.projects.CreateProject(ctx, "local", project.CreateProjectRequest{Name: "Garden"})
	require.NoError(t, err)

	result, err := h.HandleProjectList(ctx, makeRequest(nil))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var body struct {
		Projects []project.View `json:"projects"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &body))
	require.Len(t, body.Projects, 1)
	assert.Equal(t, "Garden", body.Projects[0].Name)
}

func TestDashboardSummaryTool(t *testing.T) {
	h := testHandlers(t)
	ctx := context.Background()

	_, err := h.HandleCaptureStore(ctx, makeRequest(map[string]any{"content": "a note"}))
	require.NoError(t, err)

	result, err := h.HandleDashboardSummary(ctx, makeRequest(nil))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var summary analytics.DashboardSummary
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &summary))
	assert.Equal(t, 1, summary.TotalCaptures)
}

func TestAllToolNames(t *testing.T) {
	names := AllToolNames()
	assert.ElementsMatch(t, []string{"capture_store", "capture_search", "project_list", "dashboard_summary"}, names)
}
