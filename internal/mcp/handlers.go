package mcp

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mbecker/lumen/internal/domain/analytics"
	"github.com/mbecker/lumen/internal/domain/capture"
	"github.com/mbecker/lumen/internal/domain/project"
)

// Handlers holds dependencies for MCP tool handlers. userID is fixed at
// construction; the stdio transport has no per-request identity.
type Handlers struct {
	captures  *capture.Service
	projects  *project.Service
	analytics *analytics.Service
	userID    string
}

// NewHandlers creates a Handlers instance bound to one user.
func NewHandlers(captures *capture.Service, projects *project.Service, analyticsSvc *analytics.Service, userID string) *Handlers {
	return &Handlers{captures: captures, projects: projects, analytics: analyticsSvc, userID: userID}
}

// CaptureStoreRequest represents the arguments for capture_store.
type CaptureStoreRequest struct {
	Content  string `json:"content"`
	Type     string `json:"type,omitempty"`
	Priority string `json:"priority,omitempty"`
	Source   string `json:"source,omitempty"`
}

// CaptureSearchRequest represents the arguments for capture_search.
type CaptureSearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

func (h *Handlers) HandleCaptureStore(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := decode[CaptureStoreRequest](req)
	if err != nil {
		return errorResult(err), nil
	}
	if strings.TrimSpace(args.Content) == "" {
		return errorResult(capture.ErrInvalidInput), nil
	}

	c, err := h.captures.Create(ctx, h.userID, capture.CreateRequest{
		Type:     capture.Type(args.Type),
		Content:  args.Content,
		Source:   args.Source,
		Priority: args.Priority,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(c)
}

func (h *Handlers) HandleCaptureSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := decode[CaptureSearchRequest](req)
	if err != nil {
		return errorResult(err), nil
	}
	if strings.TrimSpace(args.Query) == "" {
		return errorResult(capture.ErrInvalidInput), nil
	}
	limit := args.Limit
	if limit <= 0 {
		limit = 20
	}

	captures, err := h.captures.List(ctx, h.userID, 0)
	if err != nil {
		return errorResult(err), nil
	}

	query := strings.ToLower(args.Query)
	matches := make([]capture.Capture, 0, limit)
	for _, c := range captures {
		if len(matches) >= limit {
			break
		}
		if strings.Contains(strings.ToLower(c.RawContent), query) ||
			strings.Contains(strings.ToLower(c.Processed.Summary), query) {
			matches = append(matches, c)
		}
	}
	return successResult(map[string]any{"captures": matches})
}

func (h *Handlers) HandleProjectList(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	views, err := h.projects.ListProjects(ctx, h.userID)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{"projects": views})
}

func (h *Handlers) HandleDashboardSummary(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summary, err := h.analytics.Summary(ctx, h.userID)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(summary)
}

func errorResult(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(err.Error())
}

func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
