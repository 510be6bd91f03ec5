// Package mcp exposes the capture, project, and analytics services as MCP
// tools over stdio for a local assistant. The server operates as one fixed
// user; multi-user access goes through the HTTP surface instead.
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"capture_store": {
		def:     captureStoreToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCaptureStore },
	},
	"capture_search": {
		def:     captureSearchToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCaptureSearch },
	},
	"project_list": {
		def:     projectListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleProjectList },
	},
	"dashboard_summary": {
		def:     dashboardSummaryToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDashboardSummary },
	},
}

// AllToolNames returns every registered tool name.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// NewServer creates an MCP server with all tools registered.
func NewServer(h *Handlers, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"lumen",
		version,
		server.WithToolCapabilities(true),
	)

	for _, entry := range toolRegistry {
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server over stdio.
func Run(h *Handlers, version string) error {
	return server.ServeStdio(NewServer(h, version))
}
