package mcp

import "github.com/mark3labs/mcp-go/mcp"

var captureStoreToolDef = mcp.NewTool("capture_store",
	mcp.WithDescription("Store a piece of free-text content. It is analyzed, tagged, and may spawn tasks and calendar events."),
	mcp.WithString("content",
		mcp.Required(),
		mcp.Description("The raw text to capture."),
	),
	mcp.WithString("type",
		mcp.Description("Capture type: email, note, task, idea, link, file, or voice. Defaults to note."),
	),
	mcp.WithString("priority",
		mcp.Description("Explicit priority override: high, medium, or low."),
	),
	mcp.WithString("source",
		mcp.Description("Where the content came from."),
	),
)

var captureSearchToolDef = mcp.NewTool("capture_search",
	mcp.WithDescription("Search stored captures by substring over the raw content and summary."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Case-insensitive substring to search for."),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results. Defaults to 20."),
	),
)

var projectListToolDef = mcp.NewTool("project_list",
	mcp.WithDescription("List all projects with derived progress and their tasks."),
)

var dashboardSummaryToolDef = mcp.NewTool("dashboard_summary",
	mcp.WithDescription("Get today's productivity dashboard: completed tasks, focus score, capture count, active projects, trends."),
)
