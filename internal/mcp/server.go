package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("trainload", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("trainload training-load server. Query body-part profiles, logged sessions, "+
			"per-category volume/intensity series and pain/fatigue trends. The exercise catalog explains exercise codes."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolListProfiles, Handler: h.listProfiles},
		server.ServerTool{Tool: toolListSessions, Handler: h.listSessions},
		server.ServerTool{Tool: toolGetVolumeSeries, Handler: h.getVolumeSeries},
		server.ServerTool{Tool: toolGetWellnessSeries, Handler: h.getWellnessSeries},
		server.ServerTool{Tool: toolGetCatalog, Handler: h.getCatalog},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resCatalog, Handler: h.catalogResource},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resCatalog = mcp.NewResource(
	"trainload://catalog",
	"Exercise Catalog",
	mcp.WithResourceDescription("Body parts, exercises with their type and targeted body parts, and the set fields each exercise type records"),
	mcp.WithMIMEType("application/json"),
)
