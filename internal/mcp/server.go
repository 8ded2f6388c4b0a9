// Package mcp exposes the tracker's collections and aggregates to AI
// assistants over the Model Context Protocol.
package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("FitTrack", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("FitTrack personal fitness server. Query logged workouts, goals with progress, and weekly/monthly training statistics."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetWorkouts, Handler: h.getWorkouts},
		server.ServerTool{Tool: toolGetGoals, Handler: h.getGoals},
		server.ServerTool{Tool: toolGetWeeklyStats, Handler: h.getWeeklyStats},
		server.ServerTool{Tool: toolGetMonthlyStats, Handler: h.getMonthlyStats},
		server.ServerTool{Tool: toolGetGoalProgress, Handler: h.getGoalProgress},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resRecentWorkouts, Handler: h.recentWorkouts},
		server.ServerResource{Resource: resGoalSummary, Handler: h.goalSummary},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resRecentWorkouts = mcp.NewResource(
	"fittrack://recent_workouts",
	"Recent Workouts",
	mcp.WithResourceDescription("Workouts from the last 14 days, with exercises, sets, volume and calories"),
	mcp.WithMIMEType("application/json"),
)

var resGoalSummary = mcp.NewResource(
	"fittrack://goal_summary",
	"Goal Summary",
	mcp.WithResourceDescription("All goals with computed progress percentage and days remaining until deadline"),
	mcp.WithMIMEType("application/json"),
)
