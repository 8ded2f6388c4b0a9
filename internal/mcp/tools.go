package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/meltforce/fittrack/internal/models"
	"github.com/meltforce/fittrack/internal/stats"
)

// --- Tool definitions ---

var toolGetWorkouts = mcp.NewTool("get_workouts",
	mcp.WithDescription("Retrieve logged workouts, most recent first. Each workout includes its exercises, completed sets (reps and weight), duration, total volume, and estimated calories."),
	mcp.WithString("since", mcp.Description("Only include workouts on or after this date (ISO 8601 or YYYY-MM-DD). Defaults to all workouts.")),
	mcp.WithString("exercise", mcp.Description("Filter to workouts containing an exercise whose name matches (partial, case-insensitive, e.g. 'squat')")),
)

var toolGetGoals = mcp.NewTool("get_goals",
	mcp.WithDescription("List fitness goals with computed progress percentage and days remaining until their deadline."),
)

var toolGetWeeklyStats = mcp.NewTool("get_weekly_stats",
	mcp.WithDescription("Aggregate statistics for the current week (Sunday-based): workout count, total calories, total training volume."),
)

var toolGetMonthlyStats = mcp.NewTool("get_monthly_stats",
	mcp.WithDescription("Workout count for the current calendar month."),
)

var toolGetGoalProgress = mcp.NewTool("get_goal_progress",
	mcp.WithDescription("Progress details for a single goal: completion percentage (clamped to 0-100) and days remaining."),
	mcp.WithString("goal_id", mcp.Required(), mcp.Description("Goal ID")),
)

// --- Tool handlers ---

func (h *handlers) getWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workouts := h.ds.Workouts(ctx)

	if since := req.GetString("since", ""); since != "" {
		cutoff, err := parseFlexTime(since)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid since date %q", since)), nil
		}
		// Filter into a fresh slice; the source may hand out a slice it
		// retains.
		filtered := []models.WorkoutSession{}
		for _, w := range workouts {
			if !w.Date.Before(cutoff) {
				filtered = append(filtered, w)
			}
		}
		workouts = filtered
	}

	if name := req.GetString("exercise", ""); name != "" {
		needle := strings.ToLower(name)
		filtered := []models.WorkoutSession{}
		for _, w := range workouts {
			for _, ex := range w.Exercises {
				if strings.Contains(strings.ToLower(ex.Name), needle) {
					filtered = append(filtered, w)
					break
				}
			}
		}
		workouts = filtered
	}

	return jsonResult(workouts)
}

func (h *handlers) getGoals(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(goalSummaries(h.ds.Goals(ctx), time.Now()))
}

func (h *handlers) getWeeklyStats(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(stats.Weekly(h.ds.Workouts(ctx), time.Now()))
}

func (h *handlers) getMonthlyStats(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(stats.Monthly(h.ds.Workouts(ctx), time.Now()))
}

func (h *handlers) getGoalProgress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("goal_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	for _, g := range h.ds.Goals(ctx) {
		if g.ID == id {
			return jsonResult(newGoalSummary(g, time.Now()))
		}
	}
	return mcp.NewToolResultError("goal not found: " + id), nil
}

// goalSummary is a goal with its derived metrics, as served to assistants.
type goalSummary struct {
	models.Goal
	Progress      float64 `json:"progress"`
	DaysRemaining *int    `json:"daysRemaining,omitempty"`
}

func newGoalSummary(g models.Goal, now time.Time) goalSummary {
	sum := goalSummary{Goal: g, Progress: stats.GoalProgress(g)}
	if days, ok := stats.DaysRemaining(g.Deadline, now); ok {
		d := days
		sum.DaysRemaining = &d
	}
	return sum
}

func goalSummaries(goals []models.Goal, now time.Time) []goalSummary {
	out := make([]goalSummary, len(goals))
	for i, g := range goals {
		out[i] = newGoalSummary(g, now)
	}
	return out
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}
