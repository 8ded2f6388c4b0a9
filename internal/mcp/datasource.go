package mcp

import (
	"context"

	"github.com/meltforce/fittrack/internal/models"
	"github.com/meltforce/fittrack/internal/storage"
)

// DataSource abstracts the data layer for MCP tools, so tests can serve
// canned collections without a kv backend.
type DataSource interface {
	Workouts(ctx context.Context) []models.WorkoutSession
	Goals(ctx context.Context) []models.Goal
}

// Compile-time check: *storage.Store satisfies DataSource.
var _ DataSource = (*storage.Store)(nil)
