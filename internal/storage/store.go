// Package storage persists the two top-level collections — workouts and
// goals — as JSON arrays under fixed keys in a kv.Store. There is no partial
// update: every mutation loads the full collection, transforms it in memory,
// and rewrites it whole. Fine at the hundreds-of-records scale this app
// targets.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/meltforce/fittrack/internal/kv"
	"github.com/meltforce/fittrack/internal/models"
)

// Fixed collection keys. These match the layout the mobile client used, so a
// migrated data dump loads as-is.
const (
	workoutsKey = "fittrack_workouts"
	goalsKey    = "fittrack_goals"
)

// Store provides collection-level operations over a key-value backend.
type Store struct {
	kv  kv.Store
	log *slog.Logger
}

// New creates a Store over the given backend.
func New(backend kv.Store, log *slog.Logger) *Store {
	return &Store{kv: backend, log: log}
}

// Workouts returns the workout collection, most-recent-first. A missing key
// or a corrupt payload degrades to an empty collection with a diagnostic —
// reads never fail to the caller.
func (s *Store) Workouts(ctx context.Context) []models.WorkoutSession {
	var workouts []models.WorkoutSession
	s.load(ctx, workoutsKey, &workouts)
	return workouts
}

// SaveWorkout prepends w to the workout collection and rewrites it.
func (s *Store) SaveWorkout(ctx context.Context, w models.WorkoutSession) error {
	workouts := s.Workouts(ctx)
	updated := append([]models.WorkoutSession{w}, workouts...)
	return s.save(ctx, workoutsKey, updated)
}

// DeleteWorkout removes the record(s) matching id, preserving the relative
// order of the rest. Deleting an unknown id rewrites the collection
// unchanged.
func (s *Store) DeleteWorkout(ctx context.Context, id string) error {
	workouts := s.Workouts(ctx)
	filtered := workouts[:0]
	for _, w := range workouts {
		if w.ID != id {
			filtered = append(filtered, w)
		}
	}
	return s.save(ctx, workoutsKey, filtered)
}

// Goals returns the goal collection, most-recent-first, with the same
// degrade-to-empty read semantics as Workouts.
func (s *Store) Goals(ctx context.Context) []models.Goal {
	var goals []models.Goal
	s.load(ctx, goalsKey, &goals)
	return goals
}

// AddGoal prepends g to the goal collection and rewrites it.
func (s *Store) AddGoal(ctx context.Context, g models.Goal) error {
	goals := s.Goals(ctx)
	updated := append([]models.Goal{g}, goals...)
	return s.save(ctx, goalsKey, updated)
}

// DeleteGoal removes the goal matching id.
func (s *Store) DeleteGoal(ctx context.Context, id string) error {
	goals := s.Goals(ctx)
	filtered := goals[:0]
	for _, g := range goals {
		if g.ID != id {
			filtered = append(filtered, g)
		}
	}
	return s.save(ctx, goalsKey, filtered)
}

// ReplaceGoals overwrites the goal collection wholesale.
func (s *Store) ReplaceGoals(ctx context.Context, goals []models.Goal) error {
	return s.save(ctx, goalsKey, goals)
}

// load reads and decodes the collection under key into dest, leaving dest
// untouched on absence or failure.
func (s *Store) load(ctx context.Context, key string, dest any) {
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		s.log.Warn("storage read failed, using empty collection", "key", key, "error", err)
		return
	}
	if !ok {
		return
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		s.log.Warn("corrupt collection payload, using empty collection", "key", key, "error", err)
	}
}

// save serializes value and overwrites the collection key. Unlike the mobile
// client this came from, write failures are returned to the caller so the
// surface layer can report them.
func (s *Store) save(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("serializing %s: %w", key, err)
	}
	if err := s.kv.Put(ctx, key, string(data)); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}
