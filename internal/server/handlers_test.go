package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/meltforce/fittrack/internal/kv"
	"github.com/meltforce/fittrack/internal/models"
	"github.com/meltforce/fittrack/internal/session"
	"github.com/meltforce/fittrack/internal/stats"
	"github.com/meltforce/fittrack/internal/storage"
)

func newTestServer(t *testing.T, apiKey string) (*Server, *kv.Memory) {
	t.Helper()
	backend := kv.NewMemory()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := storage.New(backend, log)
	tracker := session.NewTracker()
	t.Cleanup(tracker.Stop)
	return New(store, tracker, apiKey, log), backend
}

func doJSON(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

// TestListWorkoutsEmpty verifies a fresh store serves an empty JSON array,
// not null.
func TestListWorkoutsEmpty(t *testing.T) {
	s, _ := newTestServer(t, "")

	rec := doJSON(t, s, http.MethodGet, "/api/v1/workouts", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("body = %q, want []", got)
	}
}

// TestCreateGoalValidation verifies blank title and blank target are
// rejected at the boundary with no record created.
func TestCreateGoalValidation(t *testing.T) {
	s, _ := newTestServer(t, "")

	tests := []struct {
		name string
		body string
	}{
		{"blank title", `{"title":"  ","target":"5"}`},
		{"blank target", `{"title":"Lose 5kg","target":""}`},
		{"unknown type", `{"title":"Lose 5kg","target":"5","type":"cardio"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, s, http.MethodPost, "/api/v1/goals", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}

	rec := doJSON(t, s, http.MethodGet, "/api/v1/goals", "")
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("goals after rejected creates = %q, want []", got)
	}
}

// TestCreateGoalCoercion verifies an unparsable current coerces to 0 and the
// response carries computed progress.
func TestCreateGoalCoercion(t *testing.T) {
	s, _ := newTestServer(t, "")

	rec := doJSON(t, s, http.MethodPost, "/api/v1/goals",
		`{"title":"Bench 100","type":"strength","target":"100","current":"abc","unit":"kg"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var created goalView
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Current != 0 {
		t.Errorf("current = %v, want 0 (coerced)", created.Current)
	}
	if created.Progress != 0 {
		t.Errorf("progress = %v, want 0", created.Progress)
	}
	if created.ID == "" {
		t.Error("id is empty, want generated")
	}
}

// TestGoalLifecycle verifies create → list (prepend order, enrichment) →
// delete.
func TestGoalLifecycle(t *testing.T) {
	s, _ := newTestServer(t, "")

	doJSON(t, s, http.MethodPost, "/api/v1/goals", `{"title":"First","target":"10","current":"5"}`)
	doJSON(t, s, http.MethodPost, "/api/v1/goals", `{"title":"Second","target":"10"}`)

	rec := doJSON(t, s, http.MethodGet, "/api/v1/goals", "")
	var goals []goalView
	if err := json.NewDecoder(rec.Body).Decode(&goals); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(goals) != 2 {
		t.Fatalf("len(goals) = %d, want 2", len(goals))
	}
	if goals[0].Title != "Second" || goals[1].Title != "First" {
		t.Errorf("order = [%s %s], want newest first", goals[0].Title, goals[1].Title)
	}
	if goals[1].Progress != 50 {
		t.Errorf("First progress = %v, want 50", goals[1].Progress)
	}

	rec = doJSON(t, s, http.MethodDelete, "/api/v1/goals/"+goals[0].ID, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", rec.Code)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/goals", "")
	goals = nil
	if err := json.NewDecoder(rec.Body).Decode(&goals); err != nil {
		t.Fatal(err)
	}
	if len(goals) != 1 || goals[0].Title != "First" {
		t.Errorf("goals after delete = %+v, want [First]", goals)
	}
}

// TestSessionFinishFlow drives the editor through the REST surface: add
// exercise, add set, fill in reps/weights, complete both, finish, and verify
// the persisted record.
func TestSessionFinishFlow(t *testing.T) {
	s, _ := newTestServer(t, "")

	doJSON(t, s, http.MethodPost, "/api/v1/session/start", "")
	doJSON(t, s, http.MethodPost, "/api/v1/session/exercises", `{"name":"Squat"}`)
	doJSON(t, s, http.MethodPost, "/api/v1/session/exercises/0/sets", "")

	doJSON(t, s, http.MethodPatch, "/api/v1/session/exercises/0/sets/0", `{"reps":"10","weight":"60"}`)
	doJSON(t, s, http.MethodPost, "/api/v1/session/exercises/0/sets/0/toggle", "")
	doJSON(t, s, http.MethodPatch, "/api/v1/session/exercises/0/sets/1", `{"reps":"8","weight":"65"}`)
	doJSON(t, s, http.MethodPost, "/api/v1/session/exercises/0/sets/1/toggle", "")

	rec := doJSON(t, s, http.MethodGet, "/api/v1/session", "")
	var state sessionState
	if err := json.NewDecoder(rec.Body).Decode(&state); err != nil {
		t.Fatal(err)
	}
	if state.CompletedSets != 2 || state.TotalSets != 2 {
		t.Fatalf("sets = %d/%d, want 2/2", state.CompletedSets, state.TotalSets)
	}
	if !state.Running {
		t.Error("session not running after start")
	}

	rec = doJSON(t, s, http.MethodPost, "/api/v1/session/finish", `{"name":"Leg Day"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("finish status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var saved models.WorkoutSession
	if err := json.NewDecoder(rec.Body).Decode(&saved); err != nil {
		t.Fatal(err)
	}
	if saved.TotalVolume != 1120 {
		t.Errorf("totalVolume = %v, want 1120", saved.TotalVolume)
	}
	if saved.Calories != 10 {
		t.Errorf("calories = %d, want 10", saved.Calories)
	}

	// The record is now the head of the workout collection.
	rec = doJSON(t, s, http.MethodGet, "/api/v1/workouts", "")
	var workouts []models.WorkoutSession
	if err := json.NewDecoder(rec.Body).Decode(&workouts); err != nil {
		t.Fatal(err)
	}
	if len(workouts) != 1 || workouts[0].Name != "Leg Day" {
		t.Errorf("workouts = %+v, want the saved Leg Day", workouts)
	}
}

// TestSessionFinishEmpty verifies finishing with zero exercises is rejected
// and nothing is persisted.
func TestSessionFinishEmpty(t *testing.T) {
	s, _ := newTestServer(t, "")

	rec := doJSON(t, s, http.MethodPost, "/api/v1/session/finish", `{"name":"Nothing"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/workouts", "")
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("workouts = %q, want [] after rejected finish", got)
	}
}

// TestSessionFinishFailureKeepsSession verifies a failed save returns 500
// and leaves the in-progress session intact, so the finish can be retried
// once the backend recovers.
func TestSessionFinishFailureKeepsSession(t *testing.T) {
	s, backend := newTestServer(t, "")

	doJSON(t, s, http.MethodPost, "/api/v1/session/exercises", `{"name":"Squat"}`)
	doJSON(t, s, http.MethodPost, "/api/v1/session/exercises/0/sets/0/toggle", "")

	backend.FailPuts = io.ErrClosedPipe
	rec := doJSON(t, s, http.MethodPost, "/api/v1/session/finish", `{"name":"Leg Day"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("finish status = %d, want 500", rec.Code)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/session", "")
	var state sessionState
	if err := json.NewDecoder(rec.Body).Decode(&state); err != nil {
		t.Fatal(err)
	}
	if len(state.Exercises) != 1 || state.CompletedSets != 1 {
		t.Fatalf("session after failed finish = %+v, want intact", state)
	}

	backend.FailPuts = nil
	rec = doJSON(t, s, http.MethodPost, "/api/v1/session/finish", `{"name":"Leg Day"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("retried finish status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/session", "")
	state = sessionState{}
	if err := json.NewDecoder(rec.Body).Decode(&state); err != nil {
		t.Fatal(err)
	}
	if len(state.Exercises) != 0 {
		t.Errorf("session after successful finish = %+v, want reset", state)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/workouts", "")
	var workouts []models.WorkoutSession
	if err := json.NewDecoder(rec.Body).Decode(&workouts); err != nil {
		t.Fatal(err)
	}
	if len(workouts) != 1 || workouts[0].Name != "Leg Day" {
		t.Errorf("workouts = %+v, want the single retried record", workouts)
	}
}

// TestDeleteWorkoutEndpoint verifies deletion by id and the unknown-id
// no-op.
func TestDeleteWorkoutEndpoint(t *testing.T) {
	s, _ := newTestServer(t, "")

	doJSON(t, s, http.MethodPost, "/api/v1/session/exercises", `{"name":"Squat"}`)
	doJSON(t, s, http.MethodPost, "/api/v1/session/exercises/0/sets/0/toggle", "")
	doJSON(t, s, http.MethodPost, "/api/v1/session/finish", "")

	rec := doJSON(t, s, http.MethodGet, "/api/v1/workouts", "")
	var workouts []models.WorkoutSession
	if err := json.NewDecoder(rec.Body).Decode(&workouts); err != nil {
		t.Fatal(err)
	}
	if len(workouts) != 1 {
		t.Fatalf("len(workouts) = %d, want 1", len(workouts))
	}

	if rec := doJSON(t, s, http.MethodDelete, "/api/v1/workouts/unknown", ""); rec.Code != http.StatusNoContent {
		t.Errorf("delete unknown id status = %d, want 204", rec.Code)
	}

	if rec := doJSON(t, s, http.MethodDelete, "/api/v1/workouts/"+workouts[0].ID, ""); rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", rec.Code)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/workouts", "")
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("workouts after delete = %q, want []", got)
	}
}

// TestWeeklyStatsEndpoint verifies the aggregation endpoint over a freshly
// finished workout (dated now, so always inside the current week).
func TestWeeklyStatsEndpoint(t *testing.T) {
	s, _ := newTestServer(t, "")

	doJSON(t, s, http.MethodPost, "/api/v1/session/exercises", `{"name":"Squat"}`)
	doJSON(t, s, http.MethodPatch, "/api/v1/session/exercises/0/sets/0", `{"reps":"10","weight":"60"}`)
	doJSON(t, s, http.MethodPost, "/api/v1/session/exercises/0/sets/0/toggle", "")
	doJSON(t, s, http.MethodPost, "/api/v1/session/finish", "")

	rec := doJSON(t, s, http.MethodGet, "/api/v1/stats/weekly", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var sum stats.WeeklySummary
	if err := json.NewDecoder(rec.Body).Decode(&sum); err != nil {
		t.Fatal(err)
	}
	if sum.WorkoutsCount != 1 || sum.TotalCalories != 5 || sum.TotalVolume != 600 {
		t.Errorf("weekly = %+v, want count=1 calories=5 volume=600", sum)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/stats/monthly", "")
	var monthly stats.MonthlySummary
	if err := json.NewDecoder(rec.Body).Decode(&monthly); err != nil {
		t.Fatal(err)
	}
	if monthly.WorkoutsCount != 1 {
		t.Errorf("monthly count = %d, want 1", monthly.WorkoutsCount)
	}
}

// TestWriteFailureSurfaced verifies a failing backend turns into a 500 on
// mutation instead of a silent success.
func TestWriteFailureSurfaced(t *testing.T) {
	s, backend := newTestServer(t, "")
	backend.FailPuts = io.ErrClosedPipe

	rec := doJSON(t, s, http.MethodPost, "/api/v1/goals", `{"title":"Lose 5kg","target":"5"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

// TestAPIKeyAuth verifies mutating endpoints demand the configured key while
// reads stay open.
func TestAPIKeyAuth(t *testing.T) {
	s, _ := newTestServer(t, "secret-key")

	if rec := doJSON(t, s, http.MethodGet, "/api/v1/workouts", ""); rec.Code != http.StatusOK {
		t.Errorf("read status = %d, want 200 without key", rec.Code)
	}

	rec := doJSON(t, s, http.MethodPost, "/api/v1/goals", `{"title":"Lose 5kg","target":"5"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status without key = %d, want 401", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/goals", strings.NewReader(`{"title":"Lose 5kg","target":"5"}`))
	req.Header.Set("X-API-Key", "wrong")
	rec2 := httptest.NewRecorder()
	s.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusForbidden {
		t.Errorf("status with wrong key = %d, want 403", rec2.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/goals", strings.NewReader(`{"title":"Lose 5kg","target":"5"}`))
	req.Header.Set("X-API-Key", "secret-key")
	rec3 := httptest.NewRecorder()
	s.ServeHTTP(rec3, req)
	if rec3.Code != http.StatusCreated {
		t.Errorf("status with key = %d, want 201", rec3.Code)
	}
}
