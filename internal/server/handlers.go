package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/meltforce/fittrack/internal/models"
	"github.com/meltforce/fittrack/internal/stats"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	workouts := s.store.Workouts(r.Context())
	if workouts == nil {
		workouts = []models.WorkoutSession{}
	}
	writeJSON(w, http.StatusOK, workouts)
}

func (s *Server) handleDeleteWorkout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.DeleteWorkout(r.Context(), id); err != nil {
		s.log.Error("delete workout failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// goalView is a Goal enriched with the derived progress metrics the clients
// render next to it.
type goalView struct {
	models.Goal
	Progress      float64 `json:"progress"`
	DaysRemaining *int    `json:"daysRemaining,omitempty"`
}

func goalViews(goals []models.Goal, now time.Time) []goalView {
	views := make([]goalView, len(goals))
	for i, g := range goals {
		views[i] = goalView{Goal: g, Progress: stats.GoalProgress(g)}
		if days, ok := stats.DaysRemaining(g.Deadline, now); ok {
			d := days
			views[i].DaysRemaining = &d
		}
	}
	return views
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals := s.store.Goals(r.Context())
	writeJSON(w, http.StatusOK, goalViews(goals, time.Now()))
}

// createGoalRequest carries the raw form fields. Target and current arrive as
// strings so the handler can apply the same coercion rules the original form
// did.
type createGoalRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Target      string `json:"target"`
	Current     string `json:"current"`
	Unit        string `json:"unit"`
	Deadline    string `json:"deadline"`
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req createGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" || strings.TrimSpace(req.Target) == "" {
		writeError(w, http.StatusBadRequest, "title and target are required")
		return
	}

	goalType := models.GoalType(req.Type)
	if req.Type == "" {
		goalType = models.GoalWeightLoss
	} else if !goalType.Valid() {
		writeError(w, http.StatusBadRequest, "unknown goal type: "+req.Type)
		return
	}

	target, _ := strconv.ParseFloat(strings.TrimSpace(req.Target), 64)
	// Unparsable current coerces to 0 rather than rejecting.
	current, _ := strconv.ParseFloat(strings.TrimSpace(req.Current), 64)

	g := models.Goal{
		ID:          uuid.NewString(),
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Type:        goalType,
		Target:      target,
		Current:     current,
		Unit:        req.Unit,
		Deadline:    req.Deadline,
	}

	if err := s.store.AddGoal(r.Context(), g); err != nil {
		s.log.Error("create goal failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	views := goalViews([]models.Goal{g}, time.Now())
	writeJSON(w, http.StatusCreated, views[0])
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.DeleteGoal(r.Context(), id); err != nil {
		s.log.Error("delete goal failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleWeeklyStats(w http.ResponseWriter, r *http.Request) {
	workouts := s.store.Workouts(r.Context())
	writeJSON(w, http.StatusOK, stats.Weekly(workouts, time.Now()))
}

func (s *Server) handleMonthlyStats(w http.ResponseWriter, r *http.Request) {
	workouts := s.store.Workouts(r.Context())
	writeJSON(w, http.StatusOK, stats.Monthly(workouts, time.Now()))
}
