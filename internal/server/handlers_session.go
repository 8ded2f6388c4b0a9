package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/fittrack/internal/session"
)

// sessionState is the editor snapshot the tracker surface polls.
type sessionState struct {
	Running       bool               `json:"running"`
	Elapsed       int                `json:"elapsed"`
	Exercises     []session.Exercise `json:"exercises"`
	CompletedSets int                `json:"completedSets"`
	TotalSets     int                `json:"totalSets"`
}

func (s *Server) sessionSnapshot() sessionState {
	completed, total := s.tracker.Counts()
	exercises := s.tracker.Exercises()
	if exercises == nil {
		exercises = []session.Exercise{}
	}
	return sessionState{
		Running:       s.tracker.Running(),
		Elapsed:       s.tracker.Elapsed(),
		Exercises:     exercises,
		CompletedSets: completed,
		TotalSets:     total,
	}
}

func (s *Server) handleSessionState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.sessionSnapshot())
}

func (s *Server) handleSessionStart(w http.ResponseWriter, _ *http.Request) {
	s.tracker.Start()
	writeJSON(w, http.StatusOK, s.sessionSnapshot())
}

func (s *Server) handleSessionPause(w http.ResponseWriter, _ *http.Request) {
	s.tracker.Pause()
	writeJSON(w, http.StatusOK, s.sessionSnapshot())
}

func (s *Server) handleSessionAddExercise(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	// Blank names are a silent no-op, mirroring the form behavior.
	s.tracker.AddExercise(req.Name)
	writeJSON(w, http.StatusOK, s.sessionSnapshot())
}

func (s *Server) handleSessionRemoveExercise(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(w, r, "index")
	if !ok {
		return
	}
	s.tracker.RemoveExercise(index)
	writeJSON(w, http.StatusOK, s.sessionSnapshot())
}

func (s *Server) handleSessionAddSet(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(w, r, "index")
	if !ok {
		return
	}
	s.tracker.AddSet(index)
	writeJSON(w, http.StatusOK, s.sessionSnapshot())
}

// updateSetRequest carries raw input field values; parse failures coerce to
// 0 in the tracker. Pointers distinguish "not sent" from an empty edit.
type updateSetRequest struct {
	Reps   *string `json:"reps"`
	Weight *string `json:"weight"`
}

func (s *Server) handleSessionUpdateSet(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(w, r, "index")
	if !ok {
		return
	}
	set, ok := pathIndex(w, r, "set")
	if !ok {
		return
	}

	var req updateSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	if req.Reps != nil {
		s.tracker.SetReps(index, set, *req.Reps)
	}
	if req.Weight != nil {
		s.tracker.SetWeight(index, set, *req.Weight)
	}
	writeJSON(w, http.StatusOK, s.sessionSnapshot())
}

func (s *Server) handleSessionToggleSet(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(w, r, "index")
	if !ok {
		return
	}
	set, ok := pathIndex(w, r, "set")
	if !ok {
		return
	}
	s.tracker.ToggleSet(index, set)
	writeJSON(w, http.StatusOK, s.sessionSnapshot())
}

func (s *Server) handleSessionRemoveSet(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(w, r, "index")
	if !ok {
		return
	}
	set, ok := pathIndex(w, r, "set")
	if !ok {
		return
	}
	s.tracker.RemoveSet(index, set)
	writeJSON(w, http.StatusOK, s.sessionSnapshot())
}

func (s *Server) handleSessionFinish(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	// An empty body finishes with the default name.
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	workout, err := s.tracker.Finish(req.Name)
	if errors.Is(err, session.ErrNoExercises) {
		writeError(w, http.StatusUnprocessableEntity, "add at least one exercise to save your workout")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := s.store.SaveWorkout(r.Context(), *workout); err != nil {
		// Leave the session intact so the user can fix the backend and
		// retry the finish.
		s.log.Error("save workout failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.tracker.Reset()

	writeJSON(w, http.StatusCreated, workout)
}

func pathIndex(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || v < 0 {
		writeError(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return v, true
}
