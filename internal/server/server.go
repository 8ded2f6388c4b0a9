package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/fittrack/internal/session"
	"github.com/meltforce/fittrack/internal/storage"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store   *storage.Store
	tracker *session.Tracker
	log     *slog.Logger
	apiKey  string
	router  chi.Router
}

// New creates a new Server with all routes configured. An empty apiKey
// disables auth on mutating endpoints.
func New(store *storage.Store, tracker *session.Tracker, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		store:   store,
		tracker: tracker,
		log:     log,
		apiKey:  apiKey,
		router:  chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Read-only endpoints (no auth — tsnet handles access)
	s.router.Get("/api/v1/workouts", s.handleListWorkouts)
	s.router.Get("/api/v1/goals", s.handleListGoals)
	s.router.Get("/api/v1/stats/weekly", s.handleWeeklyStats)
	s.router.Get("/api/v1/stats/monthly", s.handleMonthlyStats)

	// Mutating endpoints (API key required when configured)
	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))

		r.Delete("/api/v1/workouts/{id}", s.handleDeleteWorkout)
		r.Post("/api/v1/goals", s.handleCreateGoal)
		r.Delete("/api/v1/goals/{id}", s.handleDeleteGoal)

		// In-progress session editor
		r.Route("/api/v1/session", func(r chi.Router) {
			r.Get("/", s.handleSessionState)
			r.Post("/start", s.handleSessionStart)
			r.Post("/pause", s.handleSessionPause)
			r.Post("/finish", s.handleSessionFinish)
			r.Post("/exercises", s.handleSessionAddExercise)
			r.Delete("/exercises/{index}", s.handleSessionRemoveExercise)
			r.Post("/exercises/{index}/sets", s.handleSessionAddSet)
			r.Patch("/exercises/{index}/sets/{set}", s.handleSessionUpdateSet)
			r.Post("/exercises/{index}/sets/{set}/toggle", s.handleSessionToggleSet)
			r.Delete("/exercises/{index}/sets/{set}", s.handleSessionRemoveSet)
		})
	})
}

// MountMCP attaches the MCP transport handler under /mcp.
func (s *Server) MountMCP(h http.Handler) {
	s.router.Handle("/mcp", h)
	s.router.Handle("/mcp/*", h)
}
