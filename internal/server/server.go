package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/lazypower/friendgrow/internal/engine"
)

// Server is the friendgrow HTTP API server.
type Server struct {
	engine  *engine.Engine
	router  chi.Router
	version string
	started time.Time
}

// New creates a new Server over eng with the given version string.
func New(eng *engine.Engine, version string) *Server {
	s := &Server{
		engine:  eng,
		version: version,
		started: time.Now(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Get("/friends", s.handleListFriends)
		r.Post("/friends", s.handleAddFriend)
		r.Get("/friends/{name}", s.handleGetFriend)
		r.Put("/friends/{name}", s.handleUpdateFriend)
		r.Delete("/friends/{name}", s.handleRemoveFriend)
		r.Post("/friends/{name}/seen", s.handleRecordSeen)

		r.Get("/upcoming", s.handleUpcoming)
		r.Get("/upcoming.ics", s.handleUpcomingCalendar)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbOK := true
	if err := s.engine.DB.Ping(); err != nil {
		dbOK = false
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Seconds(),
		"db":      dbOK,
		"db_path": s.engine.DB.Path,
		"today":   s.engine.Today().Format("2006-01-02"),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
