// Package server exposes the HTTP API: search, check-in, health.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"

	"github.com/forkfilter/forkfilter/internal/store"
	"github.com/forkfilter/forkfilter/internal/throttle"
	"github.com/forkfilter/forkfilter/pkg/search"
)

// Server provides the HTTP API.
type Server struct {
	store  store.Store
	engine *search.Engine
	gate   *throttle.Gate
	log    zerolog.Logger
	port   int
}

// New creates a new HTTP server.
func New(s store.Store, engine *search.Engine, gate *throttle.Gate, log zerolog.Logger, port int) *Server {
	if port == 0 {
		port = 8080
	}
	return &Server{
		store:  s,
		engine: engine,
		gate:   gate,
		log:    log,
		port:   port,
	}
}

// Handler builds the route tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/", s.handleIndex)
	r.Get("/health", s.handleHealth)
	r.Get("/search", s.handleSearch)

	// Check-ins are additionally rate limited per IP before the
	// per-restaurant cooldown gate sees them.
	r.Group(func(r chi.Router) {
		r.Use(httprate.LimitByIP(30, time.Minute))
		r.Post("/checkin", s.handleCheckin)
		r.Post("/checkin/{restaurant_id}", s.handleCheckin)
	})

	return r
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.log.Info().Str("addr", addr).Msg("server listening")
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "forkfilter",
		"status":  "ok",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
