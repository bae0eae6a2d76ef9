package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lazypower/atomspace/internal/errors"
)

// Server is the atomspace HTTP API server.
type Server struct {
	spaces  *Registry
	router  chi.Router
	version string
	started time.Time
}

// New creates a new Server over the given registry and version string.
func New(spaces *Registry, version string) *Server {
	s := &Server{
		spaces:  spaces,
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

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Get("/spaces", s.handleListSpaces)
		r.Post("/spaces", s.handleCreateSpace)
		r.Route("/spaces/{spaceID}", func(r chi.Router) {
			r.Use(s.spaceCtx)

			r.Delete("/", s.handleDestroySpace)
			r.Get("/stats", s.handleStats)
			r.Post("/consolidate", s.handleConsolidate)
			r.Post("/state", s.handleStateToAtoms)
			r.Get("/state", s.handleAtomsToState)

			r.Post("/nodes", s.handleAddNode)
			r.Post("/links", s.handleAddLink)
			r.Get("/types/{type}", s.handleAtomsOfType)

			r.Route("/atoms/{handle}", func(r chi.Router) {
				r.Use(s.handleCtx)

				r.Get("/", s.handleGetAtom)
				r.Put("/truth", s.handleSetTruth)
				r.Put("/attention", s.handleSetAttention)
				r.Get("/outgoing", s.handleOutgoing)
				r.Get("/matches", s.handlePatternMatch)
				r.Get("/conclusions", s.handleForwardInfer)
			})
		})
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Seconds(),
		"spaces":  len(s.spaces.IDs()),
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

// writeStoreError maps the store's error taxonomy onto HTTP statuses.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.IsInvalidArgument(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
