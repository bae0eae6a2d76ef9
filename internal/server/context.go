package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lazypower/atomspace/internal/atom"
	"github.com/lazypower/atomspace/internal/engine"
)

type ctxKey int

const (
	spaceKey ctxKey = iota
	spaceIDKey
	handleKey
)

// spaceCtx resolves {spaceID} to its engine or answers 404.
func (s *Server) spaceCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "spaceID")
		e, ok := s.spaces.Get(id)
		if !ok {
			writeError(w, http.StatusNotFound, "space "+id+" not found")
			return
		}
		ctx := context.WithValue(r.Context(), spaceKey, e)
		ctx = context.WithValue(ctx, spaceIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// handleCtx parses {handle}. Zero and non-numeric handles are rejected.
func (s *Server) handleCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n, err := strconv.ParseUint(chi.URLParam(r, "handle"), 10, 64)
		if err != nil || !atom.Handle(n).Valid() {
			writeError(w, http.StatusBadRequest, "invalid handle")
			return
		}
		ctx := context.WithValue(r.Context(), handleKey, atom.Handle(n))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func engineFrom(r *http.Request) *engine.Engine {
	return r.Context().Value(spaceKey).(*engine.Engine)
}

func spaceIDFrom(r *http.Request) string {
	return r.Context().Value(spaceIDKey).(string)
}

func handleFrom(r *http.Request) atom.Handle {
	return r.Context().Value(handleKey).(atom.Handle)
}

// queryInt reads an integer query parameter, falling back to def when the
// parameter is absent.
func queryInt(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}
