package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lazypower/atomspace/internal/atom"
	"github.com/lazypower/atomspace/internal/engine"
)

const (
	defaultResultLimit = 10
	maxStateLen        = 1 << 16
)

// atomJSON is the wire form of an atom.
type atomJSON struct {
	Handle    atom.Handle         `json:"handle"`
	Type      atom.Type           `json:"type"`
	Name      string              `json:"name,omitempty"`
	Outgoing  []atom.Handle       `json:"outgoing,omitempty"`
	Truth     atom.TruthValue     `json:"truth"`
	Attention atom.AttentionValue `json:"attention"`
}

func toJSON(a atom.Atom) atomJSON {
	name, _ := atom.Name(a)
	return atomJSON{
		Handle:    a.Handle(),
		Type:      a.Type(),
		Name:      name,
		Outgoing:  atom.Outgoing(a),
		Truth:     a.TruthValue(),
		Attention: a.AttentionValue(),
	}
}

// writeMissing answers for a handle that is not live: 410 with the survivor
// if it was merged away, 404 otherwise.
func writeMissing(w http.ResponseWriter, e *engine.Engine, h atom.Handle) {
	if to, ok := e.Space.Forwarded(h); ok {
		writeJSON(w, http.StatusGone, map[string]any{
			"error":       "atom merged",
			"merged_into": to,
		})
		return
	}
	writeError(w, http.StatusNotFound, "atom not found")
}

func (s *Server) handleListSpaces(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"spaces": s.spaces.IDs()})
}

func (s *Server) handleCreateSpace(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusCreated, map[string]string{"space_id": s.spaces.Create()})
}

func (s *Server) handleDestroySpace(w http.ResponseWriter, r *http.Request) {
	if !s.spaces.Destroy(spaceIDFrom(r)) {
		writeError(w, http.StatusNotFound, "space not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, engineFrom(r).Space.Stats())
}

func (s *Server) handleAddNode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type atom.Type `json:"type"`
		Name string    `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}

	h, err := engineFrom(r).Space.AddNode(req.Type, req.Name)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]atom.Handle{"handle": h})
}

func (s *Server) handleAddLink(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type     atom.Type     `json:"type"`
		Outgoing []atom.Handle `json:"outgoing"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}

	h, err := engineFrom(r).Space.AddLink(req.Type, req.Outgoing)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]atom.Handle{"handle": h})
}

func (s *Server) handleAtomsOfType(w http.ResponseWriter, r *http.Request) {
	t, err := atom.ParseType(chi.URLParam(r, "type"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	atoms := engineFrom(r).Space.AtomsOfType(t)
	out := make([]atomJSON, len(atoms))
	for i, a := range atoms {
		out[i] = toJSON(a)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"type":  t,
		"count": len(out),
		"atoms": out,
	})
}

func (s *Server) handleGetAtom(w http.ResponseWriter, r *http.Request) {
	e, h := engineFrom(r), handleFrom(r)
	a, ok := e.Space.GetAtom(h)
	if !ok {
		writeMissing(w, e, h)
		return
	}
	writeJSON(w, http.StatusOK, toJSON(a))
}

func (s *Server) handleSetTruth(w http.ResponseWriter, r *http.Request) {
	var tv atom.TruthValue
	if err := json.NewDecoder(r.Body).Decode(&tv); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}

	e, h := engineFrom(r), handleFrom(r)
	if err := e.Space.SetTruthValue(h, tv); err != nil {
		writeMissing(w, e, h)
		return
	}
	stored, _ := e.Space.TruthValue(h)
	writeJSON(w, http.StatusOK, stored)
}

func (s *Server) handleSetAttention(w http.ResponseWriter, r *http.Request) {
	var av atom.AttentionValue
	if err := json.NewDecoder(r.Body).Decode(&av); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}

	e, h := engineFrom(r), handleFrom(r)
	if err := e.Space.SetAttentionValue(h, av); err != nil {
		writeMissing(w, e, h)
		return
	}
	writeJSON(w, http.StatusOK, av)
}

func (s *Server) handleOutgoing(w http.ResponseWriter, r *http.Request) {
	e, h := engineFrom(r), handleFrom(r)
	a, ok := e.Space.GetAtom(h)
	if !ok {
		writeMissing(w, e, h)
		return
	}
	arity := len(atom.Outgoing(a))

	limit, err := queryInt(r, "max", arity)
	if err != nil || limit < 0 {
		writeError(w, http.StatusBadRequest, "max must be a non-negative integer")
		return
	}

	buf := make([]atom.Handle, min(limit, arity))
	n := e.Space.CopyOutgoing(h, buf)
	writeJSON(w, http.StatusOK, map[string]any{
		"outgoing":  buf[:n],
		"arity":     arity,
		"truncated": n < arity,
	})
}

func (s *Server) handlePatternMatch(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "max", defaultResultLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "max must be an integer")
		return
	}

	matches := engineFrom(r).Space.PatternMatch(handleFrom(r), limit)
	writeJSON(w, http.StatusOK, map[string]any{
		"matches": handles(matches),
		"count":   len(matches),
	})
}

func (s *Server) handleForwardInfer(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "max", defaultResultLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "max must be an integer")
		return
	}

	conclusions, err := engineFrom(r).Space.ForwardInfer(handleFrom(r), limit)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"conclusions": handles(conclusions),
		"count":       len(conclusions),
	})
}

func (s *Server) handleConsolidate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Threshold *float64 `json:"threshold"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	if req.Threshold == nil {
		writeError(w, http.StatusBadRequest, "threshold required")
		return
	}

	merged, err := engineFrom(r).Consolidate(*req.Threshold)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"merged": merged})
}

func (s *Server) handleStateToAtoms(w http.ResponseWriter, r *http.Request) {
	var req struct {
		State []float32 `json:"state"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}

	written, err := engineFrom(r).StateToAtoms(req.State)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"written": written})
}

func (s *Server) handleAtomsToState(w http.ResponseWriter, r *http.Request) {
	n, err := queryInt(r, "len", 0)
	if err != nil || n <= 0 || n > maxStateLen {
		writeError(w, http.StatusBadRequest, "len must be between 1 and 65536")
		return
	}

	out := make([]float32, n)
	engineFrom(r).AtomsToState(out)
	writeJSON(w, http.StatusOK, map[string]any{"state": out})
}

// handles keeps empty results encoding as [] rather than null.
func handles(hs []atom.Handle) []atom.Handle {
	if hs == nil {
		return []atom.Handle{}
	}
	return hs
}
