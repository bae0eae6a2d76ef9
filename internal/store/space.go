// Package store implements the AtomSpace: an in-memory, handle-addressed
// fact base with node and link deduplication.
//
// Every exported method takes the space's single mutex for its whole
// duration, reads included, so each call is atomic with respect to other
// callers. Sequences of calls are not: a caller that checks Size and then
// adds a node can observe another goroutine's insert in between.
package store

import (
	"sync"

	"github.com/lazypower/atomspace/internal/atom"
	"github.com/lazypower/atomspace/internal/errors"
)

// AtomSpace owns every atom, the name index, the signature index and the
// handle counter.
type AtomSpace struct {
	mu         sync.Mutex
	t          *tables
	similarity SimilarityFunc
}

// Option configures an AtomSpace.
type Option func(*AtomSpace)

// WithSimilarity replaces the scoring used by Consolidate.
func WithSimilarity(fn SimilarityFunc) Option {
	return func(s *AtomSpace) {
		if fn != nil {
			s.similarity = fn
		}
	}
}

// New creates an empty AtomSpace.
func New(opts ...Option) *AtomSpace {
	s := &AtomSpace{
		t:          newTables(),
		similarity: DefaultSimilarity,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close releases every atom. Later mutations fail with ErrInvalidArgument
// and lookups report absent.
func (s *AtomSpace) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.t = nil
}

var errClosed = errors.InvalidArgumentf("atomspace is closed")

// AddNode returns the handle of the node (t, name), creating it with
// default truth and attention values if it does not exist. An existing
// node is returned untouched.
func (s *AtomSpace) AddNode(t atom.Type, name string) (atom.Handle, error) {
	if !t.IsNode() {
		return atom.InvalidHandle, errors.InvalidArgumentf("add node: %s is not a node type", t)
	}
	if name == "" {
		return atom.InvalidHandle, errors.InvalidArgumentf("add node: empty name")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.t == nil {
		return atom.InvalidHandle, errClosed
	}

	if h, ok := s.t.findNode(t, name); ok {
		dedupHits.WithLabelValues(family(true)).Inc()
		return h, nil
	}
	h := s.t.allocate()
	s.t.insert(atom.NewNode(h, t, name))
	atomsCreated.WithLabelValues(family(true)).Inc()
	return h, nil
}

// AddLink returns the handle of the link (t, outgoing), creating it if no
// link with the same type and ordered outgoing sequence exists. Every
// outgoing handle must resolve to a live atom at the time of the call.
func (s *AtomSpace) AddLink(t atom.Type, outgoing []atom.Handle) (atom.Handle, error) {
	if !t.IsLink() {
		return atom.InvalidHandle, errors.InvalidArgumentf("add link: %s is not a link type", t)
	}
	if len(outgoing) == 0 {
		return atom.InvalidHandle, errors.InvalidArgumentf("add link: empty outgoing set")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.t == nil {
		return atom.InvalidHandle, errClosed
	}

	for _, h := range outgoing {
		if _, ok := s.t.atoms[h]; !ok {
			return atom.InvalidHandle, errors.InvalidArgumentf("add link: outgoing handle %d is not live", h)
		}
	}
	if h, ok := s.t.findLink(t, outgoing); ok {
		dedupHits.WithLabelValues(family(false)).Inc()
		return h, nil
	}
	h := s.t.allocate()
	s.t.insert(atom.NewLink(h, t, outgoing))
	atomsCreated.WithLabelValues(family(false)).Inc()
	return h, nil
}

// lookup must be called with mu held.
func (s *AtomSpace) lookup(h atom.Handle) (atom.Atom, bool) {
	if s.t == nil || !h.Valid() {
		return nil, false
	}
	a, ok := s.t.atoms[h]
	return a, ok
}

// GetAtom returns a copy of the live atom h. Mutating the copy does not
// affect the space; use the setters.
func (s *AtomSpace) GetAtom(h atom.Handle) (atom.Atom, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.lookup(h)
	if !ok {
		return nil, false
	}
	return a.Clone(), true
}

// Type returns the type of h.
func (s *AtomSpace) Type(h atom.Handle) (atom.Type, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.lookup(h)
	if !ok {
		return 0, false
	}
	return a.Type(), true
}

// Name returns the name of node h. Links and unknown handles are absent.
func (s *AtomSpace) Name(h atom.Handle) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.lookup(h)
	if !ok {
		return "", false
	}
	return atom.Name(a)
}

// CopyOutgoing writes up to len(dst) outgoing handles of link h into dst
// and returns the number written. Longer sequences are truncated silently;
// nodes and unknown handles write nothing.
func (s *AtomSpace) CopyOutgoing(h atom.Handle, dst []atom.Handle) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.lookup(h)
	if !ok {
		return 0
	}
	l, ok := a.(*atom.Link)
	if !ok {
		return 0
	}
	return l.CopyOutgoing(dst)
}

// TruthValue returns the truth value of h.
func (s *AtomSpace) TruthValue(h atom.Handle) (atom.TruthValue, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.lookup(h)
	if !ok {
		return atom.TruthValue{}, false
	}
	return a.TruthValue(), true
}

// SetTruthValue stores tv on h, clamping both components to [0,1].
func (s *AtomSpace) SetTruthValue(h atom.Handle, tv atom.TruthValue) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.lookup(h)
	if !ok {
		return errors.NotFoundf("set truth value: atom %d", h)
	}
	atom.SetTruthValue(a, tv)
	return nil
}

// AttentionValue returns the attention value of h.
func (s *AtomSpace) AttentionValue(h atom.Handle) (atom.AttentionValue, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.lookup(h)
	if !ok {
		return atom.AttentionValue{}, false
	}
	return a.AttentionValue(), true
}

// SetAttentionValue stores av on h unchanged.
func (s *AtomSpace) SetAttentionValue(h atom.Handle, av atom.AttentionValue) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.lookup(h)
	if !ok {
		return errors.NotFoundf("set attention value: atom %d", h)
	}
	atom.SetAttentionValue(a, av)
	return nil
}

// Forwarded reports the atom a merged-away handle now lives on. It returns
// false for live handles and for handles that were never issued.
func (s *AtomSpace) Forwarded(h atom.Handle) (atom.Handle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.t == nil {
		return atom.InvalidHandle, false
	}
	to, ok := s.t.forwarded[h]
	if !ok {
		return atom.InvalidHandle, false
	}
	for {
		next, again := s.t.forwarded[to]
		if !again {
			return to, true
		}
		to = next
	}
}
