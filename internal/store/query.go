package store

import (
	"github.com/lazypower/atomspace/internal/atom"
	"github.com/lazypower/atomspace/internal/errors"
)

// Stats is a consistent snapshot of the atom counts.
type Stats struct {
	Size  int `json:"size"`
	Nodes int `json:"nodes"`
	Links int `json:"links"`
}

// Size returns the number of live atoms.
func (s *AtomSpace) Size() int { return s.Stats().Size }

// NodeCount returns the number of live node-family atoms.
func (s *AtomSpace) NodeCount() int { return s.Stats().Nodes }

// LinkCount returns the number of live link-family atoms.
func (s *AtomSpace) LinkCount() int { return s.Stats().Links }

// Stats counts live atoms by family in a single scan.
func (s *AtomSpace) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	var st Stats
	if s.t == nil {
		return st
	}
	for _, a := range s.t.atoms {
		st.Size++
		if a.Type().IsNode() {
			st.Nodes++
		} else {
			st.Links++
		}
	}
	return st
}

// AtomsOfType returns copies of every live atom of type t, in handle order.
func (s *AtomSpace) AtomsOfType(t atom.Type) []atom.Atom {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.t == nil {
		return nil
	}
	var out []atom.Atom
	for _, h := range s.t.order {
		a, ok := s.t.atoms[h]
		if ok && a.Type() == t {
			out = append(out, a.Clone())
		}
	}
	return out
}

// PatternMatch returns up to max atoms sharing the type of pattern,
// excluding pattern itself. It is a same-type filter, not unification.
// Callers must not depend on result order. An unknown pattern yields no
// results.
func (s *AtomSpace) PatternMatch(pattern atom.Handle, max int) []atom.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.lookup(pattern)
	if !ok || max <= 0 {
		return nil
	}

	var results []atom.Handle
	for _, h := range s.t.order {
		if len(results) >= max {
			break
		}
		a, live := s.t.atoms[h]
		if !live || h == pattern {
			continue
		}
		if a.Type() == p.Type() {
			results = append(results, h)
		}
	}
	return results
}

// ForwardInfer performs one hop of forward chaining: for every binary
// ImplicationLink whose first element is premise, the second element is a
// conclusion. At most max conclusions are returned. An empty result is not
// an error; transitive closure is left to the caller.
func (s *AtomSpace) ForwardInfer(premise atom.Handle, max int) ([]atom.Handle, error) {
	if !premise.Valid() {
		return nil, errors.InvalidArgumentf("forward infer: invalid premise handle")
	}
	if max < 0 {
		return nil, errors.InvalidArgumentf("forward infer: negative limit %d", max)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.t == nil {
		return nil, errClosed
	}

	var conclusions []atom.Handle
	for _, h := range s.t.order {
		if len(conclusions) >= max {
			break
		}
		l, ok := s.t.atoms[h].(*atom.Link)
		if !ok || l.Type() != atom.ImplicationLink || l.Arity() != 2 {
			continue
		}
		if l.At(0) == premise {
			conclusions = append(conclusions, l.At(1))
		}
	}
	return conclusions, nil
}
