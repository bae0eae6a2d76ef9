package store

import (
	"github.com/lazypower/atomspace/internal/atom"
	"github.com/lazypower/atomspace/internal/errors"
)

// tables is the whole mutable state of one AtomSpace. It is only touched
// with AtomSpace.mu held.
type tables struct {
	atoms map[atom.Handle]atom.Atom
	order []atom.Handle // ascending; may hold dead handles until compact
	nodes nodeIndex
	links linkIndex
	next  atom.Handle

	// forwarded records merged-away handles and the atom they were merged into.
	forwarded map[atom.Handle]atom.Handle
}

func newTables() *tables {
	return &tables{
		atoms:     make(map[atom.Handle]atom.Atom),
		nodes:     make(nodeIndex),
		links:     make(linkIndex),
		next:      1,
		forwarded: make(map[atom.Handle]atom.Handle),
	}
}

func (t *tables) allocate() atom.Handle {
	h := t.next
	t.next++
	return h
}

func (t *tables) insert(a atom.Atom) {
	t.atoms[a.Handle()] = a
	t.order = append(t.order, a.Handle())
	switch v := a.(type) {
	case *atom.Node:
		t.nodes.add(v.Name(), v.Handle())
	case *atom.Link:
		t.links[signatureOf(v.Type(), v.Outgoing())] = v.Handle()
	}
}

// remove drops a from the atom table and both indices. order is left for
// compact.
func (t *tables) remove(h atom.Handle) {
	a, ok := t.atoms[h]
	if !ok {
		return
	}
	delete(t.atoms, h)
	switch v := a.(type) {
	case *atom.Node:
		t.nodes.remove(v.Name(), h)
	case *atom.Link:
		sig := signatureOf(v.Type(), v.Outgoing())
		if t.links[sig] == h {
			delete(t.links, sig)
		}
	}
}

func (t *tables) compact() {
	live := t.order[:0]
	for _, h := range t.order {
		if _, ok := t.atoms[h]; ok {
			live = append(live, h)
		}
	}
	t.order = live
}

func (t *tables) findNode(typ atom.Type, name string) (atom.Handle, bool) {
	for _, h := range t.nodes[name] {
		if a, ok := t.atoms[h]; ok && a.Type() == typ {
			return h, true
		}
	}
	return atom.InvalidHandle, false
}

func (t *tables) findLink(typ atom.Type, outgoing []atom.Handle) (atom.Handle, bool) {
	h, ok := t.links[signatureOf(typ, outgoing)]
	if !ok {
		return atom.InvalidHandle, false
	}
	if _, live := t.atoms[h]; !live {
		return atom.InvalidHandle, false
	}
	return h, true
}

// clone deep-copies every record so a staged mutation can be discarded.
func (t *tables) clone() *tables {
	c := &tables{
		atoms:     make(map[atom.Handle]atom.Atom, len(t.atoms)),
		order:     append([]atom.Handle(nil), t.order...),
		nodes:     make(nodeIndex, len(t.nodes)),
		links:     make(linkIndex, len(t.links)),
		next:      t.next,
		forwarded: make(map[atom.Handle]atom.Handle, len(t.forwarded)),
	}
	for h, a := range t.atoms {
		c.atoms[h] = a.Clone()
	}
	for name, hs := range t.nodes {
		c.nodes[name] = append([]atom.Handle(nil), hs...)
	}
	for sig, h := range t.links {
		c.links[sig] = h
	}
	for from, to := range t.forwarded {
		c.forwarded[from] = to
	}
	return c
}

// verify checks the cross-record invariants: no dangling outgoing handles,
// one node per (type, name), and indices that agree with the atom table.
func (t *tables) verify() error {
	seenNodes := make(map[atom.Type]map[string]atom.Handle)
	linkCount := 0
	for h, a := range t.atoms {
		if h != a.Handle() {
			return errors.AssertionFailedf("atom %d stored under handle %d", a.Handle(), h)
		}
		switch v := a.(type) {
		case *atom.Node:
			byName := seenNodes[v.Type()]
			if byName == nil {
				byName = make(map[string]atom.Handle)
				seenNodes[v.Type()] = byName
			}
			if other, dup := byName[v.Name()]; dup {
				return errors.AssertionFailedf("nodes %d and %d share %s %q", other, h, v.Type(), v.Name())
			}
			byName[v.Name()] = h
			if !containsHandle(t.nodes[v.Name()], h) {
				return errors.AssertionFailedf("node %d missing from name index", h)
			}
		case *atom.Link:
			linkCount++
			for _, out := range v.Outgoing() {
				if _, ok := t.atoms[out]; !ok {
					return errors.AssertionFailedf("link %d references dead atom %d", h, out)
				}
			}
			if t.links[signatureOf(v.Type(), v.Outgoing())] != h {
				return errors.AssertionFailedf("link %d missing from signature index", h)
			}
		}
	}
	if len(t.links) != linkCount {
		return errors.AssertionFailedf("signature index holds %d entries for %d links", len(t.links), linkCount)
	}
	for name, hs := range t.nodes {
		for _, h := range hs {
			if _, ok := t.atoms[h]; !ok {
				return errors.AssertionFailedf("name index %q references dead atom %d", name, h)
			}
		}
	}
	return nil
}

func containsHandle(hs []atom.Handle, h atom.Handle) bool {
	for _, x := range hs {
		if x == h {
			return true
		}
	}
	return false
}
