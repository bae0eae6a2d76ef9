// Package atom defines the AtomSpace data model: handles, the closed type
// enumeration, truth and attention values, and the Node/Link variants.
//
// An Atom is either a *Node (carries a name) or a *Link (carries an ordered
// outgoing sequence). A name on a link or an outgoing set on a node cannot
// be expressed.
package atom

// Atom is the common view of a node or link.
type Atom interface {
	Handle() Handle
	Type() Type
	TruthValue() TruthValue
	AttentionValue() AttentionValue

	// Clone returns an independent copy.
	Clone() Atom

	hdr() *header
}

type header struct {
	handle Handle
	typ    Type
	tv     TruthValue
	av     AttentionValue
}

func newHeader(h Handle, t Type) header {
	return header{handle: h, typ: t, tv: DefaultTruthValue()}
}

func (a *header) Handle() Handle                 { return a.handle }
func (a *header) Type() Type                     { return a.typ }
func (a *header) TruthValue() TruthValue         { return a.tv }
func (a *header) AttentionValue() AttentionValue { return a.av }
func (a *header) hdr() *header                   { return a }

// SetTruthValue stores tv clamped to [0,1].
func SetTruthValue(a Atom, tv TruthValue) { a.hdr().tv = tv.Clamp() }

// SetAttentionValue stores av unchanged.
func SetAttentionValue(a Atom, av AttentionValue) { a.hdr().av = av }

// Node is a named atom.
type Node struct {
	header
	name string
}

// NewNode builds a node with default truth and attention values.
func NewNode(h Handle, t Type, name string) *Node {
	return &Node{header: newHeader(h, t), name: name}
}

// Name returns the node's name.
func (n *Node) Name() string { return n.name }

func (n *Node) Clone() Atom {
	c := *n
	return &c
}

// Link is an ordered relation over other atoms.
type Link struct {
	header
	outgoing []Handle
}

// NewLink builds a link with default truth and attention values. The
// outgoing slice is copied.
func NewLink(h Handle, t Type, outgoing []Handle) *Link {
	return &Link{header: newHeader(h, t), outgoing: append([]Handle(nil), outgoing...)}
}

// Outgoing returns a copy of the outgoing sequence.
func (l *Link) Outgoing() []Handle { return append([]Handle(nil), l.outgoing...) }

// Arity is the length of the outgoing sequence.
func (l *Link) Arity() int { return len(l.outgoing) }

// At returns the i-th outgoing handle.
func (l *Link) At(i int) Handle { return l.outgoing[i] }

// CopyOutgoing copies as much of the outgoing sequence as fits in dst and
// returns the number of handles written.
func (l *Link) CopyOutgoing(dst []Handle) int { return copy(dst, l.outgoing) }

func (l *Link) Clone() Atom {
	c := *l
	c.outgoing = append([]Handle(nil), l.outgoing...)
	return &c
}

// Relink returns a copy of l with a new outgoing sequence, keeping handle,
// type and values.
func (l *Link) Relink(outgoing []Handle) *Link {
	c := l.Clone().(*Link)
	c.outgoing = append([]Handle(nil), outgoing...)
	return c
}

// Name returns the node name of a, or "" and false for links.
func Name(a Atom) (string, bool) {
	if n, ok := a.(*Node); ok {
		return n.name, true
	}
	return "", false
}

// Outgoing returns the outgoing sequence of a, or nil for nodes.
func Outgoing(a Atom) []Handle {
	if l, ok := a.(*Link); ok {
		return l.Outgoing()
	}
	return nil
}
