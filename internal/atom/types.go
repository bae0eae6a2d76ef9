package atom

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/lazypower/atomspace/internal/errors"
)

// Handle identifies an atom within one AtomSpace. Handles are issued in
// strictly increasing order starting at 1 and are never reused.
type Handle uint64

// InvalidHandle is returned by failed creations and means "absent".
const InvalidHandle Handle = 0

// Valid reports whether h could refer to an atom.
func (h Handle) Valid() bool { return h != InvalidHandle }

// Type is the closed set of atom types. The integer values are stable and
// form part of the wire contract.
type Type int

const (
	NodeType Type = iota
	LinkType
	ConceptNode
	PredicateNode
	NumberNode
	VariableNode
	ListLink
	EvaluationLink
	ImplicationLink
	AndLink
	OrLink
	NotLink
	SimilarityLink
	InheritanceLink

	typeCount
)

var typeNames = [typeCount]string{
	NodeType:        "Node",
	LinkType:        "Link",
	ConceptNode:     "ConceptNode",
	PredicateNode:   "PredicateNode",
	NumberNode:      "NumberNode",
	VariableNode:    "VariableNode",
	ListLink:        "ListLink",
	EvaluationLink:  "EvaluationLink",
	ImplicationLink: "ImplicationLink",
	AndLink:         "AndLink",
	OrLink:          "OrLink",
	NotLink:         "NotLink",
	SimilarityLink:  "SimilarityLink",
	InheritanceLink: "InheritanceLink",
}

// Valid reports whether t is one of the known types.
func (t Type) Valid() bool { return t >= 0 && t < typeCount }

// IsNode reports whether t belongs to the node family.
func (t Type) IsNode() bool {
	switch t {
	case NodeType, ConceptNode, PredicateNode, NumberNode, VariableNode:
		return true
	}
	return false
}

// IsLink reports whether t belongs to the link family.
func (t Type) IsLink() bool { return t.Valid() && !t.IsNode() }

func (t Type) String() string {
	if !t.Valid() {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

// ParseType accepts a type name ("ConceptNode") or its integer value ("2").
func ParseType(s string) (Type, error) {
	for i, name := range typeNames {
		if name == s {
			return Type(i), nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil && Type(n).Valid() {
		return Type(n), nil
	}
	return 0, errors.InvalidArgumentf("unknown atom type %q", s)
}

// Types returns every known type in value order.
func Types() []Type {
	out := make([]Type, 0, typeCount)
	for t := Type(0); t < typeCount; t++ {
		out = append(out, t)
	}
	return out
}

// MarshalJSON encodes the type by name.
func (t Type) MarshalJSON() ([]byte, error) {
	if !t.Valid() {
		return nil, errors.InvalidArgumentf("marshal atom type: invalid value %d", int(t))
	}
	return json.Marshal(t.String())
}

// UnmarshalJSON accepts either the type name or its integer value.
func (t *Type) UnmarshalJSON(b []byte) error {
	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		if !Type(n).Valid() {
			return errors.InvalidArgumentf("unknown atom type %d", n)
		}
		*t = Type(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return errors.Wrap(err, "atom type must be a name or integer")
	}
	parsed, err := ParseType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
