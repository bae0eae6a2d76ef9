package engine

import (
	"math"
	"strconv"
	"strings"

	"github.com/lazypower/atomspace/internal/atom"
	"github.com/lazypower/atomspace/internal/errors"
	"github.com/lazypower/atomspace/internal/logger"
)

const statePrefix = "state_"

// BridgeSettings control how a numeric state vector is encoded as atoms.
type BridgeSettings struct {
	MaxState   int     // indices at or above this are ignored
	Activation float32 // |v| must exceed this to produce an atom
	Confidence float32 // confidence given to encoded atoms
}

// DefaultBridgeSettings returns the stock encoding: the first 100 entries,
// activation 0.1, confidence 0.8.
func DefaultBridgeSettings() BridgeSettings {
	return BridgeSettings{MaxState: 100, Activation: 0.1, Confidence: 0.8}
}

func (b BridgeSettings) withDefaults() BridgeSettings {
	def := DefaultBridgeSettings()
	if b.MaxState <= 0 {
		b.MaxState = def.MaxState
	}
	if b.Activation < 0 {
		b.Activation = def.Activation
	}
	if b.Confidence <= 0 {
		b.Confidence = def.Confidence
	}
	return b
}

// StateName is the ConceptNode name that carries index i of a state vector.
func StateName(i int) string {
	return statePrefix + strconv.Itoa(i)
}

// parseStateName returns the index encoded in name.
func parseStateName(name string) (int, bool) {
	digits, ok := strings.CutPrefix(name, statePrefix)
	if !ok || digits == "" {
		return 0, false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

// StateToAtoms encodes state into the space. Every entry among the first
// MaxState whose magnitude exceeds Activation becomes the ConceptNode
// "state_i" with truth (|v|, Confidence) and attention (max(v,0), 0, 0).
// It returns the number of atoms written.
func (e *Engine) StateToAtoms(state []float32) (int, error) {
	n := min(len(state), e.Bridge.MaxState)
	written := 0
	for i := 0; i < n; i++ {
		v := state[i]
		if float32(math.Abs(float64(v))) <= e.Bridge.Activation {
			continue
		}
		h, err := e.Space.AddNode(atom.ConceptNode, StateName(i))
		if err != nil {
			return written, errors.Wrapf(err, "encode state[%d]", i)
		}
		tv := atom.TruthValue{Strength: float32(math.Abs(float64(v))), Confidence: e.Bridge.Confidence}
		if err := e.Space.SetTruthValue(h, tv); err != nil {
			return written, errors.Wrapf(err, "encode state[%d]", i)
		}
		if err := e.Space.SetAttentionValue(h, atom.AttentionValue{STI: max(v, 0)}); err != nil {
			return written, errors.Wrapf(err, "encode state[%d]", i)
		}
		written++
	}
	return written, nil
}

// AtomsToState zero-fills out, then decodes every live "state_N"
// ConceptNode with N < len(out) into out[N] as strength, negated unless
// STI is positive. Names that do not parse are skipped.
func (e *Engine) AtomsToState(out []float32) {
	clear(out)
	for _, a := range e.Space.AtomsOfType(atom.ConceptNode) {
		name, _ := atom.Name(a)
		if !strings.HasPrefix(name, statePrefix) {
			continue
		}
		idx, ok := parseStateName(name)
		if !ok {
			logger.Logger.Debugw("skipping malformed state atom", "handle", a.Handle(), "name", name)
			continue
		}
		if idx >= len(out) {
			continue
		}
		v := a.TruthValue().Strength
		if a.AttentionValue().STI <= 0 {
			v = -v
		}
		out[idx] = v
	}
}
