package store

import (
	"math"
	"time"

	"github.com/lazypower/atomspace/internal/atom"
	"github.com/lazypower/atomspace/internal/errors"
	"github.com/lazypower/atomspace/internal/logger"
)

// SimilarityFunc scores two atoms of the same type in [0,1]; 1 is identical.
type SimilarityFunc func(a, b atom.Atom) float64

// DefaultSimilarity weighs truth-value distance 0.7 and attention distance 0.3.
var DefaultSimilarity = WeightedSimilarity(0.7, 0.3)

// WeightedSimilarity scores atoms by
//
//	1 - (wT*dT + wA*dA) / (wT + wA)
//
// where dT is the euclidean distance between the (strength, confidence)
// pairs scaled by 1/sqrt(2), and dA = d/(1+d) for the euclidean distance d
// between the attention triples. Non-positive total weight compares truth
// values only.
func WeightedSimilarity(truthWeight, attentionWeight float64) SimilarityFunc {
	if truthWeight < 0 {
		truthWeight = 0
	}
	if attentionWeight < 0 {
		attentionWeight = 0
	}
	if truthWeight+attentionWeight == 0 {
		truthWeight = 1
	}
	return func(a, b atom.Atom) float64 {
		ta, tb := a.TruthValue(), b.TruthValue()
		dT := math.Hypot(float64(ta.Strength-tb.Strength), float64(ta.Confidence-tb.Confidence)) / math.Sqrt2

		aa, ab := a.AttentionValue(), b.AttentionValue()
		ds := float64(aa.STI - ab.STI)
		dl := float64(aa.LTI - ab.LTI)
		dv := float64(aa.VLTI - ab.VLTI)
		d := math.Sqrt(ds*ds + dl*dl + dv*dv)
		dA := d / (1 + d)

		return 1 - (truthWeight*dT+attentionWeight*dA)/(truthWeight+attentionWeight)
	}
}

// Consolidate merges groups of same-type atoms whose similarity exceeds
// threshold and returns how many atoms were removed.
//
// Per group the survivor is the member with the highest confidence, ties
// going to the lowest handle. Strength becomes the confidence-weighted mean,
// confidence the maximum, attention the element-wise maximum. Links that
// referenced a merged-away atom are rewritten to the survivor; links that
// become identical by that rewrite are merged the same way until nothing
// changes. Merged-away handles are reported by Forwarded.
//
// The pass runs on a staged copy of the tables and is verified before it is
// swapped in, so on error the space is unchanged.
func (s *AtomSpace) Consolidate(threshold float64) (int, error) {
	if math.IsNaN(threshold) || threshold < 0 || threshold > 1 {
		return 0, errors.InvalidArgumentf("consolidate: threshold %v outside [0,1]", threshold)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.t == nil {
		return 0, errClosed
	}

	start := time.Now()
	work := s.t.clone()
	merges := work.consolidate(threshold, s.similarity)
	if err := work.verify(); err != nil {
		return 0, errors.Wrap(err, "consolidate")
	}
	s.t = work

	consolidationDuration.Observe(time.Since(start).Seconds())
	atomsMerged.Add(float64(len(merges)))
	if len(merges) > 0 {
		logger.Logger.Debugw("consolidated atomspace",
			"threshold", threshold,
			"removed", len(merges),
			"remaining", len(work.atoms),
			"took", time.Since(start))
	}
	return len(merges), nil
}

func (t *tables) consolidate(threshold float64, sim SimilarityFunc) map[atom.Handle]atom.Handle {
	merges := make(map[atom.Handle]atom.Handle)

	byType := make(map[atom.Type][]atom.Atom)
	for _, h := range t.order {
		if a, ok := t.atoms[h]; ok {
			byType[a.Type()] = append(byType[a.Type()], a)
		}
	}

	claimed := make(map[atom.Handle]bool)
	for _, typ := range atom.Types() {
		members := byType[typ]
		for i, seed := range members {
			if claimed[seed.Handle()] {
				continue
			}
			group := []atom.Atom{seed}
			for _, cand := range members[i+1:] {
				if claimed[cand.Handle()] {
					continue
				}
				if sim(seed, cand) <= threshold {
					continue
				}
				if t.relatedToAny(cand, group, merges) {
					continue
				}
				group = append(group, cand)
			}
			if len(group) < 2 {
				continue
			}
			for _, g := range group {
				claimed[g.Handle()] = true
			}
			t.mergeGroup(group, merges)
		}
	}

	t.relink(merges)
	t.compact()
	for from, to := range merges {
		t.forwarded[from] = to
	}
	return merges
}

// mergeGroup folds every member into the survivor and removes the rest.
func (t *tables) mergeGroup(group []atom.Atom, merges map[atom.Handle]atom.Handle) atom.Atom {
	survivor := pickSurvivor(group)
	tv, av := mergedValues(group)
	atom.SetTruthValue(survivor, tv)
	atom.SetAttentionValue(survivor, av)
	for _, g := range group {
		if g.Handle() == survivor.Handle() {
			continue
		}
		merges[g.Handle()] = survivor.Handle()
		t.remove(g.Handle())
	}
	return survivor
}

// relink rewrites outgoing sequences through merges until no link changes,
// merging links that collide on their new signature.
func (t *tables) relink(merges map[atom.Handle]atom.Handle) {
	for changed := true; changed; {
		changed = false
		for _, h := range t.order {
			l, ok := t.atoms[h].(*atom.Link)
			if !ok {
				continue
			}
			old := l.Outgoing()
			out, rewritten := resolveAll(old, merges)
			if !rewritten {
				continue
			}
			changed = true

			oldSig := signatureOf(l.Type(), old)
			if t.links[oldSig] == h {
				delete(t.links, oldSig)
			}
			relinked := l.Relink(out)
			t.atoms[h] = relinked
			sig := signatureOf(l.Type(), out)

			other, dup := t.links[sig]
			if !dup || other == h {
				t.links[sig] = h
				continue
			}
			survivor := t.mergeGroup([]atom.Atom{t.atoms[other], relinked}, merges)
			t.links[sig] = survivor.Handle()
		}
	}
}

// relatedToAny reports whether cand and any group member reach one another
// through outgoing sequences, as they will look once merges are applied.
// Merging such a pair would make a link contain itself.
func (t *tables) relatedToAny(cand atom.Atom, group []atom.Atom, merges map[atom.Handle]atom.Handle) bool {
	for _, g := range group {
		if t.reaches(cand.Handle(), g.Handle(), merges) || t.reaches(g.Handle(), cand.Handle(), merges) {
			return true
		}
	}
	return false
}

func (t *tables) reaches(from, to atom.Handle, merges map[atom.Handle]atom.Handle) bool {
	seen := make(map[atom.Handle]bool)
	stack := []atom.Handle{from}
	for len(stack) > 0 {
		h := resolve(stack[len(stack)-1], merges)
		stack = stack[:len(stack)-1]
		if seen[h] {
			continue
		}
		seen[h] = true
		l, ok := t.atoms[h].(*atom.Link)
		if !ok {
			continue
		}
		for _, out := range l.Outgoing() {
			out = resolve(out, merges)
			if out == to {
				return true
			}
			stack = append(stack, out)
		}
	}
	return false
}

func resolve(h atom.Handle, merges map[atom.Handle]atom.Handle) atom.Handle {
	for {
		to, ok := merges[h]
		if !ok {
			return h
		}
		h = to
	}
}

func resolveAll(outgoing []atom.Handle, merges map[atom.Handle]atom.Handle) ([]atom.Handle, bool) {
	rewritten := false
	out := make([]atom.Handle, len(outgoing))
	for i, h := range outgoing {
		out[i] = resolve(h, merges)
		if out[i] != h {
			rewritten = true
		}
	}
	return out, rewritten
}

func pickSurvivor(group []atom.Atom) atom.Atom {
	best := group[0]
	for _, a := range group[1:] {
		ca, cb := a.TruthValue().Confidence, best.TruthValue().Confidence
		if ca > cb || (ca == cb && a.Handle() < best.Handle()) {
			best = a
		}
	}
	return best
}

func mergedValues(group []atom.Atom) (atom.TruthValue, atom.AttentionValue) {
	var weighted, plain, totalConf float64
	var conf float32
	av := group[0].AttentionValue()
	for _, a := range group {
		tv := a.TruthValue()
		weighted += float64(tv.Strength) * float64(tv.Confidence)
		plain += float64(tv.Strength)
		totalConf += float64(tv.Confidence)
		conf = max(conf, tv.Confidence)
		av = av.Max(a.AttentionValue())
	}

	strength := plain / float64(len(group))
	if totalConf > 0 {
		strength = weighted / totalConf
	}
	return atom.TruthValue{Strength: float32(strength), Confidence: conf}.Clamp(), av
}
