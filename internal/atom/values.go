package atom

import "math"

// TruthValue is a (strength, confidence) pair, both kept in [0,1].
type TruthValue struct {
	Strength   float32 `json:"strength"`
	Confidence float32 `json:"confidence"`
}

// DefaultTruthValue is "unknown, weak".
func DefaultTruthValue() TruthValue {
	return TruthValue{Strength: 0.5, Confidence: 0.1}
}

// Clamp returns tv with both components forced into [0,1]. NaN becomes 0.
func (tv TruthValue) Clamp() TruthValue {
	return TruthValue{
		Strength:   clamp01(tv.Strength),
		Confidence: clamp01(tv.Confidence),
	}
}

func clamp01(v float32) float32 {
	switch {
	case math.IsNaN(float64(v)), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// AttentionValue holds short, long and very-long term importance.
// Components are unconstrained.
type AttentionValue struct {
	STI  float32 `json:"sti"`
	LTI  float32 `json:"lti"`
	VLTI float32 `json:"vlti"`
}

// Max returns the element-wise maximum of av and o.
func (av AttentionValue) Max(o AttentionValue) AttentionValue {
	return AttentionValue{
		STI:  max(av.STI, o.STI),
		LTI:  max(av.LTI, o.LTI),
		VLTI: max(av.VLTI, o.VLTI),
	}
}
