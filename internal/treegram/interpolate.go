package treegram

import (
	"fmt"
	"math"
)

// ApproximateInterpolate rewrites a in place so that it approximates the
// linear interpolation weightA*P_a + (1-weightA)*P_b, and marks it
// Interpolated.
//
// Interpolating two back-off models exactly does not yield a back-off
// model, so the result keeps a's structure and only approximates the mix:
//
//   - every gram of a stores the mixed probability of both models, each
//     resolved in its original form;
//   - every context of a stores the mixed back-off weight, taking 1 for
//     contexts b has no children for.
//
// Grams of a therefore resolve to exactly the mixed value, and weights 1
// and 0 give back a's and b's probabilities for them. Grams absent from a
// back off with the mixed weights, which is where the approximation lies.
// Grams only b knows stay unknown to the result. Both trees must be
// finalized and share one vocabulary id assignment.
func ApproximateInterpolate(a, b *TreeGram, weightA float64) error {
	if !a.sealed || !b.sealed {
		return ErrNotFinalized
	}
	if math.IsNaN(weightA) || weightA < 0 || weightA > 1 {
		return fmt.Errorf("%w: %v", ErrWeight, weightA)
	}
	if a.vocab != b.vocab && !a.vocab.Equal(b.vocab) {
		return fmt.Errorf("%w: %d and %d words", ErrVocabMismatch, a.vocab.Len(), b.vocab.Len())
	}

	// Mix everything before writing anything: resolving a gram of a reads
	// its lower orders and contexts, which must still hold a's own values.
	mixed := make([][]Node, a.order)
	var g Gram
	for k := 1; k <= a.order; k++ {
		lvl := a.levels[k-1]
		out := make([]Node, len(lvl))
		for i, n := range lvl {
			g = a.path(k, i, g)
			n.LogProb = float32(mixLog(weightA, a.ResolveLogProb(g), b.ResolveLogProb(g)))
			if n.HasChildren() {
				var boB float64
				if bn, ok := b.Lookup(g); ok && bn.HasChildren() {
					boB = float64(bn.BackOff)
				}
				n.BackOff = float32(mixLog(weightA, float64(n.BackOff), boB))
			}
			out[i] = n
		}
		mixed[k-1] = out
	}

	a.levels = mixed
	a.typ = Interpolated
	return nil
}

// mixLog mixes two log10 values linearly in probability space. The end
// points return their input unchanged.
func mixLog(w, la, lb float64) float64 {
	switch w {
	case 1:
		return la
	case 0:
		return lb
	}
	return clampLog(w*math.Pow(10, la) + (1-w)*math.Pow(10, lb))
}

func clampLog(p float64) float64 {
	if p <= 0 {
		return MinLogProb
	}
	return max(math.Log10(p), MinLogProb)
}
