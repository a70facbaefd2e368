package treegram

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samcharles93/treegram/internal/vocab"
)

var (
	// P(y|x) sits below bo(x)+P(y): the stored bigram is smaller than
	// what backing off would give.
	modelA = []entry{
		{"x", -0.5, -0.2}, {"y", -0.9, -0.3}, {"z", -0.6, 0},
		{"x y", -1.5, 0}, {"y z", -0.3, 0},
	}
	modelB = []entry{
		{"x", -0.6, -0.1}, {"y", -0.3, -0.4}, {"z", -0.45, 0},
		{"x y", -0.1, 0}, {"y z", -0.25, 0},
	}
)

// aligned builds both models on one shared word id assignment.
func aligned(t *testing.T, a, b []entry) (*TreeGram, *TreeGram) {
	t.Helper()
	shared := vocab.New()
	for _, w := range []string{"x", "y", "z"} {
		shared.AddWord(w)
	}
	va, vb := vocab.New(), vocab.New()
	shared.CopyTo(va)
	shared.CopyTo(vb)
	return buildTree(t, 2, va, a), buildTree(t, 2, vb, b)
}

// resolvedByGram snapshots the resolved probability of every gram of tree.
func resolvedByGram(tree *TreeGram, of *TreeGram) map[string]float64 {
	out := map[string]float64{}
	it := NewIterator(tree)
	for k := 1; k <= tree.Order(); k++ {
		for it.Next(k) {
			g := it.Gram()
			key := ""
			for _, w := range g {
				key += tree.Word(w) + " "
			}
			out[key] = of.ResolveLogProb(g)
		}
	}
	return out
}

func TestApproximateInterpolateWeightOneKeepsA(t *testing.T) {
	t.Parallel()
	a, b := aligned(t, modelA, modelB)
	want := resolvedByGram(a, a)

	require.NoError(t, ApproximateInterpolate(a, b, 1.0))
	assert.Equal(t, Interpolated, a.Type())

	got := resolvedByGram(a, a)
	for g, lp := range want {
		assert.InDelta(t, lp, got[g], 1e-5, "gram %q", g)
	}
	assert.InDelta(t, -1.5, a.ResolveLogProb(ids(t, a, "x y")), 1e-6)
	// unseen grams back off exactly as in a
	assert.InDelta(t, -0.2+-0.6, a.ResolveLogProb(ids(t, a, "x z")), 1e-6)
}

func TestApproximateInterpolateWithItself(t *testing.T) {
	t.Parallel()
	for _, w := range []float64{0, 0.3, 1} {
		a, b := aligned(t, modelA, modelA)
		want := resolvedByGram(a, a)
		require.NoError(t, ApproximateInterpolate(a, b, w))
		got := resolvedByGram(a, a)
		for g, lp := range want {
			assert.InDelta(t, lp, got[g], 1e-5, "weight %v gram %q", w, g)
		}
	}
}

func TestApproximateInterpolateWeightZeroGivesB(t *testing.T) {
	t.Parallel()
	a, b := aligned(t, modelA, modelB)
	want := resolvedByGram(a, b)

	require.NoError(t, ApproximateInterpolate(a, b, 0.0))

	got := resolvedByGram(a, a)
	for g, lp := range want {
		assert.InDelta(t, lp, got[g], 1e-5, "gram %q", g)
	}
}

func TestApproximateInterpolateMixesBetweenModels(t *testing.T) {
	t.Parallel()
	a, b := aligned(t, modelA, modelB)
	pa := resolvedByGram(a, a)
	pb := resolvedByGram(a, b)

	const w = 0.7
	require.NoError(t, ApproximateInterpolate(a, b, w))
	got := resolvedByGram(a, a)

	for g := range pa {
		lo, hi := math.Min(pa[g], pb[g]), math.Max(pa[g], pb[g])
		assert.GreaterOrEqual(t, got[g], lo-1e-5, "gram %q", g)
		assert.LessOrEqual(t, got[g], hi+1e-5, "gram %q", g)
	}
	// unigrams are stored as the plain mix
	x := Gram{a.Vocab().WordID("x")}
	want := math.Log10(w*math.Pow(10, -0.5) + (1-w)*math.Pow(10, -0.6))
	assert.InDelta(t, want, a.ResolveLogProb(x), 1e-5)
	// and contexts carry the mixed back-off weight
	n, _ := a.Lookup(x)
	wantBO := math.Log10(w*math.Pow(10, -0.2) + (1-w)*math.Pow(10, -0.1))
	assert.InDelta(t, wantBO, float64(n.BackOff), 1e-5)
}

func TestApproximateInterpolateKeepsStructure(t *testing.T) {
	t.Parallel()
	a, b := aligned(t, modelA, append(modelB, entry{"z x", -0.2, 0}))
	before := a.Counts()
	require.NoError(t, ApproximateInterpolate(a, b, 0.5))
	assert.Equal(t, before, a.Counts())
	_, ok := a.Lookup(Gram{a.Vocab().WordID("z"), a.Vocab().WordID("x")})
	assert.False(t, ok, "grams only b has are not added")
}

func TestApproximateInterpolatePreconditions(t *testing.T) {
	t.Parallel()
	a, b := aligned(t, modelA, modelB)

	assert.ErrorIs(t, ApproximateInterpolate(a, b, 1.5), ErrWeight)
	assert.ErrorIs(t, ApproximateInterpolate(a, b, math.NaN()), ErrWeight)

	open := New(2, vocab.New())
	assert.ErrorIs(t, ApproximateInterpolate(a, open, 0.5), ErrNotFinalized)

	other := buildTree(t, 2, nil, []entry{{"q", -1, 0}})
	assert.ErrorIs(t, ApproximateInterpolate(a, other, 0.5), ErrVocabMismatch)
	assert.Equal(t, Backoff, a.Type(), "failed call leaves a untouched")
}
