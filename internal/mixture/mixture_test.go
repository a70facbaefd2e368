package mixture

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samcharles93/treegram/internal/treegram"
	"github.com/samcharles93/treegram/internal/vocab"
	"github.com/samcharles93/treegram/pkg/arpa"
)

const modelA = `\data\
ngram 1=4
ngram 2=2

\1-grams:
-1	<s>	-0.3
-0.6	x	-0.2
-0.9	y
-0.5	</s>

\2-grams:
-0.2	<s> x
-0.4	x y
\end\
`

const modelB = `\data\
ngram 1=4
ngram 2=1

\1-grams:
-1	<s>	-0.4
-0.7	y
-0.4	z
-0.8	</s>

\2-grams:
-0.3	<s> y
\end\
`

func writeModels(t *testing.T, texts ...string) []string {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, len(texts))
	for i, text := range texts {
		paths[i] = filepath.Join(dir, string(rune('a'+i))+".arpa")
		require.NoError(t, os.WriteFile(paths[i], []byte(text), 0o644))
	}
	return paths
}

func TestParseComponents(t *testing.T) {
	t.Parallel()

	comps, err := ParseComponents("a.arpa,0.7;b.arpa,0.3")
	require.NoError(t, err)
	assert.Equal(t, []Component{{Path: "a.arpa", Weight: 0.7}, {Path: "b.arpa", Weight: 0.3}}, comps)

	comps, err = ParseComponents(" ;; a.arpa , 1 ;")
	require.NoError(t, err)
	assert.Equal(t, []Component{{Path: "a.arpa", Weight: 1}}, comps)

	for _, bad := range []string{"", ";", "a.arpa", "a.arpa,0.5,x", "a.arpa,x", "a.arpa,1.5", "a.arpa,-0.1", ",0.5", "a.arpa,NaN"} {
		_, err := ParseComponents(bad)
		assert.ErrorIs(t, err, ErrComponents, "input %q", bad)
	}
}

func TestLoadSynchronizesVocabularies(t *testing.T) {
	t.Parallel()
	paths := writeModels(t, modelA, modelB)
	comps := []Component{{Path: paths[0], Weight: 0.7}, {Path: paths[1], Weight: 0.3}}

	var progress bytes.Buffer
	require.NoError(t, Loader{Progress: &progress}.Load(context.Background(), comps))

	assert.Equal(t, "Model "+paths[0]+" 0.7\nModel "+paths[1]+" 0.3\n", progress.String())

	va, vb := comps[0].Model.Vocab(), comps[1].Model.Vocab()
	assert.NotSame(t, va, vb)
	assert.True(t, va.Equal(vb))
	assert.Equal(t, va.Words(), vb.Words())

	// z only occurs in the second model but the first one knows it now
	za, ok := va.ID("z")
	require.True(t, ok)
	zb, _ := vb.ID("z")
	assert.Equal(t, za, zb)

	// y keeps the id the first model gave it
	ya, _ := va.ID("y")
	n, ok := comps[1].Model.Lookup(treegram.Gram{ya})
	require.True(t, ok)
	assert.Equal(t, float32(-0.7), n.LogProb)
}

func TestLoadSetsOOVToken(t *testing.T) {
	t.Parallel()
	paths := writeModels(t, "\\data\\\nngram 1=2\n\n\\1-grams:\n-2 <unk>\n-1 a\n\\end\\\n")
	comps := []Component{{Path: paths[0], Weight: 1}}
	require.NoError(t, Loader{OOV: "<unk>"}.Load(context.Background(), comps))

	m := comps[0].Model
	assert.Equal(t, "<unk>", m.Vocab().OOV())
	_, ok := m.Vocab().ID(vocab.DefaultOOV)
	assert.False(t, ok)
	// unknown words resolve through the OOV unigram
	assert.InDelta(t, -2, m.LogProb([]string{"never-seen"}), 1e-6)
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	missing := []Component{{Path: filepath.Join(t.TempDir(), "missing.arpa"), Weight: 1}}
	err := Loader{}.Load(context.Background(), missing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.arpa")

	paths := writeModels(t, "\\data\\\nngram 1=1\n\n\\2-grams:\n")
	err = Loader{}.Load(context.Background(), []Component{{Path: paths[0]}})
	var perr *arpa.ParseError
	assert.ErrorAs(t, err, &perr)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	paths = writeModels(t, modelA)
	err = Loader{}.Load(ctx, []Component{{Path: paths[0]}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInterpolateEndToEnd(t *testing.T) {
	t.Parallel()
	paths := writeModels(t, modelA, modelB)
	comps, err := ParseComponents(paths[0] + ",0.7;" + paths[1] + ",0.3")
	require.NoError(t, err)
	require.NoError(t, Loader{}.Load(context.Background(), comps))

	out, err := Interpolate(comps)
	require.NoError(t, err)
	assert.Nil(t, comps[0].Model, "ownership moves to the caller")
	assert.Equal(t, treegram.Interpolated, out.Type())
	assert.Equal(t, []int{4, 2}, out.Counts(), "structure of the first model")

	outPath := filepath.Join(t.TempDir(), "out.arpa")
	require.NoError(t, arpa.WriteFile(outPath, out, nil))
	raw, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "\\interpolated\n\\data\\\n"))

	a, err := arpa.ReadFile(paths[0], vocab.New(), nil)
	require.NoError(t, err)
	b, err := arpa.ReadFile(paths[1], vocab.New(), nil)
	require.NoError(t, err)
	mixed, err := arpa.ReadFile(outPath, vocab.New(), nil)
	require.NoError(t, err)

	for _, w := range []string{"<s>", "y", "</s>"} {
		pa, pb := a.LogProb([]string{w}), b.LogProb([]string{w})
		n, ok := mixed.Lookup(mixed.WordIDs([]string{w}))
		require.True(t, ok, w)
		got := float64(n.LogProb)
		assert.GreaterOrEqual(t, got, math.Min(pa, pb)-1e-5, w)
		assert.LessOrEqual(t, got, math.Max(pa, pb)+1e-5, w)
	}

	want := math.Log10(0.7*math.Pow(10, -0.9) + 0.3*math.Pow(10, -0.7))
	n, _ := mixed.Lookup(mixed.WordIDs([]string{"y"}))
	assert.InDelta(t, want, float64(n.LogProb), 1e-5)

	// b has no x, so it backs off to its unigram for y
	want = math.Log10(0.7*math.Pow(10, -0.4) + 0.3*math.Pow(10, -0.7))
	assert.InDelta(t, want, mixed.LogProb([]string{"x", "y"}), 1e-5)

	_, ok := mixed.Vocab().ID("z")
	assert.False(t, ok, "words only the second model has are not written")
}

func TestInterpolateNeedsTwoModels(t *testing.T) {
	t.Parallel()
	_, err := Interpolate([]Component{{Path: "a", Weight: 1}})
	assert.ErrorIs(t, err, ErrComponents)

	_, err = Interpolate([]Component{{Path: "a", Weight: 1}, {Path: "b"}})
	assert.ErrorIs(t, err, ErrComponents)
}
