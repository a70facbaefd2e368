package arpa

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samcharles93/treegram/internal/logger"
	"github.com/samcharles93/treegram/internal/treegram"
	"github.com/samcharles93/treegram/internal/vocab"
)

func writeString(t *testing.T, tree *treegram.TreeGram, log logger.Logger) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf, log).Write(tree))
	return buf.String()
}

func TestWriteCanonicalOrder(t *testing.T) {
	t.Parallel()
	in := `\data\
ngram 1=3
ngram 2=1

\1-grams:
-0.5 b
-0.25 a -0.125
-1 <UNK>

\2-grams:
-0.75 a b

\end\
`
	want := `\data\
ngram 1=3
ngram 2=1

\1-grams:
-1 <UNK>
-0.5 b
-0.25 a -0.125

\2-grams:
-0.75 a b

\end\
`
	tree, err := readString(t, in, nil)
	require.NoError(t, err)
	assert.Equal(t, want, writeString(t, tree, nil))
}

type record struct {
	logProb, backOff float32
	children         bool
}

func records(t *testing.T, tree *treegram.TreeGram) map[string]record {
	t.Helper()
	out := make(map[string]record)
	it := treegram.NewIterator(tree)
	for k := 1; k <= tree.Order(); k++ {
		for it.Next(k) {
			n := it.Current()
			out[spell(tree, it.Gram())] = record{n.LogProb, n.BackOff, n.HasChildren()}
		}
	}
	return out
}

func TestWriteReadRoundTrip(t *testing.T) {
	t.Parallel()
	first, err := readString(t, trigramARPA, nil)
	require.NoError(t, err)

	text := writeString(t, first, nil)
	second, err := readString(t, text, nil)
	require.NoError(t, err)

	assert.Equal(t, first.Counts(), second.Counts())
	assert.Equal(t, records(t, first), records(t, second))

	// back-off column only where the node has children; </s> never has any
	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(line, "</s>") {
			assert.NotRegexp(t, `</s>\s+-`, line)
		}
	}
	assert.Contains(t, text, "-0.6 b a\n")
	assert.Contains(t, text, "-0.3 a b -0.2\n")
	assert.Contains(t, text, "-0.2 <s> a b\n")
}

func TestWriteInterpolatedResolvesAndClamps(t *testing.T) {
	t.Parallel()
	tree := treegram.New(2, vocab.New())
	a := tree.AddWord("a")
	b := tree.AddWord("b")
	require.NoError(t, tree.AddGram(treegram.Gram{a}, 0.1, -0.5))
	require.NoError(t, tree.AddGram(treegram.Gram{b}, -1, 0))
	require.NoError(t, tree.AddGram(treegram.Gram{a, b}, -2, 0))
	tree.SetType(treegram.Interpolated)
	tree.Finalize()

	var logs bytes.Buffer
	text := writeString(t, tree, logger.JSON(&logs, slog.LevelWarn))

	assert.True(t, strings.HasPrefix(text, "\\interpolated\n\\data\\\n"))
	assert.Contains(t, text, "\n0 a -0.5\n")
	assert.Contains(t, text, "\n-1 b\n")
	assert.Contains(t, logs.String(), `"ngram":"a"`)
	assert.Contains(t, logs.String(), "logprob > 0")
	assert.Contains(t, text, "\n-2 a b\n")

	// reading back resolves every written gram to its clamped value
	again, err := readString(t, text, nil)
	require.NoError(t, err)
	assert.Equal(t, treegram.Interpolated, again.Type())
	for _, words := range [][]string{{"a"}, {"b"}, {"a", "b"}} {
		want := tree.LogProb(words)
		if want > 0 {
			want = 0
		}
		assert.InDelta(t, want, again.LogProb(words), 1e-6, "%v", words)
	}

	// and writing it again changes nothing
	var quiet bytes.Buffer
	assert.Equal(t, text, writeString(t, again, logger.JSON(&quiet, slog.LevelWarn)))
	assert.Empty(t, quiet.String())
}

func TestWriteFileGzipRoundTrip(t *testing.T) {
	t.Parallel()
	tree, err := readString(t, trigramARPA, nil)
	require.NoError(t, err)

	for _, name := range []string{"model.arpa", "model.arpa.gz"} {
		path := filepath.Join(t.TempDir(), name)
		require.NoError(t, WriteFile(path, tree, nil))

		again, err := ReadFile(path, vocab.New(), nil)
		require.NoError(t, err, name)
		assert.Equal(t, records(t, tree), records(t, again), name)
	}
}

func TestReadFileMissing(t *testing.T) {
	t.Parallel()
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.arpa"), vocab.New(), nil)
	assert.Error(t, err)
}
