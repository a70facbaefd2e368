package treegram

import "github.com/samcharles93/treegram/internal/vocab"

const (
	SentenceStart = "<s>"
	SentenceEnd   = "</s>"
)

// ResolveLogProb returns log10 P(w_k | w_1..w_k-1) for gram = w_1..w_k,
// resolving absent grams through the model's back-off chain. Grams longer
// than the model order are truncated to their last Order() words.
//
// Both model types store complete conditional probabilities, so the same
// chain serves both. It reads node values directly and never consults
// anything layered above the tree.
func (t *TreeGram) ResolveLogProb(gram Gram) float64 {
	if len(gram) == 0 {
		return MinLogProb
	}
	if len(gram) > t.order {
		gram = gram[len(gram)-t.order:]
	}
	var bo float64
	for start := 0; start < len(gram); start++ {
		suffix := gram[start:]
		if n, ok := t.Lookup(suffix); ok {
			return float64(n.LogProb) + bo
		}
		if len(suffix) > 1 {
			if ctx, ok := t.Lookup(suffix[:len(suffix)-1]); ok {
				bo += float64(ctx.BackOff)
			}
		}
	}
	return bo + t.unknownLogProb()
}

// unknownLogProb is the unigram estimate for a word the model has no
// unigram for: the OOV unigram when present.
func (t *TreeGram) unknownLogProb() float64 {
	if n, ok := t.Lookup(Gram{vocab.OOVID}); ok {
		return float64(n.LogProb)
	}
	return MinLogProb
}

// WordIDs maps words to ids, sending unknown words to the OOV id.
func (t *TreeGram) WordIDs(words []string) Gram {
	g := make(Gram, len(words))
	for i, w := range words {
		g[i] = t.vocab.WordID(w)
	}
	return g
}

// LogProb resolves the last word of words given the preceding ones.
func (t *TreeGram) LogProb(words []string) float64 {
	return t.ResolveLogProb(t.WordIDs(words))
}

// SentenceLogProb returns the log10 probability of a sentence. <s> and </s>
// are added around words and each word is conditioned on at most Order()-1
// preceding words.
func (t *TreeGram) SentenceLogProb(words []string) float64 {
	seq := make(Gram, 0, len(words)+2)
	seq = append(seq, t.vocab.WordID(SentenceStart))
	seq = append(seq, t.WordIDs(words)...)
	seq = append(seq, t.vocab.WordID(SentenceEnd))

	total := 0.0
	for i := 1; i < len(seq); i++ {
		start := max(0, i+1-t.order)
		total += t.ResolveLogProb(seq[start : i+1])
	}
	return total
}
