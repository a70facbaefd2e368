package vocab

import (
	"errors"
	"fmt"
)

// DefaultOOV is the token a new Vocabulary uses for id 0.
const DefaultOOV = "<UNK>"

// OOVID is the id reserved for the out-of-vocabulary token.
const OOVID = 0

var ErrDuplicateWord = errors.New("vocab: word already present")

// Vocabulary is a bidirectional mapping between words and integer ids.
// Ids are dense and assigned in insertion order; id 0 always names the
// OOV token.
type Vocabulary struct {
	words []string
	ids   map[string]int
}

// New returns a Vocabulary holding only the default OOV token.
func New() *Vocabulary {
	return &Vocabulary{
		words: []string{DefaultOOV},
		ids:   map[string]int{DefaultOOV: OOVID},
	}
}

// SetOOV renames the token at id 0.
func (v *Vocabulary) SetOOV(token string) error {
	if id, ok := v.ids[token]; ok {
		if id == OOVID {
			return nil
		}
		return fmt.Errorf("%w: %q has id %d", ErrDuplicateWord, token, id)
	}
	delete(v.ids, v.words[OOVID])
	v.words[OOVID] = token
	v.ids[token] = OOVID
	return nil
}

// OOV returns the token at id 0.
func (v *Vocabulary) OOV() string { return v.words[OOVID] }

// AddWord returns the id of word, allocating the next id if it is new.
func (v *Vocabulary) AddWord(word string) int {
	if id, ok := v.ids[word]; ok {
		return id
	}
	id := len(v.words)
	v.words = append(v.words, word)
	v.ids[word] = id
	return id
}

// ID looks up word without modifying the vocabulary.
func (v *Vocabulary) ID(word string) (int, bool) {
	id, ok := v.ids[word]
	return id, ok
}

// WordID is like ID but maps unknown words to the OOV id.
func (v *Vocabulary) WordID(word string) int {
	if id, ok := v.ids[word]; ok {
		return id
	}
	return OOVID
}

// Word returns the token for id, or "" when id was never assigned.
func (v *Vocabulary) Word(id int) string {
	if id < 0 || id >= len(v.words) {
		return ""
	}
	return v.words[id]
}

// Len returns the number of assigned ids, OOV included.
func (v *Vocabulary) Len() int { return len(v.words) }

// Words returns a copy of the id-ordered word list.
func (v *Vocabulary) Words() []string {
	return append([]string(nil), v.words...)
}

// CopyTo merges the words of v missing from dst into dst, in v's id order.
// Ids already assigned in dst are never changed and the OOV slot is left
// alone, so repeated copies from the same source are no-ops.
func (v *Vocabulary) CopyTo(dst *Vocabulary) {
	if dst == v {
		return
	}
	for _, w := range v.words[OOVID+1:] {
		dst.AddWord(w)
	}
}

// Equal reports whether both vocabularies assign the same id to every word.
func (v *Vocabulary) Equal(other *Vocabulary) bool {
	if len(v.words) != len(other.words) {
		return false
	}
	for i, w := range v.words {
		if other.words[i] != w {
			return false
		}
	}
	return true
}
