// Package treegram stores back-off n-gram language models as a prefix tree
// keyed by word-id sequences.
//
// A tree is built in one pass: grams are appended order by order, and within
// an order in ascending lexicographic word-id order (see GramSorter). After
// Finalize the structure is fixed; only ApproximateInterpolate rewrites node
// values in place.
package treegram

import (
	"errors"
	"fmt"
	"sort"

	"github.com/samcharles93/treegram/internal/vocab"
)

var (
	ErrSealed        = errors.New("treegram: tree is finalized")
	ErrOrder         = errors.New("treegram: gram order out of range")
	ErrUnsorted      = errors.New("treegram: gram out of order or duplicated")
	ErrPrefixMissing = errors.New("treegram: gram prefix not in tree")
	ErrNotFinalized  = errors.New("treegram: tree is not finalized")
	ErrVocabMismatch = errors.New("treegram: vocabularies differ")
	ErrWeight        = errors.New("treegram: interpolation weight outside [0,1]")
)

// MinLogProb stands in for log10(0).
const MinLogProb = -99

// Gram is a sequence of word ids.
type Gram []int

// Compare orders grams lexicographically by word id.
func (g Gram) Compare(other Gram) int {
	n := min(len(g), len(other))
	for i := 0; i < n; i++ {
		switch {
		case g[i] < other[i]:
			return -1
		case g[i] > other[i]:
			return 1
		}
	}
	switch {
	case len(g) < len(other):
		return -1
	case len(g) > len(other):
		return 1
	}
	return 0
}

// Type tells where the node values of a tree came from.
type Type int

const (
	// Backoff trees hold an estimated back-off model as read.
	Backoff Type = iota
	// Interpolated trees hold values blended from two models by
	// ApproximateInterpolate. Nodes still store complete conditional
	// log-probabilities, but these may drift above 0, so writers recompute
	// and clamp them.
	Interpolated
)

func (t Type) String() string {
	switch t {
	case Backoff:
		return "backoff"
	case Interpolated:
		return "interpolated"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Node is one gram in the tree. Its children, if any, are the contiguous
// range [Child, Child+NumChildren) of the next level.
type Node struct {
	Word        int
	LogProb     float32
	BackOff     float32
	Parent      int32
	Child       int32
	NumChildren int32
}

// HasChildren reports whether some gram of the next order extends this one.
func (n Node) HasChildren() bool { return n.NumChildren > 0 }

// TreeGram is an n-gram model of fixed maximum order.
type TreeGram struct {
	vocab  *vocab.Vocabulary
	typ    Type
	order  int
	levels [][]Node
	sealed bool

	// insertion cursor: last order written and last parent used per level
	curOrder  int
	curParent []int
}

// New returns an empty tree of the given maximum order that resolves words
// through v. The tree takes ownership of v.
func New(order int, v *vocab.Vocabulary) *TreeGram {
	if order < 1 {
		panic(fmt.Sprintf("treegram: invalid order %d", order))
	}
	if v == nil {
		v = vocab.New()
	}
	parents := make([]int, order)
	for i := range parents {
		parents[i] = -1
	}
	return &TreeGram{
		vocab:     v,
		order:     order,
		levels:    make([][]Node, order),
		curParent: parents,
	}
}

// ReserveNodes grows capacity for n nodes in total, spread evenly over
// the orders.
func (t *TreeGram) ReserveNodes(n int) {
	for k := 1; k <= t.order; k++ {
		t.ReserveOrder(k, n/t.order)
	}
}

// ReserveOrder grows capacity of one order for n more nodes.
func (t *TreeGram) ReserveOrder(order, n int) {
	if n <= 0 || order < 1 || order > t.order || t.sealed {
		return
	}
	lvl := t.levels[order-1]
	if cap(lvl)-len(lvl) >= n {
		return
	}
	grown := make([]Node, len(lvl), len(lvl)+n)
	copy(grown, lvl)
	t.levels[order-1] = grown
}

func (t *TreeGram) Order() int { return t.order }

func (t *TreeGram) Type() Type { return t.typ }

func (t *TreeGram) SetType(typ Type) { t.typ = typ }

// Vocab returns the vocabulary the tree resolves words through.
func (t *TreeGram) Vocab() *vocab.Vocabulary { return t.vocab }

// AddWord returns the id of token, adding it to the vocabulary if needed.
func (t *TreeGram) AddWord(token string) int { return t.vocab.AddWord(token) }

func (t *TreeGram) Word(id int) string { return t.vocab.Word(id) }

func (t *TreeGram) Finalized() bool { return t.sealed }

// GramCount returns the number of grams of the given order.
func (t *TreeGram) GramCount(order int) int {
	if order < 1 || order > t.order {
		return 0
	}
	return len(t.levels[order-1])
}

// Counts returns the per-order gram counts, index 0 being unigrams.
func (t *TreeGram) Counts() []int {
	out := make([]int, t.order)
	for k := range t.levels {
		out[k] = len(t.levels[k])
	}
	return out
}

// AddGram appends a gram. Grams must arrive order by order and, within an
// order, in ascending lexicographic order; every gram of order k > 1 needs
// its order k-1 prefix already present.
func (t *TreeGram) AddGram(gram Gram, logProb, backOff float32) error {
	if t.sealed {
		return ErrSealed
	}
	k := len(gram)
	if k < 1 || k > t.order {
		return fmt.Errorf("%w: %d-gram in order %d tree", ErrOrder, k, t.order)
	}
	if k < t.curOrder {
		return fmt.Errorf("%w: %d-gram after %d-grams", ErrUnsorted, k, t.curOrder)
	}

	parent := -1
	if k > 1 {
		p, ok := t.find(gram[:k-1])
		if !ok {
			return fmt.Errorf("%w: %v", ErrPrefixMissing, gram)
		}
		parent = p
	}

	lvl := t.levels[k-1]
	if parent < t.curParent[k-1] {
		return fmt.Errorf("%w: %v", ErrUnsorted, gram)
	}
	last := gram[k-1]
	if parent == t.curParent[k-1] && len(lvl) > 0 && lvl[len(lvl)-1].Word >= last {
		return fmt.Errorf("%w: %v", ErrUnsorted, gram)
	}

	idx := int32(len(lvl))
	if k > 1 {
		pn := &t.levels[k-2][parent]
		if pn.NumChildren == 0 {
			pn.Child = idx
		}
		pn.NumChildren++
	}
	t.levels[k-1] = append(lvl, Node{
		Word:    last,
		LogProb: logProb,
		BackOff: backOff,
		Parent:  int32(parent),
	})
	t.curParent[k-1] = parent
	t.curOrder = k
	return nil
}

// Finalize seals the tree against further insertion and drops spare capacity.
func (t *TreeGram) Finalize() {
	if t.sealed {
		return
	}
	for k, lvl := range t.levels {
		if cap(lvl) > len(lvl) {
			t.levels[k] = append([]Node(nil), lvl...)
		}
	}
	t.sealed = true
	t.curParent = nil
}

// Lookup returns the node for gram.
func (t *TreeGram) Lookup(gram Gram) (Node, bool) {
	k := len(gram)
	if k < 1 || k > t.order {
		return Node{}, false
	}
	idx, ok := t.find(gram)
	if !ok {
		return Node{}, false
	}
	return t.levels[k-1][idx], true
}

// find returns the index of gram within its level.
func (t *TreeGram) find(gram Gram) (int, bool) {
	lo, hi := 0, len(t.levels[0])
	idx := -1
	for k, w := range gram {
		if k >= t.order {
			return 0, false
		}
		lvl := t.levels[k]
		span := lvl[lo:hi]
		i := sort.Search(len(span), func(i int) bool { return span[i].Word >= w })
		if i == len(span) || span[i].Word != w {
			return 0, false
		}
		idx = lo + i
		if k+1 < len(gram) {
			n := lvl[idx]
			lo, hi = int(n.Child), int(n.Child+n.NumChildren)
		}
	}
	return idx, idx >= 0
}

// path rebuilds the gram of the node at (order, idx).
func (t *TreeGram) path(order, idx int, dst Gram) Gram {
	if cap(dst) < order {
		dst = make(Gram, order)
	}
	dst = dst[:order]
	for k := order; k >= 1; k-- {
		n := t.levels[k-1][idx]
		dst[k-1] = n.Word
		idx = int(n.Parent)
	}
	return dst
}
