package treegram

import (
	"fmt"
	"slices"
)

// Data is the payload stored with each gram.
type Data struct {
	LogProb float32
	BackOff float32
}

// GramSorter stages the grams of one order and yields them in the order
// AddGram requires: ascending lexicographic by word id, which is the order
// a depth-first walk of the tree visits them.
type GramSorter struct {
	order  int
	words  []int
	data   []Data
	sorted bool
}

// NewGramSorter returns a sorter for grams of the given order. expected is
// a capacity hint.
func NewGramSorter(order, expected int) *GramSorter {
	if order < 1 {
		panic(fmt.Sprintf("treegram: invalid sorter order %d", order))
	}
	if expected < 0 {
		expected = 0
	}
	return &GramSorter{
		order: order,
		words: make([]int, 0, expected*order),
		data:  make([]Data, 0, expected),
	}
}

// Order returns the gram length this sorter accepts.
func (s *GramSorter) Order() int { return s.order }

// Add appends a gram. The gram is copied.
func (s *GramSorter) Add(gram Gram, logProb, backOff float32) {
	if len(gram) != s.order {
		panic(fmt.Sprintf("treegram: %d-gram added to order %d sorter", len(gram), s.order))
	}
	s.words = append(s.words, gram...)
	s.data = append(s.data, Data{LogProb: logProb, BackOff: backOff})
	s.sorted = false
}

// Len returns the number of grams added.
func (s *GramSorter) Len() int { return len(s.data) }

// Sort establishes lexicographic order. It is stable, so equal grams keep
// their insertion order, and calling it again is a no-op.
func (s *GramSorter) Sort() {
	if s.sorted {
		return
	}
	n := len(s.data)
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	slices.SortStableFunc(perm, func(a, b int) int {
		return s.rawGram(a).Compare(s.rawGram(b))
	})

	words := make([]int, 0, len(s.words))
	data := make([]Data, 0, n)
	for _, i := range perm {
		words = append(words, s.rawGram(i)...)
		data = append(data, s.data[i])
	}
	s.words = words
	s.data = data
	s.sorted = true
}

// Data returns the payload of the i-th gram in sorted order.
func (s *GramSorter) Data(i int) Data {
	s.check(i)
	return s.data[i]
}

// Gram returns the i-th gram in sorted order. The slice aliases the sorter
// and must not be modified.
func (s *GramSorter) Gram(i int) Gram {
	s.check(i)
	return s.rawGram(i)
}

func (s *GramSorter) rawGram(i int) Gram {
	off := i * s.order
	return Gram(s.words[off : off+s.order : off+s.order])
}

func (s *GramSorter) check(i int) {
	if !s.sorted {
		panic("treegram: GramSorter accessed before Sort")
	}
	if i < 0 || i >= len(s.data) {
		panic(fmt.Sprintf("treegram: GramSorter index %d out of range [0,%d)", i, len(s.data)))
	}
}
