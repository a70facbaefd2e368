package treegram

import "fmt"

// Iterator walks every node of one order in traversal order. For each node
// it exposes the ancestors on its path, so callers can spell out the gram.
//
//	it := NewIterator(tree)
//	for it.Next(2) {
//		words := it.Gram()
//		...
//	}
type Iterator struct {
	tree  *TreeGram
	order int
	pos   int
	path  []int
}

// NewIterator returns an iterator positioned before the first node.
func NewIterator(t *TreeGram) *Iterator {
	return &Iterator{tree: t, pos: -1}
}

// Reset rewinds the iterator so Next starts over.
func (it *Iterator) Reset() {
	it.order = 0
	it.pos = -1
}

// Next advances to the next node of the given order and reports whether
// one exists. Switching order rewinds to the first node of that order.
func (it *Iterator) Next(order int) bool {
	if order < 1 || order > it.tree.order {
		return false
	}
	if order != it.order {
		it.order = order
		it.pos = -1
	}
	it.pos++
	if it.pos >= len(it.tree.levels[order-1]) {
		it.pos = len(it.tree.levels[order-1])
		return false
	}
	it.fillPath()
	return true
}

func (it *Iterator) fillPath() {
	if cap(it.path) < it.order {
		it.path = make([]int, it.order)
	}
	it.path = it.path[:it.order]
	idx := it.pos
	for k := it.order; k >= 1; k-- {
		it.path[k-1] = idx
		idx = int(it.tree.levels[k-1][idx].Parent)
	}
}

// Node returns the depth-j node on the current path; Node(order) is the
// current node itself.
func (it *Iterator) Node(j int) Node {
	it.mustBePositioned()
	if j < 1 || j > it.order {
		panic(fmt.Sprintf("treegram: iterator depth %d outside [1,%d]", j, it.order))
	}
	return it.tree.levels[j-1][it.path[j-1]]
}

// Current is Node(order).
func (it *Iterator) Current() Node { return it.Node(it.order) }

// HasChildren reports whether the current node has children.
func (it *Iterator) HasChildren() bool { return it.Current().HasChildren() }

// Gram returns the word ids on the current path. The slice is fresh.
func (it *Iterator) Gram() Gram {
	it.mustBePositioned()
	g := make(Gram, it.order)
	for j := range g {
		g[j] = it.tree.levels[j][it.path[j]].Word
	}
	return g
}

// Index returns the position of the current node within its level.
func (it *Iterator) Index() int {
	it.mustBePositioned()
	return it.pos
}

func (it *Iterator) mustBePositioned() {
	if it.order == 0 || it.pos < 0 || it.pos >= len(it.tree.levels[it.order-1]) {
		panic("treegram: iterator is not positioned on a node")
	}
}
