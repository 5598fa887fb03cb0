package octree

// numOctants is the number of children of every internal node.
const numOctants = 8

// node is a single cell of the tree covering a cube whose side length is
// implied by its depth; every recursive call halves the side it passes down.
// A filled node's value holds for the whole cube it covers.
type node[T comparable] struct {
	nodeType NodeType
	children []*node[T]
	value    T
}

func newLeafNodeEmpty[T comparable]() *node[T] {
	return &node[T]{nodeType: LeafNodeEmpty}
}

func newLeafNodeFilled[T comparable](v T) *node[T] {
	return &node[T]{nodeType: LeafNodeFilled, value: v}
}

func newInternalNode[T comparable](children []*node[T]) *node[T] {
	return &node[T]{nodeType: InternalNode, children: children}
}

// splitIntoOctants turns the node into an internal node with eight children.
// An empty node splits into eight empty children; a filled node pushes its
// value down into eight filled children so a later overwrite of one octant
// leaves the other seven intact.
func (n *node[T]) splitIntoOctants() {
	children := make([]*node[T], numOctants)
	for i := range children {
		if n.nodeType == LeafNodeFilled {
			children[i] = newLeafNodeFilled(n.value)
		} else {
			children[i] = newLeafNodeEmpty[T]()
		}
	}
	*n = *newInternalNode(children)
}

// set recursively stores v in the cell of side minSize containing p. It
// reports the value previously covering that cell, if any. When merge is set
// the unwind attempts a leaf merge at every level it passed through.
func (n *node[T]) set(p Position, size, minSize uint32, v T, merge bool) (T, bool) {
	if size == minSize {
		var prev T
		hadPrev := false
		if n.nodeType == LeafNodeFilled {
			prev, hadPrev = n.value, true
		}
		n.nodeType = LeafNodeFilled
		n.children = nil
		n.value = v
		return prev, hadPrev
	}

	if n.nodeType != InternalNode {
		n.splitIntoOctants()
	}

	prev, hadPrev := n.children[octantIndex(p, size)].set(p, size>>1, minSize, v, merge)
	if merge {
		n.mergeUniformLeaves()
	}
	return prev, hadPrev
}

// at recursively looks up the value covering p. A filled node answers
// immediately for every voxel in its cube.
func (n *node[T]) at(p Position, size uint32) (T, bool) {
	switch n.nodeType {
	case LeafNodeFilled:
		return n.value, true
	case InternalNode:
		return n.children[octantIndex(p, size)].at(p, size>>1)
	case LeafNodeEmpty:
	}

	var zero T
	return zero, false
}

// clearAt recursively empties the cell of side minSize containing p and
// reports the removed value, if any. Internal nodes whose children all became
// empty collapse unconditionally on the unwind; the leaf merge additionally
// runs when merge is set.
func (n *node[T]) clearAt(p Position, size, minSize uint32, merge bool) (T, bool) {
	var zero T
	if n.nodeType == LeafNodeEmpty {
		return zero, false
	}

	if size == minSize {
		var removed T
		hadValue := false
		if n.nodeType == LeafNodeFilled {
			removed, hadValue = n.value, true
		}
		n.collapse()
		return removed, hadValue
	}

	if n.nodeType == LeafNodeFilled {
		n.splitIntoOctants()
	}

	removed, hadValue := n.children[octantIndex(p, size)].clearAt(p, size>>1, minSize, merge)
	n.collapseIfEmpty()
	if merge {
		n.mergeUniformLeaves()
	}
	return removed, hadValue
}

// simplify performs a full bottom-up pass: children first, then this node
// collapses if its children are all empty or merges if they are all filled
// with the same value.
func (n *node[T]) simplify() {
	if n.nodeType != InternalNode {
		return
	}

	for _, child := range n.children {
		child.simplify()
	}
	n.collapseIfEmpty()
	n.mergeUniformLeaves()
}

// collapseIfEmpty turns an internal node with eight empty children back into
// a single empty node.
func (n *node[T]) collapseIfEmpty() {
	if n.nodeType != InternalNode {
		return
	}
	for _, child := range n.children {
		if child.nodeType != LeafNodeEmpty {
			return
		}
	}

	n.nodeType = LeafNodeEmpty
	n.children = nil
}

// mergeUniformLeaves turns an internal node whose eight children are filled
// with the same value into a single filled node holding that value.
func (n *node[T]) mergeUniformLeaves() {
	if n.nodeType != InternalNode {
		return
	}
	first := n.children[0]
	if first.nodeType != LeafNodeFilled {
		return
	}
	for _, child := range n.children[1:] {
		if child.nodeType != LeafNodeFilled || child.value != first.value {
			return
		}
	}

	n.nodeType = LeafNodeFilled
	n.children = nil
	n.value = first.value
}

// lod condenses every subtree whose cube has side minSize into a single node
// holding the most common value among the voxels it covers, leaving entirely
// empty subtrees empty. Above that granularity it merges whatever became
// uniform.
func (n *node[T]) lod(size, minSize uint32) {
	if n.nodeType != InternalNode {
		return
	}

	if size <= minSize {
		if v, ok := n.mostCommonValue(size); ok {
			n.nodeType = LeafNodeFilled
			n.children = nil
			n.value = v
		} else {
			n.collapse()
		}
		return
	}

	for _, child := range n.children {
		child.lod(size>>1, minSize)
	}
	n.collapseIfEmpty()
	n.mergeUniformLeaves()
}

// mostCommonValue tallies the values stored below this node weighted by the
// number of voxels each covers, returning the winner. Ties go to the value
// encountered first in octant order.
func (n *node[T]) mostCommonValue(size uint32) (T, bool) {
	counts := make(map[T]uint64)
	var order []T
	n.tally(size, counts, &order)

	var zero T
	var best T
	var bestCount uint64
	for _, v := range order {
		if counts[v] > bestCount {
			best, bestCount = v, counts[v]
		}
	}
	if bestCount == 0 {
		return zero, false
	}
	return best, true
}

func (n *node[T]) tally(size uint32, counts map[T]uint64, order *[]T) {
	switch n.nodeType {
	case LeafNodeFilled:
		if _, seen := counts[n.value]; !seen {
			*order = append(*order, n.value)
		}
		counts[n.value] += cubeVolume(size)
	case InternalNode:
		for _, child := range n.children {
			child.tally(size>>1, counts, order)
		}
	case LeafNodeEmpty:
	}
}

// collapse turns the node into an empty node, dropping any subtree below it.
func (n *node[T]) collapse() {
	var zero T
	n.nodeType = LeafNodeEmpty
	n.children = nil
	n.value = zero
}

// countVoxels returns the number of filled unit voxels below this node.
func (n *node[T]) countVoxels(size uint32) uint64 {
	switch n.nodeType {
	case LeafNodeFilled:
		return cubeVolume(size)
	case InternalNode:
		var total uint64
		for _, child := range n.children {
			total += child.countVoxels(size >> 1)
		}
		return total
	case LeafNodeEmpty:
	}
	return 0
}

// countNodes returns the number of nodes in the subtree, this node included.
func (n *node[T]) countNodes() int {
	total := 1
	for _, child := range n.children {
		total += child.countNodes()
	}
	return total
}

func cubeVolume(side uint32) uint64 {
	s := uint64(side)
	return s * s * s
}
