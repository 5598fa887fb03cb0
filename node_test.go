package octree

import (
	"testing"

	"go.viam.com/test"
)

// Test creation of empty leaf node, filled leaf node and internal node.
func TestNodeCreation(t *testing.T) {
	t.Run("create empty leaf node", func(t *testing.T) {
		n := newLeafNodeEmpty[int]()

		test.That(t, n.nodeType, test.ShouldResemble, LeafNodeEmpty)
		test.That(t, n.value, test.ShouldEqual, 0)
		test.That(t, n.children, test.ShouldBeNil)
	})

	t.Run("create filled leaf node", func(t *testing.T) {
		n := newLeafNodeFilled(7)

		test.That(t, n.nodeType, test.ShouldResemble, LeafNodeFilled)
		test.That(t, n.value, test.ShouldEqual, 7)
		test.That(t, n.children, test.ShouldBeNil)
	})

	t.Run("create internal node", func(t *testing.T) {
		children := []*node[int]{newLeafNodeEmpty[int]()}
		n := newInternalNode(children)

		test.That(t, n.nodeType, test.ShouldResemble, InternalNode)
		test.That(t, n.value, test.ShouldEqual, 0)
		test.That(t, n.children, test.ShouldResemble, children)
	})
}

// Tests that splitting an empty node yields eight empty children while
// splitting a filled node pushes its value down into eight filled children.
func TestSplitIntoOctants(t *testing.T) {
	t.Run("splitting an empty node", func(t *testing.T) {
		n := newLeafNodeEmpty[int]()
		n.splitIntoOctants()

		test.That(t, n.nodeType, test.ShouldResemble, InternalNode)
		test.That(t, len(n.children), test.ShouldEqual, 8)
		for _, child := range n.children {
			test.That(t, child.nodeType, test.ShouldResemble, LeafNodeEmpty)
		}
	})

	t.Run("splitting a filled node", func(t *testing.T) {
		n := newLeafNodeFilled(3)
		n.splitIntoOctants()

		test.That(t, n.nodeType, test.ShouldResemble, InternalNode)
		test.That(t, n.value, test.ShouldEqual, 0)
		test.That(t, len(n.children), test.ShouldEqual, 8)
		for _, child := range n.children {
			test.That(t, child.nodeType, test.ShouldResemble, LeafNodeFilled)
			test.That(t, child.value, test.ShouldEqual, 3)
		}
	})
}

func TestMergeAndCollapse(t *testing.T) {
	t.Run("eight empty children collapse unconditionally", func(t *testing.T) {
		n := newLeafNodeEmpty[int]()
		n.splitIntoOctants()
		n.collapseIfEmpty()

		test.That(t, n.nodeType, test.ShouldResemble, LeafNodeEmpty)
		test.That(t, n.children, test.ShouldBeNil)
	})

	t.Run("eight equal filled children merge into one", func(t *testing.T) {
		n := newLeafNodeFilled(4)
		n.splitIntoOctants()
		n.mergeUniformLeaves()

		test.That(t, n.nodeType, test.ShouldResemble, LeafNodeFilled)
		test.That(t, n.value, test.ShouldEqual, 4)
		test.That(t, n.children, test.ShouldBeNil)
	})

	t.Run("differing children do not merge", func(t *testing.T) {
		n := newLeafNodeFilled(4)
		n.splitIntoOctants()
		n.children[3].value = 5
		n.mergeUniformLeaves()

		test.That(t, n.nodeType, test.ShouldResemble, InternalNode)
	})

	t.Run("a lone empty child blocks the merge", func(t *testing.T) {
		n := newLeafNodeFilled(4)
		n.splitIntoOctants()
		n.children[6] = newLeafNodeEmpty[int]()
		n.mergeUniformLeaves()
		n.collapseIfEmpty()

		test.That(t, n.nodeType, test.ShouldResemble, InternalNode)
	})
}

func TestMostCommonValue(t *testing.T) {
	t.Run("weighted by covered voxels", func(t *testing.T) {
		// One filled child of side 2 outweighs three unit leaves deeper down.
		n := newLeafNodeEmpty[int]()
		n.splitIntoOctants()
		n.children[0] = newLeafNodeFilled(1)
		n.children[1].splitIntoOctants()
		for i := 0; i < 3; i++ {
			n.children[1].children[i] = newLeafNodeFilled(2)
		}

		v, ok := n.mostCommonValue(4)
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, v, test.ShouldEqual, 1)
	})

	t.Run("ties go to the value seen first in octant order", func(t *testing.T) {
		n := newLeafNodeEmpty[int]()
		n.splitIntoOctants()
		n.children[2] = newLeafNodeFilled(9)
		n.children[5] = newLeafNodeFilled(6)

		v, ok := n.mostCommonValue(2)
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, v, test.ShouldEqual, 9)
	})

	t.Run("empty subtree has no value", func(t *testing.T) {
		n := newLeafNodeEmpty[int]()
		n.splitIntoOctants()

		_, ok := n.mostCommonValue(2)
		test.That(t, ok, test.ShouldBeFalse)
	})
}

func TestOctants(t *testing.T) {
	t.Run("offsets pack one bit per axis", func(t *testing.T) {
		test.That(t, LeftRearBase.Offset(), test.ShouldResemble, Position{X: 0, Y: 0, Z: 0})
		test.That(t, RightRearBase.Offset(), test.ShouldResemble, Position{X: 1, Y: 0, Z: 0})
		test.That(t, LeftFrontBase.Offset(), test.ShouldResemble, Position{X: 0, Y: 1, Z: 0})
		test.That(t, RightFrontBase.Offset(), test.ShouldResemble, Position{X: 1, Y: 1, Z: 0})
		test.That(t, LeftRearTop.Offset(), test.ShouldResemble, Position{X: 0, Y: 0, Z: 1})
		test.That(t, RightRearTop.Offset(), test.ShouldResemble, Position{X: 1, Y: 0, Z: 1})
		test.That(t, LeftFrontTop.Offset(), test.ShouldResemble, Position{X: 0, Y: 1, Z: 1})
		test.That(t, RightFrontTop.Offset(), test.ShouldResemble, Position{X: 1, Y: 1, Z: 1})
	})

	t.Run("index selection matches offsets at every scale", func(t *testing.T) {
		for _, size := range []uint32{2, 4, 32} {
			half := size >> 1
			for oct := LeftRearBase; oct <= RightFrontTop; oct++ {
				offset := oct.Offset()
				p := Position{X: offset.X * half, Y: offset.Y * half, Z: offset.Z * half}
				test.That(t, octantIndex(p, size), test.ShouldEqual, oct)
			}
		}
	})

	t.Run("strings name the corners", func(t *testing.T) {
		test.That(t, LeftRearBase.String(), test.ShouldEqual, "left rear base")
		test.That(t, RightFrontTop.String(), test.ShouldEqual, "right front top")
		test.That(t, Octant(8).String(), test.ShouldEqual, "invalid octant 8")
	})
}
