// Package octree implements a bounded, sparse voxel index over a cubic volume
// of discrete integer coordinates. Space is recursively partitioned into
// octants, so large uniform or empty regions are stored as a single node
// rather than one node per voxel. Each node is either an internal node which
// links to eight children, an empty node covering a region with no data, or a
// filled node holding one value valid across its entire region.
package octree

import (
	"fmt"
	"math/bits"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
)

// Each node in the octree is either an internal node which links to other
// nodes, is an empty node with no value or further links, or is a filled node
// which holds a single value valid over the node's entire region.
const (
	InternalNode = NodeType(iota)
	LeafNodeEmpty
	LeafNodeFilled
)

// NodeType represents the possible types of nodes in an octree.
type NodeType uint8

// Octree is a sparse spatial index storing values of type T at integer
// positions inside a cube of power-of-two side length. Reads and writes
// descend at most log2(dimension) levels. An Octree is not safe for
// concurrent mutation; the caller must synchronize if it shares one across
// goroutines.
type Octree[T comparable] struct {
	logger        golog.Logger
	root          *node[T]
	dimension     uint32
	autoSimplify  bool
	lodLevel      uint32
	minSideLength uint32
}

// New creates an empty octree covering the cube [0, dimension)³. The
// dimension must be a nonzero power of 2 so every recursive halving lands on
// an integer boundary.
func New[T comparable](dimension uint32, logger golog.Logger) (*Octree[T], error) {
	if dimension == 0 || dimension&(dimension-1) != 0 {
		return nil, errors.Wrapf(ErrInvalidDimension, "dimension %d", dimension)
	}

	return &Octree[T]{
		logger:        logger,
		root:          newLeafNodeEmpty[T](),
		dimension:     dimension,
		lodLevel:      1,
		minSideLength: 1,
	}, nil
}

// WithAutoSimplify configures whether every mutation attempts to merge
// uniform sibling regions along the path it touched. It does not retroactively
// simplify existing content; call Simplify for that. It returns the tree for
// chaining with New.
func (o *Octree[T]) WithAutoSimplify(enabled bool) *Octree[T] {
	o.autoSimplify = enabled
	return o
}

// Set stores a value at the given position, replacing whatever occupied that
// cell. It returns the previous value at the cell, if any. Setting a cell
// inside a region condensed into a single filled node first splits the region
// back into octants so the rest of it keeps its value.
func (o *Octree[T]) Set(p Position, v T) (T, bool, error) {
	var zero T
	if !o.Contains(p) {
		return zero, false, errors.Wrapf(ErrOutOfBounds, "position %v, dimension %d", p, o.dimension)
	}

	prev, hadPrev := o.root.set(p, o.dimension, o.minSideLength, v, o.autoSimplify)
	return prev, hadPrev, nil
}

// At returns the value stored at the given position, if any. A region
// condensed into a single filled node answers for every voxel it covers.
// At never mutates the tree.
func (o *Octree[T]) At(p Position) (T, bool, error) {
	var zero T
	if !o.Contains(p) {
		return zero, false, errors.Wrapf(ErrOutOfBounds, "position %v, dimension %d", p, o.dimension)
	}

	v, ok := o.root.at(p, o.dimension)
	return v, ok, nil
}

// ClearAt removes the value at the given position and returns it, if any.
// Internal nodes left with eight empty children collapse on the way back up,
// so clearing never leaves hollow structure behind.
func (o *Octree[T]) ClearAt(p Position) (T, bool, error) {
	var zero T
	if !o.Contains(p) {
		return zero, false, errors.Wrapf(ErrOutOfBounds, "position %v, dimension %d", p, o.dimension)
	}

	removed, had := o.root.clearAt(p, o.dimension, o.minSideLength, o.autoSimplify)
	return removed, had, nil
}

// Clear removes all values from the octree by releasing the whole tree at
// once rather than walking it cell by cell.
func (o *Octree[T]) Clear() {
	o.logger.Debugf("clearing octree with dimension %d", o.dimension)
	o.root = newLeafNodeEmpty[T]()
}

// Simplify runs one bottom-up pass over the whole tree, collapsing every
// internal node whose children are all empty, or all filled with the same
// value, into a single node. Useful after a burst of mutations made with
// auto-simplify disabled.
func (o *Octree[T]) Simplify() {
	o.root.simplify()
}

// Contains reports whether the given position lies within the cube covered by
// the octree.
func (o *Octree[T]) Contains(p Position) bool {
	return p.X < o.dimension && p.Y < o.dimension && p.Z < o.dimension
}

// Dimension returns the side length of the cube covered by the octree.
func (o *Octree[T]) Dimension() uint32 {
	return o.dimension
}

// Size returns the number of filled unit voxels. A filled node of side s
// counts as s³ voxels.
func (o *Octree[T]) Size() int {
	return int(o.root.countVoxels(o.dimension))
}

// LODDown coarsens the level of detail by one step: subsequent Set and
// ClearAt calls address cells of twice the previous side length, and every
// existing subtree at the new granularity is merged into a single node
// holding the most common value among the voxels it covers.
func (o *Octree[T]) LODDown() {
	level := o.lodLevel + 1
	if maxLevel := o.maxLODLevel(); level > maxLevel {
		level = maxLevel
	}
	if level == o.lodLevel {
		return
	}

	o.lodLevel = level
	o.minSideLength = uint32(1) << (level - 1)
	o.root.lod(o.dimension, o.minSideLength)
	o.logger.Debugf("octree lod level lowered to %d, leaf side length %d", o.lodLevel, o.minSideLength)
}

// LODUp refines the level of detail by one step, halving the side length of
// the cells addressed by Set and ClearAt. The structure itself does not
// change; coarse regions produced earlier stay condensed until overwritten.
func (o *Octree[T]) LODUp() {
	if o.lodLevel <= 1 {
		return
	}

	o.lodLevel--
	o.minSideLength = uint32(1) << (o.lodLevel - 1)
	o.logger.Debugf("octree lod level raised to %d, leaf side length %d", o.lodLevel, o.minSideLength)
}

// String returns a one-line debug summary of the octree.
func (o *Octree[T]) String() string {
	return fmt.Sprintf("octree of dimension %d holding %d voxels across %d nodes",
		o.dimension, o.Size(), o.root.countNodes())
}

// maxLODLevel is the coarsest usable level; at that level a cell spans half
// the cube. Dimension 1 has a single cell, hence a single level.
func (o *Octree[T]) maxLODLevel() uint32 {
	depth := uint32(bits.TrailingZeros32(o.dimension))
	if depth < 1 {
		return 1
	}
	return depth
}
