package octree

import "github.com/pkg/errors"

var (
	// ErrInvalidDimension is returned by New when the requested dimension is
	// zero or not a power of 2.
	ErrInvalidDimension = errors.New("octree dimension must be a nonzero power of 2")

	// ErrOutOfBounds is returned when a position lies outside the cube covered
	// by the octree. The tree is never mutated by a rejected operation.
	ErrOutOfBounds = errors.New("position is outside the bounds of this octree")
)
