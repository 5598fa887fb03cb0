package octree

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// Position is a discrete coordinate inside the cube covered by an octree.
// The octree addresses the voxel [X, X+1) × [Y, Y+1) × [Z, Z+1).
type Position struct {
	X, Y, Z uint32
}

// PositionFromVector voxelizes a continuous point by flooring each component.
// Components must be non-negative and small enough to survive the uint32
// conversion; continuous points typically come straight from a pointcloud.
func PositionFromVector(v r3.Vector) (Position, error) {
	x := math.Floor(v.X)
	y := math.Floor(v.Y)
	z := math.Floor(v.Z)
	if x < 0 || y < 0 || z < 0 {
		return Position{}, errors.Errorf("cannot voxelize vector (%v, %v, %v) with negative components", v.X, v.Y, v.Z)
	}
	if x > math.MaxUint32 || y > math.MaxUint32 || z > math.MaxUint32 {
		return Position{}, errors.Errorf("cannot voxelize vector (%v, %v, %v), components overflow", v.X, v.Y, v.Z)
	}

	return Position{X: uint32(x), Y: uint32(y), Z: uint32(z)}, nil
}

// Vector returns the corner of the voxel as a continuous point.
func (p Position) Vector() r3.Vector {
	return r3.Vector{X: float64(p.X), Y: float64(p.Y), Z: float64(p.Z)}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d, %d)", p.X, p.Y, p.Z)
}
