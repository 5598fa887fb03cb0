package octree

import "fmt"

// Octant identifies one of the eight children of an internal node. The index
// packs one bit per axis: x in bit 0, y in bit 1, z in bit 2. The names read
// left/right along x, rear/front along y and base/top along z.
type Octant uint8

const (
	LeftRearBase = Octant(iota)
	RightRearBase
	LeftFrontBase
	RightFrontBase
	LeftRearTop
	RightRearTop
	LeftFrontTop
	RightFrontTop
)

// Offset returns the unit offset of the octant's corner within its parent,
// one 0-or-1 component per axis.
func (oct Octant) Offset() Position {
	return Position{
		X: uint32(oct) & 1,
		Y: uint32(oct) >> 1 & 1,
		Z: uint32(oct) >> 2 & 1,
	}
}

func (oct Octant) String() string {
	switch oct {
	case LeftRearBase:
		return "left rear base"
	case RightRearBase:
		return "right rear base"
	case LeftFrontBase:
		return "left front base"
	case RightFrontBase:
		return "right front base"
	case LeftRearTop:
		return "left rear top"
	case RightRearTop:
		return "right rear top"
	case LeftFrontTop:
		return "left front top"
	case RightFrontTop:
		return "right front top"
	}
	return fmt.Sprintf("invalid octant %d", uint8(oct))
}

// octantIndex selects the child of a node of the given side length containing
// p. Cells are axis-aligned and sized in powers of two, so the selecting bit
// of each coordinate is the one at half the node's side; no subtraction of
// the node's origin is needed.
func octantIndex(p Position, size uint32) Octant {
	half := size >> 1
	var oct Octant
	if p.X&half != 0 {
		oct |= 1
	}
	if p.Y&half != 0 {
		oct |= 2
	}
	if p.Z&half != 0 {
		oct |= 4
	}
	return oct
}
