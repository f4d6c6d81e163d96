// Package hex provides axial hex-grid coordinates and the L1 distance
// metric used for all range and area checks in the simulation.
package hex

import "fmt"

// Coord is an axial hex coordinate. The implicit third cube coordinate
// is Z = -X - Y.
type Coord struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

func (c Coord) Z() int {
	return -c.X - c.Y
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d, %d)", c.X, c.Y)
}

// Less orders coordinates by X, then Y. Used wherever map iteration over
// coordinates must be deterministic.
func (c Coord) Less(o Coord) bool {
	if c.X != o.X {
		return c.X < o.X
	}
	return c.Y < o.Y
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// DistanceL1 returns the hex L1 ("Manhattan on hexes") distance between
// two coordinates: half the sum of the absolute cube-coordinate deltas.
func DistanceL1(a, b Coord) int {
	dx := absInt(a.X - b.X)
	dy := absInt(a.Y - b.Y)
	dz := absInt(a.Z() - b.Z())
	return (dx + dy + dz) / 2
}
