package world

import "hexcraft.ai/internal/sim/hex"

// SafeZone is a circular no-combat area: fighters inside neither select
// targets nor take damage.
type SafeZone struct {
	Centre hex.Coord `yaml:"centre" json:"centre"`
	Radius int       `yaml:"radius" json:"radius"`
}

// WorldMap answers the map queries combat needs: no-combat membership
// and the region a coordinate belongs to.
type WorldMap struct {
	SafeZones []SafeZone

	// RegionSize is the edge length of the square region tiling.
	RegionSize int
}

// IsNoCombat reports whether the coordinate lies in a no-combat zone.
func (m *WorldMap) IsNoCombat(c hex.Coord) bool {
	for _, z := range m.SafeZones {
		if hex.DistanceL1(z.Centre, c) <= z.Radius {
			return true
		}
	}
	return false
}

// RegionID maps a coordinate onto its region. Regions tile the map in
// squares of RegionSize; the id packs the two tile indices.
func (m *WorldMap) RegionID(c hex.Coord) uint64 {
	size := m.RegionSize
	if size <= 0 {
		size = 16
	}
	rx := uint64(uint32(floorDiv(c.X, size)))
	ry := uint64(uint32(floorDiv(c.Y, size)))
	return rx<<32 | ry
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
