package world

import "hexcraft.ai/internal/sim/hex"

// LootAt returns the ground-loot inventory at the given coordinate,
// creating an empty pile if there is none yet.
func (w *World) LootAt(c hex.Coord) Inventory {
	inv, ok := w.GroundLoot[c]
	if !ok {
		inv = make(Inventory)
		w.GroundLoot[c] = inv
	}
	return inv
}

// dropLoot merges items into the pile at c and records the drop in the
// step report.
func (w *World) dropLoot(c hex.Coord, item string, n int64) {
	if n <= 0 {
		return
	}
	w.LootAt(c).Add(item, n)
	w.stepDrops = append(w.stepDrops, LootDrop{Pos: c, Item: item, Count: n})
}

// LootDrop is one item stack dropped to the ground during a step.
type LootDrop struct {
	Pos   hex.Coord `json:"pos"`
	Item  string    `json:"item"`
	Count int64     `json:"count"`
}
