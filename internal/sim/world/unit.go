package world

import "hexcraft.ai/internal/sim/hex"

// Unit is a mobile combat-capable entity owned by an account.
type Unit struct {
	combatCore

	ID    uint64
	Owner string
	Fac   Faction
	Pos   hex.Coord
	Type  string

	// Inside is the id of the structure sheltering this unit, or zero.
	// Sheltered units are invisible to combat.
	Inside uint64

	Inventory Inventory
	Vehicle   string
	Fitments  []string

	// OngoingID references the unit's in-progress operation, if any.
	OngoingID uint64
}

func (u *Unit) TargetKey() TargetKey {
	return TargetKey{Kind: KindUnit, ID: u.ID}
}

func (u *Unit) Position() hex.Coord { return u.Pos }
func (u *Unit) Faction() Faction    { return u.Fac }

func (u *Unit) Busy() bool {
	return u.OngoingID != 0
}
