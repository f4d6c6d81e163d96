package world

import "hexcraft.ai/internal/sim/hex"

// Structure is a static combat-capable entity. Structures shelter units
// and account stashes and host exchange orders and ongoing operations.
type Structure struct {
	combatCore

	ID    uint64
	Owner string
	Fac   Faction
	Pos   hex.Coord
	Type  string

	// AccountInventories are the per-account item stashes stored inside
	// the structure.
	AccountInventories map[string]Inventory

	// ConstructionInventory holds materials of a structure still being
	// built; it is part of the loot aggregate on destruction.
	ConstructionInventory Inventory
}

func (s *Structure) TargetKey() TargetKey {
	return TargetKey{Kind: KindStructure, ID: s.ID}
}

func (s *Structure) Position() hex.Coord { return s.Pos }
func (s *Structure) Faction() Faction    { return s.Fac }

// Inventory returns the stash of the given account inside the
// structure, creating it if needed.
func (s *Structure) Inventory(account string) Inventory {
	if s.AccountInventories == nil {
		s.AccountInventories = make(map[string]Inventory)
	}
	inv, ok := s.AccountInventories[account]
	if !ok {
		inv = make(Inventory)
		s.AccountInventories[account] = inv
	}
	return inv
}
