package world

import (
	"fmt"

	"hexcraft.ai/internal/sim/hex"
)

// fighterByKey resolves a target key to the live fighter. Combat only
// ever looks up fighters it has just seen; a miss means corrupted
// state.
func (w *World) fighterByKey(k TargetKey) Fighter {
	switch k.Kind {
	case KindStructure:
		if s, ok := w.Structures[k.ID]; ok {
			return s
		}
	case KindUnit:
		if u, ok := w.Units[k.ID]; ok {
			return u
		}
	}
	panic(fmt.Sprintf("no fighter for target key %s", k))
}

// forEachFighter visits all fighters in the fixed processing order:
// structures by ascending id, then units by ascending id. Units
// sheltered inside a structure are not fighters.
func (w *World) forEachFighter(fn func(Fighter)) {
	for _, id := range w.sortedStructureIDs() {
		fn(w.Structures[id])
	}
	for _, id := range w.sortedUnitIDs() {
		u := w.Units[id]
		if u.Inside != 0 {
			continue
		}
		fn(u)
	}
}

// forEachFighterWithAttacks visits fighters that have any attack,
// normal or friendly.
func (w *World) forEachFighterWithAttacks(fn func(Fighter)) {
	w.forEachFighter(func(f Fighter) {
		if f.AttackRange(false) == NoAttacks && f.AttackRange(true) == NoAttacks {
			return
		}
		fn(f)
	})
}

// forEachFighterWithTarget visits fighters that selected a target or
// have friendlies in range; exactly the set the damage round covers.
func (w *World) forEachFighterWithTarget(fn func(Fighter)) {
	w.forEachFighter(func(f Fighter) {
		if _, ok := f.Target(); !ok && !f.HasFriendlyTargets() {
			return
		}
		fn(f)
	})
}

// forEachFighterCanRegen visits fighters with regeneration left to do.
func (w *World) forEachFighterCanRegen(fn func(Fighter)) {
	w.forEachFighter(func(f Fighter) {
		if !canRegen(f.HP(), f.RegenData()) {
			return
		}
		fn(f)
	})
}

// forEachTargetInRange enumerates fighters within the L1 range of
// centre, filtered by faction relation. Structures of the ancient
// faction are never targets. At least one of enemies and friendlies
// must be requested. The visit order is fixed: structures before
// units, ids ascending.
func (w *World) forEachTargetInRange(centre hex.Coord, l1range int, faction Faction,
	enemies, friendlies bool, fn func(hex.Coord, TargetKey)) {
	if !enemies && !friendlies {
		panic("neither enemy nor friendly targets requested")
	}

	match := func(f Faction) bool {
		if !friendlies && f == faction {
			return false
		}
		if !enemies && f != faction {
			return false
		}
		return true
	}

	for _, id := range w.sortedStructureIDs() {
		s := w.Structures[id]
		if s.Fac == FactionAncient || !match(s.Fac) {
			continue
		}
		if hex.DistanceL1(centre, s.Pos) > l1range {
			continue
		}
		fn(s.Pos, s.TargetKey())
	}
	for _, id := range w.sortedUnitIDs() {
		u := w.Units[id]
		if u.Inside != 0 || !match(u.Fac) {
			continue
		}
		if hex.DistanceL1(centre, u.Pos) > l1range {
			continue
		}
		fn(u.Pos, u.TargetKey())
	}
}

// clearAllEffects wipes the transient combat effects of every fighter.
// The damage round re-adds the effects accumulated in this round
// afterwards (wholesale replacement, not a merge).
func (w *World) clearAllEffects() {
	w.forEachFighter(func(f Fighter) {
		f.SetEffects(Effects{})
	})
}
