package world

import (
	"fmt"
	"sort"
)

// deleteUnit removes a unit and all records referencing it. The caller
// has already dealt with the unit's possessions.
func (w *World) deleteUnit(id uint64) {
	w.damage.RemoveUnit(id)
	for oid, op := range w.Ongoings {
		if op.UnitID == id {
			delete(w.Ongoings, oid)
		}
	}
	delete(w.Units, id)
}

// processKilledUnit tears down a unit killed in combat: cancels its
// ongoing prospection (clearing the region marker), drops its carried
// inventory plus surviving fitments as ground loot, and deletes it.
func (w *World) processKilledUnit(rnd Rand, id uint64) {
	u, ok := w.Units[id]
	if !ok {
		panic(fmt.Sprintf("killed non-existent unit %d", id))
	}

	if u.Busy() {
		op, ok := w.Ongoings[u.OngoingID]
		if !ok {
			panic(fmt.Sprintf("unit %d references missing ongoing %d", id, u.OngoingID))
		}
		if op.Kind == OngoingProspection {
			region := w.Region(w.Map.RegionID(u.Pos))
			if region.ProspectingUnit != id {
				panic(fmt.Sprintf("region %d prospected by %d, not by killed unit %d",
					region.ID, region.ProspectingUnit, id))
			}
			region.ProspectingUnit = 0
		}
	}

	// The vehicle itself is always destroyed; carried items drop, and
	// each equipped fitment has a chance to survive as loot.
	inv := make(Inventory)
	inv.Merge(u.Inventory)
	for _, fit := range u.Fitments {
		if rnd.ProbabilityRoll(uint32(w.cfg.FitmentDropPercent), 100) {
			inv.Add(fit, 1)
		}
	}
	for _, item := range inv.SortedItems() {
		w.dropLoot(u.Pos, item, inv[item])
	}

	w.deleteUnit(id)
}

// processKilledStructure tears down a destroyed structure. Everything
// stored inside is folded into one aggregate inventory; reserved
// currency from open bids is refunded; then each item stack
// independently rolls its chance to drop as ground loot.
func (w *World) processKilledStructure(rnd Rand, id uint64) {
	s, ok := w.Structures[id]
	if !ok {
		panic(fmt.Sprintf("killed non-existent structure %d", id))
	}

	total := make(Inventory)

	names := make([]string, 0, len(s.AccountInventories))
	for n := range s.AccountInventories {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		total.Merge(s.AccountInventories[n])
	}

	// Units sheltered inside die with the structure. Their cargo,
	// vehicle and fitments all join the aggregate; there is no
	// separate fitment-survival roll for them.
	for _, uid := range w.sortedUnitIDs() {
		u := w.Units[uid]
		if u.Inside != id {
			continue
		}
		total.Merge(u.Inventory)
		if u.Vehicle != "" {
			total.Add(u.Vehicle, 1)
		}
		for _, fit := range u.Fitments {
			total.Add(fit, 1)
		}
		w.deleteUnit(uid)
	}

	// In-progress operations inside the structure give back their
	// recoverable originals.
	for _, oid := range w.sortedOngoingIDs() {
		op := w.Ongoings[oid]
		if op.StructureID != id {
			continue
		}
		switch op.Kind {
		case OngoingBlueprintCopy:
			total.Add(op.OriginalType, 1)
		case OngoingItemConstruction:
			if op.OriginalType != "" {
				total.Add(op.OriginalType, 1)
			}
		}
	}

	// Open bids refund their reserved currency; open asks return the
	// reserved items into the aggregate.
	refundNames, coins := w.reservedCoinsForStructure(id)
	for _, n := range refundNames {
		a, ok := w.Accounts[n]
		if !ok {
			panic(fmt.Sprintf("order refund for unknown account %q", n))
		}
		a.Balance += coins[n]
	}
	total.Merge(w.reservedQuantitiesForStructure(id))

	total.Merge(s.ConstructionInventory)

	// Independent drop roll per stack, in ascending item order so the
	// roll sequence does not depend on map iteration.
	for _, item := range total.SortedItems() {
		n := total[item]
		if n <= 0 {
			panic(fmt.Sprintf("non-positive aggregate count for %q", item))
		}
		if !rnd.ProbabilityRoll(uint32(w.cfg.StructureInventoryDropPercent), 100) {
			continue
		}
		w.dropLoot(s.Pos, item, n)
	}

	for oid, op := range w.Ongoings {
		if op.StructureID == id {
			delete(w.Ongoings, oid)
		}
	}
	w.deleteOrdersForStructure(id)
	delete(w.Structures, id)
}

// ProcessKills tears down all fighters in the dead set. Each dead
// fighter is processed exactly once; afterwards it no longer exists.
func (w *World) ProcessKills(rnd Rand, dead []TargetKey) {
	for _, k := range dead {
		switch k.Kind {
		case KindUnit:
			w.processKilledUnit(rnd, k.ID)
		case KindStructure:
			w.processKilledStructure(rnd, k.ID)
		default:
			panic(fmt.Sprintf("invalid target kind killed: %d", k.Kind))
		}
	}
}

// creditKillFame awards fame to the owners of all units on the
// victim's damage list. It runs between damage resolution and kill
// processing, while the victims still exist.
func (w *World) creditKillFame(dead []TargetKey) {
	for _, k := range dead {
		if k.Kind != KindUnit {
			continue
		}
		for _, attacker := range w.damage.Attackers(k.ID) {
			u, ok := w.Units[attacker]
			if !ok {
				continue
			}
			w.Account(u.Owner).Fame += w.cfg.KillFame
		}
	}
}
