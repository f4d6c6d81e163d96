package world

import (
	"testing"

	"hexcraft.ai/internal/sim/hex"
)

func TestProcessKilledUnitDropsCargoAndFitments(t *testing.T) {
	w := newTestWorld()
	pos := hex.Coord{X: 2, Y: -1}
	u := w.AddUnit("alice", FactionRed, pos, "skirmisher",
		CombatData{}, RegenData{MaxArmour: 10}, HP{})
	u.Inventory.Add("ore", 5)
	u.Vehicle = "skirmisher_mk1"
	u.Fitments = []string{"afterburner", "plating"}

	// First fitment survives its drop roll, second does not. The
	// vehicle itself never drops.
	rnd := &scriptRand{rolls: []bool{true, false}}
	w.ProcessKills(rnd, []TargetKey{u.TargetKey()})

	if _, ok := w.Units[u.ID]; ok {
		t.Fatalf("killed unit still exists")
	}
	loot := w.GroundLoot[pos]
	if got := loot["ore"]; got != 5 {
		t.Fatalf("ore loot = %d, want 5", got)
	}
	if got := loot["afterburner"]; got != 1 {
		t.Fatalf("afterburner loot = %d, want 1", got)
	}
	if _, ok := loot["plating"]; ok {
		t.Fatalf("plating dropped despite failed roll")
	}
	if _, ok := loot["skirmisher_mk1"]; ok {
		t.Fatalf("vehicle dropped as loot")
	}
}

func TestProcessKilledUnitCancelsProspection(t *testing.T) {
	w := newTestWorld()
	pos := hex.Coord{X: 40, Y: 40}
	u := w.AddUnit("alice", FactionRed, pos, "prospector",
		CombatData{}, RegenData{MaxArmour: 10}, HP{})
	rid := w.Map.RegionID(pos)
	op := w.AddOngoing(Ongoing{Kind: OngoingProspection, UnitID: u.ID, RegionID: rid})
	w.Region(rid).ProspectingUnit = u.ID

	w.ProcessKills(&scriptRand{}, []TargetKey{u.TargetKey()})

	if got := w.Region(rid).ProspectingUnit; got != 0 {
		t.Fatalf("region still marked prospected by %d", got)
	}
	if _, ok := w.Ongoings[op.ID]; ok {
		t.Fatalf("ongoing prospection not removed")
	}
}

func TestProcessKilledUnitProspectionMismatchPanics(t *testing.T) {
	w := newTestWorld()
	pos := hex.Coord{X: 40, Y: 40}
	u := w.AddUnit("alice", FactionRed, pos, "prospector",
		CombatData{}, RegenData{MaxArmour: 10}, HP{})
	rid := w.Map.RegionID(pos)
	w.AddOngoing(Ongoing{Kind: OngoingProspection, UnitID: u.ID, RegionID: rid})
	w.Region(rid).ProspectingUnit = u.ID + 1

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on prospection marker mismatch")
		}
	}()
	w.ProcessKills(&scriptRand{}, []TargetKey{u.TargetKey()})
}

func TestProcessKilledStructureTeardown(t *testing.T) {
	w := newTestWorld()
	pos := hex.Coord{X: 10}
	s := w.AddStructure("bob", FactionBlue, pos, "depot",
		CombatData{}, RegenData{MaxArmour: 50}, HP{})
	s.Inventory("alice").Add("ore", 3)
	s.Inventory("bob").Add("crystal", 2)
	s.ConstructionInventory.Add("plank", 7)

	sheltered := w.AddUnit("alice", FactionBlue, pos, "hauler",
		CombatData{}, RegenData{MaxArmour: 5}, HP{Armour: 5})
	sheltered.Inside = s.ID
	sheltered.Vehicle = "hauler_mk1"
	sheltered.Fitments = []string{"crane"}
	sheltered.Inventory.Add("ore", 1)

	copyOp := w.AddOngoing(Ongoing{Kind: OngoingBlueprintCopy, StructureID: s.ID, OriginalType: "bp_cannon"})
	w.AddOngoing(Ongoing{Kind: OngoingItemConstruction, StructureID: s.ID, OriginalType: "bp_mill"})

	w.AddOrder(Order{StructureID: s.ID, Account: "carol", Side: OrderBid, Item: "ore", Quantity: 4, Price: 3})
	w.AddOrder(Order{StructureID: s.ID, Account: "bob", Side: OrderAsk, Item: "gears", Quantity: 6})

	// Aggregate stacks in ascending item order: bp_cannon, bp_mill,
	// crane, crystal, gears, hauler_mk1, ore, plank.
	rnd := &scriptRand{rolls: []bool{true, false, false, true, false, false, true, false}}
	w.ProcessKills(rnd, []TargetKey{s.TargetKey()})

	if _, ok := w.Structures[s.ID]; ok {
		t.Fatalf("killed structure still exists")
	}
	if _, ok := w.Units[sheltered.ID]; ok {
		t.Fatalf("sheltered unit survived structure teardown")
	}
	if _, ok := w.Ongoings[copyOp.ID]; ok {
		t.Fatalf("ongoing inside structure not removed")
	}
	if len(w.Orders) != 0 {
		t.Fatalf("orders not removed: %d left", len(w.Orders))
	}

	if got := w.Account("carol").Balance; got != 12 {
		t.Fatalf("bid refund = %d, want 12", got)
	}
	if got := w.Account("bob").Balance; got != 0 {
		t.Fatalf("ask order refunded currency: %d", got)
	}

	loot := w.GroundLoot[pos]
	want := Inventory{"bp_cannon": 1, "crystal": 2, "ore": 4}
	if len(loot) != len(want) {
		t.Fatalf("loot = %v, want %v", loot, want)
	}
	for item, n := range want {
		if loot[item] != n {
			t.Fatalf("loot[%s] = %d, want %d", item, loot[item], n)
		}
	}
}

func TestCreditKillFame(t *testing.T) {
	w := newTestWorld()
	att := w.AddUnit("alice", FactionRed, hex.Coord{}, "skirmisher",
		CombatData{}, RegenData{MaxArmour: 10}, HP{Armour: 10})
	helper := w.AddUnit("bob", FactionRed, hex.Coord{X: 1}, "skirmisher",
		CombatData{}, RegenData{MaxArmour: 10}, HP{Armour: 10})
	vic := w.AddUnit("carol", FactionBlue, hex.Coord{X: 2}, "drone",
		CombatData{}, RegenData{MaxArmour: 10}, HP{})

	w.DamageLists().AddEntry(vic.ID, att.ID, 1)
	w.DamageLists().AddEntry(vic.ID, helper.ID, 1)

	w.creditKillFame([]TargetKey{vic.TargetKey()})

	if got := w.Account("alice").Fame; got != w.Config().KillFame {
		t.Fatalf("alice fame = %d, want %d", got, w.Config().KillFame)
	}
	if got := w.Account("bob").Fame; got != w.Config().KillFame {
		t.Fatalf("bob fame = %d, want %d", got, w.Config().KillFame)
	}
	if got := w.Account("carol").Fame; got != 0 {
		t.Fatalf("victim owner fame = %d, want 0", got)
	}
}

func TestCreditKillFameSkipsDeadAttackers(t *testing.T) {
	w := newTestWorld()
	att := w.AddUnit("alice", FactionRed, hex.Coord{}, "skirmisher",
		CombatData{}, RegenData{MaxArmour: 10}, HP{Armour: 10})
	gone := w.AddUnit("bob", FactionRed, hex.Coord{X: 1}, "skirmisher",
		CombatData{}, RegenData{MaxArmour: 10}, HP{Armour: 10})
	vic := w.AddUnit("carol", FactionBlue, hex.Coord{X: 2}, "drone",
		CombatData{}, RegenData{MaxArmour: 10}, HP{})

	w.DamageLists().AddEntry(vic.ID, att.ID, 1)
	w.DamageLists().AddEntry(vic.ID, gone.ID, 1)
	delete(w.Units, gone.ID)

	w.creditKillFame([]TargetKey{vic.TargetKey()})

	if got := w.Account("alice").Fame; got != w.Config().KillFame {
		t.Fatalf("alice fame = %d, want %d", got, w.Config().KillFame)
	}
	if got := w.Account("bob").Fame; got != 0 {
		t.Fatalf("dead attacker's owner fame = %d, want 0", got)
	}
}

func TestStructureKillsEarnNoFame(t *testing.T) {
	w := newTestWorld()
	s := w.AddStructure("bob", FactionBlue, hex.Coord{X: 5}, "depot",
		CombatData{}, RegenData{MaxArmour: 50}, HP{})

	w.creditKillFame([]TargetKey{s.TargetKey()})

	for name, a := range w.Accounts {
		if a.Fame != 0 {
			t.Fatalf("account %s has fame %d from a structure kill", name, a.Fame)
		}
	}
}
