package world

import (
	"testing"

	"hexcraft.ai/internal/sim/hex"
)

func TestAcquireTargetsPicksClosestEnemy(t *testing.T) {
	w := newTestWorld()
	att := w.AddUnit("alice", FactionRed, hex.Coord{}, "skirmisher",
		rangedCombat(10, 5, 5), RegenData{MaxArmour: 10}, HP{Armour: 10})
	near := w.AddUnit("bob", FactionBlue, hex.Coord{X: 3}, "drone",
		CombatData{}, RegenData{MaxArmour: 10}, HP{Armour: 10})
	w.AddUnit("bob", FactionBlue, hex.Coord{X: 6}, "drone",
		CombatData{}, RegenData{MaxArmour: 10}, HP{Armour: 10})

	w.AcquireTargets(&scriptRand{})

	got, ok := att.Target()
	if !ok {
		t.Fatalf("attacker acquired no target")
	}
	if got != near.TargetKey() {
		t.Fatalf("target = %s, want %s", got, near.TargetKey())
	}
}

func TestAcquireTargetsTieBreakUsesDraw(t *testing.T) {
	w := newTestWorld()
	att := w.AddUnit("alice", FactionRed, hex.Coord{}, "skirmisher",
		rangedCombat(10, 5, 5), RegenData{MaxArmour: 10}, HP{Armour: 10})
	w.AddUnit("bob", FactionBlue, hex.Coord{X: 3}, "drone",
		CombatData{}, RegenData{MaxArmour: 10}, HP{Armour: 10})
	second := w.AddUnit("bob", FactionBlue, hex.Coord{Y: 3}, "drone",
		CombatData{}, RegenData{MaxArmour: 10}, HP{Armour: 10})

	// Both candidates sit at distance 3; the draw picks index 1.
	w.AcquireTargets(&scriptRand{ints: []int{1}})

	got, ok := att.Target()
	if !ok {
		t.Fatalf("attacker acquired no target")
	}
	if got != second.TargetKey() {
		t.Fatalf("target = %s, want %s", got, second.TargetKey())
	}
}

func TestAcquireTargetsIgnoresAncientStructures(t *testing.T) {
	w := newTestWorld()
	att := w.AddUnit("alice", FactionRed, hex.Coord{}, "skirmisher",
		rangedCombat(10, 5, 5), RegenData{MaxArmour: 10}, HP{Armour: 10})
	w.AddStructure("", FactionAncient, hex.Coord{X: 1}, "obelisk",
		CombatData{}, RegenData{MaxArmour: 100}, HP{Armour: 100})
	far := w.AddUnit("bob", FactionBlue, hex.Coord{X: 5}, "drone",
		CombatData{}, RegenData{MaxArmour: 10}, HP{Armour: 10})

	w.AcquireTargets(&scriptRand{})

	got, ok := att.Target()
	if !ok {
		t.Fatalf("attacker acquired no target")
	}
	if got != far.TargetKey() {
		t.Fatalf("target = %s, want %s (ancient structure must be skipped)", got, far.TargetKey())
	}
}

func TestAcquireTargetsSkipsShelteredUnits(t *testing.T) {
	w := newTestWorld()
	att := w.AddUnit("alice", FactionRed, hex.Coord{}, "skirmisher",
		rangedCombat(10, 5, 5), RegenData{MaxArmour: 10}, HP{Armour: 10})
	hidden := w.AddUnit("bob", FactionBlue, hex.Coord{X: 2}, "drone",
		CombatData{}, RegenData{MaxArmour: 10}, HP{Armour: 10})
	hidden.Inside = 42

	w.AcquireTargets(&scriptRand{})

	if got, ok := att.Target(); ok {
		t.Fatalf("acquired sheltered target %s", got)
	}
}

func TestAcquireTargetsHonoursSafeZones(t *testing.T) {
	w := newTestWorld()
	w.Map.SafeZones = append(w.Map.SafeZones, SafeZone{Centre: hex.Coord{X: 20}, Radius: 2})

	// Attacker inside the zone: a previously held target is cleared.
	inside := w.AddUnit("alice", FactionRed, hex.Coord{X: 20}, "skirmisher",
		rangedCombat(10, 5, 5), RegenData{MaxArmour: 10}, HP{Armour: 10})
	enemy := w.AddUnit("bob", FactionBlue, hex.Coord{X: 27}, "drone",
		CombatData{}, RegenData{MaxArmour: 10}, HP{Armour: 10})
	inside.SetTarget(enemy.TargetKey())

	// Attacker outside the zone: the closer victim inside it is
	// untargetable, so the farther one wins.
	outside := w.AddUnit("alice", FactionRed, hex.Coord{X: 23}, "skirmisher",
		rangedCombat(10, 5, 5), RegenData{MaxArmour: 10}, HP{Armour: 10})
	w.AddUnit("bob", FactionBlue, hex.Coord{X: 21}, "drone",
		CombatData{}, RegenData{MaxArmour: 10}, HP{Armour: 10})

	w.AcquireTargets(&scriptRand{})

	if got, ok := inside.Target(); ok {
		t.Fatalf("fighter in no-combat zone kept target %s", got)
	}
	got, ok := outside.Target()
	if !ok {
		t.Fatalf("outside attacker acquired no target")
	}
	if got != enemy.TargetKey() {
		t.Fatalf("target = %s, want %s (sheltered-by-zone victim must be skipped)", got, enemy.TargetKey())
	}
}

func TestMenteconTargetsFriendlies(t *testing.T) {
	w := newTestWorld()
	att := w.AddUnit("alice", FactionRed, hex.Coord{}, "skirmisher",
		rangedCombat(10, 5, 5), RegenData{MaxArmour: 10}, HP{Armour: 10})
	friend := w.AddUnit("alice", FactionRed, hex.Coord{X: 2}, "drone",
		CombatData{}, RegenData{MaxArmour: 10}, HP{Armour: 10})
	w.AddUnit("bob", FactionBlue, hex.Coord{X: 4}, "drone",
		CombatData{}, RegenData{MaxArmour: 10}, HP{Armour: 10})

	att.SetEffects(Effects{Mentecon: true})
	w.AcquireTargets(&scriptRand{})

	got, ok := att.Target()
	if !ok {
		t.Fatalf("attacker acquired no target")
	}
	if got != friend.TargetKey() {
		t.Fatalf("target = %s, want the closer friendly %s", got, friend.TargetKey())
	}
}

func TestAcquireTargetsRangeEffect(t *testing.T) {
	w := newTestWorld()
	att := w.AddUnit("alice", FactionRed, hex.Coord{}, "skirmisher",
		rangedCombat(3, 5, 5), RegenData{MaxArmour: 10}, HP{Armour: 10})
	enemy := w.AddUnit("bob", FactionBlue, hex.Coord{X: 6}, "drone",
		CombatData{}, RegenData{MaxArmour: 10}, HP{Armour: 10})

	w.AcquireTargets(&scriptRand{})
	if got, ok := att.Target(); ok {
		t.Fatalf("acquired out-of-range target %s", got)
	}

	att.SetEffects(Effects{Range: 100})
	w.AcquireTargets(&scriptRand{})

	got, ok := att.Target()
	if !ok {
		t.Fatalf("range effect did not extend targeting")
	}
	if got != enemy.TargetKey() {
		t.Fatalf("target = %s, want %s", got, enemy.TargetKey())
	}
}

func TestAcquireTargetsFriendlyFlag(t *testing.T) {
	w := newTestWorld()
	healer := w.AddUnit("alice", FactionRed, hex.Coord{}, "herald",
		CombatData{Attacks: []Attack{{
			Area:       intp(3),
			Friendlies: true,
			Effects:    &EffectsSpec{ShieldRegen: 50},
		}}},
		RegenData{MaxArmour: 10}, HP{Armour: 10})
	w.AddUnit("alice", FactionRed, hex.Coord{X: 2}, "drone",
		CombatData{}, RegenData{MaxArmour: 10}, HP{Armour: 10})
	w.AddUnit("bob", FactionBlue, hex.Coord{X: 1}, "drone",
		CombatData{}, RegenData{MaxArmour: 10}, HP{Armour: 10})

	w.AcquireTargets(&scriptRand{})

	if got, ok := healer.Target(); ok {
		t.Fatalf("attackless fighter acquired enemy target %s", got)
	}
	if !healer.HasFriendlyTargets() {
		t.Fatalf("friendly-in-range flag not set")
	}
}
