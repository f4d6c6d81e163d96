package world

import (
	"fmt"
	"math"
	"sort"

	"hexcraft.ai/internal/sim/hex"
	"hexcraft.ai/internal/sim/stats"
)

// baseHitChance computes the size-based hit chance in percent, before
// the attacker's hit-chance modifier. Attacks without a weapon size
// (or targets without a size) always have base chance 100.
func baseHitChance(target *CombatData, d *DamageSpec) int {
	if target.TargetSize == nil || d.WeaponSize == nil {
		return 100
	}
	ts := *target.TargetSize
	ws := *d.WeaponSize
	if ts >= ws {
		return 100
	}
	if ts <= 0 || ws <= 0 {
		panic(fmt.Sprintf("invalid sizes: target %d, weapon %d", ts, ws))
	}
	return ts * 100 / ws
}

// computeDamage splits a damage roll into shield and armour portions,
// honouring the attack's shield/armour percentages and the target's
// remaining HP. Integer math always rounds down, so the total damage
// done never exceeds the base roll.
func computeDamage(dmg int, d *DamageSpec, hp HP) HP {
	var done HP

	shieldPercent := 100
	if d.ShieldPercent != nil {
		shieldPercent = *d.ShieldPercent
	}
	armourPercent := 100
	if d.ArmourPercent != nil {
		armourPercent = *d.ArmourPercent
	}

	availableForShield := dmg * shieldPercent / 100
	done.Shield = minInt(availableForShield, hp.Shield)

	// If the shield was not exhausted, the armour stays untouched even
	// if base damage remains; the shield percentage discounted the
	// attack below what the shield could absorb.
	if done.Shield < hp.Shield {
		return done
	}

	if done.Shield > 0 {
		baseDoneShield := done.Shield * 100 / shieldPercent
		if baseDoneShield > dmg {
			panic("shield damage exceeds base damage")
		}
		dmg -= baseDoneShield
	}

	availableForArmour := dmg * armourPercent / 100
	done.Armour = minInt(availableForArmour, hp.Armour)

	if done.Armour > 0 && done.Armour*100/armourPercent > dmg {
		panic("armour damage exceeds base damage")
	}

	return done
}

// damageRound holds the accumulators of one damage-processing round.
// Passing them explicitly (rather than as world state) keeps the round
// reentrant and testable in isolation.
type damageRound struct {
	w   *World
	rnd Rand

	// modifiers are frozen before any damage is dealt so that HP
	// changes during the round cannot change who gets boosted.
	modifiers map[TargetKey]combatModifier

	// newEffects accumulates the effect deltas inflicted this round;
	// they replace all fighters' effects wholesale at the end.
	newEffects map[TargetKey]Effects

	// gainHpDrained records, per drained target, how much HP each
	// attacker took via gain_hp attacks. Crediting happens after the
	// whole round so that processing order cannot matter.
	gainHpDrained map[TargetKey]map[TargetKey]HP

	// newDead collects the kills of the wave currently being
	// processed; alreadyDead holds fighters from completed waves.
	// Attacks against alreadyDead targets are skipped without any
	// random roll.
	newDead     map[TargetKey]bool
	alreadyDead map[TargetKey]bool
}

func newDamageRound(w *World, rnd Rand) *damageRound {
	return &damageRound{
		w:             w,
		rnd:           rnd,
		modifiers:     make(map[TargetKey]combatModifier),
		newEffects:    make(map[TargetKey]Effects),
		gainHpDrained: make(map[TargetKey]map[TargetKey]HP),
		alreadyDead:   make(map[TargetKey]bool),
	}
}

// rollAttackDamage draws the damage of one attack, with min and max
// adjusted by the attacker's damage modifier.
func (r *damageRound) rollAttackDamage(d *DamageSpec, mod stats.Modifier) int {
	minDmg := mod.Apply(d.Min)
	maxDmg := mod.Apply(d.Max)
	if minDmg > maxDmg {
		panic(fmt.Sprintf("modified damage range inverted: [%d, %d]", minDmg, maxDmg))
	}
	return minDmg + r.rnd.NextInt(maxDmg-minDmg+1)
}

// attackHitsTarget decides hit or miss. Chances at or below zero miss
// without a roll; at or above 100 they hit without a roll.
func (r *damageRound) attackHitsTarget(target Fighter, d *DamageSpec, hitMod stats.Modifier) bool {
	chance := baseHitChance(target.CombatData(), d)
	chance = hitMod.Apply(chance)

	if chance <= 0 {
		return false
	}
	if chance >= 100 {
		return true
	}
	return r.rnd.ProbabilityRoll(uint32(chance), 100)
}

// applyDamageRaw applies a damage roll to one target and returns the
// damage actually done to shield and armour. This is the low-level
// variant that does not handle gain_hp; self-destruct damage uses it
// directly.
func (r *damageRound) applyDamageRaw(dmg int, attacker Fighter, d *DamageSpec,
	attackerMod *combatModifier, target Fighter) HP {
	if r.w.Map.IsNoCombat(target.Position()) {
		panic(fmt.Sprintf("damaging target in no-combat zone at %v", target.Position()))
	}

	// Already dead from a previous self-destruct wave: skip entirely,
	// without even a hit roll.
	targetKey := target.TargetKey()
	if r.alreadyDead[targetKey] {
		return HP{}
	}

	if !r.attackHitsTarget(target, d, attackerMod.hitChance) {
		return HP{}
	}

	// The target's received-damage modifier applies to the roll; if
	// nothing remains there is no further effect and no damage-list
	// entry.
	recv := stats.Modifier{Percent: target.CombatData().ReceivedDamagePercent}
	dmg = recv.Apply(dmg)
	if dmg == 0 {
		return HP{}
	}

	attackerKey := attacker.TargetKey()
	if attackerKey.Kind == KindUnit && targetKey.Kind == KindUnit {
		r.w.damage.AddEntry(targetKey.ID, attackerKey.ID, r.w.height)
	}

	hp := target.HP()
	done := computeDamage(dmg, d, hp)

	hp.Shield -= done.Shield
	hp.Armour -= done.Armour
	target.SetHP(hp)

	if done.Shield+done.Armour > 0 && hp.TotalWhole() == 0 {
		// Partial milli HP do not keep a fighter alive; it dies even
		// at 999/1000. They must never have reached a full point.
		if hp.MilliShield >= 1000 || hp.MilliArmour >= 1000 {
			panic(fmt.Sprintf("unnormalised milli HP on death: %+v", hp))
		}
		r.markNewlyDead(targetKey)
	}

	return done
}

// markNewlyDead inserts a fighter into the newly-dead set of the
// current wave. A fighter dying twice is an internal-consistency
// violation and aborts.
func (r *damageRound) markNewlyDead(k TargetKey) {
	if r.newDead[k] {
		panic(fmt.Sprintf("target %s is already dead", k))
	}
	r.newDead[k] = true
}

// applyAttackDamage is the high-level damage application for real
// attacks: it also records drained HP for gain_hp attacks.
func (r *damageRound) applyAttackDamage(dmg int, attacker Fighter, attack *Attack,
	attackerMod *combatModifier, target Fighter) {
	done := r.applyDamageRaw(dmg, attacker, attack.Damage, attackerMod, target)

	if attack.GainHP {
		targetKey := target.TargetKey()
		attackerKey := attacker.TargetKey()

		m, ok := r.gainHpDrained[targetKey]
		if !ok {
			m = make(map[TargetKey]HP)
			r.gainHpDrained[targetKey] = m
		}
		drained := m[attackerKey]
		drained.Armour += done.Armour
		drained.Shield += done.Shield
		m[attackerKey] = drained
	}
}

// applyEffects accumulates an attack's effect payload for the target.
// Effects are not written to the fighter yet; they all land at once in
// the commit at the end of the round.
func (r *damageRound) applyEffects(attack *Attack, target Fighter) {
	if r.w.Map.IsNoCombat(target.Position()) {
		panic(fmt.Sprintf("applying effects in no-combat zone at %v", target.Position()))
	}
	if attack.Effects == nil {
		return
	}

	k := target.TargetKey()
	e := r.newEffects[k]
	e.Speed += attack.Effects.Speed
	e.Range += attack.Effects.Range
	e.HitChance += attack.Effects.HitChance
	e.ShieldRegen += attack.Effects.ShieldRegen
	if attack.Effects.Mentecon {
		e.Mentecon = true
	}
	r.newEffects[k] = e
}

// dealDamage resolves all attacks of one fighter whose gain_hp flag
// matches forGainHp.
func (r *damageRound) dealDamage(f Fighter, forGainHp bool) {
	cd := f.CombatData()
	pos := f.Position()
	if r.w.Map.IsNoCombat(pos) {
		panic(fmt.Sprintf("fighter in no-combat zone deals damage at %v", pos))
	}

	// A fighter with only friendly attacks may legitimately have no
	// target here; such attacks are area-only and need none.
	target, hasTarget := f.Target()
	var targetPos hex.Coord
	targetDist := math.MaxInt
	if hasTarget {
		targetPos = r.w.fighterByKey(target).Position()
		targetDist = hex.DistanceL1(pos, targetPos)
	} else if !f.HasFriendlyTargets() {
		panic(fmt.Sprintf("fighter %s deals damage without any target", f.TargetKey()))
	}

	mod, ok := r.modifiers[f.TargetKey()]
	if !ok {
		panic(fmt.Sprintf("no frozen modifier for fighter %s", f.TargetKey()))
	}

	for i := range cd.Attacks {
		attack := &cd.Attacks[i]
		if attack.GainHP != forGainHp {
			continue
		}

		// Ranged attacks need the chosen target within this attack's
		// own (modified) range.
		if attack.Range != nil {
			if !hasTarget {
				continue
			}
			if targetDist > mod.rng.Apply(*attack.Range) {
				continue
			}
		}

		dmg := 0
		if attack.Damage != nil {
			dmg = r.rollAttackDamage(attack.Damage, mod.damage)
		}

		if attack.Area != nil {
			centre := pos
			if attack.Range != nil {
				centre = targetPos
			}

			r.w.processCombatTargets(f, centre, mod.rng.Apply(*attack.Area), !attack.Friendlies,
				func(_ hex.Coord, id TargetKey) {
					t := r.w.fighterByKey(id)
					r.applyAttackDamage(dmg, f, attack, &mod, t)
					r.applyEffects(attack, t)
				})
		} else {
			if !hasTarget || attack.Friendlies {
				panic(fmt.Sprintf("malformed single-target attack on %s", f.TargetKey()))
			}
			t := r.w.fighterByKey(target)
			r.applyAttackDamage(dmg, f, attack, &mod, t)
			r.applyEffects(attack, t)
		}
	}
}

// processSelfDestructs resolves all self-destruct abilities of a
// freshly killed fighter as enemy AoE centred on its position. The
// modifier is recomputed: at zero HP, all low-HP boosts apply.
func (r *damageRound) processSelfDestructs(f Fighter) {
	pos := f.Position()
	if r.w.Map.IsNoCombat(pos) {
		panic(fmt.Sprintf("self-destruct in no-combat zone at %v", pos))
	}

	hp := f.HP()
	if hp.Armour != 0 || hp.Shield != 0 {
		panic(fmt.Sprintf("self-destructing fighter %s has HP left: %+v", f.TargetKey(), hp))
	}
	mod := computeModifier(f)

	cd := f.CombatData()
	for i := range cd.SelfDestructs {
		sd := &cd.SelfDestructs[i]
		dmg := r.rollAttackDamage(&sd.Damage, mod.damage)

		r.w.processCombatTargets(f, pos, mod.rng.Apply(sd.Area), true,
			func(_ hex.Coord, id TargetKey) {
				t := r.w.fighterByKey(id)
				r.applyDamageRaw(dmg, f, &sd.Damage, &mod, t)
			})
	}
}

func (r *damageRound) resetNewDead() {
	r.newDead = make(map[TargetKey]bool)
}

// process runs the full damage round and returns the dead set.
func (r *damageRound) process() []TargetKey {
	// Freeze modifiers for everyone that will act this round.
	r.w.forEachFighterWithTarget(func(f Fighter) {
		k := f.TargetKey()
		if _, dup := r.modifiers[k]; dup {
			panic(fmt.Sprintf("duplicate modifier for %s", k))
		}
		r.modifiers[k] = computeModifier(f)
	})

	r.resetNewDead()

	// Drain attacks go first so that normal attacks cannot strip the
	// shield HP before they can be drained.
	r.w.forEachFighterWithTarget(func(f Fighter) {
		r.dealDamage(f, true)
	})

	// Reconcile drained HP now, before normal attacks change the
	// picture of what survived phase 1.
	gained := r.reconcileDrains()

	r.w.forEachFighterWithTarget(func(f Fighter) {
		r.dealDamage(f, false)
	})

	// Self-destruct waves: each wave's kills are folded into the
	// permanent dead set, then their self-destructs may kill more.
	// Terminates because every wave strictly grows the dead set and
	// the fighter population is finite.
	for len(r.newDead) > 0 {
		wave := sortedTargetKeys(r.newDead)
		for _, k := range wave {
			if r.alreadyDead[k] {
				panic(fmt.Sprintf("target %s was already dead before", k))
			}
			r.alreadyDead[k] = true
		}
		r.resetNewDead()

		for _, k := range wave {
			r.processSelfDestructs(r.w.fighterByKey(k))
		}
	}

	// Credit drained HP to surviving attackers, clamped at max.
	for _, k := range sortedHPKeys(gained) {
		if r.alreadyDead[k] {
			continue
		}
		g := gained[k]
		f := r.w.fighterByKey(k)
		regen := f.RegenData()
		hp := f.HP()
		hp.Armour = minInt(hp.Armour+g.Armour, regen.MaxArmour)
		hp.Shield = minInt(hp.Shield+g.Shield, regen.MaxShield)
		f.SetHP(hp)
	}

	// Swap over the combat effects: wipe everything, then write the
	// deltas accumulated this round. Target finding for the next step
	// sees exactly this round's effects, nothing older.
	r.w.clearAllEffects()
	for _, k := range sortedEffectKeys(r.newEffects) {
		r.w.fighterByKey(k).SetEffects(r.newEffects[k])
	}

	return sortedTargetKeys(r.alreadyDead)
}

// reconcileDrains decides which attackers get the HP they drained in
// phase 1. Per component: if the target has HP left, or exactly one
// attacker drained it, everyone is credited in full; if several
// attackers drained a component down to zero, none of them gets
// anything. This all-or-nothing rule keeps the result independent of
// attacker processing order and is consensus-relevant as is.
func (r *damageRound) reconcileDrains() map[TargetKey]HP {
	gained := make(map[TargetKey]HP)

	for _, targetKey := range sortedDrainKeys(r.gainHpDrained) {
		entries := r.gainHpDrained[targetKey]
		if len(entries) == 0 {
			panic(fmt.Sprintf("empty drain entry for %s", targetKey))
		}

		tHp := r.w.fighterByKey(targetKey).HP()

		for _, attackerKey := range sortedHPKeys(entries) {
			drained := entries[attackerKey]

			// Armour drain would make the shield/armour split depend
			// on attack processing order; it is not supported.
			if drained.Armour != 0 {
				panic(fmt.Sprintf("armour drain is not supported (target %s)", targetKey))
			}
			if drained.Shield == 0 {
				// Missed or fully absorbed drain attempt.
				continue
			}

			var g HP
			if tHp.Armour > 0 || len(entries) == 1 {
				g.Armour = drained.Armour
			}
			if tHp.Shield > 0 || len(entries) == 1 {
				g.Shield = drained.Shield
			}

			if g.Armour > 0 || g.Shield > 0 {
				cur := gained[attackerKey]
				cur.Armour += g.Armour
				cur.Shield += g.Shield
				gained[attackerKey] = cur
			}
		}
	}

	return gained
}

// ResolveDamage runs the full damage-processing step and returns the
// dead set in ascending key order.
func (w *World) ResolveDamage(rnd Rand) []TargetKey {
	return newDamageRound(w, rnd).process()
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func sortedTargetKeys(m map[TargetKey]bool) []TargetKey {
	out := make([]TargetKey, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

func sortedHPKeys(m map[TargetKey]HP) []TargetKey {
	out := make([]TargetKey, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

func sortedEffectKeys(m map[TargetKey]Effects) []TargetKey {
	out := make([]TargetKey, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

func sortedDrainKeys(m map[TargetKey]map[TargetKey]HP) []TargetKey {
	out := make([]TargetKey, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}
