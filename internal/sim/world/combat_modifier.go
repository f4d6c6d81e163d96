package world

import "hexcraft.ai/internal/sim/stats"

// combatModifier bundles the per-round stat modifications of one
// fighter. It is computed once from a pre-round snapshot so that HP
// changes during the round cannot shift anyone's boosts.
type combatModifier struct {
	damage    stats.Modifier
	rng       stats.Modifier
	hitChance stats.Modifier
}

// computeModifier derives the modifier for a fighter from its low-HP
// boosts, its static hit-chance modifier and its active effects.
// Everything composes additively.
func computeModifier(f Fighter) combatModifier {
	var mod combatModifier

	cd := f.CombatData()
	hp := f.HP()
	regen := f.RegenData()

	for _, b := range cd.LowHPBoosts {
		// hp/max > p/100 iff 100*hp > p*max; the boost is active only
		// at or below the threshold.
		if 100*hp.Armour > b.MaxHPPercent*regen.MaxArmour {
			continue
		}
		mod.damage.Add(b.Damage)
		mod.rng.Add(b.Range)
	}

	eff := f.Effects()
	mod.rng.Add(eff.Range)
	mod.hitChance.Add(cd.HitChancePercent)
	mod.hitChance.Add(eff.HitChance)

	return mod
}
