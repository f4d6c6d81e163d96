package world

import (
	"fmt"

	"hexcraft.ai/internal/sim/stats"
)

// regenerateComponent advances one HP component (armour or shield) by
// its milli rate, carrying whole groups of 1000 into the integer value
// and clamping at max. Returns the new values and whether anything
// changed.
func regenerateComponent(max, milliRate, oldCur, oldMilli int) (cur, milli int, changed bool) {
	if oldCur > max || (oldCur == max && oldMilli != 0) {
		panic(fmt.Sprintf("HP above max before regen: %d+%d/1000 of %d", oldCur, oldMilli, max))
	}

	milli = oldMilli + milliRate
	cur = oldCur + milli/1000
	milli %= 1000

	if cur >= max {
		cur = max
		milli = 0
	}

	return cur, milli, cur != oldCur || milli != oldMilli
}

// regenerateFighterHP applies HP regeneration to one fighter. The
// shield rate is adjusted by the fighter's active shield-regen effect.
func regenerateFighterHP(f Fighter) {
	regen := f.RegenData()
	hp := f.HP()

	if cur, milli, changed := regenerateComponent(
		regen.MaxArmour, regen.ArmourRegenMilli, hp.Armour, hp.MilliArmour); changed {
		hp.Armour = cur
		hp.MilliArmour = milli
	}

	shieldMod := stats.Modifier{Percent: f.Effects().ShieldRegen}
	shieldRate := shieldMod.Apply(regen.ShieldRegenMilli)

	if cur, milli, changed := regenerateComponent(
		regen.MaxShield, shieldRate, hp.Shield, hp.MilliShield); changed {
		hp.Shield = cur
		hp.MilliShield = milli
	}

	f.SetHP(hp)
}

// Regenerate applies HP regeneration to every fighter that has any
// regeneration left to do.
func (w *World) Regenerate() {
	w.forEachFighterCanRegen(regenerateFighterHP)
}
