package world

import (
	"fmt"

	"hexcraft.ai/internal/sim/hex"
)

// NoAttacks is the attack-range sentinel for fighters without any
// attack of the requested kind.
const NoAttacks = -1

// Fighter is the capability interface unifying mobile units and static
// structures for combat processing. Combat code never inspects which
// variant it operates on.
type Fighter interface {
	TargetKey() TargetKey
	Position() hex.Coord
	Faction() Faction

	CombatData() *CombatData
	RegenData() RegenData

	HP() HP
	SetHP(HP)

	Effects() Effects
	SetEffects(Effects)

	Target() (TargetKey, bool)
	SetTarget(TargetKey)
	ClearTarget()

	HasFriendlyTargets() bool
	SetFriendlyTargets(bool)

	// AttackRange returns the cached maximum range over the fighter's
	// normal (friendly=false) or friendly (friendly=true) attacks, or
	// NoAttacks if it has none of that kind.
	AttackRange(friendly bool) int
}

// combatCore is the combat-relevant state shared by both fighter
// variants. Units and structures embed it and add identity, position
// and faction.
type combatCore struct {
	hp      HP
	regen   RegenData
	combat  CombatData
	effects Effects

	target          *TargetKey
	friendlyTargets bool

	attackRange   int
	friendlyRange int
}

func newCombatCore(cd CombatData, regen RegenData, hp HP) combatCore {
	return combatCore{
		hp:            hp,
		regen:         regen,
		combat:        cd,
		attackRange:   FindAttackRange(&cd, false),
		friendlyRange: FindAttackRange(&cd, true),
	}
}

func (c *combatCore) CombatData() *CombatData { return &c.combat }
func (c *combatCore) RegenData() RegenData    { return c.regen }

func (c *combatCore) HP() HP { return c.hp }

func (c *combatCore) SetHP(hp HP) {
	if hp.Armour < 0 || hp.Shield < 0 || hp.MilliArmour < 0 || hp.MilliShield < 0 {
		panic(fmt.Sprintf("negative HP component: %+v", hp))
	}
	c.hp = hp
}

func (c *combatCore) Effects() Effects          { return c.effects }
func (c *combatCore) SetEffects(e Effects)      { c.effects = e }
func (c *combatCore) HasFriendlyTargets() bool  { return c.friendlyTargets }
func (c *combatCore) SetFriendlyTargets(v bool) { c.friendlyTargets = v }

func (c *combatCore) Target() (TargetKey, bool) {
	if c.target == nil {
		return TargetKey{}, false
	}
	return *c.target, true
}

func (c *combatCore) SetTarget(t TargetKey) {
	cp := t
	c.target = &cp
}

func (c *combatCore) ClearTarget() {
	c.target = nil
}

func (c *combatCore) AttackRange(friendly bool) int {
	if friendly {
		return c.friendlyRange
	}
	return c.attackRange
}

// FindAttackRange computes the maximum range over all attacks of the
// given kind, counting a self-centred AoE's area as its range.
func FindAttackRange(cd *CombatData, friendly bool) int {
	res := NoAttacks
	for i := range cd.Attacks {
		a := &cd.Attacks[i]
		if a.Friendlies != friendly {
			continue
		}

		var cur int
		switch {
		case a.Range != nil:
			cur = *a.Range
		case a.Area != nil:
			cur = *a.Area
		default:
			panic("attack has neither range nor area")
		}

		if res == NoAttacks || cur > res {
			res = cur
		}
	}
	return res
}

// canRegen reports whether the fighter has any regeneration left to do.
// Fighters at full HP with a zero remainder are skipped by the regen
// pass entirely.
func canRegen(hp HP, regen RegenData) bool {
	if regen.ShieldRegenMilli > 0 && hp.Shield < regen.MaxShield {
		return true
	}
	if regen.ArmourRegenMilli > 0 && hp.Armour < regen.MaxArmour {
		return true
	}
	return false
}
