package world

import "hexcraft.ai/internal/sim/hex"

// Rand is the deterministic random source driving all combat rolls of
// one step. *rng.Random implements it; tests substitute scripted
// sources.
type Rand interface {
	NextInt(n int) int
	ProbabilityRoll(num, denom uint32) bool
}

// processCombatTargets wraps the spatial query for combat purposes:
// it drops fighters in no-combat zones as well as the querying fighter
// itself. A mentecon effect on the querying fighter overrides the
// enemies flag and includes enemies and friendlies alike.
func (w *World) processCombatTargets(f Fighter, centre hex.Coord, l1range int,
	enemies bool, fn func(hex.Coord, TargetKey)) {
	myKey := f.TargetKey()

	mentecon := f.Effects().Mentecon
	lookForEnemies := enemies || mentecon
	lookForFriendlies := !enemies || mentecon

	w.forEachTargetInRange(centre, l1range, f.Faction(),
		lookForEnemies, lookForFriendlies,
		func(c hex.Coord, id TargetKey) {
			if w.Map.IsNoCombat(c) {
				return
			}
			if id == myKey {
				return
			}
			fn(c, id)
		})
}

// targetingResult is the outcome of target selection for one fighter,
// applied in a second stage so that selection itself stays free of
// side effects.
type targetingResult struct {
	f Fighter

	// enemyTargets are all enemies at the minimum distance; one of
	// them is drawn uniformly as "the" target.
	enemyTargets []TargetKey

	hasFriendlyTarget bool
}

func (w *World) selectNormalTarget(mod *combatModifier, res *targetingResult) {
	pos := res.f.Position()

	rangeVal := res.f.AttackRange(false)
	if rangeVal == NoAttacks {
		return
	}
	rangeVal = mod.rng.Apply(rangeVal)

	closest := 0
	w.processCombatTargets(res.f, pos, rangeVal, true,
		func(c hex.Coord, id TargetKey) {
			dist := hex.DistanceL1(pos, c)
			if len(res.enemyTargets) == 0 || dist < closest {
				closest = dist
				res.enemyTargets = res.enemyTargets[:0]
				res.enemyTargets = append(res.enemyTargets, id)
				return
			}
			if dist == closest {
				res.enemyTargets = append(res.enemyTargets, id)
			}
		})
}

func (w *World) selectFriendlyTargets(mod *combatModifier, res *targetingResult) {
	pos := res.f.Position()

	rangeVal := res.f.AttackRange(true)
	if rangeVal == NoAttacks {
		res.hasFriendlyTarget = false
		return
	}
	rangeVal = mod.rng.Apply(rangeVal)

	res.hasFriendlyTarget = false
	w.processCombatTargets(res.f, pos, rangeVal, false,
		func(hex.Coord, TargetKey) {
			res.hasFriendlyTarget = true
		})
}

func (w *World) selectTarget(f Fighter) targetingResult {
	res := targetingResult{f: f}

	// Fighters inside a no-combat zone do not fight at all.
	if w.Map.IsNoCombat(f.Position()) {
		return res
	}

	mod := computeModifier(f)
	w.selectNormalTarget(&mod, &res)
	w.selectFriendlyTargets(&mod, &res)
	return res
}

func (w *World) finaliseTargets(rnd Rand, res targetingResult) {
	if len(res.enemyTargets) == 0 {
		res.f.ClearTarget()
	} else {
		ind := rnd.NextInt(len(res.enemyTargets))
		res.f.SetTarget(res.enemyTargets[ind])
	}
	res.f.SetFriendlyTargets(res.hasFriendlyTarget)
}

// AcquireTargets runs the target-acquisition pass: every fighter with
// attacks gets a primary enemy target (or none) and its
// friendly-in-range flag. No HP is touched here.
func (w *World) AcquireTargets(rnd Rand) {
	w.forEachFighterWithAttacks(func(f Fighter) {
		w.finaliseTargets(rnd, w.selectTarget(f))
	})
}
