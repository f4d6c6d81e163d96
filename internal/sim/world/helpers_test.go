package world

// scriptRand replays a fixed script of random draws. An exhausted int
// script returns zero (first candidate, minimum damage); an exhausted
// roll script succeeds. Tests only script the draws they assert on.
type scriptRand struct {
	ints  []int
	rolls []bool
}

func (r *scriptRand) NextInt(n int) int {
	if n <= 0 {
		panic("scriptRand: non-positive bound")
	}
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	if v >= n {
		v = n - 1
	}
	return v
}

func (r *scriptRand) ProbabilityRoll(num, denom uint32) bool {
	if denom == 0 || num > denom {
		panic("scriptRand: invalid probability")
	}
	if len(r.rolls) == 0 {
		return true
	}
	v := r.rolls[0]
	r.rolls = r.rolls[1:]
	return v
}

func intp(v int) *int { return &v }

func newTestWorld() *World {
	return New(Config{
		ID:                            "test",
		Seed:                          7,
		FitmentDropPercent:            20,
		StructureInventoryDropPercent: 30,
		FameRetentionSteps:            100,
		KillFame:                      100,
		RegionSize:                    16,
	})
}

// rangedCombat is a single ranged attack with a fixed damage roll.
func rangedCombat(rangeVal, min, max int) CombatData {
	return CombatData{Attacks: []Attack{{
		Range:  intp(rangeVal),
		Damage: &DamageSpec{Min: min, Max: max},
	}}}
}

// drainCombat is a ranged gain_hp AoE that cannot touch armour.
func drainCombat(rangeVal, area, min, max int) CombatData {
	return CombatData{Attacks: []Attack{{
		Range:  intp(rangeVal),
		Area:   intp(area),
		GainHP: true,
		Damage: &DamageSpec{Min: min, Max: max, ArmourPercent: intp(0)},
	}}}
}
