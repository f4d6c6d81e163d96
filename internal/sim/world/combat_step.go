package world

import "hexcraft.ai/internal/sim/rng"

// TargetRef is the JSON form of a TargetKey used in step reports.
type TargetRef struct {
	Kind string `json:"kind"`
	ID   uint64 `json:"id"`
}

func (k TargetKey) Ref() TargetRef {
	return TargetRef{Kind: k.Kind.String(), ID: k.ID}
}

// StepReport summarises one simulation step for logging, indexing and
// observers.
type StepReport struct {
	Height uint64      `json:"height"`
	Digest string      `json:"digest"`
	Dead   []TargetRef `json:"dead,omitempty"`
	Drops  []LootDrop  `json:"drops,omitempty"`
}

// RunCombatStep executes the combat pipeline for one step in its fixed
// order: target acquisition, damage resolution (drain phase, normal
// phase, self-destruct waves, effects commit), kill-fame credit, kill
// processing, regeneration. It returns the dead set.
func (w *World) RunCombatStep(rnd Rand) []TargetKey {
	w.stepDrops = nil
	w.damage.Prune(w.height)

	w.AcquireTargets(rnd)
	dead := w.ResolveDamage(rnd)
	w.creditKillFame(dead)
	w.ProcessKills(rnd, dead)
	w.Regenerate()

	return dead
}

// Step advances the world by one step, deriving the step's random
// stream from the world seed and the new height, and returns the
// step report including the state digest.
func (w *World) Step() StepReport {
	w.height++
	dead := w.RunCombatStep(rng.ForStep(w.cfg.Seed, w.height))

	report := StepReport{
		Height: w.height,
		Digest: w.stateDigest(),
		Drops:  w.stepDrops,
	}
	for _, k := range dead {
		report.Dead = append(report.Dead, k.Ref())
	}
	return report
}
