package world

import "fmt"

// TargetKind discriminates the two fighter variants. Structures sort
// before units; this order fixes every iteration that feeds random
// draws or irreversible side effects.
type TargetKind uint8

const (
	KindStructure TargetKind = 1
	KindUnit      TargetKind = 2
)

func (k TargetKind) String() string {
	switch k {
	case KindStructure:
		return "structure"
	case KindUnit:
		return "unit"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// TargetKey uniquely identifies a fighter across both entity kinds.
type TargetKey struct {
	Kind TargetKind
	ID   uint64
}

func (k TargetKey) String() string {
	return fmt.Sprintf("%s/%d", k.Kind, k.ID)
}

// Less orders keys by kind, then id.
func (k TargetKey) Less(o TargetKey) bool {
	if k.Kind != o.Kind {
		return k.Kind < o.Kind
	}
	return k.ID < o.ID
}

// HP is the current hit points of a fighter. The milli fields are the
// sub-unit regeneration remainders in [0, 1000); 1000 milli equal one
// whole point.
type HP struct {
	Armour int `json:"armour"`
	Shield int `json:"shield"`

	MilliArmour int `json:"milli_armour,omitempty"`
	MilliShield int `json:"milli_shield,omitempty"`
}

// TotalWhole returns the whole armour plus shield. A fighter dies when
// this reaches zero; milli remainders do not keep it alive.
func (h HP) TotalWhole() int {
	return h.Armour + h.Shield
}

// RegenData holds the maximum HP values and the per-step regeneration
// rates in milli HP.
type RegenData struct {
	MaxArmour int `yaml:"max_armour" json:"max_armour"`
	MaxShield int `yaml:"max_shield" json:"max_shield"`

	ArmourRegenMilli int `yaml:"armour_regen_milli" json:"armour_regen_milli,omitempty"`
	ShieldRegenMilli int `yaml:"shield_regen_milli" json:"shield_regen_milli,omitempty"`
}

// DamageSpec is the damage part of an attack or self-destruct ability.
// Optional fields are pointers so that "absent" and "zero" stay
// distinguishable, mirroring the catalog file format.
type DamageSpec struct {
	Min int `yaml:"min" json:"min"`
	Max int `yaml:"max" json:"max"`

	// WeaponSize, together with the target's size, determines the base
	// hit chance. Absent means the attack always has base chance 100.
	WeaponSize *int `yaml:"weapon_size,omitempty" json:"weapon_size,omitempty"`

	// Percent of the base damage that applies to shield respectively
	// armour. Absent means 100.
	ShieldPercent *int `yaml:"shield_percent,omitempty" json:"shield_percent,omitempty"`
	ArmourPercent *int `yaml:"armour_percent,omitempty" json:"armour_percent,omitempty"`
}

// EffectsSpec is the transient-effect payload an attack inflicts on the
// fighters it hits. Values are percent-point deltas.
type EffectsSpec struct {
	Speed       int  `yaml:"speed,omitempty" json:"speed,omitempty"`
	Range       int  `yaml:"range,omitempty" json:"range,omitempty"`
	HitChance   int  `yaml:"hit_chance,omitempty" json:"hit_chance,omitempty"`
	ShieldRegen int  `yaml:"shield_regen,omitempty" json:"shield_regen,omitempty"`
	Mentecon    bool `yaml:"mentecon,omitempty" json:"mentecon,omitempty"`
}

// Attack is one attack of a fighter.
//
// Exactly one of Range and Area must be set for a well-formed attack,
// or both: Range selects targets around the fighter's chosen target,
// Area turns the attack into an AoE. A nil Range with a set Area is a
// self-centred AoE.
type Attack struct {
	Range *int `yaml:"range,omitempty" json:"range,omitempty"`
	Area  *int `yaml:"area,omitempty" json:"area,omitempty"`

	Damage *DamageSpec `yaml:"damage,omitempty" json:"damage,omitempty"`

	// GainHP marks a drain attack: damage dealt is credited back to the
	// attacker as healing, subject to the contested-drain rules.
	GainHP bool `yaml:"gain_hp,omitempty" json:"gain_hp,omitempty"`

	// Friendlies marks an attack that affects allies instead of
	// enemies. Such attacks must be AoE.
	Friendlies bool `yaml:"friendlies,omitempty" json:"friendlies,omitempty"`

	Effects *EffectsSpec `yaml:"effects,omitempty" json:"effects,omitempty"`
}

// SelfDestruct is an ability that fires once when the fighter dies,
// as an AoE centred on its position against enemies in range.
type SelfDestruct struct {
	Area   int        `yaml:"area" json:"area"`
	Damage DamageSpec `yaml:"damage" json:"damage"`
}

// LowHPBoost is a conditional stat bonus active while the fighter's
// armour fraction is at or below MaxHPPercent of its maximum.
type LowHPBoost struct {
	MaxHPPercent int `yaml:"max_hp_percent" json:"max_hp_percent"`
	Damage       int `yaml:"damage,omitempty" json:"damage,omitempty"`
	Range        int `yaml:"range,omitempty" json:"range,omitempty"`
}

// CombatData is the static combat configuration of a fighter.
type CombatData struct {
	Attacks       []Attack       `yaml:"attacks,omitempty" json:"attacks,omitempty"`
	SelfDestructs []SelfDestruct `yaml:"self_destructs,omitempty" json:"self_destructs,omitempty"`
	LowHPBoosts   []LowHPBoost   `yaml:"low_hp_boosts,omitempty" json:"low_hp_boosts,omitempty"`

	// ReceivedDamagePercent modifies all damage this fighter takes.
	ReceivedDamagePercent int `yaml:"received_damage_percent,omitempty" json:"received_damage_percent,omitempty"`

	// HitChancePercent is the static hit-chance modifier for attacks
	// this fighter performs.
	HitChancePercent int `yaml:"hit_chance_percent,omitempty" json:"hit_chance_percent,omitempty"`

	// TargetSize, when set together with the attacker's weapon size,
	// feeds the size-based hit-chance formula.
	TargetSize *int `yaml:"target_size,omitempty" json:"target_size,omitempty"`
}

// Effects are the transient combat effects currently active on a
// fighter. They are replaced wholesale at the end of every damage
// round, never merged across rounds.
type Effects struct {
	Speed       int  `json:"speed,omitempty"`
	Range       int  `json:"range,omitempty"`
	HitChance   int  `json:"hit_chance,omitempty"`
	ShieldRegen int  `json:"shield_regen,omitempty"`
	Mentecon    bool `json:"mentecon,omitempty"`
}

// Empty reports whether no effect is active.
func (e Effects) Empty() bool {
	return e == Effects{}
}
