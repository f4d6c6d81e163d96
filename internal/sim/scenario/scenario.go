// Package scenario loads world starting states from YAML files and
// instantiates them against the type catalogs.
package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"hexcraft.ai/internal/sim/catalogs"
	"hexcraft.ai/internal/sim/hex"
	"hexcraft.ai/internal/sim/tuning"
	"hexcraft.ai/internal/sim/world"
)

type Scenario struct {
	ID   string `yaml:"id"`
	Seed int64  `yaml:"seed"`

	SafeZones []world.SafeZone `yaml:"safe_zones,omitempty"`

	Structures []StructureSpec `yaml:"structures,omitempty"`
	Units      []UnitSpec      `yaml:"units,omitempty"`
}

// HPSpec overrides the starting HP of a spawned fighter. Absent fields
// default to zero, an absent spec to full HP from the type's regen data.
type HPSpec struct {
	Armour      int `yaml:"armour"`
	Shield      int `yaml:"shield"`
	MilliArmour int `yaml:"milli_armour,omitempty"`
	MilliShield int `yaml:"milli_shield,omitempty"`
}

type StructureSpec struct {
	Type    string    `yaml:"type"`
	Owner   string    `yaml:"owner,omitempty"`
	Faction string    `yaml:"faction"`
	Pos     hex.Coord `yaml:"pos"`
	HP      *HPSpec   `yaml:"hp,omitempty"`

	// Stashes are per-account item deposits inside the structure.
	Stashes map[string]map[string]int64 `yaml:"stashes,omitempty"`

	ConstructionInventory map[string]int64 `yaml:"construction_inventory,omitempty"`
}

type UnitSpec struct {
	Type    string    `yaml:"type"`
	Owner   string    `yaml:"owner"`
	Faction string    `yaml:"faction"`
	Pos     hex.Coord `yaml:"pos"`
	HP      *HPSpec   `yaml:"hp,omitempty"`

	Cargo    map[string]int64 `yaml:"cargo,omitempty"`
	Fitments []string         `yaml:"fitments,omitempty"`

	// Inside shelters the unit in the structure at the given 1-based
	// position in the scenario's structure list.
	Inside int `yaml:"inside,omitempty"`
}

// Load reads a scenario file.
func Load(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(raw, &sc); err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	if sc.ID == "" {
		return nil, fmt.Errorf("scenario: missing id")
	}
	return &sc, nil
}

// Build instantiates the scenario into a fresh world. Structures are
// spawned in file order, then units, so the ids a scenario's entities
// get are stable across runs.
func Build(sc *Scenario, cats *catalogs.Catalogs, tun tuning.Tuning) (*world.World, error) {
	w := world.New(world.Config{
		ID:                            sc.ID,
		Seed:                          sc.Seed,
		FitmentDropPercent:            tun.FitmentDropPercent,
		StructureInventoryDropPercent: tun.StructureInventoryDropPercent,
		FameRetentionSteps:            tun.FameRetentionSteps,
		KillFame:                      tun.KillFame,
		RegionSize:                    tun.RegionSize,
	})
	w.Map.SafeZones = append(w.Map.SafeZones, sc.SafeZones...)

	structureIDs := make([]uint64, len(sc.Structures))
	for i, spec := range sc.Structures {
		def, ok := cats.Structures[spec.Type]
		if !ok {
			return nil, fmt.Errorf("structure %d: unknown type %q", i, spec.Type)
		}
		fac, err := world.FactionFromString(spec.Faction)
		if err != nil {
			return nil, fmt.Errorf("structure %d: %w", i, err)
		}
		s := w.AddStructure(spec.Owner, fac, spec.Pos, def.ID, def.Combat, def.Regen, startHP(spec.HP, def.Regen))
		structureIDs[i] = s.ID
		for account, items := range spec.Stashes {
			inv := s.Inventory(account)
			for item, n := range items {
				inv.Add(item, n)
			}
		}
		for item, n := range spec.ConstructionInventory {
			s.ConstructionInventory.Add(item, n)
		}
	}

	for i, spec := range sc.Units {
		def, ok := cats.Units[spec.Type]
		if !ok {
			return nil, fmt.Errorf("unit %d: unknown type %q", i, spec.Type)
		}
		fac, err := world.FactionFromString(spec.Faction)
		if err != nil {
			return nil, fmt.Errorf("unit %d: %w", i, err)
		}
		if fac == world.FactionAncient {
			return nil, fmt.Errorf("unit %d: units cannot be ancient", i)
		}
		u := w.AddUnit(spec.Owner, fac, spec.Pos, def.ID, def.Combat, def.Regen, startHP(spec.HP, def.Regen))
		u.Vehicle = def.Vehicle
		u.Fitments = append(u.Fitments, spec.Fitments...)
		for item, n := range spec.Cargo {
			u.Inventory.Add(item, n)
		}
		if spec.Inside != 0 {
			if spec.Inside < 1 || spec.Inside > len(structureIDs) {
				return nil, fmt.Errorf("unit %d: inside references structure %d of %d", i, spec.Inside, len(structureIDs))
			}
			u.Inside = structureIDs[spec.Inside-1]
			u.Pos = sc.Structures[spec.Inside-1].Pos
		}
	}

	return w, nil
}

func startHP(spec *HPSpec, regen world.RegenData) world.HP {
	if spec == nil {
		return world.HP{Armour: regen.MaxArmour, Shield: regen.MaxShield}
	}
	return world.HP{
		Armour:      spec.Armour,
		Shield:      spec.Shield,
		MilliArmour: spec.MilliArmour,
		MilliShield: spec.MilliShield,
	}
}
