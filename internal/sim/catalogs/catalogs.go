// Package catalogs loads the static fighter-type definitions from the
// config directory. Catalog content is consensus-relevant; the loader
// computes a digest per file so that mismatched configs are caught
// before they cause divergence.
package catalogs

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"hexcraft.ai/internal/sim/world"
)

type Catalogs struct {
	Units      map[string]UnitDef
	Structures map[string]StructureDef

	UnitsDigest      string
	StructuresDigest string
}

// UnitDef is the static definition of a mobile-unit type.
type UnitDef struct {
	ID      string           `yaml:"id"`
	Vehicle string           `yaml:"vehicle"`
	Combat  world.CombatData `yaml:"combat"`
	Regen   world.RegenData  `yaml:"regen"`
}

// StructureDef is the static definition of a structure type.
type StructureDef struct {
	ID     string           `yaml:"id"`
	Combat world.CombatData `yaml:"combat"`
	Regen  world.RegenData  `yaml:"regen"`
}

// Load reads units.yaml and structures.yaml from dir.
func Load(dir string) (*Catalogs, error) {
	cats := &Catalogs{
		Units:      make(map[string]UnitDef),
		Structures: make(map[string]StructureDef),
	}

	var unitList struct {
		Units []UnitDef `yaml:"units"`
	}
	digest, err := loadYAML(filepath.Join(dir, "units.yaml"), &unitList)
	if err != nil {
		return nil, err
	}
	cats.UnitsDigest = digest
	for _, def := range unitList.Units {
		if err := validateDef(def.ID, &def.Combat, &def.Regen); err != nil {
			return nil, fmt.Errorf("unit %q: %w", def.ID, err)
		}
		if _, dup := cats.Units[def.ID]; dup {
			return nil, fmt.Errorf("duplicate unit type %q", def.ID)
		}
		cats.Units[def.ID] = def
	}

	var structureList struct {
		Structures []StructureDef `yaml:"structures"`
	}
	digest, err = loadYAML(filepath.Join(dir, "structures.yaml"), &structureList)
	if err != nil {
		return nil, err
	}
	cats.StructuresDigest = digest
	for _, def := range structureList.Structures {
		if err := validateDef(def.ID, &def.Combat, &def.Regen); err != nil {
			return nil, fmt.Errorf("structure %q: %w", def.ID, err)
		}
		if _, dup := cats.Structures[def.ID]; dup {
			return nil, fmt.Errorf("duplicate structure type %q", def.ID)
		}
		cats.Structures[def.ID] = def
	}

	return cats, nil
}

func loadYAML(path string, out any) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return "", fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

func validateDef(id string, cd *world.CombatData, regen *world.RegenData) error {
	if id == "" {
		return fmt.Errorf("missing id")
	}
	if regen.MaxArmour < 0 || regen.MaxShield < 0 {
		return fmt.Errorf("negative max HP")
	}
	for i, a := range cd.Attacks {
		if a.Range == nil && a.Area == nil {
			return fmt.Errorf("attack %d has neither range nor area", i)
		}
		if a.Friendlies && a.Area == nil {
			return fmt.Errorf("attack %d targets friendlies but is not AoE", i)
		}
		if d := a.Damage; d != nil && d.Min > d.Max {
			return fmt.Errorf("attack %d has inverted damage range", i)
		}
	}
	for i, sd := range cd.SelfDestructs {
		if sd.Area <= 0 {
			return fmt.Errorf("self-destruct %d without area", i)
		}
		if sd.Damage.Min > sd.Damage.Max {
			return fmt.Errorf("self-destruct %d has inverted damage range", i)
		}
	}
	return nil
}
