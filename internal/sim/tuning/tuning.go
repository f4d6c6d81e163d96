// Package tuning holds the server-operator-adjustable simulation
// parameters. Unlike catalogs, tuning is a single flat file.
package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	TickRateHz float64 `yaml:"tick_rate_hz"`

	FitmentDropPercent            int   `yaml:"fitment_drop_percent"`
	StructureInventoryDropPercent int   `yaml:"structure_inventory_drop_percent"`
	FameRetentionSteps            int   `yaml:"fame_retention_steps"`
	KillFame                      int64 `yaml:"kill_fame"`
	RegionSize                    int   `yaml:"region_size"`
}

func Default() Tuning {
	return Tuning{
		TickRateHz:                    1,
		FitmentDropPercent:            20,
		StructureInventoryDropPercent: 30,
		FameRetentionSteps:            100,
		KillFame:                      100,
		RegionSize:                    16,
	}
}

// Load reads a tuning file, applying defaults for absent keys.
func Load(path string) (Tuning, error) {
	t := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning: %w", err)
	}
	if err := t.validate(); err != nil {
		return t, err
	}
	return t, nil
}

func (t Tuning) validate() error {
	if t.TickRateHz <= 0 {
		return fmt.Errorf("tuning: tick_rate_hz must be positive")
	}
	if t.FitmentDropPercent < 0 || t.FitmentDropPercent > 100 {
		return fmt.Errorf("tuning: fitment_drop_percent out of range")
	}
	if t.StructureInventoryDropPercent < 0 || t.StructureInventoryDropPercent > 100 {
		return fmt.Errorf("tuning: structure_inventory_drop_percent out of range")
	}
	if t.FameRetentionSteps < 0 {
		return fmt.Errorf("tuning: fame_retention_steps must not be negative")
	}
	if t.KillFame < 0 {
		return fmt.Errorf("tuning: kill_fame must not be negative")
	}
	if t.RegionSize <= 0 {
		return fmt.Errorf("tuning: region_size must be positive")
	}
	return nil
}
