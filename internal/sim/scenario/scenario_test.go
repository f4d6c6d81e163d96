package scenario

import (
	"testing"

	"hexcraft.ai/internal/sim/catalogs"
	"hexcraft.ai/internal/sim/tuning"
	"hexcraft.ai/internal/sim/world"
)

func loadFrontier(t *testing.T) (*Scenario, *catalogs.Catalogs, tuning.Tuning) {
	t.Helper()
	cats, err := catalogs.Load("../../../configs")
	if err != nil {
		t.Fatalf("loading catalogs: %v", err)
	}
	tun, err := tuning.Load("../../../configs/tuning.yaml")
	if err != nil {
		t.Fatalf("loading tuning: %v", err)
	}
	sc, err := Load("../../../configs/scenarios/frontier.yaml")
	if err != nil {
		t.Fatalf("loading scenario: %v", err)
	}
	return sc, cats, tun
}

func TestBuildFrontier(t *testing.T) {
	sc, cats, tun := loadFrontier(t)
	w, err := Build(sc, cats, tun)
	if err != nil {
		t.Fatalf("building scenario: %v", err)
	}

	if len(w.Structures) != 4 {
		t.Fatalf("structures = %d, want 4", len(w.Structures))
	}
	if len(w.Units) != 6 {
		t.Fatalf("units = %d, want 6", len(w.Units))
	}
	if len(w.Map.SafeZones) != 1 || w.Map.SafeZones[0].Radius != 5 {
		t.Fatalf("safe zones = %+v, want one of radius 5", w.Map.SafeZones)
	}

	// Structures spawn in file order, so the ancient obelisk is id 3
	// and the depot id 4.
	if got := w.Structures[3].Fac; got != world.FactionAncient {
		t.Fatalf("structure 3 faction = %v, want ancient", got)
	}
	depot := w.Structures[4]
	if got := w.Structures[2].Inventory("bluewing")["ore"]; got != 120 {
		t.Fatalf("bastion stash ore = %d, want 120", got)
	}

	sheltered := w.Units[6]
	if sheltered.Inside != depot.ID {
		t.Fatalf("unit 6 inside = %d, want depot %d", sheltered.Inside, depot.ID)
	}
	if sheltered.Pos != depot.Pos {
		t.Fatalf("sheltered unit pos = %v, want snapped to depot %v", sheltered.Pos, depot.Pos)
	}

	lancer := w.Units[2]
	if len(lancer.Fitments) != 1 || lancer.Fitments[0] != "targeting_array" {
		t.Fatalf("lancer fitments = %v, want [targeting_array]", lancer.Fitments)
	}
	if lancer.Vehicle != "medium_chassis" {
		t.Fatalf("lancer vehicle = %q, want medium_chassis", lancer.Vehicle)
	}
	if got := lancer.HP(); got != (world.HP{Armour: 400, Shield: 100}) {
		t.Fatalf("lancer HP = %+v, want full from regen data", got)
	}
	if got := w.Units[5].Inventory["ore"]; got != 10 {
		t.Fatalf("bomber cargo ore = %d, want 10", got)
	}
}

func TestBuildRejectsUnknownType(t *testing.T) {
	sc, cats, tun := loadFrontier(t)
	sc.Units[0].Type = "no_such_type"
	if _, err := Build(sc, cats, tun); err == nil {
		t.Fatalf("expected error for unknown unit type")
	}
}

func TestBuildRejectsAncientUnit(t *testing.T) {
	sc, cats, tun := loadFrontier(t)
	sc.Units[0].Faction = "a"
	if _, err := Build(sc, cats, tun); err == nil {
		t.Fatalf("expected error for ancient unit")
	}
}

func TestBuildRejectsBadInsideIndex(t *testing.T) {
	sc, cats, tun := loadFrontier(t)
	sc.Units[0].Inside = len(sc.Structures) + 1
	if _, err := Build(sc, cats, tun); err == nil {
		t.Fatalf("expected error for out-of-range inside index")
	}
}

func TestFrontierDeterministicReplay(t *testing.T) {
	sc, cats, tun := loadFrontier(t)

	a, err := Build(sc, cats, tun)
	if err != nil {
		t.Fatalf("building scenario: %v", err)
	}
	b, err := Build(sc, cats, tun)
	if err != nil {
		t.Fatalf("building scenario: %v", err)
	}

	for i := 0; i < 30; i++ {
		ra := a.Step()
		rb := b.Step()
		if ra.Digest != rb.Digest {
			t.Fatalf("digest mismatch at height %d: %s vs %s", ra.Height, ra.Digest, rb.Digest)
		}
	}
}
