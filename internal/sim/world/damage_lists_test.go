package world

import "testing"

func TestDamageListsAttackersSorted(t *testing.T) {
	dl := NewDamageLists(10)
	dl.AddEntry(7, 30, 1)
	dl.AddEntry(7, 10, 2)
	dl.AddEntry(7, 20, 3)

	got := dl.Attackers(7)
	want := []uint64{10, 20, 30}
	if len(got) != len(want) {
		t.Fatalf("attackers = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("attackers = %v, want %v", got, want)
		}
	}
}

func TestDamageListsPrune(t *testing.T) {
	dl := NewDamageLists(10)
	dl.AddEntry(7, 1, 5)
	dl.AddEntry(7, 2, 96)
	dl.AddEntry(8, 1, 95)

	// Cutoff at height 105 is 95; entries at or below it expire.
	dl.Prune(105)

	if got := dl.Attackers(7); len(got) != 1 || got[0] != 2 {
		t.Fatalf("attackers of 7 = %v, want [2]", got)
	}
	if got := dl.Attackers(8); len(got) != 0 {
		t.Fatalf("attackers of 8 = %v, want empty", got)
	}
}

func TestDamageListsPruneBeforeWindowFills(t *testing.T) {
	dl := NewDamageLists(100)
	dl.AddEntry(7, 1, 1)

	dl.Prune(50)

	if got := dl.Attackers(7); len(got) != 1 {
		t.Fatalf("attackers = %v, want entry kept", got)
	}
}

func TestDamageListsRefreshExtendsRetention(t *testing.T) {
	dl := NewDamageLists(10)
	dl.AddEntry(7, 1, 5)
	dl.AddEntry(7, 1, 100)

	dl.Prune(105)

	if got := dl.Attackers(7); len(got) != 1 || got[0] != 1 {
		t.Fatalf("attackers = %v, want refreshed entry kept", got)
	}
}

func TestDamageListsRemoveUnit(t *testing.T) {
	dl := NewDamageLists(10)
	dl.AddEntry(7, 1, 5)
	dl.AddEntry(7, 2, 5)
	dl.AddEntry(1, 7, 5)

	dl.RemoveUnit(7)

	if got := dl.Attackers(7); len(got) != 0 {
		t.Fatalf("attackers of removed victim = %v, want empty", got)
	}
	if got := dl.Attackers(1); len(got) != 0 {
		t.Fatalf("removed unit still on record as attacker: %v", got)
	}
}
