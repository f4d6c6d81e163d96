package rng

import "testing"

func TestSameSeedSameStream(t *testing.T) {
	a := ForStep(42, 100)
	b := ForStep(42, 100)
	for i := 0; i < 1000; i++ {
		va := a.NextInt(1000)
		vb := b.NextInt(1000)
		if va != vb {
			t.Fatalf("draw %d diverged: %d vs %d", i, va, vb)
		}
	}
}

func TestDifferentHeightsDiffer(t *testing.T) {
	a := ForStep(42, 100)
	b := ForStep(42, 101)
	same := true
	for i := 0; i < 64; i++ {
		if a.NextInt(1<<30) != b.NextInt(1<<30) {
			same = false
			break
		}
	}
	if same {
		t.Fatalf("streams for different heights are identical")
	}
}

func TestNextIntRange(t *testing.T) {
	r := ForStep(7, 1)
	seen := make(map[int]bool)
	for i := 0; i < 10000; i++ {
		v := r.NextInt(10)
		if v < 0 || v >= 10 {
			t.Fatalf("NextInt(10) out of range: %d", v)
		}
		seen[v] = true
	}
	if len(seen) != 10 {
		t.Fatalf("expected all 10 values after 10000 draws, saw %d", len(seen))
	}
}

func TestNextIntOne(t *testing.T) {
	r := ForStep(7, 1)
	for i := 0; i < 10; i++ {
		if v := r.NextInt(1); v != 0 {
			t.Fatalf("NextInt(1) = %d, want 0", v)
		}
	}
}

func TestProbabilityRollBounds(t *testing.T) {
	r := ForStep(9, 3)
	for i := 0; i < 100; i++ {
		if !r.ProbabilityRoll(100, 100) {
			t.Fatalf("certain roll failed")
		}
		if r.ProbabilityRoll(0, 100) {
			t.Fatalf("impossible roll succeeded")
		}
	}
}

func TestProbabilityRollRoughlyFair(t *testing.T) {
	r := ForStep(1234, 5)
	hits := 0
	const n = 20000
	for i := 0; i < n; i++ {
		if r.ProbabilityRoll(30, 100) {
			hits++
		}
	}
	// 30% +- generous slack; this is a sanity check, not a statistics test.
	if hits < n*25/100 || hits > n*35/100 {
		t.Fatalf("30%% roll hit %d of %d", hits, n)
	}
}
