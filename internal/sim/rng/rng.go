// Package rng implements the deterministic pseudorandom source shared by
// all consensus-relevant rolls in a simulation step. The stream is a
// SHA-256 chain over the seed, so re-executions with the same seed see
// the exact same sequence of draws.
package rng

import (
	"crypto/sha256"
	"encoding/binary"
)

// Random produces a deterministic byte stream derived from a seed.
// It is not safe for concurrent use; the simulation step is
// single-threaded by design.
type Random struct {
	state [32]byte
	buf   [32]byte
	off   int
}

// New returns a Random seeded with the given 32-byte seed.
func New(seed [32]byte) *Random {
	r := &Random{state: seed}
	r.refill()
	return r
}

// ForStep derives the per-step random source from the world seed and the
// step height. Each height gets an independent stream.
func ForStep(seed int64, height uint64) *Random {
	var b [16]byte
	binary.LittleEndian.PutUint64(b[0:8], uint64(seed))
	binary.LittleEndian.PutUint64(b[8:16], height)
	return New(sha256.Sum256(b[:]))
}

func (r *Random) refill() {
	r.buf = sha256.Sum256(r.state[:])
	r.state = r.buf
	r.off = 0
}

func (r *Random) byteValue() byte {
	if r.off >= len(r.buf) {
		r.refill()
	}
	b := r.buf[r.off]
	r.off++
	return b
}

func (r *Random) uint64Value() uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v = v<<8 | uint64(r.byteValue())
	}
	return v
}

// NextInt returns a uniform integer in [0, n). n must be positive.
// Rejection sampling keeps the distribution exactly uniform.
func (r *Random) NextInt(n int) int {
	if n <= 0 {
		panic("rng: NextInt called with non-positive bound")
	}
	un := uint64(n)
	limit := ^uint64(0) - ^uint64(0)%un
	for {
		v := r.uint64Value()
		if v < limit {
			return int(v % un)
		}
	}
}

// ProbabilityRoll performs one Bernoulli trial that succeeds with
// probability num/denom.
func (r *Random) ProbabilityRoll(num, denom uint32) bool {
	if denom == 0 {
		panic("rng: ProbabilityRoll with zero denominator")
	}
	if num > denom {
		panic("rng: ProbabilityRoll with probability above one")
	}
	return uint32(r.NextInt(int(denom))) < num
}
