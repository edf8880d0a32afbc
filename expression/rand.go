package expression

import (
	"crypto/sha256"
	"encoding/binary"
	"math/rand"
	"sync"
)

// Rand is a mutex-guarded RNG, the same shape as
// intelligence.SimpleMutationEngine's embedded *rand.Rand in the
// teacher repo: safe to share across goroutines, even though the
// evolutionary loop itself is single-threaded (spec §5) — tournament
// match parallelism and telemetry sessions run concurrently with it.
type Rand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRand builds a Rand from a fixed seed.
func NewRand(seed int64) *Rand {
	return &Rand{r: rand.New(rand.NewSource(seed))}
}

// SeedForOffspring derives a deterministic seed from a parent identifier
// and an offspring index, so re-running a generation with the same
// parent ordering reproduces the same mutations.
func SeedForOffspring(parentID string, index int) int64 {
	h := sha256.New()
	h.Write([]byte(parentID))
	var idx [8]byte
	binary.LittleEndian.PutUint64(idx[:], uint64(index))
	h.Write(idx[:])
	sum := h.Sum(nil)
	return int64(binary.LittleEndian.Uint64(sum[:8]))
}

// Bool reports true with probability p.
func (r *Rand) Bool(p float64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.r.Float64() < p
}

// Intn returns a uniform integer in [0, n).
func (r *Rand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.r.Intn(n)
}

// RangeInt returns a uniform integer in [lo, hi).
func (r *Rand) RangeInt(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.Intn(hi-lo)
}

// Jitter returns a uniform integer in [-1, 1] inclusive, used to jitter
// ConstantNumber values.
func (r *Rand) Jitter() int {
	return r.RangeInt(-1, 2)
}

// Direction returns a uniformly random cardinal direction.
func (r *Rand) Direction() int {
	return r.Intn(4)
}

// Uint64 returns a uniformly random 64-bit value, used to draw fresh
// species identifiers.
func (r *Rand) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.r.Uint64()
}

// Shuffle randomizes the order of a slice of length n in place using
// the provided swap function, the same contract as sort.Interface's
// Swap / math/rand.Shuffle.
func (r *Rand) Shuffle(n int, swap func(i, j int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.r.Shuffle(n, swap)
}

// Float64 returns a uniform float64 in [0, 1).
func (r *Rand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.r.Float64()
}
