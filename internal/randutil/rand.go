// Package randutil derives reproducible random sources for decks and simulations.
package randutil

import (
	rand "math/rand/v2"
	"time"
)

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a *rand.Rand seeded deterministically from seed. The two 64-bit
// PCG seeds are derived with splitmix so nearby seeds still diverge quickly.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// NewOrRandom behaves like New for a non-zero seed and falls back to the
// wall clock when seed is zero, which is how configs express "unseeded".
func NewOrRandom(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return New(seed)
}

// Derive returns an independent source for the n-th consumer of a parent
// seed, so every table gets its own shuffle stream under a single config seed.
func Derive(seed int64, n int) *rand.Rand {
	if seed == 0 {
		return NewOrRandom(0)
	}
	return New(int64(mix(uint64(seed) + uint64(n)*goldenRatio64)))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
