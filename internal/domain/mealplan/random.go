package mealplan

import (
	"math/rand/v2"
	"time"
)

// Rand is the source of randomness used for tie-breaking and day reuse.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

// NewSeededRand returns a deterministic PCG-backed source
func NewSeededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewRand returns a source seeded from seed, or from the clock when seed is 0
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return NewSeededRand(seed)
}
