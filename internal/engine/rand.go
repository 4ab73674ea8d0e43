package engine

import "math/rand/v2"

// Rand is the source of every random decision the engine makes.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// NewRand returns a deterministic source for seed.
func NewRand(seed uint64) Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func pick[T any](rng Rand, items []T) T {
	return items[rng.IntN(len(items))]
}
