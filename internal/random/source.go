package random

import "math/rand"

// Source is the minimal random interface used by duel components.
//
// *math/rand.Rand satisfies it. Tests may supply scripted sources.
type Source interface {
	Intn(n int) int
}

// cursorStride spreads consecutive cursors across the seed space.
const cursorStride int64 = 0x5851F42D4C957F2D

// New returns a math/rand generator seeded with seed.
func New(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Derive returns a generator for one step of a seeded stream.
//
// # Determinism
//
// The same (seed, cursor) pair always yields the same sequence, so state that
// carries both values can be resolved again with identical results.
func Derive(seed int64, cursor uint64) *rand.Rand {
	return New(seed ^ (int64(cursor) * cursorStride))
}

// Shuffle permutes values in place with the Fisher–Yates algorithm.
func Shuffle[T any](rng Source, values []T) {
	for i := len(values) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		values[i], values[j] = values[j], values[i]
	}
}

// Percent reports whether a roll succeeds with the given chance in percent.
// Chances at or below 0 never succeed and chances at or above 100 always do.
func Percent(rng Source, chance int) bool {
	if chance <= 0 {
		return false
	}
	if chance >= 100 {
		return true
	}
	return rng.Intn(100) < chance
}
