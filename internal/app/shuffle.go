package app

import "math/rand"

// Rand is the source of randomness for shuffling.
type Rand interface {
	Intn(n int) int
}

type globalRand struct{}

// Intn uses the package-level source, which is safe for concurrent use.
func (globalRand) Intn(n int) int { return rand.Intn(n) }

// DefaultRand draws from math/rand's shared source.
var DefaultRand Rand = globalRand{}

// Shuffle returns a uniformly random permutation of items using Fisher–Yates.
// items is left untouched.
func Shuffle[T any](rnd Rand, items []T) []T {
	shuffled := make([]T, len(items))
	copy(shuffled, items)

	for i := len(shuffled) - 1; i > 0; i-- {
		j := rnd.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}

// Sample shuffles items and keeps at most limit of them. A non-positive limit keeps all.
func Sample[T any](rnd Rand, items []T, limit int) []T {
	shuffled := Shuffle(rnd, items)
	if limit <= 0 || limit > len(shuffled) {
		limit = len(shuffled)
	}
	return shuffled[:limit]
}
