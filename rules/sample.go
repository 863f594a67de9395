package rules

import (
	"math/rand/v2"
	"slices"
)

// SampleDistinct returns k elements of pool chosen uniformly at random
// without replacement. k is clamped to [0, len(pool)], so asking for more
// than the pool holds returns a permutation of the whole pool.
func SampleDistinct[T any](rng *rand.Rand, pool []T, k int) []T {
	if k > len(pool) {
		k = len(pool)
	}
	if k <= 0 {
		return nil
	}
	buf := slices.Clone(pool)
	// partial Fisher-Yates: the first k slots end up as the sample
	for i := range k {
		j := i + rng.IntN(len(buf)-i)
		buf[i], buf[j] = buf[j], buf[i]
	}
	return buf[:k]
}

// weightedIndex draws an index with probability proportional to weights.
// Non-positive weights are never drawn; if every weight is non-positive
// index 0 is returned.
func weightedIndex(rng *rand.Rand, weights []float64) int {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	r := rng.Float64() * total
	last := 0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		if r < w {
			return i
		}
		r -= w
		last = i
	}
	return last
}

// dedupe removes repeated coordinates keeping the first occurrence.
func dedupe[T comparable](in []T) []T {
	seen := make(map[T]bool, len(in))
	out := make([]T, 0, len(in))
	for _, v := range in {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
