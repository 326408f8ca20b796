// Package utils contains small helpers shared by the reconstruction and fitting packages.
package utils

import (
	"math/rand"
)

// Square returns n*n. Math.pow( x, 2 ) is slow, this is faster.
func Square(n float64) float64 {
	return n * n
}

// SampleRandomIntRange samples a random integer within a range given by [min, max]
// using the given rand.Rand.
func SampleRandomIntRange(min, max int, r *rand.Rand) int {
	return r.Intn(max-min+1) + min
}

// SampleDistinctInts draws k distinct indices from [0, n) using a partial Fisher-Yates
// shuffle over scratch. scratch must have length n and is reordered in place; the
// returned slice aliases its first k elements.
func SampleDistinctInts(k int, scratch []int, r *rand.Rand) []int {
	n := len(scratch)
	for i := 0; i < k; i++ {
		j := SampleRandomIntRange(i, n-1, r)
		scratch[i], scratch[j] = scratch[j], scratch[i]
	}
	return scratch[:k]
}

// Range returns the slice [0, 1, ..., n-1].
func Range(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
