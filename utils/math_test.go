package utils

import (
	"math/rand"
	"testing"

	"go.viam.com/test"
)

func TestSampleRandomIntRange(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		v := SampleRandomIntRange(3, 5, r)
		test.That(t, v, test.ShouldBeGreaterThanOrEqualTo, 3)
		test.That(t, v, test.ShouldBeLessThanOrEqualTo, 5)
	}
}

func TestSampleDistinctInts(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	scratch := Range(10)
	for i := 0; i < 50; i++ {
		idx := SampleDistinctInts(3, scratch, r)
		test.That(t, idx, test.ShouldHaveLength, 3)
		test.That(t, idx[0], test.ShouldNotEqual, idx[1])
		test.That(t, idx[0], test.ShouldNotEqual, idx[2])
		test.That(t, idx[1], test.ShouldNotEqual, idx[2])
	}
	// the scratch slice stays a permutation
	seen := map[int]bool{}
	for _, v := range scratch {
		seen[v] = true
	}
	test.That(t, len(seen), test.ShouldEqual, 10)
}

func TestSquare(t *testing.T) {
	test.That(t, Square(-3), test.ShouldEqual, 9.)
}
