// Package network holds the index arithmetic of the bitonic sorting network.
//
// A network over n = 2^k slots runs k stages (large steps). Stage i has i+1
// sub-steps (small steps) j = 0..i. Every sub-step compares n/2 disjoint pairs
// of slots; work item id in [0, n/2) owns exactly one pair.
package network

import "cmp"

// LargeSteps returns floor(log2(n)), the number of stages for n slots.
// It returns 0 for n <= 1.
func LargeSteps(n int) int {
	steps := 0
	for n > 1 {
		n >>= 1
		steps++
	}
	return steps
}

// ClosestPowerOf2 returns the largest power of two not greater than n,
// or 0 when n <= 0.
func ClosestPowerOf2(n int) int {
	if n <= 0 {
		return 0
	}
	return 1 << LargeSteps(n)
}

// IsPowerOf2 reports whether n is a positive power of two.
func IsPowerOf2(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// Pair maps work item id at stage i, sub-step j to the slots it compares,
// using the direct form: the partner sits half a box above id0.
func Pair(id, i, j int) (id0, id1 int) {
	boxSize := 2 << (i - j)
	half := boxSize / 2
	id0 = (id/half)*boxSize + id%half
	return id0, id0 + half
}

// AlternatingPair maps work item id to its slots using the alternating
// form. Sub-step 0 pairs id0 with its mirror inside the box (the flip),
// later sub-steps pair it half a box above, and every comparison is
// ascending.
func AlternatingPair(id, i, j int) (id0, id1 int) {
	boxSize := 2 << (i - j)
	half := boxSize / 2
	id0 = (id/half)*boxSize + id%half
	isSortPhase := 0
	if j != 0 {
		isSortPhase = 1
	}
	id1 = id0 + half + (isSortPhase-1)*(2*(id0%boxSize)-half+1)
	return id0, id1
}

// Descending reports whether slot id0 lies in a box that stage i merges
// into descending order. Odd boxes of size 2<<i are descending.
func Descending(id0, i int) bool {
	return (id0/(2<<i))%2 == 1
}

// DescendingIn is Descending with the big box size given directly, as used
// by the tiled sorter where the stage of the box and the stage of the pass
// differ.
func DescendingIn(id0, bigBoxSize int) bool {
	return (id0/bigBoxSize)%2 == 1
}

// Swap is the compare-exchange decision of the direct form. Equal values
// never swap.
func Swap[T cmp.Ordered](descending bool, a, b T) bool {
	if descending {
		return a < b
	}
	return a > b
}

// Step is one (large step, small step) coordinate of the network.
type Step struct {
	I, J int
}

// BoxSize is the size of the boxes compared at this step.
func (s Step) BoxSize() int { return 2 << (s.I - s.J) }

// BigBoxSize is the size of the boxes whose direction is fixed by this stage.
func (s Step) BigBoxSize() int { return 2 << s.I }

// Steps returns every step of the network over n slots in dispatch order.
func Steps(n int) []Step {
	large := LargeSteps(n)
	steps := make([]Step, 0, large*(large+1)/2)
	for i := range large {
		for j := 0; j <= i; j++ {
			steps = append(steps, Step{I: i, J: j})
		}
	}
	return steps
}
