package network

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLargeSteps(t *testing.T) {
	testCases := []struct {
		n    int
		want int
	}{
		{0, 0}, {1, 0}, {2, 1}, {3, 1}, {4, 2}, {7, 2}, {8, 3}, {4096, 12}, {1 << 20, 20},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, LargeSteps(tc.n), "n=%d", tc.n)
	}
}

func TestClosestPowerOf2(t *testing.T) {
	assert.Equal(t, 0, ClosestPowerOf2(-3))
	assert.Equal(t, 0, ClosestPowerOf2(0))
	assert.Equal(t, 1, ClosestPowerOf2(1))
	assert.Equal(t, 2, ClosestPowerOf2(3))
	assert.Equal(t, 32, ClosestPowerOf2(48))
	assert.Equal(t, 256, ClosestPowerOf2(256))
	assert.Equal(t, 256, ClosestPowerOf2(511))
}

func TestIsPowerOf2(t *testing.T) {
	assert.False(t, IsPowerOf2(0))
	assert.False(t, IsPowerOf2(-4))
	assert.True(t, IsPowerOf2(1))
	assert.True(t, IsPowerOf2(1024))
	assert.False(t, IsPowerOf2(1000))
}

func TestPair(t *testing.T) {
	// stage 1, sub-step 1: boxes of 2, neighbours
	id0, id1 := Pair(3, 1, 1)
	assert.Equal(t, 6, id0)
	assert.Equal(t, 7, id1)

	// stage 2, sub-step 0: boxes of 8, distance 4
	id0, id1 = Pair(5, 2, 0)
	assert.Equal(t, 9, id0)
	assert.Equal(t, 13, id1)
}

func TestAlternatingPair_Flip(t *testing.T) {
	// stage 1, sub-step 0 mirrors inside a box of 4: (0,3), (1,2), (4,7), (5,6)
	want := [][2]int{{0, 3}, {1, 2}, {4, 7}, {5, 6}}
	for id, w := range want {
		id0, id1 := AlternatingPair(id, 1, 0)
		assert.Equal(t, w, [2]int{id0, id1}, "id=%d", id)
	}
}

func TestPairsAreDisjoint(t *testing.T) {
	forms := map[string]func(id, i, j int) (int, int){
		"direct":      Pair,
		"alternating": AlternatingPair,
	}
	for name, form := range forms {
		t.Run(name, func(t *testing.T) {
			for k := 1; k <= 10; k++ {
				n := 1 << k
				for _, s := range Steps(n) {
					seen := make([]bool, n)
					for id := 0; id < n/2; id++ {
						id0, id1 := form(id, s.I, s.J)
						require.Less(t, id0, id1, "n=%d step=%v id=%d", n, s, id)
						require.Less(t, id1, n)
						require.False(t, seen[id0], "slot %d reused at n=%d step=%v", id0, n, s)
						require.False(t, seen[id1], "slot %d reused at n=%d step=%v", id1, n, s)
						seen[id0], seen[id1] = true, true
					}
				}
			}
		})
	}
}

func TestFormsAgreeOnSortSubSteps(t *testing.T) {
	for k := 1; k <= 12; k++ {
		n := 1 << k
		for _, s := range Steps(n) {
			for id := 0; id < n/2; id++ {
				d0, d1 := Pair(id, s.I, s.J)
				a0, a1 := AlternatingPair(id, s.I, s.J)
				require.Equal(t, d0, a0)
				if s.J > 0 {
					require.Equal(t, d1, a1, "n=%d step=%v id=%d", n, s, id)
					continue
				}
				// The flip partner is the direct partner read through the
				// reversed upper half of the box.
				box := s.BoxSize()
				start := d0 - d0%box
				half := box / 2
				require.Equal(t, start+half+(half-1-(d1-start-half)), a1, "n=%d step=%v id=%d", n, s, id)
			}
		}
	}
}

func TestFormsAgreeOnSwapDecisionInAscendingBoxes(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for k := 1; k <= 10; k++ {
		n := 1 << k
		for _, s := range Steps(n) {
			if s.J == 0 {
				continue
			}
			for id := 0; id < n/2; id++ {
				id0, _ := Pair(id, s.I, s.J)
				if Descending(id0, s.I) {
					continue
				}
				a, b := rng.IntN(5), rng.IntN(5)
				assert.Equal(t, a > b, Swap(false, a, b))
			}
		}
	}
}

// runDirect applies every step of stage i with the direct form.
func runDirect(data []int, i int) {
	for j := 0; j <= i; j++ {
		for id := 0; id < len(data)/2; id++ {
			id0, id1 := Pair(id, i, j)
			if Swap(Descending(id0, i), data[id0], data[id1]) {
				data[id0], data[id1] = data[id1], data[id0]
			}
		}
	}
}

// runAlternating applies every step of stage i with the alternating form.
func runAlternating(data []int, i int) {
	for j := 0; j <= i; j++ {
		for id := 0; id < len(data)/2; id++ {
			id0, id1 := AlternatingPair(id, i, j)
			if data[id0] > data[id1] {
				data[id0], data[id1] = data[id1], data[id0]
			}
		}
	}
}

func TestFormsAgreeAfterEveryStage(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for k := 1; k <= 10; k++ {
		n := 1 << k
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			for trial := 0; trial < 20; trial++ {
				direct := make([]int, n)
				for idx := range direct {
					direct[idx] = rng.IntN(n)
				}
				alternating := slices.Clone(direct)

				for i := range LargeSteps(n) {
					runDirect(direct, i)
					runAlternating(alternating, i)

					big := 2 << i
					for start := 0; start < n; start += big {
						want := slices.Clone(alternating[start : start+big])
						if (start/big)%2 == 1 {
							slices.Reverse(want)
						}
						require.Equal(t, want, direct[start:start+big], "stage %d box at %d", i, start)
					}
				}
				assert.True(t, slices.IsSorted(direct))
				assert.Equal(t, direct, alternating)
			}
		})
	}
}

func TestTraceOfFourElements(t *testing.T) {
	alternating := []int{5, 3, 8, 1}
	runAlternating(alternating, 0)
	assert.Equal(t, []int{3, 5, 1, 8}, alternating)
	runAlternating(alternating, 1)
	assert.Equal(t, []int{1, 3, 5, 8}, alternating)

	direct := []int{5, 3, 8, 1}
	runDirect(direct, 0)
	assert.Equal(t, []int{3, 5, 8, 1}, direct)
	runDirect(direct, 1)
	assert.Equal(t, []int{1, 3, 5, 8}, direct)
}

func TestSwapNeverFiresOnTies(t *testing.T) {
	assert.False(t, Swap(false, 4, 4))
	assert.False(t, Swap(true, 4, 4))
	assert.True(t, Swap(false, 5, 4))
	assert.True(t, Swap(true, 4, 5))
}

func TestSteps(t *testing.T) {
	assert.Empty(t, Steps(1))
	assert.Equal(t, []Step{{0, 0}, {1, 0}, {1, 1}}, Steps(4))
	assert.Len(t, Steps(1<<12), 12*13/2)

	s := Step{I: 3, J: 1}
	assert.Equal(t, 8, s.BoxSize())
	assert.Equal(t, 16, s.BigBoxSize())
}

func TestDescendingIn(t *testing.T) {
	for id0 := 0; id0 < 64; id0++ {
		assert.Equal(t, Descending(id0, 2), DescendingIn(id0, 8))
	}
}
