package bitonic

import (
	"cmp"

	"github.com/fxnlabs/bitonic/internal/gpu"
	"github.com/fxnlabs/bitonic/internal/network"
)

// hierGroupSize is the work-group size of the hierarchical kernel.
const hierGroupSize = 32

// CompareExchange runs the compare-exchange owned by work item id at stage
// i, sub-step j, and reports whether it swapped.
func CompareExchange[T cmp.Ordered](data []T, i, j, id int) bool {
	id0, id1 := network.Pair(id, i, j)
	if network.Swap(network.Descending(id0, i), data[id0], data[id1]) {
		data[id0], data[id1] = data[id1], data[id0]
		return true
	}
	return false
}

// SortPass launches the len(data)/2 compare-exchanges of step (i, j).
func SortPass[T cmp.Ordered](backend gpu.Backend, data []T, i, j int) error {
	return backend.ParallelFor(len(data)/2, func(id int) {
		CompareExchange(data, i, j, id)
	})
}

// AlternatingPass launches step (i, j) of the alternating form, where every
// comparison is ascending and sub-step 0 compares mirrored slots.
func AlternatingPass[T cmp.Ordered](backend gpu.Backend, data []T, i, j int) error {
	return backend.ParallelFor(len(data)/2, func(id int) {
		id0, id1 := network.AlternatingPair(id, i, j)
		if data[id0] > data[id1] {
			data[id0], data[id1] = data[id1], data[id0]
		}
	})
}

// HierarchicalPass launches step (i, j) as work-groups of groupSize work
// items, each owning the pair of its global id.
func HierarchicalPass[T cmp.Ordered](backend gpu.Backend, data []T, i, j, groupSize int) error {
	groups := len(data) / groupSize / 2
	return backend.ParallelForWorkGroup(groups, groupSize, 0, func(g *gpu.Group) error {
		g.ParallelForWorkItem(func(localID int) {
			CompareExchange(data, i, j, g.GlobalID(localID))
		})
		return nil
	})
}

// hierarchicalGroupSize returns the group size for n elements: 32 work items,
// n/2 for short inputs, never more than the device allows.
func hierarchicalGroupSize(n, maxWorkGroupSize int) int {
	size := hierGroupSize
	if n <= size {
		size = n / 2
	}
	if limit := network.ClosestPowerOf2(maxWorkGroupSize); size > limit {
		size = limit
	}
	return size
}
