package bitonic

import (
	"cmp"

	"github.com/fxnlabs/bitonic/internal/gpu"
	"github.com/fxnlabs/bitonic/internal/network"
	"github.com/fxnlabs/bitonic/internal/simd"
)

// VectorPass launches step (i, j) as len(data)/width/2 units, each handling
// width consecutive work items as one vector batch. len(data) must be at
// least 2*unit.Width().
func VectorPass[T cmp.Ordered](backend gpu.Backend, unit simd.Unit[T], data []T, i, j int) error {
	width := unit.Width()
	return backend.ParallelFor(len(data)/width/2, func(u int) {
		ids := simd.Iota(width, u*width)
		id0s := simd.MapIndices(ids, func(id int) int {
			id0, _ := network.Pair(id, i, j)
			return id0
		})
		id1s := simd.MapIndices(ids, func(id int) int {
			_, id1 := network.Pair(id, i, j)
			return id1
		})
		ascending := simd.MaskFromIndices(id0s, func(id0 int) bool {
			return !network.Descending(id0, i)
		})

		d0 := unit.Gather(data, id0s)
		d1 := unit.Gather(data, id1s)

		// Ascending lanes swap when d0 > d1, descending lanes when d0 <= d1.
		// Swapping equal values in a descending lane leaves the data unchanged.
		swap := simd.MaskEqual(ascending, unit.Greater(d0, d1))
		unit.ScatterMasked(data, id0s, d1, swap)
		unit.ScatterMasked(data, id1s, d0, swap)
	})
}
