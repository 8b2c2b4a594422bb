package bitonic

import (
	"cmp"
	"fmt"

	"github.com/fxnlabs/bitonic/internal/gpu"
	"github.com/fxnlabs/bitonic/internal/network"
)

// localReserve is the number of elements per work item left in local memory
// for the kernel's own variables.
const localReserve = 16

// tileGeometry is how the local variant cuts a sequence into tiles.
type tileGeometry struct {
	elementsPerItem int
	groupSize       int
	tileSize        int
	groups          int
	tileSteps       int
	localBytes      int64
}

func (g tileGeometry) opsPerItem() int { return g.elementsPerItem / 2 }

// newTileGeometry sizes tiles for n elements of elemSize bytes so one tile
// fits the device local memory. elementsPerItem > 0 overrides the number of
// elements each work item loads.
func newTileGeometry(n int, info gpu.DeviceInfo, elemSize int64, elementsPerItem int) (tileGeometry, error) {
	if info.MaxWorkGroupSize <= 0 || info.LocalMemSize <= 0 {
		return tileGeometry{}, fmt.Errorf("device reports no local memory or work-group size")
	}

	perItem := elementsPerItem
	if perItem <= 0 {
		memPerItem := info.LocalMemSize / int64(info.MaxWorkGroupSize)
		perItem = network.ClosestPowerOf2(int(memPerItem/elemSize) - localReserve)
	}
	if perItem < 2 || n < perItem {
		perItem = 2
	}
	if !network.IsPowerOf2(perItem) {
		return tileGeometry{}, fmt.Errorf("elements per work item must be a power of two, got %d", perItem)
	}

	groupSize := min(network.ClosestPowerOf2(info.MaxWorkGroupSize), n/perItem)
	tileSize := groupSize * perItem
	return tileGeometry{
		elementsPerItem: perItem,
		groupSize:       groupSize,
		tileSize:        tileSize,
		groups:          n / tileSize,
		tileSteps:       network.LargeSteps(tileSize),
		localBytes:      int64(tileSize) * elemSize,
	}, nil
}

// tiledSorter runs the local variant over one device buffer.
type tiledSorter[T cmp.Ordered] struct {
	backend gpu.Backend
	data    []T
	geo     tileGeometry
	stats   *Stats
}

// run sorts every tile locally, then for each stage whose boxes outgrow a
// tile, merges across tiles in global memory and finishes the stage's
// remaining sub-steps locally again.
func (s *tiledSorter[T]) run() error {
	if err := s.localSort(0); err != nil {
		return err
	}
	for i := s.geo.tileSteps; i < network.LargeSteps(len(s.data)); i++ {
		if err := s.globalSort(i); err != nil {
			return err
		}
		if err := s.localSort(i); err != nil {
			return err
		}
	}
	return nil
}

// localSort loads each tile into local memory, runs the network on it and
// stores it back. With largeStep 0 it runs every stage that fits in a tile;
// otherwise it runs the sub-steps of stage largeStep whose boxes fit in a
// tile, with box direction taken from stage largeStep.
func (s *tiledSorter[T]) localSort(largeStep int) error {
	geo := s.geo
	first := 0
	if largeStep != 0 {
		first = geo.tileSteps - 1
	}

	err := s.backend.ParallelForWorkGroup(geo.groups, geo.groupSize, geo.localBytes, func(g *gpu.Group) error {
		start := g.ID * geo.tileSize
		local := make([]T, geo.tileSize)

		g.ParallelForWorkItem(func(localID int) {
			at := localID * geo.elementsPerItem
			copy(local[at:at+geo.elementsPerItem], s.data[start+at:])
		})

		for i := first; i < geo.tileSteps; i++ {
			bigBoxSize := 2 << i
			if largeStep != 0 {
				bigBoxSize = 2 << largeStep
			}
			for j := 0; j <= i; j++ {
				g.ParallelForWorkItem(func(localID int) {
					for el := 0; el < geo.opsPerItem(); el++ {
						id0, id1 := network.Pair(localID*geo.opsPerItem()+el, i, j)
						if network.Swap(network.DescendingIn(start+id0, bigBoxSize), local[id0], local[id1]) {
							local[id0], local[id1] = local[id1], local[id0]
						}
					}
				})
			}
		}

		g.ParallelForWorkItem(func(localID int) {
			at := localID * geo.elementsPerItem
			copy(s.data[start+at:start+at+geo.elementsPerItem], local[at:])
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("local sort at stage %d: %w", largeStep, err)
	}

	s.stats.GroupLaunches++
	for i := first; i < geo.tileSteps; i++ {
		s.stats.LocalPasses += i + 1
	}
	return nil
}

// globalSort runs the sub-steps of stage largeStep whose boxes are larger
// than a tile directly on the whole sequence.
func (s *tiledSorter[T]) globalSort(largeStep int) error {
	lastSmallStep := largeStep - s.geo.tileSteps
	for j := 0; j <= lastSmallStep; j++ {
		if err := SortPass(s.backend, s.data, largeStep, j); err != nil {
			return fmt.Errorf("global sort at stage %d, sub-step %d: %w", largeStep, j, err)
		}
		s.stats.GlobalPasses++
	}
	return nil
}
