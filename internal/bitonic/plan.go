package bitonic

import (
	"fmt"

	"github.com/fxnlabs/bitonic/internal/gpu"
	"github.com/fxnlabs/bitonic/internal/network"
	"github.com/xlab/treeprint"
)

// Describe returns the launches a sort of n elements of elemSize bytes
// would issue on a device, one branch per stage.
func Describe(n int, info gpu.DeviceInfo, elemSize int64, opts Options) (treeprint.Tree, error) {
	if !network.IsPowerOf2(n) {
		return nil, fmt.Errorf("%w: %d", ErrNotPowerOfTwo, n)
	}
	tree := treeprint.NewWithRoot(fmt.Sprintf("%s sort of %d elements on %s", opts.Variant, n, info.Name))
	if n == 1 {
		return tree, nil
	}

	switch opts.Variant {
	case Naive, Alternating:
		describeFlat(tree, n, "pass")
	case Hierarchical:
		groupSize := hierarchicalGroupSize(n, info.MaxWorkGroupSize)
		if groupSize < 1 {
			return nil, fmt.Errorf("%w: device allows no work items per group", gpu.ErrInvalidLaunch)
		}
		tree.AddMetaNode("groups", fmt.Sprintf("%d x %d work items", n/groupSize/2, groupSize))
		describeFlat(tree, n, "group pass")
	case SIMD:
		width := opts.SIMDWidth
		if width <= 0 {
			width = info.SIMDWidth
		}
		if n <= width {
			tree.AddNode(fmt.Sprintf("host sort: %d elements fit in one %d lane vector", n, width))
			return tree, nil
		}
		tree.AddMetaNode("units", fmt.Sprintf("%d per pass, %d lanes each", n/width/2, width))
		describeFlat(tree, n, "vector pass")
	case Local:
		geo, err := newTileGeometry(n, info, elemSize, opts.ElementsPerItem)
		if err != nil {
			return nil, err
		}
		describeLocal(tree, n, geo)
	default:
		return nil, fmt.Errorf("unknown sort variant: %s", opts.Variant)
	}
	return tree, nil
}

func describeFlat(tree treeprint.Tree, n int, kind string) {
	for i := range network.LargeSteps(n) {
		stage := tree.AddMetaBranch(fmt.Sprintf("stage %d", i), fmt.Sprintf("boxes of %d", 2<<i))
		for j := 0; j <= i; j++ {
			stage.AddNode(fmt.Sprintf("%s %d: compare at distance %d", kind, j, (2<<(i-j))/2))
		}
	}
}

func describeLocal(tree treeprint.Tree, n int, geo tileGeometry) {
	tree.AddMetaNode("tiles", fmt.Sprintf("%d x %d elements, %d work items loading %d each, %d bytes local",
		geo.groups, geo.tileSize, geo.groupSize, geo.elementsPerItem, geo.localBytes))

	tree.AddBranch(fmt.Sprintf("local sort: stages 0..%d in every tile", geo.tileSteps-1))
	for i := geo.tileSteps; i < network.LargeSteps(n); i++ {
		stage := tree.AddMetaBranch(fmt.Sprintf("stage %d", i), fmt.Sprintf("boxes of %d", 2<<i))
		last := i - geo.tileSteps
		for j := 0; j <= last; j++ {
			stage.AddNode(fmt.Sprintf("global pass %d: compare at distance %d", j, (2<<(i-j))/2))
		}
		stage.AddNode(fmt.Sprintf("local sort: passes %d..%d in every tile", last+1, i))
	}
}
