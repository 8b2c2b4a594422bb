package bitonic

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/fxnlabs/bitonic/internal/gpu"
	"github.com/fxnlabs/bitonic/internal/metrics"
	"github.com/fxnlabs/bitonic/internal/network"
	"github.com/fxnlabs/bitonic/internal/simd"
	"go.uber.org/zap"
)

// Options configures a Sorter.
type Options struct {
	Variant Variant
	// ElementsPerItem is the number of elements each work item of the local
	// variant loads into local memory. 0 sizes it from the device local
	// memory.
	ElementsPerItem int
	// SIMDWidth is the lane count of the simd variant. 0 uses the width the
	// device reports.
	SIMDWidth int
	Logger    *zap.Logger
}

// Sorter sorts sequences in ascending order on a backend. A Sorter holds no
// per-call state and may be shared between goroutines.
type Sorter[T cmp.Ordered] struct {
	backend gpu.Backend
	opts    Options
	logger  *zap.Logger
}

// NewSorter creates a sorter dispatching on backend.
func NewSorter[T cmp.Ordered](backend gpu.Backend, opts Options) *Sorter[T] {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sorter[T]{
		backend: backend,
		opts:    opts,
		logger:  logger,
	}
}

// Variant returns the variant this sorter runs.
func (s *Sorter[T]) Variant() Variant {
	return s.opts.Variant
}

// Sort sorts seq in place.
func (s *Sorter[T]) Sort(seq []T) error {
	_, err := s.SortWithStats(seq)
	return err
}

// SortWithStats sorts seq in place and returns the launches it issued.
// Sequences of length 0 or 1 are left alone. Lengths that are not a power
// of two fail with ErrNotPowerOfTwo before anything is dispatched. On error
// seq is left unchanged.
func (s *Sorter[T]) SortWithStats(seq []T) (Stats, error) {
	var stats Stats
	n := len(seq)
	if n <= 1 {
		return stats, nil
	}
	if !network.IsPowerOf2(n) {
		return stats, fmt.Errorf("%w: %d", ErrNotPowerOfTwo, n)
	}

	start := time.Now()
	buf, err := gpu.NewBuffer(s.backend, seq)
	if err != nil {
		return stats, err
	}
	data, err := buf.Access()
	if err != nil {
		buf.Discard()
		return stats, err
	}

	if err := s.run(data, &stats); err != nil {
		buf.Discard()
		s.logger.Error("sort failed",
			zap.Stringer("variant", s.opts.Variant),
			zap.Int("elements", n),
			zap.Error(err))
		return stats, fmt.Errorf("%s sort of %d elements: %w", s.opts.Variant, n, err)
	}
	if err := buf.Release(); err != nil {
		return stats, err
	}

	elapsed := time.Since(start)
	s.record(n, elapsed, stats)
	s.logger.Debug("sorted sequence",
		zap.Stringer("variant", s.opts.Variant),
		zap.Int("elements", n),
		zap.Int("globalPasses", stats.GlobalPasses),
		zap.Int("groupLaunches", stats.GroupLaunches),
		zap.Int("localPasses", stats.LocalPasses),
		zap.Bool("scalarFallback", stats.ScalarFallback),
		zap.Duration("duration", elapsed))
	return stats, nil
}

func (s *Sorter[T]) run(data []T, stats *Stats) error {
	n := len(data)
	switch s.opts.Variant {
	case Naive:
		for _, step := range network.Steps(n) {
			if err := SortPass(s.backend, data, step.I, step.J); err != nil {
				return err
			}
			stats.GlobalPasses++
		}
		return nil

	case Alternating:
		for _, step := range network.Steps(n) {
			if err := AlternatingPass(s.backend, data, step.I, step.J); err != nil {
				return err
			}
			stats.GlobalPasses++
		}
		return nil

	case Hierarchical:
		groupSize := hierarchicalGroupSize(n, s.backend.GetDeviceInfo().MaxWorkGroupSize)
		if groupSize < 1 {
			return fmt.Errorf("%w: device allows no work items per group", gpu.ErrInvalidLaunch)
		}
		for _, step := range network.Steps(n) {
			if err := HierarchicalPass(s.backend, data, step.I, step.J, groupSize); err != nil {
				return err
			}
			stats.GroupLaunches++
			stats.LocalPasses++
		}
		return nil

	case Local:
		geo, err := newTileGeometry(n, s.backend.GetDeviceInfo(), gpu.SizeOf[T](), s.opts.ElementsPerItem)
		if err != nil {
			return err
		}
		s.logger.Debug("tile geometry",
			zap.Int("elementsPerItem", geo.elementsPerItem),
			zap.Int("groupSize", geo.groupSize),
			zap.Int("tileSize", geo.tileSize),
			zap.Int("groups", geo.groups))
		ts := &tiledSorter[T]{backend: s.backend, data: data, geo: geo, stats: stats}
		return ts.run()

	case SIMD:
		unit, err := s.vectorUnit()
		if err != nil {
			return err
		}
		if n <= unit.Width() {
			slices.Sort(data)
			stats.ScalarFallback = true
			return nil
		}
		for _, step := range network.Steps(n) {
			if err := VectorPass(s.backend, unit, data, step.I, step.J); err != nil {
				return err
			}
			stats.GlobalPasses++
		}
		return nil

	default:
		return fmt.Errorf("unknown sort variant: %s", s.opts.Variant)
	}
}

func (s *Sorter[T]) vectorUnit() (simd.Unit[T], error) {
	width := s.opts.SIMDWidth
	if width <= 0 {
		width = s.backend.GetDeviceInfo().SIMDWidth
	}
	unit := simd.NewPortable[T](width)
	if !network.IsPowerOf2(unit.Width()) {
		return nil, fmt.Errorf("vector width must be a power of two, got %d", unit.Width())
	}
	return unit, nil
}

func (s *Sorter[T]) record(n int, elapsed time.Duration, stats Stats) {
	variant := s.opts.Variant.String()
	metrics.SortDurationMs.WithLabelValues(variant).Observe(float64(elapsed.Microseconds()) / 1000)
	metrics.SortElements.Set(float64(n))
	metrics.SortPassesTotal.WithLabelValues(variant, "global").Add(float64(stats.GlobalPasses))
	metrics.SortPassesTotal.WithLabelValues(variant, "group").Add(float64(stats.GroupLaunches))
	metrics.SortPassesTotal.WithLabelValues(variant, "local").Add(float64(stats.LocalPasses))
}
