package gpu

import (
	"fmt"
	"runtime"

	"github.com/fxnlabs/bitonic/internal/metrics"
	"github.com/fxnlabs/bitonic/internal/simd"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// CPUBackend implements Backend on the host cores. Flat launches are split
// across a persistent worker pool; work-groups are scheduled one per
// goroutine with at most Workers groups in flight.
type CPUBackend struct {
	*device
	logger *zap.Logger
	pool   *pool
}

// NewCPUBackend creates a new CPU backend instance
func NewCPUBackend(logger *zap.Logger, opts Options) *CPUBackend {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CPUBackend{
		device: newDevice(opts),
		logger: logger,
	}
}

// Initialize starts the worker pool
func (c *CPUBackend) Initialize() error {
	if c.isInitialized() {
		return nil
	}
	c.pool = newPool(c.opts.Workers)
	c.setInitialized(true)
	c.logger.Info("CPU backend initialized",
		zap.Int("workers", c.opts.Workers),
		zap.Int("max_work_group_size", c.opts.MaxWorkGroupSize),
		zap.Int64("local_mem_size", c.opts.LocalMemSize))
	return nil
}

// Cleanup stops the worker pool
func (c *CPUBackend) Cleanup() error {
	if !c.isInitialized() {
		return nil
	}
	c.setInitialized(false)
	c.pool.close()
	c.logger.Debug("CPU backend cleaned up")
	return nil
}

// IsAvailable reports whether more than one core can run units in parallel.
// With a single core the serial backend does the same work with less overhead.
func (c *CPUBackend) IsAvailable() bool {
	return runtime.GOMAXPROCS(0) > 1 && c.opts.Workers > 1
}

// GetDeviceInfo returns device information for CPU
func (c *CPUBackend) GetDeviceInfo() DeviceInfo {
	return DeviceInfo{
		Name:             fmt.Sprintf("CPU (%s, %d workers)", runtime.GOARCH, c.opts.Workers),
		Kind:             KindCPU,
		TotalMemory:      c.opts.GlobalMemory,
		AvailableMemory:  c.available(),
		LocalMemSize:     c.opts.LocalMemSize,
		MaxWorkGroupSize: c.opts.MaxWorkGroupSize,
		ComputeUnits:     c.opts.Workers,
		SIMDWidth:        c.opts.SIMDWidth,
		SIMDLevel:        simd.Level(),
		DriverVersion:    runtime.Version(),
	}
}

// ParallelFor launches n units across the worker pool.
func (c *CPUBackend) ParallelFor(n int, fn func(id int)) error {
	if err := c.checkFlatLaunch(n); err != nil {
		return err
	}
	metrics.DispatchTotal.WithLabelValues(string(KindCPU), "flat").Inc()
	c.pool.parallelFor(n, func(start, end int) {
		for id := start; id < end; id++ {
			fn(id)
		}
	})
	return nil
}

// ParallelForWorkGroup launches work-groups with at most Workers of them
// running at once.
func (c *CPUBackend) ParallelForWorkGroup(groups, groupSize int, localBytes int64, fn func(g *Group) error) error {
	if err := c.checkGroupLaunch(groups, groupSize, localBytes); err != nil {
		return err
	}
	metrics.DispatchTotal.WithLabelValues(string(KindCPU), "group").Inc()

	var eg errgroup.Group
	eg.SetLimit(c.opts.Workers)
	for id := range groups {
		eg.Go(func() error {
			return fn(&Group{ID: id, Size: groupSize})
		})
	}
	return eg.Wait()
}
