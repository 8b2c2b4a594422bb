package gpu

import (
	"fmt"
	"sync"

	"github.com/fxnlabs/bitonic/internal/metrics"
	"github.com/fxnlabs/bitonic/internal/simd"
)

// device holds the state shared by every backend: its shape, the memory
// held by live buffers and the initialization flag.
type device struct {
	opts Options

	mu          sync.Mutex
	used        int64
	initialized bool
}

func newDevice(opts Options) *device {
	defaults := DefaultOptions()
	if opts.Workers <= 0 {
		opts.Workers = defaults.Workers
	}
	if opts.MaxWorkGroupSize <= 0 {
		opts.MaxWorkGroupSize = defaults.MaxWorkGroupSize
	}
	if opts.LocalMemSize <= 0 {
		opts.LocalMemSize = defaults.LocalMemSize
	}
	if opts.GlobalMemory <= 0 {
		opts.GlobalMemory = defaults.GlobalMemory
	}
	if opts.SIMDWidth <= 0 {
		opts.SIMDWidth = simd.DetectWidth()
	}
	return &device{opts: opts}
}

func (d *device) isInitialized() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.initialized
}

func (d *device) setInitialized(v bool) {
	d.mu.Lock()
	d.initialized = v
	d.mu.Unlock()
}

// Allocate reserves bytes of device memory.
func (d *device) Allocate(bytes int64) error {
	if bytes < 0 {
		return fmt.Errorf("%w: negative allocation of %d bytes", ErrInvalidLaunch, bytes)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.initialized {
		return ErrNotInitialized
	}
	if d.used+bytes > d.opts.GlobalMemory {
		return fmt.Errorf("%w: requested %d bytes, %d of %d in use",
			ErrOutOfMemory, bytes, d.used, d.opts.GlobalMemory)
	}
	d.used += bytes
	metrics.DeviceMemoryUsedBytes.Set(float64(d.used))
	return nil
}

// Free returns bytes reserved by Allocate.
func (d *device) Free(bytes int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.used -= bytes
	if d.used < 0 {
		d.used = 0
	}
	metrics.DeviceMemoryUsedBytes.Set(float64(d.used))
}

func (d *device) available() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.opts.GlobalMemory - d.used
}

func (d *device) checkFlatLaunch(n int) error {
	if !d.isInitialized() {
		return ErrNotInitialized
	}
	if n < 0 {
		return fmt.Errorf("%w: %d units", ErrInvalidLaunch, n)
	}
	return nil
}

func (d *device) checkGroupLaunch(groups, groupSize int, localBytes int64) error {
	if !d.isInitialized() {
		return ErrNotInitialized
	}
	if groups < 0 || groupSize <= 0 {
		return fmt.Errorf("%w: %d groups of %d items", ErrInvalidLaunch, groups, groupSize)
	}
	if groupSize > d.opts.MaxWorkGroupSize {
		return fmt.Errorf("%w: group size %d exceeds maximum %d",
			ErrInvalidLaunch, groupSize, d.opts.MaxWorkGroupSize)
	}
	if localBytes > d.opts.LocalMemSize {
		return fmt.Errorf("%w: requested %d bytes, device has %d",
			ErrLocalMemoryExceeded, localBytes, d.opts.LocalMemSize)
	}
	return nil
}
