package gpu

import (
	"runtime"
)

// Kind names a backend implementation.
type Kind string

const (
	KindAuto   Kind = "auto"
	KindCPU    Kind = "cpu"
	KindSerial Kind = "serial"
)

// DeviceInfo contains information about the compute device
type DeviceInfo struct {
	Name             string `json:"name"`
	Kind             Kind   `json:"kind"`
	TotalMemory      int64  `json:"totalMemory"`     // in bytes
	AvailableMemory  int64  `json:"availableMemory"` // in bytes
	LocalMemSize     int64  `json:"localMemSize"`    // per work-group scratch, in bytes
	MaxWorkGroupSize int    `json:"maxWorkGroupSize"`
	ComputeUnits     int    `json:"computeUnits"`
	SIMDWidth        int    `json:"simdWidth"`
	SIMDLevel        string `json:"simdLevel,omitempty"`
	DriverVersion    string `json:"driverVersion"`
}

// Options describes the device a backend emulates.
type Options struct {
	// Workers is the number of goroutines executing units. <= 0 uses GOMAXPROCS.
	Workers int
	// MaxWorkGroupSize bounds the number of work items in one group.
	MaxWorkGroupSize int
	// LocalMemSize is the scratch memory available to one work-group in bytes.
	LocalMemSize int64
	// GlobalMemory is the device memory buffers may hold in bytes.
	GlobalMemory int64
	// SIMDWidth is the vector width reported to kernels. <= 0 detects it.
	SIMDWidth int
}

// DefaultOptions returns the device shape used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Workers:          runtime.GOMAXPROCS(0),
		MaxWorkGroupSize: 256,
		LocalMemSize:     64 * 1024,
		GlobalMemory:     8 * 1024 * 1024 * 1024, // 8GB
	}
}

// Backend defines the dispatch substrate kernels are launched on.
//
// Implementation notes:
// - A launch returns only after every unit of it has completed, so consecutive
//   launches are separated by a full barrier
// - Units of one launch may run concurrently and must not depend on each other
// - Automatic fallback between backends is handled by the Manager
type Backend interface {
	// ParallelFor launches n independent units, passing each its id in [0, n).
	ParallelFor(n int, fn func(id int)) error

	// ParallelForWorkGroup launches groups work-groups of groupSize work items.
	// localBytes is the scratch memory each group requests; the launch fails
	// if it exceeds the device local memory. The first error returned by fn
	// is returned after every group has finished.
	ParallelForWorkGroup(groups, groupSize int, localBytes int64, fn func(g *Group) error) error

	// Allocate reserves device memory for a buffer.
	Allocate(bytes int64) error

	// Free returns memory reserved by Allocate.
	Free(bytes int64)

	// GetDeviceInfo returns information about the device
	GetDeviceInfo() DeviceInfo

	// IsAvailable checks if the backend is available for use
	IsAvailable() bool

	// Initialize prepares the backend for use
	Initialize() error

	// Cleanup releases any resources held by the backend
	Cleanup() error
}

// Group is one work-group of a ParallelForWorkGroup launch.
type Group struct {
	ID   int
	Size int
}

// ParallelForWorkItem runs fn for every work item of the group and returns
// once all of them have completed, which acts as the group barrier.
// Work items of a group run sequentially on the worker owning the group.
func (g *Group) ParallelForWorkItem(fn func(localID int)) {
	for localID := 0; localID < g.Size; localID++ {
		fn(localID)
	}
}

// GlobalID returns the launch-wide id of a work item of this group.
func (g *Group) GlobalID(localID int) int {
	return g.ID*g.Size + localID
}
