package gpu

import (
	"runtime"

	"github.com/fxnlabs/bitonic/internal/metrics"
	"github.com/fxnlabs/bitonic/internal/simd"
	"go.uber.org/zap"
)

// SerialBackend runs every unit on the calling goroutine in id order.
// It is the deterministic reference the parallel backend is checked against.
type SerialBackend struct {
	*device
	logger *zap.Logger
}

// NewSerialBackend creates a new serial backend instance
func NewSerialBackend(logger *zap.Logger, opts Options) *SerialBackend {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts.Workers = 1
	return &SerialBackend{
		device: newDevice(opts),
		logger: logger,
	}
}

func (s *SerialBackend) Initialize() error {
	if s.isInitialized() {
		return nil
	}
	s.setInitialized(true)
	s.logger.Info("Serial backend initialized")
	return nil
}

func (s *SerialBackend) Cleanup() error {
	s.setInitialized(false)
	return nil
}

// IsAvailable checks if the backend is available (always true)
func (s *SerialBackend) IsAvailable() bool {
	return true
}

func (s *SerialBackend) GetDeviceInfo() DeviceInfo {
	return DeviceInfo{
		Name:             "Serial (" + runtime.GOARCH + ")",
		Kind:             KindSerial,
		TotalMemory:      s.opts.GlobalMemory,
		AvailableMemory:  s.available(),
		LocalMemSize:     s.opts.LocalMemSize,
		MaxWorkGroupSize: s.opts.MaxWorkGroupSize,
		ComputeUnits:     1,
		SIMDWidth:        s.opts.SIMDWidth,
		SIMDLevel:        simd.Level(),
		DriverVersion:    runtime.Version(),
	}
}

func (s *SerialBackend) ParallelFor(n int, fn func(id int)) error {
	if err := s.checkFlatLaunch(n); err != nil {
		return err
	}
	metrics.DispatchTotal.WithLabelValues(string(KindSerial), "flat").Inc()
	for id := 0; id < n; id++ {
		fn(id)
	}
	return nil
}

// ParallelForWorkGroup runs every group in order. Unlike the CPU backend it
// stops at the first failing group.
func (s *SerialBackend) ParallelForWorkGroup(groups, groupSize int, localBytes int64, fn func(g *Group) error) error {
	if err := s.checkGroupLaunch(groups, groupSize, localBytes); err != nil {
		return err
	}
	metrics.DispatchTotal.WithLabelValues(string(KindSerial), "group").Inc()
	for id := 0; id < groups; id++ {
		if err := fn(&Group{ID: id, Size: groupSize}); err != nil {
			return err
		}
	}
	return nil
}
