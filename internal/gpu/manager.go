package gpu

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Manager handles backend selection and lifecycle
type Manager struct {
	backend Backend
	mu      sync.RWMutex
	logger  *zap.Logger
}

// NewManager creates a new manager and initializes the backend of the given
// kind. KindAuto prefers the parallel CPU backend.
func NewManager(logger *zap.Logger, kind Kind, opts Options) (*Manager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Manager{
		logger: logger,
	}

	if err := m.detectAndInitialize(kind, opts); err != nil {
		return nil, err
	}

	return m, nil
}

// detectAndInitialize selects and initializes the backend
func (m *Manager) detectAndInitialize(kind Kind, opts Options) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	backend, err := NewBackend(m.logger, kind, opts)
	if err != nil {
		return err
	}
	if backend.IsAvailable() {
		err := backend.Initialize()
		if err == nil {
			m.backend = backend
			return nil
		}
		m.logger.Warn("backend failed to initialize",
			zap.String("kind", string(kind)),
			zap.Error(err))
		// If initialization failed, try cleanup
		_ = backend.Cleanup()
	}
	if kind == KindCPU {
		m.logger.Warn("CPU backend unavailable, falling back to serial backend")
	}

	// Fall back to serial
	return m.initializeSerial(opts)
}

func (m *Manager) initializeSerial(opts Options) error {
	serialBackend := NewSerialBackend(m.logger, opts)
	if err := serialBackend.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize serial backend: %w", err)
	}
	m.backend = serialBackend
	return nil
}

// GetBackend returns the current backend
func (m *Manager) GetBackend() Backend {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.backend
}

// GetDeviceInfo returns device information from the current backend
func (m *Manager) GetDeviceInfo() DeviceInfo {
	backend := m.GetBackend()
	if backend == nil {
		return DeviceInfo{Name: "No backend available"}
	}
	return backend.GetDeviceInfo()
}

// IsParallel returns true if units are spread over more than one core
func (m *Manager) IsParallel() bool {
	_, isCPU := m.GetBackend().(*CPUBackend)
	return isCPU
}

// Cleanup releases resources held by the current backend
func (m *Manager) Cleanup() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.backend != nil {
		if err := m.backend.Cleanup(); err != nil {
			return err
		}
		m.backend = nil
	}
	return nil
}

// GetBackendType returns a string describing the current backend type
func (m *Manager) GetBackendType() string {
	switch m.GetBackend().(type) {
	case *CPUBackend:
		return string(KindCPU)
	case *SerialBackend:
		return string(KindSerial)
	case nil:
		return "none"
	default:
		return "unknown"
	}
}
