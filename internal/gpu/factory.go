package gpu

import (
	"fmt"

	"go.uber.org/zap"
)

// NewBackend creates an uninitialized backend of the given kind.
// KindAuto resolves to the CPU backend; the Manager decides whether to fall
// back when it is unavailable.
func NewBackend(logger *zap.Logger, kind Kind, opts Options) (Backend, error) {
	switch kind {
	case KindAuto, KindCPU, "":
		return NewCPUBackend(logger, opts), nil
	case KindSerial:
		return NewSerialBackend(logger, opts), nil
	default:
		return nil, fmt.Errorf("unknown backend kind: %s", kind)
	}
}

// ParseKind converts a configuration string to a Kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindAuto, KindCPU, KindSerial:
		return k, nil
	case "":
		return KindAuto, nil
	default:
		return "", fmt.Errorf("unknown backend kind: %s", s)
	}
}
