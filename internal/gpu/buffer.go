package gpu

import (
	"fmt"
	"unsafe"
)

// SizeOf returns the size of one element of type T in bytes.
func SizeOf[T any]() int64 {
	var zero T
	return int64(unsafe.Sizeof(zero))
}

// Buffer is a host sequence made visible to a backend for the duration of
// one operation. NewBuffer acquires device memory and copies the host data
// in; Release copies the result back and frees the device memory. Device
// data is reachable only through Access while the buffer is held.
type Buffer[T any] struct {
	backend  Backend
	host     []T
	data     []T
	bytes    int64
	released bool
}

// NewBuffer acquires a device copy of host.
func NewBuffer[T any](backend Backend, host []T) (*Buffer[T], error) {
	bytes := int64(len(host)) * SizeOf[T]()
	if err := backend.Allocate(bytes); err != nil {
		return nil, fmt.Errorf("failed to allocate buffer of %d elements: %w", len(host), err)
	}

	data := make([]T, len(host))
	copy(data, host)

	return &Buffer[T]{
		backend: backend,
		host:    host,
		data:    data,
		bytes:   bytes,
	}, nil
}

// Len returns the number of elements.
func (b *Buffer[T]) Len() int {
	return len(b.host)
}

// Access returns the device data. Kernels must not keep the slice past the
// launch they were given it for.
func (b *Buffer[T]) Access() ([]T, error) {
	if b.released {
		return nil, ErrBufferReleased
	}
	return b.data, nil
}

// Release writes the device data back to the host slice and frees the
// device memory. It must be called after the last launch using the buffer
// has returned.
func (b *Buffer[T]) Release() error {
	if b.released {
		return ErrBufferReleased
	}
	copy(b.host, b.data)
	b.backend.Free(b.bytes)
	b.data = nil
	b.released = true
	return nil
}

// Discard frees the device memory without writing back.
func (b *Buffer[T]) Discard() {
	if b.released {
		return
	}
	b.backend.Free(b.bytes)
	b.data = nil
	b.released = true
}
