package gpu

import "errors"

var (
	ErrNotInitialized      = errors.New("backend not initialized")
	ErrOutOfMemory         = errors.New("out of device memory")
	ErrLocalMemoryExceeded = errors.New("local memory request exceeds device capacity")
	ErrInvalidLaunch       = errors.New("invalid launch configuration")
	ErrBufferReleased      = errors.New("buffer already released")
)
