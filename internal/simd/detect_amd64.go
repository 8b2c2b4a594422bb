//go:build amd64

package simd

import "golang.org/x/sys/cpu"

// DetectWidth returns the lane count of the widest 32-bit integer vector the
// host supports.
func DetectWidth() int {
	switch {
	case cpu.X86.HasAVX512F:
		return 16
	case cpu.X86.HasAVX2:
		return 8
	default:
		return 4
	}
}

// Level names the instruction set behind DetectWidth.
func Level() string {
	switch {
	case cpu.X86.HasAVX512F:
		return "avx512"
	case cpu.X86.HasAVX2:
		return "avx2"
	default:
		return "sse2"
	}
}
