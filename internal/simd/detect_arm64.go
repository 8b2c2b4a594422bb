//go:build arm64

package simd

import "golang.org/x/sys/cpu"

// DetectWidth returns the lane count of a NEON register of 32-bit integers.
// SVE lengths are not probed.
func DetectWidth() int {
	return 4
}

// Level names the instruction set behind DetectWidth.
func Level() string {
	if cpu.ARM64.HasSVE {
		return "sve"
	}
	if cpu.ARM64.HasASIMD {
		return "neon"
	}
	return "scalar"
}
