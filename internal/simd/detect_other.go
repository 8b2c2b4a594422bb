//go:build !amd64 && !arm64

package simd

// DetectWidth returns the width used when no vector unit is probed.
func DetectWidth() int {
	return 4
}

// Level names the instruction set behind DetectWidth.
func Level() string {
	return "scalar"
}
