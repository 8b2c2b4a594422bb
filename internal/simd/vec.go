// Package simd provides the vector batch operations used by the vectorized
// sort kernel: gather, masked scatter and lane-wise compare.
//
// The implementation here is portable: each operation is a loop over lanes.
// The kernel only depends on the Unit interface, so a platform specific
// implementation can replace Portable without changing the algorithm.
package simd

import "cmp"

// Vec is a batch of lanes.
type Vec[T any] struct {
	data []T
}

// Mask is a per-lane predicate.
type Mask struct {
	bits []bool
}

// Indices is a vector of slot indices.
type Indices = Vec[int]

// Load copies the first width elements of src into a vector.
func Load[T any](src []T, width int) Vec[T] {
	data := make([]T, width)
	copy(data, src[:width])
	return Vec[T]{data: data}
}

// FromSlice wraps data as a vector without copying.
func FromSlice[T any](data []T) Vec[T] {
	return Vec[T]{data: data}
}

// Width returns the number of lanes.
func (v Vec[T]) Width() int { return len(v.data) }

// Lane returns the value of lane i.
func (v Vec[T]) Lane(i int) T { return v.data[i] }

// Store writes every lane to dst.
func (v Vec[T]) Store(dst []T) { copy(dst, v.data) }

// Width returns the number of lanes.
func (m Mask) Width() int { return len(m.bits) }

// Lane returns the predicate of lane i.
func (m Mask) Lane(i int) bool { return m.bits[i] }

// CountTrue returns the number of set lanes.
func (m Mask) CountTrue() int {
	count := 0
	for _, b := range m.bits {
		if b {
			count++
		}
	}
	return count
}

// IndicesFromFunc builds an index vector whose lane i holds f(i).
func IndicesFromFunc(width int, f func(lane int) int) Indices {
	data := make([]int, width)
	for i := range data {
		data[i] = f(i)
	}
	return Indices{data: data}
}

// Iota returns start, start+1, ..., start+width-1.
func Iota(width, start int) Indices {
	return IndicesFromFunc(width, func(lane int) int { return start + lane })
}

// MapIndices applies f to every lane of idx.
func MapIndices(idx Indices, f func(v int) int) Indices {
	data := make([]int, len(idx.data))
	for i, v := range idx.data {
		data[i] = f(v)
	}
	return Indices{data: data}
}

// MaskFromIndices sets lane i when f(idx[i]) is true.
func MaskFromIndices(idx Indices, f func(v int) bool) Mask {
	bits := make([]bool, len(idx.data))
	for i, v := range idx.data {
		bits[i] = f(v)
	}
	return Mask{bits: bits}
}

// Gather loads src[idx[i]] into lane i. Out of range lanes read the zero
// value.
func Gather[T any](src []T, idx Indices) Vec[T] {
	data := make([]T, len(idx.data))
	for i, at := range idx.data {
		if at >= 0 && at < len(src) {
			data[i] = src[at]
		}
	}
	return Vec[T]{data: data}
}

// ScatterMasked stores lane i of v to dst[idx[i]] where m is set. Lanes
// with a clear mask and out of range lanes leave dst untouched.
func ScatterMasked[T any](dst []T, idx Indices, v Vec[T], m Mask) {
	n := min(len(idx.data), len(v.data), len(m.bits))
	for i := range n {
		if !m.bits[i] {
			continue
		}
		at := idx.data[i]
		if at >= 0 && at < len(dst) {
			dst[at] = v.data[i]
		}
	}
}

// Greater sets lane i when a[i] > b[i].
func Greater[T cmp.Ordered](a, b Vec[T]) Mask {
	n := min(len(a.data), len(b.data))
	bits := make([]bool, n)
	for i := range n {
		bits[i] = a.data[i] > b.data[i]
	}
	return Mask{bits: bits}
}

// MaskEqual sets lane i when a and b agree on it.
func MaskEqual(a, b Mask) Mask {
	n := min(len(a.bits), len(b.bits))
	bits := make([]bool, n)
	for i := range n {
		bits[i] = a.bits[i] == b.bits[i]
	}
	return Mask{bits: bits}
}
