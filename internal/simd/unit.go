package simd

import "cmp"

// Unit is the vector capability a kernel runs on.
type Unit[T cmp.Ordered] interface {
	// Width is the number of lanes processed per batch.
	Width() int
	Gather(src []T, idx Indices) Vec[T]
	// ScatterMasked writes only the lanes set in m; the others keep the
	// value already in memory.
	ScatterMasked(dst []T, idx Indices, v Vec[T], m Mask)
	Greater(a, b Vec[T]) Mask
}

// Portable implements Unit with per-lane loops.
type Portable[T cmp.Ordered] struct {
	width int
}

// NewPortable returns a Unit of the given width. A width <= 0 uses
// DetectWidth.
func NewPortable[T cmp.Ordered](width int) *Portable[T] {
	if width <= 0 {
		width = DetectWidth()
	}
	return &Portable[T]{width: width}
}

func (p *Portable[T]) Width() int { return p.width }

func (p *Portable[T]) Gather(src []T, idx Indices) Vec[T] { return Gather(src, idx) }

func (p *Portable[T]) ScatterMasked(dst []T, idx Indices, v Vec[T], m Mask) {
	ScatterMasked(dst, idx, v, m)
}

func (p *Portable[T]) Greater(a, b Vec[T]) Mask { return Greater(a, b) }
