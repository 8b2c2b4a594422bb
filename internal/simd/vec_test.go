package simd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lanes[T any](v Vec[T]) []T {
	out := make([]T, v.Width())
	v.Store(out)
	return out
}

func TestIotaAndIndices(t *testing.T) {
	assert.Equal(t, []int{16, 17, 18, 19}, lanes(Iota(4, 16)))

	idx := MapIndices(Iota(4, 0), func(v int) int { return v * 3 })
	assert.Equal(t, []int{0, 3, 6, 9}, lanes(idx))

	m := MaskFromIndices(idx, func(v int) bool { return v%2 == 0 })
	assert.Equal(t, 2, m.CountTrue())
	assert.True(t, m.Lane(0))
	assert.False(t, m.Lane(1))
}

func TestGather(t *testing.T) {
	src := []int32{10, 11, 12, 13, 14, 15}
	v := Gather(src, FromSlice([]int{5, 0, 3, 9}))
	// out of range lanes read zero
	assert.Equal(t, []int32{15, 10, 13, 0}, lanes(v))
}

func TestScatterMasked(t *testing.T) {
	dst := []int32{0, 0, 0, 0, 0}
	v := FromSlice([]int32{7, 8, 9, 6})
	idx := FromSlice([]int{4, 2, 0, 12})
	m := Mask{bits: []bool{true, false, true, true}}

	ScatterMasked(dst, idx, v, m)
	assert.Equal(t, []int32{9, 0, 0, 0, 7}, dst)
}

func TestCompare(t *testing.T) {
	a := FromSlice([]int{1, 5, 3, 3})
	b := FromSlice([]int{2, 4, 3, 1})

	gt := Greater(a, b)
	assert.Equal(t, []bool{false, true, false, true}, gt.bits)

	even := MaskFromIndices(Iota(4, 0), func(v int) bool { return v%2 == 0 })
	assert.Equal(t, []bool{false, false, false, false}, MaskEqual(gt, even).bits)
}

func TestLoad(t *testing.T) {
	src := []float64{1.5, 2.5, 3.5}
	v := Load(src, 2)
	src[0] = 0
	assert.Equal(t, []float64{1.5, 2.5}, lanes(v))
}

func TestPortable(t *testing.T) {
	var unit Unit[int32] = NewPortable[int32](8)
	require.Equal(t, 8, unit.Width())

	data := []int32{8, 7, 6, 5, 4, 3, 2, 1}
	id0 := FromSlice([]int{0, 2, 4, 6})
	id1 := FromSlice([]int{1, 3, 5, 7})
	d0 := unit.Gather(data, id0)
	d1 := unit.Gather(data, id1)
	swap := unit.Greater(d0, d1)
	unit.ScatterMasked(data, id0, d1, swap)
	unit.ScatterMasked(data, id1, d0, swap)
	assert.Equal(t, []int32{7, 8, 5, 6, 3, 4, 1, 2}, data)
}

func TestDetectWidth(t *testing.T) {
	w := DetectWidth()
	assert.Contains(t, []int{4, 8, 16}, w)
	assert.NotEmpty(t, Level())
	assert.Equal(t, w, NewPortable[int](0).Width())
}
