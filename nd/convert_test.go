/*
 * convert_test.go, part of trajcol.
 *
 *
 * Copyright 2024 The trajcol Authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package nd

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertFloatScalar(Te *testing.T) {
	r := Convert(Float64Scalar(3.14), Float32)
	assert.Equal(Te, Float32, r.DType())
	assert.True(Te, r.IsScalar())
	assert.Equal(Te, []float32{3.14}, r.Data())
}

func TestConvertFloatArray(Te *testing.T) {
	a := FromFloat64([]float64{1, 2, 3})
	r := Convert(a, Float32)
	assert.Equal(Te, Float32, r.DType())
	assert.Equal(Te, []int{3}, r.Shape())
	f, ok := r.Float64s()
	require.True(Te, ok)
	assert.InDeltaSlice(Te, []float64{1, 2, 3}, f, 1e-6)

	back := Convert(r, Float64)
	assert.Equal(Te, Float64, back.DType())
}

func TestConvertIntUnchanged(Te *testing.T) {
	s := Int64Scalar(42)
	assert.Same(Te, s, Convert(s, Float32))

	a := FromInt32([]int32{1, 2, 3})
	r := Convert(a, Float32)
	assert.Same(Te, a, r)
	assert.Equal(Te, Int32, r.DType())
}

func TestConvertStringArray(Te *testing.T) {
	a := FromStrings([]string{"H", "C", "O"})
	r := Convert(a, Float32)
	assert.Equal(Te, Bytes, r.DType())
	assert.Equal(Te, 1, r.Width())
	assert.Equal(Te, [][]byte{[]byte("H"), []byte("C"), []byte("O")}, r.Data())

	wide := Convert(FromStrings([]string{"Na", "H", "Cl"}, 3, 1), Float64)
	assert.Equal(Te, 2, wide.Width())
	assert.Equal(Te, []int{3, 1}, wide.Shape())

	scalar := Convert(TextScalar("hello"), Float32)
	assert.True(Te, scalar.IsScalar())
	assert.Equal(Te, 5, scalar.Width())

	b := FromBytes([][]byte{[]byte("Fe")})
	assert.Same(Te, b, Convert(b, Float32))
}

func TestConvertMixedUnchanged(Te *testing.T) {
	a := FromMixed([]any{1, "H", 3.0})
	r := Convert(a, Float32)
	assert.Same(Te, a, r)
	assert.Equal(Te, Mixed, r.DType())
	assert.Equal(Te, []any{1, "H", 3.0}, r.Data())
}

func TestConvertEmpty(Te *testing.T) {
	f := Convert(FromFloat64([]float64{}), Float32)
	assert.Equal(Te, Float32, f.DType())
	assert.Equal(Te, 0, f.Len())

	i := Convert(FromInt64([]int64{}), Float32)
	assert.Equal(Te, Int64, i.DType())
	assert.Equal(Te, 0, i.Len())

	s := Convert(FromStrings([]string{}), Float32)
	assert.Equal(Te, Bytes, s.DType())
	assert.Equal(Te, 0, s.Len())

	m := Convert(FromMixed([]any{}), Float32)
	assert.Equal(Te, Mixed, m.DType())
}

func TestConvertAlreadyCorrect(Te *testing.T) {
	a := FromFloat32([]float32{1, 2, 3})
	r := Convert(a, Float32)
	assert.Equal(Te, Float32, r.DType())
	assert.True(Te, a.Equal(r))
}

func TestConvertBadTarget(Te *testing.T) {
	assert.Panics(Te, func() { Convert(Float64Scalar(1), Int64) })
	assert.Nil(Te, Convert(nil, Float64))
}

func TestDecodeBytes(Te *testing.T) {
	b := FromBytes([][]byte{[]byte("H"), []byte("O"), []byte("C")})
	r := DecodeBytes(b)
	assert.Equal(Te, Text, r.DType())
	s, ok := r.Strings()
	require.True(Te, ok)
	assert.Equal(Te, []string{"H", "O", "C"}, s)
	assert.Equal(Te, b.Shape(), r.Shape())

	padded := FromFixedBytes([][]byte{[]byte("H\x00\x00"), []byte("Na")}, 3, 2, 1)
	r = DecodeBytes(padded)
	s, _ = r.Strings()
	assert.Equal(Te, []string{"H", "Na"}, s)
	assert.Equal(Te, []int{2, 1}, r.Shape())
}

func TestDecodeBytesIdentity(Te *testing.T) {
	text := FromStrings([]string{"H", "O", "C"})
	assert.Same(Te, text, DecodeBytes(text))

	num := FromFloat32([]float32{1, 2, 3})
	assert.Same(Te, num, DecodeBytes(num))

	assert.Nil(Te, DecodeBytes(nil))

	empty := DecodeBytes(FromBytes([][]byte{}))
	assert.Equal(Te, Text, empty.DType())
	assert.Equal(Te, 0, empty.Len())
}

func TestStack(Te *testing.T) {
	a := FromFloat64([]float64{1, 2, 3, 4, 5, 6}, 2, 3)
	b := FromFloat64([]float64{7, 8, 9, 10, 11, 12}, 2, 3)
	s, err := Stack([]*Array{a, b})
	require.NoError(Te, err)
	assert.Equal(Te, []int{2, 2, 3}, s.Shape())
	assert.True(Te, s.Slice(1).Equal(b))
	assert.True(Te, s.Slice(0).Slice(1).Equal(FromFloat64([]float64{4, 5, 6})))

	mixed, err := Stack([]*Array{FromInt32([]int32{1}), FromInt64([]int64{2})})
	require.NoError(Te, err)
	assert.Equal(Te, Int64, mixed.DType())

	promoted, err := Stack([]*Array{FromInt64([]int64{1}), FromFloat32([]float32{2.5})})
	require.NoError(Te, err)
	assert.Equal(Te, Float64, promoted.DType())

	scalars, err := Stack([]*Array{Float64Scalar(1), Float64Scalar(2)})
	require.NoError(Te, err)
	assert.Equal(Te, []int{2}, scalars.Shape())

	words, err := Stack([]*Array{FromBytes([][]byte{[]byte("a")}), FromBytes([][]byte{[]byte("abc")})})
	require.NoError(Te, err)
	assert.Equal(Te, 3, words.Width())

	_, err = Stack([]*Array{a, FromFloat64([]float64{1, 2, 3})})
	assert.ErrorIs(Te, err, ErrShapeMismatch)
	_, err = Stack(nil)
	assert.ErrorIs(Te, err, ErrEmptyStack)
}

func TestEqual(Te *testing.T) {
	assert.True(Te, FromInt32([]int32{1, 2}).Equal(FromInt64([]int64{1, 2})))
	assert.True(Te, FromInt64([]int64{1, 2}).Equal(FromFloat64([]float64{1, 2})))
	assert.False(Te, FromInt64([]int64{1, 2}).Equal(FromInt64([]int64{1, 2}, 1, 2)))
	assert.False(Te, FromFloat64([]float64{math.NaN()}).Equal(FromFloat64([]float64{math.NaN()})))
	assert.True(Te, FromStrings([]string{"H"}).Equal(FromBytes([][]byte{[]byte("H")})))
	assert.False(Te, FromStrings([]string{"1"}).Equal(FromInt64([]int64{1})))
	assert.True(Te, FromMixed([]any{1, "a"}).Equal(FromMixed([]any{1, "a"})))
}

func TestIsClose(Te *testing.T) {
	assert.True(Te, IsClose(1, 1+1e-9, 1e-5, 1e-8))
	assert.False(Te, IsClose(1, 1.001, 1e-5, 1e-8))
	assert.False(Te, IsClose(math.NaN(), math.NaN(), 1e-5, 1e-8))
	assert.True(Te, IsClose(math.Inf(1), math.Inf(1), 1e-5, 1e-8))
	a := FromFloat64([]float64{1, 2})
	assert.True(Te, AllClose(a, FromFloat32([]float32{1, 2}), 1e-5, 1e-8))
	assert.False(Te, AllClose(a, FromStrings([]string{"1", "2"}), 1e-5, 1e-8))
}

func TestSliceAndShapes(Te *testing.T) {
	assert.Panics(Te, func() { FromFloat64([]float64{1, 2, 3}, 2, 2) })
	a := FromInt64([]int64{1, 2, 3})
	s := a.Slice(2)
	assert.True(Te, s.IsScalar())
	v, ok := s.Float64()
	require.True(Te, ok)
	assert.Equal(Te, 3.0, v)
	assert.Panics(Te, func() { a.Slice(3) })
	assert.Panics(Te, func() { s.Slice(0) })
	d, ok := ParseDType("float32")
	assert.True(Te, ok)
	assert.Equal(Te, Float32, d)
}
