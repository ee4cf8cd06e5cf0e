/*
 * array.go, part of trajcol.
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

//Package nd implements the small n-dimensional array used to carry
//per-atom and per-frame properties. An Array has a dtype, a shape and a flat,
//row-major backing slice. A 0-d Array (empty shape) is a scalar.
package nd

import (
	"bytes"
	"math"
	"reflect"
)

//Array is an n-dimensional array with a single dtype.
//The backing slice is one of []float32, []float64, []int32, []int64,
//[][]byte, []string or []any, according to the dtype.
type Array struct {
	dtype DType
	shape []int
	data  any
	width int //only for Bytes
}

func size(shape []int) int {
	n := 1
	for _, v := range shape {
		n *= v
	}
	return n
}

//shapeFor returns the shape for n elements. With no shape given the array
//is 1-D.
func shapeFor(n int, shape []int) []int {
	if len(shape) == 0 {
		return []int{n}
	}
	for _, v := range shape {
		if v < 0 {
			panic(ErrShapeData)
		}
	}
	if size(shape) != n {
		panic(ErrShapeData)
	}
	return append([]int(nil), shape...)
}

//FromFloat64 builds a Float64 array. data is not copied.
func FromFloat64(data []float64, shape ...int) *Array {
	return &Array{dtype: Float64, shape: shapeFor(len(data), shape), data: data}
}

//FromFloat32 builds a Float32 array. data is not copied.
func FromFloat32(data []float32, shape ...int) *Array {
	return &Array{dtype: Float32, shape: shapeFor(len(data), shape), data: data}
}

//FromInt64 builds an Int64 array. data is not copied.
func FromInt64(data []int64, shape ...int) *Array {
	return &Array{dtype: Int64, shape: shapeFor(len(data), shape), data: data}
}

//FromInt32 builds an Int32 array. data is not copied.
func FromInt32(data []int32, shape ...int) *Array {
	return &Array{dtype: Int32, shape: shapeFor(len(data), shape), data: data}
}

//FromStrings builds a variable-width Text array.
func FromStrings(data []string, shape ...int) *Array {
	return &Array{dtype: Text, shape: shapeFor(len(data), shape), data: data}
}

//FromBytes builds a fixed-width Bytes array whose width is the length of
//the longest element. Trailing NUL bytes are not significant.
func FromBytes(data [][]byte, shape ...int) *Array {
	w := 0
	trimmed := make([][]byte, len(data))
	for i, v := range data {
		trimmed[i] = bytes.TrimRight(v, "\x00")
		if len(trimmed[i]) > w {
			w = len(trimmed[i])
		}
	}
	return &Array{dtype: Bytes, shape: shapeFor(len(data), shape), data: trimmed, width: w}
}

//FromFixedBytes builds a Bytes array with the given width. It panics if an
//element, without its trailing NULs, is longer than width.
func FromFixedBytes(data [][]byte, width int, shape ...int) *Array {
	trimmed := make([][]byte, len(data))
	for i, v := range data {
		trimmed[i] = bytes.TrimRight(v, "\x00")
		if len(trimmed[i]) > width {
			panic(ErrByteWidth)
		}
	}
	return &Array{dtype: Bytes, shape: shapeFor(len(data), shape), data: trimmed, width: width}
}

//FromMixed builds a Mixed array of arbitrary elements.
func FromMixed(data []any, shape ...int) *Array {
	return &Array{dtype: Mixed, shape: shapeFor(len(data), shape), data: data}
}

//Float64Scalar returns a 0-d Float64 array.
func Float64Scalar(v float64) *Array {
	return &Array{dtype: Float64, shape: []int{}, data: []float64{v}}
}

//Float32Scalar returns a 0-d Float32 array.
func Float32Scalar(v float32) *Array {
	return &Array{dtype: Float32, shape: []int{}, data: []float32{v}}
}

//Int64Scalar returns a 0-d Int64 array.
func Int64Scalar(v int64) *Array {
	return &Array{dtype: Int64, shape: []int{}, data: []int64{v}}
}

//TextScalar returns a 0-d Text array.
func TextScalar(v string) *Array {
	return &Array{dtype: Text, shape: []int{}, data: []string{v}}
}

//DType returns the element type of A.
func (A *Array) DType() DType { return A.dtype }

//Shape returns a copy of the shape of A.
func (A *Array) Shape() []int { return append([]int{}, A.shape...) }

//NDim returns the number of dimensions. Scalars have 0.
func (A *Array) NDim() int { return len(A.shape) }

//IsScalar is true for 0-d arrays.
func (A *Array) IsScalar() bool { return len(A.shape) == 0 }

//Len returns the total number of elements.
func (A *Array) Len() int { return size(A.shape) }

//Width is the fixed element width of a Bytes array, 0 for other dtypes.
func (A *Array) Width() int { return A.width }

//Data returns the backing slice. It must not be modified.
func (A *Array) Data() any { return A.data }

//Float64s returns the elements of a numeric array converted to float64.
//ok is false for non-numeric dtypes.
func (A *Array) Float64s() (ret []float64, ok bool) {
	switch d := A.data.(type) {
	case []float64:
		return append([]float64(nil), d...), true
	case []float32:
		return convertSlice[float32, float64](d), true
	case []int64:
		return convertSlice[int64, float64](d), true
	case []int32:
		return convertSlice[int32, float64](d), true
	}
	return nil, false
}

//Int64s returns the elements of an integer array as int64. ok is false for
//other dtypes.
func (A *Array) Int64s() (ret []int64, ok bool) {
	switch d := A.data.(type) {
	case []int64:
		return append([]int64(nil), d...), true
	case []int32:
		return convertSlice[int32, int64](d), true
	}
	return nil, false
}

//Strings returns the elements of a Text or Bytes array as strings.
func (A *Array) Strings() (ret []string, ok bool) {
	switch d := A.data.(type) {
	case []string:
		return append([]string(nil), d...), true
	case [][]byte:
		ret = make([]string, len(d))
		for i, v := range d {
			ret[i] = string(v)
		}
		return ret, true
	}
	return nil, false
}

//Float64 returns the value of a numeric scalar.
func (A *Array) Float64() (float64, bool) {
	if !A.IsScalar() {
		return 0, false
	}
	f, ok := A.Float64s()
	if !ok {
		return 0, false
	}
	return f[0], true
}

type number interface {
	~float32 | ~float64 | ~int32 | ~int64
}

func convertSlice[S, D number](src []S) []D {
	ret := make([]D, len(src))
	for i, v := range src {
		ret[i] = D(v)
	}
	return ret
}

//Clone returns a deep copy of A.
func (A *Array) Clone() *Array {
	return A.sub(0, A.Len(), A.Shape())
}

//sub returns a copy of the elements [from, to) with the given shape.
func (A *Array) sub(from, to int, shape []int) *Array {
	ret := &Array{dtype: A.dtype, shape: shape, width: A.width}
	switch d := A.data.(type) {
	case []float64:
		ret.data = append([]float64{}, d[from:to]...)
	case []float32:
		ret.data = append([]float32{}, d[from:to]...)
	case []int64:
		ret.data = append([]int64{}, d[from:to]...)
	case []int32:
		ret.data = append([]int32{}, d[from:to]...)
	case []string:
		ret.data = append([]string{}, d[from:to]...)
	case [][]byte:
		b := make([][]byte, 0, to-from)
		for _, v := range d[from:to] {
			b = append(b, append([]byte{}, v...))
		}
		ret.data = b
	case []any:
		ret.data = append([]any{}, d[from:to]...)
	default:
		panic(ErrInvalidType)
	}
	return ret
}

//Slice returns a copy of the i-th sub-array along the first axis. For a 1-D
//array the result is a scalar. It panics for scalars or if i is out of range.
func (A *Array) Slice(i int) *Array {
	if A.IsScalar() {
		panic(ErrScalar)
	}
	if i < 0 || i >= A.shape[0] {
		panic(ErrIndex)
	}
	inner := A.shape[1:]
	n := size(inner)
	return A.sub(i*n, (i+1)*n, append([]int{}, inner...))
}

func sameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

//Equal reports whether A and B have the same shape and the same values.
//Numeric arrays compare by value regardless of dtype, NaN is never equal to
//anything. Text and Bytes compare as strings. Mixed arrays are only equal
//to Mixed arrays with deeply equal elements.
func (A *Array) Equal(B *Array) bool {
	if A == nil || B == nil {
		return A == B
	}
	if !sameShape(A.shape, B.shape) {
		return false
	}
	ca, cb := A.dtype.Category(), B.dtype.Category()
	switch {
	case ca == CategoryInt && cb == CategoryInt:
		a, _ := A.Int64s()
		b, _ := B.Int64s()
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
		return true
	case A.dtype.Numeric() && B.dtype.Numeric():
		a, _ := A.Float64s()
		b, _ := B.Float64s()
		for i := range a {
			if a[i] != b[i] { //false for NaN
				return false
			}
		}
		return true
	case ca == CategoryText && cb == CategoryText:
		a, _ := A.Strings()
		b, _ := B.Strings()
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
		return true
	case ca == CategoryMixed && cb == CategoryMixed:
		return reflect.DeepEqual(A.data, B.data)
	}
	return false
}

//IsClose follows numpy's isclose: |a-b| <= atol + rtol*|b|.
func IsClose(a, b, rtol, atol float64) bool {
	if a == b {
		return true
	}
	if math.IsNaN(a) || math.IsNaN(b) || math.IsInf(a, 0) || math.IsInf(b, 0) {
		return false
	}
	return math.Abs(a-b) <= atol+rtol*math.Abs(b)
}

//AllClose is true if A and B are numeric, have the same shape and every
//pair of elements IsClose.
func AllClose(A, B *Array, rtol, atol float64) bool {
	if !sameShape(A.shape, B.shape) {
		return false
	}
	a, ok := A.Float64s()
	if !ok {
		return false
	}
	b, ok := B.Float64s()
	if !ok {
		return false
	}
	for i := range a {
		if !IsClose(a[i], b[i], rtol, atol) {
			return false
		}
	}
	return true
}

func reflectElements(data any) []any {
	v := reflect.ValueOf(data)
	ret := make([]any, v.Len())
	for i := range ret {
		ret[i] = v.Index(i).Interface()
	}
	return ret
}

//Reshape returns an array sharing A's elements with a new shape. With no
//arguments the result is a scalar, which requires A to hold one element.
//It panics if the sizes don't match.
func (A *Array) Reshape(shape ...int) *Array {
	if size(shape) != A.Len() {
		panic(ErrShapeData)
	}
	return &Array{dtype: A.dtype, shape: append([]int{}, shape...), data: A.data, width: A.width}
}
