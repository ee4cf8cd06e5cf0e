/*
 * convert.go, part of trajcol.
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
	"errors"
	"fmt"
)

//Convert normalizes A for storage. Float arrays and scalars are cast to
//target, which must be Float32 or Float64. Integer and Mixed arrays are
//returned unchanged. Text is flattened to fixed-width Bytes using the
//natural (widest) width of its elements, Bytes is returned unchanged.
//Convert never fails for a valid target; a nil A returns nil.
func Convert(A *Array, target DType) *Array {
	if target.Category() != CategoryFloat {
		panic(ErrTarget)
	}
	if A == nil {
		return nil
	}
	switch A.dtype.Category() {
	case CategoryFloat:
		if A.dtype == target {
			return A
		}
		ret := &Array{dtype: target, shape: A.Shape()}
		switch d := A.data.(type) {
		case []float64:
			ret.data = convertSlice[float64, float32](d)
		case []float32:
			ret.data = convertSlice[float32, float64](d)
		}
		return ret
	case CategoryText:
		if A.dtype == Bytes {
			return A
		}
		s := A.data.([]string)
		b := make([][]byte, len(s))
		for i, v := range s {
			b[i] = []byte(v)
		}
		return FromBytes(b).Reshape(A.Shape()...)
	default:
		//Integers are never down-cast, and mixed arrays have no single
		//dtype to cast to.
		return A
	}
}

//DecodeBytes turns a fixed-width Bytes array into a Text array with the same
//shape. Any other array, or nil, is returned as is.
func DecodeBytes(A *Array) *Array {
	if A == nil || A.dtype != Bytes {
		return A
	}
	s, _ := A.Strings()
	return &Array{dtype: Text, shape: A.Shape(), data: s}
}

//ErrShapeMismatch is returned by Stack when the arrays have different shapes.
var ErrShapeMismatch = errors.New("arrays must have the same shape")

//ErrEmptyStack is returned by Stack when given no arrays.
var ErrEmptyStack = errors.New("need at least one array to stack")

func promote(a, b DType) DType {
	switch {
	case a == b:
		return a
	case a.Category() == CategoryInt && b.Category() == CategoryInt:
		return Int64
	case a.Numeric() && b.Numeric():
		return Float64
	case a.Category() == CategoryText && b.Category() == CategoryText:
		return Text
	default:
		return Mixed
	}
}

//Stack joins arrays of the same shape along a new leading axis. Dtypes are
//promoted: mixed integer widths give Int64, integers with floats (or floats
//of different widths) give Float64, Text with Bytes gives Text and anything
//else gives Mixed.
func Stack(arrays []*Array) (*Array, error) {
	if len(arrays) == 0 {
		return nil, ErrEmptyStack
	}
	first := arrays[0]
	dt := first.dtype
	width := first.width
	for i, v := range arrays[1:] {
		if !sameShape(first.shape, v.shape) {
			return nil, fmt.Errorf("%w: element %d has shape %v, element 0 has %v", ErrShapeMismatch, i+1, v.shape, first.shape)
		}
		dt = promote(dt, v.dtype)
		if v.width > width {
			width = v.width
		}
	}
	shape := append([]int{len(arrays)}, first.shape...)
	n := first.Len() * len(arrays)
	ret := &Array{dtype: dt, shape: shape}
	switch dt {
	case Float64:
		d := make([]float64, 0, n)
		for _, v := range arrays {
			f, _ := v.Float64s()
			d = append(d, f...)
		}
		ret.data = d
	case Float32:
		d := make([]float32, 0, n)
		for _, v := range arrays {
			d = append(d, v.data.([]float32)...)
		}
		ret.data = d
	case Int64:
		d := make([]int64, 0, n)
		for _, v := range arrays {
			f, _ := v.Int64s()
			d = append(d, f...)
		}
		ret.data = d
	case Int32:
		d := make([]int32, 0, n)
		for _, v := range arrays {
			d = append(d, v.data.([]int32)...)
		}
		ret.data = d
	case Bytes:
		d := make([][]byte, 0, n)
		for _, v := range arrays {
			for _, b := range v.data.([][]byte) {
				d = append(d, append([]byte{}, b...))
			}
		}
		ret.data = d
		ret.width = width
	case Text:
		d := make([]string, 0, n)
		for _, v := range arrays {
			s, _ := v.Strings()
			d = append(d, s...)
		}
		ret.data = d
	default:
		d := make([]any, 0, n)
		for _, v := range arrays {
			d = append(d, v.elements()...)
		}
		ret.data = d
	}
	return ret, nil
}

//elements returns the elements of A boxed as any.
func (A *Array) elements() []any {
	switch d := A.data.(type) {
	case []any:
		return append([]any{}, d...)
	case [][]byte:
		ret := make([]any, len(d))
		for i, v := range d {
			ret[i] = append([]byte{}, v...)
		}
		return ret
	}
	v := reflectElements(A.data)
	return v
}
