/*
 * dtype.go, part of trajcol.
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

//DType identifies the element type of an Array.
type DType uint8

const (
	Invalid DType = iota
	Float32
	Float64
	Int32
	Int64
	Bytes //fixed-width byte strings
	Text  //variable-width strings
	Mixed //heterogeneous elements, no single dtype applies
)

func (d DType) String() string {
	switch d {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Bytes:
		return "bytes"
	case Text:
		return "text"
	case Mixed:
		return "mixed"
	default:
		return "invalid"
	}
}

//ParseDType returns the DType named s, as given by DType.String.
func ParseDType(s string) (DType, bool) {
	for d := Float32; d <= Mixed; d++ {
		if d.String() == s {
			return d, true
		}
	}
	return Invalid, false
}

//ItemSize is the size in bytes of one element for the numeric dtypes.
//It is 0 for the others, for Bytes use Array.Width.
func (d DType) ItemSize() int {
	switch d {
	case Float32, Int32:
		return 4
	case Float64, Int64:
		return 8
	default:
		return 0
	}
}

//Category groups dtypes by how they are normalized for storage.
type Category uint8

const (
	CategoryUnknown Category = iota
	CategoryFloat
	CategoryInt
	CategoryText
	CategoryMixed
)

//Category returns the normalization category of d.
func (d DType) Category() Category {
	switch d {
	case Float32, Float64:
		return CategoryFloat
	case Int32, Int64:
		return CategoryInt
	case Bytes, Text:
		return CategoryText
	case Mixed:
		return CategoryMixed
	default:
		return CategoryUnknown
	}
}

//Numeric is true for the float and integer dtypes.
func (d DType) Numeric() bool {
	c := d.Category()
	return c == CategoryFloat || c == CategoryInt
}

//PanicMsg is used for panics caused by programming errors, like building an
//Array whose shape does not match its data.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	ErrShapeData   = PanicMsg("trajcol/nd: shape does not match the number of elements")
	ErrScalar      = PanicMsg("trajcol/nd: operation not defined for scalars")
	ErrIndex       = PanicMsg("trajcol/nd: index out of range")
	ErrTarget      = PanicMsg("trajcol/nd: target dtype must be float32 or float64")
	ErrByteWidth   = PanicMsg("trajcol/nd: byte string longer than the array width")
	ErrInvalidType = PanicMsg("trajcol/nd: invalid dtype")
)
