/*
 * encode.go, part of trajcol.
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

package container

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"math/bits"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/tcnicholas/trajcol/nd"
)

/*
Stream layout. All integers are little-endian.

	header:  magic "TRJC" | version u8 | compression u8 | reserved u16 |
	         uuid [16]byte | dataset count u32
	dataset: path length u16 | path | dtype u8 | ndim u8 | dims u64 * ndim |
	         width u32 | flags u8 | raw length u64 | stored length u64 |
	         xxhash64(raw) u64 | payload

The raw payload is the row-major element bytes. Fixed-width byte strings are
NUL padded to the width. When compression doesn't make a payload smaller it
is stored raw and flagRaw is set.
*/

const (
	magic = "TRJC"
	//Version is the only stream version this package reads and writes.
	Version uint8 = 1

	headerSize = 28

	flagRaw uint8 = 1 << 0

	//MaxElements is the largest number of elements a dataset can hold.
	MaxElements = math.MaxInt32
	//MaxEmptyElements bounds datasets whose elements take no bytes
	//(zero-width byte strings), as their size can't be checked against
	//the payload.
	MaxEmptyElements = 1 << 20
)

var le = binary.LittleEndian

func rawSize(a *nd.Array) int {
	if a.DType() == nd.Bytes {
		return a.Len() * a.Width()
	}
	return a.Len() * a.DType().ItemSize()
}

func marshalRaw(a *nd.Array) []byte {
	buf := make([]byte, 0, rawSize(a))
	switch d := a.Data().(type) {
	case []float32:
		for _, v := range d {
			buf = le.AppendUint32(buf, math.Float32bits(v))
		}
	case []float64:
		for _, v := range d {
			buf = le.AppendUint64(buf, math.Float64bits(v))
		}
	case []int32:
		for _, v := range d {
			buf = le.AppendUint32(buf, uint32(v))
		}
	case []int64:
		for _, v := range d {
			buf = le.AppendUint64(buf, uint64(v))
		}
	case [][]byte:
		w := a.Width()
		for _, v := range d {
			buf = append(buf, v...)
			for i := len(v); i < w; i++ {
				buf = append(buf, 0)
			}
		}
	}
	return buf
}

func unmarshalRaw(dt nd.DType, shape []int, width int, raw []byte) *nd.Array {
	var a *nd.Array
	switch dt {
	case nd.Float32:
		d := make([]float32, len(raw)/4)
		for i := range d {
			d[i] = math.Float32frombits(le.Uint32(raw[4*i:]))
		}
		a = nd.FromFloat32(d)
	case nd.Float64:
		d := make([]float64, len(raw)/8)
		for i := range d {
			d[i] = math.Float64frombits(le.Uint64(raw[8*i:]))
		}
		a = nd.FromFloat64(d)
	case nd.Int32:
		d := make([]int32, len(raw)/4)
		for i := range d {
			d[i] = int32(le.Uint32(raw[4*i:]))
		}
		a = nd.FromInt32(d)
	case nd.Int64:
		d := make([]int64, len(raw)/8)
		for i := range d {
			d[i] = int64(le.Uint64(raw[8*i:]))
		}
		a = nd.FromInt64(d)
	case nd.Bytes:
		n := 0
		if width > 0 {
			n = len(raw) / width
		} else {
			n = elements(shape)
		}
		d := make([][]byte, n)
		for i := range d {
			if width > 0 {
				d[i] = raw[i*width : (i+1)*width]
			} else {
				d[i] = []byte{}
			}
		}
		a = nd.FromFixedBytes(d, width)
	}
	return a.Reshape(shape...)
}

//payloadSize returns the number of elements of shape and the raw payload
//size for items of itemsize bytes. It returns false if either doesn't fit.
func payloadSize(shape []int, itemsize int) (elems, size uint64, ok bool) {
	elems = 1
	for _, v := range shape {
		if v < 0 {
			return 0, 0, false
		}
		hi, lo := bits.Mul64(elems, uint64(v))
		if hi != 0 || lo > MaxElements {
			return 0, 0, false
		}
		elems = lo
	}
	if itemsize == 0 && elems > MaxEmptyElements {
		return 0, 0, false
	}
	hi, size := bits.Mul64(elems, uint64(itemsize))
	if hi != 0 || size > math.MaxInt {
		return 0, 0, false
	}
	return elems, size, true
}

func elements(shape []int) int {
	n := 1
	for _, v := range shape {
		n *= v
	}
	return n
}

//Encode writes the whole container to w.
func (C *Container) Encode(w io.Writer) error {
	cd, err := codecFor(C.compression)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	hdr := make([]byte, 0, headerSize)
	hdr = append(hdr, magic...)
	hdr = append(hdr, Version, byte(C.compression), 0, 0)
	hdr = append(hdr, C.id[:]...)
	hdr = le.AppendUint32(hdr, uint32(len(C.order)))
	if _, err := bw.Write(hdr); err != nil {
		return err
	}
	for _, p := range C.order {
		s, k, _ := splitPath(p)
		a := C.sections[s][k]
		if len(p) > math.MaxUint16 {
			return fmt.Errorf("%w: path too long: %.40s...", ErrPath, p)
		}
		shape := a.Shape()
		if len(shape) > math.MaxUint8 {
			return fmt.Errorf("%w: %s has %d dimensions", ErrUnsupportedDType, p, len(shape))
		}
		itemsize := a.DType().ItemSize()
		if a.DType() == nd.Bytes {
			itemsize = a.Width()
		}
		if _, _, ok := payloadSize(shape, itemsize); !ok {
			return fmt.Errorf("%w: %s of shape %v is too large", ErrUnsupportedDType, p, shape)
		}
		raw := marshalRaw(a)
		payload, flags := raw, flagRaw
		if len(raw) > 0 && C.compression != None {
			c, err := cd.compress(raw)
			if err != nil && !errors.Is(err, errIncompressible) {
				return fmt.Errorf("compress %s: %w", p, err)
			}
			if err == nil && len(c) < len(raw) {
				payload, flags = c, 0
			}
		}
		meta := make([]byte, 0, 2+len(p)+2+8*len(shape)+4+1+24)
		meta = le.AppendUint16(meta, uint16(len(p)))
		meta = append(meta, p...)
		meta = append(meta, byte(a.DType()), byte(len(shape)))
		for _, v := range shape {
			meta = le.AppendUint64(meta, uint64(v))
		}
		meta = le.AppendUint32(meta, uint32(a.Width()))
		meta = append(meta, flags)
		meta = le.AppendUint64(meta, uint64(len(raw)))
		meta = le.AppendUint64(meta, uint64(len(payload)))
		meta = le.AppendUint64(meta, xxhash.Sum64(raw))
		if _, err := bw.Write(meta); err != nil {
			return err
		}
		if _, err := bw.Write(payload); err != nil {
			return err
		}
		C.stored[p] = len(payload)
	}
	return bw.Flush()
}

//Decode reads a whole container from r.
func Decode(r io.Reader) (*Container, error) {
	br := bufio.NewReader(r)
	hdr := make([]byte, headerSize)
	if _, err := io.ReadFull(br, hdr); err != nil {
		return nil, fmt.Errorf("%w: can't read header: %v", ErrFormat, err)
	}
	if string(hdr[:4]) != magic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrFormat, hdr[:4])
	}
	if hdr[4] != Version {
		return nil, fmt.Errorf("%w: %d", ErrVersion, hdr[4])
	}
	comp := Compression(hdr[5])
	cd, err := codecFor(comp)
	if err != nil {
		return nil, err
	}
	C := New(comp)
	C.id, err = uuid.FromBytes(hdr[8:24])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	count := le.Uint32(hdr[24:28])
	for i := uint32(0); i < count; i++ {
		if err := C.decodeDataset(br, cd); err != nil {
			return nil, err
		}
	}
	return C, nil
}

func (C *Container) decodeDataset(br *bufio.Reader, cd codec) error {
	var u16 [2]byte
	if _, err := io.ReadFull(br, u16[:]); err != nil {
		return fmt.Errorf("%w: truncated dataset header: %v", ErrFormat, err)
	}
	pb := make([]byte, le.Uint16(u16[:]))
	if _, err := io.ReadFull(br, pb); err != nil {
		return fmt.Errorf("%w: truncated dataset path: %v", ErrFormat, err)
	}
	p := string(pb)
	section, key, ok := splitPath(p)
	if !ok {
		return fmt.Errorf("%w: bad dataset path %q", ErrFormat, p)
	}
	var dn [2]byte
	if _, err := io.ReadFull(br, dn[:]); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrFormat, p, err)
	}
	dt := nd.DType(dn[0])
	if !dt.Numeric() && dt != nd.Bytes {
		return fmt.Errorf("%w: %s has unknown dtype %d", ErrFormat, p, dn[0])
	}
	rest := make([]byte, 8*int(dn[1])+4+1+24)
	if _, err := io.ReadFull(br, rest); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrFormat, p, err)
	}
	shape := make([]int, dn[1])
	for i := range shape {
		v := le.Uint64(rest[8*i:])
		if v > math.MaxInt32 {
			return fmt.Errorf("%w: %s: dimension too large", ErrFormat, p)
		}
		shape[i] = int(v)
	}
	rest = rest[8*len(shape):]
	width := int(le.Uint32(rest))
	flags := rest[4]
	rawLen := le.Uint64(rest[5:])
	storedLen := le.Uint64(rest[13:])
	sum := le.Uint64(rest[21:])

	itemsize := dt.ItemSize()
	if dt == nd.Bytes {
		itemsize = width
	}
	_, size, ok := payloadSize(shape, itemsize)
	if !ok {
		return fmt.Errorf("%w: %s: shape %v is too large", ErrFormat, p, shape)
	}
	if size != rawLen {
		return fmt.Errorf("%w: %s: payload size %d doesn't match shape %v", ErrFormat, p, rawLen, shape)
	}
	if flags&flagRaw != 0 && storedLen != rawLen {
		return fmt.Errorf("%w: %s: raw payload with stored size %d", ErrFormat, p, storedLen)
	}
	payload, err := io.ReadAll(io.LimitReader(br, int64(storedLen)))
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrFormat, p, err)
	}
	if uint64(len(payload)) != storedLen {
		return fmt.Errorf("%w: %s: truncated payload", ErrFormat, p)
	}
	raw := payload
	if flags&flagRaw == 0 && storedLen > 0 {
		raw, err = cd.decompress(payload, int(rawLen))
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrFormat, p, err)
		}
	}
	if uint64(len(raw)) != rawLen {
		return fmt.Errorf("%w: %s: decompressed %d bytes, expected %d", ErrFormat, p, len(raw), rawLen)
	}
	if xxhash.Sum64(raw) != sum {
		return fmt.Errorf("%w: %s", ErrChecksum, p)
	}
	if err := C.Put(section, key, unmarshalRaw(dt, shape, width, raw)); err != nil {
		return fmt.Errorf("%w: %v", ErrFormat, err)
	}
	C.stored[p] = int(storedLen)
	return nil
}
