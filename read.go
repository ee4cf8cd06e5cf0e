/*
 * read.go, part of trajcol.
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

package trajcol

import (
	"io"

	"github.com/tcnicholas/trajcol/container"
	"github.com/tcnicholas/trajcol/nd"
	v3 "github.com/tcnicholas/trajcol/v3"
	"go.uber.org/zap"
)

//Read returns the snapshots stored in the container file filename.
func (T *Trajectory) Read(filename string) ([]*Snapshot, error) {
	C, err := container.Load(filename)
	if err != nil {
		return nil, fileError(err, filename, "Read")
	}
	snaps, err := T.Decode(C)
	if err != nil {
		return nil, fileError(err, filename, "Read")
	}
	T.log.Debug("trajectory read", zap.String("file", filename), zap.Int("frames", len(snaps)))
	return snaps, nil
}

//ReadStream decodes a container from r and returns its snapshots.
func (T *Trajectory) ReadStream(r io.Reader) ([]*Snapshot, error) {
	C, err := container.Decode(r)
	if err != nil {
		return nil, err
	}
	return T.Decode(C)
}

func section(C *container.Container, name string) map[string]*nd.Array {
	ret := make(map[string]*nd.Array)
	for _, k := range C.Keys(name) {
		a, _ := C.Get(name, k)
		ret[k] = nd.DecodeBytes(a)
	}
	return ret
}

//Decode rebuilds the snapshots stored in C. The number of frames is given
//by the mutable properties, so a container without them is an error, as is
//one without positions. Immutable properties are copied into every frame.
//PBC flags are not stored, they are false in every snapshot returned.
func (T *Trajectory) Decode(C *container.Container) ([]*Snapshot, error) {
	immutable := section(C, SecImmutable)
	mutable := section(C, SecMutable)
	info := section(C, SecInfo)

	frames, err := frameCount(mutable)
	if err != nil {
		return nil, err
	}
	if _, ok := immutable[Positions]; !ok {
		if _, ok := mutable[Positions]; !ok {
			return nil, newError(ErrMalformedContainer, "no positions stored")
		}
	}
	if c, ok := mutable[CellKey]; ok && !hasShape(c, frames, 3, 3) {
		return nil, newError(ErrMalformedContainer, "mutable cell has shape %v", c.Shape())
	}
	if c, ok := immutable[CellKey]; ok && !hasShape(c, 3, 3) {
		return nil, newError(ErrMalformedContainer, "immutable cell has shape %v", c.Shape())
	}
	for k, a := range info {
		if !hasShape(a, frames) {
			return nil, newError(ErrMalformedContainer, "info '%s' has shape %v for %d frames", k, a.Shape(), frames)
		}
	}

	snaps := make([]*Snapshot, frames)
	for i := range snaps {
		S := &Snapshot{
			Arrays: make(map[string]*nd.Array, len(mutable)+len(immutable)),
			Info:   make(map[string]*nd.Array, len(info)),
		}
		for k, a := range mutable {
			if k != CellKey {
				S.Arrays[k] = a.Slice(i)
			}
		}
		for k, a := range immutable {
			if k != CellKey {
				S.Arrays[k] = a.Clone()
			}
		}
		var cell *nd.Array
		if c, ok := mutable[CellKey]; ok {
			cell = c.Slice(i)
		} else if c, ok := immutable[CellKey]; ok {
			cell = c
		}
		if cell != nil {
			f, _ := cell.Float64s()
			m, err := v3.NewMatrix(f)
			if err != nil {
				return nil, newError(ErrMalformedContainer, "cell: %v", err)
			}
			if !m.IsZero() {
				S.Cell = m
			}
		}
		if _, ok := S.Arrays[Numbers]; !ok {
			S.Arrays[Numbers] = nd.FromInt64(make([]int64, S.Len()))
		}
		for k, a := range info {
			S.Info[k] = a.Slice(i)
		}
		snaps[i] = S
	}
	return snaps, nil
}

//frameCount is the length of the first axis of the mutable properties,
//which must agree.
func frameCount(mutable map[string]*nd.Array) (int, error) {
	if len(mutable) == 0 {
		return 0, newError(ErrMalformedContainer, "no mutable properties, the number of frames is undefined")
	}
	frames := -1
	for _, k := range sortedKeys(mutable) {
		a := mutable[k]
		if a.IsScalar() {
			return 0, newError(ErrMalformedContainer, "mutable property '%s' is a scalar", k)
		}
		n := a.Shape()[0]
		if frames >= 0 && n != frames {
			return 0, newError(ErrMalformedContainer, "mutable property '%s' has %d frames, expected %d", k, n, frames)
		}
		frames = n
	}
	return frames, nil
}

func hasShape(a *nd.Array, shape ...int) bool {
	s := a.Shape()
	if len(s) != len(shape) {
		return false
	}
	for i := range s {
		if s[i] != shape[i] {
			return false
		}
	}
	return true
}
