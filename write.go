/*
 * write.go, part of trajcol.
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
	"math"

	"github.com/tcnicholas/trajcol/container"
	"github.com/tcnicholas/trajcol/nd"
	"go.uber.org/zap"
)

//Sections of a trajectory container.
const (
	SecImmutable = "immutable"
	SecMutable   = "mutable"
	SecInfo      = "info"
)

//Tolerances used to decide whether the cell changes between frames.
const (
	CellRtol = 1e-5
	CellAtol = 1e-8
)

//Write stores snaps in the container file filename. If an error is
//returned, nothing is written to filename.
func (T *Trajectory) Write(snaps []*Snapshot, filename string) error {
	C, err := T.Encode(snaps)
	if err != nil {
		return fileError(err, filename, "Write")
	}
	if err := C.Save(filename); err != nil {
		return fileError(err, filename, "Write")
	}
	T.log.Debug("trajectory written", zap.String("file", filename), zap.Int("frames", len(snaps)))
	return nil
}

//WriteStream encodes snaps into w.
func (T *Trajectory) WriteStream(w io.Writer, snaps []*Snapshot) error {
	C, err := T.Encode(snaps)
	if err != nil {
		return err
	}
	return C.Encode(w)
}

//Encode builds the in-memory container for snaps.
//A missing immutable property in the first frame, or a missing mutable
//property in any frame, are errors. Immutable properties that change along
//the trajectory and info keys missing in some frames only cause warnings.
func (T *Trajectory) Encode(snaps []*Snapshot) (*container.Container, error) {
	if len(snaps) == 0 {
		return nil, newError(ErrEmptyTrajectory, "index 0 out of range for a trajectory with 0 frames")
	}
	C := container.New(T.compression)
	if err := T.putImmutable(C, snaps); err != nil {
		return nil, err
	}
	if err := T.putMutable(C, snaps); err != nil {
		return nil, err
	}
	if err := T.putCell(C, snaps); err != nil {
		return nil, err
	}
	if err := T.putInfo(C, snaps); err != nil {
		return nil, err
	}
	if !C.HasSection(SecMutable) {
		T.log.Warn("No mutable properties written, the trajectory can't be read back.")
	}
	return C, nil
}

func (T *Trajectory) put(C *container.Container, section, key string, a *nd.Array) error {
	if err := C.Put(section, key, nd.Convert(a, T.precision)); err != nil {
		E := newError(err, "can't store property '%s': %v", key, err)
		E.deco = E.Decorate("Encode")
		return E
	}
	return nil
}

func (T *Trajectory) putImmutable(C *container.Container, snaps []*Snapshot) error {
	for _, key := range T.immutable.Sorted() {
		if key == CellKey {
			continue
		}
		data, ok := Fetch(snaps[0], key)
		if !ok {
			return newError(ErrMissingImmutable, "Immutable property '%s' missing in frame 1.", key)
		}
		T.checkImmutable(snaps, key, data)
		if err := T.put(C, SecImmutable, key, data); err != nil {
			return err
		}
	}
	return nil
}

//checkImmutable warns, once, if key is present in a frame with a value
//different from data.
func (T *Trajectory) checkImmutable(snaps []*Snapshot, key string, data *nd.Array) {
	for i, s := range snaps[1:] {
		other, ok := Fetch(s, key)
		if ok && !data.Equal(other) {
			T.log.Warn("Immutable property '"+key+"' changes between frames.",
				zap.String("key", key), zap.Int("frame", i+2))
			return
		}
	}
}

func (T *Trajectory) putMutable(C *container.Container, snaps []*Snapshot) error {
	for _, key := range T.mutable.Sorted() {
		if key == CellKey {
			continue
		}
		frames := make([]*nd.Array, len(snaps))
		for i, s := range snaps {
			data, ok := Fetch(s, key)
			if !ok {
				return newError(ErrMissingMutable, "Mutable property '%s' missing in a frame.", key)
			}
			frames[i] = data
		}
		stacked, err := nd.Stack(frames)
		if err != nil {
			return newError(ErrStack, "Mutable property '%s': %v", key, err)
		}
		if err := T.put(C, SecMutable, key, stacked); err != nil {
			return err
		}
	}
	return nil
}

//putCell stores a single cell if all the frames have the same one, and one
//per frame otherwise. Frames without a cell count as having a zero cell.
func (T *Trajectory) putCell(C *container.Container, snaps []*Snapshot) error {
	cells := make([]*nd.Array, len(snaps))
	for i, s := range snaps {
		if s.Cell != nil && s.Cell.NVecs() != 3 {
			return newError(ErrStack, "cell of frame %d is not 3x3", i+1)
		}
		cells[i] = s.cellArray()
	}
	constant := true
	for _, c := range cells[1:] {
		if !nd.AllClose(c, cells[0], CellRtol, CellAtol) {
			constant = false
			break
		}
	}
	if constant {
		return T.put(C, SecImmutable, CellKey, cells[0])
	}
	stacked, err := nd.Stack(cells)
	if err != nil {
		return newError(ErrStack, "cells: %v", err)
	}
	return T.put(C, SecMutable, CellKey, stacked)
}

//putInfo stores one float64 per frame for each info key, NaN where the
//frame doesn't have it.
func (T *Trajectory) putInfo(C *container.Container, snaps []*Snapshot) error {
	for _, key := range T.info {
		vals := make([]float64, len(snaps))
		missing := false
		for i, s := range snaps {
			a, ok := s.Info[key]
			if !ok || a == nil {
				vals[i] = math.NaN()
				missing = true
				continue
			}
			v, ok := a.Float64()
			if !ok {
				return newError(ErrInfoValue, "info '%s' of frame %d is a %s array of shape %v", key, i+1, a.DType(), a.Shape())
			}
			vals[i] = v
			if math.IsNaN(v) {
				missing = true
			}
		}
		if missing {
			T.log.Warn("Some frames missing '"+key+"' info.", zap.String("key", key))
		}
		//always float64, NaN marks the missing values.
		if err := C.Put(SecInfo, key, nd.FromFloat64(vals)); err != nil {
			return newError(err, "can't store info '%s': %v", key, err)
		}
	}
	return nil
}
