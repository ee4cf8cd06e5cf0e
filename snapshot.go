/*
 * snapshot.go, part of trajcol.
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
	"sort"

	"github.com/tcnicholas/trajcol/nd"
	v3 "github.com/tcnicholas/trajcol/v3"
)

//Names of the properties every snapshot is expected to have.
const (
	Numbers   = "numbers"
	Positions = "positions"
	CellKey   = "cell"
)

//Snapshot is one frame of a trajectory.
//Arrays holds the per-atom properties, whose first axis has one element per
//atom. The atomic numbers and the positions are stored there, under
//Numbers and Positions. Info holds the per-frame properties, usually 0-d
//arrays.
type Snapshot struct {
	Arrays map[string]*nd.Array
	Info   map[string]*nd.Array
	//Cell is the 3x3 matrix of box vectors, one per row. nil means no cell.
	Cell *v3.Matrix
	PBC  [3]bool
}

//NewSnapshot returns a snapshot with the given atomic numbers and
//positions. It panics if positions doesn't have one row per atom.
func NewSnapshot(numbers []int64, positions *v3.Matrix) *Snapshot {
	S := &Snapshot{
		Arrays: make(map[string]*nd.Array),
		Info:   make(map[string]*nd.Array),
	}
	n := len(numbers)
	var pos []float64
	if positions != nil {
		if positions.NVecs() != n {
			panic(v3.ErrShape)
		}
		pos = positions.Flat()
	} else {
		pos = make([]float64, 3*n)
	}
	S.Arrays[Numbers] = nd.FromInt64(append([]int64(nil), numbers...))
	S.Arrays[Positions] = nd.FromFloat64(pos, n, 3)
	return S
}

//Len returns the number of atoms in the snapshot.
func (S *Snapshot) Len() int {
	for _, k := range []string{Numbers, Positions} {
		if a, ok := S.Arrays[k]; ok && a != nil && !a.IsScalar() {
			return a.Shape()[0]
		}
	}
	return 0
}

//Numbers returns the atomic numbers, or nil if the snapshot has none.
func (S *Snapshot) Numbers() []int64 {
	a, ok := S.Arrays[Numbers]
	if !ok || a == nil {
		return nil
	}
	ret, _ := a.Int64s()
	return ret
}

//Positions returns a copy of the positions as a Nx3 matrix. It returns nil
//if there are no positions, or they are not Nx3.
func (S *Snapshot) Positions() *v3.Matrix {
	a, ok := S.Arrays[Positions]
	if !ok || a == nil || a.NDim() != 2 || a.Shape()[1] != 3 {
		return nil
	}
	f, ok := a.Float64s()
	if !ok {
		return nil
	}
	m, err := v3.NewMatrix(f)
	if err != nil {
		return nil
	}
	return m
}

//SetArray stores a per-atom property.
func (S *Snapshot) SetArray(key string, a *nd.Array) {
	if S.Arrays == nil {
		S.Arrays = make(map[string]*nd.Array)
	}
	S.Arrays[key] = a
}

//SetInfo stores a per-frame property.
func (S *Snapshot) SetInfo(key string, a *nd.Array) {
	if S.Info == nil {
		S.Info = make(map[string]*nd.Array)
	}
	S.Info[key] = a
}

//SetInfoFloat stores v as a 0-d per-frame property.
func (S *Snapshot) SetInfoFloat(key string, v float64) {
	S.SetInfo(key, nd.Float64Scalar(v))
}

//InfoFloat returns the value of a numeric 0-d info property.
func (S *Snapshot) InfoFloat(key string) (float64, bool) {
	a, ok := S.Info[key]
	if !ok || a == nil {
		return 0, false
	}
	return a.Float64()
}

//ArrayKeys returns the sorted names of the per-atom properties.
func (S *Snapshot) ArrayKeys() []string {
	return sortedKeys(S.Arrays)
}

//InfoKeys returns the sorted names of the per-frame properties.
func (S *Snapshot) InfoKeys() []string {
	return sortedKeys(S.Info)
}

func sortedKeys(m map[string]*nd.Array) []string {
	ret := make([]string, 0, len(m))
	for k := range m {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

//cellArray returns the cell as a 3x3 array, zeros if it is not set.
func (S *Snapshot) cellArray() *nd.Array {
	if S.Cell == nil {
		return nd.FromFloat64(make([]float64, 9), 3, 3)
	}
	return nd.FromFloat64(S.Cell.Flat(), 3, 3)
}

//Fetch looks key up in the per-atom properties of S and then in the
//per-frame ones.
func Fetch(S *Snapshot, key string) (*nd.Array, bool) {
	if a, ok := S.Arrays[key]; ok && a != nil {
		return a, true
	}
	if a, ok := S.Info[key]; ok && a != nil {
		return a, true
	}
	return nil, false
}
