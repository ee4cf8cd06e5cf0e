/*
 * xyz_test.go, part of trajcol.
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

package xyz

import (
	"bytes"
	"errors"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tcnicholas/trajcol"
	"github.com/tcnicholas/trajcol/nd"
	v3 "github.com/tcnicholas/trajcol/v3"
)

const twoFrames = `3
Lattice="10.0 0.0 0.0 0.0 10.0 0.0 0.0 0.0 10.0" Properties=species:S:1:pos:R:3:forces:R:3:tags:I:1:fixed:L:1 energy=-76.25 step=10 config="water box" dipole="0.1 0.2 0.3" pbc="T T F"
O 0.0 0.0 0.0 0.1 0.2 0.3 0 F
H 0.96 0.0 0.0 -0.1 0.0 0.0 1 T
H -0.24 0.93 0.0 0.0 -0.2 -0.3 1 T
3
Lattice="10.0 0.0 0.0 0.0 10.0 0.0 0.0 0.0 10.0" Properties=species:S:1:pos:R:3:forces:R:3:tags:I:1:fixed:L:1 energy=-76.5 step=20 config="water box" dipole="0.1 0.2 0.3" pbc="T T F"
O 0.0 0.0 0.1 0.1 0.2 0.3 0 F
H 0.96 0.0 0.1 -0.1 0.0 0.0 1 T
H -0.24 0.93 0.1 0.0 -0.2 -0.3 1 T

`

func TestRead(Te *testing.T) {
	snaps, err := Read(strings.NewReader(twoFrames))
	require.NoError(Te, err)
	require.Len(Te, snaps, 2)
	S := snaps[1]
	assert.Equal(Te, []int64{8, 1, 1}, S.Numbers())
	assert.InDeltaSlice(Te, []float64{0, 0, 0.1, 0.96, 0, 0.1, -0.24, 0.93, 0.1}, S.Positions().Flat(), 1e-12)
	require.NotNil(Te, S.Cell)
	assert.Equal(Te, 10.0, S.Cell.At(2, 2))
	assert.Equal(Te, [3]bool{true, true, false}, S.PBC)

	e, ok := S.InfoFloat("energy")
	require.True(Te, ok)
	assert.Equal(Te, -76.5, e)
	assert.Equal(Te, nd.Int64, S.Info["step"].DType())
	cfg, _ := S.Info["config"].Strings()
	assert.Equal(Te, []string{"water box"}, cfg)
	assert.Equal(Te, []int{3}, S.Info["dipole"].Shape())

	assert.Equal(Te, []int{3, 3}, S.Arrays["forces"].Shape())
	tags, _ := S.Arrays["tags"].Int64s()
	assert.Equal(Te, []int64{0, 1, 1}, tags)
	fixed, _ := S.Arrays["fixed"].Int64s()
	assert.Equal(Te, []int64{0, 1, 1}, fixed)
}

func TestPlainXYZ(Te *testing.T) {
	in := "2\nhydrogen molecule\nH 0 0 0\nH 0 0 0.74\n"
	snaps, err := Read(strings.NewReader(in))
	require.NoError(Te, err)
	require.Len(Te, snaps, 1)
	assert.Nil(Te, snaps[0].Cell)
	assert.Empty(Te, snaps[0].Info)
	assert.Equal(Te, []int64{1, 1}, snaps[0].Numbers())
}

func TestReadErrors(Te *testing.T) {
	cases := map[string]string{
		"natoms":    "two\n\nH 0 0 0\n",
		"truncated": "3\n\nH 0 0 0\nH 0 0 1\n",
		"columns":   "1\n\nH 0 0\n",
		"element":   "1\n\nQq 0 0 0\n",
		"lattice":   "1\nLattice=\"1 2 3\"\nH 0 0 0\n",
		"quote":     "1\nconfig=\"open\nH 0 0 0\n",
		"props":     "1\nProperties=species:S:1:pos\nH 0 0 0\n",
		"nopos":     "1\nProperties=species:S:1\nH\n",
		"float":     "1\n\nH 0 zero 0\n",
	}
	for name, in := range cases {
		_, err := Read(strings.NewReader(in))
		var E Error
		assert.True(Te, errors.As(err, &E), name)
	}
	_, err := Read(strings.NewReader("1\nProperties=species:S:1:pos:R:3\nH 0 0 0\n"))
	assert.NoError(Te, err)
}

func TestWriteReadBack(Te *testing.T) {
	snaps, err := Read(strings.NewReader(twoFrames))
	require.NoError(Te, err)
	snaps[0].SetInfoFloat("missing", math.NaN())
	var buf bytes.Buffer
	require.NoError(Te, Write(&buf, snaps))

	back, err := Read(&buf)
	require.NoError(Te, err)
	require.Len(Te, back, 2)
	for i := range snaps {
		assert.Equal(Te, snaps[i].Numbers(), back[i].Numbers())
		assert.InDeltaSlice(Te, snaps[i].Positions().Flat(), back[i].Positions().Flat(), 1e-8)
		assert.InDeltaSlice(Te, snaps[i].Cell.Flat(), back[i].Cell.Flat(), 1e-8)
		assert.Equal(Te, snaps[i].PBC, back[i].PBC)
		assert.True(Te, nd.AllClose(snaps[i].Arrays["forces"], back[i].Arrays["forces"], 0, 1e-8))
		assert.True(Te, snaps[i].Arrays["tags"].Equal(back[i].Arrays["tags"]))
		assert.True(Te, snaps[i].Info["step"].Equal(back[i].Info["step"]))
		assert.True(Te, snaps[i].Info["config"].Equal(back[i].Info["config"]))
		assert.True(Te, nd.AllClose(snaps[i].Info["dipole"], back[i].Info["dipole"], 0, 1e-8))
	}
	m, ok := back[0].InfoFloat("missing")
	require.True(Te, ok)
	assert.True(Te, math.IsNaN(m))
}

func TestWriteFile(Te *testing.T) {
	pos, err := v3.NewMatrix([]float64{0, 0, 0, 1.1, 0, 0})
	require.NoError(Te, err)
	S := trajcol.NewSnapshot([]int64{6, 8}, pos)
	S.SetArray("label", nd.FromStrings([]string{"carbon atom", ""}))
	S.SetArray("grid", nd.FromFloat64(make([]float64, 8), 2, 2, 2))
	name := filepath.Join(Te.TempDir(), "co.xyz")
	require.NoError(Te, WriteFile(name, []*trajcol.Snapshot{S}))

	back, err := ReadFile(name)
	require.NoError(Te, err)
	require.Len(Te, back, 1)
	assert.Nil(Te, back[0].Cell)
	assert.Equal(Te, [3]bool{}, back[0].PBC)
	lab, _ := back[0].Arrays["label"].Strings()
	assert.Equal(Te, []string{"carbon_atom", "_"}, lab)
	_, ok := back[0].Arrays["grid"]
	assert.False(Te, ok)

	bad := trajcol.NewSnapshot([]int64{6}, nil)
	delete(bad.Arrays, trajcol.Positions)
	bad.SetArray("tags", nd.FromInt64([]int64{1}))
	assert.Error(Te, Write(&bytes.Buffer{}, []*trajcol.Snapshot{bad}))
}
