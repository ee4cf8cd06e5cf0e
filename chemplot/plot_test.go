/*
 * plot_test.go, part of trajcol.
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

package chemplot

import (
	"errors"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tcnicholas/trajcol"
)

func frames(n int) []*trajcol.Snapshot {
	ret := make([]*trajcol.Snapshot, n)
	for i := range ret {
		ret[i] = trajcol.NewSnapshot([]int64{1}, nil)
		ret[i].SetInfoFloat("temperature", 300+float64(i%3))
		if i%4 != 1 {
			ret[i].SetInfoFloat("energy", -float64(i))
		}
	}
	return ret
}

func TestInfoSeries(Te *testing.T) {
	xys := InfoSeries(frames(7), "energy")
	require.Len(Te, xys, 7)
	assert.Equal(Te, 0.0, xys[0].Y)
	assert.True(Te, math.IsNaN(xys[1].Y))
	assert.Equal(Te, 5.0, xys[5].X)
	segs := segments(xys)
	require.Len(Te, segs, 3)
	assert.Len(Te, segs[0], 1)
	assert.Len(Te, segs[1], 3)
	assert.Len(Te, segs[2], 1)
}

func TestInfoPlot(Te *testing.T) {
	dir := Te.TempDir()
	name := filepath.Join(dir, "info.png")
	require.NoError(Te, InfoPlot(frames(12), []string{"energy", "temperature", "pressure"}, "Test", name))
	st, err := os.Stat(name)
	require.NoError(Te, err)
	assert.Positive(Te, st.Size())

	err = InfoPlot(frames(3), []string{"pressure"}, "", filepath.Join(dir, "none.png"))
	assert.True(Te, errors.Is(err, ErrNoData))
	assert.Error(Te, InfoPlot(frames(3), []string{"energy"}, "", filepath.Join(dir, "info.unknown")))
}

func TestStyle(Te *testing.T) {
	def := CurrentStyle()
	assert.Len(Te, def.Colors, 3)
	assert.Equal(Te, color.RGBA{R: 0xC5, G: 0x09, B: 0x1F, A: 0xFF}, def.seriesColor(1, 5))
	extra := def.seriesColor(4, 6)
	assert.NotEqual(Te, def.seriesColor(3, 6), extra)

	s := DefaultStyle()
	s.Colors = []color.Color{color.White}
	SetStyle(s)
	defer SetStyle(DefaultStyle())
	assert.Equal(Te, color.White, CurrentStyle().seriesColor(0, 1))
	//modifying the copy doesn't change the style in use
	CurrentStyle().Colors[0] = color.Black
	assert.Equal(Te, color.White, CurrentStyle().Colors[0])
}
