/*
 * info.go, part of trajcol.
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

//Package chemplot draws per-frame quantities of trajectories with gonum/plot.
package chemplot

import (
	"errors"
	"fmt"
	"math"

	"github.com/tcnicholas/trajcol"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
)

//ErrNoData is returned when none of the requested keys has a value in any
//frame.
var ErrNoData = errors.New("nothing to plot")

//InfoSeries returns the value of the info key in each frame against the
//frame index. Frames where the key is missing, or not a numeric scalar,
//have NaN as Y.
func InfoSeries(snaps []*trajcol.Snapshot, key string) plotter.XYs {
	ret := make(plotter.XYs, len(snaps))
	for i, s := range snaps {
		ret[i].X = float64(i)
		v, ok := s.InfoFloat(key)
		if !ok {
			v = math.NaN()
		}
		ret[i].Y = v
	}
	return ret
}

//segments splits xys in runs without NaNs.
func segments(xys plotter.XYs) []plotter.XYs {
	var ret []plotter.XYs
	var cur plotter.XYs
	for _, p := range xys {
		if math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
			if len(cur) > 0 {
				ret = append(ret, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, p)
	}
	if len(cur) > 0 {
		ret = append(ret, cur)
	}
	return ret
}

//InfoPlot plots the info keys of snaps against the frame index, one line
//per key, and saves it to filename. The format is given by the extension
//(png, svg, pdf, eps...). Missing values leave gaps in the lines.
func InfoPlot(snaps []*trajcol.Snapshot, keys []string, title, filename string) error {
	st := CurrentStyle()
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Frame"
	if len(keys) == 1 {
		p.Y.Label.Text = keys[0]
	}
	p.X.Padding = st.AxisOffset
	p.Y.Padding = st.AxisOffset
	p.Legend.Top = true

	drawn := 0
	for k, key := range keys {
		segs := segments(InfoSeries(snaps, key))
		if len(segs) == 0 {
			continue
		}
		c := st.seriesColor(k, len(keys))
		for j, seg := range segs {
			l, s, err := plotter.NewLinePoints(seg)
			if err != nil {
				return fmt.Errorf("plotting %s: %w", key, err)
			}
			l.Color = c
			l.Width = st.LineWidth
			s.Color = c
			s.Radius = st.LineWidth
			p.Add(l, s)
			if j == 0 && len(keys) > 1 {
				p.Legend.Add(key, l)
			}
		}
		drawn++
	}
	if drawn == 0 {
		return fmt.Errorf("%w: %v", ErrNoData, keys)
	}
	return p.Save(st.Width, st.Height, filename)
}
