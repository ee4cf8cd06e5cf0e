/*
 * style.go, part of trajcol.
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
	"image/color"
	"math"
	"sync"

	"gonum.org/v1/plot/vg"
)

//Style is the look shared by every plot of the package.
type Style struct {
	Width, Height vg.Length
	//Colors are used in order for the series. Beyond them, colors are
	//taken from a hue wheel.
	Colors []color.Color
	//AxisOffset moves the axes away from the data.
	AxisOffset vg.Length
	//LineWidth of the series.
	LineWidth vg.Length
}

//DefaultStyle is a small, single-column figure with black, red and blue
//series.
func DefaultStyle() Style {
	return Style{
		Width:  3.5 * vg.Inch,
		Height: 3 * vg.Inch,
		Colors: []color.Color{
			color.Black,
			color.RGBA{R: 0xC5, G: 0x09, B: 0x1F, A: 0xFF},
			color.RGBA{R: 0x1F, G: 0x77, B: 0xB4, A: 0xFF},
		},
		AxisOffset: 10,
		LineWidth:  vg.Points(1),
	}
}

var (
	styleMu sync.RWMutex
	style   = DefaultStyle()
)

//SetStyle replaces the style for all the plots made afterwards. It is meant
//to be called once, at start up.
func SetStyle(s Style) {
	styleMu.Lock()
	defer styleMu.Unlock()
	style = s
}

//CurrentStyle returns the style in use.
func CurrentStyle() Style {
	styleMu.RLock()
	defer styleMu.RUnlock()
	s := style
	s.Colors = append([]color.Color(nil), style.Colors...)
	return s
}

//seriesColor returns the color for the key-th of steps series.
func (s Style) seriesColor(key, steps int) color.Color {
	if key < len(s.Colors) {
		return s.Colors[key]
	}
	r, g, b := colors(key-len(s.Colors), steps-len(s.Colors))
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

//takes hue (0-360), v and s (0-1), returns r,g,b (0-255)
func iHVS2RGB(h, v, s float64) (uint8, uint8, uint8) {
	var i, f, p, q, t float64
	var r, g, b float64
	maxcolor := 255.0
	conversion := maxcolor * v
	if s == 0.0 {
		return uint8(conversion), uint8(conversion), uint8(conversion)
	}
	h = h / 60
	i = math.Floor(h)
	f = h - i
	p = v * (1 - s)
	q = v * (1 - s*f)
	t = v * (1 - s*(1-f))
	switch int(i) {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}
	r = r * maxcolor
	g = g * maxcolor
	b = b * maxcolor
	return uint8(r), uint8(g), uint8(b)
}

//colors spreads steps hues between red and magenta, skipping the yellows.
func colors(key, steps int) (r, g, b uint8) {
	norm := 260.0 / float64(steps)
	hp := float64((float64(key) * norm) + 20.0)
	var h float64
	if hp < 55 {
		h = hp - 20.0
	} else {
		h = hp + 20.0
	}
	return iHVS2RGB(h, 1.0, 1.0)
}
