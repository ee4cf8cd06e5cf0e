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

package xyz

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/tcnicholas/trajcol"
	"github.com/tcnicholas/trajcol/nd"
)

//WriteFile writes snaps to the file xyzname, which is created or
//truncated.
func WriteFile(xyzname string, snaps []*trajcol.Snapshot) error {
	out, err := os.Create(xyzname)
	if err != nil {
		return err
	}
	if err := Write(out, snaps); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

//Write writes snaps to w in extended XYZ format. Per-atom arrays that are
//not 1-D or 2-D, and info values that are neither scalars nor 1-D numeric
//arrays, are skipped. Blanks in per-atom text are replaced with underscores.
func Write(w io.Writer, snaps []*trajcol.Snapshot) error {
	bw := bufio.NewWriter(w)
	for i, S := range snaps {
		if err := writeFrame(bw, S); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
	}
	return bw.Flush()
}

func fmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 8, 64)
}

func kindOf(a *nd.Array) (byte, bool) {
	switch a.DType().Category() {
	case nd.CategoryFloat:
		return 'R', true
	case nd.CategoryInt:
		return 'I', true
	case nd.CategoryText:
		return 'S', true
	}
	return 0, false
}

func writeFrame(bw *bufio.Writer, S *trajcol.Snapshot) error {
	n := S.Len()
	pos := S.Positions()
	if pos == nil && n > 0 {
		return fmt.Errorf("no Nx3 positions")
	}
	numbers := S.Numbers()
	if len(numbers) != n {
		return fmt.Errorf("%d atomic numbers for %d atoms", len(numbers), n)
	}
	type col struct {
		name  string
		kind  byte
		width int
		text  []string
	}
	cols := []col{}
	for _, k := range S.ArrayKeys() {
		switch k {
		case trajcol.Numbers, trajcol.Positions, "species", "pos", "Z":
			continue
		}
		a := S.Arrays[k]
		if a == nil || a.NDim() < 1 || a.NDim() > 2 || a.Shape()[0] != n {
			continue
		}
		kind, ok := kindOf(a)
		if !ok {
			continue
		}
		width := 1
		if a.NDim() == 2 {
			width = a.Shape()[1]
		}
		if width == 0 {
			continue
		}
		c := col{name: k, kind: kind, width: width, text: make([]string, 0, a.Len())}
		switch kind {
		case 'R':
			f, _ := a.Float64s()
			for _, v := range f {
				c.text = append(c.text, fmtFloat(v))
			}
		case 'I':
			d, _ := a.Int64s()
			for _, v := range d {
				c.text = append(c.text, strconv.FormatInt(v, 10))
			}
		case 'S':
			s, _ := a.Strings()
			for _, v := range s {
				v = strings.Join(strings.Fields(v), "_")
				if v == "" {
					v = "_"
				}
				c.text = append(c.text, v)
			}
		}
		cols = append(cols, c)
	}

	var comment []string
	if S.Cell != nil {
		f := S.Cell.Flat()
		s := make([]string, len(f))
		for i, v := range f {
			s[i] = fmtFloat(v)
		}
		comment = append(comment, `Lattice="`+strings.Join(s, " ")+`"`)
	}
	props := defaultProperties
	for _, c := range cols {
		props += fmt.Sprintf(":%s:%c:%d", c.name, c.kind, c.width)
	}
	comment = append(comment, "Properties="+props)
	for _, k := range S.InfoKeys() {
		if v, ok := infoString(S.Info[k]); ok {
			comment = append(comment, k+"="+v)
		}
	}
	b := make([]string, 3)
	for i, v := range S.PBC {
		b[i] = "F"
		if v {
			b[i] = "T"
		}
	}
	comment = append(comment, `pbc="`+strings.Join(b, " ")+`"`)

	fmt.Fprintf(bw, "%d\n%s\n", n, strings.Join(comment, " "))
	for i := 0; i < n; i++ {
		line := make([]string, 0, 4+len(cols))
		line = append(line, fmt.Sprintf("%-2s", trajcol.Symbol(numbers[i])))
		for j := 0; j < 3; j++ {
			line = append(line, fmt.Sprintf("%16s", fmtFloat(pos.At(i, j))))
		}
		for _, c := range cols {
			line = append(line, c.text[i*c.width:(i+1)*c.width]...)
		}
		if _, err := fmt.Fprintln(bw, strings.Join(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

func infoString(a *nd.Array) (string, bool) {
	if a == nil {
		return "", false
	}
	if a.DType().Category() == nd.CategoryText {
		if !a.IsScalar() {
			return "", false
		}
		s, _ := a.Strings()
		return `"` + strings.ReplaceAll(s[0], `"`, `'`) + `"`, true
	}
	if a.DType().Category() == nd.CategoryInt && a.IsScalar() {
		d, _ := a.Int64s()
		return strconv.FormatInt(d[0], 10), true
	}
	f, ok := a.Float64s()
	if !ok || a.NDim() > 1 {
		return "", false
	}
	if a.IsScalar() {
		return fmtFloat(f[0]), true
	}
	s := make([]string, len(f))
	for i, v := range f {
		s[i] = fmtFloat(v)
	}
	return `"` + strings.Join(s, " ") + `"`, true
}
