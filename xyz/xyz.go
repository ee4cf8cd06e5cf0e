/*
 * xyz.go, part of trajcol.
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

//Package xyz reads and writes trajectories in the extended XYZ format, as
//written by ASE and most MD codes. The comment line of each frame holds
//key=value pairs. Lattice sets the cell, pbc the periodic boundary
//conditions and Properties the columns of the atom lines, any other pair
//becomes a per-frame info value.
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
	v3 "github.com/tcnicholas/trajcol/v3"
)

const defaultProperties = "species:S:1:pos:R:3"

//Error is returned for ill-formed files.
type Error struct {
	message string
	line    int
	deco    []string
}

func (err Error) Error() string {
	return fmt.Sprintf("Ill formatted XYZ file, line %d: %s", err.line, err.message)
}

//Decorate adds deco (if not empty) to the chain of calls the error went
//through and returns the chain.
func (E Error) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

//Line returns the line (starting from 1) where the problem was found.
func (err Error) Line() int { return err.line }

type column struct {
	name  string
	kind  byte // S, R, I or L
	width int
}

//ReadFile reads all the frames in the file xyzname.
func ReadFile(xyzname string) ([]*trajcol.Snapshot, error) {
	f, err := os.Open(xyzname)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

//Read reads frames from r until EOF.
func Read(r io.Reader) ([]*trajcol.Snapshot, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineno := 0
	next := func() (string, bool) {
		if !sc.Scan() {
			return "", false
		}
		lineno++
		return sc.Text(), true
	}
	var ret []*trajcol.Snapshot
	for {
		line, ok := next()
		if !ok {
			break
		}
		if strings.TrimSpace(line) == "" {
			continue //trailing empty lines
		}
		natoms, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil || natoms < 0 {
			return nil, Error{message: fmt.Sprintf("expected the number of atoms, got %q", line), line: lineno}
		}
		comment, ok := next()
		if !ok {
			return nil, Error{message: "missing comment line", line: lineno}
		}
		S, cols, err := parseComment(comment, lineno)
		if err != nil {
			return nil, err
		}
		atoms := make([][]string, natoms)
		for i := range atoms {
			l, ok := next()
			if !ok {
				return nil, Error{message: fmt.Sprintf("expected %d atoms, found %d", natoms, i), line: lineno}
			}
			atoms[i] = strings.Fields(l)
		}
		if err := setColumns(S, cols, atoms, lineno-natoms+1); err != nil {
			return nil, err
		}
		ret = append(ret, S)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return ret, nil
}

//splitPairs splits the comment line in key=value pairs. Values may be
//quoted with double quotes. A key with no value is a true flag.
func splitPairs(line string) ([][2]string, error) {
	var ret [][2]string
	i := 0
	for {
		for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
			i++
		}
		if i >= len(line) {
			return ret, nil
		}
		start := i
		for i < len(line) && line[i] != '=' && line[i] != ' ' && line[i] != '\t' {
			i++
		}
		key := line[start:i]
		if i >= len(line) || line[i] != '=' {
			ret = append(ret, [2]string{key, "T"})
			continue
		}
		i++ //'='
		if i < len(line) && line[i] == '"' {
			end := strings.IndexByte(line[i+1:], '"')
			if end < 0 {
				return nil, fmt.Errorf("unterminated quote for key %s", key)
			}
			ret = append(ret, [2]string{key, line[i+1 : i+1+end]})
			i += end + 2
			continue
		}
		start = i
		for i < len(line) && line[i] != ' ' && line[i] != '\t' {
			i++
		}
		ret = append(ret, [2]string{key, line[start:i]})
	}
}

func parseComment(line string, lineno int) (*trajcol.Snapshot, []column, error) {
	S := &trajcol.Snapshot{}
	S.Arrays = make(map[string]*nd.Array)
	S.Info = make(map[string]*nd.Array)
	props := defaultProperties
	pairs, err := splitPairs(line)
	if err != nil {
		return nil, nil, Error{message: err.Error(), line: lineno}
	}
	//plain XYZ files have free text in the comment line.
	if len(pairs) > 0 && !strings.Contains(line, "=") {
		pairs = nil
	}
	for _, p := range pairs {
		key, val := p[0], p[1]
		switch strings.ToLower(key) {
		case "lattice":
			f, err := parseFloats(strings.Fields(val))
			if err != nil || len(f) != 9 {
				return nil, nil, Error{message: fmt.Sprintf("bad Lattice %q", val), line: lineno}
			}
			S.Cell, _ = v3.NewMatrix(f)
		case "pbc":
			fields := strings.Fields(val)
			if len(fields) != 3 {
				return nil, nil, Error{message: fmt.Sprintf("bad pbc %q", val), line: lineno}
			}
			for i, v := range fields {
				b, ok := parseBool(v)
				if !ok {
					return nil, nil, Error{message: fmt.Sprintf("bad pbc %q", val), line: lineno}
				}
				S.PBC[i] = b
			}
		case "properties":
			props = val
		default:
			S.Info[key] = infoValue(val)
		}
	}
	cols, err := parseProperties(props)
	if err != nil {
		return nil, nil, Error{message: err.Error(), line: lineno}
	}
	return S, cols, nil
}

func parseProperties(props string) ([]column, error) {
	f := strings.Split(props, ":")
	if len(f)%3 != 0 {
		return nil, fmt.Errorf("bad Properties %q", props)
	}
	var ret []column
	for i := 0; i < len(f); i += 3 {
		w, err := strconv.Atoi(f[i+2])
		if err != nil || w < 1 || len(f[i+1]) != 1 || !strings.Contains("SRIL", f[i+1]) {
			return nil, fmt.Errorf("bad Properties %q", props)
		}
		ret = append(ret, column{name: f[i], kind: f[i+1][0], width: w})
	}
	return ret, nil
}

func parseBool(s string) (bool, bool) {
	switch s {
	case "T", "True", "true", "1":
		return true, true
	case "F", "False", "false", "0":
		return false, true
	}
	return false, false
}

func parseFloats(fields []string) ([]float64, error) {
	ret := make([]float64, len(fields))
	for i, v := range fields {
		var err error
		ret[i], err = strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, err
		}
	}
	return ret, nil
}

//infoValue turns a comment value into an array: integers and floats become
//0-d arrays, lists of numbers 1-D float arrays, and anything else text.
func infoValue(val string) *nd.Array {
	fields := strings.Fields(val)
	if len(fields) == 1 {
		if i, err := strconv.ParseInt(fields[0], 10, 64); err == nil {
			return nd.Int64Scalar(i)
		}
		if f, err := strconv.ParseFloat(fields[0], 64); err == nil {
			return nd.Float64Scalar(f)
		}
	} else if len(fields) > 1 {
		if f, err := parseFloats(fields); err == nil {
			return nd.FromFloat64(f)
		}
	}
	return nd.TextScalar(val)
}

//setColumns fills the per-atom arrays of S. first is the line number of
//the first atom.
func setColumns(S *trajcol.Snapshot, cols []column, atoms [][]string, first int) error {
	n := len(atoms)
	need := 0
	for _, c := range cols {
		need += c.width
	}
	for i, a := range atoms {
		if len(a) < need {
			return Error{message: fmt.Sprintf("%d columns, expected %d", len(a), need), line: first + i}
		}
	}
	offset := 0
	hasSpecies, hasPos := false, false
	for _, c := range cols {
		shape := []int{n, c.width}
		if c.width == 1 {
			shape = shape[:1]
		}
		var arr *nd.Array
		switch c.kind {
		case 'S':
			d := make([]string, 0, n*c.width)
			for _, a := range atoms {
				d = append(d, a[offset:offset+c.width]...)
			}
			arr = nd.FromStrings(d, shape...)
		case 'R':
			d := make([]float64, 0, n*c.width)
			for i, a := range atoms {
				f, err := parseFloats(a[offset : offset+c.width])
				if err != nil {
					return Error{message: fmt.Sprintf("column %s: %v", c.name, err), line: first + i}
				}
				d = append(d, f...)
			}
			arr = nd.FromFloat64(d, shape...)
		case 'I', 'L':
			d := make([]int64, 0, n*c.width)
			for i, a := range atoms {
				for _, v := range a[offset : offset+c.width] {
					var x int64
					var err error
					if c.kind == 'L' {
						b, ok := parseBool(v)
						if !ok {
							err = fmt.Errorf("bad logical %q", v)
						}
						if b {
							x = 1
						}
					} else {
						x, err = strconv.ParseInt(v, 10, 64)
					}
					if err != nil {
						return Error{message: fmt.Sprintf("column %s: %v", c.name, err), line: first + i}
					}
					d = append(d, x)
				}
			}
			arr = nd.FromInt64(d, shape...)
		}
		offset += c.width
		switch {
		case c.name == "species" && c.kind == 'S' && c.width == 1:
			hasSpecies = true
			sym, _ := arr.Strings()
			numbers := make([]int64, n)
			for i, s := range sym {
				z, ok := trajcol.AtomicNumber(s)
				if !ok {
					return Error{message: fmt.Sprintf("unknown element %q", s), line: first + i}
				}
				numbers[i] = z
			}
			S.Arrays[trajcol.Numbers] = nd.FromInt64(numbers)
		case c.name == "pos" && c.kind == 'R' && c.width == 3:
			hasPos = true
			S.Arrays[trajcol.Positions] = arr
		case c.name == "Z" && c.kind == 'I' && c.width == 1:
			S.Arrays[trajcol.Numbers] = arr
		default:
			S.Arrays[c.name] = arr
		}
	}
	if !hasPos {
		return Error{message: "no pos:R:3 column", line: first - 1}
	}
	if !hasSpecies {
		if _, ok := S.Arrays[trajcol.Numbers]; !ok {
			return Error{message: "no species:S:1 column", line: first - 1}
		}
	}
	return nil
}
