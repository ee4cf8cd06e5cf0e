/*
 * stf.go, part of trajcol.
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

//Package stf reads and writes the simple trajectory format (STF), a
//zstd-compressed text format.
//
//An STF file starts with a header of key=value lines, which must include
//the precision (prec), and ends with a line "** N", N being the number of
//atoms per frame. Each frame has then one line per atom with the x y z
//coordinates, in Angstrom, multiplied by 10^prec and rounded to an integer.
//A line starting with "*" closes the frame. It may carry the 9 components
//of the box (cell) vectors.
//
//STF stores only coordinates and cells. Atomic numbers have to come from
//elsewhere, usually the first frame of an XYZ file.
package stf

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/tcnicholas/trajcol"
	v3 "github.com/tcnicholas/trajcol/v3"
	"go.uber.org/zap"
)

//DefaultPrecision is used when the header doesn't set one.
const DefaultPrecision = 2

//Error is the error type for STF files.
type Error struct {
	message  string
	filename string //empty when reading from a stream
	deco     []string
	critical bool
}

func (err Error) Error() string {
	return fmt.Sprintf("stf file %s error: %s", err.filename, err.message)
}

//Decorate adds deco (if not empty) to the chain of calls the error went
//through and returns the chain.
func (E Error) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

//FileName returns the file associated to the error.
func (err Error) FileName() string { return err.filename }

//Critical returns true if the error is critical, false otherwise.
func (err Error) Critical() bool { return err.critical }

func newError(caller, format string, args ...any) Error {
	return Error{message: fmt.Sprintf(format, args...), deco: []string{caller}, critical: true}
}

//withFile sets the file name in err, if err is an Error.
func withFile(err error, filename string) error {
	if E, ok := err.(Error); ok {
		E.filename = filename
		return E
	}
	return fmt.Errorf("stf file %s: %w", filename, err)
}

//ReadFile reads the whole trajectory in the file stfname. See Read.
func ReadFile(stfname string, numbers []int64) ([]*trajcol.Snapshot, map[string]string, error) {
	f, err := os.Open(stfname)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	snaps, header, err := Read(f, numbers)
	if err != nil {
		return nil, nil, withFile(err, stfname)
	}
	return snaps, header, nil
}

//Read reads every frame in r. numbers gives the atomic numbers of the
//atoms, and must have one element per atom. If it is nil, the snapshots
//get zero atomic numbers. The header is returned as a map.
func Read(r io.Reader, numbers []int64) ([]*trajcol.Snapshot, map[string]string, error) {
	dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, nil, newError("Read", "can't start decompression: %v", err)
	}
	defer dec.Close()
	br := bufio.NewReader(dec)
	header, natoms, err := readHeader(br)
	if err != nil {
		return nil, nil, err
	}
	prec, err := precision(header)
	if err != nil {
		return nil, nil, err
	}
	if numbers == nil {
		numbers = make([]int64, natoms)
	}
	if len(numbers) != natoms {
		return nil, nil, newError("Read", "%d atomic numbers given for %d atoms", len(numbers), natoms)
	}
	scale := math.Pow(10, float64(prec))
	var ret []*trajcol.Snapshot
	for {
		S, err := readFrame(br, numbers, scale)
		if err == io.EOF {
			break
		}
		if err != nil {
			E, ok := err.(Error)
			if ok {
				E.message = fmt.Sprintf("frame %d: %s", len(ret)+1, E.message)
				E.deco = E.Decorate("Read")
				err = E
			}
			return nil, nil, err
		}
		ret = append(ret, S)
	}
	return ret, header, nil
}

func precision(header map[string]string) (int, error) {
	p, ok := header["prec"]
	if !ok {
		return DefaultPrecision, nil
	}
	prec, err := strconv.Atoi(p)
	if err != nil || prec < 0 || prec > 15 {
		return 0, newError("precision", "invalid precision %q", p)
	}
	return prec, nil
}

func readHeader(br *bufio.Reader) (map[string]string, int, error) {
	header := make(map[string]string)
	for {
		line, err := br.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return nil, 0, newError("readHeader", "can't read header: %v", err)
		}
		line = strings.TrimRight(line, "\r\n")
		if strings.HasPrefix(line, "**") {
			fields := strings.Fields(line)
			if len(fields) != 2 {
				return nil, 0, newError("readHeader", "can't read atom number from %q", line)
			}
			natoms, err := strconv.Atoi(fields[1])
			if err != nil || natoms < 0 {
				return nil, 0, newError("readHeader", "can't read atom number from %q", line)
			}
			return header, natoms, nil
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok || k == "" {
			return nil, 0, newError("readHeader", "malformed header line %q", line)
		}
		header[k] = v
	}
}

//readFrame returns io.EOF if the trajectory ended before the frame.
func readFrame(br *bufio.Reader, numbers []int64, scale float64) (*trajcol.Snapshot, error) {
	natoms := len(numbers)
	coords := make([]float64, 3*natoms)
	for i := 0; i < natoms; i++ {
		line, err := br.ReadString('\n')
		if err == io.EOF && line == "" && i == 0 {
			return nil, io.EOF
		}
		if err != nil && err != io.EOF {
			return nil, err
		}
		if line == "" {
			return nil, newError("readFrame", "found %d of %d atoms", i, natoms)
		}
		fields := strings.Fields(line)
		if len(fields) != 3 || strings.HasPrefix(fields[0], "*") {
			return nil, newError("readFrame", "ill formatted coordinates for atom %d: %q", i+1, strings.TrimSpace(line))
		}
		for j, f := range fields {
			v, err := strconv.Atoi(f)
			if err != nil {
				return nil, newError("readFrame", "can't parse coordinate %d of atom %d: %q", j+1, i+1, f)
			}
			coords[3*i+j] = float64(v) / scale
		}
	}
	end, err := br.ReadString('\n')
	if err != nil && (err != io.EOF || end == "") {
		if err == io.EOF && natoms == 0 {
			return nil, io.EOF
		}
		return nil, newError("readFrame", "can't read the frame termination mark: %v", err)
	}
	if !strings.HasPrefix(end, "*") || strings.HasPrefix(end, "**") {
		return nil, newError("readFrame", "wrong number of atoms in frame")
	}
	var S *trajcol.Snapshot
	if natoms == 0 {
		S = trajcol.NewSnapshot(numbers, nil)
	} else {
		pos, err := v3.NewMatrix(coords)
		if err != nil {
			return nil, err
		}
		S = trajcol.NewSnapshot(numbers, pos)
	}
	S.Cell = readBox(end)
	return S, nil
}

//readBox returns the cell in the frame termination line, or nil if there
//is none. A malformed box is only logged, as it doesn't affect the
//coordinates.
func readBox(end string) *v3.Matrix {
	fields := strings.Fields(end)[1:]
	if len(fields) == 0 {
		return nil
	}
	if len(fields) != 9 {
		zap.L().Warn("STF frame without a correct box", zap.String("line", strings.TrimSpace(end)))
		return nil
	}
	box := make([]float64, 9)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			zap.L().Warn("STF frame without a correct box", zap.String("line", strings.TrimSpace(end)))
			return nil
		}
		box[i] = v
	}
	cell, _ := v3.NewMatrix(box)
	if cell.IsZero() {
		return nil
	}
	return cell
}

//WriteFile writes snaps to the file stfname. See Write.
func WriteFile(stfname string, snaps []*trajcol.Snapshot, header map[string]string) (err error) {
	f, err := os.Create(stfname)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(stfname)
		}
	}()
	if err := Write(f, snaps, header); err != nil {
		return withFile(err, stfname)
	}
	return nil
}

//Write writes the positions and cells of snaps to w. The header is
//written as given, with prec set to DefaultPrecision if absent. All the
//snapshots must have the same number of atoms.
func Write(w io.Writer, snaps []*trajcol.Snapshot, header map[string]string) error {
	if len(snaps) == 0 {
		return newError("Write", "no frames to write")
	}
	h := map[string]string{"prec": strconv.Itoa(DefaultPrecision)}
	for k, v := range header {
		if k == "" || strings.ContainsAny(k, "=\n") || strings.Contains(v, "\n") || strings.HasPrefix(k, "**") {
			return newError("Write", "header entry %q can't be written", k)
		}
		h[k] = v
	}
	prec, err := precision(h)
	if err != nil {
		return err
	}
	scale := math.Pow(10, float64(prec))
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return newError("Write", "can't start compression: %v", err)
	}
	bw := bufio.NewWriter(enc)
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(bw, "%s=%s\n", k, h[k])
	}
	natoms := snaps[0].Len()
	fmt.Fprintf(bw, "** %d\n", natoms)
	for i, S := range snaps {
		if err := writeFrame(bw, S, natoms, scale); err != nil {
			enc.Close()
			return newError("Write", "frame %d: %v", i+1, err)
		}
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

func writeFrame(bw *bufio.Writer, S *trajcol.Snapshot, natoms int, scale float64) error {
	if S.Len() != natoms {
		return fmt.Errorf("%d atoms, expected %d", S.Len(), natoms)
	}
	if natoms > 0 {
		pos := S.Positions()
		if pos == nil {
			return fmt.Errorf("no Nx3 positions")
		}
		for _, v := range pos.Flat() {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("coordinate %v can't be written", v)
			}
		}
		for i := 0; i < natoms; i++ {
			fmt.Fprintf(bw, "%d %d %d\n",
				int64(math.RoundToEven(pos.At(i, 0)*scale)),
				int64(math.RoundToEven(pos.At(i, 1)*scale)),
				int64(math.RoundToEven(pos.At(i, 2)*scale)))
		}
	}
	if S.Cell == nil || S.Cell.IsZero() {
		_, err := bw.WriteString("*\n")
		return err
	}
	if S.Cell.NVecs() != 3 {
		return fmt.Errorf("cell is not 3x3")
	}
	box := make([]string, 0, 9)
	for _, v := range S.Cell.Flat() {
		box = append(box, strconv.FormatFloat(v, 'g', -1, 64))
	}
	_, err := fmt.Fprintf(bw, "* %s\n", strings.Join(box, " "))
	return err
}
