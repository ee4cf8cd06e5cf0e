/*
 * trajectory.go, part of trajcol.
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
	"fmt"
	"strings"

	"github.com/tcnicholas/trajcol/container"
	"github.com/tcnicholas/trajcol/nd"
	"go.uber.org/zap"
)

//Trajectory writes lists of snapshots to containers and reads them back.
//Immutable properties are stored once, from the first frame; mutable ones
//are stored for every frame. The cell goes to either group depending on
//whether it changes along the trajectory.
type Trajectory struct {
	immutable   KeySet
	mutable     KeySet
	info        []string
	precision   nd.DType
	compression container.Compression
	log         *zap.Logger
}

//Option configures a Trajectory.
type Option func(*Trajectory)

//WithFloatPrecision sets the dtype floating point properties are stored
//with, nd.Float32 (the default) or nd.Float64.
func WithFloatPrecision(d nd.DType) Option {
	return func(T *Trajectory) { T.precision = d }
}

//WithCompression sets the codec for the container payloads. The default is
//container.Zstd.
func WithCompression(c container.Compression) Option {
	return func(T *Trajectory) { T.compression = c }
}

//WithLogger sets the logger warnings go to. The default is zap.L().
func WithLogger(l *zap.Logger) Option {
	return func(T *Trajectory) { T.log = l }
}

//New returns a Trajectory for the given property names. Numbers is always
//added to the immutable names and positions to the mutable ones, then both
//go through ValidateKeys. infoKeys are per-frame scalars, read from the info
//of each snapshot.
func New(immutable, mutable, infoKeys []string, opts ...Option) (*Trajectory, error) {
	im := append(append([]string{}, immutable...), Numbers)
	mu := append(append([]string{}, mutable...), Positions)
	imset, muset, err := ValidateKeys(im, mu)
	if err != nil {
		return nil, err
	}
	T := &Trajectory{
		immutable:   imset,
		mutable:     muset,
		precision:   nd.Float32,
		compression: container.Zstd,
	}
	seen := make(KeySet)
	for _, k := range infoKeys {
		if !seen.Has(k) {
			seen[k] = struct{}{}
			T.info = append(T.info, k)
		}
	}
	for _, o := range opts {
		o(T)
	}
	if T.precision.Category() != nd.CategoryFloat {
		return nil, fmt.Errorf("float precision must be float32 or float64, not %s", T.precision)
	}
	if !T.compression.Valid() {
		return nil, fmt.Errorf("unknown compression %d", T.compression)
	}
	if T.log == nil {
		T.log = zap.L()
	}
	return T, nil
}

//Immutable returns the names of the immutable properties.
func (T *Trajectory) Immutable() []string { return T.immutable.Sorted() }

//Mutable returns the names of the mutable properties.
func (T *Trajectory) Mutable() []string { return T.mutable.Sorted() }

//InfoKeys returns the names of the per-frame info properties, in the order
//they were given.
func (T *Trajectory) InfoKeys() []string { return append([]string(nil), T.info...) }

//Ensemble is NPT if the cell was declared mutable, NVT otherwise.
func (T *Trajectory) Ensemble() string {
	if T.mutable.Has(CellKey) {
		return "NPT"
	}
	return "NVT"
}

func (T *Trajectory) String() string {
	const indent = "    "
	block := func(name string, keys []string) string {
		lines := make([]string, 0, len(keys))
		for _, k := range keys {
			lines = append(lines, indent+indent+k)
		}
		if len(lines) == 0 {
			lines = append(lines, indent+indent+"<none>")
		}
		return fmt.Sprintf("%s%s=(\n%s\n%s)", indent, name, strings.Join(lines, ",\n"), indent)
	}
	blocks := []string{
		block("immutable_keys", T.Immutable()),
		block("mutable_keys", T.Mutable()),
	}
	if len(T.info) > 0 {
		blocks = append(blocks, block("info_keys", T.info))
	}
	return fmt.Sprintf("Trajectory(\n%sensemble=%s,\n%s\n)", indent, T.Ensemble(), strings.Join(blocks, ",\n"))
}
