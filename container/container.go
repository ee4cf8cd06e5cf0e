/*
 * container.go, part of trajcol.
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

//Package container implements the hierarchical, columnar store that
//trajectories are written to. A Container is a two level tree: named
//sections, each holding named datasets (nd.Array values). The whole tree is
//kept in memory; Encode and Decode move it to and from a single
//self-describing binary stream whose dataset payloads are compressed with
//one of several third-party codecs.
package container

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/tcnicholas/trajcol/nd"
)

var (
	//ErrFormat means the stream is not a container, or is damaged.
	ErrFormat = errors.New("malformed container stream")
	//ErrVersion means the stream was written with an unknown format version.
	ErrVersion = errors.New("unsupported container version")
	//ErrChecksum means a dataset payload does not match its stored hash.
	ErrChecksum = errors.New("dataset checksum mismatch")
	//ErrUnsupportedDType is returned by Put for arrays that have no fixed-size
	//representation (Text, Mixed).
	ErrUnsupportedDType = errors.New("dtype can't be stored")
	//ErrDuplicate is returned by Put when the path already exists.
	ErrDuplicate = errors.New("dataset already exists")
	//ErrPath is returned by Put for empty or invalid section/key names.
	ErrPath = errors.New("invalid dataset path")
)

//Container is an in-memory section/key tree of arrays.
type Container struct {
	id          uuid.UUID
	compression Compression
	sections    map[string]map[string]*nd.Array
	order       []string //dataset paths in insertion order
	stored      map[string]int
}

//New returns an empty container that will compress its payloads with c.
func New(c Compression) *Container {
	return &Container{
		id:          uuid.New(),
		compression: c,
		sections:    make(map[string]map[string]*nd.Array),
		stored:      make(map[string]int),
	}
}

//ID returns the unique identifier given to the container when it was created.
func (C *Container) ID() uuid.UUID { return C.id }

//Compression returns the codec used for the payloads.
func (C *Container) Compression() Compression { return C.compression }

//Path joins a section and a key.
func Path(section, key string) string {
	return section + "/" + key
}

func splitPath(p string) (string, string, bool) {
	s, k, ok := strings.Cut(p, "/")
	return s, k, ok && s != "" && k != ""
}

//Put stores a under section/key. The array is not copied.
func (C *Container) Put(section, key string, a *nd.Array) error {
	if section == "" || key == "" || strings.Contains(section, "/") {
		return fmt.Errorf("%w: %q", ErrPath, Path(section, key))
	}
	if a == nil {
		return fmt.Errorf("%w: nil array for %s", ErrUnsupportedDType, Path(section, key))
	}
	switch a.DType() {
	case nd.Text, nd.Mixed, nd.Invalid:
		return fmt.Errorf("%w: %s has dtype %s", ErrUnsupportedDType, Path(section, key), a.DType())
	}
	sec, ok := C.sections[section]
	if !ok {
		sec = make(map[string]*nd.Array)
		C.sections[section] = sec
	}
	if _, ok := sec[key]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, Path(section, key))
	}
	sec[key] = a
	C.order = append(C.order, Path(section, key))
	return nil
}

//Get returns the dataset at section/key.
func (C *Container) Get(section, key string) (*nd.Array, bool) {
	a, ok := C.sections[section][key]
	return a, ok
}

//HasSection is true if at least one dataset was stored in section.
func (C *Container) HasSection(section string) bool {
	_, ok := C.sections[section]
	return ok
}

//Keys returns the sorted dataset names of a section.
func (C *Container) Keys(section string) []string {
	keys := make([]string, 0, len(C.sections[section]))
	for k := range C.sections[section] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

//Sections returns the sorted section names.
func (C *Container) Sections() []string {
	ret := make([]string, 0, len(C.sections))
	for k := range C.sections {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

//DatasetInfo describes one stored dataset.
type DatasetInfo struct {
	Path  string
	DType nd.DType
	Shape []int
	//RawBytes is the uncompressed payload size.
	RawBytes int
	//StoredBytes is the payload size after compression. It is 0 until the
	//container has been encoded or decoded.
	StoredBytes int
}

//Datasets lists the datasets in insertion order.
func (C *Container) Datasets() []DatasetInfo {
	ret := make([]DatasetInfo, 0, len(C.order))
	for _, p := range C.order {
		s, k, _ := splitPath(p)
		a := C.sections[s][k]
		ret = append(ret, DatasetInfo{
			Path:        p,
			DType:       a.DType(),
			Shape:       a.Shape(),
			RawBytes:    rawSize(a),
			StoredBytes: C.stored[p],
		})
	}
	return ret
}
