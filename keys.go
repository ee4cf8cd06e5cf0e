/*
 * keys.go, part of trajcol.
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
	"strings"
)

//KeySet is a set of property names.
type KeySet map[string]struct{}

func newKeySet(keys []string) KeySet {
	K := make(KeySet, len(keys))
	for _, k := range keys {
		K[k] = struct{}{}
	}
	return K
}

//Has returns true if key is in K.
func (K KeySet) Has(key string) bool {
	_, ok := K[key]
	return ok
}

//Sorted returns the keys of K in lexical order.
func (K KeySet) Sorted() []string {
	ret := make([]string, 0, len(K))
	for k := range K {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

//ValidateKeys turns the requested immutable and mutable property names into
//two disjoint sets. Numbers given as mutable is removed from the immutable
//set, positions given as immutable is removed from the mutable set. Any other
//name present in both is an error that lists all of them.
func ValidateKeys(immutable, mutable []string) (KeySet, KeySet, error) {
	im := newKeySet(immutable)
	mu := newKeySet(mutable)
	if mu.Has(Numbers) {
		delete(im, Numbers)
	}
	if im.Has(Positions) {
		delete(mu, Positions)
	}
	var common []string
	seen := make(KeySet)
	for _, k := range immutable {
		if im.Has(k) && mu.Has(k) && !seen.Has(k) {
			seen[k] = struct{}{}
			common = append(common, "'"+k+"'")
		}
	}
	if len(common) > 0 {
		return nil, nil, newError(ErrKeyConflict, "Conflicting keys found in both immutable and mutable: %s", strings.Join(common, ", "))
	}
	return im, mu, nil
}
