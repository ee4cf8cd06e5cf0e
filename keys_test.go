/*
 * keys_test.go, part of trajcol.
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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateKeysDefaults(Te *testing.T) {
	im, mu, err := ValidateKeys([]string{"numbers", "tags"}, []string{"positions", "forces"})
	require.NoError(Te, err)
	assert.Equal(Te, []string{"numbers", "tags"}, im.Sorted())
	assert.Equal(Te, []string{"forces", "positions"}, mu.Sorted())

	im, mu, err = ValidateKeys(nil, nil)
	require.NoError(Te, err)
	assert.Empty(Te, im)
	assert.Empty(Te, mu)
}

func TestValidateKeysNumbersMutable(Te *testing.T) {
	im, mu, err := ValidateKeys([]string{"numbers"}, []string{"numbers", "positions"})
	require.NoError(Te, err)
	assert.False(Te, im.Has("numbers"))
	assert.True(Te, mu.Has("numbers"))
}

func TestValidateKeysPositionsImmutable(Te *testing.T) {
	im, mu, err := ValidateKeys([]string{"positions", "numbers"}, []string{"positions"})
	require.NoError(Te, err)
	assert.True(Te, im.Has("positions"))
	assert.False(Te, mu.Has("positions"))
	assert.Empty(Te, mu)
}

func TestValidateKeysDuplicates(Te *testing.T) {
	im, mu, err := ValidateKeys([]string{"a", "a", "b"}, []string{"c", "c"})
	require.NoError(Te, err)
	assert.Len(Te, im, 2)
	assert.Len(Te, mu, 1)
}

func TestValidateKeysConflict(Te *testing.T) {
	_, _, err := ValidateKeys([]string{"charges", "numbers", "masses", "charges"}, []string{"masses", "charges", "positions"})
	require.Error(Te, err)
	assert.True(Te, errors.Is(err, ErrKeyConflict))
	assert.Equal(Te, "Conflicting keys found in both immutable and mutable: 'charges', 'masses'", err.Error())

	var E Error
	require.True(Te, errors.As(err, &E))
	assert.True(Te, E.Critical())
	assert.Empty(Te, E.FileName())
}

func TestValidateKeysIdempotent(Te *testing.T) {
	im, mu, err := ValidateKeys([]string{"numbers", "positions", "tags"}, []string{"positions", "numbers", "forces"})
	require.NoError(Te, err)
	im2, mu2, err := ValidateKeys(im.Sorted(), mu.Sorted())
	require.NoError(Te, err)
	assert.Equal(Te, im, im2)
	assert.Equal(Te, mu, mu2)
}
