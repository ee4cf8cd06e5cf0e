/*
 * sizefmt_test.go, part of trajcol.
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

package sizefmt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHumanReadable(Te *testing.T) {
	cases := []struct {
		bytes int64
		unit  string
		want  string
	}{
		{0, "", "0.00 B"},
		{1023, "", "1023.00 B"},
		{1024, "", "1.00 KB"},
		{1536, "", "1.50 KB"},
		{5 * 1024 * 1024, "", "5.00 MB"},
		{3 * 1024 * 1024 * 1024, "", "3.00 GB"},
		{1099511627776, "", "1.00 TB"},
		{2048 * 1099511627776, "", "2048.00 TB"},
		{1536, "B", "1536.00 B"},
		{1048576, "KB", "1024.00 KB"},
		{1048576, "GB", "0.00 GB"},
		{1024, "PB", "1.00 KB"},
	}
	for _, c := range cases {
		assert.Equal(Te, c.want, HumanReadable(c.bytes, c.unit), "%d %s", c.bytes, c.unit)
	}
	v, u := Float(3*1024*1024, "")
	assert.Equal(Te, 3.0, v)
	assert.Equal(Te, "MB", u)
}

func TestFileSize(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "f")
	require.NoError(Te, os.WriteFile(name, make([]byte, 2560), 0o644))
	s, err := FileSize(name, "")
	require.NoError(Te, err)
	assert.Equal(Te, "2.50 KB", s)
	_, err = FileSize(name+".missing", "")
	assert.Error(Te, err)
}
