/*
 * sizefmt.go, part of trajcol.
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

//Package sizefmt formats byte counts for humans, in binary (1024) units.
package sizefmt

import (
	"fmt"
	"os"
)

var units = []string{"B", "KB", "MB", "GB", "TB"}

//Float returns bytes expressed in unit, and the unit used. If unit is not
//one of B, KB, MB, GB or TB, the largest unit that keeps the value under
//1024 is chosen (TB for anything larger).
func Float(bytes int64, unit string) (float64, string) {
	size := float64(bytes)
	for i, u := range units {
		if u == unit {
			for j := 0; j < i; j++ {
				size /= 1024
			}
			return size, u
		}
	}
	for i, u := range units {
		if size < 1024 || i == len(units)-1 {
			return size, u
		}
		size /= 1024
	}
	return size, units[len(units)-1] //not reached
}

//HumanReadable returns bytes as a string with two decimals and the unit,
//like "1.50 KB". See Float for how unit is used.
func HumanReadable(bytes int64, unit string) string {
	v, u := Float(bytes, unit)
	return fmt.Sprintf("%.2f %s", v, u)
}

//FileSize returns the size of the file filename in a human readable format.
func FileSize(filename, unit string) (string, error) {
	st, err := os.Stat(filename)
	if err != nil {
		return "", err
	}
	return HumanReadable(st.Size(), unit), nil
}
