/*
 * errors.go, part of trajcol.
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
	"fmt"
)

//Sentinels for the failures of Write and Read. The errors returned are
//Error values that unwrap to one of these, so use errors.Is.
var (
	ErrKeyConflict        = errors.New("key declared both immutable and mutable")
	ErrMissingImmutable   = errors.New("immutable property missing")
	ErrMissingMutable     = errors.New("mutable property missing")
	ErrEmptyTrajectory    = errors.New("index out of range: empty trajectory")
	ErrMalformedContainer = errors.New("malformed trajectory container")
	ErrInfoValue          = errors.New("info value is not a numeric scalar")
	ErrStack              = errors.New("frames can't be stacked")
)

//Error is the error type returned by the trajectory writer and reader.
type Error struct {
	message  string
	filename string //the file that has problems, or empty string if none.
	deco     []string
	critical bool
	kind     error
}

func newError(kind error, format string, a ...any) Error {
	return Error{message: fmt.Sprintf(format, a...), kind: kind, critical: true}
}

func (err Error) Error() string {
	if err.filename == "" {
		return err.message
	}
	return fmt.Sprintf("%s: %s", err.filename, err.message)
}

//Decorate adds deco (if not empty) to the chain of calls the error went
//through and returns the chain.
func (E Error) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

//FileName returns the name of the file involved, if any.
func (err Error) FileName() string { return err.filename }

//Critical reports whether the operation was aborted. So far this is
//true for every error of the package.
func (err Error) Critical() bool { return err.critical }

func (err Error) Unwrap() error { return err.kind }

//withFile returns a copy of err that refers to filename.
func (err Error) withFile(filename string) Error {
	err.filename = filename
	return err
}

//fileError sets the filename of err if it is an Error, otherwise wraps it.
func fileError(err error, filename, deco string) error {
	var E Error
	if errors.As(err, &E) {
		E = E.withFile(filename)
		E.deco = E.Decorate(deco)
		return E
	}
	return fmt.Errorf("%s: %s: %w", deco, filename, err)
}
