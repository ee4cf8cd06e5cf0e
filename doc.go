/*
 * doc.go, part of trajcol.
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

/*Package trajcol stores trajectories of atomistic snapshots in a compact
columnar container, and reads them back.



	**trajcol Capabilities**


    Writes a list of snapshots to a single container, storing the properties
	that don't change along the trajectory (atomic numbers, fixed labels) once
	and the ones that do (positions, forces, velocities) as per-frame stacks.

    Detects from the data whether the cell changes between frames, and stores
	it once or per frame accordingly.

    Stores per-frame scalars (energies, steps) with NaN for frames that lack them.

    Checks the consistency of the trajectory, failing for missing properties
	and warning (through a zap logger) for immutable properties that change.

    Reads and writes extended XYZ files (package xyz), plots per-frame info
	(package chemplot), and moves containers to and from S3 (package store).


Floating point properties are stored in single precision unless the Trajectory
is built WithFloatPrecision(nd.Float64). Text properties are stored as
fixed-width byte strings, and decoded to text on reading.

Coordinates and cells are v3.Matrix values, gonum Dense matrices where each
row is a point (or a box vector) in space.*/
package trajcol
