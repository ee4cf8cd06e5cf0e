/*
 * atomicdata.go, part of trajcol.
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

//Chemical symbols indexed by atomic number. "X" is a dummy atom, as in
//ASE.
var chemicalSymbols = [...]string{"X",
	"H", "He",
	"Li", "Be", "B", "C", "N", "O", "F", "Ne",
	"Na", "Mg", "Al", "Si", "P", "S", "Cl", "Ar",
	"K", "Ca", "Sc", "Ti", "V", "Cr", "Mn", "Fe", "Co", "Ni", "Cu", "Zn",
	"Ga", "Ge", "As", "Se", "Br", "Kr",
	"Rb", "Sr", "Y", "Zr", "Nb", "Mo", "Tc", "Ru", "Rh", "Pd", "Ag", "Cd",
	"In", "Sn", "Sb", "Te", "I", "Xe",
	"Cs", "Ba", "La", "Ce", "Pr", "Nd", "Pm", "Sm", "Eu", "Gd", "Tb", "Dy",
	"Ho", "Er", "Tm", "Yb", "Lu", "Hf", "Ta", "W", "Re", "Os", "Ir", "Pt",
	"Au", "Hg", "Tl", "Pb", "Bi", "Po", "At", "Rn",
	"Fr", "Ra", "Ac", "Th", "Pa", "U", "Np", "Pu", "Am", "Cm", "Bk", "Cf",
	"Es", "Fm", "Md", "No", "Lr", "Rf", "Db", "Sg", "Bh", "Hs", "Mt", "Ds",
	"Rg", "Cn", "Nh", "Fl", "Mc", "Lv", "Ts", "Og",
}

var atomicNumbers = func() map[string]int64 {
	ret := make(map[string]int64, len(chemicalSymbols))
	for i, s := range chemicalSymbols {
		ret[s] = int64(i)
	}
	return ret
}()

//A map for assigning mass to elements.
//Note that just common elements are present
var symbolMass = map[string]float64{
	"H":  1.008,
	"C":  12.01,
	"O":  16.00,
	"N":  14.01,
	"P":  30.97,
	"S":  32.06,
	"Se": 78.96,
	"K":  39.1,
	"Ca": 40.08,
	"Mg": 24.30,
	"Cl": 35.45,
	"Na": 22.99,
	"Cu": 63.55,
	"Zn": 65.38,
	"Co": 58.93,
	"Fe": 55.84,
	"Mn": 54.94,
	"Cr": 51.996,
	"Si": 28.08,
	"Be": 9.012,
	"F":  18.998,
	"Br": 79.904,
	"I":  126.90,
	"Li": 6.94,
	"B":  10.81,
	"Al": 26.98,
	"Ti": 47.87,
	"Zr": 91.22,
	"Ar": 39.95,
	"He": 4.003,
}

//AtomicNumber returns the atomic number of the element with the given
//symbol.
func AtomicNumber(symbol string) (int64, bool) {
	z, ok := atomicNumbers[symbol]
	return z, ok
}

//Symbol returns the chemical symbol for the atomic number z, "X" if z is
//not a known element.
func Symbol(z int64) string {
	if z < 0 || z >= int64(len(chemicalSymbols)) {
		return "X"
	}
	return chemicalSymbols[z]
}

//Masses returns the mass of each atom of S, in amu, and false if some
//element has no mass in the table (its mass is then 0).
func (S *Snapshot) Masses() ([]float64, bool) {
	numbers := S.Numbers()
	ret := make([]float64, len(numbers))
	all := true
	for i, z := range numbers {
		m, ok := symbolMass[Symbol(z)]
		ret[i] = m
		all = all && ok
	}
	return ret, all
}
