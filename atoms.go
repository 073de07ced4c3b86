/*
 * atoms.go, part of hielo.
 *
 * Copyright 2026 The hielo authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as published by
 * the Free Software Foundation; either version 2.1 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General Public License
 * along with this program; if not, write to the Free Software
 * Foundation, Inc., 51 Franklin Street, Fifth Floor, Boston,
 * MA 02110-1301, USA.
 */

package hielo

import (
	"fmt"
	"strings"

	v3 "github.com/rmera/hielo/v3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Atom is a site of the crystal. Label is the type label as read from the
// structure file: "O" for oxygens, or an H-initial site-type tag such as "Ha"
// or "hb" for the hydrogens of a symmetry-distinct position class.
type Atom struct {
	Index int
	Label string
}

// Element returns the element symbol, the first letter of the label, uppercase.
func (A *Atom) Element() string {
	if A.Label == "" {
		return ""
	}
	return strings.ToUpper(A.Label[:1])
}

// SiteType returns the label in lowercase, which is the key used in site tables.
func (A *Atom) SiteType() string {
	return strings.ToLower(A.Label)
}

// IsOxygen returns true if the atom is an oxygen.
func (A *Atom) IsOxygen() bool { return A.Element() == "O" }

// IsHydrogen returns true if the atom is a hydrogen.
func (A *Atom) IsHydrogen() bool { return A.Element() == "H" }

// Crystal is a set of sites in a periodic cell. Sites and lattice are not
// modified by any of the operations in this package.
type Crystal struct {
	Atoms   []*Atom
	Coords  *v3.Matrix
	Lattice *Lattice
	Comment string
}

// NewCrystal returns a Crystal with the given atoms, coordinates and lattice.
// It fails if the number of atoms and coordinates don't match.
func NewCrystal(atoms []*Atom, coords *v3.Matrix, lattice *Lattice) (*Crystal, error) {
	C := &Crystal{Atoms: atoms, Coords: coords, Lattice: lattice}
	if err := C.Corrupted(); err != nil {
		return nil, errDecorate(err, "NewCrystal")
	}
	return C, nil
}

// Corrupted checks whether the crystal is corrupted, i.e. the
// coordinates don't match the number of atoms.
func (C *Crystal) Corrupted() error {
	if C.Coords == nil || len(C.Atoms) == 0 {
		return newError(ErrStructural, "Corrupted", "crystal without atoms or coordinates")
	}
	if C.Coords.NVecs() != len(C.Atoms) {
		return newError(ErrStructural, "Corrupted", "inconsistent coordinates/atoms: atoms %d, coords %d", len(C.Atoms), C.Coords.NVecs())
	}
	return nil
}

// Len returns the number of sites in the crystal.
func (C *Crystal) Len() int {
	return len(C.Atoms)
}

// Atom returns the ith atom. It panics if out of range.
func (C *Crystal) Atom(i int) *Atom {
	if i < 0 || i >= len(C.Atoms) {
		panic(fmt.Sprintf("Crystal: requested Atom %d out of bounds", i))
	}
	return C.Atoms[i]
}

// Pos returns the position of the ith site.
func (C *Crystal) Pos(i int) r3.Vec {
	return C.Coords.Vec(i)
}

// Oxygens returns the indexes of all the oxygens, in order.
func (C *Crystal) Oxygens() []int {
	return C.indexes((*Atom).IsOxygen)
}

// Hydrogens returns the indexes of all the hydrogens, in order.
func (C *Crystal) Hydrogens() []int {
	return C.indexes((*Atom).IsHydrogen)
}

func (C *Crystal) indexes(f func(*Atom) bool) []int {
	ret := make([]int, 0, len(C.Atoms)/2)
	for i, v := range C.Atoms {
		if f(v) {
			ret = append(ret, i)
		}
	}
	return ret
}

// SiteTypes returns the site-type label (lowercase) of every site, indexed as the atoms.
func (C *Crystal) SiteTypes() []string {
	ret := make([]string, len(C.Atoms))
	for i, v := range C.Atoms {
		ret[i] = v.SiteType()
	}
	return ret
}

// SomeAtoms returns a new crystal with the sites listed in atomlist, in that order.
// The new atoms are copies, with their Index set to their new position.
func (C *Crystal) SomeAtoms(atomlist []int) (*Crystal, error) {
	if len(atomlist) == 0 {
		return nil, newError(ErrStructural, "SomeAtoms", "empty selection")
	}
	ats := make([]*Atom, 0, len(atomlist))
	for k, j := range atomlist {
		if j < 0 || j >= len(C.Atoms) {
			return nil, newError(ErrStructural, "SomeAtoms", "atom requested (Number: %d, value: %d) out of range", k, j)
		}
		ats = append(ats, &Atom{Index: k, Label: C.Atoms[j].Label})
	}
	coords := v3.Zeros(len(atomlist))
	if err := coords.SomeVecsSafe(C.Coords, atomlist); err != nil {
		return nil, errDecorate(err, "SomeAtoms")
	}
	return &Crystal{Atoms: ats, Coords: coords, Lattice: C.Lattice, Comment: C.Comment}, nil
}

// ElementsOnly returns a copy of the crystal where each label is reduced to its
// element symbol.
func (C *Crystal) ElementsOnly() *Crystal {
	ats := make([]*Atom, len(C.Atoms))
	for i, v := range C.Atoms {
		ats[i] = &Atom{Index: v.Index, Label: v.Element()}
	}
	return &Crystal{Atoms: ats, Coords: C.Coords, Lattice: C.Lattice, Comment: C.Comment}
}
