/*
 * helpers_test.go, part of hielo.
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
	"testing"

	v3 "github.com/rmera/hielo/v3"
	"gonum.org/v1/gonum/spatial/r3"
)

// iceIc reads the conventional cubic cell of ice Ic: 8 oxygens and two candidate
// hydrogens on each of the 16 O-O hydrogen bonds.
func iceIc(Te *testing.T) *Crystal {
	Te.Helper()
	C, err := XYZFileRead("test/iceIc.xyz")
	if err != nil {
		Te.Fatal(err)
	}
	if C.Lattice == nil {
		Te.Fatal("no lattice read from test/iceIc.xyz")
	}
	return C
}

// ring returns 4 oxygens evenly spaced along x in a periodic cell, so each one
// is hydrogen bonded to its two neighbors, with two candidate hydrogens per
// bond. hlabel gives the label of the hydrogen closer to the oxygen at the left
// and of the one closer to the oxygen at the right.
func ring(Te *testing.T, hlabel [2]string) *Crystal {
	Te.Helper()
	const oo = 2.76
	L, err := NewLattice(r3.Vec{X: 4 * oo}, r3.Vec{Y: 10}, r3.Vec{Z: 10})
	if err != nil {
		Te.Fatal(err)
	}
	var atoms []*Atom
	var pos []r3.Vec
	for i := 0; i < 4; i++ {
		atoms = append(atoms, &Atom{Index: len(atoms), Label: "O"})
		pos = append(pos, r3.Vec{X: float64(i) * oo, Y: 5, Z: 5})
	}
	for i := 0; i < 4; i++ {
		x := float64(i) * oo
		atoms = append(atoms, &Atom{Index: len(atoms), Label: hlabel[0]})
		pos = append(pos, r3.Vec{X: x + 1.0, Y: 5, Z: 5})
		atoms = append(atoms, &Atom{Index: len(atoms), Label: hlabel[1]})
		pos = append(pos, r3.Vec{X: x + oo - 1.0, Y: 5, Z: 5})
	}
	C, err := NewCrystal(atoms, v3.FromVecs(pos), L)
	if err != nil {
		Te.Fatal(err)
	}
	return C
}

// pairGroups returns n groups of two oxygens, X and Y, joined by four hydrogen bonds,
// two with X as OA and two with Y as OA. Every HA has label "ha" with occupancy occ,
// and every HB has label "hb". Only ids matter, so there are no coordinates.
func pairGroups(Te *testing.T, n int, occ float64) (bonds []*HBond, oxygens []int, types []string) {
	Te.Helper()
	types = make([]string, 2*n+8*n)
	hid := 2 * n
	for g := 0; g < n; g++ {
		x, y := 2*g, 2*g+1
		types[x], types[y] = "o", "o"
		oxygens = append(oxygens, x, y)
		for k := 0; k < 4; k++ {
			oa, ob := x, y
			if k >= 2 {
				oa, ob = y, x
			}
			types[hid], types[hid+1] = "ha", "hb"
			b, err := NewHBond(oa, ob, hid, hid+1, occ, 1-occ)
			if err != nil {
				Te.Fatal(err)
			}
			bonds = append(bonds, b)
			hid += 2
		}
	}
	return bonds, oxygens, types
}

// iceState builds the state for the ice Ic cell with all occupancies 0.5.
func iceState(Te *testing.T) (*Crystal, *State) {
	Te.Helper()
	C := iceIc(Te)
	contacts, err := FindContacts(C, DefaultContactCutoff)
	if err != nil {
		Te.Fatal(err)
	}
	bonds, err := NewBuilder(nil).Build(C, contacts)
	if err != nil {
		Te.Fatal(err)
	}
	S, err := NewState(bonds, C.Oxygens(), C.SiteTypes(), 2)
	if err != nil {
		Te.Fatal(err)
	}
	return C, S
}

// freshViolation obtains the violation of S directly from its bonds.
func freshViolation(S *State) int {
	coord := make(map[int]int)
	for _, b := range S.Bonds() {
		coord[b.Active()]++
	}
	v := 0
	for _, o := range S.Oxygens() {
		v += abs(coord[o] - S.Target())
	}
	return v
}
