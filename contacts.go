/*
 * contacts.go, part of hielo.
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
	"sort"
)

// DefaultContactCutoff is the hydrogen-oxygen distance (A) under which a contact is counted.
const DefaultContactCutoff = 2.5

// ContactMap maps the index of each hydrogen to the indexes of the oxygens
// within the contact cutoff, in increasing order.
type ContactMap map[int][]int

// Hydrogens returns the hydrogen indexes of the map in increasing order.
func (M ContactMap) Hydrogens() []int {
	ret := make([]int, 0, len(M))
	for k := range M {
		ret = append(ret, k)
	}
	sort.Ints(ret)
	return ret
}

// Count returns the total number of hydrogen-oxygen contacts.
func (M ContactMap) Count() int {
	n := 0
	for _, v := range M {
		n += len(v)
	}
	return n
}

// Validate checks that every hydrogen of the crystal is in the map, with
// exactly two distinct oxygens. A map that fails is unusable for building
// hydrogen bonds.
func (M ContactMap) Validate(C *Crystal) error {
	var bad []int
	for _, h := range C.Hydrogens() {
		ox, ok := M[h]
		if !ok || len(ox) != 2 || ox[0] == ox[1] {
			bad = append(bad, h)
			continue
		}
		for _, o := range ox {
			if o < 0 || o >= C.Len() || !C.Atom(o).IsOxygen() {
				bad = append(bad, h)
				break
			}
		}
	}
	if len(M) != len(C.Hydrogens()) && len(bad) == 0 {
		return newError(ErrStructural, "ContactMap.Validate", "contact map has %d hydrogens, the crystal %d", len(M), len(C.Hydrogens()))
	}
	if len(bad) > 0 {
		return newError(ErrStructural, "ContactMap.Validate", "hydrogens without exactly 2 oxygen neighbors: %s", listIDs(bad, 20))
	}
	return nil
}

// FindContacts returns, for every hydrogen of the crystal, the oxygens within
// cutoff of it, using the periodic distance of the crystal's lattice. Every
// hydrogen is expected to have exactly two oxygen neighbors; any other count
// is returned as an ErrStructural error listing the offending hydrogens.
func FindContacts(C *Crystal, cutoff float64) (ContactMap, error) {
	if C.Lattice == nil {
		return nil, newError(ErrStructural, "FindContacts", "crystal has no lattice")
	}
	if err := C.Lattice.CheckCutoff(cutoff); err != nil {
		return nil, errDecorate(err, "FindContacts")
	}
	oxygens := C.Oxygens()
	hydrogens := C.Hydrogens()
	ret := make(ContactMap, len(hydrogens))
	var bad []string
	for _, h := range hydrogens {
		ph := C.Pos(h)
		near := make([]int, 0, 2)
		for _, o := range oxygens {
			if C.Lattice.Distance(ph, C.Pos(o), cutoff) < cutoff {
				near = append(near, o)
			}
		}
		if len(near) != 2 {
			bad = append(bad, fmt.Sprintf("%d (%d neighbors)", h, len(near)))
		}
		ret[h] = near
	}
	if len(bad) > 0 {
		if len(bad) > 20 {
			bad = append(bad[:20], fmt.Sprintf("... (%d more)", len(bad)-20))
		}
		return nil, newError(ErrStructural, "FindContacts", "hydrogens without exactly 2 oxygen neighbors within %.2f: %v", cutoff, bad)
	}
	return ret, nil
}
