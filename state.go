/*
 * state.go, part of hielo.
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
	"math/rand"
	"sort"
)

// State is the mutable assignment of every hydrogen bond plus the aggregates
// derived from it: the coordination of each oxygen and, for each hydrogen
// site type, how many of its hydrogens are currently present (OccN) out of
// how many exist in the bonds (OccD). The aggregates are updated incrementally
// on every flip. A State is meant to be used from one goroutine.
type State struct {
	bonds   []*HBond
	types   []string //site type of every atom, by atom index
	oxygens []int
	coord   []int //by atom index
	occN    map[string]int
	occD    map[string]int
	target  int
	viol    int
}

// NewState returns a State for the bonds, where oxygens are the ids of all the
// oxygens, sitetypes contains the site-type label of every atom (by atom id) and
// target is the coordination every oxygen should reach (2 for the ice rule).
// The bonds are taken in their current assignment and will be mutated by the
// State.
func NewState(bonds []*HBond, oxygens []int, sitetypes []string, target int) (*State, error) {
	if len(bonds) == 0 {
		return nil, newError(ErrStructural, "NewState", "no hydrogen bonds")
	}
	if target < 1 {
		return nil, newError(ErrStructural, "NewState", "target coordination must be at least 1, got %d", target)
	}
	n := len(sitetypes)
	for _, o := range oxygens {
		if o < 0 || o >= n {
			return nil, newError(ErrStructural, "NewState", "oxygen %d out of range (%d atoms)", o, n)
		}
	}
	S := &State{
		bonds:   bonds,
		types:   sitetypes,
		oxygens: oxygens,
		coord:   make([]int, n),
		occN:    make(map[string]int),
		occD:    make(map[string]int),
		target:  target,
	}
	for i, b := range bonds {
		for _, id := range [4]int{b.OA, b.OB, b.HA, b.HB} {
			if id < 0 || id >= n {
				return nil, newError(ErrStructural, "NewState", "bond %d (%s) references atom %d, out of range (%d atoms)", i, b, id, n)
			}
		}
		if b.o != b.OA && b.o != b.OB {
			b.o = b.OA
		}
		S.occD[sitetypes[b.HA]]++
		S.occD[sitetypes[b.HB]]++
	}
	S.recompute()
	return S, nil
}

// recompute obtains all the aggregates from scratch.
func (S *State) recompute() {
	for i := range S.coord {
		S.coord[i] = 0
	}
	for k := range S.occN {
		delete(S.occN, k)
	}
	for _, b := range S.bonds {
		S.coord[b.o]++
		S.occN[S.types[b.ActiveH()]]++
	}
	S.viol = 0
	for _, o := range S.oxygens {
		S.viol += abs(S.coord[o] - S.target)
	}
}

// Randomize assigns each bond's hydrogen to OA with probability OccA, and to OB otherwise.
func (S *State) Randomize(rng *rand.Rand) {
	for _, b := range S.bonds {
		if rng.Float64() < b.OccA {
			b.o = b.OA
		} else {
			b.o = b.OB
		}
	}
	S.recompute()
}

// Displace flips the ith bond: the hydrogen moves to the other oxygen.
// Displacing the same bond twice leaves the state exactly as it was.
func (S *State) Displace(i int) {
	b := S.bonds[i]
	from, to := b.o, b.OB
	if from == b.OB {
		to = b.OA
	}
	S.viol -= abs(S.coord[from]-S.target) + abs(S.coord[to]-S.target)
	S.coord[from]--
	S.coord[to]++
	S.viol += abs(S.coord[from]-S.target) + abs(S.coord[to]-S.target)
	S.occN[S.types[b.ActiveH()]]--
	b.o = to
	S.occN[S.types[b.ActiveH()]]++
}

// Violation returns the sum, over all oxygens, of the absolute difference
// between their coordination and the target.
func (S *State) Violation() int { return S.viol }

// Imbalance returns the absolute difference between the coordinations of the
// two oxygens of the ith bond.
func (S *State) Imbalance(i int) int {
	b := S.bonds[i]
	return abs(S.coord[b.OA] - S.coord[b.OB])
}

// Coord returns the number of bonds whose hydrogen currently belongs to oxygen o.
func (S *State) Coord(o int) int { return S.coord[o] }

// Target returns the target coordination.
func (S *State) Target() int { return S.target }

// Occupancy returns the number of currently present hydrogens with site type label, and
// the total number of hydrogens with that label in the bonds.
func (S *State) Occupancy(label string) (n, d int) {
	return S.occN[label], S.occD[label]
}

// Fraction returns the current occupancy fraction for the site type label, or 0 if no
// bond contains a hydrogen with that label.
func (S *State) Fraction(label string) float64 {
	n, d := S.Occupancy(label)
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}

// Labels returns the hydrogen site types present in the bonds, sorted.
func (S *State) Labels() []string {
	ret := make([]string, 0, len(S.occD))
	for k := range S.occD {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

// SiteType returns the site type label of the atom with index id.
func (S *State) SiteType(id int) string { return S.types[id] }

// Bonds returns the bonds of the state. They must not be modified.
func (S *State) Bonds() []*HBond { return S.bonds }

// Len returns the number of bonds.
func (S *State) Len() int { return len(S.bonds) }

// Oxygens returns the ids of the oxygens considered in the violation.
func (S *State) Oxygens() []int { return S.oxygens }

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}
