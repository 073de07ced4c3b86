/*
 * hbonds.go, part of hielo.
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
	"math"
	"sort"
	"strings"
)

// DefaultOccupancy is the occupancy given to hydrogen site types absent from the site table.
const DefaultOccupancy = 0.5

// occupancy sums of a bond must be within this distance of 1.
const occTolerance = 0.01

// SiteTable maps lowercase hydrogen site-type labels to their target
// occupancy fraction, in (0,1).
type SiteTable map[string]float64

// Occupancy returns the target occupancy for label, or def if the label is not in the table.
func (T SiteTable) Occupancy(label string, def float64) float64 {
	if occ, ok := T[strings.ToLower(label)]; ok {
		return occ
	}
	return def
}

// Labels returns the labels in the table, sorted.
func (T SiteTable) Labels() []string {
	ret := make([]string, 0, len(T))
	for k := range T {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

// Validate checks that all labels are lowercase and all occupancies are in (0,1).
func (T SiteTable) Validate() error {
	for _, k := range T.Labels() {
		v := T[k]
		if k != strings.ToLower(k) {
			return newError(ErrConsistency, "SiteTable.Validate", "site-type label %q is not lowercase", k)
		}
		if v <= 0 || v >= 1 || math.IsNaN(v) {
			return newError(ErrConsistency, "SiteTable.Validate", "occupancy %g for site type %q is not in (0,1)", v, k)
		}
	}
	return nil
}

// HBond is a disordered hydrogen bond: two oxygens, OA and OB, and two candidate
// hydrogens, HA (the one closer to OA) and HB (closer to OB). Exactly one of the
// hydrogens is present at any time, the one belonging to the currently active oxygen.
type HBond struct {
	OA, OB     int
	HA, HB     int
	OccA, OccB float64 //target occupancies for HA and HB
	o          int     //the oxygen that currently possesses the hydrogen.
}

// NewHBond returns a hydrogen bond with the given oxygens, hydrogens and target
// occupancies. The active oxygen is initially OA. It returns an ErrConsistency error
// if occa+occb is not within 0.01 of 1.
func NewHBond(oa, ob, ha, hb int, occa, occb float64) (*HBond, error) {
	if oa == ob || ha == hb {
		return nil, newError(ErrStructural, "NewHBond", "bond %d-%d-%d-%d repeats an atom", oa, ha, hb, ob)
	}
	if s := occa + occb; s < 1-occTolerance || s > 1+occTolerance || math.IsNaN(s) {
		return nil, newError(ErrConsistency, "NewHBond", "hydrogens %d and %d should have occupancies that add up to one, got %g + %g", ha, hb, occa, occb)
	}
	return &HBond{OA: oa, OB: ob, HA: ha, HB: hb, OccA: occa, OccB: occb, o: oa}, nil
}

// Active returns the oxygen that currently possesses the hydrogen.
func (H *HBond) Active() int { return H.o }

// AtA returns true if the hydrogen currently belongs to OA.
func (H *HBond) AtA() bool { return H.o == H.OA }

// ActiveH returns the hydrogen currently present.
func (H *HBond) ActiveH() int {
	if H.o == H.OA {
		return H.HA
	}
	return H.HB
}

// InactiveH returns the alternate hydrogen, currently absent.
func (H *HBond) InactiveH() int {
	if H.o == H.OA {
		return H.HB
	}
	return H.HA
}

// Copy returns a copy of the bond, including its current state.
func (H *HBond) Copy() *HBond {
	c := *H
	return &c
}

func (H *HBond) String() string {
	return fmt.Sprintf("%d-%d-%d-%d (active %d)", H.OA, H.HA, H.HB, H.OB, H.o)
}

// Builder turns a contact map into hydrogen bonds.
type Builder struct {
	// Table gives the target occupancy of each hydrogen site type.
	Table SiteTable
	// DefaultOccupancy is used for the site types that are not in Table.
	DefaultOccupancy float64
	// Cutoff is used in the distance calculations that decide which hydrogen
	// belongs to each oxygen.
	Cutoff float64
	// Coordination is the number of hydrogens each oxygen must end up with. Every
	// oxygen must take part in exactly 2*Coordination bonds.
	Coordination int
}

// NewBuilder returns a Builder for table with the default occupancy, cutoff and
// coordination (2, the ice rule).
func NewBuilder(table SiteTable) *Builder {
	return &Builder{Table: table, DefaultOccupancy: DefaultOccupancy, Cutoff: DefaultContactCutoff, Coordination: 2}
}

// Build returns one hydrogen bond for each pair of hydrogens that share the same two
// oxygen neighbors, ordered by the lowest hydrogen index of the pair. OA and OB are
// the oxygens in the order of the contact map; HA is the hydrogen of the pair closer
// to OA and HB the other one. It fails with ErrStructural if an oxygen pair is shared
// by other than two hydrogens or if an oxygen doesn't take part in exactly
// 2*Coordination bonds, and with ErrConsistency if the occupancies of a pair are not
// complementary.
func (B *Builder) Build(C *Crystal, contacts ContactMap) ([]*HBond, error) {
	if C.Lattice == nil {
		return nil, newError(ErrStructural, "Builder.Build", "crystal has no lattice")
	}
	if B.Coordination < 1 {
		return nil, newError(ErrStructural, "Builder.Build", "coordination must be at least 1, got %d", B.Coordination)
	}
	if err := contacts.Validate(C); err != nil {
		return nil, errDecorate(err, "Builder.Build")
	}
	hs := contacts.Hydrogens()
	pairs := make(map[[2]int][]int, len(hs)/2)
	for _, h := range hs {
		k := pairKey(contacts[h])
		pairs[k] = append(pairs[k], h)
	}
	bonds := make([]*HBond, 0, len(hs)/2)
	var bad []string
	for _, hi := range hs {
		o := contacts[hi]
		shared := pairs[pairKey(o)]
		if len(shared) != 2 {
			if shared[0] == hi {
				bad = append(bad, fmt.Sprintf("oxygens %d-%d shared by hydrogens %v", o[0], o[1], shared))
			}
			continue
		}
		if shared[0] != hi {
			continue //the pair was built when we saw its lowest hydrogen.
		}
		hj := shared[1]
		oa, ob := o[0], o[1]
		ha, hb := hi, hj
		pa := C.Pos(oa)
		if C.Lattice.Distance(pa, C.Pos(hj), B.Cutoff) < C.Lattice.Distance(pa, C.Pos(hi), B.Cutoff) {
			ha, hb = hj, hi
		}
		occa := B.Table.Occupancy(C.Atom(ha).SiteType(), B.DefaultOccupancy)
		occb := B.Table.Occupancy(C.Atom(hb).SiteType(), B.DefaultOccupancy)
		hbond, err := NewHBond(oa, ob, ha, hb, occa, occb)
		if err != nil {
			return nil, errDecorate(err, "Builder.Build")
		}
		bonds = append(bonds, hbond)
	}
	if len(bad) > 0 {
		return nil, newError(ErrStructural, "Builder.Build", "hydrogen pairs not found: %s", strings.Join(bad, "; "))
	}
	if err := checkReferences(C.Oxygens(), bonds, 2*B.Coordination); err != nil {
		return nil, errDecorate(err, "Builder.Build")
	}
	return bonds, nil
}

// pairKey returns the two oxygens of a contact in increasing order, so hydrogens
// listing them in any order share the key.
func pairKey(o []int) [2]int {
	return [2]int{min(o[0], o[1]), max(o[0], o[1])}
}

// checkReferences verifies that each oxygen takes part in exactly n bonds.
func checkReferences(oxygens []int, bonds []*HBond, n int) error {
	refs := make(map[int]int, len(oxygens))
	for _, b := range bonds {
		refs[b.OA]++
		refs[b.OB]++
	}
	var bad []int
	for _, o := range oxygens {
		if refs[o] != n {
			bad = append(bad, o)
		}
	}
	if len(bad) > 0 {
		return newError(ErrStructural, "checkReferences", "oxygens not in exactly %d hydrogen bonds: %s", n, listIDs(bad, 20))
	}
	return nil
}

// CopyBonds returns deep copies of the bonds, so they can be annealed independently.
func CopyBonds(bonds []*HBond) []*HBond {
	ret := make([]*HBond, len(bonds))
	for i, v := range bonds {
		ret[i] = v.Copy()
	}
	return ret
}
